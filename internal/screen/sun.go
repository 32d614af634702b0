package screen

import (
	"fmt"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// SunSchedule holds the computed sun times for one local day.
type SunSchedule struct {
	Dawn    time.Time
	Sunrise time.Time
	Sunset  time.Time
	Dusk    time.Time
}

// ComputeSunSchedule returns civil dawn, sunrise, sunset and civil dusk
// for the local day containing now at the given coordinates.
func ComputeSunSchedule(now time.Time, lat, lon float64) (SunSchedule, error) {
	observer := astral.Observer{
		Latitude:  lat,
		Longitude: lon,
		Elevation: 0,
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var sched SunSchedule
	var err error
	if sched.Dawn, err = astral.Dawn(observer, midnight, astral.DepressionCivil); err != nil {
		return SunSchedule{}, fmt.Errorf("dawn: %w", err)
	}
	if sched.Sunrise, err = astral.Sunrise(observer, midnight); err != nil {
		return SunSchedule{}, fmt.Errorf("sunrise: %w", err)
	}
	if sched.Sunset, err = astral.Sunset(observer, midnight); err != nil {
		return SunSchedule{}, fmt.Errorf("sunset: %w", err)
	}
	if sched.Dusk, err = astral.Dusk(observer, midnight, astral.DepressionCivil); err != nil {
		return SunSchedule{}, fmt.Errorf("dusk: %w", err)
	}
	return sched, nil
}
