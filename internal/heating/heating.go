// Package heating turns TRV heating demand into boiler control through
// the Home Assistant Core API. A TRV demands heat when it reports
// hvac_action "heating" and, when valve checking is enabled, its
// companion valve sensor is open. Any demanding TRV turns the boiler on;
// none turns it off.
package heating

import (
	"context"
	"log"
	"strings"

	"github.com/hindley/argon-addons/internal/supervisor"
)

// Mode selects how the boiler entity is driven.
type Mode string

const (
	// ModeThermostat drives a climate entity through presets and a
	// manual setpoint.
	ModeThermostat Mode = "thermostat"
	// ModeToggle drives a switch-like entity with turn_on/turn_off.
	ModeToggle Mode = "toggle"
)

// Default manual setpoints for thermostat mode, in celsius.
const (
	DefaultManualOn  = 21.0
	DefaultManualOff = 14.0
)

// CoreAPI is the slice of the supervisor client the manager uses.
type CoreAPI interface {
	State(ctx context.Context, entityID string) (supervisor.EntityState, error)
	CallService(ctx context.Context, domain, service string, payload any) error
}

// Config describes the entities under management. Immutable after
// startup.
type Config struct {
	// TRVs lists the climate entities polled for heating demand.
	TRVs []string
	// Boiler is the entity driven by aggregate demand. Empty disables
	// boiler control; demand is still evaluated and logged.
	Boiler string
	// Mode picks the boiler driving strategy.
	Mode Mode
	// ManualOn and ManualOff are the thermostat setpoints for demand
	// and no demand.
	ManualOn  float64
	ManualOff float64
	// CheckValves gates demand on the TRV's valve sensor being open.
	CheckValves bool
}

// Manager polls TRVs and drives the boiler. One Cycle call runs one
// poll pass.
type Manager struct {
	api CoreAPI
	cfg Config
}

func NewManager(api CoreAPI, cfg Config) *Manager {
	return &Manager{api: api, cfg: cfg}
}

// Cycle reads every TRV, derives aggregate demand and drives the
// boiler. It reports whether any TRV demanded heat.
func (m *Manager) Cycle(ctx context.Context) bool {
	demand := false
	for _, id := range m.cfg.TRVs {
		if m.trvDemandsHeat(ctx, id) {
			demand = true
		}
	}

	if m.cfg.Boiler == "" {
		if demand {
			log.Printf("heating: TRVs demand heat but no boiler entity is configured")
		}
		return demand
	}

	if err := m.driveBoiler(ctx, demand); err != nil {
		log.Printf("heating: drive boiler: %v", err)
	}
	return demand
}

func (m *Manager) trvDemandsHeat(ctx context.Context, id string) bool {
	state, err := m.api.State(ctx, id)
	if err != nil {
		log.Printf("heating: read %s: %v", id, err)
		return false
	}
	if state.StrAttr("hvac_action") != "heating" {
		return false
	}
	if m.cfg.CheckValves && !m.valveOpen(ctx, id) {
		log.Printf("heating: %s is heating but its valve is closed, ignoring demand", id)
		return false
	}
	log.Printf("heating: %s demands heat", id)
	return true
}

// valveCandidates derives the valve sensor entity ids tried for a TRV,
// most specific first.
func valveCandidates(trvID string) []string {
	_, name, ok := strings.Cut(trvID, ".")
	if !ok {
		return nil
	}
	out := []string{"binary_sensor." + name + "_valve_state"}
	if trimmed := strings.ReplaceAll(name, "_trv", ""); trimmed != name {
		out = append(out, "binary_sensor."+trimmed+"_valve_state")
	}
	return append(out, "sensor."+name+"_valve_state")
}

// valveOpen reports whether the TRV's companion valve sensor is open.
// The first candidate sensor that exists decides; a TRV with no valve
// sensor, or a sensor in an unrecognized state, is assumed open.
func (m *Manager) valveOpen(ctx context.Context, trvID string) bool {
	for _, id := range valveCandidates(trvID) {
		state, err := m.api.State(ctx, id)
		if err != nil {
			continue
		}
		switch strings.ToLower(state.State) {
		case "open", "opened", "on", "true":
			return true
		case "closed", "off", "false":
			return false
		default:
			log.Printf("heating: valve %s in state %q, assuming open", id, state.State)
			return true
		}
	}
	return true
}

func (m *Manager) driveBoiler(ctx context.Context, demand bool) error {
	if m.cfg.Mode == ModeToggle {
		return m.toggleBoiler(ctx, demand)
	}
	return m.setThermostat(ctx, demand)
}

type servicePayload struct {
	EntityID    string   `json:"entity_id"`
	PresetMode  string   `json:"preset_mode,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Preset fallback orders for enabling a manual setpoint. The heat path
// also accepts away because some thermostats only allow an override
// there.
var (
	presetsOn  = []string{"none", "manual", "away"}
	presetsOff = []string{"none", "manual"}
)

func (m *Manager) setThermostat(ctx context.Context, demand bool) error {
	target := m.cfg.ManualOff
	presets := presetsOff
	if demand {
		target = m.cfg.ManualOn
		presets = presetsOn
	}

	// Already at the setpoint outside schedule mode: nothing to do.
	if state, err := m.api.State(ctx, m.cfg.Boiler); err == nil {
		if temp, ok := state.NumAttr("temperature"); ok &&
			temp == target && state.StrAttr("preset_mode") != "schedule" {
			return nil
		}
	}

	for _, preset := range presets {
		err := m.api.CallService(ctx, "climate", "set_preset_mode", servicePayload{
			EntityID:   m.cfg.Boiler,
			PresetMode: preset,
		})
		if err == nil {
			log.Printf("heating: boiler preset set to %q", preset)
			break
		}
		log.Printf("heating: set preset %q: %v", preset, err)
	}

	log.Printf("heating: setting boiler %s to %g", m.cfg.Boiler, target)
	return m.api.CallService(ctx, "climate", "set_temperature", servicePayload{
		EntityID:    m.cfg.Boiler,
		Temperature: &target,
	})
}

func (m *Manager) toggleBoiler(ctx context.Context, demand bool) error {
	want, service := "off", "turn_off"
	if demand {
		want, service = "on", "turn_on"
	}

	if state, err := m.api.State(ctx, m.cfg.Boiler); err == nil && state.State == want {
		return nil
	}

	domain := "switch"
	if d, _, ok := strings.Cut(m.cfg.Boiler, "."); ok {
		domain = d
	}
	log.Printf("heating: turning boiler %s %s", m.cfg.Boiler, want)
	return m.api.CallService(ctx, domain, service, servicePayload{EntityID: m.cfg.Boiler})
}
