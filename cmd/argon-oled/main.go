// Command argon-oled drives the Argon ONE OLED panel: it polls the power
// button, classifies gestures, rotates status screens and runs the
// hold-to-reboot/shutdown sequence against the Supervisor.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/hindley/argon-addons/internal/button"
	"github.com/hindley/argon-addons/internal/display"
	"github.com/hindley/argon-addons/internal/events"
	"github.com/hindley/argon-addons/internal/gesture"
	"github.com/hindley/argon-addons/internal/options"
	"github.com/hindley/argon-addons/internal/power"
	"github.com/hindley/argon-addons/internal/rotation"
	"github.com/hindley/argon-addons/internal/screen"
	"github.com/hindley/argon-addons/internal/status"
	"github.com/hindley/argon-addons/internal/supervisor"
	"github.com/hindley/argon-addons/internal/sysinfo"
	"github.com/hindley/argon-addons/internal/web"
)

func main() {
	poll := flag.Duration("poll", 50*time.Millisecond, "Button polling interval")
	debounce := flag.Duration("debounce", gesture.DefaultDebounce, "Button debounce interval")
	broker := flag.String("broker", "tcp://core-mosquitto:1883", "MQTT broker address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	pin := flag.Int("pin", button.DefaultPin, "BCM pin number for the power button")
	bus := flag.String("bus", display.DefaultBus, "I2C bus name for the OLED")
	httpAddr := flag.String("http", ":8099", "HTTP status address (empty to disable)")
	optionsPath := flag.String("options", options.DefaultPath, "Add-on options file")

	flag.Parse()

	if err := run(*poll, *debounce, *heartbeat, *broker, *pin, *bus, *httpAddr, *optionsPath); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll, debounce, heartbeat time.Duration, broker string, pin int, bus, httpAddr, optionsPath string) error {
	opts := options.LoadOLED(optionsPath)

	names := make([]string, len(opts.Screens))
	for i, id := range opts.Screens {
		names[i] = string(id)
	}
	screenList := strings.Join(names, " ")

	// Initialize the button line
	reader, err := button.NewRealReader(pin)
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer reader.Close()

	// Initialize the panel
	oled, err := display.OpenOLED(bus)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	dev := display.NewDeduper(oled)
	defer func() {
		if err := dev.Halt(); err != nil {
			log.Printf("display halt error: %v", err)
		}
	}()

	// Supervisor client and power permission
	sup := supervisor.New(supervisor.DefaultBaseURL, opts.Token)
	perm := sup.CheckPowerPermission(context.Background())
	if perm.Allowed {
		log.Printf("host power control permitted")
	} else {
		log.Printf("host power control denied: %s", perm.Reason)
	}

	// Initialize MQTT
	var publisher events.Publisher
	var mqttStatus events.ConnectionStatus
	if broker == "" {
		log.Printf("mqtt disabled, no broker configured")
		p := events.NewDisabledPublisher()
		publisher, mqttStatus = p, p
	} else {
		p, err := events.NewRealPublisher(broker, "argon-oled")
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher, mqttStatus = p, p
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:        poll.Milliseconds(),
		SwitchSeconds: int64(opts.SwitchInterval.Seconds()),
		Screens:       screenList,
		TempUnit:      string(opts.TempUnit),
		Broker:        broker,
		HTTPAddr:      httpAddr,
	})
	tracker.SetPermission(perm.Allowed, perm.Reason)

	// Publish startup event with the effective configuration
	startup := events.SystemEvent{
		Timestamp: time.Now(),
		Event:     events.SystemStartup,
		Retained:  true,
		Config: &events.SystemConfig{
			PollMs:        int(poll.Milliseconds()),
			Screens:       screenList,
			SwitchSeconds: int(opts.SwitchInterval.Seconds()),
			Broker:        broker,
		},
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		var auth *web.BasicAuth
		if opts.WebUser != "" && opts.WebPasswordHash != "" {
			auth = &web.BasicAuth{Username: opts.WebUser, Hash: []byte(opts.WebPasswordHash)}
		}
		srv := web.New(httpAddr, tracker, auth)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	if opts.MetricsPushURL != "" {
		if err := metrics.InitPush(opts.MetricsPushURL, metricsPushInterval, "", true); err != nil {
			log.Printf("metrics push init error: %v", err)
		}
	}

	// Background collector feeds the screen snapshot and the tracker IP.
	store := &screen.Store{}
	stopCollect := make(chan struct{})
	defer close(stopCollect)
	go collectLoop(store, sysinfo.NewCollector(), sup, tracker, opts.Latitude, opts.Longitude, stopCollect)

	log.Printf("started: poll=%v debounce=%v screens=%q switch=%v broker=%s", poll, debounce, screenList, opts.SwitchInterval, broker)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loop{
		reader:     reader,
		host:       sup,
		permitted:  perm.Allowed,
		screens:    names,
		rotate:     opts.SwitchInterval,
		debounce:   debounce,
		renderer:   screen.NewRenderer(opts.TempUnit),
		store:      store,
		dev:        dev,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		heartbeat:  heartbeat,
		debug:      opts.ButtonDebug,
	}, time.Now, ticker.C, sigCh)
}

const metricsPushInterval = 10 * time.Second

// rotationsTotal counts screen changes, timed and navigated alike.
var rotationsTotal = metrics.NewCounter("argon_oled_rotations_total")

// loop bundles the runLoop collaborators. The classifier, sequencer and
// scheduler are built inside runLoop from the injected clock so tests get
// deterministic thresholds.
type loop struct {
	reader     button.Reader
	host       power.HostAPI
	permitted  bool
	screens    []string
	rotate     time.Duration
	debounce   time.Duration
	renderer   *screen.Renderer
	store      *screen.Store
	dev        display.Device
	publisher  events.Publisher
	mqttStatus events.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  time.Duration
	debug      bool
}

func runLoop(l loop, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	classifier := gesture.NewClassifier(gesture.Config{Debounce: l.debounce}, startTime)
	seq := power.NewSequencer(l.host, l.permitted, power.Config{})
	sched := rotation.NewScheduler(l.screens, l.rotate, startTime)

	prevPhase := power.PhaseIdle
	lastRaw := false

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := events.SystemEvent{
				Timestamp: now(),
				Event:     events.SystemShutdown,
				Reason:    signalName,
				Retained:  true,
			}
			if err := l.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			pressed, err := l.reader.Read()
			if err != nil {
				log.Printf("button read error: %v", err)
				pressed = false
			}
			if l.debug && pressed != lastRaw {
				log.Printf("button: line %s", lineString(pressed))
			}
			lastRaw = pressed

			current, _ := sched.Current()
			for _, ev := range classifier.Process(gesture.Input{Pressed: pressed, Time: t}) {
				consumed := seq.Handle(ev)
				if !consumed && sched.HandleEvent(ev) {
					rotationsTotal.Inc()
				}
				if ev.Kind == gesture.KindHoldTick {
					continue
				}
				log.Printf("gesture: %s", ev.Kind)
				metrics.GetOrCreateCounter(fmt.Sprintf(`argon_oled_gestures_total{kind=%q}`, ev.Kind)).Inc()
				if err := l.publisher.Publish(events.GestureEvent(ev, current)); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			seq.Advance(t)
			overlay := seq.Overlay(t)
			if overlay.Phase != prevPhase {
				log.Printf("power: %s target=%s", overlay.Phase, overlay.Target)
				if err := l.publisher.Publish(events.PowerEvent(t, overlay.Phase, overlay.Target)); err != nil {
					log.Printf("publish error: %v", err)
				}
				prevPhase = overlay.Phase
			}

			// Suspension must land before the rotation decision this tick.
			suspended := classifier.Pressed() || seq.Busy()
			sched.SetSuspended(suspended, t)
			if sched.Tick(t) {
				rotationsTotal.Inc()
			}
			current, _ = sched.Current()

			var frame *image1bit.VerticalLSB
			if seq.Busy() {
				frame = l.renderer.RenderOverlay(overlay)
			} else {
				frame = l.renderer.Render(screen.ID(current), l.store.Snapshot(), t)
			}
			if err := l.dev.Draw(frame); err != nil {
				log.Printf("display write error: %v", err)
			}

			// Check for heartbeat
			if hb := classifier.CheckHeartbeat(t, l.heartbeat); hb != nil {
				log.Printf("heartbeat: uptime=%v taps=%d double_taps=%d long_presses=%d hold_releases=%d",
					hb.Uptime, hb.Counts.Taps, hb.Counts.DoubleTaps, hb.Counts.LongPresses, hb.Counts.HoldReleases)
				if err := l.publisher.PublishSystem(events.HeartbeatEvent(*hb, current)); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if l.tracker != nil {
				l.tracker.Update(current, suspended, overlay.Phase, overlay.Target, classifier.CountsSnapshot())
				if l.mqttStatus != nil {
					l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
				}
			}
		}
	}
}

// Slow-path collection intervals. The system stats are cheap /proc reads;
// the supervisor round trips are not, so they refresh on a multiple.
const (
	statsInterval   = 2 * time.Second
	supervisorEvery = 30
)

func collectLoop(store *screen.Store, col *sysinfo.Collector, sup *supervisor.Client, tracker *status.Tracker, lat, lon float64, stop <-chan struct{}) {
	refreshStats(store, col)
	refreshSupervisor(store, sup, tracker, lat, lon)

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
			refreshStats(store, col)
			if n%supervisorEvery == 0 {
				refreshSupervisor(store, sup, tracker, lat, lon)
			}
		}
	}
}

func refreshStats(store *screen.Store, col *sysinfo.Collector) {
	snap := store.Snapshot()
	if v, err := col.CPUTemp(); err != nil {
		log.Printf("sysinfo: cpu temp: %v", err)
	} else {
		snap.CPUTemp = v
	}
	if v, err := col.CPUUsage(); err != nil {
		log.Printf("sysinfo: cpu usage: %v", err)
	} else {
		snap.CPUUsage = v
	}
	if mem, err := col.MemoryUsage(); err != nil {
		log.Printf("sysinfo: memory: %v", err)
	} else {
		snap.MemUsedMB, snap.MemTotalMB, snap.MemPercent = mem.UsedMB, mem.TotalMB, mem.Percent
	}
	if disk, err := col.DiskUsage(); err != nil {
		log.Printf("sysinfo: disk: %v", err)
	} else {
		snap.DiskUsedGB, snap.DiskTotalGB, snap.DiskPercent = disk.UsedGB, disk.TotalGB, disk.Percent
	}
	store.Set(snap)
}

func refreshSupervisor(store *screen.Store, sup *supervisor.Client, tracker *status.Tracker, lat, lon float64) {
	ctx := context.Background()
	snap := store.Snapshot()

	// Supervisor network info first, local UDP probe as fallback.
	ip, err := sup.HostIP(ctx)
	if err != nil {
		ip, err = sysinfo.LocalIP()
	}
	if err != nil {
		log.Printf("network info: %v", err)
	} else if ip != "" {
		snap.IP = ip
		if tracker != nil {
			tracker.SetIP(ip)
		}
	}

	sys := sup.SystemStatus(ctx)
	snap.Updates = sys.Updates
	snap.LastBackup = sys.LastBackup
	snap.BackupState = sys.BackupState

	if cfg, err := sup.CoreConfig(ctx); err != nil {
		log.Printf("supervisor: core config: %v", err)
	} else {
		snap.CoreVersion = cfg.Version
		snap.CoreState = cfg.State
	}

	if lat != 0 || lon != 0 {
		if sched, err := screen.ComputeSunSchedule(time.Now(), lat, lon); err != nil {
			log.Printf("sun schedule: %v", err)
		} else {
			snap.SunValid = true
			snap.Dawn, snap.Sunrise = sched.Dawn, sched.Sunrise
			snap.Sunset, snap.Dusk = sched.Sunset, sched.Dusk
		}
	}

	store.Set(snap)
}

func lineString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
