// Command argon-fan drives the Argon ONE case fan from the CPU temperature
// curve in the add-on options. The shutdown and fanoff subcommands are
// one-shot MCU writes used by the host shutdown hook.
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

	"github.com/hindley/argon-addons/internal/fanctl"
	"github.com/hindley/argon-addons/internal/options"
	"github.com/hindley/argon-addons/internal/screen"
	"github.com/hindley/argon-addons/internal/sysinfo"
)

func main() {
	bus := flag.String("bus", fanctl.DefaultBus, "I2C bus name for the fan MCU")
	httpAddr := flag.String("http", "", "HTTP metrics address (empty to disable)")
	optionsPath := flag.String("options", options.DefaultPath, "Add-on options file")

	flag.Parse()

	if err := run(*bus, *httpAddr, *optionsPath, flag.Args()); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// fanSpeed reports the duty last written to the MCU.
var fanSpeed = metrics.NewGauge("argon_fan_speed_percent", nil)

func run(bus, httpAddr, optionsPath string, args []string) error {
	mcu, err := fanctl.OpenMCU(bus)
	if err != nil {
		return fmt.Errorf("init mcu: %w", err)
	}
	defer mcu.Close()

	if len(args) > 0 {
		return runCommand(mcu, args[0])
	}

	opts := options.LoadFan(optionsPath)
	ctl := fanctl.NewController(fanctl.NewCurve(opts.Steps), mcu)

	// Fan off until the first evaluation so the assumed rest state is real.
	if err := mcu.SetDuty(0); err != nil {
		log.Printf("fanctl: initial fan off: %v", err)
	}

	if httpAddr != "" {
		srv := metricsServer(httpAddr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http metrics server listening on %s", httpAddr)
	}

	log.Printf("started: steps=%v check=%v unit=%s", opts.Steps, opts.CheckInterval, opts.TempUnit)

	ticker := time.NewTicker(opts.CheckInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	col := sysinfo.NewCollector()
	return runLoop(ctl, col.CPUTemp, opts.TempUnit, opts.Debug, time.Now, ticker.C, sigCh)
}

// runCommand performs the one-shot MCU subcommands.
func runCommand(mcu *fanctl.MCU, cmd string) error {
	switch strings.ToLower(cmd) {
	case "shutdown":
		log.Printf("fanctl: signalling board power cut")
		return mcu.SignalShutdown()
	case "fanoff":
		log.Printf("fanctl: fan off")
		return mcu.SetDuty(0)
	case "test":
		return runTest(mcu, time.Sleep)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// testDuties is the audible sweep run by the test subcommand.
var testDuties = []int{30, 60, 100, 0}

func runTest(w fanctl.Writer, pause func(time.Duration)) error {
	log.Printf("fanctl: test sweep")
	for _, duty := range testDuties {
		if err := w.SetDuty(duty); err != nil {
			return fmt.Errorf("test duty %d: %w", duty, err)
		}
		log.Printf("fanctl: test duty %d%%", duty)
		pause(5 * time.Second)
	}
	return nil
}

// toUnit converts a Celsius reading into the configured unit for log
// output. The fan curve itself always compares Celsius.
func toUnit(c float64, unit screen.TempUnit) float64 {
	if unit == screen.Fahrenheit {
		return c*9/5 + 32
	}
	return c
}

func runLoop(ctl *fanctl.Controller, temp func() (float64, error), unit screen.TempUnit, debug bool, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	evaluate := func() {
		c, err := temp()
		if err != nil {
			log.Printf("fanctl: cpu temp: %v", err)
			return
		}
		if debug {
			log.Printf("fanctl: cpu temp %.1f%s", toUnit(c, unit), unit)
		}
		ctl.Evaluate(c, now())
		fanSpeed.Set(float64(ctl.Current()))
	}

	// Evaluate once at start so a hot CPU is not stuck at rest for a
	// whole check interval.
	evaluate()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down (fan stays at %d%%)", s, ctl.Current())
			return nil
		case <-tick:
			evaluate()
		}
	}
}

func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		metrics.WritePrometheus(w, true)
	})
	return &http.Server{Addr: addr, Handler: mux}
}
