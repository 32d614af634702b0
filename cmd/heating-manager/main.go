// Command heating-manager turns the boiler on and off from TRV heat
// demand through the Home Assistant core API.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hindley/argon-addons/internal/heating"
	"github.com/hindley/argon-addons/internal/options"
	"github.com/hindley/argon-addons/internal/supervisor"
)

func main() {
	optionsPath := flag.String("options", options.DefaultPath, "Add-on options file")

	flag.Parse()

	if err := run(*optionsPath); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// cycleTimeout bounds one full evaluation pass over every TRV plus the
// boiler call. The poll interval is far larger.
const cycleTimeout = time.Minute

func run(optionsPath string) error {
	opts := options.LoadHeating(optionsPath)

	// Missing configuration idles rather than exits so the add-on slot
	// stays supervised while being set up.
	configured := len(opts.TRVs) > 0
	switch {
	case !configured:
		log.Printf("heating: no trv entities configured, idling")
	case opts.Boiler == "":
		log.Printf("heating: no boiler entity configured, monitoring demand only")
	}

	api := supervisor.New(supervisor.DefaultBaseURL, opts.Token)
	mgr := heating.NewManager(api, heating.Config{
		TRVs:        opts.TRVs,
		Boiler:      opts.Boiler,
		Mode:        opts.Mode,
		ManualOn:    opts.ManualOn,
		ManualOff:   opts.ManualOff,
		CheckValves: opts.CheckValves,
	})

	log.Printf("started: trvs=%d boiler=%q mode=%s poll=%v", len(opts.TRVs), opts.Boiler, opts.Mode, opts.PollInterval)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(mgr, configured, opts.Debug, ticker.C, sigCh)
}

// cycler is the slice of heating.Manager the loop drives.
type cycler interface {
	Cycle(ctx context.Context) bool
}

func runLoop(mgr cycler, configured, debug bool, tick <-chan time.Time, sig <-chan os.Signal) error {
	cycle := func() {
		if !configured {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()
		demand := mgr.Cycle(ctx)
		if debug {
			log.Printf("heating: cycle complete, demand=%v", demand)
		}
	}

	// Cycle once at start; the ticker's first fire is a full interval away.
	cycle()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return nil
		case <-tick:
			cycle()
		}
	}
}
