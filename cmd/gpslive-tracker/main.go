// Command gpslive-tracker is the supervision placeholder for the GPS
// add-on slot. It logs a heartbeat, optionally announcing it over MQTT,
// until the receiver integration lands.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hindley/argon-addons/internal/events"
	"github.com/hindley/argon-addons/internal/options"
)

func main() {
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	optionsPath := flag.String("options", options.DefaultPath, "Add-on options file")

	flag.Parse()

	if err := run(*broker, *optionsPath); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(broker, optionsPath string) error {
	opts := options.LoadGPS(optionsPath)

	var publisher events.Publisher
	if broker == "" {
		publisher = events.NewDisabledPublisher()
	} else {
		p, err := events.NewRealPublisher(broker, "gpslive-tracker")
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher = p
	}
	defer publisher.Close()

	log.Printf("started: heartbeat=%v broker=%s", opts.Heartbeat, broker)

	ticker := time.NewTicker(opts.Heartbeat)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(publisher, time.Now, ticker.C, sigCh)
}

func runLoop(publisher events.Publisher, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return nil
		case <-tick:
			t := now()
			uptime := t.Sub(startTime)
			log.Printf("heartbeat: uptime=%v, waiting for gps hardware", uptime)
			// Not retained: the placeholder must not clobber the OLED
			// daemon's retained heartbeat on the system topic.
			event := events.SystemEvent{
				Timestamp: t,
				Event:     events.SystemHeartbeat,
				Heartbeat: &events.HeartbeatInfo{
					UptimeSeconds: int64(uptime.Seconds()),
				},
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}
	}
}
