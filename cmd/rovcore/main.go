// Package main implements the ROV control core entry point.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rov-control/rovcore/internal/actuation"
	"github.com/rov-control/rovcore/internal/actuation/fake"
	"github.com/rov-control/rovcore/internal/actuation/rpipwm"
	"github.com/rov-control/rovcore/internal/audit"
	"github.com/rov-control/rovcore/internal/config"
	"github.com/rov-control/rovcore/internal/intent"
	"github.com/rov-control/rovcore/internal/metrics"
	"github.com/rov-control/rovcore/internal/sensor"
	"github.com/rov-control/rovcore/internal/supervisor"
	"github.com/rov-control/rovcore/internal/telemetry"
)

const Version = "1.0.0"

func main() {
	log.Printf("Starting ROV control core v%s", Version)

	// Step 1: Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully")

	// Step 2: Initialize status hub
	hub := telemetry.NewHub(cfg.StatusBuffer)
	log.Println("Status hub initialized")

	// Step 3: Initialize audit logger
	auditLogger, err := audit.NewLogger(cfg.AuditDir)
	if err != nil {
		log.Fatalf("Failed to initialize audit logger: %v", err)
	}
	log.Println("Audit logger initialized")

	// Step 4: Open the telemetry log
	sampleLog, err := telemetry.NewLogger(cfg.LogPath, cfg.LogBacklogCap)
	if err != nil {
		log.Fatalf("Failed to open telemetry log: %v", err)
	}
	log.Printf("Telemetry log open at %s", cfg.LogPath)

	// Step 5: Open the pulse output (hardware PWM, or a fake for
	// bench runs without a Pi)
	var out actuation.Output
	var hw *rpipwm.Output
	if os.Getenv("ROV_OUTPUT") == "fake" {
		out = fake.NewOutput()
		log.Println("Pulse output: fake (bench mode)")
	} else {
		hw, err = rpipwm.Open(cfg.Pins())
		if err != nil {
			log.Fatalf("Failed to open PWM output: %v", err)
		}
		out = hw
		log.Printf("Pulse output: hardware PWM on pins %v", cfg.Pins())
	}

	// Step 6: Create one driver per motor channel
	drivers := make([]supervisor.ChannelDriver, len(cfg.Channels))
	for i, ch := range cfg.Channels {
		drivers[i] = actuation.NewDriver(i, ch.Cal, out, cfg.ChannelCeiling, cfg.SlewPerTick)
	}
	log.Printf("%d channel drivers created", len(drivers))

	// Step 7: Create intake and supervisor, wire them together
	intake := intent.NewIntake(cfg.IntentMinInterval)
	sup := supervisor.New(intake, drivers, hub, cfg.ControlPeriod, cfg.IntentStaleTimeout)
	sup.SetAuditLogger(auditLogger)
	intake.SetStateSource(sup)
	intake.SetRejectionHook(func(err error) {
		metrics.IntentRejected.WithLabelValues(err.Error()).Inc()
		auditLogger.LogRejection("submitIntent", sup.Status().State.String(), err)
	})
	log.Println("Supervisor created")

	// Step 8: Locate the temperature probe
	var dev sensor.Device
	if probe, err := sensor.FindDS18B20(sensor.W1BaseDir); err == nil {
		dev = probe
		log.Println("DS18B20 temperature probe found")
	} else {
		log.Printf("No temperature probe: %v (samples will be invalid)", err)
	}
	sampler := sensor.NewSampler(dev, cfg.DegradedThreshold)

	// Step 9: Configure the obstacle rangefinder (hardware mode only,
	// it shares the GPIO mapping with the PWM output)
	var rf sensor.Rangefinder
	if hw != nil && cfg.RangeTriggerPin > 0 && cfg.RangeEchoPin > 0 {
		rf = sensor.NewJSNSR04T(cfg.RangeTriggerPin, cfg.RangeEchoPin)
		log.Printf("Rangefinder on trigger=%d echo=%d", cfg.RangeTriggerPin, cfg.RangeEchoPin)
	}

	runner := &sensor.Runner{
		Sampler:             sampler,
		Rangefinder:         rf,
		Recorder:            &sampleRecorder{log: sampleLog, hub: hub},
		Conditions:          sup,
		SamplePeriod:        cfg.SamplePeriod,
		ObstacleThresholdCm: cfg.ObstacleThresholdCm,
	}

	// Step 10: Optional metrics listener
	if addr := os.Getenv("ROV_METRICS_ADDR"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Metrics listener failed: %v", err)
			}
		}()
		log.Printf("Metrics listener on %s", addr)
	}

	// Step 11: Run the control and sensing loops
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sup.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		runner.Run(ctx)
	}()
	log.Printf("ROV control core started (control period %v)", cfg.ControlPeriod)

	// Set up graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	cancel()
	wg.Wait()
	log.Println("Control and sensing loops stopped")

	if err := sampleLog.Close(); err != nil {
		log.Printf("Error closing telemetry log: %v", err)
	}
	if err := auditLogger.Close(); err != nil {
		log.Printf("Error closing audit logger: %v", err)
	}
	hub.Close()
	if hw != nil {
		if err := hw.Close(); err != nil {
			log.Printf("Error closing PWM output: %v", err)
		}
	}

	log.Println("ROV control core shutdown complete")
}

// sampleRecorder appends each sample to the CSV log and mirrors it to
// the status hub.
type sampleRecorder struct {
	log *telemetry.Logger
	hub *telemetry.Hub
}

func (r *sampleRecorder) Append(s sensor.Sample) error {
	err := r.log.Append(s)
	data := map[string]interface{}{
		"ts":    s.Time.UTC().Format(time.RFC3339),
		"valid": s.Valid,
	}
	if s.Valid {
		data["tempC"] = s.TempC
		data["tempF"] = s.TempF
	}
	r.hub.Publish(telemetry.Event{Type: telemetry.EventSample, Data: data})
	return err
}
