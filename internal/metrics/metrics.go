// Package metrics exposes Prometheus instrumentation for the control
// core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Ticks counts control loop iterations.
	Ticks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rovcore_control_ticks_total",
		Help: "Control loop iterations.",
	})

	// Transitions counts state machine transitions by target state and
	// coarse reason code (intent_timeout, channel_fault, or empty for
	// pilot-initiated transitions).
	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rovcore_state_transitions_total",
		Help: "Safety state machine transitions.",
	}, []string{"to", "reason"})

	// State reflects the current safety state (0 disarmed, 1 armed,
	// 2 fault).
	State = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rovcore_state",
		Help: "Current safety state (0=DISARMED, 1=ARMED, 2=FAULT).",
	})

	// ChannelCommand reflects the last commanded normalized thrust per
	// channel, after clamping and slew limiting.
	ChannelCommand = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rovcore_channel_command",
		Help: "Last commanded normalized thrust per channel.",
	}, []string{"channel"})

	// SamplesLogged counts telemetry records written to the CSV log.
	SamplesLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rovcore_samples_logged_total",
		Help: "Sensor samples written to the telemetry log.",
	})

	// SamplesDropped counts telemetry records dropped under
	// backpressure.
	SamplesDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rovcore_samples_dropped_total",
		Help: "Sensor samples dropped because the log backlog was full.",
	})

	// IntentRejected counts command intake rejections by reason.
	IntentRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rovcore_intent_rejected_total",
		Help: "Pilot intents rejected at the intake boundary.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(
		Ticks,
		Transitions,
		State,
		ChannelCommand,
		SamplesLogged,
		SamplesDropped,
		IntentRejected,
	)
}
