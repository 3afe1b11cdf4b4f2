// Package bot – Prometheus instrumentation for handled chat events.
//
// Labels are kept low-cardinality: "kind" is the event class (command,
// callback, text) plus the dispatched command or callback prefix, never raw
// user input.
package bot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// botEvents counts handled inbound events by kind.
	botEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_total",
			Help: "Total number of handled chat events.",
		},
		[]string{"kind"},
	)

	// botEventLat records per-event handling duration in seconds.
	botEventLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_event_duration_seconds",
			Help:    "Duration of chat event handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// botErrors counts handler failures by kind.
	botErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_event_errors_total",
			Help: "Total number of chat event handler failures.",
		},
		[]string{"kind"},
	)

	// botStale counts silently dropped stale or duplicate taps.
	botStale = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_stale_callbacks_total",
			Help: "Total number of callbacks dropped by the active-prompt gate.",
		},
	)
)

func init() {
	prometheus.MustRegister(botEvents, botEventLat, botErrors, botStale)
}

// observe records one handled event of the given kind.
func observe(kind string, start time.Time, err error) {
	botEvents.WithLabelValues(kind).Inc()
	botEventLat.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		botErrors.WithLabelValues(kind).Inc()
	}
}
