package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	monitorRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dwmbar",
			Subsystem: "monitor",
			Name:      "runs_total",
			Help:      "Number of completed producer runs per monitor.",
		}, []string{"monitor"},
	)
	monitorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dwmbar",
			Subsystem: "monitor",
			Name:      "failures_total",
			Help:      "Number of failed producer runs per monitor.",
		}, []string{"monitor"},
	)
	monitorDisabled = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "dwmbar",
			Subsystem: "monitor",
			Name:      "disabled",
			Help:      "1 when a monitor was permanently disabled by a failed initial run.",
		}, []string{"monitor"},
	)
	monitorRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dwmbar",
			Subsystem: "monitor",
			Name:      "run_duration_seconds",
			Help:      "Producer run duration per monitor.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"monitor"},
	)
	barRenders = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dwmbar",
			Subsystem: "bar",
			Name:      "renders_total",
			Help:      "Number of bar renders pushed toward the sink.",
		},
	)
	sinkFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dwmbar",
			Subsystem: "bar",
			Name:      "sink_failures_total",
			Help:      "Number of failed display sink writes.",
		},
	)
	triggersPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dwmbar",
			Subsystem: "trigger",
			Name:      "published_total",
			Help:      "Trigger events published on the bus per monitor.",
		}, []string{"monitor"},
	)
	triggersDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dwmbar",
			Subsystem: "trigger",
			Name:      "dropped_total",
			Help:      "Trigger events dropped because a subscriber lagged.",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{
		monitorRuns, monitorFailures, monitorDisabled, monitorRunDuration,
		barRenders, sinkFailures, triggersPublished, triggersDropped,
	}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler exposes the default registry for mounting under /metrics.
func Handler() http.Handler { return promhttp.Handler() }

func IncRun(monitor string)     { monitorRuns.WithLabelValues(monitor).Inc() }
func IncFailure(monitor string) { monitorFailures.WithLabelValues(monitor).Inc() }
func SetDisabled(monitor string) {
	monitorDisabled.WithLabelValues(monitor).Set(1)
}
func ObserveRunDuration(monitor string, seconds float64) {
	monitorRunDuration.WithLabelValues(monitor).Observe(seconds)
}
func IncRender()      { barRenders.Inc() }
func IncSinkFailure() { sinkFailures.Inc() }
func IncTriggerPublished(monitor string) {
	triggersPublished.WithLabelValues(monitor).Inc()
}
func IncTriggerDropped() { triggersDropped.Inc() }
