// Package metrics abstracts build instrumentation. Batch runs use the noop
// recorder, the daemon wires the Prometheus one.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives build lifecycle events.
type Recorder interface {
	BuildStarted()
	BuildCompleted(status string, duration time.Duration)
	StageDuration(stage string, duration time.Duration)
	ProjectsResolved(n int)
	ProjectsSkipped(n int)
	WarningsEmitted(n int)
}

// Noop discards all events.
type Noop struct{}

func (Noop) BuildStarted()                        {}
func (Noop) BuildCompleted(string, time.Duration) {}
func (Noop) StageDuration(string, time.Duration)  {}
func (Noop) ProjectsResolved(int)                 {}
func (Noop) ProjectsSkipped(int)                  {}
func (Noop) WarningsEmitted(int)                  {}

const namespace = "gallerybuilder"

// Prometheus records build events into a Prometheus registry.
type Prometheus struct {
	buildsStarted    prometheus.Counter
	buildsCompleted  *prometheus.CounterVec
	buildDuration    prometheus.Histogram
	stageDuration    *prometheus.HistogramVec
	projectsResolved prometheus.Gauge
	projectsSkipped  prometheus.Gauge
	warningsEmitted  prometheus.Gauge
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		buildsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_started_total",
			Help:      "Number of gallery builds started.",
		}),
		buildsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_completed_total",
			Help:      "Number of gallery builds completed, by status.",
		}, []string{"status"}),
		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of full gallery builds.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time per build stage.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"stage"}),
		projectsResolved: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "projects_resolved",
			Help:      "Projects that resolved displayable content in the last build.",
		}),
		projectsSkipped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "projects_skipped",
			Help:      "Projects excluded from the last build.",
		}),
		warningsEmitted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_warnings",
			Help:      "Recoverable findings emitted by the last build.",
		}),
	}
}

func (p *Prometheus) BuildStarted() { p.buildsStarted.Inc() }

func (p *Prometheus) BuildCompleted(status string, duration time.Duration) {
	p.buildsCompleted.WithLabelValues(status).Inc()
	p.buildDuration.Observe(duration.Seconds())
}

func (p *Prometheus) StageDuration(stage string, duration time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func (p *Prometheus) ProjectsResolved(n int) { p.projectsResolved.Set(float64(n)) }
func (p *Prometheus) ProjectsSkipped(n int)  { p.projectsSkipped.Set(float64(n)) }
func (p *Prometheus) WarningsEmitted(n int)  { p.warningsEmitted.Set(float64(n)) }
