package sim

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gwillem/armsim/pkg/robot"
)

// Metrics exposes simulation counters on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	frameDuration prometheus.Histogram
	axisAngle     *prometheus.GaugeVec
	approaches    prometheus.Counter

	seenApproaches int
}

// NewMetrics creates and registers the simulation metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "armsim_frame_render_seconds",
			Help:    "Time spent drawing a frame",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
		}),
		axisAngle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "armsim_axis_angle_degrees",
			Help: "Current angle of each axis",
		}, []string{"axis"}),
		approaches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "armsim_approaches_completed_total",
			Help: "Number of completed configuration approaches",
		}),
	}
	m.Registry.MustRegister(m.frameDuration, m.axisAngle, m.approaches)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRobot(r *robot.Robot) {
	for _, a := range r.Axes() {
		m.axisAngle.WithLabelValues(a.Name).Set(a.Orientation.Angle())
	}
	if n := r.CompletedApproaches(); n > m.seenApproaches {
		m.approaches.Add(float64(n - m.seenApproaches))
		m.seenApproaches = n
	}
}

func (m *Metrics) observeFrame(d time.Duration) {
	m.frameDuration.Observe(d.Seconds())
}
