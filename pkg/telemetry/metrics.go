// Package telemetry exports navigation metrics to Prometheus and spans to an
// OpenTelemetry trace file.
package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odvcencio/arrownav/pkg/nav"
)

// Metrics records navigation measurements. It implements nav.Recorder.
type Metrics struct {
	moves      *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	candidates *prometheus.HistogramVec
	entered    *prometheus.CounterVec
	elements   prometheus.Gauge
	regions    prometheus.Gauge
}

var _ nav.Recorder = (*Metrics)(nil)

// NewMetrics registers the navigation metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		moves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arrownav",
				Subsystem: "nav",
				Name:      "moves_total",
				Help:      "Directional presses by direction and outcome",
			},
			[]string{"direction", "outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "arrownav",
				Subsystem: "nav",
				Name:      "move_duration_seconds",
				Help:      "Time spent resolving a directional press",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs to ~160ms
			},
			[]string{"direction"},
		),
		candidates: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "arrownav",
				Subsystem: "nav",
				Name:      "candidates",
				Help:      "Candidates considered per press",
				Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"direction", "kind"},
		),
		entered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arrownav",
				Subsystem: "nav",
				Name:      "regions_entered_total",
				Help:      "Region entries by entering policy",
			},
			[]string{"policy"},
		),
		elements: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arrownav",
			Subsystem: "registry",
			Name:      "elements",
			Help:      "Registered focusable elements",
		}),
		regions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arrownav",
			Subsystem: "registry",
			Name:      "regions",
			Help:      "Registered regions",
		}),
	}
}

func (m *Metrics) Navigated(dir nav.Direction, outcome nav.Outcome, elapsed time.Duration) {
	m.moves.WithLabelValues(dir.String(), string(outcome)).Inc()
	m.latency.WithLabelValues(dir.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) CandidatesFound(dir nav.Direction, elements, regions int) {
	m.candidates.WithLabelValues(dir.String(), "element").Observe(float64(elements))
	m.candidates.WithLabelValues(dir.String(), "region").Observe(float64(regions))
}

func (m *Metrics) RegionEntered(policy nav.EnteringPolicy) {
	m.entered.WithLabelValues(policy.String()).Inc()
}

func (m *Metrics) RegistrySize(elements, regions int) {
	m.elements.Set(float64(elements))
	m.regions.Set(float64(regions))
}

// NewRouter serves g on /metrics and a liveness probe on /healthz.
func NewRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
