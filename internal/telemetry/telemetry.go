// Package telemetry exports live simulation values as Prometheus metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/kitesim/internal/sim"
)

// Collector is a sim.Observer that mirrors the latest step into gauges.
type Collector struct {
	theta     prometheus.Gauge
	phi       prometheus.Gauge
	psi       prometheus.Gauge
	traction  prometheus.Gauge
	kiteSpeed prometheus.Gauge
	aws       prometheus.Gauge
	boatSpeed prometheus.Gauge
	simTime   prometheus.Gauge
	steps     prometheus.Counter
	pull      prometheus.Histogram

	mu   sync.RWMutex
	last sim.Sample
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "kitesim", Name: name, Help: help})
}

// NewCollector creates the metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		theta:     gauge("theta_radians", "Tether elevation."),
		phi:       gauge("phi_radians", "Tether azimuth."),
		psi:       gauge("psi_radians", "Kite yaw about the tether."),
		traction:  gauge("traction_newtons", "Aerodynamic force magnitude."),
		kiteSpeed: gauge("kite_speed_mps", "Tether-end speed."),
		aws:       gauge("apparent_wind_speed_mps", "Apparent wind speed at the boat."),
		boatSpeed: gauge("boat_speed_knots", "Boat speed."),
		simTime:   gauge("sim_time_seconds", "Simulated time of the last step."),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kitesim",
			Name:      "steps_total",
			Help:      "Steps taken.",
		}),
		pull: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kitesim",
			Name:      "traction_distribution_newtons",
			Help:      "Distribution of traction over all steps.",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		}),
	}

	for _, m := range []prometheus.Collector{
		c.theta, c.phi, c.psi, c.traction, c.kiteSpeed, c.aws,
		c.boatSpeed, c.simTime, c.steps, c.pull,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) OnStep(s sim.Sample) {
	c.theta.Set(s.State.Theta)
	c.phi.Set(s.State.Phi)
	c.psi.Set(s.State.Psi)
	c.traction.Set(s.Output.Traction)
	c.kiteSpeed.Set(s.Output.KiteSpeed)
	c.aws.Set(s.State.AWS)
	c.boatSpeed.Set(s.State.BoatSpeed)
	c.simTime.Set(s.Time)
	c.steps.Inc()
	c.pull.Observe(s.Output.Traction)

	c.mu.Lock()
	c.last = s
	c.mu.Unlock()
}

// Last returns the most recent sample seen.
func (c *Collector) Last() sim.Sample {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// HTTPMetrics counts and times requests to the telemetry server.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	h := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kitesim",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"path", "method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "kitesim",
				Name:      "http_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
	}
	if err := reg.Register(h.requests); err != nil {
		return nil, err
	}
	if err := reg.Register(h.duration); err != nil {
		return nil, err
	}
	return h, nil
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func (h *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		h.requests.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		h.duration.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
