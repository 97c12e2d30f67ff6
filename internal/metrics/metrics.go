package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	OK     = "ok"
	Failed = "failed"
)

// Observer is the process wide metrics sink.
var Observer = NewMetrics()

// Metrics records benchmark progress on its own registry.
type Metrics struct {
	registry   *prometheus.Registry
	prometheus Prometheus
}

// NewMetrics creates a new registry with the benchmark collectors.
func NewMetrics() *Metrics {
	p := NewPrometheusMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(p.collectors()...)
	return &Metrics{
		registry:   registry,
		prometheus: p,
	}
}

// Fold records the outcome of a fold.
func (m *Metrics) Fold(pipeline string, err error, accuracy float64, d time.Duration) {
	if err != nil {
		m.prometheus.Folds.WithLabelValues(pipeline, Failed).Inc()
		return
	}
	m.prometheus.Folds.WithLabelValues(pipeline, OK).Inc()
	m.prometheus.Accuracy.WithLabelValues(pipeline).Observe(accuracy)
	m.prometheus.Duration.WithLabelValues(pipeline).Observe(d.Seconds())
}

// Classes records the number of binary models trained for a fold.
func (m *Metrics) Classes(pipeline string, ok, failed int) {
	m.prometheus.Classes.WithLabelValues(pipeline, OK).Add(float64(ok))
	m.prometheus.Classes.WithLabelValues(pipeline, Failed).Add(float64(failed))
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics on the given port until the server is closed.
func (m *Metrics) Serve(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Int("port", port).Msg("metrics server failed")
		}
	}()
	log.Info().Int("port", port).Msg("serving metrics")
	return srv
}
