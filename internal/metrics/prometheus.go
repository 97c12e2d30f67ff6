package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus holds the benchmark collectors.
type Prometheus struct {
	Folds    *prometheus.CounterVec
	Classes  *prometheus.CounterVec
	Accuracy *prometheus.HistogramVec
	Duration *prometheus.HistogramVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Folds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bench",
				Name:      "folds",
				Help:      "evaluated cross validation folds",
			}, []string{"pipeline", "status"}),
		Classes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bench",
				Name:      "classes",
				Help:      "trained one-vs-rest binary models",
			}, []string{"pipeline", "status"}),
		Accuracy: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bench",
				Name:      "fold_accuracy",
				Help:      "accuracy of each fold in percent",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			}, []string{"pipeline"}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bench",
				Name:      "fold_seconds",
				Help:      "time spent evaluating each fold",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
			}, []string{"pipeline"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Folds, p.Classes, p.Accuracy, p.Duration}
}
