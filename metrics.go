package main

import (
	"net/http"
	"time"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "ipattrib"

type metrics struct {
	registry            *prometheus.Registry
	resolutions         *prometheus.CounterVec
	resolutionDuration  prometheus.Histogram
	admissionRejections prometheus.Counter
	datasetEntries      *prometheus.GaugeVec
}

func (m *metrics) ObserveResolve(outcome string, elapsed time.Duration) {
	m.resolutions.WithLabelValues(outcome).Inc()
	m.resolutionDuration.Observe(elapsed.Seconds())
}

func (m *metrics) ObserveRejection() {
	m.admissionRejections.Inc()
}

func (m *metrics) ObserveDataset(info topolib.DatasetInfo) {
	m.datasetEntries.WithLabelValues(info.Name).Set(float64(info.Entries))
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func newMetrics() *metrics {
	rv := &metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolutions_total",
			Help:      "A number of resolved addresses by outcome.",
		}, []string{"outcome"}),
		resolutionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "resolution_duration_seconds",
			Help:      "Time spent to resolve a single address.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		admissionRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "admission_rejections_total",
			Help:      "A number of requests rejected by rate limiter.",
		}),
		datasetEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_entries",
			Help:      "A number of ranges loaded into dataset.",
		}, []string{"dataset"}),
	}

	rv.registry.MustRegister(
		rv.resolutions,
		rv.resolutionDuration,
		rv.admissionRejections,
		rv.datasetEntries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	for _, v := range []string{
		topolib.OutcomeFound,
		topolib.OutcomeNotFound,
		topolib.OutcomeInvalid,
		topolib.OutcomeError,
	} {
		rv.resolutions.WithLabelValues(v)
	}

	return rv
}
