// Package metrics exposes screening outcomes to prometheus.
package metrics

import (
	"net/http"
	"time"

	"antifraud/internal/models"
	"antifraud/internal/services/threshold"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "antifraud"

type Collector struct {
	registry        *prometheus.Registry
	verdicts        *prometheus.CounterVec
	reasons         *prometheus.CounterVec
	scoringDuration prometheus.Histogram
	feedback        *prometheus.CounterVec
	limits          *prometheus.GaugeVec
	errors          *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// NewCollector registers every screening metric on a fresh registry, along
// with the go runtime and process collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_scored_total",
			Help:      "Scored transactions by verdict",
		}, []string{"verdict"}),
		reasons: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdict_reasons_total",
			Help:      "Reasons attached to scored transactions",
		}, []string{"reason"}),
		scoringDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Time taken to score and store a transaction",
			Buckets:   prometheus.DefBuckets,
		}),
		feedback: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Accepted reviewer feedback by corrected and original verdict",
		}, []string{"feedback", "result"}),
		limits: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "amount_limit",
			Help:      "Current amount limits",
		}, []string{"limit"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed operations by error kind",
		}, []string{"operation", "kind"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocklist_cache_lookups_total",
			Help:      "Blocklist cache lookups by list and outcome",
		}, []string{"list", "result"}),
	}
}

func (c *Collector) RecordVerdict(verdict models.Verdict, reasons models.Reasons) {
	c.verdicts.WithLabelValues(string(verdict)).Inc()
	for _, r := range reasons {
		c.reasons.WithLabelValues(string(r)).Inc()
	}
}

func (c *Collector) RecordScoringDuration(d time.Duration) {
	c.scoringDuration.Observe(d.Seconds())
}

func (c *Collector) RecordFeedback(feedback, result models.Verdict) {
	c.feedback.WithLabelValues(string(feedback), string(result)).Inc()
}

func (c *Collector) RecordLimits(limits threshold.Limits) {
	c.limits.WithLabelValues("max_allowed").Set(float64(limits.MaxAllowed))
	c.limits.WithLabelValues("max_manual_processing").Set(float64(limits.MaxManualProcessing))
}

func (c *Collector) RecordError(operation, kind string) {
	if kind == "" {
		kind = "unknown"
	}
	c.errors.WithLabelValues(operation, kind).Inc()
}

func (c *Collector) RecordCacheLookup(list string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(list, result).Inc()
}

// GetHandler serves the registry in the prometheus exposition format.
func (c *Collector) GetHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
