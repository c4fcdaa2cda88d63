// Package metrics exposes prometheus instruments for quota decisions
// and the HTTP surface.
package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels stamped on every instrument.
type Config struct {
	ServiceName string
	Environment string
}

// QuotaMetrics tracks daily-cap decisions and counter-store health.
type QuotaMetrics struct {
	decisions       *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	retentionPruned prometheus.Counter
}

var (
	quotaMetricsOnce sync.Once
	quotaMetrics     *QuotaMetrics
)

// Quota returns the process-wide quota metrics, registering them on
// first use.
func Quota() *QuotaMetrics {
	return QuotaWithConfig(Config{})
}

func QuotaWithConfig(cfg Config) *QuotaMetrics {
	quotaMetricsOnce.Do(func() {
		quotaMetrics = newQuotaMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return quotaMetrics
}

func ResetQuotaMetricsForTest() {
	quotaMetricsOnce = sync.Once{}
	quotaMetrics = nil
}

func newQuotaMetrics(registerer prometheus.Registerer, cfg Config) *QuotaMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "quotad"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	decisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "quotad_decisions_total",
			Help:        "Total submission decisions by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"outcome"}, // accepted | rejected | fail_open
	)

	storeErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "quotad_store_errors_total",
			Help:        "Counter store failures by operation.",
			ConstLabels: constLabels,
		},
		[]string{"op"}, // load | increment | prune
	)

	retentionPruned := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "quotad_retention_pruned_rows_total",
			Help:        "Usage rows removed by the retention worker.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		decisions,
		storeErrors,
		retentionPruned,
	)

	return &QuotaMetrics{
		decisions:       decisions,
		storeErrors:     storeErrors,
		retentionPruned: retentionPruned,
	}
}

func (m *QuotaMetrics) ObserveDecision(outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(outcome).Inc()
}

func (m *QuotaMetrics) ObserveStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *QuotaMetrics) ObservePruned(rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.retentionPruned.Add(float64(rows))
}
