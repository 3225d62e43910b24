// Package metrics holds the service's Prometheus collectors and the
// server that exposes them.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds custom Prometheus metrics.
type MetricsManager struct {
	Registry *prometheus.Registry

	AdvertsCreatedTotal prometheus.Counter
	AdvertUpdatesTotal  prometheus.Counter
	AdvertDeletesTotal  prometheus.Counter
	StatusChangesTotal  *prometheus.CounterVec // by target status

	ImageReleaseFailuresTotal prometheus.Counter
	BackgroundTasksTotal      *prometheus.CounterVec // by task and outcome

	OutboxPublishedTotal prometheus.Counter
	OutboxFailedTotal    prometheus.Counter

	APIErrorsTotal *prometheus.CounterVec   // by route and error kind
	APILatency     *prometheus.HistogramVec // by method, route and status
}

// NewMetricsManager initializes and registers the metrics on a private registry.
func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		AdvertsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adverts_created_total",
			Help:      "Total number of adverts created.",
		}),
		AdvertUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advert_updates_total",
			Help:      "Total number of advert edits.",
		}),
		AdvertDeletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advert_deletes_total",
			Help:      "Total number of adverts deleted.",
		}),
		StatusChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advert_status_changes_total",
			Help:      "Total number of status transitions by target status.",
		}, []string{"status"}),
		ImageReleaseFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_release_failures_total",
			Help:      "Total number of stored images that could not be released.",
		}),
		BackgroundTasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_tasks_total",
			Help:      "Total number of detached tasks by name and outcome.",
		}, []string{"task", "outcome"}),
		OutboxPublishedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "Total number of outbox events published.",
		}),
		OutboxFailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_failed_total",
			Help:      "Total number of outbox events that failed to publish.",
		}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors by route and kind.",
		}, []string{"route", "kind"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_latency_seconds",
			Help:      "Latency of API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.AdvertsCreatedTotal,
		m.AdvertUpdatesTotal,
		m.AdvertDeletesTotal,
		m.StatusChangesTotal,
		m.ImageReleaseFailuresTotal,
		m.BackgroundTasksTotal,
		m.OutboxPublishedTotal,
		m.OutboxFailedTotal,
		m.APIErrorsTotal,
		m.APILatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StartMetricsServer serves /metrics on addr in a goroutine and returns the
// server so the caller can shut it down. An empty addr disables it.
func StartMetricsServer(addr string, m *MetricsManager, logger *zap.Logger) *http.Server {
	if addr == "" {
		logger.Info("Metrics server address not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("Metrics server starting", zap.String("addr", addr), zap.String("path", "/metrics"))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return server
}
