package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/pagedform/pkg/domain"
)

// Metrics holds the paged form collectors.
type Metrics struct {
	pagesShown  *prometheus.CounterVec
	failures    *prometheus.CounterVec
	completions *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		pagesShown: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagedform_pages_shown_total",
				Help: "Total number of pages selected for display",
			},
			[]string{"form", "page"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagedform_validation_failures_total",
				Help: "Total number of cycles stopped by an invalid page",
			},
			[]string{"form", "page"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagedform_completions_total",
				Help: "Total number of completed forms",
			},
			[]string{"form"},
		),
		requests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagedform_request_duration_seconds",
				Help:    "Duration of form requests by transport and result",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"form", "transport", "result"},
		),
	}
	for _, c := range []prometheus.Collector{m.pagesShown, m.failures, m.completions, m.requests} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPageShown: func(_ context.Context, e *domain.PageEvent) {
			m.pagesShown.WithLabelValues(e.Form, e.PageKey).Inc()
		},
		OnValidationFailed: func(_ context.Context, e *domain.PageEvent) {
			m.failures.WithLabelValues(e.Form, e.PageKey).Inc()
		},
		OnComplete: func(_ context.Context, e *domain.FormEvent) {
			m.completions.WithLabelValues(e.Form).Inc()
		},
	}
}

// ObserveRequest records how long a transport took to serve one request.
func (m *Metrics) ObserveRequest(form, transport, result string, d time.Duration) {
	m.requests.WithLabelValues(form, transport, result).Observe(d.Seconds())
}

// LoggingHooks returns lifecycle hooks that log every event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPageShown: func(ctx context.Context, e *domain.PageEvent) {
			logger.DebugContext(ctx, "page_shown", "form", e.Form, "page", e.PageKey, "index", e.PageIndex)
		},
		OnValidationFailed: func(ctx context.Context, e *domain.PageEvent) {
			logger.InfoContext(ctx, "validation_failed", "form", e.Form, "page", e.PageKey, "index", e.PageIndex)
		},
		OnComplete: func(ctx context.Context, e *domain.FormEvent) {
			logger.InfoContext(ctx, "form_completed", "form", e.Form, "pages", e.Pages)
		},
	}
}
