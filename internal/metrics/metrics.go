// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "folio"

var (
	// PublishTotal counts publish attempts.
	// Labels: result (success, stale, error)
	PublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "publish_total",
			Help:      "Total number of publish attempts by result",
		},
		[]string{"result"},
	)

	// PublishDuration tracks the remote commit round trip.
	PublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "publish_duration_seconds",
			Help:      "Duration of remote publish calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// DraftSaveTotal counts local draft saves.
	// Labels: outcome (ok, reduced, failed)
	DraftSaveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "draft_save_total",
			Help:      "Total number of draft saves by outcome",
		},
		[]string{"outcome"},
	)

	// DraftDiscardedTotal counts drafts dropped because they did not parse.
	DraftDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "draft_discarded_total",
			Help:      "Total number of unparsable drafts discarded on load",
		},
	)

	// ProxyRequestsTotal counts upstream calls made by the proxy endpoints.
	// Labels: endpoint (metadata, apps, base, instagram, shopify), result (success, error)
	ProxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Total number of upstream proxy requests by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	// SnapshotReloadTotal counts public snapshot reloads.
	// Labels: result (success, error)
	SnapshotReloadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "reloads_total",
			Help:      "Total number of published snapshot reloads by result",
		},
		[]string{"result"},
	)

	// RateLimitedTotal counts requests rejected by the per-IP limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)
)

// Result maps an error to the success/error label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
