package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "QR scan redemptions by scene and outcome",
		},
		[]string{"scene", "outcome"},
	)

	OrdersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_expired_total",
			Help: "Orders flipped to expired by the nightly sweep",
		},
	)

	NotifySendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_sends_total",
			Help: "Subscribe message sends by outcome",
		},
		[]string{"outcome"},
	)
)
