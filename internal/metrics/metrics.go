package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_http_requests_total",
			Help: "Total number of inbound requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_http_request_duration_seconds",
			Help:    "Duration of inbound requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_upstream_requests_total",
			Help: "Total number of course API calls by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_upstream_request_duration_seconds",
			Help:    "Duration of course API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_lookups_total",
			Help: "Upstream response cache lookups by resource and result",
		},
		[]string{"resource", "result"},
	)

	FlowDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_filter_flow_decisions_total",
			Help: "Outcomes of the provider and location filter flows",
		},
		[]string{"flow", "outcome"},
	)
)
