package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts API requests by method and response class.
	// code is the HTTP status, or "error" when no response arrived.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graw_requests_total",
		Help: "Total Reddit API requests by method and status code",
	}, []string{"method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graw_request_duration_seconds",
		Help:    "Reddit API request latency, including rate limit waits",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method"})

	// placeholderExpansions counts placeholder resolutions.
	// Labels: kind is "morechildren" or "continue", result is "ok" or "error".
	placeholderExpansions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graw_placeholder_expansions_total",
		Help: "Placeholder groups resolved while assembling reply trees",
	}, []string{"kind", "result"})

	orphansDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graw_orphans_dropped_total",
		Help: "Comments dropped because their parent never arrived",
	})

	tokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graw_token_refreshes_total",
		Help: "OAuth token grants by result",
	}, []string{"result"})
)
