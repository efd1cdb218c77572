// Package metrics exposes Prometheus instrumentation for path generation,
// recommendations, progress tracking and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PathsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathforge_paths_generated_total",
			Help: "Total number of learning paths generated",
		},
		[]string{"route", "difficulty"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pathforge_generation_duration_seconds",
			Help:    "Time to generate and persist a learning path",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathforge_recommendations_served_total",
			Help: "Recommendation lists served, by source",
		},
		[]string{"source"}, // "cache", "computed"
	)

	TopicsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pathforge_topics_completed_total",
			Help: "Total number of topics marked completed",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathforge_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathforge_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)

	RealtimeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pathforge_realtime_subscribers",
			Help: "Open progress websocket subscriptions",
		},
	)
)

// RecordGeneration counts a generated path and observes its latency.
func RecordGeneration(route, difficulty string, duration time.Duration) {
	PathsGenerated.WithLabelValues(route, difficulty).Inc()
	GenerationDuration.Observe(duration.Seconds())
}

// RecordRecommendations counts a served recommendation list.
func RecordRecommendations(fromCache bool) {
	source := "computed"
	if fromCache {
		source = "cache"
	}
	RecommendationsServed.WithLabelValues(source).Inc()
}

// RecordTopicCompleted counts a completed topic.
func RecordTopicCompleted() {
	TopicsCompleted.Inc()
}

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the default registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
