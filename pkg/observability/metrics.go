package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripgate", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripgate", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	GenerationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripgate", Name: "generation_requests_total", Help: "Generation service calls."},
		[]string{"adapter", "model", "outcome"},
	)
	GenerationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripgate", Name: "generation_request_duration_seconds",
			Help:    "Generation service call duration seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"adapter", "model"},
	)
	GenerationTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripgate", Name: "generation_tokens_total", Help: "Generation tokens by kind."},
		[]string{"adapter", "kind"}, // kind: prompt|completion
	)
	StageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripgate", Name: "plan_stage_duration_seconds",
			Help:    "Planner stage duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	ItinerarySources = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripgate", Name: "itinerary_parses_total", Help: "Itinerary re-parses by source."},
		[]string{"source"}, // source: structured|heuristic|failed
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tripgate", Name: "cache_events_total", Help: "Cache hits/misses/sets."},
		[]string{"cache", "event"}, // event: hit|miss|set|error
	)
)

// InitRegistry returns a registry holding the tripgate collectors.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, GenerationRequests, GenerationLatency,
		GenerationTokens, StageLatency, ItinerarySources, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveGeneration records one generation call. A nil err counts as ok.
func ObserveGeneration(adapter, model string, err error, dur time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	GenerationRequests.WithLabelValues(adapter, model, outcome).Inc()
	GenerationLatency.WithLabelValues(adapter, model).Observe(dur.Seconds())
}

func ObserveTokens(adapter string, prompt, completion int) {
	GenerationTokens.WithLabelValues(adapter, "prompt").Add(float64(prompt))
	GenerationTokens.WithLabelValues(adapter, "completion").Add(float64(completion))
}

func ObserveStage(stage string, dur time.Duration) {
	StageLatency.WithLabelValues(stage).Observe(dur.Seconds())
}

func ObserveItinerary(source string) {
	ItinerarySources.WithLabelValues(source).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|error
	CacheEvents.WithLabelValues(cache, event).Inc()
}
