package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	stageLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kisan_stage_latency_ms",
		Help:    "Latency of each Ask stage in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"stage"})

	stageResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kisan_stage_results",
		Help:    "Number of passages leaving a retrieval stage",
		Buckets: []float64{0, 1, 2, 5, 10, 15, 20, 50},
	}, []string{"stage"})

	fertilizerMatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kisan_fertilizer_lookup_total",
		Help: "Structured lookups by outcome (hit/miss/error)",
	}, []string{"outcome"})

	generationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kisan_generation_failures_total",
		Help: "Answers replaced by the connection error placeholder",
	})

	judgeRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kisan_judge_rate_limit_retries_total",
		Help: "Judge calls retried after a rate limit",
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(stageLatency, stageResults, fertilizerMatches, generationFailures, judgeRetries)
	})
}

// ObserveStage records latency and output size for one pipeline stage.
func ObserveStage(stage string, start time.Time, results int) {
	ensureRegistered()
	stageLatency.WithLabelValues(stage).Observe(float64(time.Since(start).Milliseconds()))
	if results >= 0 {
		stageResults.WithLabelValues(stage).Observe(float64(results))
	}
}

func IncLookup(outcome string) {
	ensureRegistered()
	fertilizerMatches.WithLabelValues(outcome).Inc()
}

func IncGenerationFailure() {
	ensureRegistered()
	generationFailures.Inc()
}

func IncJudgeRetry() {
	ensureRegistered()
	judgeRetries.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	ensureRegistered()
	return promhttp.Handler()
}
