package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IssuesPulled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issuesift_issues_pulled_total",
		Help: "The total number of issues pulled from the source",
	})

	Outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuesift_outcomes_total",
		Help: "The total number of emitted outcomes by kind",
	}, []string{"kind"})

	AssessmentsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "issuesift_assessments_in_flight",
		Help: "Number of assessments currently in flight",
	})

	AssessmentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "issuesift_assessment_duration_seconds",
		Help:    "Duration of individual issue assessments",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"kind"})

	SourcePages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuesift_source_pages_total",
		Help: "Total number of issue pages fetched from the source",
	}, []string{"status"})

	SourceErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issuesift_source_errors_total",
		Help: "Total number of source errors that ended iteration",
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "issuesift_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuesift_llm_requests_total",
		Help: "Total number of LLM requests",
	}, []string{"model", "status"})

	LLMCircuitBreakerOpens = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issuesift_llm_circuit_breaker_opens_total",
		Help: "Total number of times the LLM circuit breaker opened",
	})
)
