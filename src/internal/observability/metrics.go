package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "unimonitor",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route and status class.",
	}, []string{"method", "route", "status"})

	moderationDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "unimonitor",
		Subsystem: "moderation",
		Name:      "decisions_total",
		Help:      "Moderation decisions applied to activities, by outcome.",
	}, []string{"outcome"})

	activitiesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "unimonitor",
		Subsystem: "moderation",
		Name:      "submissions_total",
		Help:      "Activities entering the PENDING queue (creates and edits).",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, moderationDecisions, activitiesSubmitted)
}

// RecordRequest counts one served HTTP request.
func RecordRequest(method, route, status string) {
	requestsTotal.WithLabelValues(method, route, status).Inc()
}

// RecordDecision counts one admin moderation decision.
func RecordDecision(outcome string) {
	moderationDecisions.WithLabelValues(outcome).Inc()
}

// RecordSubmission counts one activity entering moderation.
func RecordSubmission() {
	activitiesSubmitted.Inc()
}
