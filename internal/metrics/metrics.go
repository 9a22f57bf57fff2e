// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MentionsRecorded counts stored mentions by platform
	MentionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slangwatch",
		Name:      "mentions_recorded_total",
		Help:      "Mentions appended to the store, by platform.",
	}, []string{"platform"})

	// ApprovalTransitions counts approval workflow transitions by target status
	ApprovalTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slangwatch",
		Name:      "approval_transitions_total",
		Help:      "Approval status changes, by target status.",
	}, []string{"status"})

	// Lookups counts external definition lookups by provider and outcome
	// (cache_hit, found, not_found, error)
	Lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slangwatch",
		Name:      "lookups_total",
		Help:      "External definition lookups, by provider and outcome.",
	}, []string{"provider", "outcome"})

	// CandidatesExtracted counts accepted extractor candidates by pattern
	CandidatesExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slangwatch",
		Name:      "candidates_extracted_total",
		Help:      "Candidate terms accepted by the extractor, by pattern.",
	}, []string{"pattern"})
)
