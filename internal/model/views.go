package model

import "time"

// RankedTerm is a row of the trending and approved-only views
type RankedTerm struct {
	ID              uint           `json:"id"`
	Term            string         `json:"term"`
	Definition      string         `json:"definition"` // Cleaned for display
	Category        string         `json:"category"`
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
	ApprovedBy      *string        `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	Mentions        int64          `json:"mentions"`
	AvgEngagement   float64        `json:"avg_engagement"` // Rounded to one decimal
	FirstSeen       time.Time      `json:"first_seen"`
}

// PlaceholderTerm is a term whose definition is missing or a placeholder
type PlaceholderTerm struct {
	Term       string  `json:"term"`
	Definition *string `json:"definition"` // Raw stored value
	Mentions   int64   `json:"mentions"`
}

// LowValueTerm is a term with few mentions
type LowValueTerm struct {
	Term           string         `json:"term"`
	Definition     *string        `json:"definition"`
	Mentions       int64          `json:"mentions"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
}

// Stats is the dashboard summary
type Stats struct {
	TotalTerms       int64            `json:"total_terms"`
	ApprovedTerms    int64            `json:"approved_terms"`
	PendingTerms     int64            `json:"pending_terms"`
	RejectedTerms    int64            `json:"rejected_terms"`
	PlaceholderTerms int64            `json:"placeholder_terms"`
	TotalMentions    int64            `json:"total_mentions"`
	TodayMentions    int64            `json:"today_mentions"`
	Platforms        map[string]int64 `json:"platforms"`
}

// SearchResult is a term matched by a text search, including terms without mentions
type SearchResult struct {
	Term           string         `json:"term"`
	Definition     string         `json:"definition"`
	Category       string         `json:"category"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	Mentions       int64          `json:"mentions"`
}

// Activity is one approval decision in the recent activity feed
type Activity struct {
	Term       string         `json:"term"`
	Status     ApprovalStatus `json:"status"`
	ApprovedBy string         `json:"approved_by"`
	ApprovedAt time.Time      `json:"approved_at"`
}

// CleanupReport describes what a cleanup pass removed or would remove
type CleanupReport struct {
	DryRun     bool     `json:"dry_run"`
	Candidates []string `json:"candidates"`
	Deleted    int      `json:"deleted"`
}

// TermUpdate holds the admin-editable fields of a term. Nil fields are left unchanged.
type TermUpdate struct {
	Definition *string `json:"definition,omitempty"`
	Category   *string `json:"category,omitempty"`
}
