package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ApprovalStatus is the moderation state of a term
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"  // Initial state for every new term
	StatusApproved ApprovalStatus = "approved" // Visible in the public listing
	StatusRejected ApprovalStatus = "rejected" // Hidden, carries a rejection reason
)

// StatusAll selects every approval status in filtered queries
const StatusAll = "all"

const (
	DefaultCategory = "general"
	DefaultActor    = "dashboard"
	NoDefinition    = "No definition available"
)

// ErrInvalidStatus is returned for an unknown approval status or a status
// that cannot be the target of a transition
var ErrInvalidStatus = errors.New("invalid approval status")

// placeholderDefinitions are stand-ins written by earlier collectors in place of
// a real definition. NULL counts as a placeholder as well.
var placeholderDefinitions = []string{"Trending slang term", "Approved slang term", ""}

// PlaceholderDefinitions returns the known placeholder definition strings
func PlaceholderDefinitions() []string {
	out := make([]string, len(placeholderDefinitions))
	copy(out, placeholderDefinitions)
	return out
}

// IsPlaceholder reports whether def is empty or one of the placeholder strings
func IsPlaceholder(def string) bool {
	def = strings.TrimSpace(def)
	for _, p := range placeholderDefinitions {
		if def == p {
			return true
		}
	}
	return false
}

// ParseStatus parses an approval status name
func ParseStatus(s string) (ApprovalStatus, error) {
	switch st := ApprovalStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// IsTransitionTarget reports whether a term may be moved into this status.
// Every state may move to approved or rejected; nothing moves back to pending.
func (s ApprovalStatus) IsTransitionTarget() bool {
	return s == StatusApproved || s == StatusRejected
}

// NormalizeTerm returns the storage key for a term: trimmed and lowercased
func NormalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Term is a slang term under moderation
type Term struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Term            string         `gorm:"uniqueIndex;not null" json:"term"`         // Normalized key
	Definition      *string        `json:"definition,omitempty"`                     // NULL until a source supplies one
	Category        string         `gorm:"not null;default:general" json:"category"` // Free text, not enforced
	ApprovalStatus  ApprovalStatus `gorm:"index;not null;default:pending" json:"approval_status"`
	ApprovedBy      *string        `json:"approved_by,omitempty"`      // Actor of the last transition
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`      // Time of the last transition
	RejectionReason *string        `json:"rejection_reason,omitempty"` // Set only while rejected
	FirstSeen       time.Time      `gorm:"not null" json:"first_seen"`
}

// TableName keeps the historical table name
func (Term) TableName() string { return "slang_terms" }

// Mention is one observed use of a term on a platform. Mentions are append-only.
type Mention struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TermID          uint      `gorm:"index;not null" json:"term_id"`
	Platform        string    `gorm:"not null" json:"platform"` // reddit, urban_dictionary, ...
	Content         string    `json:"content"`                  // Truncated to MaxMentionContent characters
	EngagementScore int       `gorm:"not null;default:0" json:"engagement_score"`
	DetectedAt      time.Time `gorm:"index;not null" json:"detected_at"`
}

func (Mention) TableName() string { return "mentions" }

// MaxMentionContent is the maximum stored length of a mention's content, in characters
const MaxMentionContent = 500

// Mention platforms written by the collector
const (
	PlatformReddit           = "reddit"
	PlatformUrbanDictionary  = "urban_dictionary"
	PlatformTargetedResearch = "urban_dictionary_research"
)

// DailyTrend is the per-day rollup of a term's mentions
type DailyTrend struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	TermID          uint    `gorm:"uniqueIndex:idx_daily_trend_term_date;not null" json:"term_id"`
	Date            string  `gorm:"uniqueIndex:idx_daily_trend_term_date;not null" json:"date"` // YYYY-MM-DD
	MentionCount    int     `gorm:"not null;default:0" json:"mention_count"`
	TotalEngagement int     `gorm:"not null;default:0" json:"total_engagement"`
	MomentumScore   float64 `gorm:"not null;default:0" json:"momentum_score"`
}

func (DailyTrend) TableName() string { return "daily_trends" }
