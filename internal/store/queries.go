package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ppiankov/slangwatch/internal/model"
)

// Every ranked view drops terms without mentions (HAVING mentions > 0)
const rankedSQL = `
SELECT st.id, st.term, st.definition, st.category, st.approval_status,
       st.approved_by, st.approved_at, st.rejection_reason, st.first_seen,
       COUNT(m.id) AS mentions,
       AVG(m.engagement_score) AS avg_engagement
FROM slang_terms st
LEFT JOIN mentions m ON st.id = m.term_id
%s
GROUP BY st.id
HAVING mentions > 0
ORDER BY mentions DESC, avg_engagement DESC
LIMIT ?`

const placeholderSQL = `
SELECT st.term, st.definition, COUNT(m.id) AS mentions
FROM slang_terms st
LEFT JOIN mentions m ON st.id = m.term_id
WHERE st.definition IS NULL OR TRIM(st.definition) IN ?
GROUP BY st.id
HAVING mentions > 0
ORDER BY mentions DESC, st.term ASC
LIMIT ?`

const lowValueSQL = `
SELECT st.term, st.definition, st.approval_status, COUNT(m.id) AS mentions
FROM slang_terms st
LEFT JOIN mentions m ON st.id = m.term_id
GROUP BY st.id
HAVING mentions > 0 AND mentions <= ?
ORDER BY mentions ASC, st.term ASC`

const termCountsSQL = `
SELECT COUNT(*) AS total_terms,
       COALESCE(SUM(CASE WHEN approval_status = 'approved' THEN 1 ELSE 0 END), 0) AS approved_terms,
       COALESCE(SUM(CASE WHEN approval_status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_terms,
       COALESCE(SUM(CASE WHEN approval_status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected_terms,
       COALESCE(SUM(CASE WHEN definition IS NULL OR TRIM(definition) IN ? THEN 1 ELSE 0 END), 0) AS placeholder_terms
FROM slang_terms`

const mentionCountsSQL = `
SELECT COUNT(*) AS total_mentions,
       COALESCE(SUM(CASE WHEN DATE(detected_at) = DATE('now') THEN 1 ELSE 0 END), 0) AS today_mentions
FROM mentions`

const searchSQL = `
SELECT st.term, st.definition, st.category, st.approval_status, COUNT(m.id) AS mentions
FROM slang_terms st
LEFT JOIN mentions m ON st.id = m.term_id
WHERE (st.term LIKE ? OR st.definition LIKE ?) %s
GROUP BY st.id
ORDER BY mentions DESC, st.term ASC
LIMIT ?`

type rankedRow struct {
	ID              uint
	Term            string
	Definition      *string
	Category        string
	ApprovalStatus  model.ApprovalStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	FirstSeen       time.Time
	Mentions        int64
	AvgEngagement   float64
}

type termCounts struct {
	TotalTerms       int64
	ApprovedTerms    int64
	PendingTerms     int64
	RejectedTerms    int64
	PlaceholderTerms int64
}

type mentionCounts struct {
	TotalMentions int64
	TodayMentions int64
}

type platformCount struct {
	Platform string
	Count    int64
}

type statusCount struct {
	ApprovalStatus model.ApprovalStatus
	Count          int64
}

type searchRow struct {
	Term           string
	Definition     *string
	Category       string
	ApprovalStatus model.ApprovalStatus
	Mentions       int64
}

func (r rankedRow) toModel() model.RankedTerm {
	return model.RankedTerm{
		ID:              r.ID,
		Term:            r.Term,
		Definition:      CleanDefinition(r.Definition),
		Category:        r.Category,
		ApprovalStatus:  r.ApprovalStatus,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		Mentions:        r.Mentions,
		AvgEngagement:   math.Round(r.AvgEngagement*10) / 10,
		FirstSeen:       r.FirstSeen,
	}
}

// sqlLimit maps a non-positive limit to SQLite's "no limit"
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// statusFilter builds the approval status condition; "" and "all" match everything
func statusFilter(status, prefix string) (string, []interface{}, error) {
	if status == "" || status == model.StatusAll {
		return "", nil, nil
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		return "", nil, err
	}
	return prefix + " st.approval_status = ?", []interface{}{string(st)}, nil
}

// Trending ranks terms with mentions by mention count, then average engagement.
// status is "all" or an approval status.
func (s *Store) Trending(ctx context.Context, limit int, status string) ([]model.RankedTerm, error) {
	where, args, err := statusFilter(status, "WHERE")
	if err != nil {
		return nil, err
	}
	return s.ranked(ctx, "trending", where, append(args, sqlLimit(limit)))
}

// ApprovedOnly is the public listing: Trending restricted to approved terms
func (s *Store) ApprovedOnly(ctx context.Context, limit int) ([]model.RankedTerm, error) {
	return s.ranked(ctx, "approved only", "WHERE st.approval_status = ?",
		[]interface{}{string(model.StatusApproved), sqlLimit(limit)})
}

func (s *Store) ranked(ctx context.Context, op, where string, args []interface{}) ([]model.RankedTerm, error) {
	var rows []rankedRow
	if err := s.db.WithContext(ctx).Raw(fmt.Sprintf(rankedSQL, where), args...).Scan(&rows).Error; err != nil {
		return nil, wrapErr(op, err)
	}

	out := make([]model.RankedTerm, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// PlaceholderDefinitions lists terms whose definition is missing or a placeholder
func (s *Store) PlaceholderDefinitions(ctx context.Context, limit int) ([]model.PlaceholderTerm, error) {
	var rows []model.PlaceholderTerm
	err := s.db.WithContext(ctx).
		Raw(placeholderSQL, model.PlaceholderDefinitions(), sqlLimit(limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("placeholder definitions", err)
	}
	return rows, nil
}

// LowValue lists terms with at most maxMentions mentions, fewest first
func (s *Store) LowValue(ctx context.Context, maxMentions int) ([]model.LowValueTerm, error) {
	var rows []model.LowValueTerm
	if err := s.db.WithContext(ctx).Raw(lowValueSQL, maxMentions).Scan(&rows).Error; err != nil {
		return nil, wrapErr("low value", err)
	}
	return rows, nil
}

// Stats summarizes terms and mentions. "Today" is the database's current UTC date.
func (s *Store) Stats(ctx context.Context) (*model.Stats, error) {
	db := s.db.WithContext(ctx)
	stats := &model.Stats{Platforms: make(map[string]int64)}

	var terms termCounts
	if err := db.Raw(termCountsSQL, model.PlaceholderDefinitions()).Scan(&terms).Error; err != nil {
		return nil, wrapErr("stats", err)
	}

	var mentions mentionCounts
	if err := db.Raw(mentionCountsSQL).Scan(&mentions).Error; err != nil {
		return nil, wrapErr("stats", err)
	}

	var platforms []platformCount
	err := db.Raw("SELECT platform, COUNT(*) AS count FROM mentions GROUP BY platform ORDER BY count DESC").
		Scan(&platforms).Error
	if err != nil {
		return nil, wrapErr("stats", err)
	}

	stats.TotalTerms = terms.TotalTerms
	stats.ApprovedTerms = terms.ApprovedTerms
	stats.PendingTerms = terms.PendingTerms
	stats.RejectedTerms = terms.RejectedTerms
	stats.PlaceholderTerms = terms.PlaceholderTerms
	stats.TotalMentions = mentions.TotalMentions
	stats.TodayMentions = mentions.TodayMentions
	for _, p := range platforms {
		stats.Platforms[p.Platform] = p.Count
	}
	return stats, nil
}

// ApprovalCounts returns the number of terms per approval status
func (s *Store) ApprovalCounts(ctx context.Context) (map[model.ApprovalStatus]int64, error) {
	counts := map[model.ApprovalStatus]int64{
		model.StatusPending:  0,
		model.StatusApproved: 0,
		model.StatusRejected: 0,
	}

	var rows []statusCount
	err := s.db.WithContext(ctx).Model(&model.Term{}).
		Select("approval_status, COUNT(*) AS count").
		Group("approval_status").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("approval counts", err)
	}
	for _, r := range rows {
		counts[r.ApprovalStatus] = r.Count
	}
	return counts, nil
}

// Search matches query against terms and definitions. Terms without mentions
// are included.
func (s *Store) Search(ctx context.Context, query, status string, limit int) ([]model.SearchResult, error) {
	where, args, err := statusFilter(status, "AND")
	if err != nil {
		return nil, err
	}

	pattern := "%" + strings.TrimSpace(query) + "%"
	params := append([]interface{}{pattern, pattern}, args...)
	params = append(params, sqlLimit(limit))

	var rows []searchRow
	if err := s.db.WithContext(ctx).Raw(fmt.Sprintf(searchSQL, where), params...).Scan(&rows).Error; err != nil {
		return nil, wrapErr("search", err)
	}

	out := make([]model.SearchResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.SearchResult{
			Term:           r.Term,
			Definition:     CleanDefinition(r.Definition),
			Category:       r.Category,
			ApprovalStatus: r.ApprovalStatus,
			Mentions:       r.Mentions,
		})
	}
	return out, nil
}

// RecentActivity returns the latest approval decisions, newest first
func (s *Store) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	var terms []model.Term
	err := s.db.WithContext(ctx).
		Where("approved_at IS NOT NULL").
		Order("approved_at DESC").
		Limit(sqlLimit(limit)).
		Find(&terms).Error
	if err != nil {
		return nil, wrapErr("recent activity", err)
	}

	out := make([]model.Activity, 0, len(terms))
	for _, t := range terms {
		a := model.Activity{Term: t.Term, Status: t.ApprovalStatus}
		if t.ApprovedBy != nil {
			a.ApprovedBy = *t.ApprovedBy
		}
		if t.ApprovedAt != nil {
			a.ApprovedAt = *t.ApprovedAt
		}
		out = append(out, a)
	}
	return out, nil
}
