package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/score"
)

// cleanupMaxMentions bounds the low-value side of cleanup
const cleanupMaxMentions = 1

// Unlike the ranked views, cleanup includes terms without any mention
const cleanupSQL = `
SELECT st.term
FROM slang_terms st
LEFT JOIN mentions m ON st.id = m.term_id
WHERE st.definition IS NULL OR TRIM(st.definition) IN ?
GROUP BY st.id
HAVING COUNT(m.id) <= ?
ORDER BY COUNT(m.id) ASC, st.term ASC`

// Cleanup finds terms with at most one mention and no real definition and,
// unless dryRun is set, deletes them
func (s *Store) Cleanup(ctx context.Context, dryRun bool) (*model.CleanupReport, error) {
	var candidates []string
	err := s.db.WithContext(ctx).
		Raw(cleanupSQL, model.PlaceholderDefinitions(), cleanupMaxMentions).
		Scan(&candidates).Error
	if err != nil {
		return nil, wrapErr("cleanup", err)
	}

	report := &model.CleanupReport{DryRun: dryRun, Candidates: []string{}}
	report.Candidates = append(report.Candidates, candidates...)

	if dryRun || len(report.Candidates) == 0 {
		return report, nil
	}

	deleted, err := s.BulkDelete(ctx, report.Candidates)
	report.Deleted = deleted
	if err != nil {
		return report, err
	}
	return report, nil
}

const dayCountsSQL = `
SELECT term_id, DATE(detected_at) AS day, COUNT(*) AS mentions,
       COALESCE(SUM(engagement_score), 0) AS engagement
FROM mentions
WHERE DATE(detected_at) BETWEEN ? AND ?
GROUP BY term_id, DATE(detected_at)`

// RollupDailyTrends writes the daily_trends rows for day, replacing any earlier
// rollup of the same day. It returns the number of rows written.
func (s *Store) RollupDailyTrends(ctx context.Context, day time.Time, scorer *score.Scorer) (int, error) {
	if scorer == nil {
		scorer = score.NewScorer(score.DefaultWindow)
	}
	day = day.UTC()
	from := day.AddDate(0, 0, -scorer.Window()).Format(score.DayLayout)
	to := day.Format(score.DayLayout)

	var counts []score.DayCount
	if err := s.db.WithContext(ctx).Raw(dayCountsSQL, from, to).Scan(&counts).Error; err != nil {
		return 0, wrapErr("rollup daily trends", err)
	}

	trends := scorer.Rollup(day, counts)
	if len(trends) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "term_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"mention_count", "total_engagement", "momentum_score"}),
	}).Create(&trends).Error
	if err != nil {
		return 0, wrapErr("rollup daily trends", err)
	}
	return len(trends), nil
}

// DailyTrends returns the stored rollup rows of a term, oldest first
func (s *Store) DailyTrends(ctx context.Context, term string) ([]model.DailyTrend, error) {
	t, err := s.TermByName(ctx, term)
	if err != nil || t == nil {
		return nil, err
	}

	var rows []model.DailyTrend
	if err := s.db.WithContext(ctx).Where("term_id = ?", t.ID).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, wrapErr("daily trends", err)
	}
	return rows, nil
}
