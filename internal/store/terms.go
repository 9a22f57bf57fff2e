package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/ppiankov/slangwatch/internal/metrics"
	"github.com/ppiankov/slangwatch/internal/model"
)

// UpsertTerm inserts a pending term or refreshes the definition of an existing
// one. The approval status of an existing term is never touched.
func (s *Store) UpsertTerm(ctx context.Context, name, definition, category string) (uint, error) {
	key := model.NormalizeTerm(name)
	if key == "" {
		return 0, ErrInvalidTerm
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = model.DefaultCategory
	}

	var id uint
	var err error
	// A concurrent writer may insert the same key between our read and insert
	for attempt := 0; attempt < 2; attempt++ {
		id, err = s.upsertOnce(ctx, key, definition, category)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	return id, wrapErr("upsert term", err)
}

func (s *Store) upsertOnce(ctx context.Context, key, definition, category string) (uint, error) {
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Term
		err := tx.Where("term = ?", key).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			t := model.Term{
				Term:           key,
				Definition:     optionalDefinition(definition),
				Category:       category,
				ApprovalStatus: model.StatusPending,
				FirstSeen:      s.now(),
			}
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
			id = t.ID
			return nil
		}
		if err != nil {
			return err
		}

		id = existing.ID
		if !replacesDefinition(existing.Definition, definition) {
			return nil
		}
		return tx.Model(&model.Term{}).
			Where("id = ?", existing.ID).
			Update("definition", strings.TrimSpace(definition)).Error
	})
	return id, err
}

// replacesDefinition applies the overwrite rule: a non-empty incoming definition
// wins over a missing or placeholder one, or over a strictly shorter one
func replacesDefinition(current *string, incoming string) bool {
	next := strings.TrimSpace(incoming)
	if next == "" {
		return false
	}
	if current == nil {
		return true
	}
	cur := strings.TrimSpace(*current)
	if model.IsPlaceholder(cur) {
		return true
	}
	return utf8.RuneCountInString(next) > utf8.RuneCountInString(cur)
}

func optionalDefinition(def string) *string {
	def = strings.TrimSpace(def)
	if def == "" {
		return nil
	}
	return &def
}

// RecordMention appends a mention, creating the term first if needed
func (s *Store) RecordMention(ctx context.Context, term, platform, content string, engagement int) error {
	id, err := s.UpsertTerm(ctx, term, "", model.DefaultCategory)
	if err != nil {
		return err
	}

	m := model.Mention{
		TermID:          id,
		Platform:        platform,
		Content:         truncateRunes(content, model.MaxMentionContent),
		EngagementScore: engagement,
		DetectedAt:      s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return wrapErr("record mention", err)
	}

	metrics.MentionsRecorded.WithLabelValues(platform).Inc()
	return nil
}

// SetApprovalStatus moves a term to approved or rejected. It returns false when
// no term matched. Approving clears any earlier rejection reason.
func (s *Store) SetApprovalStatus(ctx context.Context, term string, status model.ApprovalStatus, actor, reason string) (bool, error) {
	if !status.IsTransitionTarget() {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	if strings.TrimSpace(actor) == "" {
		actor = model.DefaultActor
	}

	updates := map[string]interface{}{
		"approval_status":  status,
		"approved_by":      actor,
		"approved_at":      s.now(),
		"rejection_reason": nil,
	}
	if status == model.StatusRejected {
		updates["rejection_reason"] = reason
	}

	res := s.db.WithContext(ctx).Model(&model.Term{}).
		Where("term = ?", model.NormalizeTerm(term)).
		Updates(updates)
	if res.Error != nil {
		return false, wrapErr("set approval status", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	metrics.ApprovalTransitions.WithLabelValues(string(status)).Inc()
	return true, nil
}

// Approve is SetApprovalStatus with StatusApproved
func (s *Store) Approve(ctx context.Context, term, actor string) (bool, error) {
	return s.SetApprovalStatus(ctx, term, model.StatusApproved, actor, "")
}

// Reject is SetApprovalStatus with StatusRejected
func (s *Store) Reject(ctx context.Context, term, actor, reason string) (bool, error) {
	return s.SetApprovalStatus(ctx, term, model.StatusRejected, actor, reason)
}

// DeleteTerm removes a term together with its mentions and trend rows
func (s *Store) DeleteTerm(ctx context.Context, term string) (bool, error) {
	key := model.NormalizeTerm(term)
	existed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.Term
		if err := tx.Where("term = ?", key).Take(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("term_id = ?", t.ID).Delete(&model.Mention{}).Error; err != nil {
			return err
		}
		if err := tx.Where("term_id = ?", t.ID).Delete(&model.DailyTrend{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Term{}, t.ID)
		if res.Error != nil {
			return res.Error
		}
		existed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, wrapErr("delete term", err)
	}
	return existed, nil
}

// BulkDelete deletes terms one by one and returns how many existed. It stops at
// the first storage error; earlier deletions stay committed.
func (s *Store) BulkDelete(ctx context.Context, terms []string) (int, error) {
	count := 0
	for _, term := range terms {
		ok, err := s.DeleteTerm(ctx, term)
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// BulkApprove approves the pending terms among terms. Missing and non-pending
// terms are skipped.
func (s *Store) BulkApprove(ctx context.Context, terms []string, actor string) (int, error) {
	if strings.TrimSpace(actor) == "" {
		actor = model.DefaultActor
	}

	count := 0
	for _, term := range terms {
		res := s.db.WithContext(ctx).Model(&model.Term{}).
			Where("term = ? AND approval_status = ?", model.NormalizeTerm(term), model.StatusPending).
			Updates(map[string]interface{}{
				"approval_status": model.StatusApproved,
				"approved_by":     actor,
				"approved_at":     s.now(),
			})
		if res.Error != nil {
			return count, wrapErr("bulk approve", res.Error)
		}
		if res.RowsAffected > 0 {
			count++
			metrics.ApprovalTransitions.WithLabelValues(string(model.StatusApproved)).Inc()
		}
	}
	return count, nil
}

// UpdateTerm overwrites the editable fields of a term regardless of the
// definition overwrite rule. It returns false when the term does not exist.
func (s *Store) UpdateTerm(ctx context.Context, term string, upd model.TermUpdate) (bool, error) {
	updates := map[string]interface{}{}
	if upd.Definition != nil {
		updates["definition"] = strings.TrimSpace(*upd.Definition)
	}
	if upd.Category != nil {
		category := strings.TrimSpace(*upd.Category)
		if category == "" {
			category = model.DefaultCategory
		}
		updates["category"] = category
	}
	if len(updates) == 0 {
		t, err := s.TermByName(ctx, term)
		return t != nil, err
	}

	res := s.db.WithContext(ctx).Model(&model.Term{}).
		Where("term = ?", model.NormalizeTerm(term)).
		Updates(updates)
	if res.Error != nil {
		return false, wrapErr("update term", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// TermByName returns the term or nil when it does not exist
func (s *Store) TermByName(ctx context.Context, term string) (*model.Term, error) {
	var t model.Term
	err := s.db.WithContext(ctx).Where("term = ?", model.NormalizeTerm(term)).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("term by name", err)
	}
	return &t, nil
}

// TermByID returns the term or nil when it does not exist
func (s *Store) TermByID(ctx context.Context, id uint) (*model.Term, error) {
	var t model.Term
	err := s.db.WithContext(ctx).Take(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("term by id", err)
	}
	return &t, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
