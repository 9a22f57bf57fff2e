package server

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ppiankov/slangwatch/internal/collect"
	"github.com/ppiankov/slangwatch/internal/model"
)

var errTermNotFound = errors.New("term not found")

func (s *Server) statusQuery(c *fiber.Ctx) (string, error) {
	status := c.Query("status", model.StatusAll)
	if status == model.StatusAll {
		return status, nil
	}
	if _, err := model.ParseStatus(status); err != nil {
		return "", err
	}
	return status, nil
}

// AdminTerms lists all ranked terms, optionally filtered by status
func (s *Server) AdminTerms(c *fiber.Ctx) error {
	status, err := s.statusQuery(c)
	if err != nil {
		return s.respondError(c, fiber.StatusBadRequest, err)
	}

	terms, err := s.store.Trending(c.UserContext(), c.QueryInt("limit", 1000), status)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"terms": terms, "count": len(terms)})
}

// TermDetail returns one term by id with its daily trend rows
func (s *Server) TermDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return s.respondError(c, fiber.StatusBadRequest, errors.New("invalid term id"))
	}

	term, err := s.store.TermByID(c.UserContext(), uint(id))
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	if term == nil {
		return s.respondError(c, fiber.StatusNotFound, errTermNotFound)
	}

	trends, err := s.store.DailyTrends(c.UserContext(), term.Term)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	if trends == nil {
		trends = []model.DailyTrend{}
	}
	return c.JSON(fiber.Map{"term": term, "trends": trends})
}

// Search matches terms and definitions against q
func (s *Server) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return s.respondError(c, fiber.StatusBadRequest, errors.New("missing query parameter q"))
	}
	status, err := s.statusQuery(c)
	if err != nil {
		return s.respondError(c, fiber.StatusBadRequest, err)
	}

	results, err := s.store.Search(c.UserContext(), query, status, c.QueryInt("limit", 100))
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"results": results, "count": len(results)})
}

// Placeholders lists terms that still need a real definition
func (s *Server) Placeholders(c *fiber.Ctx) error {
	terms, err := s.store.PlaceholderDefinitions(c.UserContext(), c.QueryInt("limit", 200))
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"terms": terms, "count": len(terms)})
}

// LowValue lists terms with at most max mentions
func (s *Server) LowValue(c *fiber.Ctx) error {
	terms, err := s.store.LowValue(c.UserContext(), c.QueryInt("max", 2))
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"terms": terms, "count": len(terms)})
}

// Activity lists recent approval decisions
func (s *Server) Activity(c *fiber.Ctx) error {
	activity, err := s.store.RecentActivity(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"activity": activity})
}

// Approve marks a term approved
func (s *Server) Approve(c *fiber.Ctx) error {
	term := c.Params("term")
	ok, err := s.store.Approve(c.UserContext(), term, actorOf(c))
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	if !ok {
		return s.respondError(c, fiber.StatusNotFound, errTermNotFound)
	}

	s.log.Info("term approved", zap.String("term", term), zap.String("actor", actorOf(c)))
	return c.JSON(fiber.Map{"success": true, "message": "Approved " + term})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject marks a term rejected with an optional reason
func (s *Server) Reject(c *fiber.Ctx) error {
	term := c.Params("term")

	var req rejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return s.respondError(c, fiber.StatusBadRequest, errors.New("invalid request body"))
		}
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "No reason provided"
	}

	ok, err := s.store.Reject(c.UserContext(), term, actorOf(c), reason)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	if !ok {
		return s.respondError(c, fiber.StatusNotFound, errTermNotFound)
	}

	s.log.Info("term rejected", zap.String("term", term), zap.String("actor", actorOf(c)), zap.String("reason", reason))
	return c.JSON(fiber.Map{"success": true, "message": "Rejected " + term})
}

// Delete removes a term with its mentions and trend rows
func (s *Server) Delete(c *fiber.Ctx) error {
	term := c.Params("term")
	ok, err := s.store.DeleteTerm(c.UserContext(), term)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	if !ok {
		return s.respondError(c, fiber.StatusNotFound, errTermNotFound)
	}

	s.log.Info("term deleted", zap.String("term", term), zap.String("actor", actorOf(c)))
	return c.JSON(fiber.Map{"success": true, "message": "Deleted " + term})
}

type bulkRequest struct {
	Terms []string `json:"terms"`
}

func (s *Server) parseBulk(c *fiber.Ctx) ([]string, error) {
	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if len(req.Terms) == 0 {
		return nil, errors.New("no terms provided")
	}
	return req.Terms, nil
}

// BulkApprove approves the listed pending terms
func (s *Server) BulkApprove(c *fiber.Ctx) error {
	terms, err := s.parseBulk(c)
	if err != nil {
		return s.respondError(c, fiber.StatusBadRequest, err)
	}

	n, err := s.store.BulkApprove(c.UserContext(), terms, actorOf(c))
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"success": true, "approved_count": n, "total_requested": len(terms)})
}

// BulkDelete deletes the listed terms
func (s *Server) BulkDelete(c *fiber.Ctx) error {
	terms, err := s.parseBulk(c)
	if err != nil {
		return s.respondError(c, fiber.StatusBadRequest, err)
	}

	n, err := s.store.BulkDelete(c.UserContext(), terms)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"success": true, "deleted_count": n, "total_requested": len(terms)})
}

type updateRequest struct {
	Term       string  `json:"term"`
	Definition *string `json:"definition"`
	Category   *string `json:"category"`
}

// UpdateTerm overwrites a term's definition and/or category
func (s *Server) UpdateTerm(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, fiber.StatusBadRequest, errors.New("invalid request body"))
	}
	term := model.NormalizeTerm(req.Term)
	if term == "" {
		return s.respondError(c, fiber.StatusBadRequest, errors.New("no term provided"))
	}

	ok, err := s.store.UpdateTerm(c.UserContext(), term, model.TermUpdate{Definition: req.Definition, Category: req.Category})
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	if !ok {
		return s.respondError(c, fiber.StatusNotFound, errTermNotFound)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Updated " + term})
}

type researchRequest struct {
	Term    string `json:"term"`
	Terms   string `json:"terms"` // Comma- or newline-separated
	Approve bool   `json:"approve"`
}

// Research looks up one term (returning moderator insight) or a list of terms
// (returning the research report, optionally approving what was found).
func (s *Server) Research(c *fiber.Ctx) error {
	if s.collector == nil {
		return s.respondError(c, fiber.StatusServiceUnavailable, collect.ErrNoLookup)
	}

	var req researchRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, fiber.StatusBadRequest, errors.New("invalid request body"))
	}

	ctx := c.UserContext()

	if term := model.NormalizeTerm(req.Term); term != "" {
		report, err := s.collector.Research(ctx, []string{term}, nil)
		if err != nil {
			return s.respondError(c, fiber.StatusInternalServerError, err)
		}
		if len(report.Found) == 0 {
			return c.JSON(fiber.Map{"success": false, "term": term, "error": "No definition found"})
		}
		found := report.Found[0]
		return c.JSON(fiber.Map{"success": true, "insight": collect.NewInsight(term, found.Definition, found.Source)})
	}

	terms := collect.ParseTermList(req.Terms)
	if len(terms) == 0 {
		return s.respondError(c, fiber.StatusBadRequest, errors.New("no term provided"))
	}

	report, err := s.collector.Research(ctx, terms, nil)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}

	resp := fiber.Map{"success": true, "research": report}
	if req.Approve && len(report.Found) > 0 {
		names := make([]string, 0, len(report.Found))
		for _, f := range report.Found {
			names = append(names, f.Term)
		}
		approval, err := s.collector.ApproveResearched(ctx, names, actorOf(c))
		if err != nil {
			return s.respondError(c, fiber.StatusInternalServerError, err)
		}
		resp["approval"] = approval
	}
	return c.JSON(resp)
}

// Cleanup lists, or with apply=true deletes, placeholder terms with at most one mention
func (s *Server) Cleanup(c *fiber.Ctx) error {
	apply := c.QueryBool("apply", false)
	report, err := s.store.Cleanup(c.UserContext(), !apply)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	if apply {
		s.log.Info("cleanup applied", zap.Int("deleted", report.Deleted), zap.String("actor", actorOf(c)))
	}
	return c.JSON(report)
}

// DashboardTerm is a ranked term with the derived display fields
type DashboardTerm struct {
	model.RankedTerm
	EngagementScore   float64 `json:"engagement_score"` // 0-100
	NeedsResearch     bool    `json:"needs_research"`
	TrendingDirection string  `json:"trending_direction"`
}

func newDashboardTerm(t model.RankedTerm) DashboardTerm {
	score := math.Min(100, math.Max(0, t.AvgEngagement/10))

	direction := "declining"
	switch {
	case score >= 80:
		direction = "rising"
	case score >= 60:
		direction = "stable"
	}

	return DashboardTerm{
		RankedTerm:        t,
		EngagementScore:   math.Round(score*10) / 10,
		NeedsResearch:     t.Definition == model.NoDefinition,
		TrendingDirection: direction,
	}
}

// Dashboard returns everything the moderation dashboard renders
func (s *Server) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	status, err := s.statusQuery(c)
	if err != nil {
		return s.respondError(c, fiber.StatusBadRequest, err)
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	ranked, err := s.store.Trending(ctx, 1000, status)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	activity, err := s.store.RecentActivity(ctx, 10)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}

	terms := make([]DashboardTerm, 0, len(ranked))
	research := 0
	for _, t := range ranked {
		dt := newDashboardTerm(t)
		if dt.NeedsResearch {
			research++
		}
		terms = append(terms, dt)
	}

	return c.JSON(fiber.Map{
		"stats":          stats,
		"terms":          terms,
		"activity":       activity,
		"needs_research": research,
		"filter":         status,
		"summary":        fmt.Sprintf("%d terms shown, %d pending review", len(terms), stats.PendingTerms),
	})
}
