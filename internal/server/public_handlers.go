package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ppiankov/slangwatch/internal/model"
)

const hotMentions = 15

// PublicTerm is an approved term as the public dictionary shows it
type PublicTerm struct {
	Term           string `json:"term"`
	Definition     string `json:"definition"`
	Generation     string `json:"generation"`
	Category       string `json:"category"`
	MentionsTotal  int64  `json:"mentions_total"`
	TrendingStatus string `json:"trending_status"`
	Context        string `json:"context"`
}

func newPublicTerm(t model.RankedTerm) PublicTerm {
	status := "stable"
	if t.Mentions >= hotMentions {
		status = "hot"
	}
	return PublicTerm{
		Term:           strings.ToUpper(t.Term),
		Definition:     t.Definition,
		Generation:     generationOf(t.Category),
		Category:       t.Category,
		MentionsTotal:  t.Mentions,
		TrendingStatus: status,
		Context:        fmt.Sprintf("Popular across %d mentions", t.Mentions),
	}
}

func generationOf(category string) string {
	if category == "gen_alpha" {
		return "gen-alpha"
	}
	return "cross-gen"
}

// Health reports database connectivity and term counts
func (s *Server) Health(c *fiber.Ctx) error {
	ctx := c.UserContext()

	stats, err := s.store.Stats(ctx)
	if err == nil {
		err = s.store.Ping(ctx)
	}
	if err != nil {
		s.log.Error("health check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":    "unhealthy",
			"error":     "database unavailable",
			"timestamp": time.Now().UTC(),
		})
	}

	return c.JSON(fiber.Map{
		"status":         "healthy",
		"database":       "connected",
		"total_terms":    stats.TotalTerms,
		"approved_terms": stats.ApprovedTerms,
		"pending_terms":  stats.PendingTerms,
		"timestamp":      time.Now().UTC(),
	})
}

// PublicTerms lists approved terms
func (s *Server) PublicTerms(c *fiber.Ctx) error {
	terms, err := s.store.ApprovedOnly(c.UserContext(), c.QueryInt("limit", 500))
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}

	out := make([]PublicTerm, 0, len(terms))
	for _, t := range terms {
		out = append(out, newPublicTerm(t))
	}
	return c.JSON(fiber.Map{"terms": out, "count": len(out)})
}

// PublicStats summarizes the approved dictionary
func (s *Server) PublicStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}
	approved, err := s.store.ApprovedOnly(ctx, 1000)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}

	generations := map[string]int{"cross-gen": 0, "gen-alpha": 0}
	trending := 0
	for _, t := range approved {
		generations[generationOf(t.Category)]++
		if t.Mentions > 5 {
			trending++
		}
	}

	return c.JSON(fiber.Map{
		"totalTerms":       stats.ApprovedTerms,
		"generationCounts": generations,
		"trendingCount":    trending,
		"totalMentions":    stats.TotalMentions,
		"lastUpdated":      time.Now().UTC(),
	})
}
