package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/slangwatch/internal/collect"
	"github.com/ppiankov/slangwatch/internal/lookup"
	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/store"
)

const (
	testPassword = "let-me-in"
	testSecret   = "test-secret-key-12345678901234567890"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Database.Path = ":memory:"
	cfg.Admin.Password = testPassword
	cfg.Admin.SessionSecret = testSecret
	return cfg
}

func newTestServer(t *testing.T, collector *collect.Collector) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	s, err := New(testConfig(), st, collector, zap.NewNop())
	require.NoError(t, err)
	return s, st
}

func do(t *testing.T, s *Server, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var out map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func login(t *testing.T, s *Server) string {
	t.Helper()
	resp, body := do(t, s, http.MethodPost, "/api/admin/login", `{"password":"`+testPassword+`"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func seedMentions(t *testing.T, st *store.Store, term, def, category string, n, engagement int) {
	t.Helper()
	ctx := context.Background()
	_, err := st.UpsertTerm(ctx, term, def, category)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, st.RecordMention(ctx, term, "reddit", "seen "+term, engagement))
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.Password = ""
	_, err := New(cfg, nil, nil, nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s, st := newTestServer(t, nil)
	seedMentions(t, st, "drip", "Fashionable clothing", "fashion", 1, 5)

	resp, body := do(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(1), body["total_terms"])
	assert.Equal(t, float64(1), body["pending_terms"])
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestPublicTerms_OnlyApproved(t *testing.T) {
	s, st := newTestServer(t, nil)
	ctx := context.Background()
	seedMentions(t, st, "rizz", "Charisma", "social", 15, 10)
	seedMentions(t, st, "drip", "Fashionable clothing", "fashion", 2, 5)
	seedMentions(t, st, "mid", "Mediocre", "general", 3, 1)

	_, err := st.Approve(ctx, "rizz", "")
	require.NoError(t, err)
	_, err = st.Approve(ctx, "drip", "")
	require.NoError(t, err)

	resp, body := do(t, s, http.MethodGet, "/api/terms", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	terms := body["terms"].([]any)
	first := terms[0].(map[string]any)
	assert.Equal(t, "RIZZ", first["term"])
	assert.Equal(t, "hot", first["trending_status"])
	assert.Equal(t, "Popular across 15 mentions", first["context"])
	second := terms[1].(map[string]any)
	assert.Equal(t, "DRIP", second["term"])
	assert.Equal(t, "stable", second["trending_status"])
}

func TestPublicStats(t *testing.T) {
	s, st := newTestServer(t, nil)
	seedMentions(t, st, "rizz", "Charisma", "social", 6, 10)
	seedMentions(t, st, "skibidi", "Nonsense", "gen_alpha", 1, 1)
	_, err := st.BulkApprove(context.Background(), []string{"rizz", "skibidi"}, "")
	require.NoError(t, err)

	resp, body := do(t, s, http.MethodGet, "/api/stats", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["totalTerms"])
	assert.Equal(t, float64(1), body["trendingCount"])
	assert.Equal(t, float64(7), body["totalMentions"])
	gens := body["generationCounts"].(map[string]any)
	assert.Equal(t, float64(1), gens["gen-alpha"])
}

func TestAdmin_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp, body := do(t, s, http.MethodGet, "/api/admin/terms", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "authorization required", body["error"])

	resp, _ = do(t, s, http.MethodGet, "/api/admin/terms", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iss": tokenIssuer,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	tok, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	resp, _ = do(t, s, http.MethodGet, "/api/admin/terms", "", tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iss": tokenIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tok, err = forged.SignedString([]byte("some-other-secret-1234567890123456"))
	require.NoError(t, err)
	resp, _ = do(t, s, http.MethodGet, "/api/admin/terms", "", tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp, body := do(t, s, http.MethodPost, "/api/admin/login", `{"password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid password", body["error"])

	resp, body = do(t, s, http.MethodPost, "/api/admin/login", `{"password":"`+testPassword+`"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/terms", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session.Value})
	cookieResp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, cookieResp.StatusCode)
}

func TestApprovalWorkflow(t *testing.T) {
	s, st := newTestServer(t, nil)
	ctx := context.Background()
	token := login(t, s)
	seedMentions(t, st, "no cap", "For real", "general", 2, 3)

	resp, body := do(t, s, http.MethodPost, "/api/admin/approve/no%20cap", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Approved no cap", body["message"])

	term, err := st.TermByName(ctx, "no cap")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, term.ApprovalStatus)
	require.NotNil(t, term.ApprovedBy)
	assert.Equal(t, model.DefaultActor, *term.ApprovedBy)

	resp, _ = do(t, s, http.MethodPost, "/api/admin/reject/no%20cap", `{"reason":"too common"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	term, err = st.TermByName(ctx, "no cap")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, term.ApprovalStatus)
	require.NotNil(t, term.RejectionReason)
	assert.Equal(t, "too common", *term.RejectionReason)

	resp, _ = do(t, s, http.MethodPost, "/api/admin/approve/missing", "", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, s, http.MethodDelete, "/api/admin/delete/no%20cap", "", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	term, err = st.TermByName(ctx, "no cap")
	require.NoError(t, err)
	assert.Nil(t, term)

	resp, _ = do(t, s, http.MethodDelete, "/api/admin/delete/no%20cap", "", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminTerms_StatusFilter(t *testing.T) {
	s, st := newTestServer(t, nil)
	token := login(t, s)
	seedMentions(t, st, "rizz", "Charisma", "social", 2, 1)
	seedMentions(t, st, "mid", "Mediocre", "general", 1, 1)
	_, err := st.Approve(context.Background(), "rizz", "")
	require.NoError(t, err)

	_, body := do(t, s, http.MethodGet, "/api/admin/terms?status=pending", "", token)
	assert.Equal(t, float64(1), body["count"])

	_, body = do(t, s, http.MethodGet, "/api/admin/terms", "", token)
	assert.Equal(t, float64(2), body["count"])

	resp, _ := do(t, s, http.MethodGet, "/api/admin/terms?status=bogus", "", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTermDetail(t *testing.T) {
	s, st := newTestServer(t, nil)
	token := login(t, s)
	seedMentions(t, st, "rizz", "Charisma", "social", 2, 1)

	term, err := st.TermByName(context.Background(), "rizz")
	require.NoError(t, err)
	require.NotNil(t, term)

	resp, body := do(t, s, http.MethodGet, fmt.Sprintf("/api/admin/terms/%d", term.ID), "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := body["term"].(map[string]any)
	assert.Equal(t, "rizz", got["term"])
	assert.Equal(t, "Charisma", got["definition"])
	assert.IsType(t, []any{}, body["trends"])

	resp, _ = do(t, s, http.MethodGet, "/api/admin/terms/9999", "", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, s, http.MethodGet, "/api/admin/terms/abc", "", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, s, http.MethodGet, fmt.Sprintf("/api/admin/terms/%d", term.ID), "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBulkOperations(t *testing.T) {
	s, st := newTestServer(t, nil)
	token := login(t, s)
	seedMentions(t, st, "rizz", "Charisma", "social", 1, 1)
	seedMentions(t, st, "gyat", "", "gen_alpha", 1, 1)
	seedMentions(t, st, "mid", "Mediocre", "general", 1, 1)

	resp, _ := do(t, s, http.MethodPost, "/api/admin/bulk-approve", `{"terms":[]}`, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, s, http.MethodPost, "/api/admin/bulk-approve", `{"terms":["rizz","gyat","nope"]}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["approved_count"])
	assert.Equal(t, float64(3), body["total_requested"])

	resp, body = do(t, s, http.MethodPost, "/api/admin/bulk-delete", `{"terms":["mid","nope"]}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["deleted_count"])
}

func TestUpdateTerm(t *testing.T) {
	s, st := newTestServer(t, nil)
	token := login(t, s)
	seedMentions(t, st, "drip", "A very long and detailed definition of drip", "general", 1, 1)

	resp, _ := do(t, s, http.MethodPost, "/api/admin/update-term", `{"term":"Drip","definition":"Style","category":"fashion"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	term, err := st.TermByName(context.Background(), "drip")
	require.NoError(t, err)
	require.NotNil(t, term.Definition)
	assert.Equal(t, "Style", *term.Definition)
	assert.Equal(t, "fashion", term.Category)

	resp, _ = do(t, s, http.MethodPost, "/api/admin/update-term", `{"term":"ghost","definition":"x"}`, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPost, "/api/admin/update-term", `{"definition":"x"}`, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) Define(_ context.Context, term string) (*lookup.Result, error) {
	if term == "drip" {
		return &lookup.Result{Term: term, Found: true, Definition: "Stylish clothing", Votes: 12, Source: "stub"}, nil
	}
	return &lookup.Result{Term: term, Source: "stub"}, nil
}

func TestResearch(t *testing.T) {
	t.Run("no lookup", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		token := login(t, s)
		resp, _ := do(t, s, http.MethodPost, "/api/admin/research", `{"term":"drip"}`, token)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("single term", func(t *testing.T) {
		st, err := store.Open(":memory:", zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		c := collect.NewCollector(st, nil, nil, stubProvider{}, model.ScraperConfig{}, nil)
		s, err := New(testConfig(), st, c, zap.NewNop())
		require.NoError(t, err)
		token := login(t, s)

		resp, body := do(t, s, http.MethodPost, "/api/admin/research", `{"term":"Drip"}`, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		insight := body["insight"].(map[string]any)
		assert.Equal(t, "fashion", insight["category"])

		term, err := st.TermByName(context.Background(), "drip")
		require.NoError(t, err)
		require.NotNil(t, term)

		_, body = do(t, s, http.MethodPost, "/api/admin/research", `{"terms":"drip, unknownword","approve":true}`, token)
		assert.Equal(t, true, body["success"])
		approval := body["approval"].(map[string]any)
		assert.Equal(t, float64(1), approval["approved_count"])
		research := body["research"].(map[string]any)
		assert.Equal(t, []any{"unknownword"}, research["missing_terms"])
	})
}

func TestCleanup(t *testing.T) {
	s, st := newTestServer(t, nil)
	token := login(t, s)
	seedMentions(t, st, "blah", "Trending slang term", "general", 1, 1)
	seedMentions(t, st, "rizz", "Charisma", "social", 1, 1)

	resp, body := do(t, s, http.MethodPost, "/api/admin/cleanup", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["dry_run"])
	assert.Equal(t, []any{"blah"}, body["candidates"])

	_, body = do(t, s, http.MethodPost, "/api/admin/cleanup?apply=true", "", token)
	assert.Equal(t, float64(1), body["deleted"])

	term, err := st.TermByName(context.Background(), "blah")
	require.NoError(t, err)
	assert.Nil(t, term)
}

func TestDashboard(t *testing.T) {
	s, st := newTestServer(t, nil)
	token := login(t, s)
	seedMentions(t, st, "rizz", "Charisma", "social", 2, 900)
	seedMentions(t, st, "gyat", "", "gen_alpha", 1, 1)

	resp, body := do(t, s, http.MethodGet, "/api/admin/dashboard", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["needs_research"])

	terms := body["terms"].([]any)
	require.Len(t, terms, 2)
	first := terms[0].(map[string]any)
	assert.Equal(t, "rizz", first["term"])
	assert.Equal(t, "rising", first["trending_direction"])
	assert.Equal(t, float64(90), first["engagement_score"])
	second := terms[1].(map[string]any)
	assert.Equal(t, true, second["needs_research"])
	assert.Equal(t, "declining", second["trending_direction"])
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	do(t, s, http.MethodGet, "/health", "", "")

	resp, _ := do(t, s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t, nil)
	resp, body := do(t, s, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}
