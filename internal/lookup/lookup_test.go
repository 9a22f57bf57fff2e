package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/slangwatch/internal/cache"
	"github.com/ppiankov/slangwatch/internal/fetch"
	"github.com/ppiankov/slangwatch/internal/model"
)

func newUrbanServer(t *testing.T, entries map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/define" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		term := r.URL.Query().Get("term")
		if term == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		body, ok := entries[term]
		if !ok {
			_, _ = fmt.Fprint(w, `{"list":[]}`)
			return
		}
		_, _ = fmt.Fprint(w, body)
	}))
}

func TestUrbanDictionary_Define(t *testing.T) {
	long := strings.Repeat("d", 400)
	server := newUrbanServer(t, map[string]string{
		"no cap": `{"list":[{"word":"no cap","definition":"No [lie], for [real]\r\n","example":"that fit is fire no cap","thumbs_up":120,"thumbs_down":20},{"definition":"second"}]}`,
		"long":   `{"list":[{"definition":"` + long + `","thumbs_up":1,"thumbs_down":9}]}`,
	})
	defer server.Close()

	ud := NewUrbanDictionary(fetch.NewFetcher(fetch.Options{UserAgent: "test"}), server.URL+"/")
	ctx := context.Background()

	res, err := ud.Define(ctx, "no cap")
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if !res.Found || res.Definition != "No lie, for real" || res.Votes != 100 || res.Source != "urban_dictionary" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Example != "that fit is fire no cap" {
		t.Errorf("unexpected example: %q", res.Example)
	}

	res, err = ud.Define(ctx, "long")
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if len(res.Definition) != maxDefinitionLen || res.Votes != -8 {
		t.Errorf("expected 300-char definition and -8 votes, got %d chars, %d votes", len(res.Definition), res.Votes)
	}

	res, err = ud.Define(ctx, "qwzx")
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if res.Found {
		t.Error("expected unknown term not to be found")
	}

	_, err = ud.Define(ctx, "boom")
	var lookupErr *Error
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if lookupErr.Term != "boom" || lookupErr.Provider != "urban_dictionary" {
		t.Errorf("unexpected error fields: %+v", lookupErr)
	}
}

type countingProvider struct {
	calls atomic.Int32
	fail  bool
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Define(_ context.Context, term string) (*Result, error) {
	p.calls.Add(1)
	if p.fail {
		return nil, &Error{Provider: p.Name(), Term: term, Err: errors.New("offline")}
	}
	return &Result{Term: term, Found: term == "drip", Definition: "clothes", Votes: 3, Source: p.Name()}, nil
}

func TestCached_ReusesResults(t *testing.T) {
	inner := &countingProvider{}
	c := NewCached(inner, cache.NewMemory(time.Hour), time.Hour, nil)
	ctx := context.Background()

	for _, term := range []string{"drip", "Drip ", " DRIP"} {
		res, err := c.Define(ctx, term)
		if err != nil {
			t.Fatalf("Define(%q) failed: %v", term, err)
		}
		if !res.Found || res.Term != "drip" {
			t.Errorf("Define(%q) = %+v", term, res)
		}
	}
	if n := inner.calls.Load(); n != 1 {
		t.Errorf("expected 1 provider call, got %d", n)
	}

	// not-found answers are cached too
	_, _ = c.Define(ctx, "zzz")
	_, _ = c.Define(ctx, "zzz")
	if n := inner.calls.Load(); n != 2 {
		t.Errorf("expected 2 provider calls, got %d", n)
	}
	if c.Name() != "counting" {
		t.Errorf("expected wrapped name, got %s", c.Name())
	}
}

func TestCached_ExpiresAfterTTL(t *testing.T) {
	inner := &countingProvider{}
	c := NewCached(inner, cache.NewMemory(time.Hour), 20*time.Millisecond, nil)

	_, _ = c.Define(context.Background(), "drip")
	time.Sleep(40 * time.Millisecond)
	_, _ = c.Define(context.Background(), "drip")

	if n := inner.calls.Load(); n != 2 {
		t.Errorf("expected expired entry to be fetched again, got %d calls", n)
	}
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{fail: true}
	c := NewCached(inner, cache.NewMemory(time.Hour), time.Hour, nil)

	for i := 0; i < 2; i++ {
		if _, err := c.Define(context.Background(), "drip"); err == nil {
			t.Fatal("expected error")
		}
	}
	if n := inner.calls.Load(); n != 2 {
		t.Errorf("expected failures to be retried on the next call, got %d calls", n)
	}
}

func openAIServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAI_Define(t *testing.T) {
	server := openAIServer(t, `{"found": true, "definition": "Extremely good", "example": "this song is bussin"}`)
	defer server.Close()

	p, err := NewOpenAI("test-key", "", server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}

	res, err := p.Define(context.Background(), "bussin")
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if !res.Found || res.Definition != "Extremely good" || res.Example != "this song is bussin" || res.Source != "openai" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestOpenAI_NotSlang(t *testing.T) {
	server := openAIServer(t, `{"found": false, "definition": "", "example": ""}`)
	defer server.Close()

	p, _ := NewOpenAI("test-key", "gpt-4o-mini", server.URL, 5*time.Second, nil)
	res, err := p.Define(context.Background(), "table")
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if res.Found {
		t.Error("expected not found")
	}
}

func TestOpenAI_BadAnswer(t *testing.T) {
	server := openAIServer(t, "I think it means good")
	defer server.Close()

	p, _ := NewOpenAI("test-key", "", server.URL, 5*time.Second, nil)
	_, err := p.Define(context.Background(), "bussin")
	var lookupErr *Error
	if !errors.As(err, &lookupErr) {
		t.Errorf("expected *Error for undecodable answer, got %v", err)
	}
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	if _, err := NewOpenAI("", "", "", 0, nil); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNew(t *testing.T) {
	cfg := model.DefaultConfig()

	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p == nil || p.Name() != "urban_dictionary" {
		t.Errorf("expected cached urban dictionary provider, got %v", p)
	}

	cfg.Lookup.Provider = "none"
	p, err = New(cfg, nil)
	if err != nil || p != nil {
		t.Errorf("expected nil provider for none, got %v, %v", p, err)
	}

	cfg.Lookup.Provider = "openai"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for openai without key")
	}
	cfg.OpenAI.APIKey = "sk-test"
	p, err = New(cfg, nil)
	if err != nil || p.Name() != "openai" {
		t.Errorf("expected openai provider, got %v, %v", p, err)
	}

	cfg.Lookup.Provider = "wiktionary"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}
