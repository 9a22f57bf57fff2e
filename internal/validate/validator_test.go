package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/slangwatch/internal/lookup"
)

type stubLookup struct {
	results map[string]*lookup.Result
	calls   []string
}

func (s *stubLookup) Name() string { return "stub" }

func (s *stubLookup) Define(_ context.Context, term string) (*lookup.Result, error) {
	s.calls = append(s.calls, term)
	if term == "offline" {
		return nil, &lookup.Error{Provider: "stub", Term: term, Err: errors.New("connection refused")}
	}
	if res, ok := s.results[term]; ok {
		return res, nil
	}
	return &lookup.Result{Term: term}, nil
}

func TestValidator_IsSlang(t *testing.T) {
	stub := &stubLookup{results: map[string]*lookup.Result{
		"cheugy":   {Found: true, Votes: 40},
		"borderln": {Found: true, Votes: -5},
		"hated":    {Found: true, Votes: -6},
	}}
	v := NewValidator(stub, DefaultMinVotes, nil)

	tests := []struct {
		term string
		want bool
	}{
		{"rizz", true},    // allow-listed
		{"No Cap", true},  // allow-listed after normalization
		{"skibidi", true}, // gen alpha
		{"lewk", true},    // confirmed
		{"people", false}, // blacklisted
		{"x", false},      // too short
		{"abcdefghijklmnopqrstu", false},
		{"l33t", false},    // digits
		{"cheugy", true},   // found with votes
		{"borderln", true}, // exactly at the threshold
		{"hated", false},   // below threshold
		{"qwzx", false},    // not found
		{"offline", false}, // lookup error counts as not found
	}

	for _, tt := range tests {
		if got := v.IsSlang(context.Background(), tt.term); got != tt.want {
			t.Errorf("IsSlang(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}

	for _, call := range stub.calls {
		if IsAllowListed(call) {
			t.Errorf("allow-listed term %q should not be looked up", call)
		}
	}
}

func TestValidator_NoLookup(t *testing.T) {
	v := NewValidator(nil, DefaultMinVotes, nil)

	tests := []struct {
		term string
		want bool
	}{
		{"cheugy", true},
		{"ab", false}, // too short without a lookup
		{"drip", true},
		{"that", false},
	}

	for _, tt := range tests {
		if got := v.IsSlang(context.Background(), tt.term); got != tt.want {
			t.Errorf("IsSlang(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestVocabulary(t *testing.T) {
	if !IsFashion("ootd") || IsFashion("skibidi") {
		t.Error("fashion whitelist membership is wrong")
	}
	if !IsGenAlpha("fanum tax") || IsGenAlpha("drip") {
		t.Error("gen alpha membership is wrong")
	}
	if !IsBlacklisted("reddit") || IsBlacklisted("rizz") {
		t.Error("blacklist membership is wrong")
	}
	for _, lists := range [][]string{FashionWhitelist, GenAlphaTerms, ConfirmedSlang, Blacklist} {
		for _, w := range lists {
			if IsAllowListed(w) && IsBlacklisted(w) {
				t.Errorf("%q is both allow-listed and blacklisted", w)
			}
		}
	}
}
