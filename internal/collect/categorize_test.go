package collect

import (
	"strings"
	"testing"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"slay", "attitude"},
		{"Drip", "fashion"},
		{"rizz", "social"},
		{"sus", "social"},
		{"bussin", "general"},
		{"W", "general"},
		{"skibidi", "gen_alpha"},
		{"aesthetic", "fashion"},
		{"fitcheck", "fashion"},
		{"streetwear", "fashion"},
		{"yeet", "general"},
	}
	for _, tt := range tests {
		if got := Categorize(tt.term); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.term, got, tt.want)
		}
	}
}

func TestCategorizeDefinition(t *testing.T) {
	tests := []struct {
		def  string
		want string
	}{
		{"A stylish outfit", "fashion"},
		{"The mood of a room", "attitude"},
		{"Something really good", "quality"},
		{"Your closest friend", "social"},
		{"A way of living", "lifestyle"},
		{"A saying used online", "expression"},
		{"Unknown", "emerging"},
	}
	for _, tt := range tests {
		if got := CategorizeDefinition(tt.def); got != tt.want {
			t.Errorf("CategorizeDefinition(%q) = %q, want %q", tt.def, got, tt.want)
		}
	}
}

func TestNewInsight(t *testing.T) {
	in := NewInsight("drip", "Cool clothing seen online", "urban_dictionary")
	if in.Category != "fashion" {
		t.Errorf("expected fashion, got %q", in.Category)
	}
	if in.GeographicSpread != "Global" {
		t.Errorf("expected Global, got %q", in.GeographicSpread)
	}
	if len(in.UsageExamples) != 2 || !strings.Contains(in.UsageExamples[0], "Your drip is absolutely stunning!") {
		t.Errorf("unexpected usage examples %v", in.UsageExamples)
	}
}

func TestSuggestions(t *testing.T) {
	all := Suggestions(0)
	seen := map[string]bool{}
	for _, s := range all {
		if seen[s] {
			t.Errorf("duplicate suggestion %q", s)
		}
		seen[s] = true
	}
	if !seen["skibidi"] || !seen["cottagecore"] {
		t.Errorf("expected gen alpha and trending terms, got %v", all)
	}

	if got := Suggestions(5); len(got) != 5 || got[0] != "skibidi" {
		t.Errorf("Suggestions(5) = %v", got)
	}
}
