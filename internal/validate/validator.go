// Package validate decides whether a candidate term is slang.
package validate

import (
	"context"
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/slangwatch/internal/lookup"
	"github.com/ppiankov/slangwatch/internal/model"
)

// DefaultMinVotes is the lowest net vote count a looked-up definition may have
const DefaultMinVotes = -5

var termFormat = regexp.MustCompile(`^[a-z\s\-']+$`)

// Validator checks candidate terms against the allow-lists and, for unknown
// terms, an external lookup
type Validator struct {
	lookup   lookup.Provider
	minVotes int
	log      *zap.Logger
}

// NewValidator creates a validator. A nil provider disables lookups.
func NewValidator(p lookup.Provider, minVotes int, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{lookup: p, minVotes: minVotes, log: log}
}

// IsSlang reports whether term should be treated as slang. Lookup failures
// count as "not found".
func (v *Validator) IsSlang(ctx context.Context, term string) bool {
	term = model.NormalizeTerm(term)

	n := utf8.RuneCountInString(term)
	if n < 2 || n > 20 || !termFormat.MatchString(term) {
		return false
	}
	if IsBlacklisted(term) {
		return false
	}
	if IsAllowListed(term) {
		return true
	}

	if v.lookup == nil {
		return n >= 3 && !isNumeric(term)
	}

	res, err := v.lookup.Define(ctx, term)
	if err != nil {
		v.log.Debug("lookup failed, treating as unknown", zap.String("term", term), zap.Error(err))
		return false
	}
	return res.Found && res.Votes >= v.minVotes
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
