// Package lookup resolves slang terms against external definition sources.
package lookup

import (
	"context"
	"fmt"
)

// Provider looks up the definition of a term
type Provider interface {
	// Name returns the provider name
	Name() string

	// Define returns the best definition for term. A term the source does not
	// know is a Result with Found false, not an error.
	Define(ctx context.Context, term string) (*Result, error)
}

// Result is the outcome of a lookup
type Result struct {
	Term       string `json:"term"`
	Found      bool   `json:"found"`
	Definition string `json:"definition,omitempty"`
	Example    string `json:"example,omitempty"`
	Votes      int    `json:"votes"` // Net votes (up minus down); 0 when the source has none
	Source     string `json:"source"`
}

// Error is an external lookup failure. Callers treat it as "not found".
type Error struct {
	Provider string
	Term     string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s lookup %q: %v", e.Provider, e.Term, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
