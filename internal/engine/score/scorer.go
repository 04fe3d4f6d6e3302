// Package score provides pluggable clause similarity scoring.  Every scorer
// satisfies the same contract: scores are in [0,1], deterministic for a given
// implementation, symmetric, and identical content scores exactly 1.0.
package score

import (
	"fmt"

	"github.com/verdictio/lexcompare/pkg/errors"
)

// Scorer computes a bounded similarity between two clause texts.
type Scorer interface {
	// Name identifies the scoring implementation, recorded on each
	// comparison so results remain attributable to a model version.
	Name() string

	// Score returns a similarity in [0,1].  Symmetric and deterministic;
	// identical inputs return exactly 1.0.
	Score(a, b string) float64
}

// Scorer names accepted by New and by the engine configuration.
const (
	NameLexical     = "lexical"
	NameLevenshtein = "levenshtein"
)

// New returns the scorer registered under name.
func New(name string) (Scorer, error) {
	switch name {
	case NameLexical, "":
		return NewLexicalScorer(), nil
	case NameLevenshtein:
		return NewLevenshteinScorer(), nil
	default:
		return nil, errors.InvalidParam(fmt.Sprintf("unknown scorer %q", name))
	}
}
