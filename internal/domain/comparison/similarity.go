package comparison

import (
	"fmt"

	"github.com/verdictio/lexcompare/pkg/errors"
)

// Similarity classification cutoffs.  Scores are always in [0,1].
const (
	// IdenticalCutoff is the minimum score at which an aligned pair is
	// classified as identical rather than merely similar.
	IdenticalCutoff = 0.95

	// DefaultSimilarityThreshold is the platform default minimum score for a
	// pair to be aligned at all.  Comparisons may override it per request.
	DefaultSimilarityThreshold = 0.7
)

// SimilarityType discretises a similarity score for presentation.
type SimilarityType string

const (
	SimilarityIdentical SimilarityType = "identical"
	SimilaritySimilar   SimilarityType = "similar"
	SimilarityRelated   SimilarityType = "related"
)

func (s SimilarityType) IsValid() bool {
	return s == SimilarityIdentical || s == SimilaritySimilar || s == SimilarityRelated
}

// ClassifySimilarityType maps a score to its discrete band.  Scores below
// the effective threshold are related; at or above it, similar; identical
// additionally requires IdenticalCutoff.  A threshold above the cutoff
// therefore admits only exact-grade pairs as identical.
func ClassifySimilarityType(score, threshold float64) SimilarityType {
	switch {
	case score < threshold:
		return SimilarityRelated
	case score >= IdenticalCutoff:
		return SimilarityIdentical
	default:
		return SimilaritySimilar
	}
}

// DiffOp labels a word-level diff segment.
type DiffOp string

const (
	DiffEqual  DiffOp = "equal"
	DiffInsert DiffOp = "insert"
	DiffDelete DiffOp = "delete"
)

// TextDiff is one contiguous run of words sharing a diff operation,
// computed between the two clauses of an aligned pair.
type TextDiff struct {
	Op   DiffOp `json:"op"`
	Text string `json:"text"`
}

// ClauseSimilarity is one aligned clause pair: a clause from each document,
// the score that paired them, its discrete classification, and an optional
// word-level diff.  Immutable once constructed.
type ClauseSimilarity struct {
	Document1Clause DocumentClause `json:"document1_clause"`
	Document2Clause DocumentClause `json:"document2_clause"`
	SimilarityScore float64        `json:"similarity_score"`
	Type            SimilarityType `json:"type"`
	Differences     []TextDiff     `json:"differences,omitempty"`
}

// NewClauseSimilarity constructs a validated pair.  The score must be in
// [0,1] and the classification is derived from it against threshold.
func NewClauseSimilarity(c1, c2 DocumentClause, score, threshold float64, diffs []TextDiff) (*ClauseSimilarity, error) {
	if score < 0 || score > 1 {
		return nil, errors.New(errors.ErrCodeInvalidThreshold,
			fmt.Sprintf("similarity score %.4f outside [0,1]", score))
	}
	return &ClauseSimilarity{
		Document1Clause: c1,
		Document2Clause: c2,
		SimilarityScore: score,
		Type:            ClassifySimilarityType(score, threshold),
		Differences:     diffs,
	}, nil
}
