package comparison

import (
	"fmt"
	"time"

	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// ComparisonConfig carries the per-request engine parameters.  Zero values
// are replaced with platform defaults by Normalize.
type ComparisonConfig struct {
	// SimilarityThreshold is the minimum score for two clauses to align.
	// A pair aligns when its score is >= the threshold, so a threshold of
	// 1.0 admits only exact-score matches.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// CandidateWindow bounds how far apart in relative position two clauses
	// may sit and still be scored against each other.
	CandidateWindow int `json:"candidate_window"`

	// Scorer selects the scoring implementation; empty means the platform
	// default.
	Scorer string `json:"scorer,omitempty"`

	// IgnoreFormatting collapses whitespace and case before scoring.
	IgnoreFormatting bool `json:"ignore_formatting"`
}

// Normalize fills zero-valued fields with platform defaults.
func (c *ComparisonConfig) Normalize() {
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.CandidateWindow == 0 {
		c.CandidateWindow = 8
	}
}

// Validate checks the configuration bounds.
func (c ComparisonConfig) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return errors.New(errors.ErrCodeInvalidThreshold,
			fmt.Sprintf("similarity threshold %.3f outside [0,1]", c.SimilarityThreshold))
	}
	if c.CandidateWindow < 1 {
		return errors.InvalidParam("candidate window must be >= 1")
	}
	return nil
}

// DocumentRef is the snapshot of document identity carried inside a
// comparison, so results stay renderable even if the source document record
// is later renamed.
type DocumentRef struct {
	ID        common.ID `json:"id"`
	Name      string    `json:"name"`
	PageCount int       `json:"page_count"`
}

// DocumentComparison is the aggregate root: the full, immutable result of
// comparing two documents.  Once constructed and validated it is never
// modified; re-running with a different configuration produces a new
// aggregate with a new ID.
type DocumentComparison struct {
	ID          common.ID             `json:"id"`
	Document1   DocumentRef           `json:"document1"`
	Document2   DocumentRef           `json:"document2"`
	Config      ComparisonConfig      `json:"config"`
	Clauses1    []DocumentClause      `json:"clauses1"`
	Clauses2    []DocumentClause      `json:"clauses2"`
	Matches     []ClauseSimilarity    `json:"matches"`
	Differences []*DocumentDifference `json:"differences"`
	Metrics     ComparisonMetrics     `json:"metrics"`
	ScorerName  string                `json:"scorer_name"`
	Duration    time.Duration         `json:"duration"`
	CreatedAt   common.Timestamp      `json:"created_at"`
}

// NewDocumentComparison assembles and validates the aggregate from engine
// output.  Metrics are recomputed here rather than trusted from the caller.
func NewDocumentComparison(doc1, doc2 DocumentRef, cfg ComparisonConfig,
	clauses1, clauses2 []DocumentClause, matches []ClauseSimilarity,
	diffs []*DocumentDifference, scorerName string, duration time.Duration) (*DocumentComparison, error) {

	cmp := &DocumentComparison{
		ID:          common.NewID(),
		Document1:   doc1,
		Document2:   doc2,
		Config:      cfg,
		Clauses1:    clauses1,
		Clauses2:    clauses2,
		Matches:     matches,
		Differences: diffs,
		Metrics:     ComputeMetrics(matches, diffs, len(clauses1), len(clauses2)),
		ScorerName:  scorerName,
		Duration:    duration,
		CreatedAt:   common.Now(),
	}
	if err := cmp.Validate(); err != nil {
		return nil, err
	}
	return cmp, nil
}

// Validate enforces the aggregate invariants: documents are distinct records,
// the configuration is in bounds, every match respects the one-to-one rule,
// every match's score clears the threshold, and every difference record is
// internally consistent.
func (c *DocumentComparison) Validate() error {
	if c.Document1.ID == "" || c.Document2.ID == "" {
		return errors.InvalidParam("comparison requires two document references")
	}
	if err := c.Config.Validate(); err != nil {
		return err
	}

	seen1 := make(map[common.ID]bool, len(c.Matches))
	seen2 := make(map[common.ID]bool, len(c.Matches))
	for i := range c.Matches {
		m := &c.Matches[i]
		if m.SimilarityScore < c.Config.SimilarityThreshold {
			return errors.InvalidState(fmt.Sprintf(
				"match %s/%s scored %.4f below threshold %.4f",
				m.Document1Clause.ID, m.Document2Clause.ID,
				m.SimilarityScore, c.Config.SimilarityThreshold))
		}
		if seen1[m.Document1Clause.ID] || seen2[m.Document2Clause.ID] {
			return errors.InvalidState(fmt.Sprintf(
				"clause matched more than once: %s / %s",
				m.Document1Clause.ID, m.Document2Clause.ID))
		}
		seen1[m.Document1Clause.ID] = true
		seen2[m.Document2Clause.ID] = true
	}

	for _, d := range c.Differences {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SectionNames returns the ordered distinct section labels appearing across
// both documents' clauses, first-document order first.
func (c *DocumentComparison) SectionNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, cl := range c.Clauses1 {
		if !seen[cl.Section] {
			seen[cl.Section] = true
			out = append(out, cl.Section)
		}
	}
	for _, cl := range c.Clauses2 {
		if !seen[cl.Section] {
			seen[cl.Section] = true
			out = append(out, cl.Section)
		}
	}
	return out
}
