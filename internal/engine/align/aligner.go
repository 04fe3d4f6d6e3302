// Package align produces the one-to-one, order-respecting clause matching
// between two documents.  Candidate pairs are restricted to a relative
// position window, scored, then greedily matched best-score-first with
// deterministic tie-breaks.  A wall-clock budget bounds the scoring phase.
package align

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/engine/score"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
)

// Pair is one accepted match: indices into the two clause slices plus the
// score that paired them.
type Pair struct {
	I, J  int
	Score float64
}

// Result is the full alignment outcome.  Pairs are ordered by document-1
// position; unmatched index lists are ascending.
type Result struct {
	Pairs      []Pair
	Unmatched1 []int
	Unmatched2 []int
}

// Options tunes one alignment run.
type Options struct {
	// Threshold is the minimum score for a pair to be accepted, inclusive:
	// a pair aligns when score >= Threshold, so 1.0 admits only exact-score
	// matches and 0 accepts every scoreable candidate.
	Threshold float64

	// Window bounds candidate pairs: clause j of document 2 is a candidate
	// for clause i of document 1 when |j - scale(i)| <= Window, where
	// scale(i) maps i onto document 2's index range.
	Window int

	// Budget is the wall-clock limit for the scoring phase.  Zero means
	// no limit.
	Budget time.Duration
}

// Aligner matches clauses using an injected scorer.
type Aligner struct {
	scorer score.Scorer
	log    logging.Logger
}

func NewAligner(scorer score.Scorer, log logging.Logger) *Aligner {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Aligner{scorer: scorer, log: log.Named("align")}
}

type candidate struct {
	i, j  int
	score float64
}

// Align computes the matching.  It returns AlignmentTimeout when the scoring
// phase exceeds the budget, and respects ctx cancellation the same way.
func (a *Aligner) Align(ctx context.Context, c1, c2 []comparison.DocumentClause, opts Options) (*Result, error) {
	if opts.Window < 1 {
		opts.Window = 1
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, errors.New(errors.ErrCodeInvalidThreshold,
			fmt.Sprintf("alignment threshold %.3f outside [0,1]", opts.Threshold))
	}

	cands, err := a.scoreCandidates(ctx, c1, c2, opts)
	if err != nil {
		return nil, err
	}

	// Best score first; ties go to the earliest document-1 position, then
	// the earliest document-2 position, for reproducibility.
	sort.SliceStable(cands, func(x, y int) bool {
		if cands[x].score != cands[y].score {
			return cands[x].score > cands[y].score
		}
		if cands[x].i != cands[y].i {
			return cands[x].i < cands[y].i
		}
		return cands[x].j < cands[y].j
	})

	used1 := make([]bool, len(c1))
	used2 := make([]bool, len(c2))
	var pairs []Pair
	for _, c := range cands {
		if used1[c.i] || used2[c.j] {
			continue
		}
		if crosses(pairs, c.i, c.j) {
			continue
		}
		used1[c.i] = true
		used2[c.j] = true
		pairs = append(pairs, Pair{I: c.i, J: c.j, Score: c.score})
	}

	sort.Slice(pairs, func(x, y int) bool { return pairs[x].I < pairs[y].I })

	res := &Result{Pairs: pairs}
	for i, used := range used1 {
		if !used {
			res.Unmatched1 = append(res.Unmatched1, i)
		}
	}
	for j, used := range used2 {
		if !used {
			res.Unmatched2 = append(res.Unmatched2, j)
		}
	}

	a.log.Debug("alignment complete",
		logging.Int("clauses1", len(c1)),
		logging.Int("clauses2", len(c2)),
		logging.Int("pairs", len(pairs)))
	return res, nil
}

// scoreCandidates scores every in-window pair at or above the threshold.
// The budget is checked once per document-1 clause, keeping the check cheap
// relative to the scoring work it bounds.
func (a *Aligner) scoreCandidates(ctx context.Context, c1, c2 []comparison.DocumentClause, opts Options) ([]candidate, error) {
	if len(c1) == 0 || len(c2) == 0 {
		return nil, nil
	}

	deadline := time.Time{}
	if opts.Budget > 0 {
		deadline = time.Now().Add(opts.Budget)
	}

	var cands []candidate
	for i := range c1 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeAlignmentFailed, "alignment cancelled")
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, errors.New(errors.ErrCodeAlignmentTimeout,
				fmt.Sprintf("pairwise scoring exceeded budget %s", opts.Budget))
		}

		center := scaleIndex(i, len(c1), len(c2))
		lo, hi := center-opts.Window, center+opts.Window
		if lo < 0 {
			lo = 0
		}
		if hi > len(c2)-1 {
			hi = len(c2) - 1
		}
		for j := lo; j <= hi; j++ {
			s := a.scorer.Score(c1[i].Content, c2[j].Content)
			if s >= opts.Threshold {
				cands = append(cands, candidate{i: i, j: j, score: s})
			}
		}
	}
	return cands, nil
}

// scaleIndex maps a document-1 index onto document 2's index range so the
// window tracks relative position when clause counts differ.
func scaleIndex(i, n1, n2 int) int {
	if n1 <= 1 {
		return 0
	}
	return i * (n2 - 1) / (n1 - 1)
}

// crosses reports whether accepting (i, j) would invert the order of an
// already accepted pair.  Keeping the matching crossing-free preserves the
// documents' clause order.
func crosses(pairs []Pair, i, j int) bool {
	for _, p := range pairs {
		if (i-p.I)*(j-p.J) < 0 {
			return true
		}
	}
	return false
}
