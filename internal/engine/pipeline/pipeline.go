// Package pipeline orchestrates the comparison engine end to end:
// segmentation of both documents, scorer selection, windowed alignment with
// a single halved-window retry on timeout, difference classification, and
// assembly of the immutable DocumentComparison aggregate.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/verdictio/lexcompare/internal/config"
	"github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/domain/document"
	"github.com/verdictio/lexcompare/internal/engine/align"
	"github.com/verdictio/lexcompare/internal/engine/classify"
	"github.com/verdictio/lexcompare/internal/engine/score"
	"github.com/verdictio/lexcompare/internal/engine/segment"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
)

// Pipeline runs comparisons.  Safe for concurrent use: all state is
// configuration injected at construction.
type Pipeline struct {
	cfg       config.EngineConfig
	segmenter *segment.Segmenter
	log       logging.Logger
}

func New(cfg config.EngineConfig, log logging.Logger) *Pipeline {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Pipeline{
		cfg:       cfg,
		segmenter: segment.NewSegmenter(log),
		log:       log.Named("pipeline"),
	}
}

// Compare produces a new DocumentComparison for the two documents.  Request
// configuration overrides fall back to the engine configuration; failures of
// either document's segmentation fail the whole comparison.
func (p *Pipeline) Compare(ctx context.Context, doc1, doc2 *document.Document, cfg comparison.ComparisonConfig) (*comparison.DocumentComparison, error) {
	start := time.Now()

	p.applyEngineDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clauses1, err := p.segmenter.Segment(doc1.Text, doc1.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.GetCode(err), "segmentation failed for document "+doc1.Name)
	}
	clauses2, err := p.segmenter.Segment(doc2.Text, doc2.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.GetCode(err), "segmentation failed for document "+doc2.Name)
	}

	scorer, err := score.New(cfg.Scorer)
	if err != nil {
		return nil, err
	}
	if cfg.IgnoreFormatting {
		clauses1 = normalizeClauses(clauses1)
		clauses2 = normalizeClauses(clauses2)
	}

	res, err := p.alignWithRetry(ctx, scorer, clauses1, clauses2, cfg)
	if err != nil {
		return nil, err
	}

	sims, diffs, err := classify.Classify(clauses1, clauses2, res, cfg.SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	ref1 := comparison.DocumentRef{ID: doc1.ID, Name: doc1.Name, PageCount: doc1.PageCount}
	ref2 := comparison.DocumentRef{ID: doc2.ID, Name: doc2.Name, PageCount: doc2.PageCount}
	cmp, err := comparison.NewDocumentComparison(ref1, ref2, cfg, clauses1, clauses2,
		sims, diffs, scorer.Name(), time.Since(start))
	if err != nil {
		return nil, err
	}

	p.log.Info("comparison complete",
		logging.String("comparison_id", string(cmp.ID)),
		logging.String("document1", doc1.Name),
		logging.String("document2", doc2.Name),
		logging.Int("matches", len(sims)),
		logging.Int("differences", len(diffs)),
		logging.Duration("duration", cmp.Duration))
	return cmp, nil
}

// alignWithRetry runs the aligner under the configured budget; on an
// AlignmentTimeout it retries exactly once with the candidate window halved
// before surfacing the error.
func (p *Pipeline) alignWithRetry(ctx context.Context, scorer score.Scorer, c1, c2 []comparison.DocumentClause, cfg comparison.ComparisonConfig) (*align.Result, error) {
	aligner := align.NewAligner(scorer, p.log)
	opts := align.Options{
		Threshold: cfg.SimilarityThreshold,
		Window:    cfg.CandidateWindow,
		Budget:    p.cfg.AlignmentBudget,
	}

	res, err := aligner.Align(ctx, c1, c2, opts)
	if err == nil || !errors.IsCode(err, errors.ErrCodeAlignmentTimeout) {
		return res, err
	}

	opts.Window = opts.Window / 2
	if opts.Window < 1 {
		opts.Window = 1
	}
	p.log.Warn("alignment exceeded budget, retrying with reduced window",
		logging.Int("window", opts.Window),
		logging.Duration("budget", opts.Budget))
	return aligner.Align(ctx, c1, c2, opts)
}

func (p *Pipeline) applyEngineDefaults(cfg *comparison.ComparisonConfig) {
	if cfg.Scorer == "" {
		cfg.Scorer = p.cfg.Scorer
	}
	if cfg.SimilarityThreshold == 0 && p.cfg.SimilarityThreshold > 0 {
		cfg.SimilarityThreshold = p.cfg.SimilarityThreshold
	}
	if cfg.CandidateWindow == 0 && p.cfg.CandidateWindow > 0 {
		cfg.CandidateWindow = p.cfg.CandidateWindow
	}
	cfg.Normalize()
}

// normalizeClauses lowercases and collapses whitespace in clause content so
// that formatting-only edits stop registering as differences.  Positions are
// untouched: they still address the original text.
func normalizeClauses(in []comparison.DocumentClause) []comparison.DocumentClause {
	out := make([]comparison.DocumentClause, len(in))
	copy(out, in)
	for i := range out {
		out[i].Content = strings.Join(strings.Fields(strings.ToLower(out[i].Content)), " ")
	}
	return out
}
