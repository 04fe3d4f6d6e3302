package export

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// JSONExporter renders comparisons to a JSON artifact in object storage.
type JSONExporter struct {
	store ArtifactStore
	pub   Publisher
	log   logging.Logger
}

func NewJSONExporter(store ArtifactStore, pub Publisher, log logging.Logger) *JSONExporter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &JSONExporter{store: store, pub: pub, log: log.Named("export")}
}

// payload is the exported document shape.  Fields toggle off with options.
type payload struct {
	ComparisonID string                       `json:"comparison_id"`
	Document1    domain.DocumentRef           `json:"document1"`
	Document2    domain.DocumentRef           `json:"document2"`
	CreatedAt    common.Timestamp             `json:"created_at"`
	Summary      *summary                     `json:"summary,omitempty"`
	Metrics      *domain.ComparisonMetrics    `json:"metrics,omitempty"`
	Differences  []*domain.DocumentDifference `json:"differences"`
	Similarities []domain.ClauseSimilarity    `json:"similarities,omitempty"`
}

type summary struct {
	TotalDifferences    int      `json:"total_differences"`
	CriticalDifferences int      `json:"critical_differences"`
	MatchedClauses      int      `json:"matched_clauses"`
	Sections            []string `json:"sections"`
}

// Export renders the comparison.  Only JSON is produced in-process; other
// formats return ExportFormatUnsupported.
func (e *JSONExporter) Export(ctx context.Context, cmp *domain.DocumentComparison, format Format, opts Options) (*Result, error) {
	if !format.IsValid() {
		return nil, ErrUnsupportedFormat(format)
	}
	if format != FormatJSON {
		return nil, ErrUnsupportedFormat(format)
	}

	data, err := json.Marshal(e.buildPayload(cmp, opts))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "failed to encode export payload")
	}

	key := fmt.Sprintf("exports/%s.json", cmp.ID)
	if err := e.store.PutArtifact(ctx, key, "application/json", data); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "failed to store export artifact")
	}

	url, err := e.store.PresignedURL(ctx, key)
	if err != nil {
		e.log.Warn("failed to presign export artifact",
			logging.String("key", key), logging.Err(err))
		url = ""
	}

	if e.pub != nil {
		if err := e.pub.ExportCompleted(ctx, cmp.ID, string(format), key); err != nil {
			e.log.Warn("failed to publish export event",
				logging.String("key", key), logging.Err(err))
		}
	}

	return &Result{
		Key:         key,
		ContentType: "application/json",
		Size:        int64(len(data)),
		URL:         url,
	}, nil
}

// buildPayload applies the options: summary and metrics toggles, highlight
// stripping, and the optional section subset.
func (e *JSONExporter) buildPayload(cmp *domain.DocumentComparison, opts Options) payload {
	p := payload{
		ComparisonID: string(cmp.ID),
		Document1:    cmp.Document1,
		Document2:    cmp.Document2,
		CreatedAt:    cmp.CreatedAt,
	}

	diffs := cmp.Differences
	sims := cmp.Matches
	if len(opts.Sections) > 0 {
		allowed := make(map[string]bool, len(opts.Sections))
		for _, s := range opts.Sections {
			allowed[s] = true
		}
		diffs = nil
		for _, d := range cmp.Differences {
			if allowed[d.Section] {
				diffs = append(diffs, d)
			}
		}
		sims = nil
		for _, s := range cmp.Matches {
			if allowed[s.Document1Clause.Section] {
				sims = append(sims, s)
			}
		}
	}

	if !opts.IncludeHighlights {
		diffs = stripDiffHighlights(diffs)
		sims = stripSimHighlights(sims)
	}
	p.Differences = diffs
	p.Similarities = sims

	if opts.IncludeSummary {
		p.Summary = &summary{
			TotalDifferences:    cmp.Metrics.TotalDifferences,
			CriticalDifferences: cmp.Metrics.CriticalDifferences,
			MatchedClauses:      cmp.Metrics.MatchedClauses,
			Sections:            cmp.SectionNames(),
		}
	}
	if opts.IncludeMetrics {
		m := cmp.Metrics
		p.Metrics = &m
	}
	return p
}

func stripDiffHighlights(in []*domain.DocumentDifference) []*domain.DocumentDifference {
	out := make([]*domain.DocumentDifference, len(in))
	for i, d := range in {
		cp := *d
		cp.Diff = nil
		out[i] = &cp
	}
	return out
}

func stripSimHighlights(in []domain.ClauseSimilarity) []domain.ClauseSimilarity {
	out := make([]domain.ClauseSimilarity, len(in))
	copy(out, in)
	for i := range out {
		out[i].Differences = nil
	}
	return out
}
