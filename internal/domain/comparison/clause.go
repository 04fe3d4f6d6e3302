// Package comparison implements the document-comparison bounded context:
// clause units, similarity pairs, difference records, aggregate metrics, and
// the immutable DocumentComparison aggregate root.  All invariants that
// concern a comparison live here; computation (segmentation, scoring,
// alignment) is handled by internal/engine, and persistence by the
// infrastructure repositories.
package comparison

import (
	"fmt"
	"strings"

	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// ImportanceTier ranks how much a clause contributes to the overall
// similarity of a comparison.  Tiers are assigned during segmentation from
// structural cues (a payment or indemnity section outweighs boilerplate).
type ImportanceTier string

const (
	ImportanceHigh   ImportanceTier = "high"
	ImportanceMedium ImportanceTier = "medium"
	ImportanceLow    ImportanceTier = "low"
)

func (t ImportanceTier) IsValid() bool {
	return t == ImportanceHigh || t == ImportanceMedium || t == ImportanceLow
}

// Weight returns the multiplier used when aggregating importance-weighted
// similarity metrics.
func (t ImportanceTier) Weight() float64 {
	switch t {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	default:
		return 1
	}
}

// BoundingBox is an optional visual rectangle, in page coordinates, used by
// overlay renderers to draw highlights.  Purely descriptive.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextPosition locates a span of text within a document: page number,
// half-open character offset range within that page, and an optional
// bounding box.  Never mutated after creation.
type TextPosition struct {
	Page        int          `json:"page"`
	StartOffset int          `json:"start_offset"`
	EndOffset   int          `json:"end_offset"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

// Validate checks internal consistency of the position.
func (p TextPosition) Validate() error {
	if p.Page < 1 {
		return errors.InvalidParam(fmt.Sprintf("text position page %d must be >= 1", p.Page))
	}
	if p.StartOffset < 0 || p.EndOffset < p.StartOffset {
		return errors.InvalidParam(fmt.Sprintf("text position offsets [%d,%d) are invalid", p.StartOffset, p.EndOffset))
	}
	return nil
}

// Length returns the number of characters the position spans.
func (p TextPosition) Length() int {
	return p.EndOffset - p.StartOffset
}

// UnlabeledSection is the synthetic section label assigned to clauses whose
// surrounding text carries no structural cue (heading or clause number).
const UnlabeledSection = "Unlabeled"

// DocumentClause is a single addressable unit of clause text, created during
// segmentation and immutable thereafter.  Its lifetime is that of the
// comparison that produced it.
type DocumentClause struct {
	ID         common.ID      `json:"id"`
	DocumentID common.ID      `json:"document_id"`
	Section    string         `json:"section"`
	Content    string         `json:"content"`
	Position   TextPosition   `json:"position"`
	Importance ImportanceTier `json:"importance"`
}

// NewDocumentClause constructs and validates a DocumentClause.  The section
// label defaults to UnlabeledSection and the importance tier to
// ImportanceLow when unset.
func NewDocumentClause(documentID common.ID, section, content string, pos TextPosition, importance ImportanceTier) (*DocumentClause, error) {
	if documentID == "" {
		return nil, errors.InvalidParam("clause document id must not be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.InvalidParam("clause content must not be blank")
	}
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	if section == "" {
		section = UnlabeledSection
	}
	if !importance.IsValid() {
		importance = ImportanceLow
	}
	return &DocumentClause{
		ID:         common.NewID(),
		DocumentID: documentID,
		Section:    section,
		Content:    content,
		Position:   pos,
		Importance: importance,
	}, nil
}
