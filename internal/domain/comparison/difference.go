package comparison

import (
	"fmt"

	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

// DifferenceType states which side(s) of the comparison a difference touches.
type DifferenceType string

const (
	// DifferenceAdded means the clause exists only in document 2.
	DifferenceAdded DifferenceType = "added"
	// DifferenceRemoved means the clause exists only in document 1.
	DifferenceRemoved DifferenceType = "removed"
	// DifferenceModified means the clause exists in both documents with
	// non-identical content.
	DifferenceModified DifferenceType = "modified"
)

func (t DifferenceType) IsValid() bool {
	return t == DifferenceAdded || t == DifferenceRemoved || t == DifferenceModified
}

// DifferenceCategory is the legal-content category a difference falls into,
// assigned by keyword heuristics over the clause text.
type DifferenceCategory string

const (
	CategoryClause     DifferenceCategory = "clause"
	CategoryTerm       DifferenceCategory = "term"
	CategoryObligation DifferenceCategory = "obligation"
	CategoryParty      DifferenceCategory = "party"
	CategoryDate       DifferenceCategory = "date"
	CategoryAmount     DifferenceCategory = "amount"
	CategoryOther      DifferenceCategory = "other"
)

func (c DifferenceCategory) IsValid() bool {
	switch c {
	case CategoryClause, CategoryTerm, CategoryObligation, CategoryParty,
		CategoryDate, CategoryAmount, CategoryOther:
		return true
	}
	return false
}

// Severity ranks how much legal weight a difference carries.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) IsValid() bool {
	return s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

// Rank orders severities for sorting, high first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// DocumentDifference records one added, removed, or modified clause between
// the two documents of a comparison.  Exactly one side is set for added and
// removed differences; both sides are set for modified ones.
type DocumentDifference struct {
	ID              common.ID          `json:"id"`
	Type            DifferenceType     `json:"type"`
	Category        DifferenceCategory `json:"category"`
	Severity        Severity           `json:"severity"`
	Section         string             `json:"section"`
	Description     string             `json:"description"`
	Document1Clause *DocumentClause    `json:"document1_clause,omitempty"`
	Document2Clause *DocumentClause    `json:"document2_clause,omitempty"`
	Diff            []TextDiff         `json:"diff,omitempty"`
}

// NewDocumentDifference constructs and validates a difference record.
func NewDocumentDifference(diffType DifferenceType, category DifferenceCategory, severity Severity,
	section, description string, c1, c2 *DocumentClause, diff []TextDiff) (*DocumentDifference, error) {

	d := &DocumentDifference{
		ID:              common.NewID(),
		Type:            diffType,
		Category:        category,
		Severity:        severity,
		Section:         section,
		Description:     description,
		Document1Clause: c1,
		Document2Clause: c2,
		Diff:            diff,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate enforces the side invariant: added differences reference only the
// second document's clause, removed only the first, modified both.
func (d *DocumentDifference) Validate() error {
	if !d.Type.IsValid() {
		return errors.InvalidParam(fmt.Sprintf("difference type %q is not valid", d.Type))
	}
	if !d.Category.IsValid() {
		return errors.InvalidParam(fmt.Sprintf("difference category %q is not valid", d.Category))
	}
	if !d.Severity.IsValid() {
		return errors.InvalidParam(fmt.Sprintf("difference severity %q is not valid", d.Severity))
	}
	switch d.Type {
	case DifferenceAdded:
		if d.Document1Clause != nil || d.Document2Clause == nil {
			return errors.InvalidState("added difference must reference only the second document's clause")
		}
	case DifferenceRemoved:
		if d.Document1Clause == nil || d.Document2Clause != nil {
			return errors.InvalidState("removed difference must reference only the first document's clause")
		}
	case DifferenceModified:
		if d.Document1Clause == nil || d.Document2Clause == nil {
			return errors.InvalidState("modified difference must reference clauses from both documents")
		}
	}
	return nil
}

// Clause returns whichever clause the difference primarily describes: the
// first document's clause when present, otherwise the second's.
func (d *DocumentDifference) Clause() *DocumentClause {
	if d.Document1Clause != nil {
		return d.Document1Clause
	}
	return d.Document2Clause
}
