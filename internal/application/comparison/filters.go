// Package comparison (application layer) hosts the comparison service, the
// session controller, and the pure filtering logic that derives visible
// views from immutable DocumentComparison aggregates.
package comparison

import (
	"strings"

	domain "github.com/verdictio/lexcompare/internal/domain/comparison"
)

// Filters selects the visible subset of a comparison's differences and
// similarities.  Empty sets mean "no restriction" on that dimension.
type Filters struct {
	ShowDifferences  bool                        `json:"show_differences"`
	ShowSimilarities bool                        `json:"show_similarities"`
	Types            []domain.DifferenceType     `json:"types,omitempty"`
	Severities       []domain.Severity           `json:"severities,omitempty"`
	Categories       []domain.DifferenceCategory `json:"categories,omitempty"`

	// Threshold re-filters similarity pairs by score (inclusive); it never
	// re-runs alignment.  Zero means no extra restriction.
	Threshold float64 `json:"threshold,omitempty"`

	// Query is a case-insensitive free-text search over description,
	// section, and clause content.
	Query string `json:"query,omitempty"`
}

// DefaultFilters shows everything.
func DefaultFilters() Filters {
	return Filters{ShowDifferences: true, ShowSimilarities: true}
}

// ItemKind discriminates the two visible item flavors.
type ItemKind string

const (
	KindDifference ItemKind = "difference"
	KindSimilarity ItemKind = "similarity"
)

// Item is one entry of the filtered, navigable list: a difference or a
// similarity, never both.
type Item struct {
	Kind       ItemKind                   `json:"kind"`
	Difference *domain.DocumentDifference `json:"difference,omitempty"`
	Similarity *domain.ClauseSimilarity   `json:"similarity,omitempty"`
}

// ID returns a stable identity for the item, used to preserve selection
// across filter changes.
func (it Item) ID() string {
	if it.Kind == KindDifference && it.Difference != nil {
		return "d:" + string(it.Difference.ID)
	}
	if it.Similarity != nil {
		return "s:" + string(it.Similarity.Document1Clause.ID)
	}
	return ""
}

// Target is where dependent viewers scroll when the item is selected.
type Target struct {
	Document1 *domain.TextPosition `json:"document1,omitempty"`
	Document2 *domain.TextPosition `json:"document2,omitempty"`
}

// Target derives the scroll positions for both documents.
func (it Item) Target() Target {
	var t Target
	switch it.Kind {
	case KindDifference:
		if d := it.Difference; d != nil {
			if d.Document1Clause != nil {
				p := d.Document1Clause.Position
				t.Document1 = &p
			}
			if d.Document2Clause != nil {
				p := d.Document2Clause.Position
				t.Document2 = &p
			}
		}
	case KindSimilarity:
		if s := it.Similarity; s != nil {
			p1 := s.Document1Clause.Position
			p2 := s.Document2Clause.Position
			t.Document1 = &p1
			t.Document2 = &p2
		}
	}
	return t
}

// View is the filtered read model handed to consumers: the visible
// differences and similarities plus the flat navigable item list
// (differences first, both in aggregate order).
type View struct {
	Differences  []*domain.DocumentDifference `json:"differences"`
	Similarities []domain.ClauseSimilarity    `json:"similarities"`
	Items        []Item                       `json:"items"`
}

// ApplyFilters computes the visible view.  Pure: it never mutates cmp or f,
// and identical inputs yield identical views.  A nil comparison yields an
// empty view rather than an error.
func ApplyFilters(cmp *domain.DocumentComparison, f Filters) View {
	var v View
	if cmp == nil {
		return v
	}

	if f.ShowDifferences {
		for _, d := range cmp.Differences {
			if differenceVisible(d, f) {
				v.Differences = append(v.Differences, d)
				v.Items = append(v.Items, Item{Kind: KindDifference, Difference: d})
			}
		}
	}
	if f.ShowSimilarities {
		for i := range cmp.Matches {
			s := &cmp.Matches[i]
			if similarityVisible(s, f) {
				v.Similarities = append(v.Similarities, *s)
				v.Items = append(v.Items, Item{Kind: KindSimilarity, Similarity: s})
			}
		}
	}
	return v
}

func differenceVisible(d *domain.DocumentDifference, f Filters) bool {
	if len(f.Types) > 0 && !containsType(f.Types, d.Type) {
		return false
	}
	if len(f.Severities) > 0 && !containsSeverity(f.Severities, d.Severity) {
		return false
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, d.Category) {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(d.Description), q) ||
		strings.Contains(strings.ToLower(d.Section), q) {
		return true
	}
	if c := d.Document1Clause; c != nil && strings.Contains(strings.ToLower(c.Content), q) {
		return true
	}
	if c := d.Document2Clause; c != nil && strings.Contains(strings.ToLower(c.Content), q) {
		return true
	}
	return false
}

func similarityVisible(s *domain.ClauseSimilarity, f Filters) bool {
	if f.Threshold > 0 && s.SimilarityScore < f.Threshold {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(s.Document1Clause.Content), q) ||
		strings.Contains(strings.ToLower(s.Document2Clause.Content), q) ||
		strings.Contains(strings.ToLower(s.Document1Clause.Section), q)
}

func containsType(set []domain.DifferenceType, v domain.DifferenceType) bool {
	for _, t := range set {
		if t == v {
			return true
		}
	}
	return false
}

func containsSeverity(set []domain.Severity, v domain.Severity) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsCategory(set []domain.DifferenceCategory, v domain.DifferenceCategory) bool {
	for _, c := range set {
		if c == v {
			return true
		}
	}
	return false
}
