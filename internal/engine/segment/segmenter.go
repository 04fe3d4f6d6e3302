// Package segment splits extracted document text into ordered, addressable
// clause units.  Pages are delimited by form feed characters; within a page,
// clause boundaries fall at blank lines and at the start of numbered clause
// lines.  Offset ranges per page are monotonically increasing and gap-free:
// consecutive clauses tile the page text, separators included.
package segment

import (
	"regexp"
	"strings"

	"github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

var (
	// numberedClauseRe matches "1.", "1.2", "3)", "10.4.1" clause leads.
	numberedClauseRe = regexp.MustCompile(`^\s*\d+(\.\d+)*[.)]\s+`)

	// headingRe matches explicit structural headings: "Section 4", "PART II",
	// "Clause 7".
	headingRe = regexp.MustCompile(`^(SECTION|Section|PART|Part|CLAUSE|Clause|SCHEDULE|Schedule)\s+[\dIVXivx]+`)

	// allCapsRe matches ALL-CAPS heading lines such as "SPECIAL CONDITIONS".
	allCapsRe = regexp.MustCompile(`^[A-Z][A-Z0-9 &/\-]{3,60}$`)
)

// Tier keyword tables: a section label containing one of these fragments is
// assigned the corresponding importance.
var (
	highImportance = []string{
		"payment", "price", "deposit", "indemn", "warrant",
		"terminat", "default", "definition", "special condition",
	}
	mediumImportance = []string{
		"settlement", "obligation", "insurance", "gst",
		"lease", "term", "notice", "title",
	}
)

// Segmenter turns document text into DocumentClause sequences.
type Segmenter struct {
	log logging.Logger
}

func NewSegmenter(log logging.Logger) *Segmenter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Segmenter{log: log.Named("segment")}
}

// Segment splits text into clauses for the given document.  It returns
// EmptyDocument for blank input and SegmentationFailed when non-blank input
// yields no clause at all.
func (s *Segmenter) Segment(text string, documentID common.ID) ([]comparison.DocumentClause, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "document text is empty")
	}

	var clauses []comparison.DocumentClause
	section := comparison.UnlabeledSection

	for pageIdx, page := range strings.Split(text, "\f") {
		pageClauses, nextSection, err := s.segmentPage(page, pageIdx+1, documentID, section)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, pageClauses...)
		section = nextSection
	}

	if len(clauses) == 0 {
		return nil, errors.New(errors.ErrCodeSegmentationFailed,
			"document text produced no clauses")
	}

	s.log.Debug("segmented document",
		logging.String("document_id", string(documentID)),
		logging.Int("clauses", len(clauses)))
	return clauses, nil
}

// block is a run of consecutive non-blank lines plus the separator text that
// follows it, so that blocks tile the page.
type block struct {
	start, end int
	lines      []string
}

// segmentPage splits one page into clauses.  Section labels persist across
// pages, so the current label is threaded through and returned.
func (s *Segmenter) segmentPage(page string, pageNum int, documentID common.ID, section string) ([]comparison.DocumentClause, string, error) {
	blocks := splitBlocks(page)

	var clauses []comparison.DocumentClause
	pendingStart, pendingEnd := -1, 0
	for _, b := range blocks {
		content := strings.Join(b.lines, "\n")
		if strings.TrimSpace(content) == "" {
			continue
		}

		if label, ok := headingLabel(b.lines[0]); ok {
			section = label
			// A heading-only block carries no clause text of its own; its
			// span is folded into the next clause so the page stays tiled.
			if len(b.lines) == 1 {
				if pendingStart < 0 {
					pendingStart = b.start
				}
				pendingEnd = b.end
				continue
			}
		}

		start := b.start
		if pendingStart >= 0 {
			start = pendingStart
			pendingStart = -1
		}
		pos := comparison.TextPosition{Page: pageNum, StartOffset: start, EndOffset: b.end}
		clause, err := comparison.NewDocumentClause(documentID, section, content, pos, importanceFor(section))
		if err != nil {
			return nil, section, errors.Wrap(err, errors.ErrCodeSegmentationFailed,
				"failed to build clause")
		}
		clauses = append(clauses, *clause)
	}
	// A trailing heading with no clause after it on the page extends the
	// last clause's span instead.
	if pendingStart >= 0 && len(clauses) > 0 {
		clauses[len(clauses)-1].Position.EndOffset = pendingEnd
	}
	return clauses, section, nil
}

// splitBlocks cuts a page into blocks at blank lines and before numbered
// clause lines.  Block offset ranges are gap-free: each block ends where the
// next begins, the first begins at 0, and the last ends at len(page).
func splitBlocks(page string) []block {
	lines := strings.Split(page, "\n")

	var blocks []block
	var cur *block
	offset := 0

	flush := func(end int) {
		if cur != nil {
			cur.end = end
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for _, line := range lines {
		lineStart := offset
		offset += len(line) + 1 // +1 for the newline
		if offset > len(page) {
			offset = len(page)
		}

		blank := strings.TrimSpace(line) == ""
		switch {
		case blank:
			// Separator text stays attached to the preceding block.
			continue
		case cur == nil:
			// First block on the page: its span starts at 0 so that leading
			// blank lines stay covered.
			cur = &block{start: 0, lines: []string{line}}
		case numberedClauseRe.MatchString(line):
			flush(lineStart)
			cur = &block{start: lineStart, lines: []string{line}}
		default:
			if len(cur.lines) > 0 && blankLineBefore(page, lineStart) {
				flush(lineStart)
				cur = &block{start: lineStart, lines: []string{line}}
			} else {
				cur.lines = append(cur.lines, line)
			}
		}
	}
	flush(len(page))
	return blocks
}

// blankLineBefore reports whether the line immediately preceding the byte at
// start is blank, which marks a block boundary.
func blankLineBefore(page string, start int) bool {
	if start == 0 {
		return false
	}
	prev := strings.LastIndexByte(page[:start-1], '\n')
	return strings.TrimSpace(page[prev+1:start]) == ""
}

// headingLabel extracts a section label from a line when the line is a
// structural heading.
func headingLabel(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	if headingRe.MatchString(trimmed) {
		return trimmed, true
	}
	if allCapsRe.MatchString(trimmed) {
		return titleCase(trimmed), true
	}
	// "3. Payment Terms" style: numbered lead followed by a short title.
	if numberedClauseRe.MatchString(trimmed) {
		rest := numberedClauseRe.ReplaceAllString(trimmed, "")
		if len(rest) > 0 && len(rest) < 60 && !strings.HasSuffix(rest, ".") && startsUpper(rest) && !numberedClauseRe.MatchString(rest) {
			return rest, true
		}
	}
	return "", false
}

func startsUpper(s string) bool {
	return s[0] >= 'A' && s[0] <= 'Z'
}

// titleCase renders an ALL-CAPS heading as a readable label.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// importanceFor derives the importance tier from the section label.
func importanceFor(section string) comparison.ImportanceTier {
	lower := strings.ToLower(section)
	for _, kw := range highImportance {
		if strings.Contains(lower, kw) {
			return comparison.ImportanceHigh
		}
	}
	for _, kw := range mediumImportance {
		if strings.Contains(lower, kw) {
			return comparison.ImportanceMedium
		}
	}
	return comparison.ImportanceLow
}
