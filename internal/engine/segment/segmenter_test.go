package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

func newTestSegmenter() *Segmenter {
	return NewSegmenter(logging.NewNopLogger())
}

func TestSegment_EmptyInput(t *testing.T) {
	s := newTestSegmenter()
	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		_, err := s.Segment(text, common.NewID())
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeEmptyDocument, errors.GetCode(err))
	}
}

func TestSegment_SingleClause(t *testing.T) {
	s := newTestSegmenter()
	text := "The vendor sells and the purchaser buys the property."

	clauses, err := s.Segment(text, common.NewID())
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, comparison.UnlabeledSection, clauses[0].Section)
	assert.Equal(t, 1, clauses[0].Position.Page)
	assert.Equal(t, 0, clauses[0].Position.StartOffset)
	assert.Equal(t, len(text), clauses[0].Position.EndOffset)
}

func TestSegment_BlankLineBoundaries(t *testing.T) {
	s := newTestSegmenter()
	text := "First clause of the agreement.\n\nSecond clause of the agreement.\n\nThird clause."

	clauses, err := s.Segment(text, common.NewID())
	require.NoError(t, err)
	require.Len(t, clauses, 3)

	// Offsets are monotone and gap-free across the page.
	assert.Equal(t, 0, clauses[0].Position.StartOffset)
	for i := 1; i < len(clauses); i++ {
		assert.Equal(t, clauses[i-1].Position.EndOffset, clauses[i].Position.StartOffset,
			"clause %d should start where clause %d ends", i, i-1)
	}
	assert.Equal(t, len(text), clauses[len(clauses)-1].Position.EndOffset)
}

func TestSegment_NumberedClauses(t *testing.T) {
	s := newTestSegmenter()
	text := "1. Definitions\nIn this contract the following terms apply to everything below.\n2. The purchaser must pay the deposit within 7 days.\n3. The vendor must provide vacant possession at settlement."

	clauses, err := s.Segment(text, common.NewID())
	require.NoError(t, err)
	require.Len(t, clauses, 3)
	// "1. Definitions" is a numbered heading: it labels the section.
	assert.Equal(t, "Definitions", clauses[0].Section)
	assert.Equal(t, comparison.ImportanceHigh, clauses[0].Importance)
}

func TestSegment_Pages(t *testing.T) {
	s := newTestSegmenter()
	text := "Clause on page one.\fClause on page two.\n\nAnother clause on page two."

	clauses, err := s.Segment(text, common.NewID())
	require.NoError(t, err)
	require.Len(t, clauses, 3)
	assert.Equal(t, 1, clauses[0].Position.Page)
	assert.Equal(t, 2, clauses[1].Position.Page)
	assert.Equal(t, 2, clauses[2].Position.Page)
	// Page-two offsets restart from zero.
	assert.Equal(t, 0, clauses[1].Position.StartOffset)
}

func TestSegment_SectionHeadings(t *testing.T) {
	s := newTestSegmenter()
	text := "SPECIAL CONDITIONS\n\nThe sale is subject to finance approval.\n\nSection 5\n\nThe deposit is held by the agent."

	clauses, err := s.Segment(text, common.NewID())
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Equal(t, "Special Conditions", clauses[0].Section)
	assert.Equal(t, comparison.ImportanceHigh, clauses[0].Importance)
	assert.Equal(t, "Section 5", clauses[1].Section)
}

func TestSegment_MidPageHeadingKeepsTilingGapFree(t *testing.T) {
	s := newTestSegmenter()
	text := "1. First clause text.\n\nSPECIAL CONDITIONS\n\n2. Second clause text."

	clauses, err := s.Segment(text, common.NewID())
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Equal(t, "Special Conditions", clauses[1].Section)

	// The heading's span belongs to the clause that follows it.
	assert.Equal(t, 0, clauses[0].Position.StartOffset)
	assert.Equal(t, clauses[0].Position.EndOffset, clauses[1].Position.StartOffset)
	assert.Equal(t, len(text), clauses[1].Position.EndOffset)
}

func TestSegment_TrailingHeadingFoldsIntoLastClause(t *testing.T) {
	s := newTestSegmenter()
	text := "The deposit is payable on signing.\n\nSCHEDULE 1"

	clauses, err := s.Segment(text, common.NewID())
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, 0, clauses[0].Position.StartOffset)
	assert.Equal(t, len(text), clauses[0].Position.EndOffset)
}

func TestSegment_SectionPersistsAcrossPages(t *testing.T) {
	s := newTestSegmenter()
	text := "WARRANTIES\n\nThe vendor warrants good title.\fThe vendor further warrants there are no encumbrances."

	clauses, err := s.Segment(text, common.NewID())
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Equal(t, "Warranties", clauses[0].Section)
	assert.Equal(t, "Warranties", clauses[1].Section)
}

func TestImportanceFor(t *testing.T) {
	tests := []struct {
		section string
		want    comparison.ImportanceTier
	}{
		{"Payment Terms", comparison.ImportanceHigh},
		{"Indemnity", comparison.ImportanceHigh},
		{"Definitions", comparison.ImportanceHigh},
		{"Settlement", comparison.ImportanceMedium},
		{"Gst", comparison.ImportanceMedium},
		{comparison.UnlabeledSection, comparison.ImportanceLow},
		{"Miscellaneous", comparison.ImportanceLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, importanceFor(tt.section), tt.section)
	}
}
