package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/engine/align"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

func clause(t *testing.T, section, content string) comparison.DocumentClause {
	t.Helper()
	c, err := comparison.NewDocumentClause(common.NewID(), section, content,
		comparison.TextPosition{Page: 1, StartOffset: 0, EndOffset: len(content)}, comparison.ImportanceMedium)
	require.NoError(t, err)
	return *c
}

func TestWordDiff(t *testing.T) {
	diff := WordDiff("The deposit is $1,000 payable on signing.",
		"The deposit is $2,000 payable on signing.")
	require.Len(t, diff, 4)
	assert.Equal(t, comparison.TextDiff{Op: comparison.DiffEqual, Text: "The deposit is"}, diff[0])
	assert.Equal(t, comparison.TextDiff{Op: comparison.DiffDelete, Text: "$1,000"}, diff[1])
	assert.Equal(t, comparison.TextDiff{Op: comparison.DiffInsert, Text: "$2,000"}, diff[2])
	assert.Equal(t, comparison.TextDiff{Op: comparison.DiffEqual, Text: "payable on signing."}, diff[3])
}

func TestWordDiff_Edges(t *testing.T) {
	assert.Nil(t, WordDiff("", ""))

	diff := WordDiff("", "entirely new clause")
	require.Len(t, diff, 1)
	assert.Equal(t, comparison.DiffInsert, diff[0].Op)

	diff = WordDiff("old clause gone", "")
	require.Len(t, diff, 1)
	assert.Equal(t, comparison.DiffDelete, diff[0].Op)

	diff = WordDiff("same text", "same text")
	require.Len(t, diff, 1)
	assert.Equal(t, comparison.DiffEqual, diff[0].Op)
}

func TestChangedText(t *testing.T) {
	diff := WordDiff("pay $1,000 now", "pay $2,000 now")
	assert.Equal(t, "$1,000 $2,000", ChangedText(diff))
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		section string
		want    comparison.DifferenceCategory
	}{
		{"dollar_amount", "$1,000 $2,000", "Payment", comparison.CategoryAmount},
		{"percentage", "the rate is 10%", "", comparison.CategoryAmount},
		{"slash_date", "settlement on 12/10/2026", "", comparison.CategoryDate},
		{"month_date", "possession by 1 march", "", comparison.CategoryDate},
		{"within_days", "within 14 days", "", comparison.CategoryDate},
		{"party", "the vendor and the nominee", "", comparison.CategoryParty},
		{"obligation", "the tenant shall maintain the garden", "", comparison.CategoryObligation},
		{"term", "the renewal option", "", comparison.CategoryTerm},
		{"labeled_section_fallback", "something entirely neutral", "Special Conditions", comparison.CategoryClause},
		{"other", "something entirely neutral", comparison.UnlabeledSection, comparison.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.text, tt.section))
		})
	}
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, comparison.SeverityHigh, SeverityFor(comparison.CategoryAmount))
	assert.Equal(t, comparison.SeverityHigh, SeverityFor(comparison.CategoryDate))
	assert.Equal(t, comparison.SeverityHigh, SeverityFor(comparison.CategoryParty))
	assert.Equal(t, comparison.SeverityMedium, SeverityFor(comparison.CategoryObligation))
	assert.Equal(t, comparison.SeverityMedium, SeverityFor(comparison.CategoryTerm))
	assert.Equal(t, comparison.SeverityMedium, SeverityFor(comparison.CategoryClause))
	assert.Equal(t, comparison.SeverityLow, SeverityFor(comparison.CategoryOther))
}

func TestClassify_AmountChange(t *testing.T) {
	// An amount changing from $1,000 to $2,000 yields one modified
	// difference, category amount, severity high.
	c1 := []comparison.DocumentClause{clause(t, "Deposit", "The deposit is $1,000 payable on signing.")}
	c2 := []comparison.DocumentClause{clause(t, "Deposit", "The deposit is $2,000 payable on signing.")}
	res := &align.Result{Pairs: []align.Pair{{I: 0, J: 0, Score: 0.9}}}

	sims, diffs, err := Classify(c1, c2, res, 0.7)
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.Equal(t, comparison.SimilaritySimilar, sims[0].Type)
	assert.NotEmpty(t, sims[0].Differences)

	require.Len(t, diffs, 1)
	assert.Equal(t, comparison.DifferenceModified, diffs[0].Type)
	assert.Equal(t, comparison.CategoryAmount, diffs[0].Category)
	assert.Equal(t, comparison.SeverityHigh, diffs[0].Severity)
	assert.NotEmpty(t, diffs[0].Diff)
}

func TestClassify_IdenticalPairEmitsNoDifference(t *testing.T) {
	c1 := []comparison.DocumentClause{clause(t, "Payment", "identical clause text")}
	c2 := []comparison.DocumentClause{clause(t, "Payment", "identical clause text")}
	res := &align.Result{Pairs: []align.Pair{{I: 0, J: 0, Score: 1.0}}}

	sims, diffs, err := Classify(c1, c2, res, 0.7)
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.Equal(t, comparison.SimilarityIdentical, sims[0].Type)
	assert.Empty(t, sims[0].Differences)
	assert.Empty(t, diffs)
}

func TestClassify_AddedAndRemoved(t *testing.T) {
	c1 := []comparison.DocumentClause{clause(t, "Warranties", "The vendor warrants good title.")}
	c2 := []comparison.DocumentClause{clause(t, "Special Conditions", "This sale is subject to finance.")}
	res := &align.Result{Unmatched1: []int{0}, Unmatched2: []int{0}}

	sims, diffs, err := Classify(c1, c2, res, 0.7)
	require.NoError(t, err)
	assert.Empty(t, sims)
	require.Len(t, diffs, 2)

	assert.Equal(t, comparison.DifferenceRemoved, diffs[0].Type)
	assert.NotNil(t, diffs[0].Document1Clause)
	assert.Nil(t, diffs[0].Document2Clause)

	assert.Equal(t, comparison.DifferenceAdded, diffs[1].Type)
	assert.Nil(t, diffs[1].Document1Clause)
	assert.NotNil(t, diffs[1].Document2Clause)
}
