// Package classify turns alignment results into typed difference records and
// classified similarity pairs.  Categories come from keyword and pattern
// rules over the changed text; severities follow fixed per-category rules.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/engine/align"
)

var (
	amountRe = regexp.MustCompile(`\$\s?[\d,]+(\.\d+)?|\b\d+(\.\d+)?\s?%`)
	dateRe   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{1,2}(st|nd|rd|th)?\s+(of\s+)?(january|february|march|april|may|june|july|august|september|october|november|december)\b|\bwithin\s+\d+\s+(business\s+)?days?\b`)
)

var categoryKeywords = []struct {
	category comparison.DifferenceCategory
	words    []string
}{
	{comparison.CategoryAmount, []string{"amount", "price", "deposit", "fee", "payment", "balance", "duty", "rent"}},
	{comparison.CategoryDate, []string{"date", "day of sale", "settlement day", "expiry date"}},
	{comparison.CategoryParty, []string{"vendor", "purchaser", "lessor", "lessee", "buyer", "seller", "party", "parties", "nominee", "guarantor"}},
	{comparison.CategoryObligation, []string{"shall", "must", "agrees to", "is required", "obliged", "covenant", "warrant", "indemnif"}},
	{comparison.CategoryTerm, []string{"term of", "duration", "period", "expiry", "renewal", "commencement", "lease term"}},
}

// Categorize maps clause text to its difference category.  Pattern rules
// (amounts, dates) run before keyword rules; a labeled section alone makes a
// change a clause-level one; everything else is other.
func Categorize(text, section string) comparison.DifferenceCategory {
	lower := strings.ToLower(text)
	if amountRe.MatchString(lower) {
		return comparison.CategoryAmount
	}
	if dateRe.MatchString(lower) {
		return comparison.CategoryDate
	}
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lower, w) {
				return ck.category
			}
		}
	}
	if section != "" && section != comparison.UnlabeledSection {
		return comparison.CategoryClause
	}
	return comparison.CategoryOther
}

// SeverityFor applies the fixed category-to-severity rules.
func SeverityFor(category comparison.DifferenceCategory) comparison.Severity {
	switch category {
	case comparison.CategoryAmount, comparison.CategoryDate, comparison.CategoryParty:
		return comparison.SeverityHigh
	case comparison.CategoryObligation, comparison.CategoryTerm, comparison.CategoryClause:
		return comparison.SeverityMedium
	default:
		return comparison.SeverityLow
	}
}

// Classify converts an alignment result into similarity pairs and difference
// records.  Matched pairs below the identical cutoff become modified
// differences carrying a word-level diff; unmatched clauses become removed
// (document 1) or added (document 2) differences.
func Classify(c1, c2 []comparison.DocumentClause, res *align.Result, threshold float64) ([]comparison.ClauseSimilarity, []*comparison.DocumentDifference, error) {
	var sims []comparison.ClauseSimilarity
	var diffs []*comparison.DocumentDifference

	for _, p := range res.Pairs {
		a, b := c1[p.I], c2[p.J]

		var wordDiff []comparison.TextDiff
		if p.Score < comparison.IdenticalCutoff {
			wordDiff = WordDiff(a.Content, b.Content)
		}

		sim, err := comparison.NewClauseSimilarity(a, b, p.Score, threshold, wordDiff)
		if err != nil {
			return nil, nil, err
		}
		sims = append(sims, *sim)

		if p.Score >= comparison.IdenticalCutoff {
			continue
		}
		category := Categorize(ChangedText(wordDiff), a.Section)
		d, err := comparison.NewDocumentDifference(
			comparison.DifferenceModified, category, SeverityFor(category),
			a.Section,
			fmt.Sprintf("Clause modified in section %q (similarity %.2f)", a.Section, p.Score),
			&a, &b, wordDiff)
		if err != nil {
			return nil, nil, err
		}
		diffs = append(diffs, d)
	}

	for _, i := range res.Unmatched1 {
		cl := c1[i]
		category := Categorize(cl.Content, cl.Section)
		d, err := comparison.NewDocumentDifference(
			comparison.DifferenceRemoved, category, SeverityFor(category),
			cl.Section,
			fmt.Sprintf("Clause removed from section %q", cl.Section),
			&cl, nil, nil)
		if err != nil {
			return nil, nil, err
		}
		diffs = append(diffs, d)
	}

	for _, j := range res.Unmatched2 {
		cl := c2[j]
		category := Categorize(cl.Content, cl.Section)
		d, err := comparison.NewDocumentDifference(
			comparison.DifferenceAdded, category, SeverityFor(category),
			cl.Section,
			fmt.Sprintf("Clause added in section %q", cl.Section),
			nil, &cl, nil)
		if err != nil {
			return nil, nil, err
		}
		diffs = append(diffs, d)
	}

	return sims, diffs, nil
}
