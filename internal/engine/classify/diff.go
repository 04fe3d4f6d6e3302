package classify

import (
	"strings"

	"github.com/verdictio/lexcompare/internal/domain/comparison"
)

// maxDiffWords caps the LCS table size; beyond it the diff degrades to a
// whole-clause delete plus insert.
const maxDiffWords = 400

// WordDiff computes a word-level diff between two texts as runs of equal,
// deleted, and inserted words.  Deterministic: the LCS walk always prefers
// consuming a deletion before an insertion.
func WordDiff(a, b string) []comparison.TextDiff {
	wa, wb := strings.Fields(a), strings.Fields(b)
	if len(wa) == 0 && len(wb) == 0 {
		return nil
	}
	if len(wa) > maxDiffWords || len(wb) > maxDiffWords {
		return []comparison.TextDiff{
			{Op: comparison.DiffDelete, Text: strings.Join(wa, " ")},
			{Op: comparison.DiffInsert, Text: strings.Join(wb, " ")},
		}
	}

	// lcs[i][j] = length of the longest common subsequence of wa[i:], wb[j:].
	lcs := make([][]int, len(wa)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(wb)+1)
	}
	for i := len(wa) - 1; i >= 0; i-- {
		for j := len(wb) - 1; j >= 0; j-- {
			if wa[i] == wb[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var segs []comparison.TextDiff
	appendRun := func(op comparison.DiffOp, word string) {
		if n := len(segs); n > 0 && segs[n-1].Op == op {
			segs[n-1].Text += " " + word
			return
		}
		segs = append(segs, comparison.TextDiff{Op: op, Text: word})
	}

	i, j := 0, 0
	for i < len(wa) && j < len(wb) {
		switch {
		case wa[i] == wb[j]:
			appendRun(comparison.DiffEqual, wa[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			appendRun(comparison.DiffDelete, wa[i])
			i++
		default:
			appendRun(comparison.DiffInsert, wb[j])
			j++
		}
	}
	for ; i < len(wa); i++ {
		appendRun(comparison.DiffDelete, wa[i])
	}
	for ; j < len(wb); j++ {
		appendRun(comparison.DiffInsert, wb[j])
	}
	return segs
}

// ChangedText concatenates the non-equal segments of a diff, used as the
// input to category detection so that only the edited words drive the
// category.
func ChangedText(diff []comparison.TextDiff) string {
	var b strings.Builder
	for _, d := range diff {
		if d.Op == comparison.DiffEqual {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Text)
	}
	return b.String()
}
