package score

// LevenshteinScorer scores clauses by normalized edit distance:
// 1 - distance/maxLen over runes of the normalized texts.  Slower than the
// lexical scorer on long clauses but more faithful to small positional edits.
type LevenshteinScorer struct{}

func NewLevenshteinScorer() *LevenshteinScorer { return &LevenshteinScorer{} }

func (s *LevenshteinScorer) Name() string { return NameLevenshtein }

func (s *LevenshteinScorer) Score(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(normalize(a)), []rune(normalize(b))
	if string(ra) == string(rb) {
		return 1.0
	}
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(distance(ra, rb))/float64(maxLen)
}

// distance is the classic two-row Levenshtein DP.
func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
