package score

import (
	"strings"
	"unicode"
)

// LexicalScorer blends token-set Jaccard overlap with character-bigram Dice
// overlap.  Tokens catch reworded clauses sharing vocabulary; bigrams catch
// small in-word edits (amounts, dates, typos) that token sets miss entirely.
type LexicalScorer struct{}

func NewLexicalScorer() *LexicalScorer { return &LexicalScorer{} }

func (s *LexicalScorer) Name() string { return NameLexical }

func (s *LexicalScorer) Score(a, b string) float64 {
	if a == b {
		return 1.0
	}
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0
	}

	jaccard := tokenJaccard(na, nb)
	dice := bigramDice(na, nb)
	return 0.5*jaccard + 0.5*dice
}

// normalize lowercases and collapses runs of whitespace to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// tokenize splits normalized text into alphanumeric tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenJaccard(a, b string) float64 {
	setA := make(map[string]struct{})
	for _, t := range tokenize(a) {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{})
	for _, t := range tokenize(b) {
		setB[t] = struct{}{}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func bigramDice(a, b string) float64 {
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ba))
	totalA := 0
	for g, n := range ba {
		counts[g] = n
		totalA += n
	}
	totalB := 0
	inter := 0
	for g, n := range bb {
		totalB += n
		if m, ok := counts[g]; ok {
			if n < m {
				inter += n
			} else {
				inter += m
			}
		}
	}
	return 2 * float64(inter) / float64(totalA+totalB)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	out := make(map[string]int)
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])]++
	}
	return out
}
