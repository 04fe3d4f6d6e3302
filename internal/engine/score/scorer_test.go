package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contractPairs = []struct {
	name string
	a, b string
}{
	{"identical", "The purchaser shall pay the deposit.", "The purchaser shall pay the deposit."},
	{"amount_change", "The deposit is $1,000 payable on signing.", "The deposit is $2,000 payable on signing."},
	{"reworded", "The vendor must provide vacant possession.", "Vacant possession must be provided by the vendor."},
	{"unrelated", "The deposit is $1,000.", "This lease commences on 1 July."},
	{"empty_vs_text", "", "Some clause text."},
}

func allScorers() []Scorer {
	return []Scorer{NewLexicalScorer(), NewLevenshteinScorer()}
}

func TestScorerContract(t *testing.T) {
	for _, s := range allScorers() {
		t.Run(s.Name(), func(t *testing.T) {
			for _, p := range contractPairs {
				t.Run(p.name, func(t *testing.T) {
					ab := s.Score(p.a, p.b)
					ba := s.Score(p.b, p.a)
					assert.Equal(t, ab, ba, "symmetry")
					assert.GreaterOrEqual(t, ab, 0.0, "lower bound")
					assert.LessOrEqual(t, ab, 1.0, "upper bound")
					assert.Equal(t, 1.0, s.Score(p.a, p.a), "identity")
					assert.Equal(t, ab, s.Score(p.a, p.b), "determinism")
				})
			}
		})
	}
}

func TestScorer_FormattingInsensitive(t *testing.T) {
	for _, s := range allScorers() {
		assert.Equal(t, 1.0,
			s.Score("The Deposit  is\tpayable.", "the deposit is payable."),
			s.Name())
	}
}

func TestScorer_Ordering(t *testing.T) {
	// A one-token edit must score higher than an unrelated clause.
	for _, s := range allScorers() {
		near := s.Score("The deposit is $1,000 payable on signing.", "The deposit is $2,000 payable on signing.")
		far := s.Score("The deposit is $1,000 payable on signing.", "This lease commences on the first of July.")
		assert.Greater(t, near, far, s.Name())
		assert.Less(t, near, 1.0, s.Name())
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"settlement", "settlement", 0},
		{"vendor", "vendors", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, distance([]rune(tt.a), []rune(tt.b)), "%s/%s", tt.a, tt.b)
	}
}

func TestNew(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, NameLexical, s.Name())

	s, err = New(NameLevenshtein)
	require.NoError(t, err)
	assert.Equal(t, NameLevenshtein, s.Name())

	_, err = New("embedding")
	assert.Error(t, err)
}
