package comparison

// ComparisonMetrics is the aggregate summary computed from a comparison's
// aligned pairs and differences.  All similarity figures are in [0,1].
type ComparisonMetrics struct {
	// OverallSimilarity is the mean score over aligned pairs weighted by the
	// importance of the first document's clause.  Coverage is reported
	// separately as StructuralSimilarity.
	OverallSimilarity float64 `json:"overall_similarity"`

	// StructuralSimilarity is the fraction of clauses that found a partner:
	// 2*matched / (clauses1 + clauses2).
	StructuralSimilarity float64 `json:"structural_similarity"`

	// ContentSimilarity is the unweighted mean score over aligned pairs.
	ContentSimilarity float64 `json:"content_similarity"`

	// LegalSimilarity is the mean score over aligned pairs whose clause in the
	// first document is high-importance; when no such pairs exist it equals
	// ContentSimilarity.
	LegalSimilarity float64 `json:"legal_similarity"`

	MatchedClauses      int `json:"matched_clauses"`
	TotalDifferences    int `json:"total_differences"`
	CriticalDifferences int `json:"critical_differences"`
	AddedCount          int `json:"added_count"`
	RemovedCount        int `json:"removed_count"`
	ModifiedCount       int `json:"modified_count"`
}

// ComputeMetrics derives the full metric set from aligned pairs, difference
// records, and the clause counts of each document.  It is a pure function:
// identical inputs always produce identical outputs.
func ComputeMetrics(sims []ClauseSimilarity, diffs []*DocumentDifference, clauses1, clauses2 int) ComparisonMetrics {
	m := ComparisonMetrics{
		MatchedClauses:   len(sims),
		TotalDifferences: len(diffs),
	}

	for _, d := range diffs {
		if d.Severity == SeverityHigh {
			m.CriticalDifferences++
		}
		switch d.Type {
		case DifferenceAdded:
			m.AddedCount++
		case DifferenceRemoved:
			m.RemovedCount++
		case DifferenceModified:
			m.ModifiedCount++
		}
	}

	if clauses1+clauses2 > 0 {
		m.StructuralSimilarity = float64(2*len(sims)) / float64(clauses1+clauses2)
	}

	if len(sims) == 0 {
		return m
	}

	var sum, weightedSum, weightTotal, legalSum float64
	legalCount := 0
	for _, s := range sims {
		sum += s.SimilarityScore
		w := s.Document1Clause.Importance.Weight()
		weightedSum += s.SimilarityScore * w
		weightTotal += w
		if s.Document1Clause.Importance == ImportanceHigh {
			legalSum += s.SimilarityScore
			legalCount++
		}
	}

	m.ContentSimilarity = sum / float64(len(sims))
	if legalCount > 0 {
		m.LegalSimilarity = legalSum / float64(legalCount)
	} else {
		m.LegalSimilarity = m.ContentSimilarity
	}
	if weightTotal > 0 {
		m.OverallSimilarity = weightedSum / weightTotal
	}

	return m
}
