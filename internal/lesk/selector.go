package lesk

import "sort"

// Select ranks scored candidates by overlap count, then by semantic score when
// both candidates carry one, then by source order. The input is not modified.
func Select(scored []ScoredCandidate) (best *ScoredCandidate, ranked []ScoredCandidate) {
	ranked = make([]ScoredCandidate, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.OverlapCount != b.OverlapCount {
			return a.OverlapCount > b.OverlapCount
		}
		if a.SemanticScore != nil && b.SemanticScore != nil && *a.SemanticScore != *b.SemanticScore {
			return *a.SemanticScore > *b.SemanticScore
		}
		return false
	})
	if len(ranked) == 0 {
		return nil, ranked
	}
	top := ranked[0]
	return &top, ranked
}
