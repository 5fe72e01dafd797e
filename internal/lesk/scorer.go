package lesk

import (
	"github.com/mohammad-safakhou/wsd/internal/textnorm"
)

// Scorer computes overlap scores against a fixed context.
type Scorer struct {
	normalizer *textnorm.Normalizer
	resource   Resource
	related    Relatedness
	memo       map[[2]string]float64
}

// NewScorer prepares a scorer for one disambiguation call. Pairwise relatedness
// results are memoized for the lifetime of the scorer.
func NewScorer(n *textnorm.Normalizer, r Resource) *Scorer {
	s := &Scorer{normalizer: n, resource: r, memo: make(map[[2]string]float64)}
	if rel, ok := capability[Relatedness](r); ok {
		s.related = rel
	}
	return s
}

// Overlap scores a single candidate against the context token set.
func (s *Scorer) Overlap(ctx map[string]struct{}, c SenseCandidate) ScoredCandidate {
	sig := textnorm.Set(s.normalizer.Tokens(s.resource.Signature(c)))
	overlaps := textnorm.Intersect(ctx, sig)
	return ScoredCandidate{
		SenseCandidate: c,
		OverlapCount:   len(overlaps),
		Overlaps:       overlaps,
		Variant:        s.resource.Variant(),
	}
}

// ScoreAll scores every candidate, in input order. When the resource measures
// relatedness, each candidate's SemanticScore is the sum of its relatedness to
// every other candidate.
func (s *Scorer) ScoreAll(context []string, candidates []SenseCandidate) []ScoredCandidate {
	ctx := textnorm.Set(context)
	out := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = s.Overlap(ctx, c)
	}
	if s.related == nil {
		return out
	}
	for i := range out {
		sum := 0.0
		for j := range candidates {
			if i == j {
				continue
			}
			sum += s.relatedness(candidates[i], candidates[j])
		}
		v := sum
		out[i].SemanticScore = &v
	}
	return out
}

func (s *Scorer) relatedness(a, b SenseCandidate) float64 {
	key := [2]string{a.ID, b.ID}
	if b.ID < a.ID {
		key = [2]string{b.ID, a.ID}
	}
	if v, ok := s.memo[key]; ok {
		return v
	}
	v := s.related.Relatedness(a, b)
	s.memo[key] = v
	return v
}
