package wordnet

import (
	"context"
	"strings"

	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/mohammad-safakhou/wsd/internal/textnorm"
)

// Variant is the resource name of the WordNet adapter.
const Variant = lesk.VariantWordNet

// Adapter exposes the database as a lesk.Resource with path-similarity relatedness.
type Adapter struct {
	db *DB
}

func NewAdapter(db *DB) *Adapter { return &Adapter{db: db} }

func (a *Adapter) Variant() string { return Variant }

func (a *Adapter) ValidatePOS(pos string) error { return ValidatePOS(pos) }

// Candidates returns one candidate per synset of word, identified by sense name
// (plant.n.02). The word is case and accent folded first.
func (a *Adapter) Candidates(_ context.Context, word, pos string) (lesk.CandidateSet, error) {
	senses, err := a.db.Senses(textnorm.Fold(word), pos)
	if err != nil {
		return lesk.CandidateSet{}, err
	}
	out := make([]lesk.SenseCandidate, 0, len(senses))
	for _, s := range senses {
		out = append(out, lesk.SenseCandidate{
			ID:          s.Name,
			Title:       strings.Join(s.Lemmas, ", "),
			Description: s.Definition,
			Examples:    s.Examples,
			POS:         s.POS,
		})
	}
	return lesk.CandidateSet{Candidates: out}, nil
}

// Signature is the gloss plus its usage examples. Lemma titles are left out:
// they always contain the target itself.
func (a *Adapter) Signature(c lesk.SenseCandidate) string {
	if len(c.Examples) == 0 {
		return c.Description
	}
	return c.Description + " " + strings.Join(c.Examples, " ")
}

// Relatedness is the path similarity of the two senses.
func (a *Adapter) Relatedness(x, y lesk.SenseCandidate) float64 {
	kx, ok := a.db.KeyOf(x.ID)
	if !ok {
		return 0
	}
	ky, ok := a.db.KeyOf(y.ID)
	if !ok {
		return 0
	}
	return a.db.PathSimilarity(kx, ky)
}
