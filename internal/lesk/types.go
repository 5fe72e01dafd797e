// Package lesk implements Lesk-style word-sense disambiguation: candidate senses
// are scored by the overlap between the sentence context and each candidate's
// descriptive text, then ranked with a deterministic tie-break.
package lesk

import (
	"context"
	"encoding/json"
	"errors"
)

// Resource variant names. Each variant has its own candidate wire shape.
const (
	VariantWordNet = "wordnet"
	VariantWiki    = "wiki"
)

var (
	// ErrInvalidInput marks requests rejected before any resource lookup.
	ErrInvalidInput = errors.New("invalid input")
	// ErrResourceUnavailable marks a lexical resource that could not be reached at all.
	ErrResourceUnavailable = errors.New("resource unavailable")
)

// SenseCandidate is one candidate sense as fetched from a resource. It is not
// modified after the fetch.
type SenseCandidate struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description"`
	Examples    []string `json:"examples,omitempty"`
	URL         string   `json:"url,omitempty"`
	POS         string   `json:"pos,omitempty"`
}

// CandidateSet is the ordered output of a resource lookup. Skipped counts
// candidates dropped because their individual lookup failed.
type CandidateSet struct {
	Candidates []SenseCandidate `json:"candidates"`
	Skipped    int              `json:"skipped"`
}

// ScoredCandidate is a candidate with its overlap score. OverlapCount always
// equals len(Overlaps). Variant selects the JSON shape: wordnet senses encode
// as {synset, definition, examples}, wiki pages as {title, summary, url}.
type ScoredCandidate struct {
	SenseCandidate
	OverlapCount  int      `json:"overlap_count"`
	Overlaps      []string `json:"overlaps"`
	SemanticScore *float64 `json:"semantic_score,omitempty"`
	Variant       string   `json:"-"`
}

type plainCandidate ScoredCandidate

type wordnetCandidate struct {
	Synset        string   `json:"synset"`
	Definition    string   `json:"definition"`
	Examples      []string `json:"examples,omitempty"`
	Lemmas        string   `json:"lemmas,omitempty"`
	POS           string   `json:"pos,omitempty"`
	OverlapCount  int      `json:"overlap_count"`
	Overlaps      []string `json:"overlaps"`
	SemanticScore *float64 `json:"semantic_score,omitempty"`
}

type wikiCandidate struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	URL           string   `json:"url,omitempty"`
	OverlapCount  int      `json:"overlap_count"`
	Overlaps      []string `json:"overlaps"`
	SemanticScore *float64 `json:"semantic_score,omitempty"`
}

func (c ScoredCandidate) MarshalJSON() ([]byte, error) {
	overlaps := c.Overlaps
	if overlaps == nil {
		overlaps = []string{}
	}
	switch c.Variant {
	case VariantWordNet:
		return json.Marshal(wordnetCandidate{
			Synset:        c.ID,
			Definition:    c.Description,
			Examples:      c.Examples,
			Lemmas:        c.Title,
			POS:           c.POS,
			OverlapCount:  c.OverlapCount,
			Overlaps:      overlaps,
			SemanticScore: c.SemanticScore,
		})
	case VariantWiki:
		title := c.Title
		if title == "" {
			title = c.ID
		}
		return json.Marshal(wikiCandidate{
			Title:         title,
			Summary:       c.Description,
			URL:           c.URL,
			OverlapCount:  c.OverlapCount,
			Overlaps:      overlaps,
			SemanticScore: c.SemanticScore,
		})
	}
	return json.Marshal(plainCandidate(c))
}

// UnmarshalJSON accepts every shape MarshalJSON writes, so stored runs decode
// back with their variant.
func (c *ScoredCandidate) UnmarshalJSON(data []byte) error {
	var raw struct {
		plainCandidate
		Synset     *string `json:"synset"`
		Definition string  `json:"definition"`
		Lemmas     string  `json:"lemmas"`
		Summary    *string `json:"summary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ScoredCandidate(raw.plainCandidate)
	switch {
	case raw.Synset != nil:
		c.Variant = VariantWordNet
		c.ID = *raw.Synset
		c.Description = raw.Definition
		c.Title = raw.Lemmas
	case raw.Summary != nil:
		c.Variant = VariantWiki
		c.ID = c.Title
		c.Description = *raw.Summary
	}
	return nil
}

// Result is the outcome of one disambiguation. Best is nil when the resource
// produced no candidates; otherwise it is the head of Candidates.
type Result struct {
	Variant    string            `json:"variant"`
	Best       *ScoredCandidate  `json:"best_sense"`
	Candidates []ScoredCandidate `json:"candidates"`
	Skipped    int               `json:"skipped"`
	Context    []string          `json:"context"`
}

// Found reports whether any candidate sense exists.
func (r Result) Found() bool { return r.Best != nil }

// Resource is a lexical resource variant.
type Resource interface {
	// Variant names the resource, e.g. "wordnet" or "wiki".
	Variant() string
	// Candidates lists candidate senses for word in source order. A word absent
	// from the resource yields an empty set and no error.
	Candidates(ctx context.Context, word, pos string) (CandidateSet, error)
	// Signature is the descriptive text of a candidate that is compared with the context.
	Signature(c SenseCandidate) string
}

// Relatedness is implemented by resources that can measure semantic closeness
// between two of their own senses, in [0,1].
type Relatedness interface {
	Relatedness(a, b SenseCandidate) float64
}

// POSValidator is implemented by resources that accept a part-of-speech filter.
type POSValidator interface {
	ValidatePOS(pos string) error
}

// Wrapper is implemented by decorators (caches) around another resource.
type Wrapper interface {
	Unwrap() Resource
}

// capability walks decorators looking for a resource implementing T.
func capability[T any](r Resource) (T, bool) {
	for r != nil {
		if c, ok := r.(T); ok {
			return c, true
		}
		w, ok := r.(Wrapper)
		if !ok {
			break
		}
		r = w.Unwrap()
	}
	var zero T
	return zero, false
}
