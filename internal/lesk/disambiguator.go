package lesk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/mohammad-safakhou/wsd/internal/metrics"
	"github.com/mohammad-safakhou/wsd/internal/textnorm"
	"go.uber.org/zap"
)

// Request is a single-sentence, single-target disambiguation request.
type Request struct {
	Sentence string `json:"sentence"`
	Target   string `json:"target"`
	POS      string `json:"pos,omitempty"`
}

// Validate rejects requests before any resource lookup.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Sentence) == "" {
		return fmt.Errorf("%w: sentence is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Target) == "" {
		return fmt.Errorf("%w: target is required", ErrInvalidInput)
	}
	return nil
}

// Disambiguator runs normalize -> candidates -> score -> select for one resource.
type Disambiguator struct {
	resource   Resource
	normalizer *textnorm.Normalizer
	logger     *zap.SugaredLogger
}

func NewDisambiguator(r Resource, n *textnorm.Normalizer) *Disambiguator {
	return &Disambiguator{resource: r, normalizer: n, logger: logging.New("lesk")}
}

// Variant names the underlying resource.
func (d *Disambiguator) Variant() string { return d.resource.Variant() }

// ValidatePOS checks a part-of-speech filter against the resource. Resources
// without a POS notion accept anything.
func (d *Disambiguator) ValidatePOS(pos string) error {
	v, ok := capability[POSValidator](d.resource)
	if !ok {
		return nil
	}
	if err := v.ValidatePOS(strings.ToLower(strings.TrimSpace(pos))); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// Disambiguate picks the best sense of req.Target in req.Sentence. A resource
// without senses for the target yields a Result with no best sense and no error.
func (d *Disambiguator) Disambiguate(ctx context.Context, req Request) (Result, error) {
	variant := d.resource.Variant()
	start := time.Now()
	defer func() { metrics.DisambiguationSeconds.WithLabelValues(variant).Observe(time.Since(start).Seconds()) }()

	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	pos := strings.ToLower(strings.TrimSpace(req.POS))
	if err := d.ValidatePOS(pos); err != nil {
		return Result{}, err
	}

	contextTokens := d.normalizer.Normalize(req.Sentence, req.Target)
	set, err := d.resource.Candidates(ctx, strings.TrimSpace(req.Target), pos)
	if err != nil {
		metrics.Disambiguations.WithLabelValues(variant, "error").Inc()
		return Result{}, err
	}
	if set.Skipped > 0 {
		metrics.CandidatesSkipped.WithLabelValues(variant).Add(float64(set.Skipped))
		d.logger.Warnw("candidates skipped", "target", req.Target, "skipped", set.Skipped)
	}

	scored := NewScorer(d.normalizer, d.resource).ScoreAll(contextTokens, set.Candidates)
	best, ranked := Select(scored)
	res := Result{
		Variant:    variant,
		Best:       best,
		Candidates: ranked,
		Skipped:    set.Skipped,
		Context:    contextTokens,
	}
	if best == nil {
		metrics.Disambiguations.WithLabelValues(variant, "no_candidates").Inc()
	} else {
		metrics.Disambiguations.WithLabelValues(variant, "found").Inc()
	}
	d.logger.Debugw("disambiguated", "target", req.Target, "candidates", len(ranked), "found", best != nil)
	return res, nil
}
