package wiki

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/mohammad-safakhou/wsd/internal/logging"
	"go.uber.org/zap"
)

// Variant is the resource name of the Wikipedia adapter.
const Variant = lesk.VariantWiki

// Source is what the adapter needs from a MediaWiki client.
type Source interface {
	Summary(ctx context.Context, title string) (Page, error)
	DisambiguationEntries(ctx context.Context, title string) ([]string, error)
}

// Adapter turns disambiguation pages into sense candidates, one per listed
// article, described by that article's summary.
type Adapter struct {
	source        Source
	maxCandidates int
	logger        *zap.SugaredLogger
}

// NewAdapter wraps source. maxCandidates <= 0 means no cap.
func NewAdapter(source Source, maxCandidates int) *Adapter {
	return &Adapter{source: source, maxCandidates: maxCandidates, logger: logging.New("wiki")}
}

func (a *Adapter) Variant() string { return Variant }

// Candidates resolves word to its disambiguation page ("<Word> (disambiguation)"
// first, then the bare title). A bare article yields one candidate and a
// missing one yields none. pos is ignored.
func (a *Adapter) Candidates(ctx context.Context, word, _ string) (lesk.CandidateSet, error) {
	title := canonicalTitle(word)
	page, err := a.source.Summary(ctx, title+" (disambiguation)")
	if errors.Is(err, ErrNotFound) {
		page, err = a.source.Summary(ctx, title)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return lesk.CandidateSet{Candidates: []lesk.SenseCandidate{}}, nil
	case err != nil:
		return lesk.CandidateSet{}, unavailable(ctx, err)
	}

	if !page.IsDisambiguation() {
		return lesk.CandidateSet{Candidates: []lesk.SenseCandidate{candidate(page)}}, nil
	}

	entries, err := a.source.DisambiguationEntries(ctx, page.Title)
	if err != nil {
		return lesk.CandidateSet{}, unavailable(ctx, err)
	}
	if a.maxCandidates > 0 && len(entries) > a.maxCandidates {
		entries = entries[:a.maxCandidates]
	}
	set := lesk.CandidateSet{Candidates: make([]lesk.SenseCandidate, 0, len(entries))}
	for _, entry := range entries {
		p, err := a.source.Summary(ctx, entry)
		if err != nil {
			if ctx.Err() != nil {
				return lesk.CandidateSet{}, ctx.Err()
			}
			a.logger.Debugw("entry lookup failed", "page", page.Title, "entry", entry, "error", err)
			set.Skipped++
			continue
		}
		set.Candidates = append(set.Candidates, candidate(p))
	}
	return set, nil
}

// Signature is the article title plus its summary.
func (a *Adapter) Signature(c lesk.SenseCandidate) string {
	return c.Title + " " + c.Description
}

func candidate(p Page) lesk.SenseCandidate {
	return lesk.SenseCandidate{ID: p.Title, Title: p.Title, Description: p.Extract, URL: p.URL()}
}

func unavailable(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: wikipedia: %v", lesk.ErrResourceUnavailable, err)
}
