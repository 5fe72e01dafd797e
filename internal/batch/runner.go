// Package batch runs the disambiguator over the first documents of the AQUAINT
// corpus and persists each run under a unique id.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/wsd/internal/corpus"
	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/mohammad-safakhou/wsd/internal/metrics"
	"github.com/mohammad-safakhou/wsd/internal/store"
	"go.uber.org/zap"
)

// ErrInvalidRequest marks batch requests rejected before the corpus is read.
var ErrInvalidRequest = errors.New("invalid batch request")

// maxCreateAttempts bounds run id regeneration on collisions.
const maxCreateAttempts = 5

// Request starts one batch run.
type Request struct {
	Target string `json:"target"`
	Limit  int    `json:"limit"`
	Method string `json:"method"`
	POS    string `json:"pos,omitempty"`
}

// Summary is returned to the caller once the run is stored.
type Summary struct {
	RunID          string `json:"run_id"`
	Processed      int    `json:"processed"`
	FoundSentences int    `json:"found_sentences"`
	ResultsFile    string `json:"results_file"`
}

// Disambiguator is the single-sentence path used per document.
type Disambiguator interface {
	Disambiguate(ctx context.Context, req lesk.Request) (lesk.Result, error)
}

// posValidator is implemented by disambiguators that check a part-of-speech
// filter up front, such as *lesk.Disambiguator.
type posValidator interface {
	ValidatePOS(pos string) error
}

// Runner is safe for concurrent runs; each run only shares the read-only
// corpus, the disambiguators and the store.
type Runner struct {
	source   *corpus.Source
	methods  map[string]Disambiguator
	store    store.RunStore
	maxLimit int
	now      func() time.Time
	newID    func(time.Time) string
	logger   *zap.SugaredLogger
}

// NewRunner maps method names (wordnet, wiki) to their disambiguators.
func NewRunner(source *corpus.Source, methods map[string]Disambiguator, st store.RunStore, maxLimit int) *Runner {
	return &Runner{
		source:   source,
		methods:  methods,
		store:    st,
		maxLimit: maxLimit,
		now:      time.Now,
		newID:    NewRunID,
		logger:   logging.New("batch"),
	}
}

// NewRunID formats a UTC timestamp plus 8 random hex characters, e.g.
// 20240501T120000Z-0a1b2c3d.
func NewRunID(t time.Time) string {
	return t.UTC().Format("20060102T150405Z") + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Validate normalizes req in place and checks it against the runner's limits.
func (r *Runner) Validate(req *Request) error {
	req.Target = strings.TrimSpace(req.Target)
	req.Method = strings.ToLower(strings.TrimSpace(req.Method))
	req.POS = strings.ToLower(strings.TrimSpace(req.POS))
	if req.Target == "" {
		return fmt.Errorf("%w: target is required", ErrInvalidRequest)
	}
	if req.Limit < 1 || req.Limit > r.maxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidRequest, r.maxLimit)
	}
	d, ok := r.methods[req.Method]
	if !ok {
		return fmt.Errorf("%w: unknown method %q", ErrInvalidRequest, req.Method)
	}
	if v, ok := d.(posValidator); ok {
		if err := v.ValidatePOS(req.POS); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	return nil
}

// Run processes the first req.Limit corpus files and stores the run. Failures
// on single files are recorded in the run and do not abort it.
func (r *Runner) Run(ctx context.Context, req Request) (Summary, error) {
	if err := r.Validate(&req); err != nil {
		return Summary{}, err
	}
	d := r.methods[req.Method]

	files, err := r.source.Files(req.Limit)
	if err != nil {
		metrics.BatchRuns.WithLabelValues(req.Method, "error").Inc()
		return Summary{}, err
	}

	run := store.Run{
		Target:  req.Target,
		Method:  req.Method,
		POS:     req.POS,
		Limit:   req.Limit,
		Results: make([]store.DocResult, 0, len(files)),
	}
	for _, file := range files {
		res, err := r.processFile(ctx, d, req, file)
		if err != nil {
			if ctx.Err() != nil {
				metrics.BatchRuns.WithLabelValues(req.Method, "canceled").Inc()
				return Summary{}, ctx.Err()
			}
			r.logger.Warnw("document skipped", "file", file, "error", err)
			res.File = file
			res.Candidates = []lesk.ScoredCandidate{}
			res.BestSense = nil
			res.Error = err.Error()
			run.SkippedDocuments++
			metrics.BatchDocuments.WithLabelValues("skipped").Inc()
		}
		switch {
		case res.Sentence != nil:
			run.FoundSentences++
			metrics.BatchDocuments.WithLabelValues("found").Inc()
		case err == nil:
			metrics.BatchDocuments.WithLabelValues("absent").Inc()
		}
		run.Processed++
		run.Results = append(run.Results, res)
	}

	loc, err := r.create(ctx, &run)
	if err != nil {
		metrics.BatchRuns.WithLabelValues(req.Method, "error").Inc()
		return Summary{}, err
	}
	metrics.BatchRuns.WithLabelValues(req.Method, "stored").Inc()
	r.logger.Infow("batch run stored", "run_id", run.RunID, "target", run.Target, "method", run.Method,
		"processed", run.Processed, "found", run.FoundSentences, "skipped", run.SkippedDocuments)
	return Summary{
		RunID:          run.RunID,
		Processed:      run.Processed,
		FoundSentences: run.FoundSentences,
		ResultsFile:    loc,
	}, nil
}

// processFile returns the document result. When disambiguation fails the
// matched document and sentence are still returned along with the error.
func (r *Runner) processFile(ctx context.Context, d Disambiguator, req Request, file string) (store.DocResult, error) {
	out := store.DocResult{File: file, Candidates: []lesk.ScoredCandidate{}}
	docs, err := r.source.Read(file)
	if err != nil {
		return out, err
	}
	for _, doc := range docs {
		sentence, ok := corpus.FirstSentenceWith(doc.Text, req.Target)
		if !ok {
			continue
		}
		out.DocID = doc.DocID
		out.Sentence = &sentence
		res, err := d.Disambiguate(ctx, lesk.Request{Sentence: sentence, Target: req.Target, POS: req.POS})
		if err != nil {
			return out, fmt.Errorf("%s: %w", doc.DocID, err)
		}
		out.Candidates = res.Candidates
		out.BestSense = res.Best
		return out, nil
	}
	return out, nil
}

// create stores run under a fresh id, regenerating it on collision.
func (r *Runner) create(ctx context.Context, run *store.Run) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		now := r.now()
		run.RunID = r.newID(now)
		run.CreatedAt = now.UTC()
		loc, err := r.store.Create(ctx, *run)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, store.ErrRunExists) {
			return "", fmt.Errorf("store run: %w", err)
		}
		lastErr = err
		r.logger.Debugw("run id collision", "run_id", run.RunID, "attempt", attempt+1)
	}
	return "", fmt.Errorf("store run after %d attempts: %w", maxCreateAttempts, lastErr)
}
