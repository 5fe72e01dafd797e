// Package store persists AQUAINT batch runs. A run is written once, under a
// unique id, and never modified.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/wsd/internal/lesk"
)

var (
	// ErrRunExists is returned by Create when the id is already taken.
	ErrRunExists = errors.New("run already exists")
	// ErrRunNotFound is returned by Get for unknown or malformed ids.
	ErrRunNotFound = errors.New("run not found")
)

// Run is the persisted record of one batch run.
type Run struct {
	RunID            string      `json:"run_id"`
	Target           string      `json:"target"`
	Method           string      `json:"method"`
	POS              string      `json:"pos,omitempty"`
	Limit            int         `json:"limit"`
	Processed        int         `json:"processed"`
	FoundSentences   int         `json:"found_sentences"`
	SkippedDocuments int         `json:"skipped_documents"`
	CreatedAt        time.Time   `json:"created_at"`
	Results          []DocResult `json:"results"`
}

// DocResult is the outcome for one corpus file. Sentence and BestSense are nil
// when the target does not occur; Error is set when the file was skipped.
type DocResult struct {
	File       string                 `json:"file"`
	DocID      string                 `json:"doc_id,omitempty"`
	Sentence   *string                `json:"sentence"`
	Candidates []lesk.ScoredCandidate `json:"candidates"`
	BestSense  *lesk.ScoredCandidate  `json:"best_sense"`
	Error      string                 `json:"error,omitempty"`
}

// RunStore creates and reads runs. Create is atomic create-if-absent and
// returns where the run was written.
type RunStore interface {
	Create(ctx context.Context, run Run) (location string, err error)
	Get(ctx context.Context, runID string) (Run, error)
}

// ValidRunID accepts the characters run ids are built from (letters, digits
// and '-'), which keeps ids safe to use as file names.
func ValidRunID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
