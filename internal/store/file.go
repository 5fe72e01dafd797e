package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const runsDir = "aquaint_runs"

// FileStore keeps one JSON file per run under <root>/aquaint_runs.
type FileStore struct {
	dir string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{dir: filepath.Join(root, runsDir)}
}

// Create writes the run to a temporary file and hard-links it into place, so
// the final name appears complete or not at all and is never overwritten.
func (s *FileStore) Create(_ context.Context, run Run) (string, error) {
	if !ValidRunID(run.RunID) {
		return "", fmt.Errorf("invalid run id %q", run.RunID)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+run.RunID+"-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	final := s.path(run.RunID)
	if err := os.Link(tmp.Name(), final); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", ErrRunExists
		}
		return "", err
	}
	return final, nil
}

func (s *FileStore) Get(_ context.Context, runID string) (Run, error) {
	if !ValidRunID(runID) {
		return Run{}, ErrRunNotFound
	}
	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, err
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, fmt.Errorf("run %s: %w", runID, err)
	}
	return run, nil
}

func (s *FileStore) path(runID string) string {
	return filepath.Join(s.dir, runID+".json")
}
