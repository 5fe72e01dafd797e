// Package eval measures similarity providers against human judgments with
// Spearman rank correlation, and sweeps convex combinations of two providers.
package eval

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrUnknownDataset is returned for dataset names other than MC, RG and WS353.
	ErrUnknownDataset = errors.New("unknown dataset")
	// ErrUnknownProvider is returned for similarity providers that are not loaded.
	ErrUnknownProvider = errors.New("unknown provider")
)

// datasetFiles maps the benchmark names to their file names.
var datasetFiles = map[string]string{
	"MC":    "MC.csv",
	"RG":    "RG.csv",
	"WS353": "WS353.csv",
}

// Datasets lists the benchmark names in a stable order.
func Datasets() []string { return []string{"MC", "RG", "WS353"} }

// CanonicalDataset maps a case-insensitive name to its canonical form.
func CanonicalDataset(name string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if _, ok := datasetFiles[key]; !ok {
		return "", fmt.Errorf("%w: %q (expected MC, RG or WS353)", ErrUnknownDataset, name)
	}
	return key, nil
}

// Judgment is one human-scored word pair.
type Judgment struct {
	A, B string
	Gold float64
}

var columnAliases = map[string][]string{
	"a":    {"word1", "w1", "a"},
	"b":    {"word2", "w2", "b"},
	"gold": {"score", "human_score", "gold"},
}

// LoadDataset reads dir/<name>.csv. Rows with a missing word or a non-numeric
// score are skipped.
func LoadDataset(dir, name string) ([]Judgment, error) {
	key, err := CanonicalDataset(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, datasetFiles[key]))
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", key, err)
	}
	defer f.Close()
	return readJudgments(f)
}

func readJudgments(r io.Reader) ([]Judgment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	col := make(map[string]int, len(columnAliases))
	for field, aliases := range columnAliases {
		col[field] = -1
		for _, alias := range aliases {
			if i, ok := idx[alias]; ok {
				col[field] = i
				break
			}
		}
		if col[field] < 0 {
			return nil, fmt.Errorf("dataset header: no column for %s (tried %s)", field, strings.Join(aliases, ", "))
		}
	}

	var out []Judgment
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, err
		}
		get := func(field string) string {
			if i := col[field]; i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		a, b, s := get("a"), get("b"), get("gold")
		if a == "" || b == "" || s == "" {
			continue
		}
		gold, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(gold) || math.IsInf(gold, 0) {
			continue
		}
		out = append(out, Judgment{A: a, B: b, Gold: gold})
	}
	return out, nil
}
