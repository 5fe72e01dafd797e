package eval

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/mohammad-safakhou/wsd/internal/similarity"
	"go.uber.org/zap"
)

// CorrelationTable maps dataset -> provider -> Spearman rho (nil when undefined).
type CorrelationTable map[string]map[string]*float64

// SweepResult maps "alpha=0.0" .. "alpha=1.0" to Spearman rho.
type SweepResult map[string]*float64

// Evaluator scores providers against the benchmark datasets in dataDir.
type Evaluator struct {
	dataDir   string
	providers similarity.Providers
	logger    *zap.SugaredLogger
}

func NewEvaluator(dataDir string, providers similarity.Providers) *Evaluator {
	return &Evaluator{dataDir: dataDir, providers: providers, logger: logging.New("eval")}
}

// Providers lists the provider names in evaluation order.
func (e *Evaluator) Providers() []string { return e.providers.Names() }

// Correlation scores every provider on every requested dataset. All dataset
// names are checked before any provider is called; no names means all three.
func (e *Evaluator) Correlation(ctx context.Context, datasets []string) (CorrelationTable, error) {
	names, err := canonicalDatasets(datasets)
	if err != nil {
		return nil, err
	}
	table := make(CorrelationTable, len(names))
	for _, name := range names {
		rows, err := LoadDataset(e.dataDir, name)
		if err != nil {
			return nil, err
		}
		out := make(map[string]*float64, len(e.providers))
		for _, p := range e.providers {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			gold, sims := score(ctx, p, rows)
			out[p.Name] = Spearman(gold, sims)
			e.logger.Debugw("correlation", "dataset", name, "provider", p.Name, "pairs", len(rows), "scored", len(sims))
		}
		table[name] = out
	}
	return table, nil
}

// score returns the gold and provider scores of the pairs the provider could score.
func score(ctx context.Context, o similarity.Oracle, rows []Judgment) (gold, sims []float64) {
	for _, r := range rows {
		if v, ok := o.Similarity(ctx, r.A, r.B); ok {
			gold = append(gold, r.Gold)
			sims = append(sims, v)
		}
	}
	return gold, sims
}

func canonicalDatasets(datasets []string) ([]string, error) {
	if len(datasets) == 0 {
		return Datasets(), nil
	}
	out := make([]string, 0, len(datasets))
	seen := make(map[string]struct{}, len(datasets))
	for _, d := range datasets {
		key, err := CanonicalDataset(d)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out, nil
}

// Convex sweeps alpha·oracle + (1-alpha)·base over the pairs of dataset that
// both the oracle and base can score.
func (e *Evaluator) Convex(ctx context.Context, dataset, base string) (SweepResult, error) {
	name, err := CanonicalDataset(dataset)
	if err != nil {
		return nil, err
	}
	baseP, ok := e.providers.Lookup(base)
	if !ok {
		return nil, fmt.Errorf("%w: %q (loaded: %v)", ErrUnknownProvider, base, e.providers.Names())
	}
	oracle, ok := e.providers.Lookup(similarity.OracleName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, similarity.OracleName)
	}
	rows, err := LoadDataset(e.dataDir, name)
	if err != nil {
		return nil, err
	}
	var aligned []Aligned
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ov, ok := oracle.Similarity(ctx, r.A, r.B)
		if !ok {
			continue
		}
		bv, ok := baseP.Similarity(ctx, r.A, r.B)
		if !ok {
			continue
		}
		aligned = append(aligned, Aligned{Gold: r.Gold, Oracle: ov, Base: bv})
	}
	e.logger.Debugw("convex sweep", "dataset", name, "base", baseP.Name, "pairs", len(rows), "aligned", len(aligned))
	return Sweep(aligned), nil
}
