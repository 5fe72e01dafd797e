package eval

import (
	"context"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/wsd/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanksAverageTies(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, Ranks([]float64{10, 20, 20, 30}))
	assert.Equal(t, []float64{3, 1, 2}, Ranks([]float64{0.9, 0.1, 0.5}))
}

func TestSpearman(t *testing.T) {
	rho := Spearman([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	require.NotNil(t, rho)
	assert.InDelta(t, 1.0, *rho, 1e-9)

	rho = Spearman([]float64{1, 2, 3, 4}, []float64{4, 3, 2, 1})
	require.NotNil(t, rho)
	assert.InDelta(t, -1.0, *rho, 1e-9)

	// monotone but non-linear: rank correlation is still perfect
	rho = Spearman([]float64{1, 2, 3, 4, 5}, []float64{1, 4, 9, 16, 1000})
	require.NotNil(t, rho)
	assert.InDelta(t, 1.0, *rho, 1e-9)
}

func TestSpearmanUndefined(t *testing.T) {
	assert.Nil(t, Spearman(nil, nil))
	assert.Nil(t, Spearman([]float64{1}, []float64{2}))
	assert.Nil(t, Spearman([]float64{1, 2}, []float64{1}))
	assert.Nil(t, Spearman([]float64{1, 2, 3}, []float64{5, 5, 5}))
}

func TestLoadDatasetAliasesAndMalformedRows(t *testing.T) {
	mc, err := LoadDataset("testdata", "mc")
	require.NoError(t, err)
	assert.Len(t, mc, 7)
	assert.Equal(t, Judgment{A: "car", B: "automobile", Gold: 3.92}, mc[0])

	rg, err := LoadDataset("testdata", "RG")
	require.NoError(t, err)
	assert.Len(t, rg, 6)

	ws, err := LoadDataset("testdata", "WS353")
	require.NoError(t, err)
	require.Len(t, ws, 3)
	assert.Equal(t, "tiger", ws[0].A)
}

func TestLoadDatasetUnknown(t *testing.T) {
	_, err := LoadDataset("testdata", "SimLex")
	assert.ErrorIs(t, err, ErrUnknownDataset)
}

func TestReadJudgmentsMissingColumn(t *testing.T) {
	_, err := readJudgments(strings.NewReader("left,right\na,b\n"))
	assert.Error(t, err)
}

func TestReadJudgmentsSkipsNonFiniteGold(t *testing.T) {
	in := "word1,word2,score\ncar,automobile,3.92\ngem,jewel,NaN\nnoon,string,+Inf\ncock,rooster,-inf\njourney,voyage,3.84\n"
	rows, err := readJudgments(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Judgment{
		{A: "car", B: "automobile", Gold: 3.92},
		{A: "journey", B: "voyage", Gold: 3.84},
	}, rows)
}

// goldOracle returns the MC/RG gold score for known pairs, optionally distorted.
type goldOracle struct {
	scores map[string]float64
	calls  int
}

func (g *goldOracle) Similarity(_ context.Context, a, b string) (float64, bool) {
	g.calls++
	v, ok := g.scores[a+"|"+b]
	return v, ok
}

func mcScores(t *testing.T, transform func(float64) float64) map[string]float64 {
	t.Helper()
	rows, err := LoadDataset("testdata", "MC")
	require.NoError(t, err)
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.A+"|"+r.B] = transform(r.Gold)
	}
	return out
}

func TestCorrelationTable(t *testing.T) {
	oracle := &goldOracle{scores: mcScores(t, func(g float64) float64 { return g * 2 })}
	providers := similarity.Providers{
		{Name: similarity.OracleName, Oracle: oracle},
		{Name: "fasttext", Oracle: similarity.Unavailable{}},
	}
	table, err := NewEvaluator("testdata", providers).Correlation(context.Background(), []string{"MC", "mc", "RG"})
	require.NoError(t, err)
	require.Len(t, table, 2)

	require.NotNil(t, table["MC"][similarity.OracleName])
	assert.InDelta(t, 1.0, *table["MC"][similarity.OracleName], 1e-9)
	assert.Nil(t, table["MC"]["fasttext"])
	assert.Contains(t, table["MC"], "fasttext")
	// the oracle only knows noon|string in RG (automobile|car is reversed)
	assert.Nil(t, table["RG"][similarity.OracleName])
}

func TestCorrelationRejectsUnknownDatasetBeforeLookups(t *testing.T) {
	oracle := &goldOracle{}
	ev := NewEvaluator("testdata", similarity.Providers{{Name: similarity.OracleName, Oracle: oracle}})
	_, err := ev.Correlation(context.Background(), []string{"MC", "SimLex"})
	assert.ErrorIs(t, err, ErrUnknownDataset)
	assert.Zero(t, oracle.calls)
}

func TestSweepEndpoints(t *testing.T) {
	aligned := []Aligned{
		{Gold: 1, Oracle: 0.3, Base: 0.1},
		{Gold: 2, Oracle: 0.1, Base: 0.4},
		{Gold: 3, Oracle: 0.6, Base: 0.2},
		{Gold: 4, Oracle: 0.5, Base: 0.9},
		{Gold: 5, Oracle: 0.9, Base: 0.7},
	}
	var gold, oracle, base []float64
	for _, a := range aligned {
		gold = append(gold, a.Gold)
		oracle = append(oracle, a.Oracle)
		base = append(base, a.Base)
	}
	res := Sweep(aligned)
	require.Len(t, res, 11)
	for k := 0; k <= 10; k++ {
		assert.Contains(t, res, AlphaKey(float64(k)/10))
	}
	assert.Equal(t, *Spearman(gold, base), *res["alpha=0.0"])
	assert.Equal(t, *Spearman(gold, oracle), *res["alpha=1.0"])
}

func TestSweepTooFewPairs(t *testing.T) {
	res := Sweep([]Aligned{{Gold: 1, Oracle: 1, Base: 1}})
	require.Len(t, res, 11)
	for key, v := range res {
		assert.Nil(t, v, key)
	}
}

func TestConvexAlignsOnBothProviders(t *testing.T) {
	oracleScores := mcScores(t, func(g float64) float64 { return g })
	delete(oracleScores, "boy|lad")
	baseScores := mcScores(t, func(g float64) float64 { return 4 - g })
	delete(baseScores, "gem|jewel")
	providers := similarity.Providers{
		{Name: similarity.OracleName, Oracle: &goldOracle{scores: oracleScores}},
		{Name: "glove", Oracle: &goldOracle{scores: baseScores}},
	}
	res, err := NewEvaluator("testdata", providers).Convex(context.Background(), "MC", "GloVe")
	require.NoError(t, err)
	require.NotNil(t, res["alpha=1.0"])
	require.NotNil(t, res["alpha=0.0"])
	assert.InDelta(t, 1.0, *res["alpha=1.0"], 1e-9)
	assert.InDelta(t, -1.0, *res["alpha=0.0"], 1e-9)
}

func TestConvexUnknownBase(t *testing.T) {
	ev := NewEvaluator("testdata", similarity.Providers{{Name: similarity.OracleName, Oracle: similarity.Unavailable{}}})
	_, err := ev.Convex(context.Background(), "MC", "word2vec")
	assert.ErrorIs(t, err, ErrUnknownProvider)
	_, err = ev.Convex(context.Background(), "XX", "word2vec")
	assert.ErrorIs(t, err, ErrUnknownDataset)
}
