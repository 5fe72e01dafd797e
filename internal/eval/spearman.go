package eval

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Ranks assigns 1-based ranks, averaging the ranks of tied values.
func Ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	ranks := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// Spearman is the rank correlation of x and y. It is nil, never NaN, when the
// series differ in length, hold fewer than two points, or either is constant.
func Spearman(x, y []float64) *float64 {
	if len(x) != len(y) || len(x) < 2 {
		return nil
	}
	rx, ry := Ranks(x), Ranks(y)
	if constant(rx) || constant(ry) {
		return nil
	}
	rho := stat.Correlation(rx, ry, nil)
	if math.IsNaN(rho) || math.IsInf(rho, 0) {
		return nil
	}
	return &rho
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}
