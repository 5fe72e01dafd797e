package eval

import "fmt"

// Aligned is a judged pair scored by both the oracle and the base provider.
type Aligned struct {
	Gold, Oracle, Base float64
}

// AlphaKey formats a grid point the way sweep results are keyed.
func AlphaKey(alpha float64) string { return fmt.Sprintf("alpha=%.1f", alpha) }

// Sweep evaluates alpha = 0.0, 0.1, ..., 1.0 on the same aligned pairs. Every
// key is present; values are nil when the correlation is undefined.
func Sweep(aligned []Aligned) SweepResult {
	gold := make([]float64, len(aligned))
	for i, a := range aligned {
		gold[i] = a.Gold
	}
	out := make(SweepResult, 11)
	combo := make([]float64, len(aligned))
	for k := 0; k <= 10; k++ {
		alpha := float64(k) / 10
		for i, a := range aligned {
			combo[i] = alpha*a.Oracle + (1-alpha)*a.Base
		}
		out[AlphaKey(alpha)] = Spearman(gold, combo)
	}
	return out
}
