package stats

import (
	"math"

	"morpho/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// MannWhitneyResult reports a two-sided Mann-Whitney U test.
type MannWhitneyResult struct {
	U      float64 `json:"u"`
	Z      float64 `json:"z"`
	PValue float64 `json:"p_value"`
}

// MannWhitney runs the two-sided Mann-Whitney U test with the tie-corrected
// normal approximation and a continuity correction.
func MannWhitney(a, b []float64) (MannWhitneyResult, error) {
	na, nb := float64(len(a)), float64(len(b))
	if na < 1 || nb < 1 {
		return MannWhitneyResult{}, errors.ValidationError("mann-whitney requires non-empty groups")
	}

	ranks, tieSum := rankAll([][]float64{a, b})
	ra := sum(ranks[0])
	ua := ra - na*(na+1)/2
	ub := na*nb - ua
	u := math.Min(ua, ub)

	n := na + nb
	mu := na * nb / 2
	variance := na * nb / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if variance <= 0 {
		// Every observation tied; no evidence either way.
		return MannWhitneyResult{U: u, Z: 0, PValue: 1}, nil
	}

	z := (math.Abs(u-mu) - 0.5) / math.Sqrt(variance)
	if z < 0 {
		z = 0
	}
	p := 2 * distuv.UnitNormal.Survival(z)

	return MannWhitneyResult{U: u, Z: z, PValue: clamp01(p)}, nil
}
