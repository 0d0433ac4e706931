package stats

import (
	"morpho/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// KruskalWallisResult reports a Kruskal-Wallis H test.
type KruskalWallisResult struct {
	H      float64 `json:"h"`
	DF     float64 `json:"df"`
	PValue float64 `json:"p_value"`
}

// KruskalWallis runs the tie-corrected Kruskal-Wallis H test with the
// chi-squared approximation.
func KruskalWallis(groups [][]float64) (KruskalWallisResult, error) {
	k := len(groups)
	if k < 2 {
		return KruskalWallisResult{}, errors.ValidationError("kruskal-wallis requires at least 2 groups")
	}

	total := 0
	for _, g := range groups {
		if len(g) == 0 {
			return KruskalWallisResult{}, errors.ValidationError("kruskal-wallis requires non-empty groups")
		}
		total += len(g)
	}

	ranks, tieSum := rankAll(groups)
	n := float64(total)

	h := 0.0
	for gi, g := range groups {
		r := sum(ranks[gi])
		h += r * r / float64(len(g))
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	correction := 1 - tieSum/(n*n*n-n)
	if correction <= 0 {
		// Every observation tied.
		return KruskalWallisResult{H: 0, DF: float64(k - 1), PValue: 1}, nil
	}
	h /= correction

	dist := distuv.ChiSquared{K: float64(k - 1)}
	return KruskalWallisResult{H: h, DF: float64(k - 1), PValue: clamp01(dist.Survival(h))}, nil
}
