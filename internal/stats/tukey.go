package stats

import (
	"math"

	"morpho/internal/errors"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// TukeyPair is one significant pairwise comparison from Tukey's HSD.
type TukeyPair struct {
	GroupA   string  `json:"group_a"`
	GroupB   string  `json:"group_b"`
	MeanDiff float64 `json:"mean_diff"`
	Q        float64 `json:"q"`
	PValue   float64 `json:"p_value"`
}

// TukeyHSD runs Tukey's honestly-significant-difference test over all group
// pairs and returns only the pairs significant at alpha. Non-significant
// pairs are dropped from the result, not marked.
func TukeyHSD(names []string, groups [][]float64, alpha float64) ([]TukeyPair, error) {
	k := len(groups)
	if k < 2 || len(names) != k {
		return nil, errors.ValidationError("tukey requires at least 2 named groups")
	}

	total := 0
	var ssWithin float64
	means := make([]float64, k)
	for i, g := range groups {
		if len(g) < 2 {
			return nil, errors.ValidationError("tukey requires at least 2 observations per group")
		}
		total += len(g)
		means[i] = meanOf(g)
		for _, v := range g {
			ssWithin += (v - means[i]) * (v - means[i])
		}
	}

	dfWithin := float64(total - k)
	if ssWithin == 0 {
		return nil, errors.ValidationError("tukey undefined with zero within-group variance")
	}
	mse := ssWithin / dfWithin

	var significant []TukeyPair
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			diff := means[i] - means[j]
			se := math.Sqrt(mse / 2 * (1/float64(len(groups[i])) + 1/float64(len(groups[j]))))
			q := math.Abs(diff) / se
			p := 1 - studentizedRangeCDF(q, k, dfWithin)
			if p < alpha {
				significant = append(significant, TukeyPair{
					GroupA:   names[i],
					GroupB:   names[j],
					MeanDiff: diff,
					Q:        q,
					PValue:   clamp01(p),
				})
			}
		}
	}
	return significant, nil
}

// studentizedRangeCDF evaluates P(Q <= q) for the studentized range of k
// groups with df error degrees of freedom by nested Gauss-Legendre
// quadrature over the scale mixture representation.
func studentizedRangeCDF(q float64, k int, df float64) float64 {
	if q <= 0 {
		return 0
	}

	// Density of s = sqrt(chi2_df / df), evaluated in log space; Lgamma
	// keeps large df from overflowing.
	lg, _ := math.Lgamma(df / 2)
	logConst := math.Ln2 + df/2*math.Log(df/2) - lg
	density := func(s float64) float64 {
		return math.Exp(logConst + (df-1)*math.Log(s) - df*s*s/2)
	}

	outer := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		return density(s) * rangeProbability(q*s, k)
	}

	// s concentrates around 1 with spread ~ 1/sqrt(2 df).
	spread := 8 / math.Sqrt(2*df)
	lo := math.Max(0, 1-spread)
	hi := 1 + spread
	return clamp01(quad.Fixed(outer, lo, hi, 64, nil, 0))
}

// rangeProbability is P(range of k unit normals <= w).
func rangeProbability(w float64, k int) float64 {
	if w <= 0 {
		return 0
	}
	inner := func(z float64) float64 {
		return distuv.UnitNormal.Prob(z) *
			math.Pow(distuv.UnitNormal.CDF(z)-distuv.UnitNormal.CDF(z-w), float64(k-1))
	}
	return clamp01(float64(k) * quad.Fixed(inner, -8, w+8, 128, nil, 0))
}
