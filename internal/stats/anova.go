package stats

import (
	"morpho/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// ANOVAResult reports a one-way analysis of variance.
type ANOVAResult struct {
	F          float64 `json:"f"`
	DFBetween  float64 `json:"df_between"`
	DFWithin   float64 `json:"df_within"`
	PValue     float64 `json:"p_value"`
	EtaSquared float64 `json:"eta_squared"`
}

// OneWayANOVA runs a one-way ANOVA over two or more groups and reports the
// F statistic, p-value and eta-squared effect size.
func OneWayANOVA(groups [][]float64) (ANOVAResult, error) {
	k := len(groups)
	if k < 2 {
		return ANOVAResult{}, errors.ValidationError("anova requires at least 2 groups")
	}

	total := 0
	grand := 0.0
	for _, g := range groups {
		if len(g) < 2 {
			return ANOVAResult{}, errors.ValidationError("anova requires at least 2 observations per group")
		}
		total += len(g)
		grand += sum(g)
	}
	grand /= float64(total)

	var ssBetween, ssWithin float64
	for _, g := range groups {
		m := meanOf(g)
		ssBetween += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			ssWithin += (v - m) * (v - m)
		}
	}

	dfBetween := float64(k - 1)
	dfWithin := float64(total - k)
	if ssWithin == 0 {
		return ANOVAResult{}, errors.ValidationError("anova undefined with zero within-group variance")
	}

	f := (ssBetween / dfBetween) / (ssWithin / dfWithin)
	dist := distuv.F{D1: dfBetween, D2: dfWithin}
	p := dist.Survival(f)

	return ANOVAResult{
		F:          f,
		DFBetween:  dfBetween,
		DFWithin:   dfWithin,
		PValue:     clamp01(p),
		EtaSquared: ssBetween / (ssBetween + ssWithin),
	}, nil
}
