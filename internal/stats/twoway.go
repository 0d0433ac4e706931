package stats

import (
	"morpho/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// Observation is one measurement tagged with two categorical factor levels.
type Observation struct {
	FactorA string
	FactorB string
	Value   float64
}

// TwoWayEffect reports one term of a two-way ANOVA.
type TwoWayEffect struct {
	F      float64 `json:"f"`
	DF     float64 `json:"df"`
	PValue float64 `json:"p_value"`
}

// TwoWayANOVAResult reports both main effects and the interaction.
type TwoWayANOVAResult struct {
	EffectA     TwoWayEffect `json:"effect_a"`
	EffectB     TwoWayEffect `json:"effect_b"`
	Interaction TwoWayEffect `json:"interaction"`
}

// TwoWayANOVA decomposes variance over two categorical factors and their
// interaction using cell means. Every factor-level combination must be
// observed at least twice.
func TwoWayANOVA(observations []Observation) (TwoWayANOVAResult, error) {
	if len(observations) == 0 {
		return TwoWayANOVAResult{}, errors.ValidationError("two-way anova requires observations")
	}

	type cellKey struct{ a, b string }
	cells := make(map[cellKey][]float64)
	byA := make(map[string][]float64)
	byB := make(map[string][]float64)
	var all []float64
	for _, obs := range observations {
		cells[cellKey{obs.FactorA, obs.FactorB}] = append(cells[cellKey{obs.FactorA, obs.FactorB}], obs.Value)
		byA[obs.FactorA] = append(byA[obs.FactorA], obs.Value)
		byB[obs.FactorB] = append(byB[obs.FactorB], obs.Value)
		all = append(all, obs.Value)
	}

	a, b := len(byA), len(byB)
	if a < 2 || b < 2 {
		return TwoWayANOVAResult{}, errors.ValidationError("two-way anova requires at least 2 levels per factor")
	}
	if len(cells) != a*b {
		return TwoWayANOVAResult{}, errors.ValidationError("two-way anova requires every factor combination to be observed")
	}
	for _, vals := range cells {
		if len(vals) < 2 {
			return TwoWayANOVAResult{}, errors.ValidationError("two-way anova requires at least 2 observations per cell")
		}
	}

	grand := meanOf(all)
	meansA := make(map[string]float64, a)
	for level, vals := range byA {
		meansA[level] = meanOf(vals)
	}
	meansB := make(map[string]float64, b)
	for level, vals := range byB {
		meansB[level] = meanOf(vals)
	}

	var ssA, ssB, ssAB, ssE float64
	for level, vals := range byA {
		d := meansA[level] - grand
		ssA += float64(len(vals)) * d * d
	}
	for level, vals := range byB {
		d := meansB[level] - grand
		ssB += float64(len(vals)) * d * d
	}
	for key, vals := range cells {
		cm := meanOf(vals)
		d := cm - meansA[key.a] - meansB[key.b] + grand
		ssAB += float64(len(vals)) * d * d
		for _, v := range vals {
			ssE += (v - cm) * (v - cm)
		}
	}

	dfA := float64(a - 1)
	dfB := float64(b - 1)
	dfAB := dfA * dfB
	dfE := float64(len(all) - a*b)
	if ssE == 0 || dfE <= 0 {
		return TwoWayANOVAResult{}, errors.ValidationError("two-way anova undefined with zero residual variance")
	}
	mse := ssE / dfE

	effect := func(ss, df float64) TwoWayEffect {
		f := (ss / df) / mse
		dist := distuv.F{D1: df, D2: dfE}
		return TwoWayEffect{F: f, DF: df, PValue: clamp01(dist.Survival(f))}
	}

	return TwoWayANOVAResult{
		EffectA:     effect(ssA, dfA),
		EffectB:     effect(ssB, dfB),
		Interaction: effect(ssAB, dfAB),
	}, nil
}
