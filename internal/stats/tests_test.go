package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndependentTTestPooled(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}

	result, err := IndependentTTest(a, b, true)
	require.NoError(t, err)

	assert.InDelta(t, -1.0, result.T, 1e-9)
	assert.Equal(t, 8.0, result.DF)
	assert.InDelta(t, 0.3466, result.PValue, 5e-3)
	assert.Equal(t, 3.0, result.MeanA)
	assert.Equal(t, 4.0, result.MeanB)
}

func TestIndependentTTestWelchDF(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 30, 50, 70, 90}

	result, err := IndependentTTest(a, b, false)
	require.NoError(t, err)
	assert.Less(t, result.DF, 8.0, "welch df shrinks under unequal variances")
	assert.Less(t, result.PValue, 0.05)
}

func TestMannWhitneyCompleteSeparation(t *testing.T) {
	result, err := MannWhitney([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.U)
	assert.InDelta(t, 0.0809, result.PValue, 5e-3)
}

func TestMannWhitneyAllTied(t *testing.T) {
	result, err := MannWhitney([]float64{2, 2}, []float64{2, 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.PValue)
}

func TestOneWayANOVAKnownValues(t *testing.T) {
	groups := [][]float64{
		{1, 2, 3},
		{2, 3, 4},
		{3, 4, 5},
	}
	result, err := OneWayANOVA(groups)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, result.F, 1e-9)
	assert.Equal(t, 2.0, result.DFBetween)
	assert.Equal(t, 6.0, result.DFWithin)
	assert.InDelta(t, 0.5, result.EtaSquared, 1e-9)
	assert.InDelta(t, 0.125, result.PValue, 5e-3)
}

func TestKruskalWallis(t *testing.T) {
	result, err := KruskalWallis([][]float64{
		{1, 2, 3, 4},
		{10, 11, 12, 13},
		{20, 21, 22, 23},
	})
	require.NoError(t, err)
	assert.Greater(t, result.H, 0.0)
	assert.Equal(t, 2.0, result.DF)
	assert.Less(t, result.PValue, 0.05)
}

func TestTukeyReturnsOnlySignificantPairs(t *testing.T) {
	names := []string{"A", "B", "C"}
	groups := [][]float64{
		{1.0, 1.1, 0.9, 1.05, 0.95},
		{1.0, 1.05, 0.95, 1.1, 0.9},
		{9.0, 9.1, 8.9, 9.05, 8.95},
	}

	pairs, err := TukeyHSD(names, groups, 0.05)
	require.NoError(t, err)
	require.NotEmpty(t, pairs)

	for _, pair := range pairs {
		assert.Less(t, pair.PValue, 0.05, "non-significant pairs are dropped")
		assert.NotEqual(t, [2]string{"A", "B"}, [2]string{pair.GroupA, pair.GroupB},
			"the two identical groups must not appear")
	}
}

func TestStudentizedRangeCDFBounds(t *testing.T) {
	assert.Equal(t, 0.0, studentizedRangeCDF(0, 3, 10))
	p := studentizedRangeCDF(3.5, 3, 12)
	assert.Greater(t, p, 0.8)
	assert.LessOrEqual(t, p, 1.0)
	assert.Less(t, studentizedRangeCDF(0.5, 3, 12), p, "cdf is monotone in q")
}

func TestTwoWayANOVA(t *testing.T) {
	var obs []Observation
	add := func(a, b string, values ...float64) {
		for _, v := range values {
			obs = append(obs, Observation{FactorA: a, FactorB: b, Value: v})
		}
	}
	// Strong effect of factor A, none of factor B.
	add("ctl", "L", 1.0, 1.2, 0.8)
	add("ctl", "T", 1.1, 0.9, 1.0)
	add("gst", "L", 5.0, 5.2, 4.8)
	add("gst", "T", 5.1, 4.9, 5.0)

	result, err := TwoWayANOVA(obs)
	require.NoError(t, err)

	assert.Less(t, result.EffectA.PValue, 0.01)
	assert.Greater(t, result.EffectB.PValue, 0.5)
	assert.Greater(t, result.Interaction.PValue, 0.5)
	assert.Equal(t, 1.0, result.EffectA.DF)
	assert.Equal(t, 1.0, result.Interaction.DF)
}

func TestTwoWayANOVARequiresFullDesign(t *testing.T) {
	_, err := TwoWayANOVA([]Observation{
		{FactorA: "a1", FactorB: "b1", Value: 1},
		{FactorA: "a1", FactorB: "b1", Value: 2},
		{FactorA: "a2", FactorB: "b2", Value: 3},
		{FactorA: "a2", FactorB: "b2", Value: 4},
	})
	assert.Error(t, err, "missing factor combinations are rejected")
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4, 5})

	assert.Equal(t, 5, s.N)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 1.5811, s.SD, 1e-4)
	assert.InDelta(t, 0.7071, s.SEM, 1e-4)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.N)
	assert.NotEqual(t, s.Mean, s.Mean, "mean is NaN for an empty series")
}

func TestShapiroWilkKnownBehavior(t *testing.T) {
	w, p, err := ShapiroWilk([]float64{4.1, 5.2, 4.8, 5.5, 4.9, 5.1, 4.7, 5.3, 5.0, 4.6})
	require.NoError(t, err)
	assert.Greater(t, w, 0.9)
	assert.Greater(t, p, 0.05)

	_, p, err = ShapiroWilk([]float64{1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7, 1.8, 20.0})
	require.NoError(t, err)
	assert.Less(t, p, 0.01)
}

func TestShapiroWilkErrors(t *testing.T) {
	_, _, err := ShapiroWilk([]float64{1, 2})
	assert.Error(t, err)

	_, _, err = ShapiroWilk([]float64{3, 3, 3, 3})
	assert.Error(t, err, "identical observations are undefined")
}
