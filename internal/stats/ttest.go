package stats

import (
	"math"

	"morpho/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult reports a two-sided independent-samples t-test.
type TTestResult struct {
	T       float64 `json:"t"`
	DF      float64 `json:"df"`
	PValue  float64 `json:"p_value"`
	MeanA   float64 `json:"mean_a"`
	MeanB   float64 `json:"mean_b"`
	Pooled  bool    `json:"pooled"`
}

// IndependentTTest runs a two-sided t-test on two independent samples. With
// pooled set, variances are pooled (Student); otherwise the Welch
// approximation is used.
func IndependentTTest(a, b []float64, pooled bool) (TTestResult, error) {
	na, nb := float64(len(a)), float64(len(b))
	if na < 2 || nb < 2 {
		return TTestResult{}, errors.ValidationError("t-test requires at least 2 observations per group")
	}

	meanA, meanB := meanOf(a), meanOf(b)
	varA, varB := sampleVariance(a, meanA), sampleVariance(b, meanB)

	var t, df float64
	if pooled {
		sp2 := ((na-1)*varA + (nb-1)*varB) / (na + nb - 2)
		t = (meanA - meanB) / math.Sqrt(sp2*(1/na+1/nb))
		df = na + nb - 2
	} else {
		se2 := varA/na + varB/nb
		t = (meanA - meanB) / math.Sqrt(se2)
		df = se2 * se2 / ((varA/na)*(varA/na)/(na-1) + (varB/nb)*(varB/nb)/(nb-1))
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))

	return TTestResult{T: t, DF: df, PValue: clamp01(p), MeanA: meanA, MeanB: meanB, Pooled: pooled}, nil
}

func sampleVariance(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return ss / float64(len(values)-1)
}
