package stats

import (
	"math"
	"sort"

	"morpho/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// ShapiroWilk computes the Shapiro-Wilk W statistic and its p-value using
// Royston's AS R94 approximation, valid for 3 <= n <= 5000. The p-value is
// for the upper tail: small p means the sample is unlikely to be normal.
func ShapiroWilk(values []float64) (w, p float64, err error) {
	n := len(values)
	if n < 3 {
		return 0, 0, errors.ValidationError("shapiro-wilk requires at least 3 observations")
	}

	x := append([]float64(nil), values...)
	sort.Float64s(x)
	if x[0] == x[n-1] {
		return 0, 0, errors.ValidationError("shapiro-wilk undefined for identical observations")
	}

	// Expected normal order statistics (Blom approximation).
	m := make([]float64, n)
	mm := 0.0
	for i := 0; i < n; i++ {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		mm += m[i] * m[i]
	}

	u := 1 / math.Sqrt(float64(n))
	a := make([]float64, n)
	an := m[n-1]/math.Sqrt(mm) + poly([]float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}, u)

	if n > 5 {
		an1 := m[n-2]/math.Sqrt(mm) + poly([]float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}, u)
		phi := (mm - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
		a[n-1], a[n-2] = an, an1
		a[0], a[1] = -an, -an1
		for i := 2; i < n-2; i++ {
			a[i] = m[i] / math.Sqrt(phi)
		}
	} else {
		phi := (mm - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
		a[n-1] = an
		a[0] = -an
		for i := 1; i < n-1; i++ {
			a[i] = m[i] / math.Sqrt(phi)
		}
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	var num, den float64
	for i, v := range x {
		num += a[i] * v
		den += (v - mean) * (v - mean)
	}
	w = num * num / den
	if w > 1 {
		w = 1
	}

	return w, shapiroPValue(w, n), nil
}

// shapiroPValue maps W to a p-value per Royston 1992: exact for n=3,
// normalizing transformations elsewhere.
func shapiroPValue(w float64, n int) float64 {
	switch {
	case n == 3:
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return clamp01(p)
	case n <= 11:
		fn := float64(n)
		gamma := -2.273 + 0.459*fn
		y := -math.Log(gamma - math.Log(1-w))
		mu := poly([]float64{0.5440, -0.39978, 0.025054, -0.0006714}, fn)
		sigma := math.Exp(poly([]float64{1.3822, -0.77857, 0.062767, -0.0020322}, fn))
		return clamp01(distuv.UnitNormal.Survival((y - mu) / sigma))
	default:
		ln := math.Log(float64(n))
		y := math.Log(1 - w)
		mu := poly([]float64{-1.5861, -0.31082, -0.083751, 0.0038915}, ln)
		sigma := math.Exp(poly([]float64{-0.4803, -0.082676, 0.0030302}, ln))
		return clamp01(distuv.UnitNormal.Survival((y - mu) / sigma))
	}
}

func poly(coef []float64, x float64) float64 {
	sum := 0.0
	for i := len(coef) - 1; i >= 0; i-- {
		sum = sum*x + coef[i]
	}
	return sum
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
