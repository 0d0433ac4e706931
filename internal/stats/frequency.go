package stats

import (
	"math"
	"sort"

	"morpho/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// Bin is one fixed-width frequency bin, half-open [Lower, Upper).
type Bin struct {
	Lower        float64 `json:"lower"`
	Upper        float64 `json:"upper"`
	Count        int     `json:"count"`
	RelativeFreq float64 `json:"relative_freq"`
}

// Distribution is a fixed-width frequency distribution of one series.
type Distribution struct {
	Width float64 `json:"width"`
	Bins  []Bin   `json:"bins"`
}

// FrequencyDistribution bins values at fixed width starting at the observed
// minimum and running through the observed maximum plus one bin width.
func FrequencyDistribution(values []float64, width float64) (Distribution, error) {
	if width <= 0 {
		return Distribution{}, errors.ValidationError("bin width must be positive")
	}
	if len(values) == 0 {
		return Distribution{Width: width}, nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	nbins := int(math.Floor((max-min)/width)) + 1
	bins := make([]Bin, nbins)
	for i := range bins {
		bins[i].Lower = min + float64(i)*width
		bins[i].Upper = bins[i].Lower + width
	}

	for _, v := range values {
		idx := int(math.Floor((v - min) / width))
		if idx >= nbins {
			idx = nbins - 1
		}
		bins[idx].Count++
	}

	total := float64(len(values))
	for i := range bins {
		bins[i].RelativeFreq = float64(bins[i].Count) / total
	}
	return Distribution{Width: width, Bins: bins}, nil
}

// BinComparison is a per-bin chi-square test across conditions.
type BinComparison struct {
	Lower     float64        `json:"lower"`
	Upper     float64        `json:"upper"`
	Counts    map[string]int `json:"counts"`
	ChiSquare float64        `json:"chi_square"`
	PValue    float64        `json:"p_value"`
}

// CompareBins runs a chi-square test per aligned bin over the union of bin
// ranges from all conditions. A condition without that bin contributes a
// zero count.
func CompareBins(distributions map[string]Distribution) ([]BinComparison, error) {
	if len(distributions) < 2 {
		return nil, errors.ValidationError("bin comparison requires at least 2 conditions")
	}

	conditions := make([]string, 0, len(distributions))
	for name := range distributions {
		conditions = append(conditions, name)
	}
	sort.Strings(conditions)

	// Union of bin lower bounds across conditions.
	type span struct{ lower, upper float64 }
	union := make(map[float64]span)
	for _, dist := range distributions {
		for _, bin := range dist.Bins {
			union[bin.Lower] = span{bin.Lower, bin.Upper}
		}
	}
	lowers := make([]float64, 0, len(union))
	for l := range union {
		lowers = append(lowers, l)
	}
	sort.Float64s(lowers)

	dist := distuv.ChiSquared{K: float64(len(conditions) - 1)}
	out := make([]BinComparison, 0, len(lowers))
	for _, lower := range lowers {
		counts := make(map[string]int, len(conditions))
		total := 0
		for _, cond := range conditions {
			count := 0
			for _, bin := range distributions[cond].Bins {
				if bin.Lower == lower {
					count = bin.Count
					break
				}
			}
			counts[cond] = count
			total += count
		}

		cmp := BinComparison{Lower: lower, Upper: union[lower].upper, Counts: counts}
		if total == 0 {
			cmp.PValue = 1
		} else {
			expected := float64(total) / float64(len(conditions))
			chi2 := 0.0
			for _, cond := range conditions {
				d := float64(counts[cond]) - expected
				chi2 += d * d / expected
			}
			cmp.ChiSquare = chi2
			cmp.PValue = clamp01(dist.Survival(chi2))
		}
		out = append(out, cmp)
	}
	return out, nil
}
