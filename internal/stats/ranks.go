package stats

import "sort"

// rankAll assigns midranks to the concatenation of groups, preserving group
// boundaries, and returns the per-group ranks plus the tie-correction term
// sum(t^3 - t) over tie groups.
func rankAll(groups [][]float64) (ranks [][]float64, tieSum float64) {
	type obs struct {
		value float64
		group int
		index int
	}

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	all := make([]obs, 0, total)
	for gi, g := range groups {
		for i, v := range g {
			all = append(all, obs{value: v, group: gi, index: i})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	ranks = make([][]float64, len(groups))
	for gi, g := range groups {
		ranks[gi] = make([]float64, len(g))
	}

	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].value == all[i].value {
			j++
		}
		// Midrank for the tie run [i, j).
		rank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[all[k].group][all[k].index] = rank
		}
		if t := float64(j - i); t > 1 {
			tieSum += t*t*t - t
		}
		i = j
	}
	return ranks, tieSum
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}
