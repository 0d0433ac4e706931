package analysis

import (
	"math"
	"sort"

	"morpho/domain/measure"
)

// FileRank is one file's distance to its condition centroid. Rank 1 is the
// most representative file (closest to the centroid).
type FileRank struct {
	File     string             `json:"file"`
	Distance float64            `json:"distance"`
	Rank     int                `json:"rank"`
	Vector   map[string]float64 `json:"vector"`
}

// RepresentativeFiles ranks each condition's files by Euclidean distance
// between the file's per-parameter mean vector and the condition centroid.
// A parameter absent for a file contributes zero to that file's vector, not
// an omission. Inherited behavior; it can distort distances for sparse
// files.
func RepresentativeFiles(measurements []measure.Measurement, parameters []string) map[string][]FileRank {
	if len(parameters) == 0 {
		parameters = distinctParameters(measurements)
	}

	type sums struct {
		total map[string]float64
		count map[string]int
	}
	newSums := func() *sums {
		return &sums{total: make(map[string]float64), count: make(map[string]int)}
	}

	conditionSums := make(map[string]*sums)
	fileSums := make(map[string]map[string]*sums)
	fileOrder := make(map[string][]string)
	for _, m := range measurements {
		cs, ok := conditionSums[m.Condition]
		if !ok {
			cs = newSums()
			conditionSums[m.Condition] = cs
			fileSums[m.Condition] = make(map[string]*sums)
		}
		cs.total[m.Parameter] += m.Value
		cs.count[m.Parameter]++

		fs, ok := fileSums[m.Condition][m.OriginFile]
		if !ok {
			fs = newSums()
			fileSums[m.Condition][m.OriginFile] = fs
			fileOrder[m.Condition] = append(fileOrder[m.Condition], m.OriginFile)
		}
		fs.total[m.Parameter] += m.Value
		fs.count[m.Parameter]++
	}

	meanVector := func(s *sums) map[string]float64 {
		vec := make(map[string]float64, len(parameters))
		for _, p := range parameters {
			if s.count[p] > 0 {
				vec[p] = s.total[p] / float64(s.count[p])
			} else {
				vec[p] = 0
			}
		}
		return vec
	}

	out := make(map[string][]FileRank, len(conditionSums))
	for condition, cs := range conditionSums {
		centroid := meanVector(cs)

		ranks := make([]FileRank, 0, len(fileOrder[condition]))
		for _, file := range fileOrder[condition] {
			vec := meanVector(fileSums[condition][file])
			var ss float64
			for _, p := range parameters {
				d := vec[p] - centroid[p]
				ss += d * d
			}
			ranks = append(ranks, FileRank{File: file, Distance: math.Sqrt(ss), Vector: vec})
		}

		// Ties keep input order.
		sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Distance < ranks[j].Distance })
		for i := range ranks {
			ranks[i].Rank = i + 1
		}
		out[condition] = ranks
	}
	return out
}

func distinctParameters(measurements []measure.Measurement) []string {
	set := make(map[string]struct{})
	for _, m := range measurements {
		set[m.Parameter] = struct{}{}
	}
	params := make([]string, 0, len(set))
	for p := range set {
		params = append(params, p)
	}
	sort.Strings(params)
	return params
}
