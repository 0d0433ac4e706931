package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics reported for one group.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	SEM    float64 `json:"sem"`
	SD     float64 `json:"sd"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Summarize computes point-in-time descriptives for a series. NaN fields for
// an empty series.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, SEM: nan, SD: nan, Median: nan, Min: nan, Max: nan, Q25: nan, Q75: nan}
	}

	data := mstats.Float64Data(values)
	mean, _ := data.Mean()
	median, _ := data.Median()
	min, _ := data.Min()
	max, _ := data.Max()
	q25, _ := mstats.Percentile(data, 25)
	q75, _ := mstats.Percentile(data, 75)

	sd := 0.0
	if n > 1 {
		sd, _ = mstats.StandardDeviationSample(data)
	}

	return Summary{
		N:      n,
		Mean:   mean,
		SEM:    sd / math.Sqrt(float64(n)),
		SD:     sd,
		Median: median,
		Min:    min,
		Max:    max,
		Q25:    q25,
		Q75:    q75,
	}
}
