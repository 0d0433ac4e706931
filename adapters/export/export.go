package export

import (
	"fmt"
	"sort"
	"time"

	"morpho/domain/measure"

	"github.com/google/uuid"
)

// ConditionSeries is one condition's values for a single parameter.
type ConditionSeries struct {
	Condition string
	Values    []float64
}

// ParameterData groups measurement values by condition for one parameter.
type ParameterData struct {
	Parameter string
	Series    []ConditionSeries
}

// GroupByParameter reshapes stored measurements into per-parameter,
// per-condition series. Parameters and conditions come out in name order;
// values keep store order within each series.
func GroupByParameter(measurements []measure.Measurement, parameters []string) []ParameterData {
	byParam := make(map[string]map[string][]float64)
	for _, m := range measurements {
		if byParam[m.Parameter] == nil {
			byParam[m.Parameter] = make(map[string][]float64)
		}
		byParam[m.Parameter][m.Condition] = append(byParam[m.Parameter][m.Condition], m.Value)
	}

	if len(parameters) == 0 {
		for p := range byParam {
			parameters = append(parameters, p)
		}
		sort.Strings(parameters)
	}

	out := make([]ParameterData, 0, len(parameters))
	for _, param := range parameters {
		conditions, ok := byParam[param]
		if !ok {
			continue
		}
		names := make([]string, 0, len(conditions))
		for c := range conditions {
			names = append(names, c)
		}
		sort.Strings(names)

		pd := ParameterData{Parameter: param}
		for _, c := range names {
			pd.Series = append(pd.Series, ConditionSeries{Condition: c, Values: conditions[c]})
		}
		out = append(out, pd)
	}
	return out
}

// artifactName builds a collision-safe output file name carrying a
// timestamp and a short run tag.
func artifactName(prefix, ext string) string {
	stamp := time.Now().Format("20060102_150405")
	tag := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%s_%s.%s", prefix, stamp, tag, ext)
}
