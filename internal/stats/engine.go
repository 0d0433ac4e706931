package stats

import (
	"math"

	"morpho/internal/errors"
)

// DefaultAlpha is the significance threshold used when none is configured.
const DefaultAlpha = 0.05

// Engine runs hypothesis tests at a configured significance threshold. Test
// selection is deterministic for the same data and threshold.
type Engine struct {
	Alpha float64
}

// NewEngine creates an engine; a non-positive alpha falls back to the
// default.
func NewEngine(alpha float64) *Engine {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	return &Engine{Alpha: alpha}
}

// NormalityResult reports one group's Shapiro-Wilk outcome.
type NormalityResult struct {
	Normal bool    `json:"normal"`
	W      float64 `json:"w"`
	PValue float64 `json:"p_value"`
}

// TestNormality runs Shapiro-Wilk at the engine's alpha. Below 3
// observations the test is undefined: not normal, NaN p-value, no error.
func (e *Engine) TestNormality(values []float64) (bool, float64) {
	r := e.normality(values)
	return r.Normal, r.PValue
}

func (e *Engine) normality(values []float64) NormalityResult {
	if len(values) < 3 {
		return NormalityResult{Normal: false, W: math.NaN(), PValue: math.NaN()}
	}
	w, p, err := ShapiroWilk(values)
	if err != nil {
		return NormalityResult{Normal: false, W: math.NaN(), PValue: math.NaN()}
	}
	return NormalityResult{Normal: p > e.Alpha, W: w, PValue: p}
}

// Group is one named series entering a comparison.
type Group struct {
	Name   string
	Values []float64
}

// ComparisonResult carries the selected test, per-group normality and
// descriptives, and post-hoc results when the parametric multi-group path
// ran. Exactly one of the four test fields is populated.
type ComparisonResult struct {
	TestName    string                     `json:"test_name"`
	Parametric  bool                       `json:"parametric"`
	Statistic   float64                    `json:"statistic"`
	PValue      float64                    `json:"p_value"`
	Significant bool                       `json:"significant"`
	Alpha       float64                    `json:"alpha"`
	Normality   map[string]NormalityResult `json:"normality"`
	Summaries   map[string]Summary         `json:"summaries"`

	TTest         *TTestResult         `json:"t_test,omitempty"`
	MannWhitney   *MannWhitneyResult   `json:"mann_whitney,omitempty"`
	ANOVA         *ANOVAResult         `json:"anova,omitempty"`
	KruskalWallis *KruskalWallisResult `json:"kruskal_wallis,omitempty"`
	Tukey         []TukeyPair          `json:"tukey,omitempty"`
}

// Compare selects and runs the appropriate test for the given groups. Two
// groups take the t-test when both pass normality at alpha, Mann-Whitney U
// otherwise. Three or more take one-way ANOVA with Tukey post-hoc when all
// pass normality, Kruskal-Wallis otherwise.
func (e *Engine) Compare(groups []Group) (*ComparisonResult, error) {
	if len(groups) < 2 {
		return nil, errors.ValidationError("comparison requires at least 2 groups")
	}

	result := &ComparisonResult{
		Alpha:     e.Alpha,
		Normality: make(map[string]NormalityResult, len(groups)),
		Summaries: make(map[string]Summary, len(groups)),
	}

	names := make([]string, len(groups))
	values := make([][]float64, len(groups))
	allNormal := true
	for i, g := range groups {
		names[i] = g.Name
		values[i] = g.Values
		nr := e.normality(g.Values)
		result.Normality[g.Name] = nr
		result.Summaries[g.Name] = Summarize(g.Values)
		if !nr.Normal {
			allNormal = false
		}
	}

	switch {
	case len(groups) == 2 && allNormal:
		tt, err := IndependentTTest(values[0], values[1], true)
		if err != nil {
			return nil, err
		}
		result.TestName = "t-test"
		result.Parametric = true
		result.Statistic = tt.T
		result.PValue = tt.PValue
		result.TTest = &tt

	case len(groups) == 2:
		mw, err := MannWhitney(values[0], values[1])
		if err != nil {
			return nil, err
		}
		result.TestName = "mann-whitney-u"
		result.Statistic = mw.U
		result.PValue = mw.PValue
		result.MannWhitney = &mw

	case allNormal:
		av, err := OneWayANOVA(values)
		if err != nil {
			return nil, err
		}
		result.TestName = "one-way-anova"
		result.Parametric = true
		result.Statistic = av.F
		result.PValue = av.PValue
		result.ANOVA = &av

		// Post-hoc runs regardless of the omnibus outcome; the caller
		// decides whether to consult it.
		tukey, err := TukeyHSD(names, values, e.Alpha)
		if err != nil {
			return nil, err
		}
		result.Tukey = tukey

	default:
		kw, err := KruskalWallis(values)
		if err != nil {
			return nil, err
		}
		result.TestName = "kruskal-wallis"
		result.Statistic = kw.H
		result.PValue = kw.PValue
		result.KruskalWallis = &kw
	}

	result.Significant = result.PValue < e.Alpha
	return result, nil
}
