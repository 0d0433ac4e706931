package export

import (
	"testing"

	"morpho/domain/measure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measurement(condition, param string, value float64) measure.Measurement {
	return measure.Measurement{Condition: condition, Parameter: param, Value: value}
}

func TestGroupByParameterOrdering(t *testing.T) {
	measurements := []measure.Measurement{
		measurement("GST", "Width", 10),
		measurement("Control", "Length", 1),
		measurement("GST", "Length", 2),
		measurement("Control", "Length", 3),
	}

	data := GroupByParameter(measurements, nil)
	require.Len(t, data, 2)

	assert.Equal(t, "Length", data[0].Parameter, "parameters come out in name order")
	assert.Equal(t, "Width", data[1].Parameter)

	require.Len(t, data[0].Series, 2)
	assert.Equal(t, "Control", data[0].Series[0].Condition, "conditions in name order")
	assert.Equal(t, []float64{1, 3}, data[0].Series[0].Values, "values keep input order")
	assert.Equal(t, []float64{2}, data[0].Series[1].Values)
}

func TestGroupByParameterExplicitSelection(t *testing.T) {
	measurements := []measure.Measurement{
		measurement("GST", "Length", 1),
		measurement("GST", "Width", 2),
	}

	data := GroupByParameter(measurements, []string{"Width", "Length"})
	require.Len(t, data, 2)
	assert.Equal(t, "Width", data[0].Parameter, "explicit selection keeps its order")
	assert.Equal(t, "Length", data[1].Parameter)

	data = GroupByParameter(measurements, []string{"Length", "Absent"})
	require.Len(t, data, 1, "parameters without data are skipped")
	assert.Equal(t, "Length", data[0].Parameter)
}

func TestArtifactNamesAreUnique(t *testing.T) {
	a := artifactName("analysis", "xlsx")
	b := artifactName("analysis", "xlsx")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^analysis_\d{8}_\d{6}_[0-9a-f]{8}\.xlsx$`, a)
}
