package analysis

import (
	"testing"

	"morpho/domain/measure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func m(condition, file, param string, value float64) measure.Measurement {
	return measure.Measurement{
		Condition:  condition,
		OriginFile: file,
		Parameter:  param,
		Value:      value,
	}
}

func TestRepresentativeFileAtCentroidGetsRankOne(t *testing.T) {
	// Three files; b's means equal the condition centroid exactly.
	measurements := []measure.Measurement{
		m("GST", "a.csv", "Length", 1), m("GST", "a.csv", "Width", 10),
		m("GST", "b.csv", "Length", 2), m("GST", "b.csv", "Width", 20),
		m("GST", "c.csv", "Length", 3), m("GST", "c.csv", "Width", 30),
	}

	ranked := RepresentativeFiles(measurements, []string{"Length", "Width"})
	require.Contains(t, ranked, "GST")
	files := ranked["GST"]
	require.Len(t, files, 3)

	assert.Equal(t, "b.csv", files[0].File)
	assert.Equal(t, 1, files[0].Rank)
	assert.Zero(t, files[0].Distance)
	assert.Equal(t, 2, files[1].Rank)
	assert.Equal(t, 3, files[2].Rank)
}

func TestRepresentativeMissingParameterContributesZero(t *testing.T) {
	measurements := []measure.Measurement{
		m("GST", "full.csv", "Length", 4), m("GST", "full.csv", "Width", 4),
		m("GST", "sparse.csv", "Length", 4),
	}

	ranked := RepresentativeFiles(measurements, []string{"Length", "Width"})
	files := ranked["GST"]
	require.Len(t, files, 2)

	byName := map[string]FileRank{}
	for _, f := range files {
		byName[f.File] = f
	}
	assert.Zero(t, byName["sparse.csv"].Vector["Width"], "absent parameter is substituted with zero")
	assert.Greater(t, byName["sparse.csv"].Distance, byName["full.csv"].Distance)
}

func TestRepresentativeConditionsAreIndependent(t *testing.T) {
	measurements := []measure.Measurement{
		m("GST", "a.csv", "Length", 1),
		m("Control", "b.csv", "Length", 100),
	}

	ranked := RepresentativeFiles(measurements, nil)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked["GST"][0].Rank)
	assert.Equal(t, 1, ranked["Control"][0].Rank)
	assert.Zero(t, ranked["Control"][0].Distance, "single file equals its own centroid")
}
