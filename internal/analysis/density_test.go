package analysis

import (
	"testing"

	"morpho/domain/measure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensityDefaults(t *testing.T) {
	calc := NewDensityCalculator(DensityConfig{})
	result := calc.Density(50, 1)

	assert.Equal(t, 50, result.Count)
	assert.InDelta(t, 12.2647, result.AreaMicronSq, 1e-3)
	assert.InDelta(t, 4.0767, result.PerMicronSq, 1e-3)
	assert.InDelta(t, result.PerMicronSq*1e6, result.PerMmSq, 1e-6)
	assert.InDelta(t, result.PerMicronSq*100, result.Per100MicronSq, 1e-9)
}

func TestDensityAreaFromPixels(t *testing.T) {
	calc := NewDensityCalculator(DensityConfig{
		PixelSizeMicrons:  2.0,
		ImageWidthPixels:  10,
		ImageHeightPixels: 10,
	})
	result := calc.Density(100, 1)
	assert.Equal(t, 400.0, result.AreaMicronSq)
	assert.Equal(t, 0.25, result.PerMicronSq)
}

func TestDensityMultipleImages(t *testing.T) {
	calc := NewDensityCalculator(DensityConfig{ImageAreaMicronSq: 10})
	result := calc.Density(30, 3)
	assert.Equal(t, 30.0, result.AreaMicronSq)
	assert.Equal(t, 1.0, result.PerMicronSq)
}

func TestImageDensitiesCountDistinctRows(t *testing.T) {
	calc := NewDensityCalculator(DensityConfig{ImageAreaMicronSq: 10})
	measurements := []measure.Measurement{
		// Two structures in image 1 (rows 2 and 3), each with two parameters.
		{Condition: "GST", OriginFile: "a.csv", ImageIndex: 1, OriginRow: 2, Parameter: "Length", Value: 1},
		{Condition: "GST", OriginFile: "a.csv", ImageIndex: 1, OriginRow: 2, Parameter: "Width", Value: 2},
		{Condition: "GST", OriginFile: "a.csv", ImageIndex: 1, OriginRow: 3, Parameter: "Length", Value: 3},
		// One structure in image 2.
		{Condition: "GST", OriginFile: "b.csv", ImageIndex: 2, OriginRow: 2, Parameter: "Length", Value: 4},
	}

	results := calc.ImageDensities(measurements)
	require.Len(t, results, 2)

	assert.Equal(t, "a.csv", results[0].SourceFile)
	assert.Equal(t, 2, results[0].Count, "parameter rows of one structure count once")
	assert.Equal(t, 0.2, results[0].PerMicronSq)
	assert.Equal(t, 1, results[1].Count)
}

func TestConvertArea(t *testing.T) {
	v, err := ConvertArea(2, "mm2", "um2")
	require.NoError(t, err)
	assert.Equal(t, 2e6, v)

	v, err = ConvertArea(5e5, "um2", "mm2")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	_, err = ConvertArea(1, "acre", "um2")
	assert.Error(t, err)
}
