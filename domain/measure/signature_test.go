package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(experiment int, condition string, image int, params map[string]float64) MeasurementRecord {
	return MeasurementRecord{
		ExperimentIndex: experiment,
		Condition:       condition,
		ImageIndex:      image,
		Parameters:      params,
	}
}

func TestSignatureEquality(t *testing.T) {
	a := record(1, "GST", 2, map[string]float64{"Length": 1.5, "Width": 2.0})
	b := record(1, "GST", 2, map[string]float64{"Width": 2.0, "Length": 1.5})
	assert.Equal(t, Signature(a), Signature(b), "parameter order must not matter")
}

func TestSignatureDiffers(t *testing.T) {
	base := record(1, "GST", 2, map[string]float64{"Length": 1.5})
	cases := map[string]MeasurementRecord{
		"experiment": record(2, "GST", 2, map[string]float64{"Length": 1.5}),
		"condition":  record(1, "Control", 2, map[string]float64{"Length": 1.5}),
		"image":      record(1, "GST", 3, map[string]float64{"Length": 1.5}),
		"value":      record(1, "GST", 2, map[string]float64{"Length": 1.6}),
		"name":       record(1, "GST", 2, map[string]float64{"Width": 1.5}),
	}
	for field, rec := range cases {
		assert.NotEqual(t, Signature(base), Signature(rec), "changed %s must change signature", field)
	}
}

func TestSignatureIgnoresProvenance(t *testing.T) {
	a := record(1, "GST", 2, map[string]float64{"Length": 1.5})
	b := a
	b.OriginFile = "other.csv"
	b.OriginRow = 99
	assert.Equal(t, Signature(a), Signature(b))
}

func TestSignatureCache(t *testing.T) {
	cache := NewSignatureCache()
	rec := record(1, "GST", 2, map[string]float64{"Length": 1.5})

	assert.False(t, cache.Observe(rec), "first observation is not a duplicate")
	assert.True(t, cache.Observe(rec), "second observation is a duplicate")
	assert.Equal(t, 1, cache.Len())

	other := record(1, "GST", 3, map[string]float64{"Length": 1.5})
	assert.False(t, cache.Observe(other))
	assert.Equal(t, 2, cache.Len())
}
