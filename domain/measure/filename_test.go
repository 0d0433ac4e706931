package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileName(t *testing.T) {
	desc, ok := ParseFileName("/data/003_GST_010L.json")
	require.True(t, ok)
	assert.Equal(t, 3, desc.ExperimentIndex)
	assert.Equal(t, "GST", desc.Condition)
	assert.Equal(t, 10, desc.ImageIndex)
	assert.Equal(t, "L", desc.DatasetMarker)
	assert.Equal(t, FormatJSON, desc.Format)
}

func TestParseFileNameWithoutMarker(t *testing.T) {
	desc, ok := ParseFileName("001_Control_005.csv")
	require.True(t, ok)
	assert.Equal(t, 1, desc.ExperimentIndex)
	assert.Equal(t, "Control", desc.Condition)
	assert.Equal(t, 5, desc.ImageIndex)
	assert.Empty(t, desc.DatasetMarker)
	assert.Equal(t, FormatCSV, desc.Format)
}

func TestParseFileNameRejectsNonConventional(t *testing.T) {
	cases := []string{
		"005_Invalid.txt",
		"notes.csv",
		"1_2_3.csv",
		"001_Control_005X.csv",
		"001_Control_005.docx",
	}
	for _, name := range cases {
		_, ok := ParseFileName(name)
		assert.False(t, ok, "expected %s to be rejected", name)
	}
}

func TestFormatForExtension(t *testing.T) {
	format, ok := FormatForExtension(".XLSX")
	require.True(t, ok)
	assert.Equal(t, FormatXLSX, format)

	format, ok = FormatForExtension("xls")
	require.True(t, ok)
	assert.Equal(t, FormatXLS, format)

	_, ok = FormatForExtension(".txt")
	assert.False(t, ok)
}
