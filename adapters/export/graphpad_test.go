package export

import (
	"encoding/xml"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphPadExport(t *testing.T) {
	data := []ParameterData{
		{
			Parameter: "Tubule Length",
			Series: []ConditionSeries{
				{Condition: "Control", Values: []float64{1.5, 2.5}},
				{Condition: "GST", Values: []float64{3.25}},
				{Condition: "Empty", Values: nil},
			},
		},
		{Parameter: "No Data"},
	}

	path, err := NewGraphPadExporter(nil).Export(t.TempDir(), data)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Regexp(t, `\.pzfx$`, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc prismFile
	require.NoError(t, xml.Unmarshal(raw, &doc))

	assert.Equal(t, "http://graphpad.com/prism/Prism.htm", doc.Xmlns)
	assert.Equal(t, "5.00", doc.PrismXMLVersion)

	require.Len(t, doc.Tables, 1, "parameters without series are skipped")
	table := doc.Tables[0]
	assert.Equal(t, "Table_Tubule_Length", table.ID)
	assert.Equal(t, "OneWay", table.TableType)
	assert.Equal(t, "Tubule Length", table.Title)

	require.Len(t, table.YColumns, 2, "empty conditions are skipped")
	assert.Equal(t, "Control", table.YColumns[0].Title)
	// One Subcolumn element per value.
	require.Len(t, table.YColumns[0].Values, 2)
	assert.Equal(t, "1.5", table.YColumns[0].Values[0].D)
	assert.Equal(t, "2.5", table.YColumns[0].Values[1].D)
	assert.Equal(t, "3.25", table.YColumns[1].Values[0].D)
}
