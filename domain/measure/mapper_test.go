package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSilentlyDropsUnknown(t *testing.T) {
	m := NewParameterMapper([]string{"Length", "Width"})
	m.Select("Length", "Height")

	assert.Equal(t, []string{"Length"}, m.AllParameters())
	assert.True(t, m.IsSelected("Length"))
	assert.False(t, m.IsSelected("Height"))
}

func TestAddCustomBypassesHeaderCheck(t *testing.T) {
	m := NewParameterMapper([]string{"Length"})
	m.AddCustom("Density")

	assert.True(t, m.IsSelected("Density"))
	assert.Equal(t, []string{"Density"}, m.CustomParameters())
	assert.Empty(t, m.StandardParameters())
}

func TestDeselectAndClear(t *testing.T) {
	m := NewParameterMapper([]string{"Length", "Width"})
	m.SelectAll()
	m.AddCustom("Density")
	require.Equal(t, 3, m.Count())

	m.Deselect("Width")
	assert.Equal(t, 2, m.Count())

	m.Clear()
	assert.Zero(t, m.Count())
	assert.Empty(t, m.CustomParameters())
}

func TestAliasIndependentOfSelection(t *testing.T) {
	m := NewParameterMapper([]string{"Neurite Length"})
	m.AddAlias("Neurite Length", "len")

	original, ok := m.Resolve("len")
	require.True(t, ok)
	assert.Equal(t, "Neurite Length", original)

	m.AddAlias("Unknown Column", "u")
	_, ok = m.Resolve("u")
	assert.False(t, ok, "alias for unknown original is ignored")
}

func TestMapperStateRoundTrip(t *testing.T) {
	m := NewParameterMapper([]string{"Length", "Width", "Area"})
	m.Select("Width", "Length")
	m.AddCustom("Density")
	m.AddAlias("Length", "len")

	restored := MapperFromState(m.ToState())

	assert.Equal(t, m.Headers(), restored.Headers(), "header order preserved")
	assert.Equal(t, m.AllParameters(), restored.AllParameters())
	assert.Equal(t, m.CustomParameters(), restored.CustomParameters())
	original, ok := restored.Resolve("len")
	require.True(t, ok)
	assert.Equal(t, "Length", original)
}
