package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"morpho/domain/profile"
	"morpho/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "profiles"))
	require.NoError(t, err)
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := testManager(t)

	p := profile.Default("Tubule Screen")
	p.Alpha = 0.01
	p.SelectedConditions = []string{"GST", "Control"}

	path, err := m.Save(p, false)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.NotEmpty(t, p.CreatedDate)
	assert.NotEmpty(t, p.ModifiedDate)

	loaded, err := m.Load("Tubule Screen")
	require.NoError(t, err)
	assert.Equal(t, "Tubule Screen", loaded.Name)
	assert.Equal(t, 0.01, loaded.Alpha)
	assert.Equal(t, []string{"GST", "Control"}, loaded.SelectedConditions)
	assert.Equal(t, p.PlotTypes, loaded.PlotTypes)
}

func TestSaveRefusesOverwriteByDefault(t *testing.T) {
	m := testManager(t)

	_, err := m.Save(profile.Default("dup"), false)
	require.NoError(t, err)

	_, err = m.Save(profile.Default("dup"), false)
	require.Error(t, err)
	assert.Equal(t, errors.CodeProfileExists, errors.GetCode(err))

	_, err = m.Save(profile.Default("dup"), true)
	assert.NoError(t, err)
}

func TestLoadMissingProfile(t *testing.T) {
	m := testManager(t)
	_, err := m.Load("nope")
	require.Error(t, err)
	assert.Equal(t, errors.CodeProfileNotFound, errors.GetCode(err))
}

func TestListSortsAndRestoresSpaces(t *testing.T) {
	m := testManager(t)
	for _, name := range []string{"zeta", "My Screen", "alpha"} {
		_, err := m.Save(profile.Default(name), false)
		require.NoError(t, err)
	}

	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"My Screen", "alpha", "zeta"}, names)
}

func TestDeleteProfile(t *testing.T) {
	m := testManager(t)
	_, err := m.Save(profile.Default("gone"), false)
	require.NoError(t, err)

	require.NoError(t, m.Delete("gone"))
	assert.False(t, m.Exists("gone"))

	err = m.Delete("gone")
	require.Error(t, err)
	assert.Equal(t, errors.CodeProfileNotFound, errors.GetCode(err))
}

func TestDuplicateProfile(t *testing.T) {
	m := testManager(t)
	src := profile.Default("source")
	src.Alpha = 0.01
	_, err := m.Save(src, false)
	require.NoError(t, err)

	copied, err := m.Duplicate("source", "copy")
	require.NoError(t, err)
	assert.Equal(t, "copy", copied.Name)
	assert.Equal(t, 0.01, copied.Alpha)
	assert.True(t, m.Exists("copy"))

	_, err = m.Duplicate("source", "copy")
	require.Error(t, err)
	assert.Equal(t, errors.CodeProfileExists, errors.GetCode(err))
}

func TestExportImport(t *testing.T) {
	m := testManager(t)
	_, err := m.Save(profile.Default("travel"), false)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "travel.json")
	require.NoError(t, m.Export("travel", out))
	assert.FileExists(t, out)

	imported, err := m.Import(out, "travel renamed", false)
	require.NoError(t, err)
	assert.Equal(t, "travel renamed", imported.Name)
	assert.True(t, m.Exists("travel renamed"))
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	m := testManager(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))

	_, err := m.Import(bad, "", false)
	require.Error(t, err)
	assert.Equal(t, errors.CodeMalformedData, errors.GetCode(err))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a_b_c_d", sanitizeName("a b/c:d"))
}
