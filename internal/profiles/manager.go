package profiles

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"morpho/domain/profile"
	"morpho/internal/errors"
)

// Manager stores analysis profiles as JSON files in one directory, one file
// per profile.
type Manager struct {
	dir string
}

// NewManager creates a manager over dir, creating it if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create profiles directory %s", dir)
	}
	return &Manager{dir: dir}, nil
}

// Save writes a profile to disk, stamping created/modified dates. Saving
// over an existing profile without overwrite fails with a PROFILE_EXISTS
// error so callers can offer overwrite-or-cancel.
func (m *Manager) Save(p *profile.Profile, overwrite bool) (string, error) {
	now := time.Now().Format(time.RFC3339)
	if p.CreatedDate == "" {
		p.CreatedDate = now
	}
	p.ModifiedDate = now

	path := m.path(p.Name)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", errors.ProfileExists(p.Name)
		}
	}

	data, err := p.ToJSON()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write profile %s", p.Name)
	}
	return path, nil
}

// Load reads a profile by name. A missing profile is a PROFILE_NOT_FOUND
// error, distinct from generic I/O failure.
func (m *Manager) Load(name string) (*profile.Profile, error) {
	data, err := os.ReadFile(m.path(name))
	if os.IsNotExist(err) {
		return nil, errors.ProfileNotFound(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read profile %s", name)
	}
	return profile.FromJSON(data)
}

// List returns the available profile names, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list profiles in %s", m.dir)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")
		names = append(names, strings.ReplaceAll(stem, "_", " "))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a profile. Missing profiles are a PROFILE_NOT_FOUND error.
func (m *Manager) Delete(name string) error {
	err := os.Remove(m.path(name))
	if os.IsNotExist(err) {
		return errors.ProfileNotFound(name)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to delete profile %s", name)
	}
	return nil
}

// Duplicate copies an existing profile under a new name with fresh
// timestamps.
func (m *Manager) Duplicate(sourceName, newName string) (*profile.Profile, error) {
	p, err := m.Load(sourceName)
	if err != nil {
		return nil, err
	}
	p.Name = newName
	p.CreatedDate = ""
	p.ModifiedDate = ""
	if _, err := m.Save(p, false); err != nil {
		return nil, err
	}
	return p, nil
}

// Exists reports whether a profile with the given name is stored.
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.path(name))
	return err == nil
}

// Export writes a profile to an arbitrary path outside the managed
// directory.
func (m *Manager) Export(name, outputPath string) error {
	p, err := m.Load(name)
	if err != nil {
		return err
	}
	data, err := p.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to export profile %s", name)
	}
	return nil
}

// Import reads a profile document from an arbitrary path and stores it,
// optionally under a new name.
func (m *Manager) Import(filePath, newName string, overwrite bool) (*profile.Profile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read profile file %s", filePath)
	}
	p, err := profile.FromJSON(data)
	if err != nil {
		return nil, err
	}
	if newName != "" {
		p.Name = newName
	}
	if _, err := m.Save(p, overwrite); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.dir, sanitizeName(name)+".json")
}

// sanitizeName maps a profile name to a filesystem-safe file stem.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		" ", "_", "/", "_", "\\", "_", ":", "_",
		"*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	return replacer.Replace(name)
}
