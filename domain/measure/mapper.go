package measure

import (
	"sort"
)

// ParameterMapper manages which of a file set's columns are accepted for
// import. Selection is a permissive filter against the discovered headers;
// only AddCustom may introduce names with no backing column.
type ParameterMapper struct {
	headers  []string
	selected map[string]struct{}
	custom   map[string]struct{}
	aliases  map[string]string // alias -> original name
}

// NewParameterMapper creates a mapper over the headers discovered in the
// source files. Header order is preserved for serialization.
func NewParameterMapper(headers []string) *ParameterMapper {
	m := &ParameterMapper{
		headers:  append([]string(nil), headers...),
		selected: make(map[string]struct{}),
		custom:   make(map[string]struct{}),
		aliases:  make(map[string]string),
	}
	return m
}

// Select adds the given names to the selection. Names not present in the
// discovered headers are silently ignored.
func (m *ParameterMapper) Select(names ...string) *ParameterMapper {
	for _, name := range names {
		if m.hasHeader(name) {
			m.selected[name] = struct{}{}
		}
	}
	return m
}

// SelectAll selects every discovered header.
func (m *ParameterMapper) SelectAll() {
	for _, h := range m.headers {
		m.selected[h] = struct{}{}
	}
}

// Deselect removes a name from the selection.
func (m *ParameterMapper) Deselect(name string) {
	delete(m.selected, name)
	delete(m.custom, name)
}

// Clear removes all selected and custom parameters.
func (m *ParameterMapper) Clear() {
	m.selected = make(map[string]struct{})
	m.custom = make(map[string]struct{})
}

// AddCustom adds a parameter with no backing column, bypassing the header
// check. Custom parameters are filled by downstream computation.
func (m *ParameterMapper) AddCustom(name string) {
	m.custom[name] = struct{}{}
	m.selected[name] = struct{}{}
}

// AddAlias registers a short name for a parameter. The original must be a
// discovered header or a custom parameter; otherwise the alias is ignored.
// Aliases are independent of selection state.
func (m *ParameterMapper) AddAlias(original, alias string) {
	if _, ok := m.custom[original]; ok || m.hasHeader(original) {
		m.aliases[alias] = original
	}
}

// Resolve returns the original name for an alias, or ("", false).
func (m *ParameterMapper) Resolve(alias string) (string, bool) {
	original, ok := m.aliases[alias]
	return original, ok
}

// Headers returns the discovered header list in original order.
func (m *ParameterMapper) Headers() []string {
	return append([]string(nil), m.headers...)
}

// AllParameters returns every selected parameter (standard and custom),
// sorted.
func (m *ParameterMapper) AllParameters() []string {
	return sortedKeys(m.selected)
}

// StandardParameters returns the selected header-backed parameters, sorted.
func (m *ParameterMapper) StandardParameters() []string {
	standard := make(map[string]struct{})
	for name := range m.selected {
		if _, ok := m.custom[name]; !ok {
			standard[name] = struct{}{}
		}
	}
	return sortedKeys(standard)
}

// CustomParameters returns the custom parameters, sorted.
func (m *ParameterMapper) CustomParameters() []string {
	return sortedKeys(m.custom)
}

// IsSelected reports whether a parameter is currently selected.
func (m *ParameterMapper) IsSelected(name string) bool {
	_, ok := m.selected[name]
	return ok
}

// Count returns the number of selected parameters.
func (m *ParameterMapper) Count() int {
	return len(m.selected)
}

func (m *ParameterMapper) hasHeader(name string) bool {
	for _, h := range m.headers {
		if h == name {
			return true
		}
	}
	return false
}

// MapperState is the serialized form of a ParameterMapper.
type MapperState struct {
	AvailableHeaders   []string          `json:"available_headers"`
	SelectedParameters []string          `json:"selected_parameters"`
	CustomParameters   []string          `json:"custom_parameters"`
	ParameterAliases   map[string]string `json:"parameter_aliases"`
}

// ToState serializes the mapper. Header order is preserved; the two
// parameter lists carry set membership only.
func (m *ParameterMapper) ToState() MapperState {
	aliases := make(map[string]string, len(m.aliases))
	for alias, original := range m.aliases {
		aliases[alias] = original
	}
	return MapperState{
		AvailableHeaders:   m.Headers(),
		SelectedParameters: sortedKeys(m.selected),
		CustomParameters:   sortedKeys(m.custom),
		ParameterAliases:   aliases,
	}
}

// MapperFromState reconstructs a mapper from its serialized form.
func MapperFromState(state MapperState) *ParameterMapper {
	m := NewParameterMapper(state.AvailableHeaders)
	for _, name := range state.SelectedParameters {
		m.selected[name] = struct{}{}
	}
	for _, name := range state.CustomParameters {
		m.custom[name] = struct{}{}
		m.selected[name] = struct{}{}
	}
	for alias, original := range state.ParameterAliases {
		m.aliases[alias] = original
	}
	return m
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
