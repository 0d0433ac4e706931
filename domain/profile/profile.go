package profile

import (
	"encoding/json"

	"morpho/domain/measure"
	"morpho/internal/errors"
)

// PlotConfig is the per-condition styling applied to generated plots.
type PlotConfig struct {
	// Colors maps condition name to a hex color like "#1f77b4".
	Colors map[string]string `json:"colors,omitempty"`
	// DisplayNames maps condition name to the label drawn on plots.
	DisplayNames map[string]string `json:"display_names,omitempty"`
	// ConditionOrder fixes the left-to-right order; unlisted conditions
	// follow in name order.
	ConditionOrder []string `json:"condition_order,omitempty"`
	YMin           *float64 `json:"y_min,omitempty"`
	YMax           *float64 `json:"y_max,omitempty"`
}

// Profile is a complete, reproducible pipeline configuration: import
// selection, plot styling, export toggles, statistics and density settings.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Import settings.
	ImportHeaders    []string `json:"import_headers"`
	ImportParameters []string `json:"import_parameters"`
	CustomParameters []string `json:"custom_parameters"`
	SupportedFormats []string `json:"supported_formats"`

	// Plot settings.
	PlotConfig      PlotConfig `json:"plot_config"`
	ShowScatterDots bool       `json:"show_scatter_dots"`
	ScatterAlpha    float64    `json:"scatter_alpha"`
	ScatterSize     int        `json:"scatter_size"`
	ScatterJitter   float64    `json:"scatter_jitter"`

	// Export settings.
	ExportExcel            bool     `json:"export_excel"`
	ExportGraphPad         bool     `json:"export_graphpad"`
	ExportCSV              bool     `json:"export_csv"`
	ExportStatisticsTables bool     `json:"export_statistics_tables"`
	ExportPlots            bool     `json:"export_plots"`
	PlotDPI                int      `json:"plot_dpi"`
	PlotFormats            []string `json:"plot_formats"`
	ExportParameters       []string `json:"export_parameters,omitempty"`

	// Plot type toggles.
	PlotTypes map[string]bool `json:"plot_types"`

	// Condition selection; nil means all conditions.
	SelectedConditions []string `json:"selected_conditions,omitempty"`

	// Statistics settings.
	Alpha         float64 `json:"alpha"`
	NormalityTest bool    `json:"normality_test"`
	PostHocTest   string  `json:"post_hoc_test"`

	// Frequency distribution settings.
	FrequencyBinWidth float64 `json:"frequency_bin_size"`
	FrequencyBinCount int     `json:"frequency_bin_count"`

	// Density calculation settings.
	CalculateDensity  bool    `json:"calculate_density"`
	ImageAreaMicronSq float64 `json:"image_area_um2"`

	// Dataset split: marker letter to display name.
	DatasetSplit map[string]string `json:"dataset_split"`

	// Metadata.
	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date,omitempty"`
	Version      string `json:"version"`
}

// Default returns a profile with standard settings.
func Default(name string) *Profile {
	return &Profile{
		Name:                   name,
		Description:            "Default analysis profile with standard settings",
		SupportedFormats:       []string{"xls", "xlsx", "csv", "json"},
		ShowScatterDots:        true,
		ScatterAlpha:           0.6,
		ScatterSize:            30,
		ScatterJitter:          0.1,
		ExportExcel:            true,
		ExportStatisticsTables: true,
		ExportPlots:            true,
		PlotDPI:                800,
		PlotFormats:            []string{"png", "tif"},
		PlotTypes: map[string]bool{
			"barplot_relative":   true,
			"barplot_total":      true,
			"boxplot_relative":   true,
			"boxplot_total":      true,
			"frequency_count":    true,
			"frequency_relative": true,
		},
		Alpha:             0.05,
		NormalityTest:     true,
		PostHocTest:       "tukey",
		FrequencyBinWidth: 10.0,
		FrequencyBinCount: 250,
		ImageAreaMicronSq: 12.2647,
		DatasetSplit:      map[string]string{"L": "Liposome", "T": "Tubule"},
		Version:           "1.0",
	}
}

// ToJSON serializes the profile as indented JSON.
func (p *Profile) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize profile %s", p.Name)
	}
	return data, nil
}

// FromJSON parses a profile document. Unknown keys are ignored for
// compatibility across versions.
func FromJSON(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.WithCode(errors.CodeMalformedData,
			errors.Wrap(err, "failed to parse profile"))
	}
	return &p, nil
}

// ApplyMapper records a mapper's selection state in the profile.
func (p *Profile) ApplyMapper(m *measure.ParameterMapper) {
	state := m.ToState()
	p.ImportHeaders = state.AvailableHeaders
	p.ImportParameters = state.SelectedParameters
	p.CustomParameters = state.CustomParameters
}

// Mapper reconstructs the parameter mapper the profile describes.
func (p *Profile) Mapper() *measure.ParameterMapper {
	return measure.MapperFromState(measure.MapperState{
		AvailableHeaders:   p.ImportHeaders,
		SelectedParameters: p.ImportParameters,
		CustomParameters:   p.CustomParameters,
	})
}

// IsConditionSelected reports whether a condition takes part in analysis.
// A nil selection means every condition is selected.
func (p *Profile) IsConditionSelected(condition string) bool {
	if p.SelectedConditions == nil {
		return true
	}
	for _, c := range p.SelectedConditions {
		if c == condition {
			return true
		}
	}
	return false
}

// ActivePlotTypes lists the enabled plot types in name order.
func (p *Profile) ActivePlotTypes() []string {
	var active []string
	for _, pt := range []string{
		"barplot_relative", "barplot_total",
		"boxplot_relative", "boxplot_total",
		"frequency_count", "frequency_relative",
	} {
		if p.PlotTypes[pt] {
			active = append(active, pt)
		}
	}
	return active
}
