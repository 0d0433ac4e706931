package analysis

import (
	"sort"

	"morpho/domain/measure"
	"morpho/internal/errors"
)

// DefaultImageAreaMicronSq is the per-image area assumed when none is
// configured: a 3.5021 um square field.
const DefaultImageAreaMicronSq = 3.5021 * 3.5021

// DensityConfig controls density calculations. When PixelSize and the image
// dimensions are all set, the image area is derived from them; otherwise
// ImageAreaMicronSq is used directly.
type DensityConfig struct {
	ImageAreaMicronSq float64 `json:"image_area_um2"`
	PixelSizeMicrons  float64 `json:"pixel_size,omitempty"`
	ImageWidthPixels  int     `json:"image_width,omitempty"`
	ImageHeightPixels int     `json:"image_height,omitempty"`
}

// ImageArea returns the effective per-image area in um2.
func (c DensityConfig) ImageArea() float64 {
	if c.PixelSizeMicrons > 0 && c.ImageWidthPixels > 0 && c.ImageHeightPixels > 0 {
		return float64(c.ImageWidthPixels) * float64(c.ImageHeightPixels) *
			c.PixelSizeMicrons * c.PixelSizeMicrons
	}
	if c.ImageAreaMicronSq > 0 {
		return c.ImageAreaMicronSq
	}
	return DefaultImageAreaMicronSq
}

// DensityResult reports the structure density of one image or image set.
type DensityResult struct {
	Count          int     `json:"count"`
	AreaMicronSq   float64 `json:"area_um2"`
	PerMicronSq    float64 `json:"density_per_um2"`
	PerMmSq        float64 `json:"density_per_mm2"`
	Per100MicronSq float64 `json:"density_per_100um2"`
	SourceFile     string  `json:"source_file,omitempty"`
	Condition      string  `json:"condition,omitempty"`
}

// DensityCalculator derives structure densities from counts.
type DensityCalculator struct {
	Config DensityConfig
}

// NewDensityCalculator creates a calculator; a zero config uses the default
// image area.
func NewDensityCalculator(config DensityConfig) *DensityCalculator {
	return &DensityCalculator{Config: config}
}

// Density computes densities for count structures spread over numImages
// images of the configured area.
func (c *DensityCalculator) Density(count, numImages int) DensityResult {
	if numImages < 1 {
		numImages = 1
	}
	return c.densityOverArea(count, c.Config.ImageArea()*float64(numImages))
}

func (c *DensityCalculator) densityOverArea(count int, areaMicronSq float64) DensityResult {
	perUm2 := 0.0
	if areaMicronSq > 0 {
		perUm2 = float64(count) / areaMicronSq
	}
	return DensityResult{
		Count:          count,
		AreaMicronSq:   areaMicronSq,
		PerMicronSq:    perUm2,
		PerMmSq:        perUm2 * 1e6,
		Per100MicronSq: perUm2 * 100,
	}
}

// ImageDensities counts stored structures per image and derives a density
// for each. A structure is one distinct origin row within an image.
func (c *DensityCalculator) ImageDensities(measurements []measure.Measurement) []DensityResult {
	type imageKey struct {
		file      string
		image     int
		condition string
	}
	structures := make(map[imageKey]map[int]struct{})
	var order []imageKey
	for _, m := range measurements {
		key := imageKey{file: m.OriginFile, image: m.ImageIndex, condition: m.Condition}
		rows, ok := structures[key]
		if !ok {
			rows = make(map[int]struct{})
			structures[key] = rows
			order = append(order, key)
		}
		rows[m.OriginRow] = struct{}{}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].file != order[j].file {
			return order[i].file < order[j].file
		}
		return order[i].image < order[j].image
	})

	out := make([]DensityResult, 0, len(order))
	for _, key := range order {
		r := c.densityOverArea(len(structures[key]), c.Config.ImageArea())
		r.SourceFile = key.file
		r.Condition = key.condition
		out = append(out, r)
	}
	return out
}

// areaToMicronSq maps supported units to um2.
var areaToMicronSq = map[string]float64{
	"um2": 1,
	"mm2": 1e6,
	"nm2": 1e-6,
}

// ConvertArea converts an area between um2, mm2 and nm2.
func ConvertArea(value float64, fromUnit, toUnit string) (float64, error) {
	from, ok := areaToMicronSq[fromUnit]
	if !ok {
		return 0, errors.ValidationError("unknown area unit: " + fromUnit)
	}
	to, ok := areaToMicronSq[toUnit]
	if !ok {
		return 0, errors.ValidationError("unknown area unit: " + toUnit)
	}
	return value * from / to, nil
}
