package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ============================================================================
// SCHEMA — Column catalog for the income-share / life-expectancy dataset
// ============================================================================
// The CSV loader resolves headers against this catalog; views read display
// names and units from it for axis labels, legends and tooltips.
// Measure keys match engine.Metric values.
// ============================================================================

// ErrMissingColumn is returned (wrapped) when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures" yaml:"measures"`
}

// DimensionMeta describes a string (or integer) identifying field.
type DimensionMeta struct {
	Key         string `json:"key" yaml:"key"`
	Column      string `json:"column" yaml:"column"` // header as it appears in the file
	DisplayName string `json:"displayName" yaml:"displayName"`
	Required    bool   `json:"required" yaml:"required"`
	IsTemporal  bool   `json:"isTemporal,omitempty" yaml:"isTemporal,omitempty"`
	IsJoinKey   bool   `json:"isJoinKey,omitempty" yaml:"isJoinKey,omitempty"` // matches boundary feature ids
}

// MeasureMeta describes a numeric field.
type MeasureMeta struct {
	Key         string `json:"key" yaml:"key"`
	Column      string `json:"column" yaml:"column"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Unit        string `json:"unit,omitempty" yaml:"unit,omitempty"` // "percent", "years"
	Required    bool   `json:"required" yaml:"required"`
}

// DefaultDimension creates a required DimensionMeta.
func DefaultDimension(key, column string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		Column:      column,
		DisplayName: toDisplayName(column),
		Required:    true,
	}
}

// DefaultMeasure creates a required MeasureMeta.
func DefaultMeasure(key, column, unit string) MeasureMeta {
	return MeasureMeta{
		Key:         key,
		Column:      column,
		DisplayName: toDisplayName(column),
		Unit:        unit,
		Required:    true,
	}
}

// Default returns the catalog for the merged income-share + life-expectancy
// CSV (Entity, Code, Year, Richest 1%, Next 9%, Middle 40%, Poorest 50%,
// Life expectancy).
func Default() Config {
	entity := DefaultDimension("entity", "Entity")
	code := DefaultDimension("code", "Code")
	code.IsJoinKey = true
	code.DisplayName = "ISO Code"
	year := DefaultDimension("year", "Year")
	year.IsTemporal = true

	life := DefaultMeasure("life_expectancy", "Life expectancy", "years")
	life.DisplayName = "Life Expectancy"

	return Config{
		Name:        "income-share-life-expectancy",
		Description: "Pre-tax national income shares (WID) joined with period life expectancy",
		Dimensions:  []DimensionMeta{entity, code, year},
		Measures: []MeasureMeta{
			DefaultMeasure("richest_1", "Richest 1%", "percent"),
			DefaultMeasure("next_9", "Next 9%", "percent"),
			DefaultMeasure("middle_40", "Middle 40%", "percent"),
			DefaultMeasure("poorest_50", "Poorest 50%", "percent"),
			life,
		},
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// MeasureByKey looks up a measure.
func (c Config) MeasureByKey(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// AxisLabel returns the axis/legend caption for a measure:
// "Poorest 50% (% of national income)" or "Life Expectancy (years)".
func (c Config) AxisLabel(key string) string {
	m, ok := c.MeasureByKey(key)
	if !ok {
		return toDisplayName(key)
	}
	switch m.Unit {
	case "percent":
		return m.DisplayName + " (% of national income)"
	case "":
		return m.DisplayName
	default:
		return fmt.Sprintf("%s (%s)", m.DisplayName, m.Unit)
	}
}

// ============================================================================
// HEADER RESOLUTION
// ============================================================================

// Columns maps catalog keys to CSV column positions.
type Columns map[string]int

// Index returns the column position for key, or -1.
func (c Columns) Index(key string) int {
	if i, ok := c[key]; ok {
		return i
	}
	return -1
}

// Resolve matches headers against the catalog. A header matches when it
// equals the entry's Column (case-insensitive, trimmed) or when both
// normalise to the same snake_case key. Unknown headers are ignored.
// Every missing required entry is reported in one error wrapping
// ErrMissingColumn.
func (c Config) Resolve(headers []string) (Columns, error) {
	byName := make(map[string]int, len(headers)*2)
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		lower := strings.ToLower(h)
		if _, dup := byName[lower]; !dup {
			byName[lower] = i
		}
		key := NormalizeKey(h)
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}

	cols := make(Columns)
	var missing []string
	lookup := func(key, column string, required bool) {
		if i, ok := byName[strings.ToLower(column)]; ok {
			cols[key] = i
			return
		}
		if i, ok := byName[key]; ok {
			cols[key] = i
			return
		}
		if required {
			missing = append(missing, column)
		}
	}
	for _, d := range c.Dimensions {
		lookup(d.Key, d.Column, d.Required)
	}
	for _, m := range c.Measures {
		lookup(m.Key, m.Column, m.Required)
	}

	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// NormalizeKey converts a header into a catalog key:
// "Richest 1%" → "richest_1", "Life expectancy" → "life_expectancy".
func NormalizeKey(s string) string {
	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "life_expectancy" → "Life Expectancy", "Poorest 50%" → "Poorest 50%"
func toDisplayName(s string) string {
	// If already has spaces/mixed case, just trim
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	// Convert snake_case to Title Case
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}
