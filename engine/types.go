package engine

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// ATLAS ENGINE TYPES — Per-country, per-year income share + life expectancy
// ============================================================================
// One Record per (entity, year). Numeric cells that were empty in the source
// are NaN; every consumer treats NaN as "missing" and skips it.
//
// Dependency: engine has ZERO external dependencies.
// ============================================================================

// ============================================================================
// METRIC — Named numeric column
// ============================================================================

// Metric names one numeric column of a Record.
type Metric string

const (
	Richest1       Metric = "richest_1"
	Next9          Metric = "next_9"
	Middle40       Metric = "middle_40"
	Poorest50      Metric = "poorest_50"
	LifeExpectancy Metric = "life_expectancy"
)

var metricLabels = map[Metric]string{
	Richest1:       "Richest 1%",
	Next9:          "Next 9%",
	Middle40:       "Middle 40%",
	Poorest50:      "Poorest 50%",
	LifeExpectancy: "Life expectancy",
}

// PovertyMetrics returns the income-share metrics in selector order.
func PovertyMetrics() []Metric {
	return []Metric{Poorest50, Middle40, Next9, Richest1}
}

// AllMetrics returns every numeric column in dataset column order.
func AllMetrics() []Metric {
	return []Metric{Richest1, Next9, Middle40, Poorest50, LifeExpectancy}
}

// IsPoverty reports whether m is one of the four income-share metrics.
func (m Metric) IsPoverty() bool {
	switch m {
	case Richest1, Next9, Middle40, Poorest50:
		return true
	}
	return false
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	_, ok := metricLabels[m]
	return ok
}

// Label returns the column header used for display ("Poorest 50%").
func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

// ParseMetric accepts a metric key ("poorest_50") or its display label
// ("Poorest 50%"), case-insensitive.
func ParseMetric(s string) (Metric, bool) {
	s = strings.TrimSpace(s)
	for m, label := range metricLabels {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, label) {
			return m, true
		}
	}
	return "", false
}

// ============================================================================
// RECORD — One country-year observation
// ============================================================================

// Record is a single dataset row. Code is the ISO-3 join key and may be empty
// for aggregate entities ("World", "Europe").
type Record struct {
	Entity         string  `json:"entity"`
	Code           string  `json:"code"`
	Year           int     `json:"year"`
	Richest1       float64 `json:"richest1"`
	Next9          float64 `json:"next9"`
	Middle40       float64 `json:"middle40"`
	Poorest50      float64 `json:"poorest50"`
	LifeExpectancy float64 `json:"lifeExpectancy"`
}

// Value returns the metric's value, NaN when missing or unknown.
func (r Record) Value(m Metric) float64 {
	switch m {
	case Richest1:
		return r.Richest1
	case Next9:
		return r.Next9
	case Middle40:
		return r.Middle40
	case Poorest50:
		return r.Poorest50
	case LifeExpectancy:
		return r.LifeExpectancy
	}
	return math.NaN()
}

// Missing reports whether v represents an absent value.
func Missing(v float64) bool {
	return math.IsNaN(v)
}

// ============================================================================
// FILTERS — Dimension constraints
// ============================================================================

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if f.Dimensions == nil {
		return true
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// ERRORS
// ============================================================================

// ParseError reports a malformed dataset row or header. Line is 1-based and
// counts the header; Line 1 with an empty Column means the header itself.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Column != "" && e.Value != "":
		return fmt.Sprintf("line %d, column %q: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
	case e.Column != "":
		return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
	default:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
