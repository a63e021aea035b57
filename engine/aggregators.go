package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// AGGREGATORS — Column extraction and summaries via RecordView
// ============================================================================
// NaN is "missing" everywhere: summaries skip it, extraction preserves it so
// scales can make their own exclusion decision.
// ============================================================================

// MeasureValues extracts one metric column from a view. NaN is preserved.
func MeasureValues(view RecordView, metric Metric) []float64 {
	n := view.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = view.Measure(i, string(metric))
	}
	return out
}

// CountPresent returns how many records carry a non-missing metric value.
func CountPresent(view RecordView, metric Metric) int {
	count := 0
	for i := 0; i < view.Len(); i++ {
		if !Missing(view.Measure(i, string(metric))) {
			count++
		}
	}
	return count
}

// MaxMeasure returns the largest present value of a metric.
// ok is false when every value is missing.
func MaxMeasure(view RecordView, metric Metric) (max float64, ok bool) {
	max = math.Inf(-1)
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, string(metric))
		if Missing(v) {
			continue
		}
		if !ok || v > max {
			max = v
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return max, true
}

// MinMeasure returns the smallest present value of a metric.
// ok is false when every value is missing.
func MinMeasure(view RecordView, metric Metric) (min float64, ok bool) {
	min = math.Inf(1)
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, string(metric))
		if Missing(v) {
			continue
		}
		if !ok || v < min {
			min = v
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return min, true
}

// UniqueValues returns distinct non-empty values for a dimension across a view.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatValue renders a metric value with two decimals, "N/A" when missing.
func FormatValue(v float64) string {
	if Missing(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", RoundTo2(v))
}
