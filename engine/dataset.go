package engine

import (
	"sort"
	"strconv"
)

// ============================================================================
// DATASET — Immutable, loaded once
// ============================================================================
// The dataset owns its records (copied at construction) and exposes them
// read-only through a DomainView. FilterByYear never caches: callers ask for
// the selected year on every redraw.
// ============================================================================

// Dimension keys exposed by the dataset view.
const (
	DimEntity = "entity"
	DimCode   = "code"
	DimYear   = "year"
)

var recordAdapter = NewDomainAdapter[Record]().
	Dimension(DimEntity, func(r Record) string { return r.Entity }).
	Dimension(DimCode, func(r Record) string { return r.Code }).
	Dimension(DimYear, func(r Record) string { return strconv.Itoa(r.Year) }).
	Measure(string(Richest1), func(r Record) float64 { return r.Richest1 }).
	Measure(string(Next9), func(r Record) float64 { return r.Next9 }).
	Measure(string(Middle40), func(r Record) float64 { return r.Middle40 }).
	Measure(string(Poorest50), func(r Record) float64 { return r.Poorest50 }).
	Measure(string(LifeExpectancy), func(r Record) float64 { return r.LifeExpectancy })

// Dataset is the ordered, immutable collection of records.
type Dataset struct {
	records []Record
	view    RecordView
	years   []int
}

// NewDataset copies records and indexes their distinct years.
func NewDataset(records []Record) *Dataset {
	owned := make([]Record, len(records))
	copy(owned, records)

	seen := make(map[int]bool)
	var years []int
	for _, r := range owned {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)

	return &Dataset{
		records: owned,
		view:    recordAdapter.Bind(owned),
		years:   years,
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the i-th record in load order.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// View returns the whole dataset as a RecordView.
func (d *Dataset) View() RecordView { return d.view }

// Years returns the distinct years in ascending order.
func (d *Dataset) Years() []int {
	out := make([]int, len(d.years))
	copy(out, d.years)
	return out
}

// YearRange returns the smallest and largest year. ok is false when empty.
func (d *Dataset) YearRange() (min, max int, ok bool) {
	if len(d.years) == 0 {
		return 0, 0, false
	}
	return d.years[0], d.years[len(d.years)-1], true
}

// HasYear reports whether any record carries the given year.
func (d *Dataset) HasYear(year int) bool {
	i := sort.SearchInts(d.years, year)
	return i < len(d.years) && d.years[i] == year
}

// FilterByYear returns every record whose year matches, in load order.
// No match yields an empty view, not an error.
func (d *Dataset) FilterByYear(year int) RecordView {
	return ApplyFilters(d.view, Filters{
		Dimensions: map[string][]string{DimYear: {strconv.Itoa(year)}},
	})
}
