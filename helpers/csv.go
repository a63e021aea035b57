package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/schema"
)

// ============================================================================
// CSV HELPER — Parses the merged dataset CSV into an engine.Dataset
// ============================================================================
// Strict: a malformed row fails the whole load with *engine.ParseError.
// Empty numeric cells (and a literal "NaN") become NaN, which every consumer
// treats as missing.
// ============================================================================

var (
	// ErrDuplicateRecord marks a repeated (entity, year) pair.
	ErrDuplicateRecord = errors.New("duplicate entity/year")
	// ErrEmptyEntity marks a row without an entity name.
	ErrEmptyEntity = errors.New("empty entity")
	// ErrNonFinite marks an infinite numeric cell.
	ErrNonFinite = errors.New("value is not finite")
)

// ParseCSV reads the dataset from r, resolving columns through sch.
func ParseCSV(r io.Reader, sch schema.Config) (*engine.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// Read header
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no header row")
		}
		return nil, &engine.ParseError{Line: 1, Err: fmt.Errorf("failed to read CSV headers: %w", err)}
	}

	cols, err := sch.Resolve(headers)
	if err != nil {
		return nil, &engine.ParseError{Line: 1, Err: err}
	}

	metrics := engine.AllMetrics()
	metricCols := make([]int, len(metrics))
	for i, m := range metrics {
		metricCols[i] = cols.Index(string(m))
	}

	type entityYear struct {
		entity string
		year   int
	}
	seen := make(map[entityYear]int)

	// Read rows
	var records []engine.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &engine.ParseError{Line: csvErr.StartLine, Err: csvErr.Err}
			}
			return nil, &engine.ParseError{Err: err}
		}
		line, _ := reader.FieldPos(0)

		cell := func(key string) string {
			i := cols.Index(key)
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := engine.Record{
			Entity: cell(engine.DimEntity),
			Code:   cell(engine.DimCode),
		}
		if rec.Entity == "" {
			return nil, &engine.ParseError{Line: line, Column: columnName(headers, cols.Index(engine.DimEntity)), Err: ErrEmptyEntity}
		}

		yearRaw := cell(engine.DimYear)
		year, err := strconv.Atoi(yearRaw)
		if err != nil {
			return nil, &engine.ParseError{Line: line, Column: columnName(headers, cols.Index(engine.DimYear)), Value: yearRaw, Err: err}
		}
		rec.Year = year

		for i, m := range metrics {
			raw := ""
			if c := metricCols[i]; c >= 0 && c < len(row) {
				raw = strings.TrimSpace(row[c])
			}
			v, err := parseNumber(raw)
			if err != nil {
				return nil, &engine.ParseError{Line: line, Column: columnName(headers, metricCols[i]), Value: raw, Err: err}
			}
			setMetric(&rec, m, v)
		}

		key := entityYear{entity: rec.Entity, year: rec.Year}
		if first, dup := seen[key]; dup {
			return nil, &engine.ParseError{
				Line: line,
				Err:  fmt.Errorf("%w: %s %d (first seen on line %d)", ErrDuplicateRecord, rec.Entity, rec.Year, first),
			}
		}
		seen[key] = line

		records = append(records, rec)
	}

	return engine.NewDataset(records), nil
}

// ParseCSVFile opens path and parses it with ParseCSV.
func ParseCSVFile(path string, sch schema.Config) (*engine.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ParseCSV(f, sch)
}

// parseNumber accepts "" and "NaN" as missing.
func parseNumber(raw string) (float64, error) {
	if raw == "" || strings.EqualFold(raw, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}

func columnName(headers []string, i int) string {
	if i < 0 || i >= len(headers) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
}

func setMetric(rec *engine.Record, m engine.Metric, v float64) {
	switch m {
	case engine.Richest1:
		rec.Richest1 = v
	case engine.Next9:
		rec.Next9 = v
	case engine.Middle40:
		rec.Middle40 = v
	case engine.Poorest50:
		rec.Poorest50 = v
	case engine.LifeExpectancy:
		rec.LifeExpectancy = v
	}
}
