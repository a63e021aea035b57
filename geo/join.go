package geo

import (
	"fmt"
	"math"

	"github.com/spektr-org/atlas/engine"
)

// MissingJoinKeyError means no record of the current year carries the
// feature's code. The choropleth renders such features with the missing fill.
type MissingJoinKeyError struct {
	Code string
}

func (e *MissingJoinKeyError) Error() string {
	if e.Code == "" {
		return "feature has no join code"
	}
	return fmt.Sprintf("no record for code %q", e.Code)
}

// ValueIndex maps ISO-3 codes to one metric's value for a single year.
// Built once per redraw.
type ValueIndex struct {
	metric engine.Metric
	values map[string]float64
}

// BuildValueIndex indexes view by code. Records without a code are skipped;
// when a code repeats, the later record wins.
func BuildValueIndex(view engine.RecordView, metric engine.Metric) ValueIndex {
	idx := ValueIndex{metric: metric, values: make(map[string]float64, view.Len())}
	for i := 0; i < view.Len(); i++ {
		code := view.Dimension(i, engine.DimCode)
		if code == "" {
			continue
		}
		idx.values[code] = view.Measure(i, string(metric))
	}
	return idx
}

// Metric returns the indexed metric.
func (x ValueIndex) Metric() engine.Metric { return x.metric }

// Len returns the number of indexed codes.
func (x ValueIndex) Len() int { return len(x.values) }

// Lookup returns the value for code. A record with a missing value returns
// NaN and no error; no record at all returns *MissingJoinKeyError.
func (x ValueIndex) Lookup(code string) (float64, error) {
	if code == "" {
		return math.NaN(), &MissingJoinKeyError{}
	}
	v, ok := x.values[code]
	if !ok {
		return math.NaN(), &MissingJoinKeyError{Code: code}
	}
	return v, nil
}

// JoinedValues returns the values of every feature in col that joined to a
// record, in feature order. NaN values are included.
func (x ValueIndex) JoinedValues(col *Collection) []float64 {
	out := make([]float64, 0, col.Len())
	for _, f := range col.Features {
		if v, err := x.Lookup(f.Code); err == nil {
			out = append(out, v)
		}
	}
	return out
}
