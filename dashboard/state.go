// Package dashboard couples the control state to the four linked views.
//
// A Controller owns the ControlState. Every accepted control change runs a
// full redraw cycle: filter the dataset by year, redraw the poverty
// histogram, the life histogram, the scatterplot and the map in that order,
// then re-attach hover targets so no hover state survives the redraw.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spektr-org/atlas/config"
	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/scale"
)

var (
	// ErrYearOutOfRange is returned when a year lies outside the dataset.
	ErrYearOutOfRange = errors.New("year out of range")
	// ErrUnknownMetric is returned for an unknown poverty or map metric.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrEmptyDataset is returned when there is no year to show.
	ErrEmptyDataset = errors.New("dataset has no records")
)

// MapMetric selects what the choropleth colours by.
type MapMetric string

const (
	MapLife    MapMetric = config.MapLife
	MapPoverty MapMetric = config.MapPoverty
)

// ParseMapMetric accepts "life" or "poverty", case-insensitive.
func ParseMapMetric(s string) (MapMetric, error) {
	switch m := MapMetric(strings.ToLower(strings.TrimSpace(s))); m {
	case MapLife, MapPoverty:
		return m, nil
	}
	return "", fmt.Errorf("%w: map metric %q (want life or poverty)", ErrUnknownMetric, s)
}

// ParsePovertyMetric accepts an income-share metric key or label.
func ParsePovertyMetric(s string) (engine.Metric, error) {
	m, ok := engine.ParseMetric(s)
	if !ok || !m.IsPoverty() {
		return "", fmt.Errorf("%w: poverty metric %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// ControlState is the complete user selection. It is passed explicitly to
// every filter, scale and draw call of a redraw.
type ControlState struct {
	Year          int
	PovertyMetric engine.Metric
	MapMetric     MapMetric
}

// MapSeriesMetric returns the column the map colours by.
func (s ControlState) MapSeriesMetric() engine.Metric {
	if s.MapMetric == MapPoverty {
		return s.PovertyMetric
	}
	return engine.LifeExpectancy
}

func (s ControlState) String() string {
	return fmt.Sprintf("year=%d poverty=%s map=%s", s.Year, s.PovertyMetric, s.MapMetric)
}

// Phase is the controller's redraw phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRedrawing
)

func (p Phase) String() string {
	if p == PhaseRedrawing {
		return "redrawing"
	}
	return "idle"
}

// Specs are the scales each view drew with.
type Specs struct {
	Poverty scale.Spec
	Life    scale.Spec
	Scatter scale.Spec
	Map     scale.Spec
}

// RedrawReport summarises one redraw cycle.
type RedrawReport struct {
	Generation int
	State      ControlState
	Records    int      // records in the filtered view
	Present    int      // of those, records carrying the selected income share
	Views      []string // views in draw order
	Specs      Specs
	Duration   time.Duration
}
