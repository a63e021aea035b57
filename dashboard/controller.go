package dashboard

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spektr-org/atlas/config"
	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/geo"
	"github.com/spektr-org/atlas/interaction"
	"github.com/spektr-org/atlas/render"
	"github.com/spektr-org/atlas/scale"
	"github.com/spektr-org/atlas/schema"
	"github.com/spektr-org/atlas/view"
)

// ============================================================================
// CONTROLLER — Idle → Redrawing → Idle
// ============================================================================
// One redraw runs at a time. A change arriving while a redraw is in flight
// only updates the state and marks it dirty; the running cycle loops and
// redraws with the newest state before returning to Idle (last write wins).
// ============================================================================

// Controller owns the control state and the four views.
type Controller struct {
	ds       *engine.Dataset
	cfg      config.Config
	schema   schema.Config
	minYear  int
	maxYear  int
	onRedraw func(RedrawReport)

	poverty *view.Histogram
	life    *view.Histogram
	scatter *view.Scatter
	world   *view.Choropleth
	hover   *interaction.Controller

	mu         sync.Mutex
	drawnCond  *sync.Cond
	state      ControlState
	phase      Phase
	dirty      bool
	generation int
	changes    int // accepted changes so far
	drawn      int // changes covered by the last completed redraw
	last       RedrawReport
}

// New builds the views and runs the first redraw. boundaries may be nil for
// a map without countries.
func New(ds *engine.Dataset, boundaries *geo.Collection, opts ...Option) (*Controller, error) {
	s := applyOptions(opts)
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	minYear, maxYear, ok := ds.YearRange()
	if !ok {
		return nil, ErrEmptyDataset
	}
	if boundaries == nil {
		boundaries = &geo.Collection{}
	}

	cfg := s.cfg
	c := &Controller{
		ds:       ds,
		cfg:      cfg,
		schema:   s.schema,
		minYear:  minYear,
		maxYear:  maxYear,
		onRedraw: s.onRedraw,
		poverty:  view.NewHistogram(ViewPoverty, frame(cfg.Layout.Histogram), histogramStyle(cfg, cfg.Palette.PovertyFill, cfg.Palette.PovertyHover, cfg.Fallbacks.Poverty.Domain())),
		life:     view.NewHistogram(ViewLife, frame(cfg.Layout.Histogram), histogramStyle(cfg, cfg.Palette.LifeFill, cfg.Palette.LifeHover, cfg.Fallbacks.Life.Domain())),
		scatter:  view.NewScatter(ViewScatter, frame(cfg.Layout.Scatter), scatterStyle(cfg)),
		world:    view.NewChoropleth(ViewMap, frame(cfg.Layout.Map), mapStyle(cfg), boundaries),
		hover:    interaction.NewController(),
	}
	c.drawnCond = sync.NewCond(&c.mu)
	for _, name := range ViewOrder {
		c.surface(name).SetBackground(background(cfg))
	}

	initial, err := c.initialState(s.initial)
	if err != nil {
		return nil, err
	}
	c.state = initial
	c.dirty = true
	c.run()
	return c, nil
}

func (c *Controller) initialState(st *ControlState) (ControlState, error) {
	if st == nil {
		mapMetric, err := ParseMapMetric(c.cfg.Controls.MapMetric)
		if err != nil {
			return ControlState{}, err
		}
		year := c.maxYear
		if c.cfg.Controls.Year != 0 {
			year = c.cfg.Controls.Year
		}
		st = &ControlState{Year: year, PovertyMetric: c.cfg.PovertyMetric(), MapMetric: mapMetric}
	}
	if err := c.checkYear(st.Year); err != nil {
		return ControlState{}, err
	}
	if !st.PovertyMetric.IsPoverty() {
		return ControlState{}, fmt.Errorf("%w: poverty metric %q", ErrUnknownMetric, st.PovertyMetric)
	}
	if _, err := ParseMapMetric(string(st.MapMetric)); err != nil {
		return ControlState{}, err
	}
	return *st, nil
}

// State returns the current selection.
func (c *Controller) State() ControlState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Phase returns whether a redraw is running.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Last returns the report of the most recent completed redraw.
func (c *Controller) Last() RedrawReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// YearRange returns the smallest and largest dataset year.
func (c *Controller) YearRange() (min, max int) { return c.minYear, c.maxYear }

// Years returns every year present in the dataset.
func (c *Controller) Years() []int { return c.ds.Years() }

// Hover returns the interaction controller the views are attached to.
func (c *Controller) Hover() *interaction.Controller { return c.hover }

// Surface returns the surface of a view by name, nil for unknown names.
func (c *Controller) Surface(name string) *render.Surface { return c.surface(name) }

func (c *Controller) surface(name string) *render.Surface {
	switch name {
	case ViewPoverty:
		return c.poverty.Surface()
	case ViewLife:
		return c.life.Surface()
	case ViewScatter:
		return c.scatter.Surface()
	case ViewMap:
		return c.world.Surface()
	}
	return nil
}

// ── Setters ──────────────────────────────────────────────────────────────────

// SetYear selects a year within the dataset's range.
func (c *Controller) SetYear(year int) error {
	if err := c.checkYear(year); err != nil {
		return err
	}
	c.apply(func(st *ControlState) { st.Year = year })
	return nil
}

// SetPovertyMetric selects the income-share metric.
func (c *Controller) SetPovertyMetric(m engine.Metric) error {
	if !m.IsPoverty() {
		return fmt.Errorf("%w: poverty metric %q", ErrUnknownMetric, m)
	}
	c.apply(func(st *ControlState) { st.PovertyMetric = m })
	return nil
}

// SetMapMetric selects what the map colours by.
func (c *Controller) SetMapMetric(m MapMetric) error {
	if _, err := ParseMapMetric(string(m)); err != nil {
		return err
	}
	c.apply(func(st *ControlState) { st.MapMetric = m })
	return nil
}

// Redraw forces a redraw cycle with the current state and returns the
// report of the cycle that drew it. When another goroutine is mid-redraw,
// Redraw waits for that goroutine to draw the state. It must not be called
// from the redraw hook.
func (c *Controller) Redraw() RedrawReport {
	ticket := c.apply(func(*ControlState) {})
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.drawn < ticket {
		c.drawnCond.Wait()
	}
	return c.last
}

func (c *Controller) checkYear(year int) error {
	if year < c.minYear || year > c.maxYear {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, year, c.minYear, c.maxYear)
	}
	return nil
}

// apply mutates the state and redraws, unless a redraw is already running
// on another goroutine, which then picks the change up. It returns the
// change's ticket, compared against drawn.
func (c *Controller) apply(mutate func(*ControlState)) int {
	c.mu.Lock()
	mutate(&c.state)
	c.changes++
	ticket := c.changes
	c.dirty = true
	if c.phase == PhaseRedrawing {
		c.mu.Unlock()
		return ticket
	}
	c.mu.Unlock()
	c.run()
	return ticket
}

// run drains dirty state. Only one goroutine is inside the loop at a time.
func (c *Controller) run() {
	c.mu.Lock()
	if c.phase == PhaseRedrawing {
		c.mu.Unlock()
		return
	}
	c.phase = PhaseRedrawing
	for c.dirty {
		c.dirty = false
		c.generation++
		gen, st, upTo := c.generation, c.state, c.changes
		c.mu.Unlock()

		report := c.redraw(gen, st)

		c.mu.Lock()
		c.last = report
		c.drawn = upTo
		c.drawnCond.Broadcast()
		hook := c.onRedraw
		c.mu.Unlock()
		if hook != nil {
			hook(report)
		}
		c.mu.Lock()
	}
	c.phase = PhaseIdle
	c.mu.Unlock()
}

// redraw runs one full cycle for st.
func (c *Controller) redraw(gen int, st ControlState) RedrawReport {
	start := time.Now()
	if !c.ds.HasYear(st.Year) {
		log.Printf("⚠️ Atlas: no records for %d, views fall back to default domains", st.Year)
	}
	filtered := c.ds.FilterByYear(st.Year)
	pov := series(c.schema, st.PovertyMetric)
	life := series(c.schema, engine.LifeExpectancy)

	var specs Specs
	specs.Poverty = c.poverty.Draw(filtered, pov)
	specs.Life = c.life.Draw(filtered, life)
	specs.Scatter = c.scatter.Draw(filtered, pov, life)
	specs.Map = c.world.Draw(filtered, view.MapLayer{
		Series:   series(c.schema, st.MapSeriesMetric()),
		Interp:   c.cfg.Interpolator(string(st.MapMetric)),
		Fallback: c.fallback(st.MapSeriesMetric()),
	})

	c.hover.Attach(ViewPoverty, c.poverty)
	c.hover.Attach(ViewLife, c.life)
	c.hover.Attach(ViewScatter, c.scatter)
	c.hover.Attach(ViewMap, c.world)

	report := RedrawReport{
		Generation: gen,
		State:      st,
		Records:    filtered.Len(),
		Present:    engine.CountPresent(filtered, st.PovertyMetric),
		Views:      append([]string(nil), ViewOrder...),
		Specs:      specs,
		Duration:   time.Since(start),
	}
	log.Printf("📊 Atlas: redraw #%d %s, %d records, %d with %s (%s)",
		gen, st, report.Records, report.Present, st.PovertyMetric, report.Duration.Round(time.Microsecond))
	return report
}

func (c *Controller) fallback(m engine.Metric) scale.Domain {
	if m == engine.LifeExpectancy {
		return c.cfg.Fallbacks.Life.Domain()
	}
	return c.cfg.Fallbacks.Poverty.Domain()
}
