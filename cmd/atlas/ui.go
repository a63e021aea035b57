package main

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/golang/geo/r2"

	"github.com/spektr-org/atlas/dashboard"
	"github.com/spektr-org/atlas/engine"
	"github.com/spektr-org/atlas/geo"
)

// ============================================================================
// DESKTOP UI — controls on top, four views stacked below
// ============================================================================

type uiState struct {
	ctrl      *dashboard.Controller
	images    map[string]*canvas.Image
	overlays  map[string]*hoverOverlay
	yearLabel *widget.Label
	caption   *widget.Label
}

func runUI(ds *engine.Dataset, boundaries *geo.Collection, opts []dashboard.Option) error {
	a := app.NewWithID("org.spektr.atlas")
	w := a.NewWindow("Atlas — Income Share & Life Expectancy")

	state := &uiState{
		images:   make(map[string]*canvas.Image),
		overlays: make(map[string]*hoverOverlay),
	}
	// The first redraw runs inside New, before state.ctrl is set.
	opts = append(opts, dashboard.WithRedrawHook(func(r dashboard.RedrawReport) {
		if state.ctrl == nil {
			return
		}
		state.refreshAll()
	}))
	ctrl, err := dashboard.New(ds, boundaries, opts...)
	if err != nil {
		return fmt.Errorf("start dashboard: %w", err)
	}
	state.ctrl = ctrl

	views := container.NewVBox()
	for _, name := range dashboard.ViewOrder {
		img := canvas.NewImageFromImage(nil)
		img.FillMode = canvas.ImageFillContain
		width, height := ctrl.Surface(name).Size()
		img.SetMinSize(fyne.NewSize(float32(width), float32(height)))
		ov := newHoverOverlay(state, name)
		state.images[name] = img
		state.overlays[name] = ov
		views.Add(container.NewStack(img, ov))
	}

	controls := state.buildControls()
	state.refreshAll()

	w.SetContent(container.NewBorder(controls, nil, nil, nil, container.NewVScroll(views)))
	w.Resize(fyne.NewSize(1100, 800))
	log.Printf("🖥️ Atlas: window open, %s", ctrl.State())
	w.ShowAndRun()
	return nil
}

func (s *uiState) buildControls() fyne.CanvasObject {
	st := s.ctrl.State()
	minYear, maxYear := s.ctrl.YearRange()

	s.yearLabel = widget.NewLabel(fmt.Sprintf("Year: %d", st.Year))
	s.caption = widget.NewLabel(s.ctrl.Caption())

	slider := widget.NewSlider(float64(minYear), float64(maxYear))
	slider.Step = 1
	slider.Value = float64(st.Year)
	slider.OnChanged = func(v float64) {
		year := int(v)
		if year == s.ctrl.State().Year {
			return
		}
		s.yearLabel.SetText(fmt.Sprintf("Year: %d", year))
		if err := s.ctrl.SetYear(year); err != nil {
			log.Printf("⚠️ Atlas: %v", err)
		}
	}

	labels := make([]string, 0, len(engine.PovertyMetrics()))
	byLabel := make(map[string]engine.Metric)
	for _, m := range engine.PovertyMetrics() {
		labels = append(labels, m.Label())
		byLabel[m.Label()] = m
	}
	poverty := widget.NewSelect(labels, nil)
	poverty.Selected = st.PovertyMetric.Label()
	poverty.OnChanged = func(label string) {
		if err := s.ctrl.SetPovertyMetric(byLabel[label]); err != nil {
			log.Printf("⚠️ Atlas: %v", err)
		}
	}

	mapOptions := []string{"Life expectancy", "Income share"}
	mapSelect := widget.NewSelect(mapOptions, nil)
	if st.MapMetric == dashboard.MapPoverty {
		mapSelect.Selected = mapOptions[1]
	} else {
		mapSelect.Selected = mapOptions[0]
	}
	mapSelect.OnChanged = func(choice string) {
		m := dashboard.MapLife
		if choice == mapOptions[1] {
			m = dashboard.MapPoverty
		}
		if err := s.ctrl.SetMapMetric(m); err != nil {
			log.Printf("⚠️ Atlas: %v", err)
		}
	}

	row := container.NewHBox(
		widget.NewLabel("Income share:"), poverty,
		widget.NewLabel("Map:"), mapSelect,
		s.yearLabel,
	)
	return container.NewVBox(row, slider, s.caption)
}

// refreshAll re-rasterises every view after a redraw.
func (s *uiState) refreshAll() {
	for name := range s.images {
		s.refreshView(name)
	}
	if s.caption != nil {
		s.caption.SetText(s.ctrl.Caption())
	}
	// a redraw resets hover state
	for _, ov := range s.overlays {
		ov.activeKey = ""
		ov.Refresh()
	}
}

// refreshView re-rasterises one view, e.g. after a hover highlight.
func (s *uiState) refreshView(name string) {
	img, ok := s.images[name]
	if !ok {
		return
	}
	raster, err := s.ctrl.Image(name)
	if err != nil {
		log.Printf("⚠️ Atlas: %v", err)
		return
	}
	img.Image = raster
	img.Refresh()
}

// ============================================================================
// HOVER OVERLAY — maps pointer events onto the view's surface
// ============================================================================

// hoverOverlay sits on top of a view image, forwards the pointer to the
// interaction controller in surface pixels and draws the view's tooltip.
type hoverOverlay struct {
	widget.BaseWidget
	state     *uiState
	view      string
	activeKey string
}

func newHoverOverlay(state *uiState, view string) *hoverOverlay {
	o := &hoverOverlay{state: state, view: view}
	o.ExtendBaseWidget(o)
	return o
}

func (o *hoverOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background so the whole image area receives hover events
	bg := canvas.NewRectangle(color.RGBA{A: 0})
	tipBG := canvas.NewRectangle(color.RGBA{R: 255, G: 255, B: 255, A: 230})
	tipBG.StrokeColor = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 255}
	tipBG.StrokeWidth = 1
	tip := widget.NewLabel("")
	tip.Wrapping = fyne.TextWrapOff
	return &hoverRenderer{o: o, bg: bg, tipBG: tipBG, tip: tip, objs: []fyne.CanvasObject{bg, tipBG, tip}}
}

// surfaceSize returns the size of the view's surface in pixels.
func (o *hoverOverlay) surfaceSize() (float32, float32) {
	s := o.state.ctrl.Surface(o.view)
	if s == nil {
		return 0, 0
	}
	w, h := s.Size()
	return float32(w), float32(h)
}

func (o *hoverOverlay) pointer(pos fyne.Position) {
	w, h := o.surfaceSize()
	p, ok := toSurface(pos, w, h, o.Size())
	hover := o.state.ctrl.Hover()
	key := ""
	if ok {
		key = hover.Pointer(o.view, p).ActiveKey
	} else {
		hover.Leave(o.view)
	}
	if key != o.activeKey {
		o.activeKey = key
		o.state.refreshView(o.view)
	}
	o.Refresh()
}

func (o *hoverOverlay) MouseIn(ev *desktop.MouseEvent)    { o.pointer(ev.Position) }
func (o *hoverOverlay) MouseMoved(ev *desktop.MouseEvent) { o.pointer(ev.Position) }

func (o *hoverOverlay) MouseOut() {
	o.state.ctrl.Hover().Leave(o.view)
	if o.activeKey != "" {
		o.activeKey = ""
		o.state.refreshView(o.view)
	}
	o.Refresh()
}

var _ desktop.Hoverable = (*hoverOverlay)(nil)

type hoverRenderer struct {
	o     *hoverOverlay
	bg    *canvas.Rectangle
	tipBG *canvas.Rectangle
	tip   *widget.Label
	objs  []fyne.CanvasObject
}

func (r *hoverRenderer) Destroy() {}

func (r *hoverRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	t := r.o.state.ctrl.Hover().Tooltip(r.o.view)
	if t == nil || !t.Visible() {
		r.hide()
		return
	}
	w, h := r.o.surfaceSize()
	at, ok := fromSurface(t.Anchor(), w, h, size)
	if !ok {
		r.hide()
		return
	}
	r.tip.SetText(t.Content().String())

	pad := float32(4)
	ts := r.tip.MinSize()
	bgW, bgH := ts.Width+2*pad, ts.Height+2*pad
	x, y := at.X, at.Y
	if x+bgW > size.Width {
		x = size.Width - bgW
	}
	if y+bgH > size.Height {
		y = size.Height - bgH
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	r.tipBG.Resize(fyne.NewSize(bgW, bgH))
	r.tipBG.Move(fyne.NewPos(x, y))
	r.tip.Resize(ts)
	r.tip.Move(fyne.NewPos(x+pad, y+pad))
}

func (r *hoverRenderer) hide() {
	r.tipBG.Resize(fyne.NewSize(0, 0))
	r.tipBG.Move(fyne.NewPos(-1000, -1000))
	r.tip.Move(fyne.NewPos(-1000, -1000))
}

func (r *hoverRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *hoverRenderer) Objects() []fyne.CanvasObject { return r.objs }

func (r *hoverRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.bg.Refresh()
	r.tipBG.Refresh()
	r.tip.Refresh()
}

// ── Contain-fit geometry ────────────────────────────────────────────────────

// containRect returns where an imgW×imgH image lands inside a box when drawn
// with ImageFillContain, and the scale applied to it.
func containRect(imgW, imgH, boxW, boxH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0, 0, 0, 0
	}
	scale = boxW / imgW
	if sy := boxH / imgH; sy < scale {
		scale = sy
	}
	w, h = imgW*scale, imgH*scale
	return (boxW - w) / 2, (boxH - h) / 2, w, h, scale
}

// toSurface maps an overlay position to surface pixels. ok is false when the
// position falls in the letterbox around the image.
func toSurface(pos fyne.Position, imgW, imgH float32, box fyne.Size) (r2.Point, bool) {
	x, y, w, h, scale := containRect(imgW, imgH, box.Width, box.Height)
	if scale == 0 || pos.X < x || pos.X > x+w || pos.Y < y || pos.Y > y+h {
		return r2.Point{}, false
	}
	return r2.Point{X: float64((pos.X - x) / scale), Y: float64((pos.Y - y) / scale)}, true
}

// fromSurface is the inverse of toSurface.
func fromSurface(p r2.Point, imgW, imgH float32, box fyne.Size) (fyne.Position, bool) {
	x, y, _, _, scale := containRect(imgW, imgH, box.Width, box.Height)
	if scale == 0 {
		return fyne.Position{}, false
	}
	return fyne.NewPos(x+float32(p.X)*scale, y+float32(p.Y)*scale), true
}
