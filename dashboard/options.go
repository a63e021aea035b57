package dashboard

import (
	"github.com/spektr-org/atlas/config"
	"github.com/spektr-org/atlas/schema"
)

// ============================================================================
// CONTROLLER OPTIONS — Functional options for New()
// ============================================================================

// Option configures the controller via functional options pattern.
type Option func(*settings)

type settings struct {
	cfg      config.Config
	schema   schema.Config
	initial  *ControlState
	onRedraw func(RedrawReport)
}

// WithConfig replaces the default presentation config.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithInitialState sets the first selection instead of the config defaults
// and the latest year. It is validated like any other change.
func WithInitialState(st ControlState) Option {
	return func(s *settings) {
		s.initial = &st
	}
}

// WithSchema replaces the column catalog used for captions.
func WithSchema(sch schema.Config) Option {
	return func(s *settings) {
		s.schema = sch
	}
}

// WithRedrawHook registers fn to run after every redraw cycle, outside the
// controller lock. The desktop UI refreshes its images from here.
func WithRedrawHook(fn func(RedrawReport)) Option {
	return func(s *settings) {
		s.onRedraw = fn
	}
}

// applyOptions creates settings from functional options.
func applyOptions(opts []Option) *settings {
	s := &settings{
		cfg:    config.Default(),
		schema: schema.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
