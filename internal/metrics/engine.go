// Package metrics implements the derived-metric computations behind the
// dashboard and reports: budget utilization, the emergency-fund projection,
// income normalization, spending trends, insights, and savings-goal
// progress. Every computation is a read over the ledger store; the only
// write side effect is persisting the recomputed emergency-fund target.
package metrics

import (
	"math"
	"time"

	"github.com/hollis-b/budgeteer/internal/service"
)

// monthLayout is the YYYY-MM month-bucket format shared with the store.
const monthLayout = "2006-01"

// Engine computes derived metrics from the ledger store. It holds an
// explicit store handle and an injectable clock; there is no ambient state.
type Engine struct {
	store service.Storage
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock. Used by tests and by anything
// that needs deterministic month bucketing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a metrics engine over the given store.
func NewEngine(store service.Storage, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// currentMonth returns the engine clock's month bucket.
func (e *Engine) currentMonth() string {
	return e.now().Format(monthLayout)
}

// round2 rounds a currency amount to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
