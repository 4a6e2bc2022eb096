// Package clock provides the time oracle consumed by the staking
// engine. Each operation reads the clock exactly once and uses that
// value throughout.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current wall-clock time as unix seconds.
// Implementations must be monotonically non-decreasing.
type Clock interface {
	Now() int64
}

// System reads the operating system clock.
type System struct{}

// Now returns the current unix time in seconds.
func (System) Now() int64 {
	return time.Now().Unix()
}

// Manual is a settable clock for tests and deterministic replays.
// The zero value reads as time 0.
type Manual struct {
	now atomic.Int64
}

// NewManual creates a manual clock starting at t.
func NewManual(t int64) *Manual {
	m := &Manual{}
	m.now.Store(t)
	return m
}

// Now returns the configured time.
func (m *Manual) Now() int64 {
	return m.now.Load()
}

// Set moves the clock to t.
func (m *Manual) Set(t int64) {
	m.now.Store(t)
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d int64) {
	m.now.Add(d)
}

var _ Clock = System{}
var _ Clock = (*Manual)(nil)
