// Package duty is the motor duty-cycle governor: it models thermal
// protection without a real sensor by accumulating motor-on time and
// decaying it during idle periods, vetoing activation once the
// accumulator reaches the limit.
package duty

import (
	"time"

	"github.com/srmuseum/gatekeeper/internal/mathx"
)

// Limit is the fixed accumulator ceiling.
const Limit = 80 * time.Second

// decayNumer/decayDenom: one unit of accumulator drains per ten units of
// idle wall time, a 10% duty cycle.
const (
	decayNumer = 1
	decayDenom = 10
)

// Governor holds the running accumulator, whether the motor is currently
// energized, the time of the last Tick, and the current burst's start
// time.
type Governor struct {
	accumulated  time.Duration
	motorRunning bool
	prevTick     time.Time
	burstStart   time.Time
}

// New returns a Governor with a zero accumulator, primed at now for its
// first Tick call.
func New(now time.Time) *Governor {
	return &Governor{prevTick: now}
}

// Accumulated returns the current accumulator value.
func (g *Governor) Accumulated() time.Duration { return g.accumulated }

// NoteMotorOn records the start of a motor-on burst.
func (g *Governor) NoteMotorOn(now time.Time) {
	g.motorRunning = true
	g.burstStart = now
}

// NoteMotorOff ends the current burst. If credited (the burst actually
// energized the motor, i.e. DutyExceededFlag was false throughout it),
// its duration is added to the accumulator; otherwise nothing accrues,
// since the motor never actually drew current.
func (g *Governor) NoteMotorOff(now time.Time, credited bool) {
	if credited {
		g.accumulated += now.Sub(g.burstStart)
	}
	g.motorRunning = false
}

// Tick runs the decay step. Call unconditionally every loop iteration
// regardless of motor state.
func (g *Governor) Tick(now time.Time) {
	dt := now.Sub(g.prevTick)
	if !g.motorRunning {
		drain := dt * decayNumer / decayDenom
		g.accumulated = mathx.Max(0, g.accumulated-drain)
	}
	g.prevTick = now
}

// MayEnergize reports whether the accumulator is still under the limit.
func (g *Governor) MayEnergize() bool {
	return g.accumulated < Limit
}

// Zero clears the accumulator. Used only by the gate package's late
// preemption path, which sacrifices duty-cycle protection for
// grade-crossing safety when a second train arrives mid-raise.
func (g *Governor) Zero() {
	g.accumulated = 0
}
