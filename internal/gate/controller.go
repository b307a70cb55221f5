package gate

import (
	"time"

	"go.uber.org/zap"

	"github.com/srmuseum/gatekeeper/bus"
	"github.com/srmuseum/gatekeeper/internal/blink"
	"github.com/srmuseum/gatekeeper/internal/duty"
	"github.com/srmuseum/gatekeeper/internal/ioboard"
	"github.com/srmuseum/gatekeeper/internal/sensor"
)

// Controller is the single owned aggregate the design notes call for: all
// FSM state as fields, plus references to the I/O, blink and duty
// collaborators it drives. There is exactly one Controller per boot.
type Controller struct {
	board ioboard.Board
	blnk  *blink.Scheduler
	duty  *duty.Governor
	clock ioboard.Clock
	conn  *bus.Connection
	diag  *zap.SugaredLogger

	position   GatePosition
	trackState TrackState
	movement   MovementState

	// anchor/phaseDuration implement the design notes' Delaying{until,
	// then} pattern: since Init, Lower and Raise never run concurrently,
	// one anchor field is enough for all their timed phases; exactly one
	// of those timers is ever live at a time. DownHold keeps its own
	// holdAnchor below, which the preemption policy refreshes.
	anchor        time.Time
	phaseDuration time.Duration

	dutyExceeded bool
	raiseAbort   bool // current Raise cycle uses MotorRunAbortRaise timing

	blinkers blink.Pair

	holdAnchor time.Time
	holdTicks  int

	lastNow time.Time
}

// New builds a Controller. board/blnk/gov are shared with the rest of
// cmd/gatectl's composition root; conn and diag may be nil (e.g. in
// tests), in which case console lines and status snapshots are simply
// not published.
func New(board ioboard.Board, blnk *blink.Scheduler, gov *duty.Governor, clk ioboard.Clock, conn *bus.Connection, diag *zap.SugaredLogger) *Controller {
	return &Controller{
		board:      board,
		blnk:       blnk,
		duty:       gov,
		clock:      clk,
		conn:       conn,
		diag:       diag,
		position:   Down,
		trackState: Initializing,
		movement:   InitLightsBellsDirection,
	}
}

// Start runs the Init submachine's entry actions. Call exactly once,
// before the first Step.
func (c *Controller) Start(now time.Time) error {
	c.lastNow = now
	return c.enterInitLightsBellsDirection(now)
}

// Step runs one controller-loop iteration: apply the reset/preemption
// policy, run the duty governor's decay tick, dispatch the current
// phase's step function (at most one transition), then service the
// blink scheduler. Sampling the raw sensor and debouncing it happen in
// the caller; reading is the debounced result.
func (c *Controller) Step(now time.Time, reading sensor.Reading) {
	c.lastNow = now

	c.applyPreemption(now, reading)
	c.duty.Tick(now)
	c.dispatch(now)
	c.blnk.Poll(now)

	c.checkLitInvariant()
	c.publishStatus()
}

// checkLitInvariant warns if the light/bell pair's liveness ever
// disagrees with what the current phase says it should be. It should
// never fire; it exists to catch a future phase-transition bug that
// leaves the blinkers on or off in the wrong window.
func (c *Controller) checkLitInvariant() {
	if c.diag == nil {
		return
	}
	if live, want := c.blinkers.Live(), c.movement.lit(); live != want {
		c.diag.Warnw("blinker liveness disagrees with phase", "movement", c.movement, "blinkersLive", live, "wantLit", want)
	}
}

// elapsed returns how long the current phase has been running.
func (c *Controller) elapsed(now time.Time) time.Duration {
	return now.Sub(c.anchor)
}

// arm starts the shared anchor/duration timer used by every timed-wait
// phase.
func (c *Controller) arm(now time.Time, d time.Duration) {
	c.anchor = now
	c.phaseDuration = d
}

func (c *Controller) due(now time.Time) bool {
	return c.elapsed(now) >= c.phaseDuration
}

func (c *Controller) clearAnchors() {
	c.anchor = time.Time{}
	c.phaseDuration = 0
}

// PublishLine emits one console line through the same sink phase-entry
// actions use. Exported so the sensor debouncer's commit hook (owned by
// the composition root, not this package) can route "Track Sensor:
// Detected"/"Cleared" lines through the same channel as every other
// console line.
func (c *Controller) PublishLine(line string) { c.log(line) }

// Position, Movement, TrackStateValue and DutyExceeded expose read-only
// snapshots for tests and the UI without reaching into private fields.
func (c *Controller) Position() GatePosition     { return c.position }
func (c *Controller) Movement() MovementState    { return c.movement }
func (c *Controller) TrackStateValue() TrackState { return c.trackState }
func (c *Controller) DutyExceeded() bool          { return c.dutyExceeded }
func (c *Controller) BlinkersLive() bool          { return c.blinkers.Live() }
func (c *Controller) Accumulated() time.Duration  { return c.duty.Accumulated() }

// dispatch steps the current MovementState's phase function. Each
// function either stays put (still waiting on its anchor) or transitions
// exactly once: at most one phase transition per loop iteration.
func (c *Controller) dispatch(now time.Time) {
	switch c.movement {
	case InitLightsBellsDirection:
		// entry actions already ran in Start; this phase never re-enters.
	case InitMotorDirectionDelay:
		c.stepInitMotorDirectionDelay(now)
	case InitMotorOn:
		c.stepInitMotorOn(now)
	case InitMotorOff:
		// one-shot transitional phase: its action fires once, from
		// stepInitMotorOn; by the time movement reads InitMotorOff this
		// step is a no-op guard in case of re-entry.

	case LowerLightsAndBells:
		// entry actions run at the moment of transition into this phase
		// (see enterLowerLightsAndBells); nothing to do on a later tick.
	case LowerLightsAndBellsDelay:
		c.stepLowerLightsAndBellsDelay(now)
	case LowerMotorOn:
		c.stepLowerMotorOn(now)
	case LowerMotorOnDelay:
		c.stepLowerMotorOnDelay(now)
	case LowerMotorOff:
		// transitional; action already applied by stepLowerMotorOnDelay.

	case DownHold:
		c.stepDownHold(now)

	case RaiseDebounce:
		c.stepRaiseDebounce(now)
	case RaiseMotorDirection:
		// entry actions run at transition time (enterRaiseMotorDirection).
	case RaiseMotorDirectionDelay:
		c.stepRaiseMotorDirectionDelay(now)
	case RaiseMotorOn:
		// entry actions run at transition time (enterRaiseMotorOn).
	case RaiseMotorOnDelay:
		c.stepRaiseMotorOnDelay(now)
	case RaiseMotorOff:
		// transitional; action already applied by stepRaiseMotorOnDelay.

	case UpIdle:
		// terminal; nothing to do until the next occupancy edge (preempt).
	}
}
