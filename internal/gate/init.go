package gate

import (
	"time"

	"github.com/srmuseum/gatekeeper/internal/ioboard"
)

// BlinkPeriod is the fixed toggle period the two light outputs blink at.
// The blink scheduler takes its period as a caller-supplied parameter;
// this is this controller's one compile-time choice of that parameter.
const BlinkPeriod = 500 * time.Millisecond

// enterInitLightsBellsDirection runs the Init submachine's first phase:
// bell on, anti-phase blinkers started, direction set Up, then an
// immediate transition into the direction-delay wait. A blink-scheduler
// failure here is fatal: initialization aborts.
func (c *Controller) enterInitLightsBellsDirection(now time.Time) error {
	c.board.Write(ioboard.BellControl, true)
	c.log("Lights & Bells: On")

	pair, err := c.blnk.StartPair(ioboard.LightsLeft, ioboard.LightsRight, BlinkPeriod)
	if err != nil {
		c.log("Blink Scheduler Exhausted, Aborting Boot")
		return err
	}
	c.blinkers = pair

	c.board.Write(ioboard.MotorDirection, true)
	c.log("Motor Direction: Up")

	c.arm(now, DirDelay)
	c.movement = InitMotorDirectionDelay
	return nil
}

func (c *Controller) stepInitMotorDirectionDelay(now time.Time) {
	if !c.due(now) {
		return
	}
	c.board.Write(ioboard.MotorPower, true)
	c.log("Motor: On")
	c.duty.NoteMotorOn(now)

	c.arm(now, InitRaise)
	c.movement = InitMotorOn
}

// stepInitMotorOn finishes the boot raise (the InitMotorOff phase's
// action folds into this step, same pattern as every other
// single-action "then transition" phase in this package).
func (c *Controller) stepInitMotorOn(now time.Time) {
	if !c.due(now) {
		return
	}

	c.blnk.StopPair(&c.blinkers)
	c.board.Write(ioboard.BellControl, false)
	c.board.Write(ioboard.LightsLeft, false)
	c.board.Write(ioboard.LightsRight, false)
	c.log("Lights & Bells: Off")

	c.board.Write(ioboard.MotorPower, false)
	c.log("Motor: Off")

	c.board.Write(ioboard.MotorDirection, false)
	c.log("Motor Direction: Down")

	c.duty.NoteMotorOff(now, true)

	c.position = Up
	c.trackState = Vacant
	c.movement = UpIdle
	c.clearAnchors()

	c.log("Gate Is Up")
}
