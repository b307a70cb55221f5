package gate

import (
	"time"

	"github.com/srmuseum/gatekeeper/internal/ioboard"
)

// enterRaiseDebounce begins the Raise submachine. RaiseDebounce is a
// legacy one-tick no-op retained for symmetry: it logs once on entry and
// does nothing else until the following tick hands off to
// RaiseMotorDirection.
func (c *Controller) enterRaiseDebounce(now time.Time) {
	c.log("Track is Vacant")
	c.movement = RaiseDebounce
}

func (c *Controller) stepRaiseDebounce(now time.Time) {
	c.enterRaiseMotorDirection(now)
}

func (c *Controller) enterRaiseMotorDirection(now time.Time) {
	c.board.Write(ioboard.MotorDirection, true)
	c.log("Motor Direction: Up")

	c.arm(now, DirDelay)
	c.movement = RaiseMotorDirectionDelay
}

func (c *Controller) stepRaiseMotorDirectionDelay(now time.Time) {
	if !c.due(now) {
		return
	}
	c.enterRaiseMotorOn(now)
}

// enterRaiseMotorOn always asserts motor power: the duty governor is not
// consulted on raising paths (the gate must come up regardless). The
// phase duration is MotorRunAbortRaise when this Raise cycle was entered
// via DownHold's abort exit, MotorRunNominal otherwise.
func (c *Controller) enterRaiseMotorOn(now time.Time) {
	c.board.Write(ioboard.MotorPower, true)
	c.log("Motor: On")
	c.duty.NoteMotorOn(now)

	dur := MotorRunNominal
	if c.raiseAbort {
		dur = MotorRunAbortRaise
	}
	c.arm(now, dur)
	c.movement = RaiseMotorOnDelay
}

func (c *Controller) stepRaiseMotorOnDelay(now time.Time) {
	if !c.due(now) {
		return
	}
	c.doRaiseMotorOff(now)
}

// doRaiseMotorOff is RaiseMotorOff's action, shared between its normal
// due()-triggered firing and the reset/preemption policy's immediate
// mid-raise call.
func (c *Controller) doRaiseMotorOff(now time.Time) {
	if c.position == Down {
		c.blnk.StopPair(&c.blinkers)
		c.board.Write(ioboard.BellControl, false)
		c.board.Write(ioboard.LightsLeft, false)
		c.board.Write(ioboard.LightsRight, false)
		c.log("Lights & Bells: Off")

		c.board.Write(ioboard.MotorPower, false)
		c.log("Motor: Off")

		c.board.Write(ioboard.MotorDirection, false)
		c.log("Motor Direction: Down")

		c.duty.NoteMotorOff(now, !c.dutyExceeded)

		c.position = Up
		c.log("Gate is Up")
	}

	c.dutyExceeded = false
	c.raiseAbort = false
	c.trackState = Vacant
	c.movement = UpIdle
	c.clearAnchors()
}
