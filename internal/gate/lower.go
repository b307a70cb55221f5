package gate

import (
	"fmt"
	"time"

	"github.com/srmuseum/gatekeeper/internal/ioboard"
)

// enterLowerLightsAndBells begins a Lower cycle: restart the blinkers if
// they aren't already live, assert bell, point the motor down, and arm
// the BellLead wait. Entry trigger: TrackState becomes Occupied while
// GatePosition is Up and MovementState is UpIdle (the normal path), or
// late preemption from a mid-flight Raise.
func (c *Controller) enterLowerLightsAndBells(now time.Time) {
	if !c.blinkers.Live() {
		if pair, err := c.blnk.StartPair(ioboard.LightsLeft, ioboard.LightsRight, BlinkPeriod); err == nil {
			c.blinkers = pair
		} else if c.diag != nil {
			c.diag.Warnw("blink scheduler exhausted entering Lower", "err", err)
		}
	}
	c.board.Write(ioboard.BellControl, true)
	c.log("Lights & Bells: On")

	c.board.Write(ioboard.MotorDirection, false)
	c.log("Motor Direction: Down")

	c.arm(now, BellLead)
	c.movement = LowerLightsAndBellsDelay
}

func (c *Controller) stepLowerLightsAndBellsDelay(now time.Time) {
	if !c.due(now) {
		return
	}
	c.enterLowerMotorOn(now)
}

// enterLowerMotorOn is the LowerMotorOn phase: consult the duty governor
// before asserting motor power, choosing an abbreviated phase duration
// and setting DutyExceededFlag when the governor refuses.
func (c *Controller) enterLowerMotorOn(now time.Time) {
	if c.duty.MayEnergize() {
		c.dutyExceeded = false
		c.board.Write(ioboard.MotorPower, true)
		c.log("Motor: On")
		c.duty.NoteMotorOn(now)
		c.arm(now, MotorRunNominal)
	} else {
		c.dutyExceeded = true
		c.log(fmt.Sprintf("Motor Max Duty Cycle, Ignoring Motor On Cmd: %d", c.duty.Accumulated().Milliseconds()))
		c.arm(now, MotorRunAbbrev)
	}
	c.movement = LowerMotorOnDelay
}

func (c *Controller) stepLowerMotorOnDelay(now time.Time) {
	if !c.due(now) {
		return
	}

	c.board.Write(ioboard.MotorPower, false)
	c.log("Motor: Off")
	c.board.Write(ioboard.MotorDirection, false)
	c.log("Motor Direction: Down")

	c.duty.NoteMotorOff(now, !c.dutyExceeded)

	c.position = Down
	c.log("Gate is Down")

	c.holdAnchor = now
	c.holdTicks = 0
	c.movement = DownHold
	c.clearAnchors()
}
