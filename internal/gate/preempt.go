package gate

import (
	"time"

	"github.com/srmuseum/gatekeeper/internal/duty"
	"github.com/srmuseum/gatekeeper/internal/sensor"
)

// applyPreemption runs the reset/preemption policy on every tick, after
// the debouncer has been sampled. A Vacant reading takes no action at
// all: TrackState is only ever cleared by the FSM's own phase logic
// (DownHold's exits, RaiseMotorOff), never mirrored straight from the
// sensor.
func (c *Controller) applyPreemption(now time.Time, reading sensor.Reading) {
	if reading != sensor.Occupied {
		return
	}

	wasOccupied := c.trackState == Occupied
	c.holdAnchor = now // unconditional: reset the DownHold elapsed counter

	if wasOccupied {
		return
	}
	c.trackState = Occupied

	switch {
	case c.position == Up && c.movement == UpIdle:
		// Normal entry trigger for the Lower submachine.
		c.enterLowerLightsAndBells(now)

	case c.position == Down && c.movement == RaiseMotorOnDelay:
		// Late preemption: a second train arrives while the arm is
		// rising. Sacrifice duty-cycle protection for grade-crossing
		// safety and re-enter Lower immediately.
		if c.duty.Accumulated() > duty.Limit && !c.dutyExceeded {
			c.duty.Zero()
		}
		c.doRaiseMotorOff(now) // halts the arm; also resets flags/anchors
		c.position = Up        // optimistic: the arm is mid-travel, the next Lower drives it down regardless
		c.trackState = Occupied
		c.enterLowerLightsAndBells(now)
		c.holdAnchor = now

	case c.position == Down:
		// Already extended above; nothing further to do.
	}
}
