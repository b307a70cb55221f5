package gate

import (
	"fmt"
	"time"
)

// stepDownHold implements the DownHold phase: three exits, checked in
// priority order (abort takes priority over timeout, which takes
// priority over the periodic status line).
func (c *Controller) stepDownHold(now time.Time) {
	c.holdTicks++
	elapsed := now.Sub(c.holdAnchor)

	if c.dutyExceeded {
		// The arm never actually moved this cycle; still let bells/lights
		// persist for MotorRunAbortRaise before tearing down.
		c.trackState = Vacant
		c.raiseAbort = true
		c.enterRaiseDebounce(now)
		return
	}

	if elapsed >= DownHoldMax {
		c.trackState = Vacant
		c.raiseAbort = false
		c.enterRaiseDebounce(now)
		return
	}

	if c.holdTicks%downHoldLogEvery == 0 {
		remaining := DownHoldMax - elapsed
		c.log(fmt.Sprintf("Down-Hold: %d ms remaining", remaining.Milliseconds()))
	}
}
