package gate

import (
	"time"

	"github.com/srmuseum/gatekeeper/bus"
)

// Bus topics the controller publishes on. TopicLog carries the exact
// human-readable console lines (the console package subscribes and
// prints them verbatim, one per event, no machine schema). TopicStatus
// is a retained snapshot consumed by the heartbeat service and the UI.
var (
	TopicLog    = bus.T("gate", "log")
	TopicStatus = bus.T("gate", "status")
)

// Status is the retained snapshot published at the end of every Step and
// republished on every heartbeat tick.
type Status struct {
	Position       GatePosition
	TrackState     TrackState
	Movement       MovementState
	DutyExceeded   bool
	Accumulated    time.Duration
	BlinkersLive   bool
	HoldRemaining  time.Duration // only meaningful while Movement == DownHold
}

// Snapshot returns the controller's current state as a Status value.
// Called only from within the controller's own goroutine (publishStatus,
// on every Step); observers on other goroutines get this data by
// subscribing to TopicStatus instead of calling Snapshot directly.
func (c *Controller) Snapshot() Status {
	st := Status{
		Position:     c.position,
		TrackState:   c.trackState,
		Movement:     c.movement,
		DutyExceeded: c.dutyExceeded,
		Accumulated:  c.duty.Accumulated(),
		BlinkersLive: c.blinkers.Live(),
	}
	if c.movement == DownHold {
		elapsed := c.lastNow.Sub(c.holdAnchor)
		if elapsed < DownHoldMax {
			st.HoldRemaining = DownHoldMax - elapsed
		}
	}
	return st
}

func (c *Controller) publishStatus() {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(TopicStatus, c.Snapshot(), true))
}

// log emits exactly one console line, one line per event with no machine
// schema, and mirrors it to the internal diagnostic logger at debug level
// for anyone tailing structured logs.
func (c *Controller) log(line string) {
	if c.diag != nil {
		c.diag.Debugw("console line", "line", line)
	}
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(TopicLog, line, false))
}
