package blink

import (
	"time"

	"github.com/srmuseum/gatekeeper/internal/ioboard"
)

// Pair is the BlinkHandles data-model entity: a left/right pair of
// running blinker handles, or the zero value when none are live. Start
// and stop are atomic on the pair so it can never be half-live: if the
// right side fails to reserve a slot, the left side is rolled back.
type Pair struct {
	left, right Handle
	live        bool
}

// Live reports whether both handles in the pair are currently running.
func (p Pair) Live() bool { return p.live }

// StartPair starts two blinkers on left/right with the same period and
// opposite initial levels, producing anti-phase alternation. On failure
// to reserve either slot it returns a non-live Pair and a NoSlot error,
// having released any slot it did reserve.
func (s *Scheduler) StartPair(left, right ioboard.OutputID, period time.Duration) (Pair, error) {
	lh := s.Start(left, period, true, true)
	if lh == NoSlot {
		return Pair{}, errNoSlot("blink.StartPair")
	}
	rh := s.Start(right, period, false, true)
	if rh == NoSlot {
		s.Stop(lh)
		return Pair{}, errNoSlot("blink.StartPair")
	}
	return Pair{left: lh, right: rh, live: true}, nil
}

// StopPair cancels both handles in p and resets it to the zero value.
// Idempotent on an already-stopped (non-live) pair.
func (s *Scheduler) StopPair(p *Pair) {
	if !p.live {
		return
	}
	s.Stop(p.left)
	s.Stop(p.right)
	*p = Pair{}
}
