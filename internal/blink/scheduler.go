// Package blink is the polled periodic-toggle scheduler: start a named
// output blinking at a fixed period until cancelled. Like the rest of
// the controller it never blocks and never spawns a goroutine: a single
// Poll call each loop tick toggles whichever slots are due, the same
// min-due-rescan shape the teacher's measurement worker uses for its own
// pending-item timer, just driven synchronously instead of by a
// time.Timer and a background select loop.
package blink

import (
	"time"

	"github.com/srmuseum/gatekeeper/errcode"
	"github.com/srmuseum/gatekeeper/internal/ioboard"
)

// Handle is an opaque reference to a running blinker.
type Handle int

// NoSlot is the sentinel handle returned when Start has no free slot.
// Stop is idempotent on it.
const NoSlot Handle = 0

type slot struct {
	output  ioboard.OutputID
	period  time.Duration
	level   bool
	repeat  bool
	nextDue time.Time
}

// Scheduler holds a fixed number of blinker slots. The gate controller
// only ever needs two (LightsLeft, LightsRight) but the cap is a
// constructor parameter so the "no free slot" failure path is directly
// testable.
type Scheduler struct {
	board    ioboard.Board
	clock    ioboard.Clock
	maxSlots int
	slots    map[Handle]*slot
	nextID   Handle
}

// NewScheduler returns a Scheduler with room for maxSlots concurrent
// blinkers.
func NewScheduler(board ioboard.Board, clk ioboard.Clock, maxSlots int) *Scheduler {
	return &Scheduler{
		board:    board,
		clock:    clk,
		maxSlots: maxSlots,
		slots:    make(map[Handle]*slot, maxSlots),
	}
}

// Start begins toggling output every period, starting at initialLevel. If
// repeat is false the output toggles exactly once and the slot frees
// itself. Returns NoSlot when every slot is occupied; callers must treat
// that as a hard initialization failure.
func (s *Scheduler) Start(output ioboard.OutputID, period time.Duration, initialLevel, repeat bool) Handle {
	if len(s.slots) >= s.maxSlots {
		return NoSlot
	}
	s.board.Write(output, initialLevel)
	s.nextID++
	h := s.nextID
	s.slots[h] = &slot{
		output:  output,
		period:  period,
		level:   initialLevel,
		repeat:  repeat,
		nextDue: s.clock.Now().Add(period),
	}
	return h
}

// Stop cancels a blinker. Idempotent, including on NoSlot.
func (s *Scheduler) Stop(h Handle) {
	if h == NoSlot {
		return
	}
	delete(s.slots, h)
}

// Poll toggles every slot whose period has elapsed. Call once per
// controller loop iteration; never blocks.
func (s *Scheduler) Poll(now time.Time) {
	for h, sl := range s.slots {
		if now.Before(sl.nextDue) {
			continue
		}
		sl.level = !sl.level
		s.board.Write(sl.output, sl.level)
		if !sl.repeat {
			delete(s.slots, h)
			continue
		}
		sl.nextDue = sl.nextDue.Add(sl.period)
		if sl.nextDue.Before(now) {
			sl.nextDue = now.Add(sl.period)
		}
	}
}

// errNoSlot is returned (wrapped) by StartPair when a slot could not be
// reserved for either light output.
func errNoSlot(op string) error {
	return errcode.Wrap(op, errcode.NoSlot, nil)
}
