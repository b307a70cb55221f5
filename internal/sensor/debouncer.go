// Package sensor turns a noisy digital occupancy input into a stable
// Occupied/Vacant reading with edge events. The debounce rule is a
// stateful pending/commit/revert model, not a simple "ignore changes
// inside a cooldown window" debounce: a candidate value must hold for the
// full window before it commits, and reverting to the last stable value
// at any point before commit cancels the pending transition outright.
package sensor

import (
	"time"

	"github.com/srmuseum/gatekeeper/internal/ioboard"
)

// Reading is the debounced occupancy signal.
type Reading bool

const (
	Vacant   Reading = false
	Occupied Reading = true
)

func (r Reading) String() string {
	if r == Occupied {
		return "Occupied"
	}
	return "Vacant"
}

// Period is the fixed debounce window.
const Period = 500 * time.Millisecond

// Debouncer holds the last stable reading plus the pending candidate (if
// any) waiting to commit. The zero Debouncer is not usable; construct
// with New.
type Debouncer struct {
	board ioboard.Board

	// OnCommit, if set, fires once per committed transition with the new
	// stable reading. The debouncer's "Detected"/"Cleared" log line is the
	// caller's responsibility via this hook, keeping this package free of
	// any particular logging sink.
	OnCommit func(Reading)

	lastStable Reading
	pending    bool
	pendingAt  time.Time
	pendingVal Reading
}

// New returns a Debouncer whose initial stable reading is Vacant.
func New(board ioboard.Board) *Debouncer {
	return &Debouncer{board: board, lastStable: Vacant}
}

// Sample feeds one raw reading and the current time, returning the
// debounced stable value.
func (d *Debouncer) Sample(raw Reading, now time.Time) Reading {
	if raw == d.lastStable {
		d.pending = false
		return d.lastStable
	}

	if !d.pending {
		d.pending = true
		d.pendingAt = now
		d.pendingVal = raw
		return d.lastStable
	}

	if now.Sub(d.pendingAt) >= Period {
		d.lastStable = d.pendingVal
		d.pending = false
		d.board.Write(ioboard.StatusLed, d.lastStable == Occupied)
		if d.OnCommit != nil {
			d.OnCommit(d.lastStable)
		}
		return d.lastStable
	}

	return d.lastStable
}

// Stable returns the last committed reading without sampling.
func (d *Debouncer) Stable() Reading { return d.lastStable }

// ReadingFromBoard converts the board's raw boolean TrackSensor level into
// a Reading. The encoding (1 = occupied) is fixed at compile time.
func ReadingFromBoard(board ioboard.Board) Reading {
	return Reading(board.Read(ioboard.TrackSensor))
}
