// Package ioboard is the Clock & Output abstraction: a monotonic clock and
// a small set of named digital outputs/inputs, with the binding to
// electrical polarity isolated in exactly one place (Board.Write/Read
// implementations). Everything above this package thinks in logical
// on/off/up/down, never in pin levels.
package ioboard

import (
	"time"

	"github.com/benbjohnson/clock"
)

// OutputID names a physical actuator line. The set is closed; there is no
// way to address an output that isn't one of these six.
type OutputID int

const (
	BellControl OutputID = iota
	LightsLeft
	LightsRight
	MotorDirection
	MotorPower
	StatusLed
)

func (o OutputID) String() string {
	switch o {
	case BellControl:
		return "BellControl"
	case LightsLeft:
		return "LightsLeft"
	case LightsRight:
		return "LightsRight"
	case MotorDirection:
		return "MotorDirection"
	case MotorPower:
		return "MotorPower"
	case StatusLed:
		return "StatusLed"
	default:
		return "Unknown"
	}
}

// InputID names a digital sensor line. Only TrackSensor exists today.
type InputID int

const (
	TrackSensor InputID = iota
)

func (i InputID) String() string {
	switch i {
	case TrackSensor:
		return "TrackSensor"
	default:
		return "Unknown"
	}
}

// pinNumber documents the historical physical wiring from the original
// crossing-guard build. Deployment-specific; not consulted by the fake
// backend and only used by the hw backend to pick a GPIO line.
var pinNumber = map[OutputID]int{
	BellControl:    12,
	LightsRight:    11,
	LightsLeft:     10,
	MotorDirection: 9,
	MotorPower:     8,
	StatusLed:      3,
}

const trackSensorPin = 2

// polarity records whether "logical on" is the electrical high or low
// level for a given output, carried over from the original wiring
// (SRMcrossGate_types.h): bell and lights are active-low, the rest
// active-high.
var polarity = map[OutputID]bool{
	BellControl:    false, // active-low: logical on -> electrical 0
	LightsLeft:     false,
	LightsRight:    false,
	MotorDirection: true, // 1 = up
	MotorPower:     true, // 1 = on
	StatusLed:      true, // 1 = on
}

func electricalLevel(id OutputID, logicalOn bool) bool {
	if polarity[id] {
		return logicalOn
	}
	return !logicalOn
}

// Board is the physical-I/O boundary: write a named output's logical
// level, read a named input's logical level. Implementations own the
// electrical polarity translation; callers never see a raw pin level.
type Board interface {
	Write(id OutputID, logicalOn bool)
	Read(id InputID) bool
	Close() error
}

// Clock is the monotonic time source the whole controller is driven by.
// Wrapping benbjohnson/clock lets tests substitute a mock and advance
// time deterministically instead of sleeping in real time. The
// controller loop is polled, not timer-driven (every wait is an
// anchor/duration pair checked against Now()), so the interface exposes
// only what a poll loop needs.
type Clock interface {
	Now() time.Time
}

type realClock struct {
	clock.Clock
}

// NewRealClock returns the Clock backed by the wall clock.
func NewRealClock() Clock {
	return realClock{Clock: clock.New()}
}

// MockClock exposes the underlying benbjohnson/clock mock so tests can
// call Add/Set directly while satisfying the Clock interface for
// production code under test.
type MockClock struct {
	*clock.Mock
}

// NewMockClock returns a Clock fixed at the Unix epoch; advance it with
// (*MockClock).Add in tests.
func NewMockClock() *MockClock {
	return &MockClock{Mock: clock.NewMock()}
}
