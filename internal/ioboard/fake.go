package ioboard

import "sync"

// Fake is an in-memory Board used by tests and the --backend=fake CLI path.
// It records the logical level last written to each output and lets a test
// drive the single input directly, with no electrical translation beyond
// what Board.Write/Read's contract promises (logical levels only).
type Fake struct {
	mu      sync.Mutex
	outputs map[OutputID]bool
	inputs  map[InputID]bool
}

// NewFake returns a Fake with every output off and TrackSensor vacant.
func NewFake() *Fake {
	return &Fake{
		outputs: map[OutputID]bool{
			BellControl:    false,
			LightsLeft:     false,
			LightsRight:    false,
			MotorDirection: false,
			MotorPower:     false,
			StatusLed:      false,
		},
		inputs: map[InputID]bool{
			TrackSensor: false,
		},
	}
}

func (f *Fake) Write(id OutputID, logicalOn bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[id] = logicalOn
}

func (f *Fake) Read(id InputID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inputs[id]
}

func (f *Fake) Close() error { return nil }

// SetInput drives a raw input level, simulating the physical sensor. Tests
// use this to inject noisy or clean occupancy transitions.
func (f *Fake) SetInput(id InputID, level bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs[id] = level
}

// OutputState returns the last logical level written to an output.
func (f *Fake) OutputState(id OutputID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outputs[id]
}

// Snapshot returns a copy of every output's current logical level, taken
// under the Fake's lock. The heartbeat and UI packages do not use it; they
// render gate.Status snapshots from the bus.
func (f *Fake) Snapshot() map[OutputID]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[OutputID]bool, len(f.outputs))
	for k, v := range f.outputs {
		out[k] = v
	}
	return out
}
