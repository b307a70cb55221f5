package gate

import "time"

// Timing constants, wall-clock durations for each phase.
const (
	DebounceWindow = 500 * time.Millisecond // Sensor debounce (mirrors sensor.Period).
	DirDelay       = 1 * time.Second        // After setting motor direction, before asserting motor power.
	InitRaise      = 10 * time.Second       // Duration of the boot-time raise.
	BellLead       = 3 * time.Second        // Lights/bell on before motor engages on lowering.
	MotorRunNominal     = 13 * time.Second  // Nominal motor-on duration per direction.
	MotorRunAbbrev      = 7 * time.Second   // Fallback phase length when duty exceeded.
	MotorRunAbortRaise  = 20 * time.Second  // Delay when an abort-in-raise path fires.
	DownHoldMax         = 20 * time.Second  // Max time gate stays down before auto-raise.
)

// downHoldLogEvery is how often (in phase-tick counts) DownHold emits its
// "time remaining" console line: every fifth tick.
const downHoldLogEvery = 5
