//go:build linux

package ioboard

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// HW is the real Linux GPIO backend, a gpioreg-backed Board. It is never
// exercised by the test suite (it requires an actual header), only wired
// through cmd/gatectl's --backend=hw path.
type HW struct {
	outputs map[OutputID]gpio.PinIO
	input   gpio.PinIO
}

// NewHW opens the kernel GPIO driver stack and binds every OutputID/InputID
// to a numbered pin via the historical wiring in pinNumber/trackSensorPin.
// The electrical level written/read is always translated through
// electricalLevel so callers above this package never deal in raw levels.
func NewHW() (*HW, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ioboard: periph host init: %w", err)
	}

	hw := &HW{outputs: make(map[OutputID]gpio.PinIO, len(pinNumber))}

	for id, num := range pinNumber {
		pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", num))
		if pin == nil {
			return nil, fmt.Errorf("ioboard: no GPIO pin for %s (number %d)", id, num)
		}
		initial := electricalLevel(id, false)
		if err := pin.Out(gpio.Level(initial)); err != nil {
			return nil, fmt.Errorf("ioboard: configure output %s: %w", id, err)
		}
		hw.outputs[id] = pin
	}

	sensor := gpioreg.ByName(fmt.Sprintf("GPIO%d", trackSensorPin))
	if sensor == nil {
		return nil, fmt.Errorf("ioboard: no GPIO pin for TrackSensor (number %d)", trackSensorPin)
	}
	if err := sensor.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("ioboard: configure TrackSensor input: %w", err)
	}
	hw.input = sensor

	return hw, nil
}

func (h *HW) Write(id OutputID, logicalOn bool) {
	pin, ok := h.outputs[id]
	if !ok {
		return
	}
	_ = pin.Out(gpio.Level(electricalLevel(id, logicalOn)))
}

func (h *HW) Read(id InputID) bool {
	if id != TrackSensor || h.input == nil {
		return false
	}
	// TrackSensor's raw/logical mapping is a compile-time constant per
	// spec: 1 = occupied on the wire, which is already "logical true".
	return bool(h.input.Read())
}

func (h *HW) Close() error {
	return nil
}
