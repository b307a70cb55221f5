//go:build !linux

package ioboard

import "errors"

// HW is unavailable outside Linux; periph.io/x/host's Linux-specific
// sysfs/gpiomem drivers have nothing to bind to elsewhere.
type HW struct{}

func NewHW() (*HW, error) {
	return nil, errors.New("ioboard: hw backend requires linux")
}

func (h *HW) Write(OutputID, bool) {}
func (h *HW) Read(InputID) bool    { return false }
func (h *HW) Close() error         { return nil }
