package rcc

import (
	"clocktree-go/clkerr"
	"clocktree-go/types"
)

// EnabledClockHandle proves one peripheral's bus clock is enabled and
// its reset line released. It is handed out once per peripheral; a
// driver constructor takes it by value and thereby owns that
// peripheral's clock domain.
type EnabledClockHandle struct {
	periph types.Peripheral
	freq   types.Hertz
}

// Peripheral identifies the gated peripheral.
func (h EnabledClockHandle) Peripheral() types.Peripheral { return h.periph }

// Frequency is the peripheral's resolved kernel clock.
func (h EnabledClockHandle) Frequency() types.Hertz { return h.freq }

// Enable gates a peripheral's clock domain: it requires a resolved
// kernel clock (ErrNotResolved otherwise), sets the clock-enable bit,
// pulses the reset line and returns the handle. A second Enable for
// the same peripheral fails with ErrAlreadyEnabled, so exactly one
// driver instance can own the domain.
func (c *CoreClocks) Enable(p types.Peripheral) (EnabledClockHandle, error) {
	if p >= types.NumPeripherals {
		return EnabledClockHandle{}, clkerr.ErrInvalidRequest
	}
	k := c.kernel[p]
	if !k.ok {
		return EnabledClockHandle{}, clkerr.ErrNotResolved
	}
	if c.enabled[p] {
		return EnabledClockHandle{}, clkerr.ErrAlreadyEnabled
	}
	c.regs.EnablePeripheral(p)
	c.regs.ResetPeripheral(p)
	c.enabled[p] = true
	return EnabledClockHandle{periph: p, freq: k.freq}, nil
}
