// Package hw is the only writer of clock-control registers. The rcc core
// drives it through the Registers interface; hardware builds use the MMIO
// implementation, host builds and tests use Sim.
package hw

import "clocktree-go/types"

// Osc indexes an oscillator enable/ready slot.
type Osc uint8

const (
	OscHSI Osc = iota
	OscLSI
	OscHSE
	OscMSI

	NumOscs
)

// PLLRegs is the register image for one PLL instance. A zero divider
// leaves that tap disabled.
type PLLRegs struct {
	M     uint8  // input divider, 1..63
	N     uint16 // VCO multiplier integer part, 4..512
	FracN uint16 // fractional part, /8192
	Wide  bool   // VCO range select: wide or medium

	DivP uint8
	DivQ uint8
	DivR uint8
}

// SysSource is the system clock multiplexer selection.
type SysSource uint8

const (
	SysHSI SysSource = iota
	SysMSI
	SysHSE
	SysPLL1P
)

// Registers abstracts the clock-control block. Calls are ordered by the
// rcc core; implementations perform the write and nothing else.
type Registers interface {
	// Oscillators
	EnableOscillator(o Osc)
	OscillatorReady(o Osc) bool
	SetMSIRange(idx uint8)
	SetHSEBypass(on bool)

	// PLLs (idx 0..2)
	ConfigurePLL(idx int, r PLLRegs)
	EnablePLL(idx int)
	PLLLocked(idx int) bool

	// Bus prescalers
	SetBusPrescalers(core, ahb uint16, apb [4]uint8)

	// System clock mux. This is the commit point of a clock switch.
	SelectSysClock(s SysSource)

	// Per-peripheral kernel clock mux and clock-domain gate.
	SelectKernelClock(p types.Peripheral, sel uint8)
	EnablePeripheral(p types.Peripheral)
	ResetPeripheral(p types.Peripheral)
}
