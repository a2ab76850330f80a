package rcc

import (
	"clocktree-go/hw"
	"clocktree-go/rcc/internal/pll"
	"clocktree-go/rcc/internal/prescale"
	"clocktree-go/types"
)

type kernelEntry struct {
	src  types.Source
	sel  uint8
	freq types.Hertz
	ok   bool
}

// CoreClocks is the frozen clock tree. It is produced only by a
// successful Freeze, never mutated afterwards, and shared by reference
// with every peripheral constructor. Holding one proves the tree was
// resolved and committed.
type CoreClocks struct {
	regs hw.Registers

	sysSrc types.Source
	sysck  types.Hertz
	oscs   [4]types.Hertz // HSI/LSI/HSE/MSI; 0 = never enabled
	plls   [3]pll.Config
	pllOn  [3]bool
	bus    prescale.Set
	kernel [types.NumPeripherals]kernelEntry

	enabled [types.NumPeripherals]bool
}

// SysCk returns the system clock frequency.
func (c *CoreClocks) SysCk() types.Hertz { return c.sysck }

// SysSource returns the source driving the system clock mux.
func (c *CoreClocks) SysSource() types.Source { return c.sysSrc }

// DomainCk returns the resolved clock of a bus domain.
func (c *CoreClocks) DomainCk(d types.Domain) types.Hertz {
	if d >= types.NumDomains {
		return 0
	}
	return c.bus.Frequency(d, c.sysck)
}

// SourceCk returns the frequency of any upstream source in the frozen
// tree; ok is false for sources that were never enabled or taps left
// disabled.
func (c *CoreClocks) SourceCk(s types.Source) (types.Hertz, bool) {
	switch {
	case s.IsOscillator():
		f := c.oscs[s-types.SrcHSI]
		return f, f != 0
	case s.IsPLLTap():
		i := s.PLLIndex()
		if !c.pllOn[i] {
			return 0, false
		}
		f := c.plls[i].Out(pll.Tap(s.TapIndex()))
		return f, f != 0
	case s.IsBusClock():
		for d := types.DomainAHB; d < types.NumDomains; d++ {
			if d.BusSource() == s {
				return c.bus.Frequency(d, c.sysck), true
			}
		}
	}
	return 0, false
}

// Per-tap convenience queries; ok is false when the tap is disabled.

func (c *CoreClocks) Pll1PCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL1P) }
func (c *CoreClocks) Pll1QCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL1Q) }
func (c *CoreClocks) Pll1RCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL1R) }
func (c *CoreClocks) Pll2PCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL2P) }
func (c *CoreClocks) Pll2QCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL2Q) }
func (c *CoreClocks) Pll2RCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL2R) }
func (c *CoreClocks) Pll3PCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL3P) }
func (c *CoreClocks) Pll3QCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL3Q) }
func (c *CoreClocks) Pll3RCk() (types.Hertz, bool) { return c.SourceCk(types.SrcPLL3R) }

// Frequency returns the resolved kernel clock of a peripheral; ok is
// false when its mux was left unresolved.
func (c *CoreClocks) Frequency(p types.Peripheral) (types.Hertz, bool) {
	if p >= types.NumPeripherals {
		return 0, false
	}
	k := c.kernel[p]
	return k.freq, k.ok
}

// KernelSource returns the upstream source a peripheral's mux settled
// on.
func (c *CoreClocks) KernelSource(p types.Peripheral) (types.Source, bool) {
	if p >= types.NumPeripherals {
		return types.SrcNone, false
	}
	k := c.kernel[p]
	return k.src, k.ok
}
