package rcc

import (
	"clocktree-go/clkerr"
	"clocktree-go/rcc/internal/osc"
	"clocktree-go/types"
)

// HSE describes a fitted external crystal, or an external oscillator
// when Bypass is set. The frequency is the measured/board value and
// must lie inside the documented crystal window.
type HSE struct {
	Freq   types.Hertz
	Bypass bool
}

// TapRequest asks for per-tap output frequencies on one PLL instance;
// zero leaves a tap disabled.
type TapRequest struct {
	P, Q, R types.Hertz
}

// Prescalers carries explicit bus dividers; zero means auto (highest
// frequency that respects the domain ceiling).
type Prescalers struct {
	Core uint16
	AHB  uint16
	APB  [4]uint8
}

// Config is the declarative clock request a Builder freezes.
type Config struct {
	// SysCk is the desired system clock. Zero together with an
	// oscillator SysSource means "run at that oscillator's frequency,
	// no PLL".
	SysCk types.Hertz

	// SysSource picks the system clock mux input. SrcNone selects
	// automatically: PLL1 P when SysCk is set, HSI otherwise.
	SysSource types.Source

	// Tolerance bounds PLL tap error. The zero value applies
	// types.DefaultTolerancePPM; use types.Exact() for 0 ppm.
	Tolerance types.Tolerance

	HSE *HSE        // nil = not fitted
	MSI types.Hertz // 0 = unused; otherwise must equal a range value

	// PLL tap requests, instance 1..3 at index 0..2. When the system
	// clock runs from PLL1 P, SysCk is merged into PLL[0].P.
	PLL [3]TapRequest

	Prescalers Prescalers

	// Kernel holds explicit per-peripheral source preferences.
	// Peripherals absent here get the documented default order; if no
	// default qualifies they are left unresolved (their gate then
	// refuses to enable them).
	Kernel map[types.Peripheral]types.Source
}

// Validate checks request shape; frequency feasibility is the freeze
// pipeline's job.
func (c Config) Validate() error {
	switch {
	case c.SysSource == types.SrcNone,
		c.SysSource == types.SrcPLL1P,
		c.SysSource.IsOscillator():
	default:
		return clkerr.ErrInvalidRequest
	}
	if c.SysSource == types.SrcPLL1P && c.SysCk == 0 {
		return clkerr.ErrInvalidRequest
	}
	// LSI is a watchdog/RTC-class clock; the system mux cannot take it.
	if c.SysSource == types.SrcLSI {
		return clkerr.ErrInvalidRequest
	}
	if c.MSI != 0 {
		if _, ok := osc.MSIRangeFor(c.MSI); !ok {
			return clkerr.ErrOutOfRange
		}
	}
	if c.SysSource == types.SrcHSE && c.HSE == nil {
		return clkerr.ErrInvalidRequest
	}
	if c.SysSource == types.SrcMSI && c.MSI == 0 {
		return clkerr.ErrInvalidRequest
	}
	for p, s := range c.Kernel {
		if p >= types.NumPeripherals || s == types.SrcNone || s >= types.NumSources {
			return clkerr.ErrInvalidRequest
		}
	}
	return nil
}
