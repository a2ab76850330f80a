// Package osc models the clock sources: the two fixed internal
// oscillators, the multispeed internal oscillator and the external
// crystal. Enabling a source toggles its hardware enable bit and
// busy-polls the ready flag with a bounded ceiling.
package osc

import (
	"clocktree-go/clkerr"
	"clocktree-go/hw"
	"clocktree-go/types"
)

const (
	hsiFreq = 64 * types.MHz
	lsiFreq = 32 * types.KHz

	hseMin = 4 * types.MHz
	hseMax = 48 * types.MHz

	// Worst-case crystal startup is a few ms; at a few cycles per poll
	// on the boot clock this ceiling is comfortably past that.
	readyPollCeiling = 100_000
)

// MSI range table, index 0..11.
var msiRanges = [12]types.Hertz{
	100 * types.KHz, 200 * types.KHz, 400 * types.KHz, 800 * types.KHz,
	1 * types.MHz, 2 * types.MHz, 4 * types.MHz, 8 * types.MHz,
	16 * types.MHz, 24 * types.MHz, 32 * types.MHz, 48 * types.MHz,
}

// MSIDefaultRange is the power-on MSI range (4 MHz).
const MSIDefaultRange = 6

// MSIRangeFor returns the range index whose frequency equals f.
func MSIRangeFor(f types.Hertz) (uint8, bool) {
	for i, r := range msiRanges {
		if r == f {
			return uint8(i), true
		}
	}
	return 0, false
}

// Config fixes the measured/selected parameters of the configurable
// sources before any enable.
type Config struct {
	HSEFreq   types.Hertz // 0 = no crystal fitted
	HSEBypass bool        // external oscillator instead of a crystal
	MSIRange  uint8       // index into the range table
}

// Ready proves a source was enabled and observed ready. Never mutated
// after the clock tree is frozen.
type Ready struct {
	Source types.Source
	Freq   types.Hertz
}

// Model owns the oscillator enable/ready registers.
type Model struct {
	regs hw.Registers
	cfg  Config

	ready [hw.NumOscs]Ready
	have  [hw.NumOscs]bool
}

func NewModel(regs hw.Registers, cfg Config) (*Model, error) {
	if cfg.HSEFreq != 0 && (cfg.HSEFreq < hseMin || cfg.HSEFreq > hseMax) {
		return nil, clkerr.ErrOutOfRange
	}
	if int(cfg.MSIRange) >= len(msiRanges) {
		return nil, clkerr.ErrOutOfRange
	}
	return &Model{regs: regs, cfg: cfg}, nil
}

// Frequency returns the nominal (or measured, for HSE) frequency of a
// source without enabling it.
func (m *Model) Frequency(src types.Source) (types.Hertz, error) {
	switch src {
	case types.SrcHSI:
		return hsiFreq, nil
	case types.SrcLSI:
		return lsiFreq, nil
	case types.SrcHSE:
		if m.cfg.HSEFreq == 0 {
			return 0, clkerr.ErrOutOfRange
		}
		return m.cfg.HSEFreq, nil
	case types.SrcMSI:
		return msiRanges[m.cfg.MSIRange], nil
	default:
		return 0, clkerr.ErrInvalidRequest
	}
}

// Enable turns the source on and waits for readiness. Enabling an
// already-ready source returns the same Ready value with no further
// hardware side effect.
func (m *Model) Enable(src types.Source) (Ready, error) {
	slot, err := oscSlot(src)
	if err != nil {
		return Ready{}, err
	}
	if m.have[slot] {
		return m.ready[slot], nil
	}

	freq, err := m.Frequency(src)
	if err != nil {
		return Ready{}, err
	}

	switch src {
	case types.SrcHSE:
		m.regs.SetHSEBypass(m.cfg.HSEBypass)
	case types.SrcMSI:
		m.regs.SetMSIRange(m.cfg.MSIRange)
	}
	m.regs.EnableOscillator(slot)

	for i := 0; ; i++ {
		if m.regs.OscillatorReady(slot) {
			break
		}
		if i >= readyPollCeiling {
			return Ready{}, clkerr.ErrOscillatorTimeout
		}
	}

	r := Ready{Source: src, Freq: freq}
	m.ready[slot] = r
	m.have[slot] = true
	return r, nil
}

// Enabled returns the Ready proof for src if Enable succeeded earlier.
func (m *Model) Enabled(src types.Source) (Ready, bool) {
	slot, err := oscSlot(src)
	if err != nil {
		return Ready{}, false
	}
	return m.ready[slot], m.have[slot]
}

func oscSlot(src types.Source) (hw.Osc, error) {
	switch src {
	case types.SrcHSI:
		return hw.OscHSI, nil
	case types.SrcLSI:
		return hw.OscLSI, nil
	case types.SrcHSE:
		return hw.OscHSE, nil
	case types.SrcMSI:
		return hw.OscMSI, nil
	default:
		return 0, clkerr.ErrInvalidRequest
	}
}
