// Package rcc is the clock-tree core: it resolves a declarative clock
// request into oscillator, PLL, bus-prescaler and kernel-mux settings,
// commits them to hardware in one ordered pass, and hands out the
// frozen CoreClocks proof that every peripheral constructor requires.
package rcc

import (
	"errors"

	"clocktree-go/clkerr"
	"clocktree-go/hw"
	"clocktree-go/rcc/internal/mux"
	"clocktree-go/rcc/internal/osc"
	"clocktree-go/rcc/internal/pll"
	"clocktree-go/rcc/internal/prescale"
	"clocktree-go/rcc/internal/variant"
	"clocktree-go/types"
)

const lockPollCeiling = 100_000

// Builder accumulates a clock request and freezes it exactly once.
type Builder struct {
	regs   hw.Registers
	cfg    Config
	limits variant.Limits
	frozen bool

	// Trace, when set, receives a line-oriented log of the resolved
	// tree during Freeze (printf-style, fmtx-compatible).
	Trace func(format string, args ...any)
}

// New builds a Builder for the variant compiled into this image.
func New(regs hw.Registers, cfg Config) *Builder {
	return &Builder{regs: regs, cfg: cfg, limits: variant.Selected()}
}

// newWithLimits lets tests pin a variant regardless of build tags.
func newWithLimits(regs hw.Registers, cfg Config, lim variant.Limits) *Builder {
	return &Builder{regs: regs, cfg: cfg, limits: lim}
}

func (b *Builder) tracef(format string, args ...any) {
	if b.Trace != nil {
		b.Trace(format, args...)
	}
}

// Freeze resolves and commits the clock tree: oscillator enable, PLL
// resolution, bus prescaler validation, kernel mux resolution, then the
// register writes, with the system clock switch as the last write. Any
// failure returns before that switch, so the previously active
// configuration stays authoritative and a corrected request may be
// frozen instead. After a success, further calls fail with
// ErrAlreadyConfigured.
func (b *Builder) Freeze() (*CoreClocks, error) {
	if b.frozen {
		return nil, clkerr.ErrAlreadyConfigured
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	oscCfg := osc.Config{MSIRange: osc.MSIDefaultRange}
	if b.cfg.HSE != nil {
		oscCfg.HSEFreq = b.cfg.HSE.Freq
		oscCfg.HSEBypass = b.cfg.HSE.Bypass
	}
	if b.cfg.MSI != 0 {
		r, _ := osc.MSIRangeFor(b.cfg.MSI) // validated already
		oscCfg.MSIRange = r
	}
	model, err := osc.NewModel(b.regs, oscCfg)
	if err != nil {
		return nil, err
	}

	sysSrc := b.cfg.SysSource
	if sysSrc == types.SrcNone {
		if b.cfg.SysCk != 0 {
			sysSrc = types.SrcPLL1P
		} else {
			sysSrc = types.SrcHSI
		}
	}

	// The PLL reference is the crystal when fitted, else HSI.
	refSrc := types.SrcHSI
	if b.cfg.HSE != nil {
		refSrc = types.SrcHSE
	}

	// Oscillator enables. None of these switches a consumer clock.
	ref, err := model.Enable(refSrc)
	if err != nil {
		return nil, err
	}
	if b.cfg.MSI != 0 {
		if _, err := model.Enable(types.SrcMSI); err != nil {
			return nil, err
		}
	}
	if sysSrc.IsOscillator() {
		if _, err := model.Enable(sysSrc); err != nil {
			return nil, err
		}
	}
	// LSI only comes up when a mux preference asks for it.
	for _, s := range b.cfg.Kernel {
		if s == types.SrcLSI {
			if _, err := model.Enable(types.SrcLSI); err != nil {
				return nil, err
			}
			break
		}
	}

	// PLL resolution, pure.
	taps := [3]pll.Request{
		{P: b.cfg.PLL[0].P, Q: b.cfg.PLL[0].Q, R: b.cfg.PLL[0].R},
		{P: b.cfg.PLL[1].P, Q: b.cfg.PLL[1].Q, R: b.cfg.PLL[1].R},
		{P: b.cfg.PLL[2].P, Q: b.cfg.PLL[2].Q, R: b.cfg.PLL[2].R},
	}
	if sysSrc == types.SrcPLL1P {
		if taps[0].P != 0 && taps[0].P != b.cfg.SysCk {
			return nil, clkerr.ErrInvalidRequest
		}
		taps[0].P = b.cfg.SysCk
	}
	var (
		plls  [3]pll.Config
		pllOn [3]bool
	)
	for i := range taps {
		if taps[i].Empty() {
			continue
		}
		cfg, err := pll.Resolve(i, ref.Freq, taps[i], b.cfg.Tolerance)
		if err != nil {
			return nil, err
		}
		plls[i], pllOn[i] = cfg, true
	}

	// System clock value.
	var sysck types.Hertz
	if sysSrc == types.SrcPLL1P {
		sysck = plls[0].OutP
	} else {
		f, err := model.Frequency(sysSrc)
		if err != nil {
			return nil, err
		}
		if b.cfg.SysCk != 0 && b.cfg.SysCk != f {
			return nil, clkerr.ErrInvalidRequest
		}
		sysck = f
	}

	// Bus prescalers, pure.
	bus, err := prescale.Validate(sysck, prescale.Request(b.cfg.Prescalers), b.limits)
	if err != nil {
		return nil, err
	}

	// Kernel mux resolution, pure.
	avail := func(s types.Source) (types.Hertz, bool) {
		switch {
		case s.IsOscillator():
			r, ok := model.Enabled(s)
			return r.Freq, ok
		case s.IsPLLTap():
			i := s.PLLIndex()
			if !pllOn[i] {
				return 0, false
			}
			f := plls[i].Out(pll.Tap(s.TapIndex()))
			return f, f != 0
		case s.IsBusClock():
			for d := types.DomainAHB; d < types.NumDomains; d++ {
				if d.BusSource() == s {
					return bus.Frequency(d, sysck), true
				}
			}
		}
		return 0, false
	}
	var kernel [types.NumPeripherals]kernelEntry
	for p := types.Peripheral(0); p < types.NumPeripherals; p++ {
		pref := b.cfg.Kernel[p]
		r, err := mux.Resolve(p, pref, avail)
		if err != nil {
			if pref == types.SrcNone && errors.Is(err, clkerr.ErrNoViableSource) {
				continue // left unresolved; the gate refuses later
			}
			return nil, err
		}
		kernel[p] = kernelEntry{src: r.Source, sel: r.Sel, freq: r.Freq, ok: true}
	}

	// Commit. Everything below is a plain register write; the system
	// clock switch comes last so an earlier lock timeout leaves the
	// previous configuration running.
	for i := range plls {
		if !pllOn[i] {
			continue
		}
		b.regs.ConfigurePLL(i, plls[i].Regs())
		b.regs.EnablePLL(i)
		locked := false
		for n := 0; n <= lockPollCeiling; n++ {
			if b.regs.PLLLocked(i) {
				locked = true
				break
			}
		}
		if !locked {
			return nil, clkerr.ErrPLLLockTimeout
		}
	}
	b.regs.SetBusPrescalers(bus.Core, bus.AHB, bus.APB)
	for p := types.Peripheral(0); p < types.NumPeripherals; p++ {
		if kernel[p].ok {
			b.regs.SelectKernelClock(p, kernel[p].sel)
		}
	}
	b.regs.SelectSysClock(sysMuxFor(sysSrc))
	b.frozen = true

	cc := &CoreClocks{
		regs:   b.regs,
		sysSrc: sysSrc,
		sysck:  sysck,
		plls:   plls,
		pllOn:  pllOn,
		bus:    bus,
		kernel: kernel,
	}
	for _, s := range [4]types.Source{types.SrcHSI, types.SrcLSI, types.SrcHSE, types.SrcMSI} {
		if r, ok := model.Enabled(s); ok {
			cc.oscs[s-types.SrcHSI] = r.Freq
		}
	}

	b.tracef("sys_ck %s from %s\n", sysck.String(), sysSrc.String())
	for i := range plls {
		if pllOn[i] {
			c := plls[i]
			b.tracef("pll%d m=%d n=%d frac=%d vco=%s p=%s q=%s r=%s\n",
				i+1, c.M, c.N, c.FracN, c.VCO.String(),
				c.OutP.String(), c.OutQ.String(), c.OutR.String())
		}
	}
	b.tracef("core %s ahb %s apb %s %s %s %s\n",
		bus.CoreCk.String(), bus.AHBCk.String(),
		bus.APBCk[0].String(), bus.APBCk[1].String(),
		bus.APBCk[2].String(), bus.APBCk[3].String())

	return cc, nil
}

func sysMuxFor(s types.Source) hw.SysSource {
	switch s {
	case types.SrcMSI:
		return hw.SysMSI
	case types.SrcHSE:
		return hw.SysHSE
	case types.SrcPLL1P:
		return hw.SysPLL1P
	default:
		return hw.SysHSI
	}
}
