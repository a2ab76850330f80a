//go:build stm32h7

package hw

import (
	"runtime/volatile"
	"unsafe"

	"clocktree-go/types"
)

// Clock-control block register layout. Offsets follow the family
// reference manual; only the fields this core programs are modelled.
type rccType struct {
	cr        volatile.Register32 // oscillator enable/ready
	hsecfgr   volatile.Register32 // HSE bypass
	msicfgr   volatile.Register32 // MSI range
	cfgr      volatile.Register32 // system clock mux
	buscfgr   volatile.Register32 // core + AHB prescalers
	pclkcfgr  volatile.Register32 // APB1..APB4 prescalers
	_         [2]volatile.Register32
	pll       [3]pllRegsType
	ccipr     [2]volatile.Register32 // kernel clock mux fields, 4 bits each
	_         [6]volatile.Register32
	gateenr   volatile.Register32 // peripheral clock enable bits
	gaterster volatile.Register32 // peripheral reset pulse bits
}

type pllRegsType struct {
	cfgr  volatile.Register32 // M, range select, enable
	divr  volatile.Register32 // N, P, Q, R
	fracr volatile.Register32 // FRACN
}

const rccBase = 0x58024400

var rcc = (*rccType)(unsafe.Pointer(uintptr(rccBase)))

// CR bit pairs: enable at 2*o, ready at 2*o+1.
func oscOnBit(o Osc) uint32  { return 1 << (2 * uint32(o)) }
func oscRdyBit(o Osc) uint32 { return 1 << (2*uint32(o) + 1) }

// PLL enable at bit 16+idx in CR, lock at bit 20+idx.
func pllOnBit(idx int) uint32  { return 1 << (16 + uint32(idx)) }
func pllRdyBit(idx int) uint32 { return 1 << (20 + uint32(idx)) }

// MMIO programs the real clock-control block.
type MMIO struct{}

func NewMMIO() *MMIO { return &MMIO{} }

func (*MMIO) EnableOscillator(o Osc) { rcc.cr.SetBits(oscOnBit(o)) }

func (*MMIO) OscillatorReady(o Osc) bool { return rcc.cr.HasBits(oscRdyBit(o)) }

func (*MMIO) SetMSIRange(idx uint8) {
	rcc.msicfgr.ReplaceBits(uint32(idx), 0xF, 0)
}

func (*MMIO) SetHSEBypass(on bool) {
	if on {
		rcc.hsecfgr.SetBits(1)
	} else {
		rcc.hsecfgr.ClearBits(1)
	}
}

func (*MMIO) ConfigurePLL(idx int, r PLLRegs) {
	cfgr := uint32(r.M) & 0x3F
	if r.Wide {
		cfgr |= 1 << 8
	}
	rcc.pll[idx].cfgr.Set(cfgr)

	// N-1 and DIVx-1 encodings; a disabled tap keeps its field zero and
	// its enable bit clear.
	divr := (uint32(r.N) - 1) & 0x1FF
	if r.DivP != 0 {
		divr |= (uint32(r.DivP) - 1) << 9
		divr |= 1 << 16
	}
	if r.DivQ != 0 {
		divr |= (uint32(r.DivQ) - 1) << 17
		divr |= 1 << 24
	}
	if r.DivR != 0 {
		divr |= (uint32(r.DivR) - 1) << 25
		// R enable lives in fracr to keep divr within 32 bits.
	}
	rcc.pll[idx].divr.Set(divr)

	fracr := uint32(r.FracN) << 3
	if r.FracN != 0 {
		fracr |= 1 // FRACEN
	}
	if r.DivR != 0 {
		fracr |= 1 << 16
	}
	rcc.pll[idx].fracr.Set(fracr)
}

func (*MMIO) EnablePLL(idx int) { rcc.cr.SetBits(pllOnBit(idx)) }

func (*MMIO) PLLLocked(idx int) bool { return rcc.cr.HasBits(pllRdyBit(idx)) }

func (*MMIO) SetBusPrescalers(core, ahb uint16, apb [4]uint8) {
	rcc.buscfgr.Set(uint32(prescField(core)) | uint32(prescField(ahb))<<4)
	var p uint32
	for i, d := range apb {
		p |= uint32(apbField(d)) << (4 * uint32(i))
	}
	rcc.pclkcfgr.Set(p)
}

func (*MMIO) SelectSysClock(s SysSource) {
	rcc.cfgr.ReplaceBits(uint32(s), 0x7, 0)
	for rcc.cfgr.Get()>>3&0x7 != uint32(s) {
	}
}

func (*MMIO) SelectKernelClock(p types.Peripheral, sel uint8) {
	word := int(p) / 8
	shift := (uint32(p) % 8) * 4
	rcc.ccipr[word].ReplaceBits(uint32(sel), 0xF, uint8(shift))
}

func (*MMIO) EnablePeripheral(p types.Peripheral) {
	rcc.gateenr.SetBits(1 << uint32(p))
	// Read back to complete the enable before the reset pulse.
	_ = rcc.gateenr.Get()
}

func (*MMIO) ResetPeripheral(p types.Peripheral) {
	rcc.gaterster.SetBits(1 << uint32(p))
	rcc.gaterster.ClearBits(1 << uint32(p))
}

// prescField encodes a core/AHB divider into its 4-bit register field.
// /32 does not exist in this family, hence the gap after /16.
func prescField(div uint16) uint8 {
	switch div {
	case 2:
		return 8
	case 4:
		return 9
	case 8:
		return 10
	case 16:
		return 11
	case 64:
		return 12
	case 128:
		return 13
	case 256:
		return 14
	case 512:
		return 15
	default:
		return 0 // /1
	}
}

// apbField encodes an APB divider {1,2,4,8,16} into its 3-bit field.
func apbField(div uint8) uint8 {
	switch div {
	case 2:
		return 4
	case 4:
		return 5
	case 8:
		return 6
	case 16:
		return 7
	default:
		return 0 // /1
	}
}
