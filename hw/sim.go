package hw

import "clocktree-go/types"

// Sim is an in-memory Registers implementation for host builds and
// tests. Readiness is modelled as a poll count so timeout paths can be
// exercised deterministically.
type Sim struct {
	// ReadyAfter[o] is how many OscillatorReady polls must happen after
	// enable before the oscillator reports ready. -1 means never.
	ReadyAfter [NumOscs]int
	// LockAfter[i] is the same for PLL lock. -1 means never.
	LockAfter [3]int

	oscEnabled [NumOscs]bool
	oscPolls   [NumOscs]int
	oscEnables [NumOscs]int // total EnableOscillator calls, for idempotence tests

	MSIRange  uint8
	HSEBypass bool

	PLL        [3]PLLRegs
	pllEnabled [3]bool
	pllPolls   [3]int

	Core uint16
	AHB  uint16
	APB  [4]uint8

	Sys        SysSource
	SysWrites  int // SelectSysClock call count; 0 after a failed freeze
	KernelSel  [types.NumPeripherals]uint8
	KernelSet  [types.NumPeripherals]bool
	Enabled    [types.NumPeripherals]bool
	ResetCount [types.NumPeripherals]int
}

// NewSim returns a simulator where everything becomes ready immediately.
func NewSim() *Sim {
	return &Sim{}
}

func (s *Sim) EnableOscillator(o Osc) {
	if !s.oscEnabled[o] {
		s.oscEnabled[o] = true
		s.oscPolls[o] = 0
	}
	s.oscEnables[o]++
}

func (s *Sim) OscillatorReady(o Osc) bool {
	if !s.oscEnabled[o] {
		return false
	}
	if s.ReadyAfter[o] < 0 {
		return false
	}
	if s.oscPolls[o] >= s.ReadyAfter[o] {
		return true
	}
	s.oscPolls[o]++
	return false
}

func (s *Sim) SetMSIRange(idx uint8) { s.MSIRange = idx }
func (s *Sim) SetHSEBypass(on bool)  { s.HSEBypass = on }

func (s *Sim) ConfigurePLL(idx int, r PLLRegs) { s.PLL[idx] = r }

func (s *Sim) EnablePLL(idx int) {
	if !s.pllEnabled[idx] {
		s.pllEnabled[idx] = true
		s.pllPolls[idx] = 0
	}
}

func (s *Sim) PLLLocked(idx int) bool {
	if !s.pllEnabled[idx] {
		return false
	}
	if s.LockAfter[idx] < 0 {
		return false
	}
	if s.pllPolls[idx] >= s.LockAfter[idx] {
		return true
	}
	s.pllPolls[idx]++
	return false
}

func (s *Sim) SetBusPrescalers(core, ahb uint16, apb [4]uint8) {
	s.Core, s.AHB, s.APB = core, ahb, apb
}

func (s *Sim) SelectSysClock(src SysSource) {
	s.Sys = src
	s.SysWrites++
}

func (s *Sim) SelectKernelClock(p types.Peripheral, sel uint8) {
	s.KernelSel[p] = sel
	s.KernelSet[p] = true
}

func (s *Sim) EnablePeripheral(p types.Peripheral) { s.Enabled[p] = true }
func (s *Sim) ResetPeripheral(p types.Peripheral) { s.ResetCount[p]++ }

// OscEnableCount reports EnableOscillator calls for o.
func (s *Sim) OscEnableCount(o Osc) int { return s.oscEnables[o] }
