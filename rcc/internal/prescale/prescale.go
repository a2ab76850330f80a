// Package prescale selects and validates the bus-domain divider chain:
// sys feeds Core, Core feeds AHB, AHB feeds the APB domains. Validation
// is against the ceiling table of the active silicon variant and never
// clamps: an explicit choice over a ceiling is refused.
package prescale

import (
	"clocktree-go/clkerr"
	"clocktree-go/rcc/internal/variant"
	"clocktree-go/types"
)

// Legal divider values.
var (
	coreDividers = [...]uint16{1, 2, 4, 8, 16, 64, 128, 256, 512}
	apbDividers  = [...]uint8{1, 2, 4, 8, 16}
)

// Request carries explicit dividers; zero means auto (smallest legal
// divider whose result respects the ceiling).
type Request struct {
	Core uint16
	AHB  uint16
	APB  [4]uint8
}

// Set is the validated result: the dividers and every resulting domain
// frequency.
type Set struct {
	Core uint16
	AHB  uint16
	APB  [4]uint8

	CoreCk types.Hertz
	AHBCk  types.Hertz
	APBCk  [4]types.Hertz
}

// Frequency returns the resolved clock of a domain; sys is the input
// frequency validation ran with.
func (s Set) Frequency(d types.Domain, sys types.Hertz) types.Hertz {
	switch d {
	case types.DomainSys:
		return sys
	case types.DomainCore:
		return s.CoreCk
	case types.DomainAHB:
		return s.AHBCk
	default:
		return s.APBCk[d-types.DomainAPB1]
	}
}

// Validate resolves the divider chain for sys against lim.
func Validate(sys types.Hertz, req Request, lim variant.Limits) (Set, error) {
	if sys == 0 {
		return Set{}, clkerr.ErrInvalidRequest
	}
	if sys > lim.SysMax {
		return Set{}, &clkerr.CeilingExceeded{
			Domain: types.DomainSys, Freq: sys, Ceiling: lim.SysMax,
		}
	}

	var out Set
	core, coreCk, err := pickCore(sys, req.Core, lim.CoreMax, types.DomainCore)
	if err != nil {
		return Set{}, err
	}
	out.Core, out.CoreCk = core, coreCk

	ahb, ahbCk, err := pickCore(coreCk, req.AHB, lim.AHBMax, types.DomainAHB)
	if err != nil {
		return Set{}, err
	}
	out.AHB, out.AHBCk = ahb, ahbCk

	for i := range out.APB {
		domain := types.DomainAPB1 + types.Domain(i)
		div, ck, err := pickAPB(ahbCk, req.APB[i], lim.APBMax, domain)
		if err != nil {
			return Set{}, err
		}
		out.APB[i], out.APBCk[i] = div, ck
	}
	return out, nil
}

func pickCore(in types.Hertz, want uint16, ceiling types.Hertz, d types.Domain) (uint16, types.Hertz, error) {
	if want != 0 {
		if !legalCore(want) {
			return 0, 0, clkerr.ErrInvalidRequest
		}
		ck := in / types.Hertz(want)
		if ck > ceiling {
			return 0, 0, &clkerr.CeilingExceeded{Domain: d, Freq: ck, Ceiling: ceiling}
		}
		return want, ck, nil
	}
	for _, div := range coreDividers {
		if ck := in / types.Hertz(div); ck <= ceiling {
			return div, ck, nil
		}
	}
	// Ceiling tables guarantee in/512 fits; reaching here means the
	// table itself is broken.
	panic("prescale: no legal divider for domain " + d.String())
}

func pickAPB(in types.Hertz, want uint8, ceiling types.Hertz, d types.Domain) (uint8, types.Hertz, error) {
	if want != 0 {
		if !legalAPB(want) {
			return 0, 0, clkerr.ErrInvalidRequest
		}
		ck := in / types.Hertz(want)
		if ck > ceiling {
			return 0, 0, &clkerr.CeilingExceeded{Domain: d, Freq: ck, Ceiling: ceiling}
		}
		return want, ck, nil
	}
	for _, div := range apbDividers {
		if ck := in / types.Hertz(div); ck <= ceiling {
			return div, ck, nil
		}
	}
	panic("prescale: no legal divider for domain " + d.String())
}

func legalCore(div uint16) bool {
	for _, d := range coreDividers {
		if d == div {
			return true
		}
	}
	return false
}

func legalAPB(div uint8) bool {
	for _, d := range apbDividers {
		if d == div {
			return true
		}
	}
	return false
}
