package types

import "clocktree-go/x/conv"

// Hertz is a clock frequency. uint32 covers everything in the family
// (highest VCO is well under 1 GHz).
type Hertz uint32

const (
	Hz  Hertz = 1
	KHz Hertz = 1000 * Hz
	MHz Hertz = 1000 * KHz
)

// String renders the frequency with the largest unit that divides it
// exactly, e.g. "400MHz", "27429kHz", "32768Hz". Allocation-light and
// fmt-free so it is usable on MCU builds.
func (f Hertz) String() string {
	var buf [16]byte
	switch {
	case f == 0:
		return "0Hz"
	case f%MHz == 0:
		return string(conv.Utoa(buf[:], uint64(f/MHz))) + "MHz"
	case f%KHz == 0:
		return string(conv.Utoa(buf[:], uint64(f/KHz))) + "kHz"
	default:
		return string(conv.Utoa(buf[:], uint64(f))) + "Hz"
	}
}

// Tolerance bounds the acceptable error of a resolved frequency against
// its request. PPM applies relative to the target; Abs is a flat bound.
// When both are set the larger budget wins. The zero value means
// DefaultTolerancePPM; use Exact for a bit-exact match.
type Tolerance struct {
	PPM   uint32
	Abs   Hertz
	exact bool
}

// DefaultTolerancePPM is applied when a request leaves Tolerance zero.
const DefaultTolerancePPM = 1000

// Exact requires a bit-exact frequency match (0 ppm).
func Exact() Tolerance { return Tolerance{exact: true} }

// PPM builds a relative tolerance.
func PPM(ppm uint32) Tolerance { return Tolerance{PPM: ppm} }

// Budget returns the maximum permitted absolute error in Hz for target.
func (t Tolerance) Budget(target Hertz) uint64 {
	if t.exact {
		return 0
	}
	if t.PPM == 0 && t.Abs == 0 {
		t.PPM = DefaultTolerancePPM
	}
	rel := uint64(target) * uint64(t.PPM) / 1_000_000
	if uint64(t.Abs) > rel {
		return uint64(t.Abs)
	}
	return rel
}
