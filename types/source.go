package types

// Source identifies one upstream clock in the tree: an oscillator, a PLL
// output tap, or a bus clock. Peripherals select among a fixed legal
// subset via their kernel-clock multiplexer.
type Source uint8

const (
	SrcNone Source = iota

	// Oscillators.
	SrcHSI // internal high-speed, 64 MHz
	SrcLSI // internal low-power, 32 kHz
	SrcHSE // external crystal (or bypass oscillator)
	SrcMSI // internal multispeed, range-selectable

	// PLL output taps.
	SrcPLL1P
	SrcPLL1Q
	SrcPLL1R
	SrcPLL2P
	SrcPLL2Q
	SrcPLL2R
	SrcPLL3P
	SrcPLL3Q
	SrcPLL3R

	// Bus clocks.
	SrcAHB
	SrcAPB1
	SrcAPB2
	SrcAPB3
	SrcAPB4

	NumSources
)

var sourceNames = [NumSources]string{
	SrcNone:  "none",
	SrcHSI:   "hsi",
	SrcLSI:   "lsi",
	SrcHSE:   "hse",
	SrcMSI:   "msi",
	SrcPLL1P: "pll1_p",
	SrcPLL1Q: "pll1_q",
	SrcPLL1R: "pll1_r",
	SrcPLL2P: "pll2_p",
	SrcPLL2Q: "pll2_q",
	SrcPLL2R: "pll2_r",
	SrcPLL3P: "pll3_p",
	SrcPLL3Q: "pll3_q",
	SrcPLL3R: "pll3_r",
	SrcAHB:   "ahb",
	SrcAPB1:  "apb1",
	SrcAPB2:  "apb2",
	SrcAPB3:  "apb3",
	SrcAPB4:  "apb4",
}

func (s Source) String() string {
	if s >= NumSources {
		return "invalid"
	}
	return sourceNames[s]
}

// ParseSource maps a name as used in plan files back to a Source.
func ParseSource(name string) (Source, bool) {
	for i, n := range sourceNames {
		if n == name {
			return Source(i), true
		}
	}
	return SrcNone, false
}

// IsOscillator reports whether s is one of the oscillator sources.
func (s Source) IsOscillator() bool { return s >= SrcHSI && s <= SrcMSI }

// IsPLLTap reports whether s is a PLL output tap.
func (s Source) IsPLLTap() bool { return s >= SrcPLL1P && s <= SrcPLL3R }

// IsBusClock reports whether s is a bus clock.
func (s Source) IsBusClock() bool { return s >= SrcAHB && s <= SrcAPB4 }

// PLLIndex returns the 0-based PLL instance for a tap source.
func (s Source) PLLIndex() int { return int(s-SrcPLL1P) / 3 }

// TapIndex returns 0/1/2 for the P/Q/R tap of a tap source.
func (s Source) TapIndex() int { return int(s-SrcPLL1P) % 3 }
