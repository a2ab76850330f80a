// Package mux holds the per-peripheral kernel-clock multiplexer
// legality tables and resolves a selection to its register field value.
// The selector value is the position of the source in the peripheral's
// legal list, which matches the hardware encoding.
package mux

import (
	"clocktree-go/clkerr"
	"clocktree-go/types"
)

// legal lists the upstream sources each peripheral's mux can select, in
// the documented default preference order: the bus clock where the
// hardware resets to it, else the PLL tap dedicated to the peripheral
// class, then fallbacks.
var legal = [types.NumPeripherals][]types.Source{
	types.Usart1: {types.SrcAPB2, types.SrcPLL2Q, types.SrcPLL3Q, types.SrcHSI},
	types.Usart2: {types.SrcAPB1, types.SrcPLL2Q, types.SrcPLL3Q, types.SrcHSI},
	types.Spi1:   {types.SrcPLL1Q, types.SrcPLL2P, types.SrcPLL3P, types.SrcHSE},
	types.I2c1:   {types.SrcAPB1, types.SrcPLL3R, types.SrcHSI, types.SrcMSI},
	types.Sdmmc1: {types.SrcPLL1Q, types.SrcPLL2R},
	types.Fdcan:  {types.SrcHSE, types.SrcPLL1Q, types.SrcPLL2Q},
	types.Adc:    {types.SrcPLL2P, types.SrcPLL3R, types.SrcMSI},
	types.Rng:    {types.SrcPLL1Q, types.SrcLSI},
}

// Legal returns the legal upstream sources for p in default preference
// order.
func Legal(p types.Peripheral) []types.Source {
	if p >= types.NumPeripherals {
		return nil
	}
	return legal[p]
}

// Resolved is one settled multiplexer choice.
type Resolved struct {
	Periph types.Peripheral
	Source types.Source
	Sel    uint8 // register field value
	Freq   types.Hertz
}

// Lookup reports the frequency of a configured upstream source; ok is
// false when the source was never enabled or its tap is disabled.
type Lookup func(types.Source) (types.Hertz, bool)

// Resolve settles the mux for p. A non-zero pref must be legal
// (ErrIllegalSource) and configured (ErrSourceNotConfigured). With no
// preference, the default order applies and the first legal, configured
// option wins; if none qualify the result is ErrNoViableSource, never
// a silent fallback to a clock outside the legal list.
func Resolve(p types.Peripheral, pref types.Source, avail Lookup) (Resolved, error) {
	if p >= types.NumPeripherals {
		return Resolved{}, clkerr.ErrInvalidRequest
	}
	if pref != types.SrcNone {
		for i, s := range legal[p] {
			if s != pref {
				continue
			}
			f, ok := avail(s)
			if !ok {
				return Resolved{}, clkerr.ErrSourceNotConfigured
			}
			return Resolved{Periph: p, Source: s, Sel: uint8(i), Freq: f}, nil
		}
		return Resolved{}, clkerr.ErrIllegalSource
	}
	for i, s := range legal[p] {
		if f, ok := avail(s); ok {
			return Resolved{Periph: p, Source: s, Sel: uint8(i), Freq: f}, nil
		}
	}
	return Resolved{}, clkerr.ErrNoViableSource
}
