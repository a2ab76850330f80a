// Package pll resolves divider/multiplier settings for one PLL
// instance. Resolve is pure: it searches the legal M/N/FRACN/P/Q/R
// space exhaustively and never touches hardware. The space is small
// (input-window pruning leaves at most a few thousand candidates), so
// exhaustive search runs once at startup in negligible time; a
// closed-form shortcut would miss the piecewise range constraints.
package pll

import (
	"clocktree-go/clkerr"
	"clocktree-go/hw"
	"clocktree-go/types"
	"clocktree-go/x/mathx"
)

// Tap is one of the three independent output dividers.
type Tap uint8

const (
	TapP Tap = iota
	TapQ
	TapR

	numTaps
)

func (t Tap) Letter() byte { return [numTaps]byte{'P', 'Q', 'R'}[t] }

// Request holds the desired output frequency per tap; zero leaves the
// tap disabled.
type Request struct {
	P, Q, R types.Hertz
}

func (r Request) tap(t Tap) types.Hertz {
	switch t {
	case TapP:
		return r.P
	case TapQ:
		return r.Q
	default:
		return r.R
	}
}

// Empty reports whether no tap is requested.
func (r Request) Empty() bool { return r.P == 0 && r.Q == 0 && r.R == 0 }

// Range selects the VCO window.
type Range uint8

const (
	RangeMedium Range = iota
	RangeWide
)

// Hardware limits.
const (
	mMin, mMax     = 1, 63
	nMin, nMax     = 4, 512
	divMin, divMax = 1, 128
	fracScale      = 8192 // FRACN denominator
)

var rangeLimits = [2]struct {
	inMin, inMax   types.Hertz
	vcoMin, vcoMax types.Hertz
}{
	RangeMedium: {1 * types.MHz, 2 * types.MHz, 150 * types.MHz, 420 * types.MHz},
	RangeWide:   {2 * types.MHz, 16 * types.MHz, 192 * types.MHz, 836 * types.MHz},
}

// Config is a fully resolved PLL setting. Output frequencies are the
// exact values the dividers produce, not the requested ones.
type Config struct {
	M     uint8
	N     uint16
	FracN uint16
	Range Range

	P, Q, R uint8 // 0 = tap disabled

	VCO              types.Hertz
	OutP, OutQ, OutR types.Hertz
}

// Out returns the resolved frequency of a tap (0 if disabled).
func (c Config) Out(t Tap) types.Hertz {
	switch t {
	case TapP:
		return c.OutP
	case TapQ:
		return c.OutQ
	default:
		return c.OutR
	}
}

// Regs converts the config to its register image.
func (c Config) Regs() hw.PLLRegs {
	return hw.PLLRegs{
		M:     c.M,
		N:     c.N,
		FracN: c.FracN,
		Wide:  c.Range == RangeWide,
		DivP:  c.P,
		DivQ:  c.Q,
		DivR:  c.R,
	}
}

// Resolve searches for the best configuration of PLL instance index
// (0-based; index 0 restricts the P divider to even values) fed from
// ref, so that every requested tap lands within tol of its target.
// Among passing candidates it minimizes the summed per-tap error and
// breaks ties toward the lower VCO frequency.
func Resolve(index int, ref types.Hertz, req Request, tol types.Tolerance) (Config, error) {
	if index < 0 || index > 2 || ref == 0 || req.Empty() {
		return Config{}, clkerr.ErrInvalidRequest
	}

	primary := TapP
	for t := TapP; t < numTaps; t++ {
		if req.tap(t) != 0 {
			primary = t
			break
		}
	}
	primaryTarget := req.tap(primary)

	var (
		found   bool
		best    Config
		bestErr uint64
		tapBest [numTaps]uint64 // per-tap minimum error over all candidates
	)
	for t := range tapBest {
		tapBest[t] = ^uint64(0)
	}

	for m := mMin; m <= mMax; m++ {
		for rng := RangeMedium; rng <= RangeWide; rng++ {
			lim := rangeLimits[rng]
			// Post-M reference window check, on exact rationals:
			// inMin <= ref/m <= inMax.
			if uint64(ref) < uint64(lim.inMin)*uint64(m) ||
				uint64(ref) > uint64(lim.inMax)*uint64(m) {
				continue
			}

			// VCO candidates come from every requested tap: for each of
			// its legal output dividers, the VCO that makes the tap
			// exact plus the two that park it on its tolerance boundary.
			// The joint error is piecewise linear in the VCO, so its
			// constrained minimum sits on a tap-exact point or on a
			// boundary; visiting all of them keeps the search exhaustive
			// even when no single tap can be exact.
			for gt := TapP; gt < numTaps; gt++ {
				gTarget := req.tap(gt)
				if gTarget == 0 {
					continue
				}
				slack := tol.Budget(gTarget)
				if slack >= uint64(gTarget) {
					slack = uint64(gTarget) - 1
				}
				dStep := 1
				dLo := divMin
				if index == 0 && gt == TapP {
					dStep, dLo = 2, 2
				}
				for d := dLo; d <= divMax; d += dStep {
					for _, want := range [3]uint64{
						(uint64(gTarget) - slack) * uint64(d),
						uint64(gTarget) * uint64(d),
						(uint64(gTarget) + slack) * uint64(d),
					} {
						if want < uint64(lim.vcoMin) || want > uint64(lim.vcoMax) {
							continue
						}

						// N.FracN = want * m / ref, scaled by fracScale.
						// The rounding step can land a boundary candidate
						// just outside its window, so both neighbours are
						// scored too.
						nMid := mathx.RoundDiv(want*uint64(m)*fracScale, uint64(ref))
						for _, nScaled := range [3]uint64{nMid - 1, nMid, nMid + 1} {
							if nScaled < nMin*fracScale || nScaled > nMax*fracScale {
								continue
							}
							n := uint16(nScaled / fracScale)
							frac := uint16(nScaled % fracScale)

							// Exact output of tap t with divider dt is
							// num / (fracScale * m * dt).
							num := uint64(ref) * nScaled
							vcoDen := uint64(fracScale) * uint64(m)
							vco := mathx.RoundDiv(num, vcoDen)
							if vco < uint64(lim.vcoMin) || vco > uint64(lim.vcoMax) {
								continue
							}

							cfg := Config{
								M:     uint8(m),
								N:     n,
								FracN: frac,
								Range: rng,
								VCO:   types.Hertz(vco),
							}
							var total uint64
							ok := true
							for t := TapP; t < numTaps; t++ {
								target := req.tap(t)
								if target == 0 {
									continue
								}
								even := index == 0 && t == TapP
								div, out, e := bestDivider(num, vcoDen, target, even)
								if e < tapBest[t] {
									tapBest[t] = e
								}
								if e > tol.Budget(target) {
									ok = false
									break
								}
								cfg.setTap(t, div, out)
								total += e
							}
							if !ok {
								continue
							}
							if !found || total < bestErr ||
								(total == bestErr && cfg.VCO < best.VCO) {
								found, best, bestErr = true, cfg, total
							}
						}
					}
				}
			}
		}
	}

	if !found {
		// Name the first requested tap whose best achievable error
		// exceeded tolerance; if every tap was individually fine but no
		// candidate satisfied them jointly, name the first requested.
		failTap, failTarget := primary, primaryTarget
		for t := TapP; t < numTaps; t++ {
			target := req.tap(t)
			if target == 0 {
				continue
			}
			if tapBest[t] > tol.Budget(target) {
				failTap, failTarget = t, target
				break
			}
		}
		return Config{}, &clkerr.Unsatisfiable{
			PLL: index + 1,
			Tap: failTap.Letter(),
			Req: failTarget,
		}
	}
	return best, nil
}

func (c *Config) setTap(t Tap, div uint8, out types.Hertz) {
	switch t {
	case TapP:
		c.P, c.OutP = div, out
	case TapQ:
		c.Q, c.OutQ = div, out
	default:
		c.R, c.OutR = div, out
	}
}

// bestDivider picks the output divider minimizing |num/(den*d) - target|.
func bestDivider(num, den uint64, target types.Hertz, evenOnly bool) (uint8, types.Hertz, uint64) {
	ideal := mathx.RoundDiv(num, den*uint64(target))
	step := uint64(1)
	if evenOnly {
		step = 2
		ideal &^= 1
	}
	lo := step // divMin, or 2 for even-only
	var (
		bestDiv uint64
		bestOut uint64
		bestErr = ^uint64(0)
	)
	for _, d := range [3]uint64{ideal - step, ideal, ideal + step} {
		d = mathx.Clamp(d, lo, divMax)
		out := mathx.RoundDiv(num, den*d)
		e := mathx.AbsDiff(out, uint64(target))
		if e < bestErr {
			bestDiv, bestOut, bestErr = d, out, e
		}
	}
	return uint8(bestDiv), types.Hertz(bestOut), bestErr
}
