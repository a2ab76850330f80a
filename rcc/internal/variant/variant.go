// Package variant carries the per-silicon-variant hardware frequency
// ceilings. The active variant is fixed at build time by tag, never by
// probing a device identifier at runtime.
package variant

import "clocktree-go/types"

// Limits is the ceiling table for one variant.
type Limits struct {
	Name    string
	SysMax  types.Hertz
	CoreMax types.Hertz
	AHBMax  types.Hertz
	APBMax  types.Hertz
}

// Ceiling returns the maximum rated frequency for a domain.
func (l Limits) Ceiling(d types.Domain) types.Hertz {
	switch d {
	case types.DomainSys:
		return l.SysMax
	case types.DomainCore:
		return l.CoreMax
	case types.DomainAHB:
		return l.AHBMax
	default:
		return l.APBMax
	}
}

// Full-ceiling part.
var H743 = Limits{
	Name:    "h743",
	SysMax:  480 * types.MHz,
	CoreMax: 480 * types.MHz,
	AHBMax:  240 * types.MHz,
	APBMax:  120 * types.MHz,
}

// Reduced-ceiling part.
var H7B0 = Limits{
	Name:    "h7b0",
	SysMax:  280 * types.MHz,
	CoreMax: 280 * types.MHz,
	AHBMax:  140 * types.MHz,
	APBMax:  70 * types.MHz,
}

// Selected returns the limits compiled in for this build.
func Selected() Limits { return selected }
