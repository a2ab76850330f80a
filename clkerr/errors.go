// clkerr/errors.go
package clkerr

import (
	"errors"

	"clocktree-go/types"
)

var (
	// Oscillators
	ErrOutOfRange        = errors.New("out_of_range")
	ErrOscillatorTimeout = errors.New("oscillator_timeout")

	// PLL
	ErrUnsatisfiable  = errors.New("unsatisfiable_frequency")
	ErrPLLLockTimeout = errors.New("pll_lock_timeout")

	// Bus prescalers
	ErrCeilingExceeded = errors.New("frequency_ceiling_exceeded")

	// Kernel clock muxes
	ErrSourceNotConfigured = errors.New("source_not_configured")
	ErrNoViableSource      = errors.New("no_viable_source")
	ErrIllegalSource       = errors.New("illegal_source")

	// Builder / gate
	ErrAlreadyConfigured = errors.New("already_configured")
	ErrAlreadyEnabled    = errors.New("clock_already_enabled")
	ErrNotResolved       = errors.New("kernel_clock_not_resolved")

	// Request validation
	ErrInvalidRequest = errors.New("invalid_request")
)

// Unsatisfiable names the first PLL tap no divider combination could
// bring within tolerance. Unwraps to ErrUnsatisfiable.
type Unsatisfiable struct {
	PLL int          // 1-based instance number
	Tap byte         // 'P', 'Q' or 'R'
	Req types.Hertz  // requested tap frequency
}

func (e *Unsatisfiable) Error() string {
	return "unsatisfiable_frequency: pll" + itoa1(e.PLL) + "." + string([]byte{e.Tap | 0x20}) +
		" " + e.Req.String()
}

func (e *Unsatisfiable) Unwrap() error { return ErrUnsatisfiable }

// CeilingExceeded names the bus domain an explicit prescaler choice
// pushed past its hardware ceiling. Unwraps to ErrCeilingExceeded.
type CeilingExceeded struct {
	Domain  types.Domain
	Freq    types.Hertz
	Ceiling types.Hertz
}

func (e *CeilingExceeded) Error() string {
	return "frequency_ceiling_exceeded: " + e.Domain.String() +
		" " + e.Freq.String() + " > " + e.Ceiling.String()
}

func (e *CeilingExceeded) Unwrap() error { return ErrCeilingExceeded }

func itoa1(n int) string {
	if n < 0 || n > 9 {
		return "?"
	}
	return string([]byte{byte('0' + n)})
}
