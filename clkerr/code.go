package clkerr

import "errors"

// Code is a stable, tooling-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK                     Code = "ok"
	CodeOutOfRange         Code = "out_of_range"
	CodeOscillatorTimeout  Code = "oscillator_timeout"
	CodeUnsatisfiable      Code = "unsatisfiable_frequency"
	CodePLLLockTimeout     Code = "pll_lock_timeout"
	CodeCeilingExceeded    Code = "frequency_ceiling_exceeded"
	CodeSourceNotConfig    Code = "source_not_configured"
	CodeNoViableSource     Code = "no_viable_source"
	CodeIllegalSource      Code = "illegal_source"
	CodeAlreadyConfigured  Code = "already_configured"
	CodeAlreadyEnabled     Code = "clock_already_enabled"
	CodeNotResolved        Code = "kernel_clock_not_resolved"
	CodeInvalidRequest     Code = "invalid_request"
	CodeError              Code = "error" // generic fallback
)

// Of extracts a Code from an error, defaulting to CodeError.
func Of(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, ErrOutOfRange):
		return CodeOutOfRange
	case errors.Is(err, ErrOscillatorTimeout):
		return CodeOscillatorTimeout
	case errors.Is(err, ErrUnsatisfiable):
		return CodeUnsatisfiable
	case errors.Is(err, ErrPLLLockTimeout):
		return CodePLLLockTimeout
	case errors.Is(err, ErrCeilingExceeded):
		return CodeCeilingExceeded
	case errors.Is(err, ErrSourceNotConfigured):
		return CodeSourceNotConfig
	case errors.Is(err, ErrNoViableSource):
		return CodeNoViableSource
	case errors.Is(err, ErrIllegalSource):
		return CodeIllegalSource
	case errors.Is(err, ErrAlreadyConfigured):
		return CodeAlreadyConfigured
	case errors.Is(err, ErrAlreadyEnabled):
		return CodeAlreadyEnabled
	case errors.Is(err, ErrNotResolved):
		return CodeNotResolved
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	default:
		return CodeError
	}
}
