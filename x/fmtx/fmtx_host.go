//go:build !stm32h7

package fmtx

import (
	"fmt"
	"io"
	"os"
)

// DefaultOutput is used by Print/Printf. On host builds it defaults to
// stdout; tests swap in a buffer.
var DefaultOutput io.Writer = os.Stdout

func Sprintf(format string, a ...any) string                    { return fmt.Sprintf(format, a...) }
func Printf(format string, a ...any) (int, error)               { return Fprintf(DefaultOutput, format, a...) }
func Fprintf(w io.Writer, format string, a ...any) (int, error) { return fmt.Fprintf(w, format, a...) }
func Errorf(format string, a ...any) error                      { return fmt.Errorf(format, a...) }

// Sprint joins operands with single spaces, matching the MCU variant
// (fmt.Sprint only separates non-string neighbours).
func Sprint(a ...any) string {
	var out []byte
	for i, v := range a {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, fmt.Sprint(v)...)
	}
	return string(out)
}

func Fprint(w io.Writer, a ...any) (int, error) { return io.WriteString(w, Sprint(a...)) }
func Print(a ...any) (int, error)               { return Fprint(DefaultOutput, a...) }
