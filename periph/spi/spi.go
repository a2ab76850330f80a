// Package spi is the SPI1 controller driver skeleton. Its constructor
// demonstrates the clock-domain gate protocol: it cannot be built
// without an EnabledClockHandle for SPI1, and it derives its baud-rate
// divider from the kernel clock the handle proves.
package spi

import (
	"errors"

	"tinygo.org/x/drivers"

	"clocktree-go/rcc"
	"clocktree-go/types"
)

var (
	ErrWrongPeripheral = errors.New("handle is not for spi1")
	ErrBaudTooLow      = errors.New("requested baud below kernel_ck/256")
)

// Config holds the controller operating parameters.
type Config struct {
	Frequency types.Hertz // desired SCK; actual is kernel_ck / 2^(n+1)
	Mode      uint8       // CPOL/CPHA 0..3
}

// SPI drives the SPI1 block. Implements the drivers.SPI contract.
type SPI struct {
	handle rcc.EnabledClockHandle
	sck    types.Hertz
	br     uint8 // baud field: divider 2^(br+1)

	// transfer shifts one byte on the wire; the platform file installs
	// the MMIO implementation, host builds default to loopback.
	transfer func(byte) byte
}

var _ drivers.SPI = (*SPI)(nil)

// New constructs the driver from its clock proof. The baud field is the
// largest rate not exceeding cfg.Frequency; a request below
// kernel_ck/256 is refused rather than rounded up.
func New(handle rcc.EnabledClockHandle, cfg Config) (*SPI, error) {
	if handle.Peripheral() != types.Spi1 {
		return nil, ErrWrongPeripheral
	}
	kernel := handle.Frequency()
	br := uint8(0)
	sck := kernel / 2
	for sck > cfg.Frequency {
		if br == 7 {
			return nil, ErrBaudTooLow
		}
		br++
		sck /= 2
	}
	return &SPI{
		handle:   handle,
		sck:      sck,
		br:       br,
		transfer: func(b byte) byte { return b },
	}, nil
}

// SCK returns the actual serial clock rate.
func (s *SPI) SCK() types.Hertz { return s.sck }

// BaudField returns the register encoding of the divider.
func (s *SPI) BaudField() uint8 { return s.br }

func (s *SPI) Transfer(b byte) (byte, error) {
	return s.transfer(b), nil
}

func (s *SPI) Tx(w, r []byte) error {
	switch {
	case len(w) == len(r):
		for i, b := range w {
			r[i] = s.transfer(b)
		}
	case len(r) == 0:
		for _, b := range w {
			s.transfer(b)
		}
	case len(w) == 0:
		for i := range r {
			r[i] = s.transfer(0xFF)
		}
	default:
		for i := 0; i < len(w) || i < len(r); i++ {
			out := byte(0xFF)
			if i < len(w) {
				out = w[i]
			}
			in := s.transfer(out)
			if i < len(r) {
				r[i] = in
			}
		}
	}
	return nil
}
