// Package shiftreg drives a 74HC595-style 8-bit shift register through
// three GPIO lines, presenting the chipdeck byte output interface.
//
// The register's parallel outputs feed the PSG's data bus, so one
// SendByte call equals one chip command byte: shift 8 bits MSB-first,
// latch them onto the outputs, then strobe the chip's /WE line so it
// reads the bus.
package shiftreg

import "github.com/chipdeck/go-chipdeck/chipdeck/bit"

// Pin is a single digital output line. Hardware ports (or test fakes)
// adapt their GPIO API to it.
type Pin interface {
	Set(high bool)
}

// Driver bit-bangs bytes onto a shift register. Data, Clock and Latch
// drive the register (SER, SRCLK, RCLK on a 74HC595); WriteEnable is
// the PSG's active-low /WE strobe and may be nil when the chip's /WE is
// tied low externally.
type Driver struct {
	Data        Pin
	Clock       Pin
	Latch       Pin
	WriteEnable Pin
}

// New creates a driver and parks the /WE strobe high (inactive).
func New(data, clock, latch, writeEnable Pin) *Driver {
	d := &Driver{Data: data, Clock: clock, Latch: latch, WriteEnable: writeEnable}
	if d.WriteEnable != nil {
		d.WriteEnable.Set(true)
	}
	return d
}

// SendByte shifts one byte out MSB-first, pulses the latch to move it
// to the register outputs, then strobes /WE low and back high.
func (d *Driver) SendByte(b byte) error {
	for i := 7; i >= 0; i-- {
		d.Data.Set(bit.IsSet(uint8(i), b))
		d.Clock.Set(true)
		d.Clock.Set(false)
	}

	d.Latch.Set(true)
	d.Latch.Set(false)

	if d.WriteEnable != nil {
		d.WriteEnable.Set(false)
		d.WriteEnable.Set(true)
	}
	return nil
}
