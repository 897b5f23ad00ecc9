// Package psg encodes logical SN76489 register writes into the chip's
// command byte format and forwards them to a byte output.
// Reference: https://www.smspower.org/Development/SN76489
package psg

import "fmt"

// ClockHz is the PSG input clock, 3.58 MHz on the Master System.
const ClockHz = 3579545

// Attenuation bounds for WriteVolume: 0 is loudest, 15 is silence.
const (
	AttenuationMax  = 0
	AttenuationMute = 15
)

// Noise feedback modes for WriteNoise.
const (
	NoisePeriodic = 0
	NoiseWhite    = 1
)

// Tone divider values 1022 and 1023 are reserved for sample playback,
// so PlayFreq clamps to this.
const maxToneDivider = 1021

// ByteOut delivers one complete command byte to the sound chip. The
// implementation is expected to be synchronous: when SendByte returns,
// the chip has latched the byte.
type ByteOut interface {
	SendByte(b byte) error
}

// PSG translates register-level writes into SN76489 command bytes.
// It holds no chip state of its own; every call maps to one or two
// bytes pushed to the output, in order, before the call returns.
type PSG struct {
	out ByteOut
}

// New creates a PSG writer on top of the given byte output.
func New(out ByteOut) *PSG {
	return &PSG{out: out}
}

// Write forwards a raw command byte unchanged. The chip decodes the
// byte's own latch/data bit pattern, so callers replaying a recorded
// register stream do not need to interpret it.
func (p *PSG) Write(b byte) error {
	return p.out.SendByte(b)
}

// WriteTone sets the 10-bit frequency divider for a tone channel (0-2).
// Two bytes are emitted: a latch byte %1cc0dddd carrying the low nibble
// and a data byte %00dddddd carrying the high 6 bits.
func (p *PSG) WriteTone(channel int, divider uint16) error {
	if channel < 0 || channel > 2 {
		return fmt.Errorf("psg: tone channel out of range: %d", channel)
	}
	if divider > 0x3FF {
		return fmt.Errorf("psg: tone divider out of range: %#x", divider)
	}

	latch := byte(0x80) | byte(channel)<<5 | byte(divider&0x0F)
	if err := p.out.SendByte(latch); err != nil {
		return err
	}
	return p.out.SendByte(byte(divider >> 4 & 0x3F))
}

// WriteNoise configures the noise channel: feedback selects periodic (0)
// or white (1) noise, shiftRate is the 2-bit clock divider.
//
// The chip's shift register is 16 bits while this encoding assumes the
// TI part's 15, which shifts periodic-noise pitch by about a semitone.
// The register values are reproduced as recorded; no compensation is
// applied.
func (p *PSG) WriteNoise(feedback, shiftRate uint8) error {
	if feedback > 1 {
		return fmt.Errorf("psg: noise feedback out of range: %d", feedback)
	}
	if shiftRate > 3 {
		return fmt.Errorf("psg: noise shift rate out of range: %d", shiftRate)
	}

	return p.out.SendByte(0xF0 | feedback<<2 | shiftRate)
}

// WriteVolume sets a channel's attenuation: 0 is full volume, 15 is
// silence. Channel 3 addresses the noise channel. Single latch byte
// %1cc1aaaa.
func (p *PSG) WriteVolume(channel int, attenuation uint8) error {
	if channel < 0 || channel > 3 {
		return fmt.Errorf("psg: volume channel out of range: %d", channel)
	}
	if attenuation > AttenuationMute {
		return fmt.Errorf("psg: attenuation out of range: %d", attenuation)
	}

	return p.out.SendByte(0x90 | byte(channel)<<5 | attenuation)
}

// Silence sets all four channels to maximum attenuation. Used on reset
// so an interrupted stream cannot leave a note stuck on.
func (p *PSG) Silence() error {
	for ch := 0; ch < 4; ch++ {
		if err := p.WriteVolume(ch, AttenuationMute); err != nil {
			return err
		}
	}
	return nil
}

// PlayFreq programs a tone channel to the divider closest to the given
// frequency in Hz. The usable range tops out around 7.9 kHz; lower
// frequencies bottom out where the 10-bit divider saturates (~110 Hz).
func (p *PSG) PlayFreq(channel int, freq float64) error {
	if freq <= 0 {
		return fmt.Errorf("psg: frequency out of range: %v", freq)
	}

	// divider = clock / (2 * 16 * freq)
	divider := uint16(ClockHz / (freq * 32))
	if divider > maxToneDivider {
		divider = maxToneDivider
	}
	return p.WriteTone(channel, divider)
}
