package psg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures every byte pushed to the chip.
type recorder struct {
	bytes []byte
}

func (r *recorder) SendByte(b byte) error {
	r.bytes = append(r.bytes, b)
	return nil
}

// failAfter fails once n bytes have been accepted.
type failAfter struct {
	n   int
	err error
}

func (f *failAfter) SendByte(b byte) error {
	if f.n <= 0 {
		return f.err
	}
	f.n--
	return nil
}

func TestPSG_WriteTone(t *testing.T) {
	tests := []struct {
		name     string
		channel  int
		divider  uint16
		expected []byte
	}{
		{
			name:    "channel 1 divider 0x123",
			channel: 1, divider: 0x123,
			expected: []byte{0b10100011, 0b00010010},
		},
		{
			name:    "channel 0 divider 0",
			channel: 0, divider: 0,
			expected: []byte{0b10000000, 0b00000000},
		},
		{
			name:    "channel 2 max divider",
			channel: 2, divider: 0x3FF,
			expected: []byte{0b11001111, 0b00111111},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			p := New(rec)
			require.NoError(t, p.WriteTone(tt.channel, tt.divider))
			assert.Equal(t, tt.expected, rec.bytes)
		})
	}
}

func TestPSG_WriteToneRejectsBadArgs(t *testing.T) {
	rec := &recorder{}
	p := New(rec)

	assert.Error(t, p.WriteTone(3, 0x100))
	assert.Error(t, p.WriteTone(-1, 0x100))
	assert.Error(t, p.WriteTone(0, 0x400))
	assert.Empty(t, rec.bytes, "no bytes should reach the chip on a rejected write")
}

func TestPSG_WriteNoise(t *testing.T) {
	tests := []struct {
		name      string
		feedback  uint8
		shiftRate uint8
		expected  byte
	}{
		{"periodic rate 0", NoisePeriodic, 0, 0xF0},
		{"periodic rate 3", NoisePeriodic, 3, 0xF3},
		{"white rate 0", NoiseWhite, 0, 0xF4},
		{"white rate 2", NoiseWhite, 2, 0xF6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			p := New(rec)
			require.NoError(t, p.WriteNoise(tt.feedback, tt.shiftRate))
			assert.Equal(t, []byte{tt.expected}, rec.bytes)
		})
	}

	p := New(&recorder{})
	assert.Error(t, p.WriteNoise(2, 0))
	assert.Error(t, p.WriteNoise(0, 4))
}

func TestPSG_WriteVolume(t *testing.T) {
	tests := []struct {
		name        string
		channel     int
		attenuation uint8
		expected    byte
	}{
		{"channel 0 full volume", 0, AttenuationMax, 0x90},
		{"channel 0 muted", 0, AttenuationMute, 0x9F},
		{"channel 1 mid", 1, 7, 0xB7},
		{"noise channel muted", 3, AttenuationMute, 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			p := New(rec)
			require.NoError(t, p.WriteVolume(tt.channel, tt.attenuation))
			assert.Equal(t, []byte{tt.expected}, rec.bytes)
		})
	}

	p := New(&recorder{})
	assert.Error(t, p.WriteVolume(4, 0))
	assert.Error(t, p.WriteVolume(0, 16))
}

func TestPSG_Silence(t *testing.T) {
	rec := &recorder{}
	p := New(rec)

	require.NoError(t, p.Silence())
	assert.Equal(t, []byte{0x9F, 0xBF, 0xDF, 0xFF}, rec.bytes)
}

func TestPSG_WriteRaw(t *testing.T) {
	rec := &recorder{}
	p := New(rec)

	require.NoError(t, p.Write(0x95))
	require.NoError(t, p.Write(0x2A))
	assert.Equal(t, []byte{0x95, 0x2A}, rec.bytes)
}

func TestPSG_PlayFreq(t *testing.T) {
	t.Run("A4 maps to divider 254", func(t *testing.T) {
		rec := &recorder{}
		p := New(rec)
		// 3579545 / (440 * 32) = 254
		require.NoError(t, p.PlayFreq(0, 440))
		assert.Equal(t, []byte{0x8E, 0x0F}, rec.bytes)
	})

	t.Run("low frequency clamps to divider 1021", func(t *testing.T) {
		rec := &recorder{}
		p := New(rec)
		require.NoError(t, p.PlayFreq(0, 1))
		// 1021 = 0x3FD
		assert.Equal(t, []byte{0x8D, 0x3F}, rec.bytes)
	})

	t.Run("non-positive frequency is rejected", func(t *testing.T) {
		p := New(&recorder{})
		assert.Error(t, p.PlayFreq(0, 0))
	})
}

func TestPSG_OutputErrorsPropagate(t *testing.T) {
	ioErr := errors.New("shift register stuck")

	p := New(&failAfter{n: 0, err: ioErr})
	assert.ErrorIs(t, p.Write(0x50), ioErr)
	assert.ErrorIs(t, p.WriteVolume(0, 0), ioErr)
	assert.ErrorIs(t, p.Silence(), ioErr)

	// A failure on the second byte of a tone write surfaces too.
	p = New(&failAfter{n: 1, err: ioErr})
	assert.ErrorIs(t, p.WriteTone(0, 0x123), ioErr)
}
