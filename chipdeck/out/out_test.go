package out

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failing struct {
	err error
}

func (f failing) SendByte(b byte) error { return f.err }

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	for _, b := range []byte{0x9F, 0x50, 0xAA} {
		require.NoError(t, w.SendByte(b))
	}
	assert.Equal(t, []byte{0x9F, 0x50, 0xAA}, buf.Bytes())
}

func TestRing_KeepsMostRecent(t *testing.T) {
	r := NewRing(Discard, 4)

	for b := byte(1); b <= 6; b++ {
		require.NoError(t, r.SendByte(b))
	}

	assert.Equal(t, []byte{3, 4, 5, 6}, r.Recent())
	assert.Equal(t, uint64(6), r.Total())
}

func TestRing_PartialFill(t *testing.T) {
	r := NewRing(Discard, 8)

	require.NoError(t, r.SendByte(0x10))
	require.NoError(t, r.SendByte(0x20))

	assert.Equal(t, []byte{0x10, 0x20}, r.Recent())
}

func TestRing_ClampsCapacity(t *testing.T) {
	r := NewRing(Discard, 0)

	require.NoError(t, r.SendByte(0x01))
	require.NoError(t, r.SendByte(0x02))
	assert.Equal(t, []byte{0x02}, r.Recent())
}

func TestRing_ForwardsErrors(t *testing.T) {
	ioErr := errors.New("down")
	r := NewRing(failing{err: ioErr}, 4)

	assert.ErrorIs(t, r.SendByte(0x01), ioErr)
	assert.Empty(t, r.Recent(), "failed sends must not be recorded")
}
