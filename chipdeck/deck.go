// Package chipdeck is the entry point for driving an SN76489 from a
// recorded VGM stream: it ties the chip interface to the player and
// owns stream swapping.
package chipdeck

import (
	"errors"
	"log/slog"
	"os"

	"github.com/chipdeck/go-chipdeck/chipdeck/psg"
	"github.com/chipdeck/go-chipdeck/chipdeck/timing"
	"github.com/chipdeck/go-chipdeck/chipdeck/vgm"
)

// ErrNoStream is returned by Tick when nothing has been loaded yet.
var ErrNoStream = errors.New("chipdeck: no stream loaded")

// Deck owns a chip writer and the player for the currently loaded
// stream. Like the player it is single-caller: drive it from one
// goroutine.
type Deck struct {
	chip   *psg.PSG
	player *vgm.Player
}

// New creates a deck with no stream loaded, writing to the given
// output.
func New(out psg.ByteOut) *Deck {
	return &Deck{chip: psg.New(out)}
}

// NewWithFile creates a deck and loads the VGM file at path into it.
func NewWithFile(path string, out psg.ByteOut) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded VGM data", "path", path, "bytes", len(data))

	d := New(out)
	if err := d.Load(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Load parses and installs a new stream. On failure nothing changes:
// the previously loaded stream, if any, keeps playing.
func (d *Deck) Load(data []byte) error {
	stream, err := vgm.Load(data)
	if err != nil {
		return err
	}
	d.player = vgm.NewPlayer(stream, d.chip)
	return nil
}

// Tick advances playback by one 60 Hz frame. The caller is responsible
// for cadence accuracy; see the timing package.
func (d *Deck) Tick() error {
	if d.player == nil {
		return ErrNoStream
	}
	return d.player.Tick()
}

// Play ticks at the limiter's cadence until the stream finishes. A
// looping stream plays until the surrounding loop is broken by other
// means (the deck itself never stops it).
func (d *Deck) Play(limiter timing.Limiter) error {
	for !d.Finished() {
		if err := d.Tick(); err != nil {
			return err
		}
		limiter.WaitForNextTick()
	}
	return nil
}

// Reset silences all channels and rewinds the current stream, if any.
func (d *Deck) Reset() error {
	if d.player == nil {
		return d.chip.Silence()
	}
	return d.player.Reset()
}

// Finished reports whether there is nothing left to play.
func (d *Deck) Finished() bool {
	return d.player == nil || d.player.Finished()
}

// Player exposes the current player for status displays. Nil when no
// stream is loaded.
func (d *Deck) Player() *vgm.Player {
	return d.player
}

// Chip exposes the deck's chip writer, e.g. for the tune sequencer.
func (d *Deck) Chip() *psg.PSG {
	return d.chip
}
