package vgm

import (
	"fmt"

	"github.com/chipdeck/go-chipdeck/chipdeck/bit"
	"github.com/chipdeck/go-chipdeck/chipdeck/psg"
)

// VGM 1.50 commands used by Master System / Game Gear exports.
const (
	cmdPSGWrite  = 0x50 // 0x50 dd: write dd to the PSG
	cmdWait16    = 0x61 // 0x61 nn nn: wait n units, 16-bit LE
	cmdWaitNTSC  = 0x62 // wait 735 units (1/60 s)
	cmdWaitPAL   = 0x63 // wait 882 units (1/50 s)
	cmdEnd       = 0x66 // end of sound data
	cmdWaitShort = 0x70 // 0x7n: wait n+1 units
)

// Player steps a Stream through a PSG, one time quantum at a time.
//
// The player has no clock of its own: the caller invokes Tick at a
// fixed real-time cadence (nominally every 1/60 s) and the player
// dispatches however many commands fall inside that quantum. Leftover
// wait deficit carries across calls, so timing stays exact over
// arbitrarily long tracks no matter the caller's granularity.
//
// A Player must be driven from a single goroutine.
type Player struct {
	stream *Stream
	chip   *psg.PSG

	pos      int
	pending  int // outstanding wait units; negative = behind schedule
	loops    int
	finished bool
}

// NewPlayer creates a player positioned at the stream's first command.
func NewPlayer(stream *Stream, chip *psg.PSG) *Player {
	return &Player{
		stream: stream,
		chip:   chip,
		pos:    stream.dataStart,
	}
}

// Tick advances playback by one NTSC frame (735 wait units).
func (p *Player) Tick() error {
	return p.TickUnits(FrameUnits)
}

// TickUnits advances playback by the given number of 1/44100 s wait
// units. Register writes not separated by a wait in the stream are all
// dispatched within the same call, preserving chip-visible ordering.
// Once the player is finished, calls are no-ops and return nil.
//
// Decode and I/O failures halt playback permanently: after a
// MalformedStreamError the cursor may be misaligned, and after a
// shift-out error the chip's register state is unknown.
func (p *Player) TickUnits(units int) error {
	if p.finished {
		return nil
	}
	p.pending -= units

	// Tracks the wait level at loop jumps within this call: a second
	// jump with no wait gained means the loop can never make progress.
	jumped := false
	pendingAtJump := 0

	for p.pending <= 0 && !p.finished {
		looped, err := p.step()
		if err != nil {
			p.finished = true
			return err
		}
		if looped {
			if jumped && p.pending <= pendingAtJump {
				p.finished = true
				return &MalformedStreamError{Offset: p.stream.loopStart, Reason: "loop contains no wait"}
			}
			jumped = true
			pendingAtJump = p.pending
		}
	}
	return nil
}

// step decodes and executes the command at the cursor. Wait commands
// raise pending; writes go straight to the chip. looped reports a jump
// back to the loop point.
func (p *Player) step() (looped bool, err error) {
	data := p.stream.data
	if p.pos >= len(data) {
		return false, &MalformedStreamError{Offset: p.pos, Reason: "stream ends without end-of-data marker"}
	}

	op := data[p.pos]
	switch {
	case op == cmdPSGWrite:
		if p.pos+1 >= len(data) {
			return false, p.truncated(op)
		}
		if err := p.chip.Write(data[p.pos+1]); err != nil {
			return false, err
		}
		p.pos += 2

	case op == cmdWait16:
		if p.pos+2 >= len(data) {
			return false, p.truncated(op)
		}
		p.pending += int(bit.Combine(data[p.pos+2], data[p.pos+1]))
		p.pos += 3

	case op == cmdWaitNTSC:
		p.pending += FrameUnits
		p.pos++

	case op == cmdWaitPAL:
		p.pending += PALFrameUnits
		p.pos++

	case op&0xF0 == cmdWaitShort:
		p.pending += int(op&0x0F) + 1
		p.pos++

	case op == cmdEnd:
		if p.stream.HasLoop() {
			p.pos = p.stream.loopStart
			p.loops++
			return true, nil
		}
		p.finished = true

	default:
		return false, &MalformedStreamError{
			Offset: p.pos,
			Opcode: op,
			Reason: fmt.Sprintf("unknown command 0x%02x", op),
		}
	}
	return false, nil
}

func (p *Player) truncated(op byte) error {
	return &MalformedStreamError{Offset: p.pos, Opcode: op, Reason: fmt.Sprintf("truncated command 0x%02x", op)}
}

// Reset silences all channels, then rewinds the cursor to the start of
// data. The silence writes go out first so an interrupted stream can
// not leave a note stuck on.
func (p *Player) Reset() error {
	if err := p.chip.Silence(); err != nil {
		return err
	}
	p.pos = p.stream.dataStart
	p.pending = 0
	p.loops = 0
	p.finished = false
	return nil
}

// Finished reports whether a non-looping stream has been exhausted or
// playback halted on an error.
func (p *Player) Finished() bool {
	return p.finished
}

// Position returns the cursor's absolute byte offset.
func (p *Player) Position() int {
	return p.pos
}

// Pending returns the outstanding wait units (negative when behind
// schedule).
func (p *Player) Pending() int {
	return p.pending
}

// Loops returns how many times playback has jumped to the loop point.
func (p *Player) Loops() int {
	return p.loops
}
