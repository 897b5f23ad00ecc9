// Package tune plays note strings on the PSG, in the spirit of the
// C128 BASIC PLAY command:
// https://www.commodore.ca/manuals/128_system_guide/sect-07b.htm
//
// Supported directives:
//
//	C D E F G A B  notes of the chromatic scale, '#' raises a semitone
//	Vn             voice 0-2
//	On             octave 0-9
//	Un             volume 0-9
//	W H Q I S      duration: whole, half, quarter, eighth, sixteenth
//	space, comma   separators
//
// Defaults: voice 0, octave 4, quarter notes, volume 9.
package tune

import (
	"fmt"
	"math"
	"time"

	"github.com/chipdeck/go-chipdeck/chipdeck/psg"
)

// noteC0 is the frequency of C0 in Hz; every other note is derived
// from it by equal temperament.
const noteC0 = 16.35

// One playback frame. A note is held for duration*2 frames, followed
// by a one-frame gap.
const frame = time.Second / 60

var chromatic = map[string]int{
	"C": 0, "C#": 1,
	"D": 2, "D#": 3,
	"E": 4,
	"F": 5, "F#": 6,
	"G": 7, "G#": 8,
	"A": 9, "A#": 10,
	"B": 11,
}

// Durations in sixteenths of a whole note times four (quarter = 16).
var durations = map[byte]int{
	'W': 64,
	'H': 32,
	'Q': 16,
	'I': 8,
	'S': 4,
}

// Sequencer steps through a note string, programming the PSG and
// sleeping between notes. It blocks for the whole score.
type Sequencer struct {
	chip *psg.PSG

	// sleep is swapped out in tests to avoid wall-clock waits.
	sleep func(time.Duration)
}

// New creates a sequencer that paces itself with time.Sleep.
func New(chip *psg.PSG) *Sequencer {
	return &Sequencer{chip: chip, sleep: time.Sleep}
}

// PlayNotes plays a score string. It stops at the first malformed
// directive or chip I/O error.
func (s *Sequencer) PlayNotes(score string) error {
	voice := 0
	octave := 4
	volume := 9
	duration := durations['Q']

	i := 0
	for i < len(score) {
		c := score[i]
		switch {
		case c == 'V':
			n, err := digitAt(score, i+1, 2)
			if err != nil {
				return fmt.Errorf("tune: voice at position %d: %w", i, err)
			}
			voice = n
			i += 2

		case c == 'O':
			n, err := digitAt(score, i+1, 9)
			if err != nil {
				return fmt.Errorf("tune: octave at position %d: %w", i, err)
			}
			octave = n
			i += 2

		case c == 'U':
			n, err := digitAt(score, i+1, 9)
			if err != nil {
				return fmt.Errorf("tune: volume at position %d: %w", i, err)
			}
			volume = n
			i += 2

		case c >= 'A' && c <= 'G':
			name := string(c)
			if i+1 < len(score) && score[i+1] == '#' {
				name += "#"
				i++
			}
			note, ok := chromatic[name]
			if !ok {
				return fmt.Errorf("tune: unknown note %q at position %d", name, i)
			}
			if err := s.playNote(voice, note, octave, volume, duration); err != nil {
				return err
			}
			i++

		case c == 'W' || c == 'H' || c == 'Q' || c == 'I' || c == 'S':
			duration = durations[c]
			i++

		case c == ' ' || c == ',':
			i++

		default:
			return fmt.Errorf("tune: unexpected character %q at position %d", c, i)
		}
	}
	return nil
}

// playNote sounds one note: volume on, frequency programmed, held for
// duration*2 frames, then muted with a one-frame gap.
func (s *Sequencer) playNote(voice, note, octave, volume, duration int) error {
	distance := octave*12 + note
	freq := noteC0 * math.Pow(2, float64(distance)/12)

	if err := s.chip.WriteVolume(voice, uint8(15-volume)); err != nil {
		return err
	}
	if err := s.chip.PlayFreq(voice, freq); err != nil {
		return err
	}
	s.sleep(frame * 2 * time.Duration(duration))

	if err := s.chip.WriteVolume(voice, psg.AttenuationMute); err != nil {
		return err
	}
	s.sleep(frame)
	return nil
}

func digitAt(score string, i, max int) (int, error) {
	if i >= len(score) {
		return 0, fmt.Errorf("missing digit")
	}
	c := score[i]
	if c < '0' || c > '9' || int(c-'0') > max {
		return 0, fmt.Errorf("want digit 0-%d, got %q", max, c)
	}
	return int(c - '0'), nil
}
