// Package terminal shows a live playback status view using tcell. It
// drives the deck at the limiter's cadence and redraws once per tick;
// no input other than quit keys is handled.
package terminal

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/chipdeck/go-chipdeck/chipdeck"
	"github.com/chipdeck/go-chipdeck/chipdeck/out"
	"github.com/chipdeck/go-chipdeck/chipdeck/timing"
)

// View renders deck status to a tcell screen. The ring tap supplies
// the recent register bytes shown in the activity line.
type View struct {
	screen tcell.Screen
	deck   *chipdeck.Deck
	ring   *out.Ring
	title  string
	ticks  uint64
}

// New initializes the terminal and returns a view for the given deck.
// The ring may be nil, dropping the activity line.
func New(deck *chipdeck.Deck, ring *out.Ring, path string) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &View{
		screen: screen,
		deck:   deck,
		ring:   ring,
		title:  filepath.Base(path),
	}, nil
}

// Run plays the deck until the stream finishes or the user quits with
// q, Escape or Ctrl-C. The terminal is restored before returning.
func (v *View) Run(limiter timing.Limiter) error {
	defer v.screen.Fini()

	for !v.deck.Finished() {
		if err := v.deck.Tick(); err != nil {
			return err
		}
		v.ticks++
		v.draw()

		if v.quitRequested() {
			return nil
		}
		limiter.WaitForNextTick()
	}

	v.draw()
	return nil
}

func (v *View) quitRequested() bool {
	for v.screen.HasPendingEvent() {
		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return true
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
	return false
}

func (v *View) draw() {
	v.screen.Clear()

	bold := tcell.StyleDefault.Bold(true)
	v.drawText(0, 0, bold, "chipdeck - "+v.title)

	player := v.deck.Player()
	elapsed := float64(v.ticks) / timing.TicksPerSecond
	v.drawText(0, 2, tcell.StyleDefault, fmt.Sprintf("elapsed  %6.1fs", elapsed))
	v.drawText(0, 3, tcell.StyleDefault, fmt.Sprintf("position %#06x", player.Position()))
	v.drawText(0, 4, tcell.StyleDefault, fmt.Sprintf("pending  %d units", player.Pending()))
	v.drawText(0, 5, tcell.StyleDefault, fmt.Sprintf("loops    %d", player.Loops()))

	if v.ring != nil {
		line := "writes   "
		for _, b := range v.ring.Recent() {
			line += fmt.Sprintf("%02x ", b)
		}
		v.drawText(0, 7, tcell.StyleDefault, line)
	}

	if v.deck.Finished() {
		v.drawText(0, 9, bold, "finished")
	} else {
		v.drawText(0, 9, tcell.StyleDefault.Dim(true), "q to quit")
	}

	v.screen.Show()
}

func (v *View) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
