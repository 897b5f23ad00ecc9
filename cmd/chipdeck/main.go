package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/chipdeck/go-chipdeck/chipdeck"
	"github.com/chipdeck/go-chipdeck/chipdeck/backend/terminal"
	"github.com/chipdeck/go-chipdeck/chipdeck/out"
	"github.com/chipdeck/go-chipdeck/chipdeck/psg"
	"github.com/chipdeck/go-chipdeck/chipdeck/timing"
	"github.com/chipdeck/go-chipdeck/chipdeck/tune"
)

func main() {
	app := cli.NewApp()
	app.Name = "chipdeck"
	app.Description = "An SN76489 VGM player"
	app.Usage = "chipdeck [options] <VGM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "vgm",
			Usage: "Path to the VGM file",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Byte sink: 'discard', 'trace', or a file path for a raw dump",
			Value: "discard",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Tick cadence: 'ticker' or 'adaptive'",
			Value: "ticker",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without pacing or a display (requires --ticks)",
		},
		cli.IntFlag{
			Name:  "ticks",
			Usage: "Number of ticks to run in headless mode",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "tui",
			Usage: "Show a terminal now-playing view",
		},
		cli.StringFlag{
			Name:  "notes",
			Usage: "Play a note string instead of a VGM file (e.g. \"O4 Q C E G\")",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runPlayer

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running player", "error", err)
		os.Exit(1)
	}
}

func runPlayer(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	sink, closeSink, err := selectSink(c.String("out"))
	if err != nil {
		return err
	}
	defer closeSink()

	// Note-string mode needs no VGM file.
	if notes := c.String("notes"); notes != "" {
		return tune.New(psg.New(sink)).PlayNotes(notes)
	}

	path := c.String("vgm")
	if path == "" {
		if c.NArg() > 0 {
			path = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no VGM path provided")
		}
	}

	if c.Bool("tui") {
		ring := out.NewRing(sink, 16)
		deck, err := chipdeck.NewWithFile(path, ring)
		if err != nil {
			return err
		}
		view, err := terminal.New(deck, ring, path)
		if err != nil {
			return err
		}
		return view.Run(selectLimiter(c.String("limiter")))
	}

	deck, err := chipdeck.NewWithFile(path, sink)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		ticks := c.Int("ticks")
		if ticks <= 0 {
			return errors.New("headless mode requires --ticks with a positive value")
		}

		slog.Info("Running headless", "ticks", ticks)
		for i := 0; i < ticks && !deck.Finished(); i++ {
			if err := deck.Tick(); err != nil {
				return err
			}
			if (i+1)%600 == 0 {
				slog.Info("Tick progress", "completed", i+1, "total", ticks)
			}
		}
		slog.Info("Headless run completed", "finished", deck.Finished())
		return nil
	}

	return deck.Play(selectLimiter(c.String("limiter")))
}

// selectSink maps the --out flag to a byte output. The returned close
// function flushes file sinks; for the others it is a no-op.
func selectSink(name string) (psg.ByteOut, func() error, error) {
	switch name {
	case "discard":
		return out.Discard, func() error { return nil }, nil
	case "trace":
		return out.Trace{}, func() error { return nil }, nil
	default:
		file, err := os.Create(name)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open output file: %v", err)
		}
		return out.NewWriter(file), file.Close, nil
	}
}

func selectLimiter(name string) timing.Limiter {
	if name == "adaptive" {
		return timing.NewAdaptiveLimiter()
	}
	return timing.NewTickerLimiter()
}
