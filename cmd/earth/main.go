// Earth renders a rotating Earth with clouds, city lights, an atmospheric
// glow, an orbiting Moon and a starfield. Drag to orbit, right-drag to pan,
// scroll or pinch to zoom. Background music starts on the first click.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Godawela/globe/earth"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "earth:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fl := pflag.NewFlagSet("earth", pflag.ContinueOnError)
	configPath := fl.StringP("config", "c", "", "TOML config file")
	assets := fl.StringP("assets", "a", "", "asset root (overrides the config file)")
	debug := fl.Bool("debug", false, "log debug output and per-frame stats")
	width := fl.Int("width", 1280, "window width")
	height := fl.Int("height", 720, "window height")
	if err := fl.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := earth.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = earth.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *assets != "" {
		cfg.AssetRoot = *assets
	}
	if *debug {
		cfg.Debug = true
	}

	log := newLogger(cfg.Debug)
	slog.SetDefault(log)

	app, err := earth.NewApp(cfg, earth.WithLogger(log))
	if err != nil {
		return err
	}
	return app.Run(*width, *height)
}

// newLogger writes human-readable text to a terminal and JSON otherwise.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
