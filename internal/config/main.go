package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.lost.host/meutraa/medallion/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Config struct {
	app *kingpin.Application

	Group       *string
	Difficulty  *int // 0 uses the group's difficulty
	BPM         *float64
	Rotation    *int
	FramePeriod *time.Duration
	Patterns    *string
	LogFile     *string
	LogLevel    *string
}

func New() *Config {
	app := kingpin.New("medallion", "Tap along to a rhythm dial until every beat is gone.")
	app.Version(Version)
	app.HelpFlag.Short('h')

	return &Config{
		app:         app,
		Group:       app.Flag("group", "Pattern group").Default("starter").Short('g').String(),
		Difficulty:  app.Flag("difficulty", "Hit window, 1 (narrow) to 5 (wide), 0 for the group's").Default("0").Short('D').Int(),
		BPM:         app.Flag("bpm", "Tempo of the first stage").Default("80").Short('b').Float64(),
		Rotation:    app.Flag("rotation", "Rotate patterns by quarter notes").Default("0").Short('r').Int(),
		FramePeriod: app.Flag("frame-period", "Render frame period").Default("16ms").Short('p').Duration(),
		Patterns:    app.Flag("patterns", "Pattern file with extra groups").Short('P').ExistingFile(),
		LogFile:     app.Flag("log-file", "Write logs to this file").String(),
		LogLevel:    app.Flag("log-level", "Log level").Default("info").Enum("debug", "info", "warn", "error"),
	}
}

// Parse reads args, without the program name, and validates the values
func (c *Config) Parse(args []string) error {
	if _, err := c.app.Parse(args); nil != err {
		return err
	}
	if *c.Difficulty != 0 && !game.ValidDifficulty(*c.Difficulty) {
		return fmt.Errorf("%w: %v", game.ErrInvalidDifficulty, *c.Difficulty)
	}
	if *c.BPM <= 0 {
		return fmt.Errorf("%w: %v", game.ErrInvalidBPM, *c.BPM)
	}
	if *c.FramePeriod <= 0 {
		return errors.New("frame period must be positive")
	}
	return nil
}

func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(*c.LogLevel)); nil != err {
		return slog.LevelInfo
	}
	return level
}

// Logger opens the log file. The screen belongs to the dial, so without
// a file logs are discarded.
func (c *Config) Logger() (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if *c.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(*c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if nil != err {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}
