package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"git.lost.host/meutraa/medallion/internal/config"
	"git.lost.host/meutraa/medallion/internal/event"
	"git.lost.host/meutraa/medallion/internal/input"
	"git.lost.host/meutraa/medallion/internal/library"
	"git.lost.host/meutraa/medallion/internal/parser"
	"git.lost.host/meutraa/medallion/internal/render"
	"git.lost.host/meutraa/medallion/internal/session"
	"git.lost.host/meutraa/medallion/internal/theme"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

func run() error {
	cfg := config.New()
	if err := cfg.Parse(os.Args[1:]); nil != err {
		return err
	}

	logger, closer, err := cfg.Logger()
	if nil != err {
		return err
	}
	defer closer.Close()

	// Ensure our Default implementations are used as interfaces
	var r render.Renderer = &render.DefaultRenderer{}
	var th theme.Theme = &theme.DefaultTheme{}
	var psr parser.Parser = &parser.DefaultParser{}
	var lib library.Library = &library.DefaultLibrary{Log: logger}

	if err := lib.Init(); nil != err {
		return err
	}
	defer lib.Deinit()

	if *cfg.Patterns != "" {
		groups, err := psr.Parse(*cfg.Patterns)
		if nil != err {
			return fmt.Errorf("unable to parse %v: %w", *cfg.Patterns, err)
		}
		for _, g := range groups {
			lib.Add(g)
		}
		logger.Info("pattern file loaded", "file", *cfg.Patterns, "groups", len(groups))
	}

	events := &event.Recorder{}
	s, err := session.New(session.Options{
		Library:    lib,
		Log:        logger,
		Events:     event.Fanout{events, event.Log(logger)},
		Group:      *cfg.Group,
		BPM:        *cfg.BPM,
		Difficulty: *cfg.Difficulty,
		Rotation:   *cfg.Rotation,
	})
	if nil != err {
		return err
	}
	if err := s.NextPattern(); nil != err {
		return err
	}

	// Save the terminal before the keyboard puts it in raw mode
	if err := r.Init(); nil != err {
		return fmt.Errorf("unable to set up the terminal: %w", err)
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			logger.Error("unable to restore terminal", "err", err)
		}
	}()

	keys, err := input.Listen()
	if nil != err {
		return err
	}
	// Runs before Deinit
	defer func() {
		if err := keys.Close(); nil != err {
			logger.Error("unable to close keyboard", "err", err)
		}
	}()

	p := &Program{
		Renderer: r,
		Theme:    th,
		Library:  lib,
		Session:  s,
		Events:   events,
		Log:      logger,
	}
	r.RenderLoop(*cfg.FramePeriod, func(_ time.Time) bool {
		return p.Frame(keys.Actions())
	})
	return nil
}
