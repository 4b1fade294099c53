package config

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/medallion/internal/game"
)

func TestDefaults(t *testing.T) {
	c := New()
	if err := c.Parse([]string{}); nil != err {
		t.Fatal(err)
	}
	if *c.Group != "starter" || *c.Difficulty != 0 || *c.BPM != 80 || *c.Rotation != 0 {
		t.Fatalf("unexpected defaults %v %v %v %v", *c.Group, *c.Difficulty, *c.BPM, *c.Rotation)
	}
	if *c.FramePeriod != 16*time.Millisecond {
		t.Fatalf("unexpected frame period %v", *c.FramePeriod)
	}
	if c.Level() != slog.LevelInfo {
		t.Fatalf("unexpected level %v", c.Level())
	}
}

func TestFlags(t *testing.T) {
	c := New()
	err := c.Parse([]string{"-g", "expert", "-D", "5", "--bpm=95.5", "-r", "2", "--log-level", "debug"})
	if nil != err {
		t.Fatal(err)
	}
	if *c.Group != "expert" || *c.Difficulty != 5 || *c.BPM != 95.5 || *c.Rotation != 2 {
		t.Fatal("flags not applied")
	}
	if c.Level() != slog.LevelDebug {
		t.Fatalf("unexpected level %v", c.Level())
	}
}

var invalidArgs = map[string][]string{
	"difficulty": {"--difficulty", "6"},
	"bpm":        {"--bpm=-1"},
	"period":     {"--frame-period", "0s"},
	"level":      {"--log-level", "loud"},
	"patterns":   {"--patterns", "/nonexistent/patterns.txt"},
}

func TestInvalid(t *testing.T) {
	for name, args := range invalidArgs {
		if err := New().Parse(args); nil == err {
			t.Log(name, "expected an error")
			t.Fail()
		}
	}
	if err := New().Parse([]string{"-D", "9"}); !errors.Is(err, game.ErrInvalidDifficulty) {
		t.Fatalf("expected invalid difficulty, got %v", err)
	}
}

func TestLogger(t *testing.T) {
	c := New()
	file := filepath.Join(t.TempDir(), "medallion.log")
	if err := c.Parse([]string{"--log-file", file}); nil != err {
		t.Fatal(err)
	}
	log, closer, err := c.Logger()
	if nil != err {
		t.Fatal(err)
	}
	log.Info("hello")
	if err := closer.Close(); nil != err {
		t.Fatal(err)
	}
}
