package game

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPosition   = errors.New("unknown beat position")
	ErrEmptyPattern      = errors.New("empty pattern")
	ErrInvalidBPM        = errors.New("bpm must be positive")
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 5")
)

// Challenge is a pattern to play through all stages
type Challenge struct {
	Name       string
	Positions  []Position
	BPM        float64
	Difficulty int
}

func (c *Challenge) Validate() error {
	if len(c.Positions) == 0 {
		return ErrEmptyPattern
	}
	for _, p := range c.Positions {
		if !p.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownPosition, string(p))
		}
	}
	if c.BPM <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidBPM, c.BPM)
	}
	if !ValidDifficulty(c.Difficulty) {
		return fmt.Errorf("%w: %v", ErrInvalidDifficulty, c.Difficulty)
	}
	return nil
}

func (c *Challenge) Key() string {
	return Key(c.Positions)
}
