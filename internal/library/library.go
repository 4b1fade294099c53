// Package library supplies patterns from named groups and remembers which
// ones have been completed during the process.
package library

import (
	"errors"

	"git.lost.host/meutraa/medallion/internal/game"
)

var ErrUnknownGroup = errors.New("unknown pattern group")

type Library interface {
	Init() error
	Deinit()

	// Add registers a group, replacing one with the same name
	Add(group *game.Group)
	Groups() []Info

	// Next returns the first pattern of the group not yet completed,
	// starting the group over once every pattern has been completed
	Next(group string, bpm float64) (Pick, error)

	MarkCompleted(group, key string) error
	Reset(group string) error
	Progress(group string) (Progress, error)
}

type Info struct {
	Name         string
	Title        string
	Description  string
	Difficulty   int
	PatternCount int
}

type Pick struct {
	Group       string
	Key         string
	Challenge   game.Challenge
	LastInGroup bool
}

type Progress struct {
	Completed int
	Total     int
}
