package bpm

import (
	"fmt"

	"git.lost.host/meutraa/medallion/internal/game"
)

const (
	BeatsPerRotation = 4
	FullCircle       = 360.0

	// The tap window is looser than the slice
	tapToleranceFactor = 0.75
)

var angles = map[game.Position]float64{
	game.Beat1:  0,
	game.Beat1A: 45,
	game.Beat2:  90,
	game.Beat2A: 135,
	game.Beat3:  180,
	game.Beat3A: 225,
	game.Beat4:  270,
	game.Beat4A: 315,
}

// Calculator converts a tempo into dial timing. One rotation is one bar of 4/4.
type Calculator struct {
	BPM float64

	QuarterNoteSeconds  float64
	FullRotationSeconds float64
	DegreesPerSecond    float64
}

func New(bpm float64) (*Calculator, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidBPM, bpm)
	}
	quarter := 60 / bpm
	full := quarter * BeatsPerRotation
	return &Calculator{
		BPM:                 bpm,
		QuarterNoteSeconds:  quarter,
		FullRotationSeconds: full,
		DegreesPerSecond:    FullCircle / full,
	}, nil
}

func AngleForPosition(p game.Position) (float64, error) {
	a, ok := angles[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", game.ErrUnknownPosition, string(p))
	}
	return a, nil
}

func SliceWidth(difficulty int) float64 {
	w, ok := game.SliceWidths[difficulty]
	if !ok {
		return game.DefaultSliceWidth
	}
	return w
}

// Tolerance is half the slice width so the visual matches the hit zone
func Tolerance(difficulty int) float64 {
	return SliceWidth(difficulty) / 2
}

// TapTolerance is the window a tap may land in around a beat
func TapTolerance(difficulty int) float64 {
	return SliceWidth(difficulty) * tapToleranceFactor
}

// MissWindow is how far past a beat the scanner may go before the attempt fails
func MissWindow(difficulty int) float64 {
	return SliceWidth(difficulty)/2 + Tolerance(difficulty)
}

// Distance is the shortest angular distance between two angles
func Distance(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	for d > FullCircle {
		d -= FullCircle
	}
	if d > FullCircle/2 {
		d = FullCircle - d
	}
	return d
}

// Forward is the clockwise sweep from 'from' to 'to', in [0, 360)
func Forward(from, to float64) float64 {
	d := to - from
	for d < 0 {
		d += FullCircle
	}
	for d >= FullCircle {
		d -= FullCircle
	}
	return d
}
