// Package xp tracks experience across challenges. It knows nothing of rounds,
// only that a challenge was completed.
package xp

import "time"

// PerChallenge is awarded for each full victory
const PerChallenge = 60

const (
	// The level-up effect waits for the fill to finish, then holds
	FillDelay    = 1600 * time.Millisecond
	LevelUpDelay = 2000 * time.Millisecond
)

type Level struct {
	Number   int
	Name     string
	Color    string
	Required int
}

var Levels = [...]Level{
	{Number: 1, Name: "green", Color: "#7cb342", Required: 100},
	{Number: 2, Name: "blue", Color: "#42a5f5", Required: 100},
	{Number: 3, Name: "purple", Color: "#ab47bc", Required: 100},
	{Number: 4, Name: "red", Color: "#ef5350", Required: 100},
	{Number: 5, Name: "orange", Color: "#ff7043", Required: 100},
	{Number: 6, Name: "gold", Color: "#ffd54f", Required: 100},
	{Number: 7, Name: "white", Color: "#ffffff", Required: 100},
}

type Award struct {
	Points    int
	XP        int // after the award
	Level     int
	LeveledUp bool
}

type Meter struct {
	level int
	xp    int
}

func NewMeter() *Meter {
	return &Meter{level: 1}
}

// Award adds points, carrying overflow into following levels
func (m *Meter) Award(points int) Award {
	start := m.level
	m.xp += points
	for {
		required := m.Current().Required
		if required <= 0 || m.xp < required {
			break
		}
		if m.level < len(Levels) {
			m.level++
		}
		m.xp -= required
	}
	return Award{
		Points:    points,
		XP:        m.xp,
		Level:     m.level,
		LeveledUp: m.level != start,
	}
}

func (m *Meter) Level() int { return m.level }
func (m *Meter) XP() int    { return m.xp }

func (m *Meter) Current() Level {
	if m.level < 1 || m.level > len(Levels) {
		return Levels[len(Levels)-1]
	}
	return Levels[m.level-1]
}

// Next returns the following level, false at the last one
func (m *Meter) Next() (Level, bool) {
	if m.level >= len(Levels) {
		return Level{}, false
	}
	return Levels[m.level], true
}

// Fill is the fraction of the current level reached, 0-1
func (m *Meter) Fill() float64 {
	required := m.Current().Required
	if required <= 0 {
		return 1
	}
	f := float64(m.xp) / float64(required)
	if f > 1 {
		return 1
	}
	return f
}
