package event

import "git.lost.host/meutraa/medallion/internal/game"

// Type identifies a discrete game event
type Type int

const (
	// BeatHit fires when a tap advances a slot
	// Payload: Position
	BeatHit Type = iota

	// Miss fires when a tap lands on nothing
	Miss

	// RoundMiss fires when an attempt fails and the milestone's slots revert
	RoundMiss

	// MilestoneComplete fires when every slot reaches the milestone target
	// Payload: Milestone (the completed one)
	MilestoneComplete

	// StageComplete fires when the terminal milestone of a stage is done
	// Payload: Stage
	StageComplete

	// StageStarted fires when the next stage has been loaded at its tempo
	// Payload: Stage
	StageStarted

	// FullVictory fires once after the third stage
	FullVictory

	// XPAwarded fires when a completed challenge adds points
	// Payload: XP, LeveledUp, Level
	XPAwarded

	// LevelUpStarted and LevelUpEnded bracket the level-up effect
	// Payload: Level
	LevelUpStarted
	LevelUpEnded

	// ChallengeLoaded fires after a successful load
	ChallengeLoaded
)

var typeNames = map[Type]string{
	BeatHit:           "beat-hit",
	Miss:              "miss",
	RoundMiss:         "round-miss",
	MilestoneComplete: "milestone-complete",
	StageComplete:     "stage-complete",
	StageStarted:      "stage-started",
	FullVictory:       "full-victory",
	XPAwarded:         "xp-awarded",
	LevelUpStarted:    "level-up-started",
	LevelUpEnded:      "level-up-ended",
	ChallengeLoaded:   "challenge-loaded",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

type Event struct {
	Type      Type
	Position  game.Position
	Milestone int
	Stage     int
	XP        int
	Level     int
	LeveledUp bool
}

type Handler interface {
	Handle(e Event)
}

type HandlerFunc func(e Event)

func (f HandlerFunc) Handle(e Event) {
	f(e)
}

// Nop discards events
var Nop Handler = HandlerFunc(func(Event) {})
