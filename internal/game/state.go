package game

// BeatState is the colour progression of a slot
type BeatState uint8

const (
	Hidden BeatState = iota
	Silver
	White
	Gold
	Gone
)

var stateNames = [...]string{"hidden", "silver", "white", "gold", "gone"}

func (s BeatState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Milestone is one round of a stage, moving every slot from Base to Target
type Milestone struct {
	Base, Target BeatState
	Reveal       bool
}

const (
	RevealMilestone   = 0
	TerminalMilestone = 3
)

var Milestones = [...]Milestone{
	{Base: Hidden, Target: Silver, Reveal: true},
	{Base: Silver, Target: White},
	{Base: White, Target: Gold},
	{Base: Gold, Target: Gone},
}
