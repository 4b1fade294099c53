package game

// ScoringRounds is the number of milestones per stage that move the reveal
const ScoringRounds = 3

// Stage is one replay of the pattern, owning a slice of the reveal range
type Stage struct {
	Index        int // 1-3
	BPM          float64
	StartPercent float64
	EndPercent   float64
}

var Stages = [...]Stage{
	{Index: 1, BPM: 80, StartPercent: 10, EndPercent: 40},
	{Index: 2, BPM: 100, StartPercent: 40, EndPercent: 70},
	{Index: 3, BPM: 120, StartPercent: 70, EndPercent: 100},
}

func (s Stage) PercentPerRound() float64 {
	return (s.EndPercent - s.StartPercent) / ScoringRounds
}

// RoundStart is the reveal percent a milestone starts from.
// The reveal milestone shares the first scoring round's start.
func (s Stage) RoundStart(milestone int) float64 {
	if milestone <= RevealMilestone {
		return s.StartPercent
	}
	return s.StartPercent + float64(milestone-1)*s.PercentPerRound()
}

// StagesFor keeps the stage tempo steps but starts the first stage at bpm
func StagesFor(bpm float64) [len(Stages)]Stage {
	stages := Stages
	shift := bpm - Stages[0].BPM
	for i := range stages {
		stages[i].BPM += shift
	}
	return stages
}
