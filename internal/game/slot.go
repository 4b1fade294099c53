package game

const (
	MaxDecoyOffset = 15.0
	DecoyStep      = 5.0
)

// Slot is one beat on the dial for the loaded pattern
type Slot struct {
	Position Position // after rotation
	Original Position // as given by the pattern
	Angle    float64
	State    BeatState

	// Cosmetic off-beat marker, drifts to 0 as the slot is hit
	Decoy     float64
	Direction int // -1 early, +1 late
}

// StepDecoyIn moves the marker one step closer to the beat
func (s *Slot) StepDecoyIn() {
	if s.Decoy > 0 {
		s.Decoy -= DecoyStep
		if s.Decoy < 0 {
			s.Decoy = 0
		}
	} else if s.Decoy < 0 {
		s.Decoy += DecoyStep
		if s.Decoy > 0 {
			s.Decoy = 0
		}
	}
}

// StepDecoyOut moves the marker one step back toward its starting extreme
func (s *Slot) StepDecoyOut() {
	if s.Direction > 0 {
		s.Decoy += DecoyStep
		if s.Decoy > MaxDecoyOffset {
			s.Decoy = MaxDecoyOffset
		}
	} else {
		s.Decoy -= DecoyStep
		if s.Decoy < -MaxDecoyOffset {
			s.Decoy = -MaxDecoyOffset
		}
	}
}
