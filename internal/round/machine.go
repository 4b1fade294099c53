// Package round owns the beat slots of the loaded pattern and moves them
// through a milestone as the scanner sweeps and the player taps.
package round

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"git.lost.host/meutraa/medallion/internal/bpm"
	"git.lost.host/meutraa/medallion/internal/event"
	"git.lost.host/meutraa/medallion/internal/game"
	"git.lost.host/meutraa/medallion/internal/schedule"
)

const (
	SettleDelay   = 500 * time.Millisecond
	CycleCooldown = 500 * time.Millisecond

	// The reveal sweep ends a little before the top of the dial
	RevealEndAngle = 345.0

	// Replayed stages start just past the top so a beat on 1 is not under the scanner
	ReplayStartAngle = 5.0

	// The decorative centre turns at half the scanner speed once the player taps
	centerSpeedFactor = 0.5
)

// Random is the source for the decoy direction of each slot
type Random interface {
	Float64() float64
}

type TapResult int

const (
	TapIgnored TapResult = iota
	TapHit
	TapMissed
)

type Machine struct {
	timers *schedule.Scheduler
	events event.Handler
	random Random

	calc       *bpm.Calculator
	stage      game.Stage
	slots      []*game.Slot
	milestone  int
	angle      float64
	difficulty int
	rotation   int

	roundStarted    bool
	roundStartAngle float64
	missTriggered   bool

	revealing bool
	revealed  []bool
	reveal    float64

	cooldown  bool
	running   bool
	hold      bool
	stageDone bool

	firstTap    bool
	centerSpeed float64
	centerAngle float64

	// generation changes on every load, attempt on every new milestone
	generation uint64
	attempt    uint64
	settle     *schedule.Task

	// Hooks for the progression driver
	OnMilestoneComplete func(milestone int)
	OnAttemptStarted    func(milestone int, angle float64)
	OnRoundMiss         func()
}

func New(timers *schedule.Scheduler, events event.Handler, random Random) *Machine {
	if nil == events {
		events = event.Nop
	}
	if nil == random {
		random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Machine{
		timers:     timers,
		events:     events,
		random:     random,
		difficulty: game.DefaultDifficulty,
	}
}

// Load replaces the slot set for a stage of the pattern. The first stage
// starts hidden with the reveal sweep, later stages start silver at milestone 1.
// On error the machine is left untouched.
func (m *Machine) Load(positions []game.Position, stage game.Stage, difficulty int) error {
	if len(positions) == 0 {
		return game.ErrEmptyPattern
	}
	calc, err := bpm.New(stage.BPM)
	if nil != err {
		return err
	}

	replay := stage.Index > 1
	slots := make([]*game.Slot, 0, len(positions))
	for _, p := range positions {
		rotated := p.Rotate(m.rotation)
		angle, err := bpm.AngleForPosition(rotated)
		if nil != err {
			return fmt.Errorf("unable to place slot: %w", err)
		}
		direction := 1
		if m.random.Float64() < 0.5 {
			direction = -1
		}
		state := game.Hidden
		if replay {
			state = game.Silver
		}
		slots = append(slots, &game.Slot{
			Position:  rotated,
			Original:  p,
			Angle:     angle,
			State:     state,
			Decoy:     float64(direction) * game.MaxDecoyOffset,
			Direction: direction,
		})
	}

	m.generation++
	m.attempt++
	m.settle.Cancel()
	m.settle = nil
	m.calc = calc
	m.stage = stage
	m.slots = slots
	m.difficulty = difficulty
	m.revealed = make([]bool, len(slots))
	m.roundStarted = false
	m.missTriggered = false
	m.cooldown = false
	m.hold = false
	m.stageDone = false
	m.reveal = stage.StartPercent
	m.running = true

	if replay {
		m.milestone = 1
		m.angle = ReplayStartAngle
		m.revealing = false
		for i := range m.revealed {
			m.revealed[i] = true
		}
	} else {
		m.milestone = game.RevealMilestone
		m.angle = 0
		m.revealing = true
		m.firstTap = false
		m.centerSpeed = 0
		m.centerAngle = 0
	}
	return nil
}

// Tick advances the scanner by delta seconds of play
func (m *Machine) Tick(delta float64) {
	if nil == m.calc {
		return
	}
	if m.firstTap && !m.hold {
		m.centerAngle = wrap(m.centerAngle + m.centerSpeed*delta)
	}
	if !m.running {
		return
	}

	m.angle += m.calc.DegreesPerSecond * delta
	if m.revealing {
		m.advanceReveal()
		return
	}
	m.angle = wrap(m.angle)
	m.checkMisses()
	m.checkCycle()
}

func (m *Machine) advanceReveal() {
	for i, s := range m.slots {
		if !m.revealed[i] && m.angle >= s.Angle {
			m.revealed[i] = true
			s.State = game.Silver
		}
	}
	if m.angle < RevealEndAngle {
		return
	}
	m.revealing = false
	m.angle = wrap(m.angle)
	for i, s := range m.slots {
		m.revealed[i] = true
		s.State = game.Silver
	}
	m.milestone = 1
	m.attempt++
	m.startCooldown()
}

func (m *Machine) checkMisses() {
	if !m.roundStarted || m.missTriggered || m.stageDone {
		return
	}
	ms := game.Milestones[m.milestone]
	window := bpm.MissWindow(m.difficulty)
	scanner := bpm.Forward(m.roundStartAngle, m.angle)
	for _, s := range m.slots {
		if s.State != ms.Base {
			continue
		}
		if scanner > bpm.Forward(m.roundStartAngle, s.Angle)+window {
			m.roundMiss()
			return
		}
	}
}

func (m *Machine) checkCycle() {
	if m.stageDone || m.cooldown {
		return
	}
	if !m.AllAt(game.Milestones[m.milestone].Target) {
		return
	}
	m.startCooldown()
	if nil != m.OnMilestoneComplete {
		m.OnMilestoneComplete(m.milestone)
	}
}

func (m *Machine) startCooldown() {
	m.cooldown = true
	gen := m.generation
	m.timers.After(CycleCooldown, func() {
		if gen != m.generation {
			return
		}
		m.cooldown = false
	})
}

// Tap checks the scanner against every slot still waiting for a hit and
// advances the first one inside the tap window
func (m *Machine) Tap() TapResult {
	if nil == m.calc || m.revealing || m.hold || m.stageDone || !m.running {
		return TapIgnored
	}
	ms := game.Milestones[m.milestone]
	tolerance := bpm.TapTolerance(m.difficulty)
	for _, s := range m.slots {
		if s.State != ms.Base {
			continue
		}
		if bpm.Distance(m.angle, s.Angle) <= tolerance {
			m.hit(s, ms)
			return TapHit
		}
	}

	m.events.Handle(event.Event{Type: event.Miss, Milestone: m.milestone, Stage: m.stage.Index})
	if m.roundStarted {
		m.roundMiss()
	}
	return TapMissed
}

func (m *Machine) hit(s *game.Slot, ms game.Milestone) {
	if !m.firstTap {
		m.firstTap = true
		m.centerSpeed = m.calc.DegreesPerSecond * centerSpeedFactor
	}
	if !m.roundStarted {
		m.roundStarted = true
		m.roundStartAngle = m.angle
		if nil != m.OnAttemptStarted {
			m.OnAttemptStarted(m.milestone, m.angle)
		}
	}

	s.State = ms.Target
	if ms.Target != game.Gone {
		s.StepDecoyIn()
	}
	m.updateReveal()
	m.events.Handle(event.Event{
		Type:      event.BeatHit,
		Position:  s.Position,
		Milestone: m.milestone,
		Stage:     m.stage.Index,
	})
}

func (m *Machine) updateReveal() {
	ms := game.Milestones[m.milestone]
	if ms.Reveal {
		return
	}
	hits := 0
	for _, s := range m.slots {
		if s.State == ms.Target {
			hits++
		}
	}
	increment := m.stage.PercentPerRound() / float64(len(m.slots))
	m.reveal = m.stage.RoundStart(m.milestone) + float64(hits)*increment
}

// TriggerRoundMiss fails the current attempt from outside the machine,
// used when the terminal sweep runs out
func (m *Machine) TriggerRoundMiss() {
	if nil == m.calc || m.stageDone {
		return
	}
	m.roundMiss()
}

func (m *Machine) roundMiss() {
	m.missTriggered = true
	if nil != m.OnRoundMiss {
		m.OnRoundMiss()
	}

	ms := game.Milestones[m.milestone]
	for _, s := range m.slots {
		if s.State != ms.Target {
			continue
		}
		s.State = ms.Base
		// One step back per attempt, not per hit
		s.StepDecoyOut()
	}
	m.reveal = m.stage.RoundStart(m.milestone)
	m.events.Handle(event.Event{Type: event.RoundMiss, Milestone: m.milestone, Stage: m.stage.Index})

	gen, attempt := m.generation, m.attempt
	m.settle.Cancel()
	m.settle = m.timers.After(SettleDelay, func() {
		if gen != m.generation || attempt != m.attempt {
			return
		}
		m.roundStarted = false
		m.missTriggered = false
	})
}

// NextMilestone moves to the following milestone within the stage
func (m *Machine) NextMilestone() {
	if m.milestone >= game.TerminalMilestone {
		return
	}
	m.milestone++
	m.attempt++
	m.settle.Cancel()
	m.settle = nil
	m.roundStarted = false
	m.missTriggered = false
}

// CompleteStage freezes the scanner once the terminal milestone is done
func (m *Machine) CompleteStage() {
	m.stageDone = true
	m.running = false
}

// Hold stops the scanner and ignores taps while a stage or victory is shown
func (m *Machine) Hold(on bool) {
	m.hold = on
	if on {
		m.running = false
	}
}

// Victory freezes the dial fully revealed
func (m *Machine) Victory() {
	m.Hold(true)
	m.stageDone = true
	m.reveal = 100
}

// SetDifficulty changes the tolerance live, slot states are kept
func (m *Machine) SetDifficulty(d int) {
	m.difficulty = d
}

// SetRotation sets the pattern rotation in quarter notes for the next load
func (m *Machine) SetRotation(steps int) {
	m.rotation = steps
}

func (m *Machine) AllAt(state game.BeatState) bool {
	for _, s := range m.slots {
		if s.State != state {
			return false
		}
	}
	return len(m.slots) > 0
}

func (m *Machine) Loaded() bool         { return nil != m.calc }
func (m *Machine) Angle() float64       { return m.angle }
func (m *Machine) Milestone() int       { return m.milestone }
func (m *Machine) Stage() game.Stage    { return m.stage }
func (m *Machine) Reveal() float64      { return m.reveal }
func (m *Machine) Difficulty() int      { return m.difficulty }
func (m *Machine) Rotation() int        { return m.rotation }
func (m *Machine) Running() bool        { return m.running }
func (m *Machine) Holding() bool        { return m.hold }
func (m *Machine) Revealing() bool      { return m.revealing }
func (m *Machine) StageDone() bool      { return m.stageDone }
func (m *Machine) RoundStarted() bool   { return m.roundStarted }
func (m *Machine) MissTriggered() bool  { return m.missTriggered }
func (m *Machine) CenterAngle() float64 { return m.centerAngle }
func (m *Machine) CenterSpeed() float64 { return m.centerSpeed }
func (m *Machine) Generation() uint64   { return m.generation }

// RoundStartAngle returns the angle of the attempt's first hit
func (m *Machine) RoundStartAngle() (float64, bool) {
	return m.roundStartAngle, m.roundStarted
}

// Speed is the scanner speed in degrees per second
func (m *Machine) Speed() float64 {
	if nil == m.calc {
		return 0
	}
	return m.calc.DegreesPerSecond
}

// Slots returns a copy of the slot set
func (m *Machine) Slots() []game.Slot {
	out := make([]game.Slot, len(m.slots))
	for i, s := range m.slots {
		out[i] = *s
	}
	return out
}

func wrap(a float64) float64 {
	a = math.Mod(a, bpm.FullCircle)
	if a < 0 {
		a += bpm.FullCircle
	}
	return a
}
