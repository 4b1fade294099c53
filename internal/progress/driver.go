// Package progress sequences milestones and stages for a loaded challenge
// and decides when the challenge is won.
package progress

import (
	"fmt"
	"log/slog"
	"time"

	"git.lost.host/meutraa/medallion/internal/event"
	"git.lost.host/meutraa/medallion/internal/game"
	"git.lost.host/meutraa/medallion/internal/round"
	"git.lost.host/meutraa/medallion/internal/schedule"
	"git.lost.host/meutraa/medallion/internal/xp"
)

const (
	// Time for the stage glow before the next stage loads
	GlowDelay = 2000 * time.Millisecond

	// Hold after the terminal sweep closes on a cleared dial
	SweepHoldDelay = 500 * time.Millisecond

	sweepDegrees = 360.0
)

// Comet is the terminal sweep. It starts at the first hit of the terminal
// milestone and must close a full circle before every slot is gone.
type Comet struct {
	Active bool
	Start  float64
	Angle  float64
}

func (c Comet) Traveled() float64 {
	return c.Angle - c.Start
}

type Driver struct {
	log     *slog.Logger
	machine *round.Machine
	timers  *schedule.Scheduler
	events  event.Handler
	meter   *xp.Meter

	challenge game.Challenge
	stages    [len(game.Stages)]game.Stage
	stage     int
	comet     Comet
	victory   bool

	// changes on every challenge load
	generation uint64
}

func New(
	machine *round.Machine,
	timers *schedule.Scheduler,
	events event.Handler,
	meter *xp.Meter,
	log *slog.Logger,
) *Driver {
	if nil == events {
		events = event.Nop
	}
	if nil == log {
		log = slog.Default()
	}
	d := &Driver{
		log:     log,
		machine: machine,
		timers:  timers,
		events:  events,
		meter:   meter,
	}
	machine.OnMilestoneComplete = d.milestoneComplete
	machine.OnAttemptStarted = d.attemptStarted
	machine.OnRoundMiss = d.cancelComet
	return d
}

// Load starts a challenge at stage 1. Invalid challenges leave the current one running.
func (d *Driver) Load(c game.Challenge) error {
	if err := c.Validate(); nil != err {
		return fmt.Errorf("invalid challenge: %w", err)
	}
	stages := game.StagesFor(c.BPM)
	if err := d.machine.Load(c.Positions, stages[0], c.Difficulty); nil != err {
		return fmt.Errorf("unable to load challenge: %w", err)
	}

	d.generation++
	d.challenge = c
	d.challenge.Positions = append([]game.Position(nil), c.Positions...)
	d.stages = stages
	d.stage = 1
	d.comet = Comet{}
	d.victory = false

	d.log.Info("challenge loaded",
		"pattern", c.Key(),
		"bpm", c.BPM,
		"difficulty", c.Difficulty,
	)
	d.events.Handle(event.Event{Type: event.ChallengeLoaded, Stage: 1})
	return nil
}

// Tick advances the scanner and the terminal sweep by delta seconds
func (d *Driver) Tick(delta float64) {
	d.machine.Tick(delta)
	d.advanceComet(delta)
}

func (d *Driver) milestoneComplete(milestone int) {
	d.events.Handle(event.Event{
		Type:      event.MilestoneComplete,
		Milestone: milestone,
		Stage:     d.stage,
	})
	if milestone < game.TerminalMilestone {
		d.machine.NextMilestone()
		return
	}

	d.machine.CompleteStage()
	// otherwise the sweep decides when it closes
	if !d.comet.Active {
		d.stageComplete()
	}
}

func (d *Driver) attemptStarted(milestone int, angle float64) {
	if milestone != game.TerminalMilestone {
		return
	}
	d.comet = Comet{Active: true, Start: angle, Angle: angle}
}

func (d *Driver) cancelComet() {
	if !d.comet.Active {
		return
	}
	d.comet.Active = false
	d.log.Debug("terminal sweep cancelled", "stage", d.stage, "traveled", d.comet.Traveled())
}

func (d *Driver) advanceComet(delta float64) {
	if !d.comet.Active {
		return
	}
	d.comet.Angle += d.machine.Speed() * delta
	if d.comet.Traveled() < sweepDegrees {
		return
	}
	d.comet.Active = false

	if !d.machine.AllAt(game.Gone) {
		d.log.Info("terminal sweep closed before the dial cleared", "stage", d.stage)
		d.machine.TriggerRoundMiss()
		return
	}

	if !d.machine.StageDone() {
		d.events.Handle(event.Event{
			Type:      event.MilestoneComplete,
			Milestone: game.TerminalMilestone,
			Stage:     d.stage,
		})
		d.machine.CompleteStage()
	}
	d.machine.Hold(true)
	gen := d.generation
	d.timers.After(SweepHoldDelay, func() {
		if gen != d.generation {
			return
		}
		d.machine.Hold(false)
		d.stageComplete()
	})
}

func (d *Driver) stageComplete() {
	d.log.Info("stage complete", "stage", d.stage)
	d.events.Handle(event.Event{Type: event.StageComplete, Stage: d.stage})
	if d.stage >= len(d.stages) {
		d.fullVictory()
		return
	}

	d.stage++
	gen := d.generation
	d.timers.After(GlowDelay, func() {
		if gen != d.generation {
			return
		}
		d.loadStage()
	})
}

func (d *Driver) loadStage() {
	stage := d.stages[d.stage-1]
	if err := d.machine.Load(d.challenge.Positions, stage, d.machine.Difficulty()); nil != err {
		d.log.Error("unable to load stage", "stage", stage.Index, "err", err)
		return
	}
	d.comet = Comet{}
	d.log.Info("stage started", "stage", stage.Index, "bpm", stage.BPM)
	d.events.Handle(event.Event{Type: event.StageStarted, Stage: stage.Index})
}

func (d *Driver) fullVictory() {
	d.victory = true
	d.machine.Victory()
	d.log.Info("full victory", "pattern", d.challenge.Key())
	d.events.Handle(event.Event{Type: event.FullVictory, Stage: d.stage})

	award := d.meter.Award(xp.PerChallenge)
	d.log.Info("xp awarded", "xp", award.XP, "level", award.Level, "leveled_up", award.LeveledUp)
	d.events.Handle(event.Event{
		Type:      event.XPAwarded,
		XP:        award.XP,
		Level:     award.Level,
		LeveledUp: award.LeveledUp,
	})
	if !award.LeveledUp {
		return
	}
	level := award.Level
	gen := d.generation
	d.timers.After(xp.FillDelay, func() {
		if gen != d.generation {
			return
		}
		d.events.Handle(event.Event{Type: event.LevelUpStarted, Level: level})
	})
	d.timers.After(xp.FillDelay+xp.LevelUpDelay, func() {
		if gen != d.generation {
			return
		}
		d.events.Handle(event.Event{Type: event.LevelUpEnded, Level: level})
	})
}

func (d *Driver) Tap() round.TapResult {
	return d.machine.Tap()
}

// SetDifficulty applies a new difficulty to the running stage and the ones after it
func (d *Driver) SetDifficulty(level int) error {
	if !game.ValidDifficulty(level) {
		return fmt.Errorf("%w: %v", game.ErrInvalidDifficulty, level)
	}
	d.challenge.Difficulty = level
	d.machine.SetDifficulty(level)
	return nil
}

func (d *Driver) Stage() int                { return d.stage }
func (d *Driver) Comet() Comet              { return d.comet }
func (d *Driver) Victory() bool             { return d.victory }
func (d *Driver) Challenge() game.Challenge { return d.challenge }
func (d *Driver) Machine() *round.Machine   { return d.machine }
