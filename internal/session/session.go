// Package session serializes taps, ticks and pattern changes onto one
// progression engine. Every method is safe for concurrent use.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.lost.host/meutraa/medallion/internal/bpm"
	"git.lost.host/meutraa/medallion/internal/clock"
	"git.lost.host/meutraa/medallion/internal/event"
	"git.lost.host/meutraa/medallion/internal/game"
	"git.lost.host/meutraa/medallion/internal/library"
	"git.lost.host/meutraa/medallion/internal/progress"
	"git.lost.host/meutraa/medallion/internal/round"
	"git.lost.host/meutraa/medallion/internal/schedule"
	"git.lost.host/meutraa/medallion/internal/xp"
)

// A stalled frame loop must not teleport the scanner past several beats.
// Timers run on the same clamped game time as the scanner.
const MaxTickDelta = 100 * time.Millisecond

type Options struct {
	Clock   clock.Provider
	Library library.Library
	Random  round.Random
	Log     *slog.Logger

	// Events receives every game event. It is called with the session
	// lock held and must not call back into the session.
	Events event.Handler

	Group      string
	BPM        float64
	Difficulty int // 0 uses the group's
	Rotation   int
}

type Session struct {
	mu sync.Mutex

	log     *slog.Logger
	clock   clock.Provider
	played  *clock.Manual // game time, advanced by clamped ticks
	timers  *schedule.Scheduler
	library library.Library
	meter   *xp.Meter
	driver  *progress.Driver

	group      string
	tempo      float64
	difficulty int
	pick       *library.Pick
	completed  int
	lastTick   time.Time
}

func New(o Options) (*Session, error) {
	if nil == o.Clock {
		o.Clock = clock.Real{}
	}
	if nil == o.Log {
		o.Log = slog.Default()
	}
	if nil == o.Events {
		o.Events = event.Nop
	}
	if o.BPM == 0 {
		o.BPM = game.Stages[0].BPM
	}
	if o.BPM < 0 {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidBPM, o.BPM)
	}
	if o.Difficulty != 0 && !game.ValidDifficulty(o.Difficulty) {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidDifficulty, o.Difficulty)
	}
	if nil == o.Library {
		return nil, fmt.Errorf("session needs a pattern library")
	}

	played := clock.NewManual(o.Clock.Now())
	timers := schedule.New(played)
	machine := round.New(timers, o.Events, o.Random)
	machine.SetRotation(o.Rotation)
	meter := xp.NewMeter()

	s := &Session{
		log:        o.Log,
		clock:      o.Clock,
		played:     played,
		timers:     timers,
		library:    o.Library,
		meter:      meter,
		driver:     progress.New(machine, timers, o.Events, meter, o.Log),
		group:      o.Group,
		tempo:      o.BPM,
		difficulty: o.Difficulty,
		lastTick:   o.Clock.Now(),
	}
	return s, nil
}

// LoadChallenge plays a challenge outside the library. On error nothing changes.
func (s *Session) LoadChallenge(c game.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.driver.Load(c); nil != err {
		return err
	}
	s.pick = nil
	s.lastTick = s.clock.Now()
	return nil
}

func (s *Session) Tap() round.TapResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Tap()
}

// Tick moves game time on by the time since the last tick, then runs due
// timers and advances the dial
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	delta := now.Sub(s.lastTick)
	s.lastTick = now
	if delta < 0 {
		delta = 0
	}
	if delta > MaxTickDelta {
		delta = MaxTickDelta
	}
	s.played.Advance(delta)
	s.timers.Run()
	s.driver.Tick(delta.Seconds())
}

// DifficultyChanged applies a new difficulty now and to later patterns
func (s *Session) DifficultyChanged(level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.driver.SetDifficulty(level); nil != err {
		return err
	}
	s.difficulty = level
	s.log.Info("difficulty changed", "difficulty", level)
	return nil
}

// SetRotation rotates patterns by quarter notes from the next load on
func (s *Session) SetRotation(steps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.driver.Machine().SetRotation(steps)
}

// NextPattern counts the current library pattern as completed, finished
// or not, and loads the group's next one
func (s *Session) NextPattern() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nil != s.pick {
		if err := s.library.MarkCompleted(s.pick.Group, s.pick.Key); nil != err {
			return err
		}
		s.completed++
	}
	return s.loadNext()
}

// SelectGroup switches group and loads its next pattern
func (s *Session) SelectGroup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.group
	s.group = name
	if err := s.loadNext(); nil != err {
		s.group = previous
		return err
	}
	return nil
}

func (s *Session) loadNext() error {
	pick, err := s.library.Next(s.group, s.tempo)
	if nil != err {
		return err
	}
	if s.difficulty != 0 {
		pick.Challenge.Difficulty = s.difficulty
	}
	if err := s.driver.Load(pick.Challenge); nil != err {
		return err
	}
	s.pick = &pick
	s.lastTick = s.clock.Now()

	p, _ := s.library.Progress(s.group)
	s.log.Info("pattern loaded",
		"group", pick.Group,
		"pattern", pick.Key,
		"number", p.Completed+1,
		"of", p.Total,
		"last", pick.LastInGroup,
	)
	return nil
}

func (s *Session) Group() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group
}

type State struct {
	Loaded      bool
	Angle       float64
	CenterAngle float64
	Slots       []game.Slot
	Reveal      float64

	Stage     int
	Milestone int
	BPM       float64
	Revealing bool
	Holding   bool
	StageDone bool
	Attempt   bool // an attempt at the milestone is running
	Comet     progress.Comet
	Victory   bool

	Difficulty int
	SliceWidth float64
	Tolerance  float64

	Level     xp.Level
	NextLevel xp.Level
	MaxLevel  bool
	XP        int
	Fill      float64
	Completed int
	Group     string
	Pattern   string
	Progress  library.Progress
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.driver.Machine()
	c := s.driver.Challenge()
	st := State{
		Loaded:      m.Loaded(),
		Angle:       m.Angle(),
		CenterAngle: m.CenterAngle(),
		Slots:       m.Slots(),
		Reveal:      m.Reveal(),
		Stage:       s.driver.Stage(),
		Milestone:   m.Milestone(),
		BPM:         m.Stage().BPM,
		Revealing:   m.Revealing(),
		Holding:     m.Holding(),
		StageDone:   m.StageDone(),
		Attempt:     m.RoundStarted(),
		Comet:       s.driver.Comet(),
		Victory:     s.driver.Victory(),
		Difficulty:  m.Difficulty(),
		SliceWidth:  bpm.SliceWidth(m.Difficulty()),
		Tolerance:   bpm.TapTolerance(m.Difficulty()),
		Level:       s.meter.Current(),
		XP:          s.meter.XP(),
		Fill:        s.meter.Fill(),
		Completed:   s.completed,
		Group:       s.group,
		Pattern:     c.Key(),
	}
	if next, ok := s.meter.Next(); ok {
		st.NextLevel = next
	} else {
		st.MaxLevel = true
	}
	if p, err := s.library.Progress(s.group); nil == err {
		st.Progress = p
	}
	return st
}
