package round

import (
	"errors"
	"math"
	"testing"
	"time"

	"git.lost.host/meutraa/medallion/internal/bpm"
	"git.lost.host/meutraa/medallion/internal/clock"
	"git.lost.host/meutraa/medallion/internal/event"
	"git.lost.host/meutraa/medallion/internal/game"
	"git.lost.host/meutraa/medallion/internal/schedule"
)

// sequence replays fixed values as the random source
type sequence struct {
	values []float64
	i      int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

type harness struct {
	t         *testing.T
	clock     *clock.Manual
	timers    *schedule.Scheduler
	events    *event.Recorder
	m         *Machine
	completed []int
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		t:      t,
		clock:  clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		events: &event.Recorder{},
	}
	h.timers = schedule.New(h.clock)
	// alternate late, early, late, early...
	h.m = New(h.timers, h.events, &sequence{values: []float64{0.9, 0.1}})
	h.m.OnMilestoneComplete = func(milestone int) {
		h.completed = append(h.completed, milestone)
		if milestone < game.TerminalMilestone {
			h.m.NextMilestone()
		} else {
			h.m.CompleteStage()
		}
	}
	return h
}

var quarters = []game.Position{game.Beat1, game.Beat2, game.Beat3, game.Beat4}

func stageAt(index int, tempo float64) game.Stage {
	s := game.Stages[index-1]
	s.BPM = tempo
	return s
}

func (h *harness) load(positions []game.Position, stage game.Stage, difficulty int) {
	if err := h.m.Load(positions, stage, difficulty); nil != err {
		h.t.Fatalf("unable to load pattern: %v", err)
	}
}

func (h *harness) step(seconds float64) {
	h.clock.Advance(time.Duration(seconds * float64(time.Second)))
	h.timers.Run()
	h.m.Tick(seconds)
}

// advanceBy sweeps the scanner forward in small steps
func (h *harness) advanceBy(degrees float64) {
	for degrees > 0 {
		d := math.Min(degrees, 3)
		h.step(d / h.m.Speed())
		degrees -= d
	}
}

func (h *harness) advanceTo(angle float64) {
	h.advanceBy(bpm.Forward(h.m.Angle(), angle))
}

func (h *harness) finishReveal() {
	h.advanceBy(bpm.Forward(h.m.Angle(), RevealEndAngle) + 1)
	if h.m.Revealing() {
		h.t.Fatalf("reveal still running at %v", h.m.Angle())
	}
}

func (h *harness) tapAt(angle float64) TapResult {
	h.advanceTo(angle)
	return h.m.Tap()
}

func (h *harness) states() []game.BeatState {
	out := []game.BeatState{}
	for _, s := range h.m.Slots() {
		out = append(out, s.State)
	}
	return out
}

func TestRevealSweep(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)

	if h.m.Milestone() != game.RevealMilestone || !h.m.Revealing() {
		t.Fatalf("expected reveal milestone, got %d", h.m.Milestone())
	}
	if h.m.Tap() != TapIgnored {
		t.Fatal("taps must be ignored during the reveal")
	}

	h.advanceTo(100)
	states := h.states()
	expected := []game.BeatState{game.Silver, game.Silver, game.Hidden, game.Hidden}
	for i := range expected {
		if states[i] != expected[i] {
			t.Fatalf("at 100°: expected %v, got %v", expected, states)
		}
	}

	h.finishReveal()
	if h.m.Milestone() != 1 {
		t.Fatalf("expected milestone 1 after reveal, got %d", h.m.Milestone())
	}
	for _, s := range h.states() {
		if s != game.Silver {
			t.Fatalf("expected all silver, got %v", h.states())
		}
	}
	if len(h.completed) != 0 {
		t.Fatal("the reveal must not count as a completed milestone")
	}
	if h.m.Reveal() != 10 {
		t.Fatalf("expected reveal at stage start 10, got %v", h.m.Reveal())
	}
}

func TestHitEveryBeatCompletesMilestone(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()

	for _, angle := range []float64{0, 90, 180, 270} {
		if r := h.tapAt(angle); r != TapHit {
			t.Fatalf("tap at %v: expected hit, got %v", angle, r)
		}
	}
	if h.events.Count(event.BeatHit) != 4 {
		t.Fatalf("expected 4 hits, got %d", h.events.Count(event.BeatHit))
	}
	if math.Abs(h.m.Reveal()-20) > 1e-9 {
		t.Fatalf("expected reveal 20 after milestone 1, got %v", h.m.Reveal())
	}

	h.advanceBy(1)
	if len(h.completed) != 1 || h.completed[0] != 1 {
		t.Fatalf("expected milestone 1 completion, got %v", h.completed)
	}
	if h.m.Milestone() != 2 {
		t.Fatalf("expected milestone 2, got %d", h.m.Milestone())
	}
	if _, started := h.m.RoundStartAngle(); started {
		t.Fatal("round start should be cleared for the next milestone")
	}
}

func TestRevealPercentIncrements(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()

	expected := []float64{12.5, 15, 17.5, 20}
	for i, angle := range []float64{0, 90, 180, 270} {
		h.tapAt(angle)
		if math.Abs(h.m.Reveal()-expected[i]) > 1e-9 {
			t.Fatalf("hit %d: expected %v, got %v", i, expected[i], h.m.Reveal())
		}
	}
}

func TestNoRoundMissBeforeFirstHit(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()

	h.advanceBy(720)
	if h.events.Count(event.RoundMiss) != 0 || h.events.Count(event.Miss) != 0 {
		t.Fatalf("expected no misses without taps, got %v", h.events.Drain())
	}

	if r := h.tapAt(135); r != TapMissed {
		t.Fatalf("expected miss between beats, got %v", r)
	}
	if h.events.Count(event.Miss) != 1 || h.events.Count(event.RoundMiss) != 0 {
		t.Fatal("a miss before the first hit must not fail the round")
	}
}

func TestTapMissAfterHitFailsRound(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()

	h.tapAt(0)
	h.tapAt(90)
	slots := h.m.Slots()
	if slots[0].Decoy != 10 || slots[1].Decoy != -10 {
		t.Fatalf("expected decoys 10/-10 after hits, got %v/%v", slots[0].Decoy, slots[1].Decoy)
	}

	if r := h.tapAt(135); r != TapMissed {
		t.Fatalf("expected miss, got %v", r)
	}
	if h.events.Count(event.RoundMiss) != 1 {
		t.Fatal("expected round miss")
	}
	for _, s := range h.states() {
		if s != game.Silver {
			t.Fatalf("expected all reverted to silver, got %v", h.states())
		}
	}
	slots = h.m.Slots()
	if slots[0].Decoy != 15 || slots[1].Decoy != -15 {
		t.Fatalf("expected decoys back at 15/-15, got %v/%v", slots[0].Decoy, slots[1].Decoy)
	}
	if h.m.Reveal() != 10 {
		t.Fatalf("expected reveal reset to 10, got %v", h.m.Reveal())
	}

	if !h.m.MissTriggered() {
		t.Fatal("expected miss flag until the settle delay")
	}
	h.clock.Advance(SettleDelay)
	h.timers.Run()
	if h.m.MissTriggered() || h.m.RoundStarted() {
		t.Fatal("expected a fresh attempt after the settle delay")
	}
}

func TestReloadCancelsSettle(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()
	h.tapAt(0)
	if r := h.tapAt(135); r != TapMissed {
		t.Fatalf("expected miss, got %v", r)
	}
	if n := h.timers.Pending(); n != 1 {
		t.Fatalf("expected the settle to be pending, got %d tasks", n)
	}

	h.load(quarters, stageAt(1, 90), 3)
	if n := h.timers.Pending(); n != 0 {
		t.Fatalf("expected the settle to be dropped, %d tasks pending", n)
	}
}

func TestRoundMissRestoresOneDecoyStep(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()

	for _, angle := range []float64{0, 90, 180, 270} {
		h.tapAt(angle)
	}
	h.advanceBy(1)
	if h.m.Milestone() != 2 {
		t.Fatalf("expected milestone 2, got %d", h.m.Milestone())
	}

	// three hits in milestone 2 then a miss
	h.tapAt(0)
	h.tapAt(90)
	h.tapAt(180)
	slots := h.m.Slots()
	if slots[0].Decoy != 5 || slots[2].Decoy != 5 {
		t.Fatalf("expected decoys at 5, got %v %v", slots[0].Decoy, slots[2].Decoy)
	}
	h.tapAt(225)

	slots = h.m.Slots()
	for i, expected := range []float64{10, -10, 10} {
		if slots[i].Decoy != expected {
			t.Fatalf("slot %d: expected decoy %v, got %v", i, expected, slots[i].Decoy)
		}
		if slots[i].State != game.White {
			t.Fatalf("slot %d: expected white, got %v", i, slots[i].State)
		}
	}
	if slots[3].Decoy != -10 || slots[3].State != game.White {
		t.Fatalf("untouched slot changed: %+v", slots[3])
	}
	if math.Abs(h.m.Reveal()-20) > 1e-9 {
		t.Fatalf("expected reveal back at milestone 2 start 20, got %v", h.m.Reveal())
	}
}

func TestScannerPassingBeatFailsRound(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()

	h.tapAt(0)
	// slice width 20 at difficulty 3, the beat at 90 is missed past 110
	h.advanceTo(105)
	if h.events.Count(event.RoundMiss) != 0 {
		t.Fatal("round failed inside the miss window")
	}
	h.advanceTo(115)
	if h.events.Count(event.RoundMiss) != 1 {
		t.Fatal("expected round miss once the scanner passed the window")
	}
	h.advanceBy(30)
	if h.events.Count(event.RoundMiss) != 1 {
		t.Fatal("round miss must fire once per attempt")
	}
}

func TestDifficultyChangeKeepsStates(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()
	h.tapAt(0)

	before := h.states()
	h.m.SetDifficulty(1)
	after := h.states()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("state changed with difficulty: %v -> %v", before, after)
		}
	}

	// tap tolerance at difficulty 1 is 9 degrees
	h.advanceTo(78)
	if r := h.m.Tap(); r != TapMissed {
		t.Fatalf("expected miss 12° early at difficulty 1, got %v", r)
	}
}

func TestFirstTapStartsCenterRotation(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()

	h.advanceTo(350)
	if h.m.CenterAngle() != 0 || h.m.CenterSpeed() != 0 {
		t.Fatal("centre must stay still before the first tap")
	}
	h.tapAt(0)
	if math.Abs(h.m.CenterSpeed()-h.m.Speed()/2) > 1e-9 {
		t.Fatalf("expected half scanner speed, got %v", h.m.CenterSpeed())
	}
	h.advanceBy(30)
	if math.Abs(h.m.CenterAngle()-15) > 1e-6 {
		t.Fatalf("expected centre at 15°, got %v", h.m.CenterAngle())
	}
}

func TestLoadRejectsInvalidPattern(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(1, 90), 3)
	h.finishReveal()
	gen := h.m.Generation()

	if err := h.m.Load([]game.Position{"1", "9"}, stageAt(1, 90), 3); !errors.Is(err, game.ErrUnknownPosition) {
		t.Fatalf("expected unknown position, got %v", err)
	}
	if err := h.m.Load(nil, stageAt(1, 90), 3); !errors.Is(err, game.ErrEmptyPattern) {
		t.Fatalf("expected empty pattern, got %v", err)
	}
	if err := h.m.Load(quarters, stageAt(1, 0), 3); !errors.Is(err, game.ErrInvalidBPM) {
		t.Fatalf("expected invalid bpm, got %v", err)
	}
	if h.m.Generation() != gen || h.m.Milestone() != 1 || len(h.m.Slots()) != 4 {
		t.Fatal("a rejected load changed the machine")
	}
}

func TestReplayStageStartsSilver(t *testing.T) {
	h := newHarness(t)
	h.load(quarters, stageAt(2, 100), 3)

	if h.m.Milestone() != 1 || h.m.Revealing() {
		t.Fatalf("expected milestone 1 without reveal, got %d", h.m.Milestone())
	}
	if h.m.Angle() != ReplayStartAngle {
		t.Fatalf("expected scanner at %v, got %v", ReplayStartAngle, h.m.Angle())
	}
	for _, s := range h.states() {
		if s != game.Silver {
			t.Fatalf("expected silver, got %v", h.states())
		}
	}
	if h.m.Reveal() != 40 {
		t.Fatalf("expected reveal at stage 2 start, got %v", h.m.Reveal())
	}
}

func TestRotation(t *testing.T) {
	h := newHarness(t)
	h.m.SetRotation(1)
	h.load([]game.Position{game.Beat1, game.Beat4A}, stageAt(1, 90), 3)

	slots := h.m.Slots()
	if slots[0].Position != game.Beat2 || slots[0].Angle != 90 || slots[0].Original != game.Beat1 {
		t.Fatalf("unexpected rotated slot %+v", slots[0])
	}
	if slots[1].Position != game.Beat1A || slots[1].Angle != 45 {
		t.Fatalf("unexpected wrapped slot %+v", slots[1])
	}
}

func TestTerminalMilestoneStartsAttempt(t *testing.T) {
	h := newHarness(t)
	started := []int{}
	h.m.OnAttemptStarted = func(milestone int, angle float64) {
		started = append(started, milestone)
	}
	h.load([]game.Position{game.Beat1}, stageAt(2, 120), 3)

	for milestone := 1; milestone <= game.TerminalMilestone; milestone++ {
		h.tapAt(0)
		h.advanceBy(10)
	}
	if len(started) != 3 || started[2] != game.TerminalMilestone {
		t.Fatalf("expected an attempt per milestone, got %v", started)
	}
	if !h.m.StageDone() || h.m.Running() {
		t.Fatal("expected the stage to freeze after the terminal milestone")
	}
	if h.m.Tap() != TapIgnored {
		t.Fatal("taps must be ignored once the stage is done")
	}
}
