package main

import (
	"fmt"
	"log/slog"
	"math"

	"git.lost.host/meutraa/medallion/internal/event"
	"git.lost.host/meutraa/medallion/internal/game"
	"git.lost.host/meutraa/medallion/internal/input"
	"git.lost.host/meutraa/medallion/internal/library"
	"git.lost.host/meutraa/medallion/internal/render"
	"git.lost.host/meutraa/medallion/internal/session"
	"git.lost.host/meutraa/medallion/internal/theme"
)

const (
	// frames a feedback message stays up
	feedbackFrames = 60
	barWidth       = 30
)

type Program struct {
	Renderer render.Renderer
	Theme    theme.Theme
	Library  library.Library
	Session  *session.Session
	Events   *event.Recorder
	Log      *slog.Logger

	width, height int
	centerRow     int
	centerCol     int
	radius        int
	sideCol       int
}

func (p *Program) Resize() {
	p.width, p.height = p.Renderer.Size()
	p.centerRow = p.height / 2
	p.centerCol = p.width / 2
	p.radius = int(math.Min(float64(p.height/2-3), float64(p.width/4-2)))
	if p.radius < 3 {
		p.radius = 3
	}
	p.sideCol = 2
}

// Frame handles pending input, advances the game and draws it.
// It returns false once the player quits.
func (p *Program) Frame(actions <-chan input.Action) bool {
	for i := len(actions); i > 0; i-- {
		action, ok := <-actions
		if !ok || !p.Update(action) {
			return false
		}
	}
	p.Session.Tick()
	p.Render()
	return true
}

func (p *Program) Update(action input.Action) bool {
	switch action.Kind {
	case input.Quit:
		return false
	case input.Tap:
		p.Session.Tap()
	case input.NextPattern:
		if err := p.Session.NextPattern(); nil != err {
			p.Log.Error("unable to load the next pattern", "err", err)
		}
	case input.Difficulty:
		if err := p.Session.DifficultyChanged(action.Level); nil != err {
			p.Log.Error("unable to change difficulty", "err", err)
		}
	case input.CycleGroup:
		if err := p.Session.SelectGroup(p.nextGroup()); nil != err {
			p.Log.Error("unable to switch group", "err", err)
		}
	}
	return true
}

func (p *Program) nextGroup() string {
	groups := p.Library.Groups()
	current := p.Session.Group()
	for i, g := range groups {
		if g.Name == current {
			return groups[(i+1)%len(groups)].Name
		}
	}
	return groups[0].Name
}

func (p *Program) Render() {
	p.Resize()
	st := p.Session.Snapshot()

	p.Renderer.Clear()
	p.renderFeedback(st)
	p.renderDial(st)
	p.renderStatus(st)
}

func (p *Program) cell(angle float64, radius int) (int, int) {
	return render.DialCell(angle, radius, p.centerRow, p.centerCol)
}

func (p *Program) renderDial(st session.State) {
	// slice edges for the current difficulty
	for _, slot := range st.Slots {
		if slot.State == game.Hidden {
			continue
		}
		for _, edge := range []float64{-st.SliceWidth / 2, st.SliceWidth / 2} {
			row, col := p.cell(slot.Angle+edge, p.radius+1)
			p.Renderer.Fill(row, col, "·")
		}
	}

	for _, slot := range st.Slots {
		row, col := p.cell(slot.Angle, p.radius)
		p.Renderer.Fill(row, col, p.Theme.RenderSlot(slot))
		if slot.Decoy != 0 && slot.State != game.Gone && slot.State != game.Hidden {
			row, col := p.cell(slot.Angle+slot.Decoy, p.radius-1)
			p.Renderer.Fill(row, col, "∘")
		}
	}

	row, col := p.cell(st.Angle, p.radius-2)
	p.Renderer.Fill(row, col, p.Theme.RenderScanner())

	if st.Comet.Active {
		row, col := p.cell(st.Comet.Angle, p.radius+2)
		p.Renderer.Fill(row, col, p.Theme.RenderComet())
	}

	row, col = p.cell(st.CenterAngle, 1)
	p.Renderer.Fill(row, col, "✧")
}

func (p *Program) renderStatus(st session.State) {
	lines := []string{
		fmt.Sprintf("   Group:  %v (%v/%v)", st.Group, st.Progress.Completed, st.Progress.Total),
		fmt.Sprintf(" Pattern:  %v", st.Pattern),
		fmt.Sprintf("   Stage:  %v/%v  %3.0f bpm", st.Stage, len(game.Stages), st.BPM),
		fmt.Sprintf("   Round:  %v/%v", st.Milestone, game.TerminalMilestone),
		fmt.Sprintf("   Width:  %v (%2.0f°)", st.Difficulty, st.SliceWidth),
		fmt.Sprintf("  Reveal:  %5.1f%%", st.Reveal),
		fmt.Sprintf("  Rhythms: %v", st.Completed),
		fmt.Sprintf("   Level:  %v %v", st.Level.Number, st.Level.Name),
		nextLevel(st),
	}
	for i, l := range lines {
		p.Renderer.Fill(2+i, p.sideCol, l)
	}
	p.Renderer.Fill(3+len(lines), p.sideCol, "      XP:  "+p.Theme.RenderBar(barWidth, st.Fill, st.Level.Number))
	p.Renderer.Fill(p.height-1, p.sideCol, "space tap  n next  1-5 width  g group  q quit")
}

func (p *Program) renderFeedback(st session.State) {
	row := p.centerRow + p.radius + 3
	if row >= p.height-1 {
		row = p.height - 2
	}
	col := p.centerCol - 6
	for _, e := range p.Events.Drain() {
		switch e.Type {
		case event.BeatHit:
			p.Renderer.AddDecoration(col, row, "\033[1;32mHit!\033[0m     ", feedbackFrames/2)
		case event.Miss:
			p.Renderer.AddDecoration(col, row, "\033[1;31mMiss!\033[0m    ", feedbackFrames/2)
		case event.RoundMiss:
			p.Renderer.AddDecoration(col, row, "\033[1;31mTry again\033[0m", feedbackFrames)
		case event.StageComplete:
			if e.Stage < len(game.Stages) {
				p.Renderer.AddDecoration(col, row, fmt.Sprintf("\033[1;33mStage %v!\033[0m ", e.Stage), feedbackFrames*2)
			}
		case event.FullVictory:
			p.Renderer.AddDecoration(col, row, "\033[1;33mSuccess!\033[0m ", feedbackFrames*3)
		case event.LevelUpStarted:
			p.Renderer.AddDecoration(col, row+1, fmt.Sprintf("\033[1;35mLevel %v!\033[0m", e.Level), feedbackFrames*2)
		}
	}
	if st.Victory {
		p.Renderer.Fill(row+2, col-4, "press n for the next rhythm")
	}
}

func nextLevel(st session.State) string {
	if st.MaxLevel {
		return "    Next:  max level"
	}
	return fmt.Sprintf("    Next:  %v in %v xp", st.NextLevel.Name, st.Level.Required-st.XP)
}
