package theme

import (
	"git.lost.host/meutraa/medallion/internal/game"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type Theme interface {
	StateColor(state game.BeatState) colorful.Color
	LevelColor(level int) colorful.Color

	// LevelGradient returns the colour of the XP fill at position t, 0-1
	LevelGradient(level int, t float64) colorful.Color

	RenderSlot(slot game.Slot) string
	RenderScanner() string
	RenderComet() string
	RenderBar(width int, fill float64, level int) string
}
