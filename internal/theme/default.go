package theme

import (
	"fmt"
	"math"
	"strings"

	"git.lost.host/meutraa/medallion/internal/game"
	"git.lost.host/meutraa/medallion/internal/xp"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type DefaultTheme struct{}

const (
	slotSym    = "⬤"
	goneSym    = "◌"
	scannerSym = "▲"
	cometSym   = "✦"
	barSym     = "█"
	emptySym   = "░"

	// lightness shift of the gradient ends
	gradientSpread = 0.15
)

var (
	stateColors = map[game.BeatState]colorful.Color{
		game.Hidden: colorful.Color{R: 0.2, G: 0.2, B: 0.2},
		game.Silver: mustHex("#c0c0c0"),
		game.White:  mustHex("#ffffff"),
		game.Gold:   mustHex("#ffd700"),
		game.Gone:   mustHex("#5d4037"),
	}
	scannerColor = mustHex("#ffffff")
	cometColor   = mustHex("#ffd700")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if nil != err {
		panic(err)
	}
	return c
}

func ansi(c colorful.Color, s string) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", r, g, b, s)
}

func (t *DefaultTheme) StateColor(state game.BeatState) colorful.Color {
	c, ok := stateColors[state]
	if !ok {
		return stateColors[game.Hidden]
	}
	return c
}

func (t *DefaultTheme) LevelColor(level int) colorful.Color {
	if level < 1 {
		level = 1
	}
	if level > len(xp.Levels) {
		level = len(xp.Levels)
	}
	return mustHex(xp.Levels[level-1].Color)
}

func (t *DefaultTheme) LevelGradient(level int, at float64) colorful.Color {
	at = math.Max(0, math.Min(1, at))
	h, c, l := t.LevelColor(level).Hcl()
	dark := colorful.Hcl(h, c, math.Max(0, l-gradientSpread)).Clamped()
	light := colorful.Hcl(h, c, math.Min(1, l+gradientSpread)).Clamped()
	return dark.BlendLab(light, at).Clamped()
}

func (t *DefaultTheme) RenderSlot(slot game.Slot) string {
	if slot.State == game.Gone {
		return ansi(t.StateColor(game.Gone), goneSym)
	}
	return ansi(t.StateColor(slot.State), slotSym)
}

func (t *DefaultTheme) RenderScanner() string {
	return ansi(scannerColor, scannerSym)
}

func (t *DefaultTheme) RenderComet() string {
	return ansi(cometColor, cometSym)
}

func (t *DefaultTheme) RenderBar(width int, fill float64, level int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(1, fill)) * float64(width)))
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i >= filled {
			b.WriteString(emptySym)
			continue
		}
		b.WriteString(ansi(t.LevelGradient(level, float64(i)/float64(width)), barSym))
	}
	return b.String()
}
