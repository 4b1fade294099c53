package render

import "time"

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int)
	AddDecoration(col, row int, content string, frames int)
	RenderLoop(period time.Duration, render func(now time.Time) bool)
	Fill(row, column int, message string)
	Clear()
}
