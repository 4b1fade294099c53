package parser

import "git.lost.host/meutraa/medallion/internal/game"

type Parser interface {
	Parse(file string) ([]*game.Group, error)
}
