package game

import (
	"fmt"
	"strings"
)

// Position is a beat label on the dial, quarter notes 1-4 and the
// eighth notes between them.
type Position string

const (
	Beat1  Position = "1"
	Beat1A Position = "1A"
	Beat2  Position = "2"
	Beat2A Position = "2A"
	Beat3  Position = "3"
	Beat3A Position = "3A"
	Beat4  Position = "4"
	Beat4A Position = "4A"
)

// Positions in dial order, 45 degrees apart
var Positions = [...]Position{Beat1, Beat1A, Beat2, Beat2A, Beat3, Beat3A, Beat4, Beat4A}

// Index returns the dial index of the position, 0-7
func (p Position) Index() (int, bool) {
	for i, q := range Positions {
		if p == q {
			return i, true
		}
	}
	return -1, false
}

func (p Position) Valid() bool {
	_, ok := p.Index()
	return ok
}

// Rotate shifts the label by whole quarter notes, wrapping around the bar.
// Unknown labels are returned unchanged.
func (p Position) Rotate(steps int) Position {
	i, ok := p.Index()
	if !ok {
		return p
	}
	n := len(Positions)
	j := ((i+steps*2)%n + n) % n
	return Positions[j]
}

func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
	}
	return p, nil
}

// ParsePositions accepts labels separated by spaces and/or commas
func ParsePositions(s string) ([]Position, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	ps := make([]Position, 0, len(fields))
	for _, f := range fields {
		p, err := ParsePosition(f)
		if nil != err {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

// Key joins the labels the way the pattern library identifies a pattern
func Key(ps []Position) string {
	ss := make([]string, len(ps))
	for i, p := range ps {
		ss[i] = string(p)
	}
	return strings.Join(ss, ",")
}
