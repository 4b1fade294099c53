package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/medallion/internal/game"
)

// DefaultParser reads pattern files of the form
//
//	#GROUP:starter;
//	#DIFFICULTY:4;
//	#DESCRIPTION:Quarter notes only;
//	1 2 3
//	1,2,4
//
// Lines starting with // are ignored.
type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) ([]*game.Group, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return p.Read(f)
}

func tag(line string) (string, string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", "", false
	}
	name, value, ok := strings.Cut(strings.TrimPrefix(line, "#"), ":")
	if !ok {
		return "", "", false
	}
	return strings.ToUpper(strings.TrimSpace(name)), strings.TrimSpace(strings.TrimSuffix(value, ";")), true
}

func (p *DefaultParser) Read(r io.Reader) ([]*game.Group, error) {
	groups := []*game.Group{}
	var current *game.Group

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(strings.ReplaceAll(scanner.Text(), "\r", ""))
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if name, value, ok := tag(line); ok {
			switch name {
			case "GROUP":
				if value == "" {
					return nil, fmt.Errorf("line %d: empty group name", n)
				}
				current = &game.Group{
					Name:       strings.ToLower(value),
					Title:      value,
					Difficulty: game.DefaultDifficulty,
				}
				groups = append(groups, current)
			case "DIFFICULTY":
				if nil == current {
					return nil, fmt.Errorf("line %d: difficulty outside a group", n)
				}
				d, err := strconv.Atoi(value)
				if nil != err {
					return nil, fmt.Errorf("line %d: %w", n, err)
				}
				if !game.ValidDifficulty(d) {
					return nil, fmt.Errorf("line %d: %w: %v", n, game.ErrInvalidDifficulty, d)
				}
				current.Difficulty = d
			case "TITLE":
				if nil != current {
					current.Title = value
				}
			case "DESCRIPTION":
				if nil != current {
					current.Description = value
				}
			}
			continue
		}

		if nil == current {
			return nil, fmt.Errorf("line %d: pattern outside a group", n)
		}
		positions, err := game.ParsePositions(line)
		if nil != err {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if len(positions) == 0 {
			continue
		}
		current.Patterns = append(current.Patterns, positions)
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}

	for _, g := range groups {
		if len(g.Patterns) == 0 {
			return nil, fmt.Errorf("group %q: %w", g.Name, game.ErrEmptyPattern)
		}
	}
	return groups, nil
}
