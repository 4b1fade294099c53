package library

import "git.lost.host/meutraa/medallion/internal/game"

func patterns(labels ...string) [][]game.Position {
	out := make([][]game.Position, 0, len(labels))
	for _, l := range labels {
		ps, err := game.ParsePositions(l)
		if nil != err {
			panic(err)
		}
		out = append(out, ps)
	}
	return out
}

// Builtin groups, in the order they are cycled
func Builtin() []*game.Group {
	return []*game.Group{
		{
			Name:        "starter",
			Title:       "Starter",
			Description: "Quarter notes only",
			Difficulty:  4,
			Patterns: patterns(
				"1 2 3", "1 2 4", "1 3", "1 3 4", "2 4",
				"3 4", "2 3 4", "2 3", "1 2", "1 4",
				"2 3 4", "1 2 3 4", "1 3 4", "2 4", "1 2 4",
				"3", "1", "2", "4", "1 4",
				"2 3", "1 2 3", "3 4", "1 3", "2 4",
			),
		},
		{
			Name:        "intermediate",
			Title:       "Intermediate",
			Description: "All 4 beats with sparse eighths",
			Difficulty:  3,
			Patterns: patterns(
				"1 1A 2 3 4", "1 2 2A 3 4", "1 2 3 3A 4", "1 2 3 4 4A", "1 1A 2 2A 3 4",
				"1 1A 2 3 3A 4", "1 2 2A 3 3A 4", "1 2 2A 3 4 4A", "1 2 3 3A 4 4A", "1 1A 2 3 4 4A",
				"1 1A 2 2A 3 3A 4", "1 1A 2 2A 3 4 4A", "1 1A 2 3 3A 4 4A", "1 2 2A 3 3A 4 4A", "1 1A 2 2A 3 3A 4 4A",
				"1 2 3 4", "1 1A 2 4", "1 3 3A 4", "1 2 3 4A", "1 1A 3 4",
				"1 2 2A 4", "1 3 4 4A", "1 1A 2 3", "2 2A 3 4", "1 2 3 3A",
			),
		},
		{
			Name:        "advanced",
			Title:       "Advanced",
			Description: "Eighths with missing beats",
			Difficulty:  2,
			Patterns: patterns(
				"1 1A 2 2A 3", "1 1A 2 3 3A", "1 3 3A 4 4A", "1 2 2A 4", "1 2 2A 4 4A",
				"1 2 2A 3A 4 4A", "1 3 4 4A", "2 2A 3 4", "1 1A 3 4", "1 2 3 3A",
				"2 3 3A 4", "1 1A 2 4", "1 2 3A 4", "1 1A 3 3A 4", "1 2 2A 3 4",
				"1 1A 2 3 4", "2 2A 3 3A 4", "1 2 3 4 4A", "1 1A 2 2A 4", "1 2 3 3A 4",
				"1 1A 3 4 4A", "2 2A 3 4 4A", "1 2 2A 3 3A", "1 1A 2 3A 4", "1 2A 3 3A 4",
			),
		},
		{
			Name:        "expert",
			Title:       "Expert",
			Description: "Sparse and syncopated",
			Difficulty:  1,
			Patterns: patterns(
				"2 3 4", "2 2A 3 4", "2 2A 3 3A 4", "2 2A 3 3A 4A", "1A 2A 3A 4A",
				"1A 2A 3 3A 4A", "1A 3 4", "2 2A 4 4A", "1 1A 3 3A", "2 3 3A",
				"2A 3 4", "1A 2 4", "2 3A 4A", "1A 3 3A 4", "2A 3 3A 4",
				"1A 2A 4", "2 4 4A", "1A 2 3 4", "2 2A 3", "3 3A 4A",
				"1A 3A 4", "2A 3 4A", "1A 2A 3 4", "2 3 4A", "1A 2 3A 4",
			),
		},
	}
}
