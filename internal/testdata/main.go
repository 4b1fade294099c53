// Package testdata holds pattern fixtures shared by tests
package testdata

import (
	"encoding/json"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/medallion/internal/game"
)

// Patterns is a pattern file with two groups
const Patterns = `// drills for testing
#GROUP:Drill;
#DIFFICULTY:2;
#DESCRIPTION:Offbeats;
1A 2A
1,3A,4
1A 2A

#GROUP:warmup;
4
`

const groups = `[
	{"Name": "drill", "Title": "Drill", "Difficulty": 2, "Patterns": [["1A", "2A"], ["1", "3A", "4"]]},
	{"Name": "single", "Title": "Single", "Difficulty": 5, "Patterns": [["1"]]}
]`

// WritePatterns writes Patterns to a file in dir and returns its path
func WritePatterns(dir string) (string, error) {
	file := filepath.Join(dir, "patterns.txt")
	if err := os.WriteFile(file, []byte(Patterns), 0o644); nil != err {
		return "", err
	}
	return file, nil
}

func GetGroups() ([]*game.Group, error) {
	var gs []*game.Group
	if err := json.Unmarshal([]byte(groups), &gs); nil != err {
		return nil, err
	}
	return gs, nil
}
