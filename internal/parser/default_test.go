package parser

import (
	"errors"
	"strings"
	"testing"

	"git.lost.host/meutraa/medallion/internal/game"
	"git.lost.host/meutraa/medallion/internal/testdata"
)

func TestParse(t *testing.T) {
	file, err := testdata.WritePatterns(t.TempDir())
	if nil != err {
		t.Fatal(err)
	}
	p := DefaultParser{}
	groups, err := p.Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	drill := groups[0]
	if drill.Name != "drill" || drill.Title != "Drill" || drill.Difficulty != 2 || drill.Description != "Offbeats" {
		t.Fatalf("unexpected group %+v", drill)
	}
	if len(drill.Patterns) != 3 || game.Key(drill.Patterns[1]) != "1,3A,4" {
		t.Fatalf("unexpected patterns %v", drill.Patterns)
	}

	warmup := groups[1]
	if warmup.Difficulty != game.DefaultDifficulty || len(warmup.Patterns) != 1 {
		t.Fatalf("unexpected group %+v", warmup)
	}
}

var badFiles = map[string]error{
	"1 2\n":                            nil,
	"#GROUP:x;\n1 5\n":                 game.ErrUnknownPosition,
	"#GROUP:x;\n#DIFFICULTY:7;\n1\n":   game.ErrInvalidDifficulty,
	"#GROUP:x;\n// nothing here\n":     game.ErrEmptyPattern,
	"#DIFFICULTY:2;\n#GROUP:x;\n1\n":   nil,
	"#GROUP:x;\n#DIFFICULTY:two;\n1\n": nil,
}

func TestParseErrors(t *testing.T) {
	p := DefaultParser{}
	for file, expected := range badFiles {
		_, err := p.Read(strings.NewReader(file))
		if nil == err {
			t.Logf("%q: expected an error", file)
			t.Fail()
			continue
		}
		if nil != expected && !errors.Is(err, expected) {
			t.Logf("%q: expected %v, got %v", file, expected, err)
			t.Fail()
		}
	}
}

func TestParseMissingFile(t *testing.T) {
	p := DefaultParser{}
	if _, err := p.Parse("/nonexistent/patterns.txt"); nil == err {
		t.Fatal("expected an error")
	}
}
