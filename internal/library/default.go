package library

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"git.lost.host/meutraa/medallion/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultLibrary struct {
	Log *slog.Logger

	db     *sql.DB
	groups map[string]*game.Group
	order  []string
}

func (l *DefaultLibrary) Init() error {
	if nil == l.Log {
		l.Log = slog.Default()
	}
	db, err := sql.Open("sqlite3", ":memory:")
	if nil != err {
		return fmt.Errorf("unable to open completion store: %w", err)
	}
	// every connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	initStatement := `
	create table if not exists completed
	  (
		  grp text not null,
		  sum text not null,
		  pattern text not null,
		  primary key (grp, sum)
	  );
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return fmt.Errorf("unable to create completion table: %w", err)
	}

	l.db = db
	if nil == l.groups {
		l.groups = map[string]*game.Group{}
	}
	for _, g := range Builtin() {
		if _, ok := l.groups[g.Name]; !ok {
			l.Add(g)
		}
	}
	return nil
}

func (l *DefaultLibrary) Deinit() {
	if nil != l.db {
		l.db.Close()
	}
}

func (l *DefaultLibrary) Add(g *game.Group) {
	if nil == l.groups {
		l.groups = map[string]*game.Group{}
	}
	name := strings.ToLower(g.Name)
	if _, ok := l.groups[name]; !ok {
		l.order = append(l.order, name)
	}
	l.groups[name] = g
}

func (l *DefaultLibrary) Groups() []Info {
	infos := make([]Info, 0, len(l.order))
	for _, name := range l.order {
		g := l.groups[name]
		infos = append(infos, Info{
			Name:         name,
			Title:        g.Title,
			Description:  g.Description,
			Difficulty:   g.Difficulty,
			PatternCount: len(g.Keys()),
		})
	}
	return infos
}

func (l *DefaultLibrary) group(name string) (*game.Group, error) {
	g, ok := l.groups[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return g, nil
}

func hashPattern(key string) string {
	sum := sha256.Sum256([]byte(key))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (l *DefaultLibrary) completed(group string) (map[string]bool, error) {
	done := map[string]bool{}
	rows, err := l.db.Query("select sum from completed where grp = ?", group)
	if nil != err {
		return nil, fmt.Errorf("unable to load completed patterns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sum string
		if err := rows.Scan(&sum); nil != err {
			return nil, err
		}
		done[sum] = true
	}
	return done, rows.Err()
}

func (l *DefaultLibrary) Next(name string, bpm float64) (Pick, error) {
	g, err := l.group(name)
	if nil != err {
		return Pick{}, err
	}
	keys := g.Keys()
	if len(keys) == 0 {
		return Pick{}, fmt.Errorf("%w: group %q", game.ErrEmptyPattern, g.Name)
	}
	name = strings.ToLower(g.Name)

	done, err := l.completed(name)
	if nil != err {
		return Pick{}, err
	}
	if len(done) >= len(keys) {
		l.Log.Info("group complete, starting over", "group", name)
		if err := l.Reset(name); nil != err {
			return Pick{}, err
		}
		done = map[string]bool{}
	}

	for _, key := range keys {
		if done[hashPattern(key)] {
			continue
		}
		positions, err := game.ParsePositions(key)
		if nil != err {
			return Pick{}, err
		}
		return Pick{
			Group: name,
			Key:   key,
			Challenge: game.Challenge{
				Name:       fmt.Sprintf("%s: %s", strings.ToUpper(name), strings.ReplaceAll(key, ",", " ")),
				Positions:  positions,
				BPM:        bpm,
				Difficulty: g.Difficulty,
			},
			LastInGroup: len(done) == len(keys)-1,
		}, nil
	}
	return Pick{}, fmt.Errorf("no pattern left in group %q", name)
}

func (l *DefaultLibrary) MarkCompleted(name, key string) error {
	g, err := l.group(name)
	if nil != err {
		return err
	}
	known := false
	for _, k := range g.Keys() {
		known = known || k == key
	}
	if !known {
		return fmt.Errorf("pattern %q is not in group %q", key, g.Name)
	}
	_, err = l.db.Exec(
		"insert or ignore into completed(grp, sum, pattern) values(?, ?, ?)",
		strings.ToLower(g.Name), hashPattern(key), key,
	)
	if nil != err {
		return fmt.Errorf("unable to mark pattern completed: %w", err)
	}
	return nil
}

func (l *DefaultLibrary) Reset(name string) error {
	g, err := l.group(name)
	if nil != err {
		return err
	}
	if _, err := l.db.Exec("delete from completed where grp = ?", strings.ToLower(g.Name)); nil != err {
		return fmt.Errorf("unable to reset group: %w", err)
	}
	return nil
}

func (l *DefaultLibrary) Progress(name string) (Progress, error) {
	g, err := l.group(name)
	if nil != err {
		return Progress{}, err
	}
	var completed int
	row := l.db.QueryRow("select count(*) from completed where grp = ?", strings.ToLower(g.Name))
	if err := row.Scan(&completed); nil != err {
		return Progress{}, fmt.Errorf("unable to count completed patterns: %w", err)
	}
	return Progress{Completed: completed, Total: len(g.Keys())}, nil
}
