// Package input turns key presses into player actions
package input

import (
	"fmt"
	"sync"

	"github.com/eiannone/keyboard"
)

type Kind uint8

const (
	Tap Kind = iota
	NextPattern
	Difficulty
	CycleGroup
	Quit
)

type Action struct {
	Kind  Kind
	Level int // for Difficulty
}

// Map returns the action bound to a key, false for unbound keys
func Map(key keyboard.KeyEvent) (Action, bool) {
	switch key.Key {
	case keyboard.KeySpace, keyboard.KeyEnter:
		return Action{Kind: Tap}, true
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Action{Kind: Quit}, true
	}
	switch r := key.Rune; {
	case r == ' ':
		return Action{Kind: Tap}, true
	case r == 'n' || r == 'N':
		return Action{Kind: NextPattern}, true
	case r == 'g' || r == 'G':
		return Action{Kind: CycleGroup}, true
	case r == 'q' || r == 'Q':
		return Action{Kind: Quit}, true
	case r >= '1' && r <= '5':
		return Action{Kind: Difficulty, Level: int(r - '0')}, true
	}
	return Action{}, false
}

// Listener delivers mapped key presses until it is closed
type Listener struct {
	actions   chan Action
	stop      chan struct{}
	done      chan struct{}
	closeKeys func() error
	once      sync.Once
	err       error
}

// Listen opens the keyboard. Close must be called to give the terminal back.
func Listen() (*Listener, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	return newListener(keys, keyboard.Close), nil
}

func newListener(keys <-chan keyboard.KeyEvent, closeKeys func() error) *Listener {
	l := &Listener{
		actions:   make(chan Action, 128),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		closeKeys: closeKeys,
	}
	go l.pump(keys)
	return l
}

// Actions is closed once listening stops
func (l *Listener) Actions() <-chan Action {
	return l.actions
}

func (l *Listener) pump(keys <-chan keyboard.KeyEvent) {
	defer close(l.done)
	defer close(l.actions)
	for {
		select {
		case <-l.stop:
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			if nil != key.Err {
				continue
			}
			action, ok := Map(key)
			if !ok {
				continue
			}
			select {
			case l.actions <- action:
			case <-l.stop:
				return
			}
		}
	}
}

// Close stops the listener and closes the keyboard. It returns only after
// both are done, so the terminal can be restored right after.
func (l *Listener) Close() error {
	l.once.Do(func() {
		close(l.stop)
		<-l.done
		if err := l.closeKeys(); nil != err {
			l.err = fmt.Errorf("unable to close keyboard: %w", err)
		}
	})
	return l.err
}
