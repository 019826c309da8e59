package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/danmaku/game"
)

// Terminals report presses only. A key counts as held until it stops
// repeating: the first press waits out the terminal's repeat delay, later
// repeats only the repeat interval.
const (
	firstHold  = 550 * time.Millisecond
	repeatHold = 120 * time.Millisecond
)

// native is a terminal key: a special key, or KeyRune plus the rune.
type native struct {
	key tcell.Key
	ch  rune
}

// Terminals cannot report shift on its own, so low speed sits on a letter.
var defaultBindings = map[game.Key]native{
	game.KeyLeft:  {key: tcell.KeyLeft},
	game.KeyUp:    {key: tcell.KeyUp},
	game.KeyRight: {key: tcell.KeyRight},
	game.KeyDown:  {key: tcell.KeyDown},
	game.KeyShift: {key: tcell.KeyRune, ch: 'a'},
	game.KeyZ:     {key: tcell.KeyRune, ch: 'z'},
	game.KeyX:     {key: tcell.KeyRune, ch: 'x'},
	game.KeyEnter: {key: tcell.KeyEnter},
	game.KeyR:     {key: tcell.KeyRune, ch: 'r'},
	game.KeyB:     {key: tcell.KeyRune, ch: 'b'},
	game.KeyQ:     {key: tcell.KeyRune, ch: 'q'},
	game.KeyT:     {key: tcell.KeyRune, ch: 't'},
}

// resolveBindings inverts the defaults with configured overrides applied.
func resolveBindings(overrides map[game.Key]string) (map[native]game.Key, error) {
	out := make(map[native]game.Key, len(defaultBindings))
	for _, logical := range game.Keys() {
		n := defaultBindings[logical]
		if name, ok := overrides[logical]; ok {
			parsed, ok := parseNative(name)
			if !ok {
				return nil, fmt.Errorf("keys.%s: unknown key %q", logical, name)
			}
			n = parsed
		}
		out[n] = logical
	}
	return out, nil
}

// parseNative accepts a single character or a tcell key name ("Enter",
// "Left", "F1").
func parseNative(name string) (native, bool) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) == 1 {
		ch, _ := utf8.DecodeRuneInString(name)
		return native{key: tcell.KeyRune, ch: ch}, true
	}
	for k, n := range tcell.KeyNames {
		if strings.EqualFold(n, name) {
			return native{key: k}, true
		}
	}
	return native{}, false
}

func nativeOf(ev *tcell.EventKey) native {
	if ev.Key() == tcell.KeyRune {
		return native{key: tcell.KeyRune, ch: ev.Rune()}
	}
	return native{key: ev.Key()}
}

// tracker synthesises releases for a terminal.
type tracker struct {
	held map[game.Key]time.Time
}

func newTracker() *tracker {
	return &tracker{held: make(map[game.Key]time.Time)}
}

// press records a press at now and returns the event to dispatch.
func (t *tracker) press(k game.Key, now time.Time) game.KeyEvent {
	if _, ok := t.held[k]; ok {
		t.held[k] = now.Add(repeatHold)
		return game.KeyEvent{Key: k, Pressed: true, Repeat: true}
	}
	t.held[k] = now.Add(firstHold)
	return game.KeyEvent{Key: k, Pressed: true}
}

// expire returns releases for every key whose hold ran out by now, in key
// order.
func (t *tracker) expire(now time.Time) []game.KeyEvent {
	var out []game.KeyEvent
	for _, k := range game.Keys() {
		until, ok := t.held[k]
		if !ok || now.Before(until) {
			continue
		}
		delete(t.held, k)
		out = append(out, game.KeyEvent{Key: k})
	}
	return out
}
