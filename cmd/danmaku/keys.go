package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/danmaku/game"
)

// Auto-repeat timing in ebiten ticks.
const (
	repeatDelay    = 24
	repeatInterval = 4
)

var defaultBindings = map[game.Key][]ebiten.Key{
	game.KeyLeft:  {ebiten.KeyArrowLeft},
	game.KeyUp:    {ebiten.KeyArrowUp},
	game.KeyRight: {ebiten.KeyArrowRight},
	game.KeyDown:  {ebiten.KeyArrowDown},
	game.KeyShift: {ebiten.KeyShiftLeft, ebiten.KeyShiftRight},
	game.KeyZ:     {ebiten.KeyZ},
	game.KeyX:     {ebiten.KeyX},
	game.KeyEnter: {ebiten.KeyEnter, ebiten.KeyNumpadEnter},
	game.KeyR:     {ebiten.KeyR},
	game.KeyB:     {ebiten.KeyB},
	game.KeyQ:     {ebiten.KeyQ},
	game.KeyT:     {ebiten.KeyT},
}

// binding ties one native key to a logical key.
type binding struct {
	native  ebiten.Key
	logical game.Key
}

// resolveBindings applies configured overrides to the defaults. An override
// replaces every default native key of its logical key.
func resolveBindings(overrides map[game.Key]string) ([]binding, error) {
	var out []binding
	for _, logical := range game.Keys() {
		natives := defaultBindings[logical]
		if name, ok := overrides[logical]; ok {
			native, ok := parseNativeKey(name)
			if !ok {
				return nil, fmt.Errorf("keys.%s: unknown key %q", logical, name)
			}
			natives = []ebiten.Key{native}
		}
		for _, native := range natives {
			out = append(out, binding{native: native, logical: logical})
		}
	}
	return out, nil
}

// parseNativeKey matches ebiten key names ("A", "ArrowLeft", "Space")
// case-insensitively.
func parseNativeKey(name string) (ebiten.Key, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}
	return 0, false
}

// repeatDue reports whether a key held for d ticks produces an auto-repeat
// on this tick.
func repeatDue(d int) bool {
	return d > repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

// pollKeys turns this tick's keyboard state into key events.
func pollKeys(bindings []binding) []game.KeyEvent {
	var events []game.KeyEvent
	for _, b := range bindings {
		switch {
		case inpututil.IsKeyJustPressed(b.native):
			events = append(events, game.KeyEvent{Key: b.logical, Pressed: true})
		case inpututil.IsKeyJustReleased(b.native):
			events = append(events, game.KeyEvent{Key: b.logical})
		case repeatDue(inpututil.KeyPressDuration(b.native)):
			events = append(events, game.KeyEvent{Key: b.logical, Pressed: true, Repeat: true})
		}
	}
	return events
}
