package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type keyLog struct {
	events []KeyEvent
	onKey  func()
}

func (l *keyLog) HandleKey(ev KeyEvent) {
	l.events = append(l.events, ev)
	if l.onKey != nil {
		l.onKey()
	}
}

func TestHeldDirection(t *testing.T) {
	tests := []struct {
		name string
		held []Key
		dir  float64
		ok   bool
	}{
		{"nothing", nil, 0, false},
		{"only modifiers", []Key{KeyShift, KeyZ}, 0, false},
		{"down", []Key{KeyDown}, 0, true},
		{"right", []Key{KeyRight}, 90, true},
		{"up", []Key{KeyUp}, 180, true},
		{"left", []Key{KeyLeft}, 270, true},
		{"right and down", []Key{KeyRight, KeyDown}, 45, true},
		{"right and up", []Key{KeyUp, KeyRight}, 135, true},
		{"left and up", []Key{KeyLeft, KeyUp}, 225, true},
		{"left and down", []Key{KeyDown, KeyLeft}, 315, true},
		{"last horizontal wins", []Key{KeyLeft, KeyRight}, 90, true},
		{"last vertical wins", []Key{KeyUp, KeyDown, KeyRight}, 45, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, ok := HeldDirection(tt.held)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.dir, dir)
		})
	}
}

func TestKeyboardDispatch(t *testing.T) {
	kb := NewKeyboard()
	a, b := &keyLog{}, &keyLog{}
	kb.Subscribe(a)
	kb.Subscribe(b)
	kb.Subscribe(a)
	assert.Equal(t, 2, kb.Len())

	ev := KeyEvent{Key: KeyZ, Pressed: true}
	kb.Dispatch(ev)
	assert.Equal(t, []KeyEvent{ev}, a.events)
	assert.Equal(t, []KeyEvent{ev}, b.events)

	kb.Unsubscribe(a)
	kb.Unsubscribe(&keyLog{})
	kb.Dispatch(KeyEvent{Key: KeyX})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 2)
}

func TestKeyboardChangesApplyToNextEvent(t *testing.T) {
	kb := NewKeyboard()
	late := &keyLog{}
	first := &keyLog{}
	first.onKey = func() {
		kb.Unsubscribe(first)
		kb.Subscribe(late)
	}
	second := &keyLog{}
	kb.Subscribe(first)
	kb.Subscribe(second)

	kb.Dispatch(KeyEvent{Key: KeyUp, Pressed: true})
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
	assert.Empty(t, late.events)

	kb.Dispatch(KeyEvent{Key: KeyUp})
	assert.Len(t, first.events, 1)
	assert.Len(t, late.events, 1)
}

func TestParseKey(t *testing.T) {
	for _, k := range Keys() {
		parsed, ok := ParseKey(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}

	k, ok := ParseKey(" Enter ")
	assert.True(t, ok)
	assert.Equal(t, KeyEnter, k)

	_, ok = ParseKey("space")
	assert.False(t, ok)
	assert.Equal(t, "none", KeyNone.String())
	assert.Len(t, Keys(), 12)
}
