package game

import (
	"slices"
	"strings"
)

// Key is a logical key. Frontends translate their native key codes to these.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
	KeyShift
	KeyZ
	KeyX
	KeyEnter
	KeyR
	KeyB
	KeyQ
	KeyT
)

var keyNames = map[Key]string{
	KeyLeft:  "left",
	KeyUp:    "up",
	KeyRight: "right",
	KeyDown:  "down",
	KeyShift: "shift",
	KeyZ:     "z",
	KeyX:     "x",
	KeyEnter: "enter",
	KeyR:     "r",
	KeyB:     "b",
	KeyQ:     "q",
	KeyT:     "t",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "none"
}

// Keys returns every logical key.
func Keys() []Key {
	keys := make([]Key, 0, len(keyNames))
	for k := range keyNames {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ParseKey resolves a logical key name as used in configuration files.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyNone, false
}

// KeyEvent is a key going down or up. Repeat marks auto-repeated presses
// generated while a key is held.
type KeyEvent struct {
	Key     Key
	Pressed bool
	Repeat  bool
}

// KeySubscriber receives key events while subscribed.
type KeySubscriber interface {
	HandleKey(ev KeyEvent)
}

// Input is the subscription side of the keyboard.
type Input interface {
	Subscribe(sub KeySubscriber)
	Unsubscribe(sub KeySubscriber)
}

// Keyboard fans key events out to its subscribers in subscription order. It
// does no locking of its own; World serialises access.
type Keyboard struct {
	subscribers []KeySubscriber
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) Subscribe(sub KeySubscriber) {
	if slices.Contains(k.subscribers, sub) {
		return
	}
	k.subscribers = append(k.subscribers, sub)
}

// Unsubscribe removes sub. Unknown subscribers are ignored.
func (k *Keyboard) Unsubscribe(sub KeySubscriber) {
	k.subscribers = slices.DeleteFunc(k.subscribers, func(s KeySubscriber) bool {
		return s == sub
	})
}

// Dispatch delivers ev to every current subscriber. Subscribers added or
// removed by a handler take effect from the next event.
func (k *Keyboard) Dispatch(ev KeyEvent) {
	for _, sub := range slices.Clone(k.subscribers) {
		sub.HandleKey(ev)
	}
}

func (k *Keyboard) Len() int {
	return len(k.subscribers)
}

var arrowDirections = map[Key]float64{
	KeyLeft:  270,
	KeyUp:    180,
	KeyRight: 90,
	KeyDown:  0,
}

// HeldDirection resolves the arrow keys currently held, in press order, to a
// heading. The last horizontal and last vertical key win; a diagonal is the
// average of the two, with Left+Down taken as 315° rather than 135°. ok is
// false when no arrow is held.
func HeldDirection(held []Key) (direction float64, ok bool) {
	var horizontal, vertical float64
	var hasH, hasV bool
	for _, k := range held {
		switch k {
		case KeyLeft, KeyRight:
			horizontal, hasH = arrowDirections[k], true
		case KeyUp, KeyDown:
			vertical, hasV = arrowDirections[k], true
		}
	}
	switch {
	case hasH && hasV:
		if horizontal == 270 && vertical == 0 {
			vertical = 360
		}
		return (horizontal + vertical) / 2, true
	case hasH:
		return horizontal, true
	case hasV:
		return vertical, true
	}
	return 0, false
}
