package main

import "github.com/plus3/danmaku/game"

// pilot is a scripted player. It holds fire, sweeps left and right across
// the field and drops a bomb now and then.
type pilot struct {
	sweep int // ticks per direction
	bomb  int // ticks between bombs; zero never bombs
	dir   game.Key
}

func newPilot(sweep, bomb int) *pilot {
	return &pilot{sweep: max(sweep, 1), bomb: bomb}
}

// begin returns the events that start a run: fire pressed.
func (p *pilot) begin() []game.KeyEvent {
	p.dir = game.KeyNone
	return []game.KeyEvent{{Key: game.KeyZ, Pressed: true}}
}

// at returns the events to dispatch before stage tick t.
func (p *pilot) at(t int) []game.KeyEvent {
	var events []game.KeyEvent

	want := game.KeyLeft
	if (t/p.sweep)%2 == 1 {
		want = game.KeyRight
	}
	if want != p.dir {
		if p.dir != game.KeyNone {
			events = append(events, game.KeyEvent{Key: p.dir})
		}
		events = append(events, game.KeyEvent{Key: want, Pressed: true})
		p.dir = want
	}

	if p.bomb > 0 && t > 0 && t%p.bomb == 0 {
		events = append(events,
			game.KeyEvent{Key: game.KeyX, Pressed: true},
			game.KeyEvent{Key: game.KeyX})
	}
	return events
}
