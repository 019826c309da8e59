package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plus3/danmaku/ecs"
)

type recordingAudio struct {
	played  []string
	stopped []string
}

func (a *recordingAudio) Play(name string) { a.played = append(a.played, name) }
func (a *recordingAudio) Stop(name string) { a.stopped = append(a.stopped, name) }

func (a *recordingAudio) count(name string) int {
	n := 0
	for _, p := range a.played {
		if p == name {
			n++
		}
	}
	return n
}

type recordingApp struct {
	exits int
}

func (a *recordingApp) Exit() { a.exits++ }

type recordingSession struct {
	transitions []State
	exits       int
}

func (s *recordingSession) RequestTransition(to State) { s.transitions = append(s.transitions, to) }
func (s *recordingSession) RequestExit()               { s.exits++ }

// probe is a system running an arbitrary function.
type probe struct {
	run func(frame *ecs.UpdateFrame)
}

func (p *probe) Execute(frame *ecs.UpdateFrame) { p.run(frame) }

type testWorld struct {
	*World
	audio *recordingAudio
	app   *recordingApp
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	return newTestWorldWith(t, Options{Seed: 1})
}

func newTestWorldWith(t *testing.T, options Options) *testWorld {
	t.Helper()
	audio := &recordingAudio{}
	app := &recordingApp{}
	options.Headless = true
	w := NewWorld(options, Services{Audio: audio, App: app}, nil)
	w.Start()
	t.Cleanup(w.Stop)
	return &testWorld{World: w, audio: audio, app: app}
}

// press sends a key down followed by a key up.
func (w *testWorld) press(key Key) {
	w.Dispatch(KeyEvent{Key: key, Pressed: true})
	w.Dispatch(KeyEvent{Key: key})
}

func (w *testWorld) hold(key Key) {
	w.Dispatch(KeyEvent{Key: key, Pressed: true})
}

func (w *testWorld) release(key Key) {
	w.Dispatch(KeyEvent{Key: key})
}

func (w *testWorld) steps(n int) {
	for range n {
		w.Step()
	}
}

// enterStage starts stage one from the menu.
func (w *testWorld) enterStage(t *testing.T) {
	t.Helper()
	w.press(KeyZ)
	require.Equal(t, StateStage(1), w.State())
}

func (w *testWorld) storage(fn func(s *ecs.Storage)) {
	w.Inspect(func(s *ecs.Storage, _ *ecs.Scheduler) { fn(s) })
}

func (w *testWorld) player() (Position, PlayerState) {
	var pos Position
	var state PlayerState
	w.storage(func(s *ecs.Storage) {
		for id := range ecs.All[Player](s) {
			pos = *ecs.ReadComponent[Position](s, id)
			state = *ecs.ReadComponent[PlayerState](s, id)
		}
	})
	return pos, state
}

func (w *testWorld) scoreboard() Scoreboard {
	var board Scoreboard
	w.storage(func(s *ecs.Storage) {
		var ptr *Scoreboard
		if s.ReadSingleton(&ptr) {
			board = *ptr
		}
	})
	return board
}

func (w *testWorld) count(fn func(s *ecs.Storage) int) int {
	var n int
	w.storage(func(s *ecs.Storage) { n = fn(s) })
	return n
}
