package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/plus3/danmaku/ecs"
)

// StateKind distinguishes the menu from the stages.
type StateKind int

const (
	KindMenu StateKind = iota
	KindStage
)

// State is where the session is. Stage is only meaningful for KindStage.
type State struct {
	Kind  StateKind
	Stage int
}

// StateMenu is the title menu.
var StateMenu = State{Kind: KindMenu}

// StateStage is stage n.
func StateStage(n int) State {
	return State{Kind: KindStage, Stage: n}
}

func (s State) String() string {
	if s.Kind == KindStage {
		return fmt.Sprintf("stage %d", s.Stage)
	}
	return "menu"
}

// DefaultTickRate is the simulation rate in ticks per second.
const DefaultTickRate = 60

// Options configures a World.
type Options struct {
	// TickRate is the number of ticks per second. Zero means DefaultTickRate.
	TickRate int
	// Seed feeds the random shooters. Each stage derives its own stream
	// from it, so a stage replays identically for the same seed and input.
	Seed uint64
	// Headless worlds have no driver; ticks only happen through Step.
	Headless bool
	// Timeline returns the spawn schedule of a stage. Nil plays stage one's
	// schedule on every stage.
	Timeline func(stage int) Timeline
}

// Services are the outer surfaces the world talks to. Nil members are
// replaced by silent stand-ins.
type Services struct {
	Audio Audio
	App   App
}

// World owns the storage, the scheduler and the driver, and moves the
// session between the menu and the stages.
//
// A single mutex guards storage for a whole tick, a key event or a render
// pass. Systems and key handlers ask for a transition or an exit through
// the Session methods; the request is applied once the lock is released.
type World struct {
	mu      sync.Mutex
	transMu sync.Mutex

	options  Options
	services Services
	logger   *slog.Logger

	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	keyboard  *Keyboard
	driver    *ecs.Driver
	layers    *layers

	state    State
	director *SpawnDirector
	pending  *State
	exit     bool
	stopped  bool
}

// NewWorld creates a world. Nothing runs until Start.
func NewWorld(options Options, services Services, logger *slog.Logger) *World {
	if options.TickRate <= 0 {
		options.TickRate = DefaultTickRate
	}
	if services.Audio == nil {
		services.Audio = silentAudio{}
	}
	if services.App == nil {
		services.App = nopApp{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	w := &World{
		options:   options,
		services:  services,
		logger:    logger,
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		keyboard:  NewKeyboard(),
		layers:    newLayers(storage),
	}
	if !options.Headless {
		w.driver = ecs.NewDriver(w.Interval(), w.step)
	}
	return w
}

// Interval is the time between ticks.
func (w *World) Interval() time.Duration {
	return time.Second / time.Duration(w.options.TickRate)
}

// Start enters the menu.
func (w *World) Start() {
	w.Transition(StateMenu)
}

// Transition stops the driver, cancels every system, destroys every entity,
// builds the entities and systems of to and restarts the driver. It must
// not be called while the world is locked.
func (w *World) Transition(to State) {
	w.transMu.Lock()
	defer w.transMu.Unlock()

	if w.driver != nil {
		w.driver.Stop()
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	from := w.state
	w.scheduler.Cancel()
	w.storage.Clear()
	w.pending = nil
	w.director = nil

	switch to.Kind {
	case KindStage:
		w.buildStage(to.Stage)
	default:
		to = StateMenu
		w.buildMenu()
	}
	w.state = to
	w.mu.Unlock()

	w.logger.Info("state changed", "from", from.String(), "to", to.String())

	if w.driver != nil {
		w.driver.Start()
	}
}

// step is the driver's tick. A requested transition or exit ends the loop;
// it is then carried out on a fresh goroutine because Transition has to
// join the driver.
func (w *World) step() bool {
	next, exit := w.tick()
	switch {
	case exit:
		go w.services.App.Exit()
		return false
	case next != nil:
		go w.Transition(*next)
		return false
	}
	return true
}

// Step runs one tick synchronously and applies any transition it asked
// for. It is meant for headless worlds.
func (w *World) Step() {
	next, exit := w.tick()
	w.apply(next, exit)
}

func (w *World) tick() (*State, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil, false
	}
	w.scheduler.Once(w.Interval().Seconds())
	return w.takeRequests()
}

func (w *World) takeRequests() (*State, bool) {
	next, exit := w.pending, w.exit
	w.pending, w.exit = nil, false
	return next, exit
}

func (w *World) apply(next *State, exit bool) {
	switch {
	case exit:
		w.services.App.Exit()
	case next != nil:
		w.Transition(*next)
	}
}

// Dispatch delivers a key event to the current subscribers and then applies
// whatever transition they asked for.
func (w *World) Dispatch(ev KeyEvent) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.keyboard.Dispatch(ev)
	next, exit := w.takeRequests()
	w.mu.Unlock()

	w.apply(next, exit)
}

// Render draws the current state to r.
func (w *World) Render(r Renderer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.layers.draw(r)
}

// State returns the current state.
func (w *World) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// StageTick is the number of ticks played in the current stage, or 0 in
// the menu.
func (w *World) StageTick() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.director == nil {
		return 0
	}
	return w.director.Tick()
}

// Inspect calls fn with the storage and scheduler while the world is
// locked. fn must not call back into the world.
func (w *World) Inspect(fn func(storage *ecs.Storage, scheduler *ecs.Scheduler)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.storage, w.scheduler)
}

// RequestTransition asks for a state change once the current tick or key
// event is done. The world is already locked when systems call it.
func (w *World) RequestTransition(to State) {
	w.pending = &to
}

// RequestExit asks the hosting app to exit once the current tick or key
// event is done.
func (w *World) RequestExit() {
	w.exit = true
}

// Stop halts the driver and tears the session down. The world cannot be
// restarted afterwards.
func (w *World) Stop() {
	w.transMu.Lock()
	defer w.transMu.Unlock()

	if w.driver != nil {
		w.driver.Stop()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.scheduler.Cancel()
	w.storage.Clear()
	w.director = nil
	w.stopped = true
	w.logger.Info("world stopped", "ticks", w.scheduler.Tick())
}

func (w *World) buildMenu() {
	s := w.storage
	s.Spawn(Backdrop{Image: "home", Rect: Rect{W: ScreenWidth, H: ScreenHeight}})
	s.Spawn(
		Selectable{Order: 0, Selected: true},
		Animation{Image: "button-start", Rect: Rect{X: 700, Y: 520, W: 201, H: 38}, Frames: buttonFrames, Interval: 1, Active: true},
	)
	s.Spawn(
		Selectable{Order: 1},
		Animation{Image: "button-exit", Rect: Rect{X: 700, Y: 578, W: 220, H: 40}, Frames: buttonFrames, Interval: 1},
	)

	w.scheduler.Register(NewMusicSystem(w.services.Audio, SoundTitle))
	w.scheduler.Register(NewMenuSystem(w.keyboard, w, w.services.Audio))
	w.scheduler.Register(&AnimationSystem{})
}

// buttonFrames is the length of the menu buttons' highlight animation.
const buttonFrames = 10

func (w *World) buildStage(stage int) {
	s := w.storage
	s.Spawn(Scroll{Image: "board", Length: FieldHeight})
	s.Spawn(Backdrop{Image: "template", Rect: Rect{W: ScreenWidth, H: ScreenHeight}, Overlay: true})
	SpawnPlayer(s)
	s.AddSingleton(Scoreboard{Lives: startLives, Stars: maxStars})

	timeline := StageOneTimeline()
	if w.options.Timeline != nil {
		timeline = w.options.Timeline(stage)
	}
	rng := rand.New(rand.NewPCG(w.options.Seed, uint64(stage)))
	w.director = NewSpawnDirector(timeline, w.keyboard, w.logger)

	w.scheduler.Register(NewMusicSystem(w.services.Audio, SoundStage1))
	w.scheduler.Register(&ScrollSystem{})
	w.scheduler.Register(NewPlayerSystem(w.keyboard, w, stage))
	w.scheduler.Register(&AnimationSystem{})
	w.scheduler.Register(&AccelerationSystem{})
	w.scheduler.Register(&MoveSystem{})
	w.scheduler.Register(&EnemyShootSystem{Rand: rng})
	w.scheduler.Register(&PlayerCollisionSystem{Audio: w.services.Audio, Session: w, Logger: w.logger})
	w.scheduler.Register(&DanCollisionSystem{})
	w.scheduler.Register(&CleanupSystem{})
	w.scheduler.Register(w.director)
}

// SpawnPlayer creates the player and attaches its hitbox.
func SpawnPlayer(s *ecs.Storage) ecs.EntityId {
	id := s.Spawn(NewPlayer()...)
	s.AddComponent(id, Hitbox{
		Parent:  ecs.NewHandle[Position](s, id),
		OffsetX: 11,
		OffsetY: 19,
		W:       10,
		H:       10,
	})
	return id
}
