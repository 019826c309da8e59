package game

import "github.com/plus3/danmaku/ecs"

const (
	lowSpeedRate = 0.5

	// The bomb sweep is tracked in screen y. It starts at the bottom edge of
	// the field and rises bombSweep pixels a tick until it passes bombEndY.
	bombStartY = FieldY + FieldHeight
	bombReadyY = 550
	bombEndY   = -550
	bombSweep  = 20
	bombDamage = 30
)

// PlayerSystem turns held keys into player movement, shots and bombs, and
// runs the player's timers. Key events only record intent; everything that
// touches storage happens in Execute.
type PlayerSystem struct {
	Players ecs.Query[struct {
		*Player
		*Position
		*Velocity
		*Move
		*Fire
		*PlayerState
		Animation *Animation `ecs:"optional"`
	}]
	Danmaku ecs.Query[struct {
		ecs.EntityId
		*EnemyBullet
	}]
	Enemies ecs.Query[struct {
		ecs.EntityId
		*Enemy
		*Health
	}]
	Scoreboard ecs.Singleton[Scoreboard]

	input   Input
	session Session
	stage   int

	held     []Key
	lowSpeed bool
	firing   bool
	bomb     bool
}

// NewPlayerSystem creates the player controller for stage and subscribes it
// to input. R restarts stage, B returns to the menu and Q quits.
func NewPlayerSystem(input Input, session Session, stage int) *PlayerSystem {
	s := &PlayerSystem{input: input, session: session, stage: stage}
	if input != nil {
		input.Subscribe(s)
	}
	return s
}

func (s *PlayerSystem) HandleKey(ev KeyEvent) {
	if ev.Repeat {
		return
	}
	switch ev.Key {
	case KeyLeft, KeyUp, KeyRight, KeyDown:
		s.hold(ev.Key, ev.Pressed)
	case KeyShift:
		s.lowSpeed = ev.Pressed
	case KeyZ:
		s.firing = ev.Pressed
	case KeyX:
		if ev.Pressed {
			s.bomb = true
		}
	case KeyR:
		if ev.Pressed && s.session != nil {
			s.session.RequestTransition(StateStage(s.stage))
		}
	case KeyB:
		if ev.Pressed && s.session != nil {
			s.session.RequestTransition(StateMenu)
		}
	case KeyQ:
		if ev.Pressed && s.session != nil {
			s.session.RequestExit()
		}
	}
}

// hold tracks arrow keys in press order. Releasing a key that was never
// pressed is ignored.
func (s *PlayerSystem) hold(key Key, pressed bool) {
	for i, k := range s.held {
		if k == key {
			if !pressed {
				s.held = append(s.held[:i], s.held[i+1:]...)
			}
			return
		}
	}
	if pressed {
		s.held = append(s.held, key)
	}
}

func (s *PlayerSystem) Execute(frame *ecs.UpdateFrame) {
	_, p, ok := s.Players.First()
	if !ok {
		return
	}
	state := p.PlayerState

	if state.Invincible > 0 {
		state.Invincible--
	}
	if state.BombY >= bombEndY {
		state.BombY -= bombSweep
	}

	state.LowSpeed = s.lowSpeed
	p.Velocity.Speed = p.Velocity.Base
	if s.lowSpeed {
		p.Velocity.Speed = p.Velocity.Base * lowSpeedRate
	}

	direction, held := HeldDirection(s.held)
	switch {
	case !held:
		p.Velocity.Direction = 0
		p.Move.Moving = false
	case state.Invincible > state.ReviveTime:
		p.Move.Moving = false
	default:
		p.Velocity.Direction = direction
		p.Move.Moving = true
	}

	fire := p.Fire
	fire.Firing = s.firing
	if fire.Counter > 0 {
		fire.Counter--
	} else if fire.Firing {
		frame.Storage.Spawn(playerDan(p.Position, fire.Speed)...)
		fire.Counter = fire.Interval
	}

	if s.bomb {
		s.bomb = false
		s.detonate(frame, state)
	}

	if anim := p.Animation; anim != nil {
		facing := Facing(p.Velocity.Direction)
		if image := "player-" + facing; anim.Image != image {
			anim.Reset(image, facing == "default")
		}
	}
}

// detonate clears every enemy shot and damages every enemy. It needs a star
// and no sweep still low on the screen. Killed enemies are deleted at once so
// no later system of the tick moves them or fires their shooters.
func (s *PlayerSystem) detonate(frame *ecs.UpdateFrame, state *PlayerState) {
	board := s.Scoreboard.Get()
	if board == nil || board.Stars <= 0 || state.BombY > bombReadyY {
		return
	}
	state.BombY = bombStartY
	board.Stars--

	for shot := range s.Danmaku.Iter() {
		frame.Storage.Delete(shot.EntityId)
	}
	for enemy := range s.Enemies.Iter() {
		if frame.Commands.Pending(enemy.EntityId) {
			continue
		}
		enemy.Health.Damage(bombDamage)
		if enemy.Health.Dead() {
			board.Score += killScore
			frame.Storage.Delete(enemy.EntityId)
		}
	}
}

func (s *PlayerSystem) Cancel() {
	if s.input != nil {
		s.input.Unsubscribe(s)
	}
}

// Facing names the sprite row for a heading: right for (0°, 180°), left for
// (180°, 360°), default otherwise.
func Facing(direction float64) string {
	switch {
	case direction > 0 && direction < 180:
		return "right"
	case direction > 180 && direction < 360:
		return "left"
	}
	return "default"
}
