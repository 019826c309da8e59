package game

import (
	"log/slog"
	"math"

	"github.com/plus3/danmaku/ecs"
)

const (
	// Centre and radius of the circle enemy shots are tested against,
	// relative to the player's position.
	playerHitOffsetX = 22
	playerHitOffsetY = 19
	playerHitRadius  = 5

	grazeMargin = 40
	grazeScore  = 1000

	hitInvincibility = 300
	startLives       = 3
	maxStars         = 4

	danOffsetX = 14
	danScore   = 10
	killScore  = 300
)

// PlayerCollisionSystem tests enemy shots against the player. A hit resets
// the player and costs a life; a near miss is a graze and scores once per
// shot. Nothing is tested while the player is invincible.
type PlayerCollisionSystem struct {
	Players ecs.Query[struct {
		*Player
		*Position
		*PlayerState
	}]
	Bullets ecs.Query[struct {
		*EnemyBullet
		*Position
		*Size
	}]
	Scoreboard ecs.Singleton[Scoreboard]

	Audio   Audio
	Session Session
	Logger  *slog.Logger
}

func (s *PlayerCollisionSystem) Execute(frame *ecs.UpdateFrame) {
	_, player, ok := s.Players.First()
	if !ok || player.PlayerState.Invincible > 0 {
		return
	}
	board := s.Scoreboard.Get()
	if board == nil {
		return
	}

	px := player.Position.X + playerHitOffsetX
	py := player.Position.Y + playerHitOffsetY

	for bullet := range s.Bullets.Iter() {
		bx := bullet.Position.X + bullet.Size.W/2
		by := bullet.Position.Y + bullet.Size.H/2
		reach := bullet.Size.W/2 + playerHitRadius
		distance := math.Hypot(bx-px, by-py)

		if distance < reach {
			s.hit(player.Position, player.PlayerState, board, frame.Tick)
			return
		}
		if !bullet.EnemyBullet.Grazed && distance < reach+grazeMargin {
			bullet.EnemyBullet.Grazed = true
			board.Graze++
			board.Score += grazeScore
		}
	}
}

func (s *PlayerCollisionSystem) hit(pos *Position, state *PlayerState, board *Scoreboard, tick uint64) {
	if s.Audio != nil {
		s.Audio.Play(SoundHit)
	}
	pos.X, pos.Y = PlayerSpawn.X, PlayerSpawn.Y
	state.Invincible = hitInvincibility
	board.Lives--
	board.Stars = maxStars

	if board.Lives < 0 {
		if s.Logger != nil {
			s.Logger.Info("out of lives", "tick", tick, "score", board.Score)
		}
		if s.Session != nil {
			s.Session.RequestTransition(StateMenu)
		}
	}
}

// DanCollisionSystem tests player shots against enemies. A hit scores,
// removes the shot at once and takes one point of health; an enemy at zero
// health scores a kill and is queued for deletion at the end of the tick.
type DanCollisionSystem struct {
	Enemies ecs.Query[struct {
		ecs.EntityId
		*Enemy
		*Position
		*Size
		*Health
	}]
	Dans ecs.Query[struct {
		ecs.EntityId
		*PlayerBullet
		*Position
		*Size
	}]
	Scoreboard ecs.Singleton[Scoreboard]
}

func (s *DanCollisionSystem) Execute(frame *ecs.UpdateFrame) {
	board := s.Scoreboard.Get()
	if board == nil {
		return
	}

	for enemy := range s.Enemies.Iter() {
		if frame.Commands.Pending(enemy.EntityId) {
			continue
		}
		enemyRect := Rect{X: enemy.Position.X, Y: enemy.Position.Y, W: enemy.Size.W, H: enemy.Size.H}

		for dan := range s.Dans.Iter() {
			danRect := Rect{X: dan.Position.X + danOffsetX, Y: dan.Position.Y, W: dan.Size.W, H: dan.Size.H}
			if !danRect.Overlaps(enemyRect) {
				continue
			}

			board.Score += danScore
			frame.Storage.Delete(dan.EntityId)
			enemy.Health.Decrease()
			if enemy.Health.Dead() {
				board.Score += killScore
				frame.Commands.Delete(enemy.EntityId)
				break
			}
		}
	}
}
