package game

import (
	"math/rand/v2"

	"github.com/plus3/danmaku/ecs"
)

// EnemyShootSystem counts every shooter down and fires a volley when it
// reaches zero.
type EnemyShootSystem struct {
	Shooters ecs.Query[struct {
		*Enemy
		*Position
		*Shooter
	}]
	Players ecs.Query[struct {
		*Player
		*Hitbox
	}]

	Rand *rand.Rand
}

func (s *EnemyShootSystem) Execute(frame *ecs.UpdateFrame) {
	aim := Aim{Rand: s.Rand}
	if _, player, ok := s.Players.First(); ok {
		aim.Target, aim.HasTarget = player.Hitbox.Center()
	}

	for item := range s.Shooters.Iter() {
		shooter := item.Shooter
		if shooter.Cooldown > 0 {
			shooter.Cooldown--
			continue
		}
		shooter.Cooldown = shooter.Interval

		aim.Owner = Point{X: item.Position.X, Y: item.Position.Y}
		size := shooter.BulletSize
		if size == 0 {
			size = DefaultBulletSize
		}
		for _, direction := range shooter.Pattern.Directions(aim) {
			frame.Storage.Spawn(enemyBullet(item.Position.X, item.Position.Y, shooter.Speed, direction, size)...)
		}
	}
}
