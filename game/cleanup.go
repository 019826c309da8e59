package game

import "github.com/plus3/danmaku/ecs"

// CleanupSystem deletes shots and enemies that have left the field. Enemies
// and enemy shots may overhang the edge by half their size; player shots are
// dropped once fully outside.
type CleanupSystem struct {
	Leaving ecs.Query[struct {
		ecs.EntityId
		*Position
		*Size
		Enemy       *Enemy        `ecs:"optional"`
		EnemyBullet *EnemyBullet  `ecs:"optional"`
		Dan         *PlayerBullet `ecs:"optional"`
	}]
}

func (s *CleanupSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Leaving.Iter() {
		var out bool
		switch {
		case item.Dan != nil:
			out = danOutside(item.Position, item.Size)
		case item.Enemy != nil, item.EnemyBullet != nil:
			out = Outside(item.Position, item.Size)
		default:
			continue
		}
		if out {
			frame.Storage.Delete(item.EntityId)
		}
	}
}

// Outside reports whether an entity has drifted further than half its size
// past any edge of the field.
func Outside(p *Position, size *Size) bool {
	return p.X > FieldWidth+size.W/2 ||
		p.Y > FieldHeight+size.H/2 ||
		p.X < -size.W/2 ||
		p.Y < -size.H/2
}

func danOutside(p *Position, size *Size) bool {
	return p.X > FieldWidth ||
		p.Y > FieldHeight ||
		p.X < -size.W ||
		p.Y < -size.H
}
