package game

import (
	"math"

	"github.com/plus3/danmaku/ecs"
)

// AccelerationSystem adds each entity's constant acceleration to its
// velocity.
type AccelerationSystem struct {
	Accelerating ecs.Query[struct {
		*Velocity
		*Acceleration
	}]
}

func (s *AccelerationSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Accelerating.Iter() {
		Accelerate(item.Velocity, item.Acceleration)
	}
}

// Accelerate applies one tick of acceleration to v. The resultant direction
// is atan(x/y), which folds headings in the upper half plane back into
// (-90°, 90°); when y is zero the previous heading is kept.
func Accelerate(v *Velocity, a *Acceleration) {
	vx, vy := Decompose(v.Speed, v.Direction)
	ax, ay := Decompose(a.Magnitude, a.Direction)
	x := vx + ax
	y := vy + ay

	v.Speed = round2(math.Hypot(x, y))
	switch {
	case y == 0:
	case x == 0:
		if y > 0 {
			v.Direction = 0
		} else {
			v.Direction = 180
		}
	default:
		v.Direction = atanDeg(x, y)
	}
}

// MoveSystem advances every moving entity along its velocity, clamps the
// ones that must stay on the field and then applies drag.
type MoveSystem struct {
	Movers ecs.Query[struct {
		*Move
		*Position
		*Velocity
		*Size
		Drag *Drag `ecs:"optional"`
	}]
}

func (s *MoveSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Movers.Iter() {
		if !item.Move.Moving {
			continue
		}
		Step(item.Position, item.Velocity, item.Size)
		if item.Drag != nil {
			item.Drag.apply(item.Velocity)
		}
	}
}

// Step moves p one tick along v. Zero speed leaves p untouched.
func Step(p *Position, v *Velocity, size *Size) {
	if v.Speed == 0 {
		return
	}
	dx, dy := Decompose(v.Speed, v.Direction)
	p.X += dx
	p.Y += dy
	if p.Clamp {
		p.X = clamp(p.X, 0, FieldWidth-size.W)
		p.Y = clamp(p.Y, 0, FieldHeight-size.H)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (d *Drag) apply(v *Velocity) {
	threshold := d.Ratio * v.Base
	if (d.WhileAbove && v.Speed > threshold) || (!d.WhileAbove && v.Speed < threshold) {
		v.Speed *= d.Factor
	}
}
