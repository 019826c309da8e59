package game

import "github.com/plus3/danmaku/ecs"

// Position is the top-left corner of an entity in field coordinates. Clamped
// entities are kept inside the field after every move.
type Position struct {
	X, Y  float64
	Clamp bool
}

// Velocity holds the current speed along Direction (degrees, 0° = +y) and
// the speed the entity was created with.
type Velocity struct {
	Base      float64
	Speed     float64
	Direction float64
}

// Acceleration is a constant vector added to velocity every tick.
type Acceleration struct {
	Magnitude float64
	Direction float64
}

type Size struct {
	W, H float64
}

// Move gates MoveSystem. Entities with Moving == false keep their position.
type Move struct {
	Moving bool
}

type Health struct {
	Remaining int
}

// Decrease removes one point, never going below zero.
func (h *Health) Decrease() {
	h.Damage(1)
}

func (h *Health) Damage(points int) {
	h.Remaining = max(h.Remaining-points, 0)
}

func (h *Health) Dead() bool {
	return h.Remaining <= 0
}

// Shooter fires a volley from Pattern whenever Cooldown reaches zero.
type Shooter struct {
	Pattern    Pattern
	Speed      float64
	Interval   int
	Cooldown   int
	BulletSize float64
}

// Enemy marks an entity the player's shots can hit.
type Enemy struct{}

// PlayerBullet marks a shot fired by the player ("dan").
type PlayerBullet struct{}

// EnemyBullet marks a shot fired by an enemy ("danmaku").
type EnemyBullet struct {
	Grazed bool
}

type Player struct{}

// PlayerState carries the player's per-life timers. While Invincible is
// above ReviveTime the player is sliding back in and cannot move. BombY is the
// screen y of the bomb sweep; a bomb is in flight while it is above -550.
type PlayerState struct {
	Invincible int
	ReviveTime int
	LowSpeed   bool
	BombY      float64
}

// Fire is the player's shot emitter. Counter counts down the ticks until the
// next shot can leave.
type Fire struct {
	Counter  int
	Firing   bool
	Speed    float64
	Interval int
}

// Hitbox is a rectangle offset from another entity's position. It is
// recomputed from the parent on every read and has no position of its own.
type Hitbox struct {
	Parent           ecs.Handle[Position]
	OffsetX, OffsetY float64
	W, H             float64
}

// Rect returns the hitbox in field coordinates, or false if the parent is
// gone.
func (h *Hitbox) Rect() (Rect, bool) {
	parent := h.Parent.Get()
	if parent == nil {
		return Rect{}, false
	}
	return Rect{X: parent.X + h.OffsetX, Y: parent.Y + h.OffsetY, W: h.W, H: h.H}, true
}

// Center returns the middle of the hitbox in field coordinates.
func (h *Hitbox) Center() (Point, bool) {
	r, ok := h.Rect()
	if !ok {
		return Point{}, false
	}
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}, true
}

// Drag scales speed by Factor every tick while speed is above (WhileAbove)
// or below Ratio·Base.
type Drag struct {
	Ratio      float64
	Factor     float64
	WhileAbove bool
}

// Sprite names the image drawn for an entity.
type Sprite struct {
	Image string
}

// Scoreboard is the stage singleton holding the HUD counters.
type Scoreboard struct {
	Score int
	Graze int
	Lives int
	Stars int
}

// Backdrop is a static full image drawn at Rect (screen coordinates).
type Backdrop struct {
	Image string
	Rect  Rect
	// Overlay backdrops are drawn above the play field.
	Overlay bool
}

// Scroll is the scrolling stage board. Offset runs from 0 to Length-1.
type Scroll struct {
	Image  string
	Offset int
	Length int
}

// Animation steps through Frames images, Interval ticks each, while Active.
// Looping animations restart after the last frame; others hold it. An
// inactive animation rests on frame 0.
type Animation struct {
	Image    string
	Rect     Rect
	Frames   int
	Interval int
	Ticker   int
	Active   bool
	Loop     bool
}

// Index is the frame currently shown.
func (a *Animation) Index() int {
	interval := max(a.Interval, 1)
	return min(a.Ticker/interval, max(a.Frames-1, 0))
}

// Reset switches to image and rewinds.
func (a *Animation) Reset(image string, loop bool) {
	a.Image = image
	a.Loop = loop
	a.Ticker = 0
}

func (a *Animation) step() {
	if !a.Active {
		a.Ticker = 0
		return
	}
	if a.Ticker+1 < a.Frames*max(a.Interval, 1) {
		a.Ticker++
	} else if a.Loop {
		a.Ticker = 0
	}
}

// Selectable is a menu entry. Order is its position in the menu.
type Selectable struct {
	Order    int
	Selected bool
}

// RegisterComponents registers every component kind the game uses.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Acceleration](registry)
	ecs.RegisterComponent[Size](registry)
	ecs.RegisterComponent[Move](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Shooter](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[PlayerBullet](registry)
	ecs.RegisterComponent[EnemyBullet](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[PlayerState](registry)
	ecs.RegisterComponent[Fire](registry)
	ecs.RegisterComponent[Hitbox](registry)
	ecs.RegisterComponent[Drag](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Scoreboard](registry)
	ecs.RegisterComponent[Backdrop](registry)
	ecs.RegisterComponent[Scroll](registry)
	ecs.RegisterComponent[Animation](registry)
	ecs.RegisterComponent[Selectable](registry)
}
