package game

// DefaultBulletSize is the hitbox of an enemy shot unless the shooter
// overrides it.
const DefaultBulletSize = 15

type enemySpec struct {
	x, y      float64
	speed     float64
	direction float64
	accel     *Acceleration
	w, h      float64
	health    int
	shooter   Shooter
	sprite    string
}

func (e enemySpec) bundle() []any {
	w, h := e.w, e.h
	if w == 0 {
		w, h = 32, 64
	}
	sprite := e.sprite
	if sprite == "" {
		sprite = "enemy"
	}
	shooter := e.shooter
	if shooter.BulletSize == 0 {
		shooter.BulletSize = DefaultBulletSize
	}

	components := []any{
		Enemy{},
		Move{Moving: true},
		Velocity{Base: e.speed, Speed: e.speed, Direction: e.direction},
		Position{X: e.x, Y: e.y},
		Size{W: w, H: h},
		Health{Remaining: e.health},
		shooter,
		Sprite{Image: sprite},
	}
	if e.accel != nil {
		components = append(components, *e.accel)
	}
	return components
}

func aimed(speed float64, interval int, fan Fan) Shooter {
	return Shooter{Pattern: &Aimed{Fan: fan}, Speed: speed, Interval: interval}
}

func random(speed float64, interval int, fan Fan) Shooter {
	return Shooter{Pattern: &RandomAngle{Fan: fan}, Speed: speed, Interval: interval}
}

func accel(magnitude, direction float64) *Acceleration {
	return &Acceleration{Magnitude: magnitude, Direction: direction}
}

// Enemy1 enters from the left edge heading down-right and fires five aimed
// shots.
func Enemy1() []any {
	return enemySpec{
		x: -10, y: 50, speed: 5, direction: 80, health: 5,
		shooter: aimed(6, 10, Five(15)),
	}.bundle()
}

// Enemy2 mirrors Enemy1 from the right edge with a triple spread.
func Enemy2() []any {
	return enemySpec{
		x: 550, y: 50, speed: 5, direction: 280, health: 5,
		shooter: aimed(6, 10, Triple(15)),
	}.bundle()
}

// Enemy3 drops in from the top centre and curves right.
func Enemy3() []any {
	return enemySpec{
		x: 267, y: -30, speed: 10, direction: 0, accel: accel(0.1, 90), health: 100,
		shooter: aimed(12, 4, Four(30)),
	}.bundle()
}

// Enemy4 crosses from the left, falling.
func Enemy4(health int) []any {
	return enemySpec{
		x: -15, y: 30, speed: 5, direction: 90, accel: accel(0.1, 0), health: health,
		shooter: aimed(12, 4, Four(30)),
	}.bundle()
}

// Enemy5 crosses from the right, falling.
func Enemy5(health int) []any {
	return enemySpec{
		x: 560, y: 30, speed: 5, direction: 270, accel: accel(0.1, 0), health: health,
		shooter: aimed(12, 4, Four(30)),
	}.bundle()
}

// Enemy6 drops from the top right corner and drifts left.
func Enemy6() []any {
	return enemySpec{
		x: 550, y: -30, speed: 3, direction: 0, accel: accel(0.1, 270), health: 4,
		shooter: aimed(12, 4, Fan{}),
	}.bundle()
}

// Enemy7 is a slow random shooter from the left.
func Enemy7() []any {
	return enemySpec{
		x: 0, y: 50, speed: 3, direction: 80, health: 4,
		shooter: random(5, 6, Fan{}),
	}.bundle()
}

// Enemy8 is a slow random shooter from the right.
func Enemy8() []any {
	return enemySpec{
		x: 550, y: 50, speed: 3, direction: 280, health: 4,
		shooter: random(5, 6, Fan{}),
	}.bundle()
}

// Enemy9 sinks from the top centre, stops and climbs back out while spraying
// paired random shots every tick.
func Enemy9() []any {
	return enemySpec{
		x: 267, y: 0, speed: 5, direction: 0, accel: accel(0.05, 180), health: 100,
		shooter: random(5, 1, Double(180)),
	}.bundle()
}

// Enemy10 is Enemy9 shifted horizontally by offsetX and a little slower.
func Enemy10(offsetX float64) []any {
	return enemySpec{
		x: 267 + offsetX, y: 0, speed: 4, direction: 0, accel: accel(0.05, 180), health: 100,
		shooter: random(5, 1, Double(180)),
	}.bundle()
}

// Enemy11 creeps along the top edge with a wide aimed fan. Stage one does
// not use it.
func Enemy11() []any {
	return enemySpec{
		x: 0, y: 5, speed: 1, direction: 0, accel: accel(0.04, 90), health: 100,
		shooter: aimed(10, 5, Five(90)),
	}.bundle()
}

// Enemy12 is one of a row of ten entering along the top, index 0..9 from the
// left, peeling off to the lower right.
func Enemy12(index int) []any {
	return enemySpec{
		x: 20 + float64(index)*50, y: 20, speed: 0.8, direction: 0, accel: accel(0.08, 45), health: 3,
		shooter: aimed(10, 10, Five(40)),
	}.bundle()
}

// Enemy13 mirrors Enemy12 from the right, peeling off to the lower left.
func Enemy13(index int) []any {
	return enemySpec{
		x: 520 - float64(index)*50, y: 20, speed: 0.8, direction: 0, accel: accel(0.08, 315), health: 3,
		shooter: aimed(10, 10, Five(20)),
	}.bundle()
}

// Enemy14 is a stationary six-way spinner. Stage one does not use it.
func Enemy14() []any {
	return enemySpec{
		x: 275, y: 300, speed: 0, direction: 180, health: 100,
		shooter: Shooter{
			Pattern:    &Rotating{Count: 6, Step: 3},
			Speed:      5,
			Interval:   5,
			BulletSize: 10,
		},
	}.bundle()
}

// Enemy15 is the stage boss: a stationary breathing spiral.
func Enemy15() []any {
	return enemySpec{
		x: 275, y: 120, speed: 0, direction: 180, w: 64, h: 64, health: 600,
		sprite: "boss",
		shooter: Shooter{
			Pattern:    &ModulatedRotating{Count: 6, PhaseStep: 1, Amplitude: 25},
			Speed:      8,
			Interval:   2,
			BulletSize: 10,
		},
	}.bundle()
}

// Archetype is a named enemy factory with its default arguments applied.
type Archetype struct {
	Name string
	New  func() []any
}

// Catalog lists every enemy archetype.
var Catalog = []Archetype{
	{"Enemy1", Enemy1},
	{"Enemy2", Enemy2},
	{"Enemy3", Enemy3},
	{"Enemy4", func() []any { return Enemy4(4) }},
	{"Enemy5", func() []any { return Enemy5(4) }},
	{"Enemy6", Enemy6},
	{"Enemy7", Enemy7},
	{"Enemy8", Enemy8},
	{"Enemy9", Enemy9},
	{"Enemy10", func() []any { return Enemy10(0) }},
	{"Enemy11", Enemy11},
	{"Enemy12", func() []any { return Enemy12(0) }},
	{"Enemy13", func() []any { return Enemy13(0) }},
	{"Enemy14", Enemy14},
	{"Enemy15", Enemy15},
}

// PlayerSpawn is where the player starts and revives.
var PlayerSpawn = Point{X: 259, Y: 600}

const (
	playerSpeed       = 8
	playerFireSpeed   = 30
	playerFireDelay   = 10
	playerReviveTime  = 240
	playerBombIdle    = -600
	playerSpriteFrame = 4
	playerSpriteCount = 8
)

// NewPlayer returns the player bundle. The hitbox needs the player's own id,
// so it is attached separately by SpawnPlayer.
func NewPlayer() []any {
	return []any{
		Player{},
		Move{Moving: false},
		Size{W: 32, H: 48},
		Position{X: PlayerSpawn.X, Y: PlayerSpawn.Y, Clamp: true},
		Velocity{Base: playerSpeed, Speed: playerSpeed},
		Fire{Speed: playerFireSpeed, Interval: playerFireDelay},
		PlayerState{ReviveTime: playerReviveTime, BombY: playerBombIdle},
		Animation{
			Image:    "player-default",
			Frames:   playerSpriteCount,
			Interval: playerSpriteFrame,
			Active:   true,
			Loop:     true,
		},
	}
}

// playerDan returns a player shot leaving from the player's position.
func playerDan(from *Position, speed float64) []any {
	return []any{
		PlayerBullet{},
		Move{Moving: true},
		Position{X: from.X + 3, Y: from.Y - 57},
		Size{W: 28, H: 56},
		Velocity{Base: speed, Speed: speed, Direction: 180},
		Drag{Ratio: 0.8, Factor: 0.99},
		Sprite{Image: "dan"},
	}
}

// enemyBullet returns a danmaku fired from (x, y).
func enemyBullet(x, y, speed, direction, size float64) []any {
	return []any{
		EnemyBullet{},
		Move{Moving: true},
		Position{X: x, Y: y},
		Size{W: size, H: size},
		Velocity{Base: speed, Speed: speed, Direction: direction},
		Drag{Ratio: 0.8, Factor: 0.99, WhileAbove: true},
	}
}
