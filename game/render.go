package game

import (
	"strconv"
	"strings"

	"github.com/plus3/danmaku/ecs"
)

// HUD layout, in screen pixels.
const (
	counterRight   = 904
	scoreY         = 170
	grazeY         = 373
	scoreDigits    = 10
	grazeDigits    = 7
	digitWidth     = 14
	digitHeight    = 29
	separatorWidth = 12
)

var (
	heartsRect = Rect{X: 785, Y: 245, W: 136, H: 22}
	starsRect  = Rect{X: 785, Y: 310, W: 136, H: 22}
)

const (
	lowSpeedMarkerX    = 11
	lowSpeedMarkerY    = 19
	lowSpeedMarkerSize = 10
	bombSize           = 550
)

// Glyph is one image of a HUD counter.
type Glyph struct {
	Rect  Rect
	Image Image
}

// Counter lays out value as a zero padded number of digits, right aligned
// at the HUD column, with a separator every three digits from the right.
// Values too wide for the counter show all nines.
func Counter(value, digits int, y float64) []Glyph {
	limit := strings.Repeat("9", digits)
	text := strconv.Itoa(max(value, 0))
	if len(text) > digits {
		text = limit
	}
	text = strings.Repeat("0", digits-len(text)) + text

	glyphs := make([]Glyph, 0, digits+digits/3)
	x := float64(counterRight)
	for i := digits - 1; i >= 0; i-- {
		glyphs = append(glyphs, Glyph{
			Rect:  Rect{X: x, Y: y, W: digitWidth, H: digitHeight},
			Image: Image{Name: "digit", Frame: int(text[i] - '0')},
		})
		if (i+2)%3 == 0 {
			x -= separatorWidth
			glyphs = append(glyphs, Glyph{
				Rect:  Rect{X: x, Y: y, W: separatorWidth, H: digitHeight},
				Image: Image{Name: "separator"},
			})
		}
		x -= digitWidth
	}
	return glyphs
}

// PlayerVisible reports whether the player is drawn this tick. Invincible
// players blink out on every third tick.
func PlayerVisible(state *PlayerState) bool {
	return state.Invincible <= 0 || state.Invincible%3 != 0
}

// layers draws the storage back to front. The views are built once and
// reused for every frame.
type layers struct {
	backdrops *ecs.View[struct {
		*Backdrop
	}]
	boards *ecs.View[struct {
		*Scroll
	}]
	widgets *ecs.View[struct {
		*Animation
		Player *Player `ecs:"optional"`
	}]
	enemies *ecs.View[struct {
		*Enemy
		*Position
		*Size
		*Sprite
	}]
	players *ecs.View[struct {
		*Player
		*Position
		*Size
		*PlayerState
		*Animation
	}]
	dans *ecs.View[struct {
		*PlayerBullet
		*Position
		*Size
		*Sprite
	}]
	danmaku *ecs.View[struct {
		*EnemyBullet
		*Position
		*Size
	}]
	scoreboard *ecs.Singleton[Scoreboard]
}

func newLayers(storage *ecs.Storage) *layers {
	l := &layers{
		backdrops:  ecs.NewView[struct{ *Backdrop }](storage),
		boards:     ecs.NewView[struct{ *Scroll }](storage),
		enemies:    ecs.NewView[struct{ *Enemy; *Position; *Size; *Sprite }](storage),
		dans:       ecs.NewView[struct{ *PlayerBullet; *Position; *Size; *Sprite }](storage),
		danmaku:    ecs.NewView[struct{ *EnemyBullet; *Position; *Size }](storage),
		scoreboard: &ecs.Singleton[Scoreboard]{},
	}
	l.widgets = ecs.NewView[struct {
		*Animation
		Player *Player `ecs:"optional"`
	}](storage)
	l.players = ecs.NewView[struct {
		*Player
		*Position
		*Size
		*PlayerState
		*Animation
	}](storage)
	l.scoreboard.Init(storage)
	return l
}

func (l *layers) draw(r Renderer) {
	l.drawBackdrops(r, false)
	for item := range l.boards.Iter() {
		s := item.Scroll
		offset := float64(s.Offset)
		length := float64(s.Length)
		r.DrawImage(Rect{X: FieldX, Y: FieldY + offset - length, W: FieldWidth, H: length}, Image{Name: s.Image})
		r.DrawImage(Rect{X: FieldX, Y: FieldY + offset, W: FieldWidth, H: length}, Image{Name: s.Image})
	}
	for item := range l.widgets.Iter() {
		if item.Player != nil {
			continue
		}
		r.DrawImage(item.Animation.Rect, Image{Name: item.Animation.Image, Frame: item.Animation.Index()})
	}
	for item := range l.enemies.Iter() {
		r.DrawImage(bounds(item.Position, item.Size).OnScreen(), Image{Name: item.Sprite.Image})
	}
	l.drawPlayer(r)
	for item := range l.dans.Iter() {
		r.DrawImage(bounds(item.Position, item.Size).OnScreen(), Image{Name: item.Sprite.Image})
	}
	for item := range l.danmaku.Iter() {
		r.DrawImage(bounds(item.Position, item.Size).OnScreen(), Image{Name: "danmaku"})
	}
	l.drawBackdrops(r, true)
	l.drawHUD(r)
}

func (l *layers) drawBackdrops(r Renderer, overlay bool) {
	for item := range l.backdrops.Iter() {
		if item.Backdrop.Overlay == overlay {
			r.DrawImage(item.Backdrop.Rect, Image{Name: item.Backdrop.Image})
		}
	}
}

func (l *layers) drawPlayer(r Renderer) {
	_, p, ok := l.players.First()
	if !ok {
		return
	}
	state := p.PlayerState
	if state.BombY >= bombEndY {
		r.DrawImage(Rect{X: FieldX, Y: state.BombY, W: bombSize, H: bombSize}, Image{Name: "bomb"})
	}
	if !PlayerVisible(state) {
		return
	}

	rect := bounds(p.Position, p.Size).OnScreen()
	if slide := state.Invincible - state.ReviveTime; slide > 0 {
		rect = rect.Offset(0, float64(slide))
	}
	r.DrawImage(rect, Image{Name: p.Animation.Image, Frame: p.Animation.Index()})
	if state.LowSpeed {
		marker := Rect{X: rect.X + lowSpeedMarkerX, Y: rect.Y + lowSpeedMarkerY, W: lowSpeedMarkerSize, H: lowSpeedMarkerSize}
		r.DrawImage(marker, Image{Name: "hitbox-marker"})
	}
}

func (l *layers) drawHUD(r Renderer) {
	board := l.scoreboard.Get()
	if board == nil {
		return
	}
	for _, g := range Counter(board.Score, scoreDigits, scoreY) {
		r.DrawImage(g.Rect, g.Image)
	}
	for _, g := range Counter(board.Graze, grazeDigits, grazeY) {
		r.DrawImage(g.Rect, g.Image)
	}
	r.DrawImage(heartsRect, Image{Name: "hearts", Frame: max(board.Lives, 0)})
	r.DrawImage(starsRect, Image{Name: "stars", Frame: max(board.Stars, 0)})
}

func bounds(p *Position, size *Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: size.W, H: size.H}
}
