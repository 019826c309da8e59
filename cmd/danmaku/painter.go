package main

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/danmaku/game"
)

// shape draws one named image into r. Every asset is drawn procedurally.
type shape func(dst *ebiten.Image, r game.Rect, frame int)

var (
	colorBackdrop = color.RGBA{18, 14, 32, 255}
	colorFrame    = color.RGBA{44, 30, 70, 255}
	colorBoard    = color.RGBA{10, 22, 40, 255}
	colorGrid     = color.RGBA{24, 48, 80, 255}
	colorPlayer   = color.RGBA{250, 210, 120, 255}
	colorEnemy    = color.RGBA{120, 220, 230, 255}
	colorBoss     = color.RGBA{230, 100, 220, 255}
	colorShot     = color.RGBA{170, 200, 255, 200}
	colorDanmaku  = color.RGBA{255, 90, 120, 255}
	colorBomb     = color.RGBA{255, 250, 200, 70}
	colorMissing  = color.RGBA{255, 0, 255, 255}
)

var shapes = map[string]shape{
	"home": func(dst *ebiten.Image, r game.Rect, _ int) {
		fill(dst, r, colorBackdrop)
		ebitenutil.DebugPrintAt(dst, "D A N M A K U", int(r.X)+700, int(r.Y)+440)
	},
	"template": drawTemplate,
	"board": func(dst *ebiten.Image, r game.Rect, _ int) {
		fill(dst, r, colorBoard)
		for y := r.Y; y < r.Bottom(); y += 45 {
			vector.StrokeLine(dst, float32(r.X), float32(y), float32(r.Right()), float32(y), 1, colorGrid, false)
		}
	},
	"button-start": button("START"),
	"button-exit":  button("EXIT"),
	"player": func(dst *ebiten.Image, r game.Rect, _ int) {
		vector.DrawFilledRect(dst, float32(r.X+4), float32(r.Y), float32(r.W-8), float32(r.H), colorPlayer, false)
	},
	"hitbox-marker": func(dst *ebiten.Image, r game.Rect, _ int) {
		circle(dst, r, color.White)
	},
	"bomb": func(dst *ebiten.Image, r game.Rect, _ int) {
		circle(dst, r, colorBomb)
	},
	"dan": func(dst *ebiten.Image, r game.Rect, _ int) {
		vector.DrawFilledRect(dst, float32(r.X+r.W/3), float32(r.Y), float32(r.W/3), float32(r.H), colorShot, false)
	},
	"danmaku": func(dst *ebiten.Image, r game.Rect, _ int) {
		circle(dst, r, colorDanmaku)
	},
	"enemy": func(dst *ebiten.Image, r game.Rect, _ int) {
		fill(dst, r, colorEnemy)
	},
	"boss": func(dst *ebiten.Image, r game.Rect, _ int) {
		fill(dst, r, colorBoss)
	},
	"digit": func(dst *ebiten.Image, r game.Rect, frame int) {
		ebitenutil.DebugPrintAt(dst, strconv.Itoa(frame%10), int(r.X)+4, int(r.Y)+6)
	},
	"separator": func(dst *ebiten.Image, r game.Rect, _ int) {
		ebitenutil.DebugPrintAt(dst, ",", int(r.X)+3, int(r.Y)+8)
	},
	"hearts": pipRow(colorDanmaku),
	"stars":  pipRow(colorPlayer),
}

// shapeFor resolves an image name. Player sprites share one shape whatever
// their heading.
func shapeFor(name string) (shape, bool) {
	if strings.HasPrefix(name, "player-") {
		name = "player"
	}
	s, ok := shapes[name]
	return s, ok
}

// painter implements game.Renderer on an ebiten image.
type painter struct {
	target *ebiten.Image
}

func (p *painter) DrawImage(rect game.Rect, img game.Image) {
	s, ok := shapeFor(img.Name)
	if !ok {
		vector.StrokeRect(p.target, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), 1, colorMissing, false)
		return
	}
	s(p.target, rect, img.Frame)
}

func fill(dst *ebiten.Image, r game.Rect, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

func circle(dst *ebiten.Image, r game.Rect, c color.Color) {
	vector.DrawFilledCircle(dst, float32(r.X+r.W/2), float32(r.Y+r.H/2), float32(min(r.W, r.H)/2), c, true)
}

// drawTemplate covers everything around the play field and labels the HUD.
func drawTemplate(dst *ebiten.Image, r game.Rect, _ int) {
	for _, band := range frameBands(r) {
		fill(dst, band, colorFrame)
	}
	ebitenutil.DebugPrintAt(dst, "SCORE", 785, 145)
	ebitenutil.DebugPrintAt(dst, "PLAYER", 785, 225)
	ebitenutil.DebugPrintAt(dst, "BOMB", 785, 290)
	ebitenutil.DebugPrintAt(dst, "GRAZE", 785, 348)
}

// frameBands are the four rectangles of r outside the play field.
func frameBands(r game.Rect) []game.Rect {
	field := game.Rect{X: game.FieldX, Y: game.FieldY, W: game.FieldWidth, H: game.FieldHeight}
	return []game.Rect{
		{X: r.X, Y: r.Y, W: r.W, H: field.Y - r.Y},
		{X: r.X, Y: field.Bottom(), W: r.W, H: r.Bottom() - field.Bottom()},
		{X: r.X, Y: field.Y, W: field.X - r.X, H: field.H},
		{X: field.Right(), Y: field.Y, W: r.Right() - field.Right(), H: field.H},
	}
}

// buttonShade is the label brightness of a menu button on a highlight frame.
func buttonShade(frame int) uint8 {
	const lit = 9
	frame = min(max(frame, 0), lit)
	return uint8(120 + frame*135/lit)
}

func button(label string) shape {
	return func(dst *ebiten.Image, r game.Rect, frame int) {
		shade := buttonShade(frame)
		c := color.RGBA{shade, shade, shade, 255}
		vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, c, false)
		ebitenutil.DebugPrintAt(dst, label, int(r.X)+12, int(r.Y+r.H/2)-8)
	}
}

// pips lays out n markers left to right inside r, each as tall as r.
func pips(r game.Rect, n int) []game.Rect {
	out := make([]game.Rect, 0, max(n, 0))
	for i := range max(n, 0) {
		x := r.X + float64(i)*(r.H+4)
		if x+r.H > r.Right() {
			break
		}
		out = append(out, game.Rect{X: x, Y: r.Y, W: r.H, H: r.H})
	}
	return out
}

func pipRow(c color.Color) shape {
	return func(dst *ebiten.Image, r game.Rect, frame int) {
		for _, p := range pips(r, frame) {
			circle(dst, p, c)
		}
	}
}
