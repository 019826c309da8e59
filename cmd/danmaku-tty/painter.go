package main

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/danmaku/game"
)

var (
	styleBackdrop = tcell.StyleDefault.Background(tcell.NewRGBColor(18, 14, 32))
	styleFrame    = tcell.StyleDefault.Background(tcell.NewRGBColor(44, 30, 70)).Foreground(tcell.ColorSilver)
	styleBoard    = tcell.StyleDefault.Background(tcell.NewRGBColor(10, 22, 40))
	styleHUD      = styleFrame.Foreground(tcell.ColorWhite).Bold(true)
	styleDim      = styleBackdrop.Foreground(tcell.ColorGray)
	styleLit      = styleBackdrop.Foreground(tcell.ColorWhite).Bold(true)
	stylePlayer   = styleBoard.Foreground(tcell.ColorGold).Bold(true)
	styleEnemy    = styleBoard.Foreground(tcell.ColorAqua)
	styleBoss     = styleBoard.Foreground(tcell.ColorFuchsia).Bold(true)
	styleShot     = styleBoard.Foreground(tcell.ColorLightSteelBlue)
	styleDanmaku  = styleBoard.Foreground(tcell.ColorRed).Bold(true)
	styleBomb     = tcell.StyleDefault.Background(tcell.NewRGBColor(80, 76, 40))
	styleHeart    = styleFrame.Foreground(tcell.ColorRed)
	styleStar     = styleFrame.Foreground(tcell.ColorGold)
)

// painter implements game.Renderer on a grid.
type painter struct {
	grid *grid
}

func (p *painter) DrawImage(r game.Rect, img game.Image) {
	g := p.grid
	switch name := img.Name; {
	case name == "home":
		g.fill(r, " ", styleBackdrop)
		g.text(game.Rect{X: 700, Y: 440, W: 1, H: 1}, "D A N M A K U", styleLit)
	case name == "template":
		for _, band := range frameBands(r) {
			g.fill(band, " ", styleFrame)
		}
		for _, label := range hudLabels {
			g.text(label.at, label.text, styleFrame)
		}
	case name == "board":
		g.fill(r, " ", styleBoard)
	case strings.HasPrefix(name, "button-"):
		style := styleDim
		if img.Frame > 0 {
			style = styleLit
		}
		g.text(r, "[ "+strings.ToUpper(strings.TrimPrefix(name, "button-"))+" ]", style)
	case strings.HasPrefix(name, "player-"):
		g.mark(r, playerGlyph(name), stylePlayer)
	case name == "hitbox-marker":
		g.mark(r, "•", stylePlayer)
	case name == "bomb":
		g.fill(r, " ", styleBomb)
	case name == "dan":
		g.mark(r, "|", styleShot)
	case name == "danmaku":
		g.mark(r, "*", styleDanmaku)
	case name == "enemy":
		g.mark(r, "V", styleEnemy)
	case name == "boss":
		g.fill(r, "#", styleBoss)
	case name == "digit":
		g.text(r, strconv.Itoa(img.Frame%10), styleHUD)
	case name == "separator":
		g.text(r, ",", styleHUD)
	case name == "hearts":
		g.text(r, strings.Repeat("♥", max(img.Frame, 0)), styleHeart)
	case name == "stars":
		g.text(r, strings.Repeat("★", max(img.Frame, 0)), styleStar)
	default:
		g.mark(r, "?", tcell.StyleDefault.Foreground(tcell.ColorFuchsia))
	}
}

func playerGlyph(name string) string {
	switch name {
	case "player-left":
		return "<"
	case "player-right":
		return ">"
	}
	return "A"
}

var hudLabels = []struct {
	at   game.Rect
	text string
}{
	{game.Rect{X: 785, Y: 145, W: 1, H: 1}, "SCORE"},
	{game.Rect{X: 785, Y: 225, W: 1, H: 1}, "PLAYER"},
	{game.Rect{X: 785, Y: 290, W: 1, H: 1}, "BOMB"},
	{game.Rect{X: 785, Y: 348, W: 1, H: 1}, "GRAZE"},
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
