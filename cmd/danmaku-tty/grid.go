package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/plus3/danmaku/game"
)

type cell struct {
	glyph string
	style tcell.Style
}

// grid is the terminal picture of one frame. The game screen is squeezed
// into cols by rows cells.
type grid struct {
	cols, rows int
	cells      []cell
}

func newGrid(cols, rows int) *grid {
	cols, rows = max(cols, 1), max(rows, 1)
	return &grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
}

func (g *grid) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return nil
	}
	return &g.cells[y*g.cols+x]
}

// span converts a screen rectangle into a half-open cell range. Anything
// with an area covers at least one cell.
func (g *grid) span(r game.Rect) (x0, y0, x1, y1 int) {
	sx := float64(g.cols) / game.ScreenWidth
	sy := float64(g.rows) / game.ScreenHeight
	x0 = int(math.Floor(r.X * sx))
	y0 = int(math.Floor(r.Y * sy))
	x1 = max(int(math.Ceil(r.Right()*sx)), x0+1)
	y1 = max(int(math.Ceil(r.Bottom()*sy)), y0+1)
	return x0, y0, x1, y1
}

// fill paints every cell of r with glyph.
func (g *grid) fill(r game.Rect, glyph string, style tcell.Style) {
	x0, y0, x1, y1 := g.span(r)
	w := max(runewidth.StringWidth(glyph), 1)
	for y := y0; y < y1; y++ {
		for x := x0; x+w <= x1; x += w {
			g.put(x, y, glyph, style)
		}
	}
}

// mark paints the single cell at the centre of r.
func (g *grid) mark(r game.Rect, glyph string, style tcell.Style) {
	sx := float64(g.cols) / game.ScreenWidth
	sy := float64(g.rows) / game.ScreenHeight
	x := int((r.X + r.W/2) * sx)
	y := int((r.Y + r.H/2) * sy)
	g.put(x, y, glyph, style)
}

// text writes s starting at the top-left cell of r and returns the number
// of columns used.
func (g *grid) text(r game.Rect, s string, style tcell.Style) int {
	x0, y0, _, _ := g.span(r)
	x := x0
	for _, ch := range s {
		g.put(x, y0, string(ch), style)
		x += max(runewidth.RuneWidth(ch), 1)
	}
	return x - x0
}

// put stores a glyph. A double-width glyph also claims the next cell.
func (g *grid) put(x, y int, glyph string, style tcell.Style) {
	c := g.at(x, y)
	if c == nil {
		return
	}
	*c = cell{glyph: glyph, style: style}
	if runewidth.StringWidth(glyph) == 2 {
		if next := g.at(x+1, y); next != nil {
			*next = cell{style: style}
		}
	}
}

// show copies the grid to the screen.
func (g *grid) show(screen tcell.Screen) {
	for y := range g.rows {
		for x := range g.cols {
			c := g.cells[y*g.cols+x]
			if c.glyph == "" {
				// Second half of a wide glyph, or untouched.
				if x > 0 && runewidth.StringWidth(g.cells[y*g.cols+x-1].glyph) == 2 {
					continue
				}
				screen.SetContent(x, y, ' ', nil, c.style)
				continue
			}
			runes := []rune(c.glyph)
			screen.SetContent(x, y, runes[0], runes[1:], c.style)
		}
	}
	screen.Show()
}
