package main

import (
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/danmaku/ecs"
	debugui_ebiten "github.com/plus3/danmaku/ecs/debugui/ebiten"
	"github.com/plus3/danmaku/game"
)

// window implements game.App. Exit may be called from any goroutine; the
// next Update ends the ebiten loop.
type window struct {
	closed atomic.Bool
}

func (w *window) Exit() {
	w.closed.Store(true)
}

// frontend implements ebiten.Game. The world ticks on its own driver; the
// ebiten loop only feeds it keys and draws it.
type frontend struct {
	world   *game.World
	app     *window
	keys    []binding
	canvas  *ebiten.Image
	overlay *debugui_ebiten.Overlay
}

func newFrontend(world *game.World, app *window, keys []binding) *frontend {
	return &frontend{
		world:  world,
		app:    app,
		keys:   keys,
		canvas: ebiten.NewImage(game.ScreenWidth, game.ScreenHeight),
	}
}

func (f *frontend) Update() error {
	if f.app.closed.Load() {
		return ebiten.Termination
	}

	if f.overlay == nil || !f.overlay.WantsKeyboard() {
		for _, ev := range pollKeys(f.keys) {
			f.world.Dispatch(ev)
		}
	}

	if f.overlay != nil {
		f.world.Inspect(func(storage *ecs.Storage, scheduler *ecs.Scheduler) {
			f.overlay.Update(storage, scheduler)
		})
	}
	return nil
}

func (f *frontend) Draw(screen *ebiten.Image) {
	f.canvas.Clear()
	f.world.Render(&painter{target: f.canvas})

	scale, dx, dy := fit(screen.Bounds().Dx(), screen.Bounds().Dy())
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(scale, scale)
	opts.GeoM.Translate(dx, dy)
	opts.Filter = ebiten.FilterLinear
	screen.DrawImage(f.canvas, opts)

	if f.overlay != nil {
		f.overlay.Draw(screen)
	}
}

func (f *frontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	if f.overlay != nil {
		f.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// fit scales the game screen into a w by h window keeping its aspect ratio,
// centred with letterboxing.
func fit(w, h int) (scale, dx, dy float64) {
	if w <= 0 || h <= 0 {
		return 1, 0, 0
	}
	scale = min(float64(w)/game.ScreenWidth, float64(h)/game.ScreenHeight)
	dx = (float64(w) - game.ScreenWidth*scale) / 2
	dy = (float64(h) - game.ScreenHeight*scale) / 2
	return scale, dx, dy
}
