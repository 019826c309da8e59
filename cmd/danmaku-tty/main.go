// Command danmaku-tty runs the game in a terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/danmaku/audio"
	"github.com/plus3/danmaku/config"
	"github.com/plus3/danmaku/game"
)

const frameInterval = time.Second / 30

// exitApp implements game.App by closing done.
type exitApp struct {
	done chan struct{}
	once sync.Once
}

func newExitApp() *exitApp {
	return &exitApp{done: make(chan struct{})}
}

func (a *exitApp) Exit() {
	a.once.Do(func() { close(a.done) })
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file.")
	logPath := flag.String("log", "danmaku-tty.log", "Log file; the terminal is busy drawing.")
	mute := flag.Bool("mute", false, "Disable audio.")
	seed := flag.Uint64("seed", 0, "Random seed; overrides the configuration when non-zero.")
	flag.Parse()

	if err := run(*configPath, *logPath, *mute, *seed); err != nil {
		fmt.Fprintln(os.Stderr, "danmaku-tty:", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string, mute bool, seed uint64) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.Audio.Enabled = cfg.Audio.Enabled && !mute

	bindings, err := resolveBindings(cfg.Bindings())
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()

	sound := audio.NewSoundManager(cfg.Audio, logger)
	_ = sound.Initialize()
	defer sound.Close()

	app := newExitApp()
	world := game.NewWorld(game.Options{TickRate: cfg.TickRate, Seed: cfg.Seed},
		game.Services{Audio: sound, App: app}, logger)
	world.Start()
	defer world.Stop()
	logger.Info("starting", "seed", cfg.Seed, "tick_rate", cfg.TickRate)

	loop(screen, world, app, bindings)
	return nil
}

func loop(screen tcell.Screen, world *game.World, app *exitApp, bindings map[native]game.Key) {
	events := make(chan tcell.Event, 100)
	go func() {
		// PollEvent returns nil once the screen is finalised.
		for ev := screen.PollEvent(); ev != nil; ev = screen.PollEvent() {
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	keys := newTracker()
	for {
		select {
		case <-app.done:
			return

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
					return
				}
				if k, ok := bindings[nativeOf(ev)]; ok {
					world.Dispatch(keys.press(k, time.Now()))
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			for _, ev := range keys.expire(now) {
				world.Dispatch(ev)
			}
			cols, rows := screen.Size()
			g := newGrid(cols, rows)
			world.Render(&painter{grid: g})
			g.show(screen)
		}
	}
}
