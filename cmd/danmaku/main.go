// Command danmaku runs the game in a window.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/danmaku/audio"
	"github.com/plus3/danmaku/config"
	debugui_ebiten "github.com/plus3/danmaku/ecs/debugui/ebiten"
	"github.com/plus3/danmaku/game"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file.")
	debug := flag.Bool("debug", false, "Show the ECS inspection panels.")
	mute := flag.Bool("mute", false, "Disable audio.")
	seed := flag.Uint64("seed", 0, "Random seed; overrides the configuration when non-zero.")
	logLevel := flag.String("log-level", "", "Log level; overrides the configuration.")
	flag.Parse()

	if err := run(*configPath, *debug, *mute, *seed, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "danmaku:", err)
		os.Exit(1)
	}
}

func run(configPath string, debug, mute bool, seed uint64, logLevel string) error {
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
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	cfg.Debug = cfg.Debug || debug
	cfg.Audio.Enabled = cfg.Audio.Enabled && !mute
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	keys, err := resolveBindings(cfg.Bindings())
	if err != nil {
		return err
	}

	sound := audio.NewSoundManager(cfg.Audio, logger)
	// A machine without an audio device still gets to play.
	_ = sound.Initialize()
	defer sound.Close()

	app := &window{}
	world := game.NewWorld(game.Options{
		TickRate: cfg.TickRate,
		Seed:     cfg.Seed,
	}, game.Services{Audio: sound, App: app}, logger)

	width := int(float64(game.ScreenWidth) * cfg.Window.Scale)
	height := int(float64(game.ScreenHeight) * cfg.Window.Scale)

	frontend := newFrontend(world, app, keys)
	if cfg.Debug {
		frontend.overlay = debugui_ebiten.NewOverlay(cfg.Window.Title, width, height)
		panels := frontend.overlay.Storage()
		panels.Spawn(newCharts().item(panels))
	} else {
		ebiten.SetWindowSize(width, height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("starting", "seed", cfg.Seed, "tick_rate", cfg.TickRate, "debug", cfg.Debug)
	world.Start()
	defer world.Stop()

	return ebiten.RunGame(frontend)
}
