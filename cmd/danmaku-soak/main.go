// Command danmaku-soak plays stages headless with a scripted pilot and
// reports how the simulation held up.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/plus3/danmaku/ecs"
	"github.com/plus3/danmaku/game"
)

type options struct {
	duration time.Duration
	ticks    int
	seed     uint64
	sweep    int
	bomb     int
}

func main() {
	duration := flag.Duration("duration", 30*time.Second, "Wall clock limit for the run.")
	ticks := flag.Int("ticks", 20000, "Ticks to simulate.")
	seed := flag.Uint64("seed", 1, "Random seed for the shooters.")
	sweep := flag.Int("sweep", 90, "Ticks the pilot spends moving each way.")
	bomb := flag.Int("bomb", 600, "Ticks between bombs; 0 never bombs.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flag.String("log-level", "warn", "Log level.")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "danmaku-soak:", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	report := &Report{GCPauseMetrics: *gcPauseMetrics}
	opts := options{duration: *duration, ticks: *ticks, seed: *seed, sweep: *sweep, bomb: *bomb}

	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	logger.Info("soak starting", "ticks", opts.ticks, "seed", opts.seed)
	soak(ctx, opts, logger, report)
	logger.Info("soak finished", "ticks", report.TotalTicks, "runs", report.Runs)

	fmt.Println("--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("report failed", "err", err)
		os.Exit(1)
	}
	fmt.Println("--- End of Report ---")
}

// soak drives a headless world until ticks are done or ctx ends. Every time
// the session falls back to the menu the pilot starts a new run.
func soak(ctx context.Context, opts options, logger *slog.Logger, report *Report) {
	report.Seed = opts.seed
	report.RequestedTicks = opts.ticks
	report.UpdateTime.Samples = make([]time.Duration, 0, opts.ticks)

	app := &quitter{}
	world := game.NewWorld(game.Options{Headless: true, Seed: opts.seed}, game.Services{App: app}, logger)
	world.Start()
	defer world.Stop()

	p := newPilot(opts.sweep, opts.bomb)
	runtime.ReadMemStats(&report.MemStatsStart)
	start := time.Now()

	for report.TotalTicks < opts.ticks && ctx.Err() == nil && !app.quit {
		if world.State().Kind == game.KindMenu {
			report.Runs++
			world.Dispatch(game.KeyEvent{Key: game.KeyEnter, Pressed: true})
			world.Dispatch(game.KeyEvent{Key: game.KeyEnter})
			for _, ev := range p.begin() {
				world.Dispatch(ev)
			}
			continue
		}

		for _, ev := range p.at(world.StageTick()) {
			world.Dispatch(ev)
		}

		before := time.Now()
		world.Step()
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(before))
		report.TotalTicks++

		world.Inspect(func(storage *ecs.Storage, _ *ecs.Scheduler) {
			report.observe(storage)
		})
	}

	report.TotalTime = time.Since(start)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	world.Inspect(func(_ *ecs.Storage, scheduler *ecs.Scheduler) {
		report.Systems = scheduler.GetStats().Systems
	})
}

// quitter implements game.App for a world nobody watches.
type quitter struct {
	quit bool
}

func (q *quitter) Exit() { q.quit = true }
