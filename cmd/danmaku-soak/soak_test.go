package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/danmaku/ecs"
	"github.com/plus3/danmaku/game"
)

func TestPilotSweeps(t *testing.T) {
	p := newPilot(10, 0)
	assert.Equal(t, []game.KeyEvent{{Key: game.KeyZ, Pressed: true}}, p.begin())

	assert.Equal(t, []game.KeyEvent{{Key: game.KeyLeft, Pressed: true}}, p.at(0))
	assert.Empty(t, p.at(9))
	assert.Equal(t, []game.KeyEvent{{Key: game.KeyLeft}, {Key: game.KeyRight, Pressed: true}}, p.at(10))
	assert.Equal(t, []game.KeyEvent{{Key: game.KeyRight}, {Key: game.KeyLeft, Pressed: true}}, p.at(20))

	p.begin()
	assert.Equal(t, []game.KeyEvent{{Key: game.KeyRight, Pressed: true}}, p.at(15), "a new run presses again")
}

func TestPilotBombs(t *testing.T) {
	p := newPilot(1000, 50)
	p.at(0)
	assert.Empty(t, p.at(49))
	assert.Equal(t, []game.KeyEvent{{Key: game.KeyX, Pressed: true}, {Key: game.KeyX}}, p.at(50))

	quiet := newPilot(1000, 0)
	quiet.at(0)
	assert.Empty(t, quiet.at(2000), "no bombs and no turn")
}

func TestStatsFinalize(t *testing.T) {
	s := Stats{}
	s.Finalize()
	assert.Zero(t, s.Avg)

	for i := 1; i <= 100; i++ {
		s.Samples = append(s.Samples, time.Duration(101-i)*time.Millisecond)
	}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.Equal(t, 50500*time.Microsecond, s.Avg)
	assert.Equal(t, 100*time.Millisecond, s.P99)
	assert.Equal(t, 100*time.Millisecond, s.Samples[0], "samples keep their order")
}

func TestReportObserve(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	r := &Report{}
	r.observe(storage)
	assert.False(t, r.inStage)

	storage.AddSingleton(game.Scoreboard{Lives: 3, Stars: 4})
	storage.Spawn(game.EnemyBullet{}, game.Position{})
	storage.Spawn(game.EnemyBullet{}, game.Position{})
	r.observe(storage)

	var board *game.Scoreboard
	require.True(t, storage.ReadSingleton(&board))
	board.Lives, board.Graze, board.Score = 2, 5, 900
	r.observe(storage)

	assert.Equal(t, 2, r.PeakDanmaku)
	assert.Equal(t, 2, r.PeakEntities)
	assert.Equal(t, 1, r.LivesLost)
	assert.Equal(t, 5, r.TotalGraze)
	assert.Equal(t, 900, r.BestScore)

	storage.Clear()
	r.observe(storage)
	storage.AddSingleton(game.Scoreboard{Lives: 3})
	r.observe(storage)
	assert.Equal(t, 1, r.LivesLost, "a new run starts from its own lives")
}

func TestSoakShortRun(t *testing.T) {
	report := &Report{}
	opts := options{ticks: 400, seed: 1, sweep: 60, bomb: 300}
	soak(context.Background(), opts, slog.New(slog.DiscardHandler), report)

	assert.Equal(t, 400, report.TotalTicks)
	assert.Equal(t, 1, report.Runs)
	assert.Positive(t, report.PeakDanmaku, "the opening pairs fire")
	assert.Positive(t, report.PeakEnemies)
	assert.Len(t, report.UpdateTime.Samples, 400)
	assert.NotEmpty(t, report.Systems)

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	for _, want := range []string{"# Danmaku Soak Report", "**Ticks Simulated:** 400 over 1 run(s)", "## Systems (last stage)", "PlayerSystem"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestSoakStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := &Report{}
	soak(ctx, options{ticks: 1000, seed: 1, sweep: 60}, nil, report)
	assert.Zero(t, report.TotalTicks)
}
