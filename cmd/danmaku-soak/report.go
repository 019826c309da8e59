package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/danmaku/ecs"
	"github.com/plus3/danmaku/game"
)

type Report struct {
	// Configuration
	Seed           uint64
	RequestedTicks int

	// Results
	TotalTicks     int
	TotalTime      time.Duration
	Runs           int
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
	Systems        []ecs.SystemStats

	// Gameplay, sampled after every tick
	PeakEntities int
	PeakDanmaku  int
	PeakEnemies  int
	BestScore    int
	TotalGraze   int
	LivesLost    int

	lastLives int
	lastGraze int
	inStage   bool
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	for _, sample := range s.Samples {
		total += sample
	}
	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Avg = total / time.Duration(len(sorted))
	s.P99 = sorted[min(len(sorted)*99/100, len(sorted)-1)]
}

// observe samples the world after a tick. A missing scoreboard means the
// session is in the menu; the next scoreboard seen starts a new run.
func (r *Report) observe(storage *ecs.Storage) {
	r.PeakEntities = max(r.PeakEntities, storage.Len())
	r.PeakDanmaku = max(r.PeakDanmaku, ecs.Count[game.EnemyBullet](storage))
	r.PeakEnemies = max(r.PeakEnemies, ecs.Count[game.Enemy](storage))

	var board *game.Scoreboard
	if !storage.ReadSingleton(&board) {
		r.inStage = false
		return
	}
	if !r.inStage {
		r.inStage = true
		r.lastLives = board.Lives
		r.lastGraze = 0
	}

	if board.Lives < r.lastLives {
		r.LivesLost += r.lastLives - board.Lives
	}
	r.lastLives = board.Lives
	r.TotalGraze += max(board.Graze-r.lastGraze, 0)
	r.lastGraze = board.Graze
	r.BestScore = max(r.BestScore, board.Score)
}

// TicksPerSecond is the simulation speed achieved, against the 60 a live
// game needs.
func (r *Report) TicksPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.TotalTicks) / r.TotalTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Danmaku Soak Report

## Run Configuration
- **Seed:** {{.Seed}}
- **Requested Ticks:** {{.RequestedTicks}}

## Performance Results
- **Ticks Simulated:** {{.TotalTicks}} over {{.Runs}} run(s)
- **Total Time:** {{.TotalTime}} ({{printf "%.0f" .TicksPerSecond}} ticks/s)
- **Tick Time:**
  - **Avg:** {{.UpdateTime.Avg}}
  - **P99:** {{.UpdateTime.P99}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Gameplay
- **Peak Entities:** {{.PeakEntities}}
- **Peak Danmaku:** {{.PeakDanmaku}}
- **Peak Enemies:** {{.PeakEnemies}}
- **Best Score:** {{.BestScore}}
- **Graze:** {{.TotalGraze}}
- **Lives Lost:** {{.LivesLost}}
{{if .Systems}}
## Systems (last stage)
{{range .Systems}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parsing report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
