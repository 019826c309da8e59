package main

import (
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"

	"github.com/plus3/danmaku/ecs"
	"github.com/plus3/danmaku/ecs/debugui"
	"github.com/plus3/danmaku/game"
)

const historySize = 300

// history is a ring of the last historySize samples.
type history struct {
	samples []float32
	offset  int
}

func newHistory() *history {
	return &history{samples: make([]float32, historySize)}
}

func (h *history) push(v float32) {
	h.samples[h.offset] = v
	h.offset = (h.offset + 1) % len(h.samples)
}

// unrolled returns the samples oldest first.
func (h *history) unrolled() []float32 {
	out := make([]float32, 0, len(h.samples))
	out = append(out, h.samples[h.offset:]...)
	return append(out, h.samples[:h.offset]...)
}

func (h *history) peak() float32 {
	return slices.Max(h.samples)
}

// charts plots the field population and system latency over time.
type charts struct {
	danmaku *history
	enemies *history
	systems map[string]*history
}

func newCharts() *charts {
	return &charts{
		danmaku: newHistory(),
		enemies: newHistory(),
		systems: make(map[string]*history),
	}
}

func (c *charts) sample(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	c.danmaku.push(float32(ecs.Count[game.EnemyBullet](storage)))
	c.enemies.push(float32(ecs.Count[game.Enemy](storage)))

	for _, sys := range scheduler.GetStats().Systems {
		h, ok := c.systems[sys.Name]
		if !ok {
			h = newHistory()
			c.systems[sys.Name] = h
		}
		h.push(float32(sys.LastDuration.Microseconds()) / 1000)
	}
}

// limit pads the tallest series by a tenth, never below floor.
func limit(floor float32, series ...*history) float64 {
	top := floor
	for _, h := range series {
		top = max(top, h.peak()*1.1)
	}
	return float64(top)
}

// item wraps the charts as a panel reading the overlay's target storage.
func (c *charts) item(panels *ecs.Storage) debugui.ImguiItem {
	target := ecs.NewSingleton[debugui.Target](panels)
	return debugui.ImguiItem{Render: func() {
		t := target.Get()
		if t == nil || t.Storage == nil {
			return
		}
		c.sample(t.Storage, t.Scheduler)
		c.render()
	}}
}

func (c *charts) render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(620, 420), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(520, 300), imgui.CondOnce)
	if !imgui.BeginV("Charts", nil, 0) {
		imgui.End()
		return
	}
	defer imgui.End()

	if !imgui.BeginTabBar("ChartTabs") {
		return
	}
	if imgui.BeginTabItem("Field") {
		if implot.BeginPlotV("Field", imgui.NewVec2(-1, -1), 0) {
			implot.SetupAxesV("Frame", "Count", 0, 0)
			implot.SetupAxisLimitsV(implot.AxisY1, 0, limit(10, c.danmaku, c.enemies), implot.CondAlways)
			plot("danmaku", c.danmaku)
			plot("enemies", c.enemies)
			implot.EndPlot()
		}
		imgui.EndTabItem()
	}
	if imgui.BeginTabItem("System Latency") {
		names := make([]string, 0, len(c.systems))
		series := make([]*history, 0, len(c.systems))
		for name, h := range c.systems {
			names = append(names, name)
			series = append(series, h)
		}
		slices.Sort(names)

		if implot.BeginPlotV("Systems", imgui.NewVec2(-1, -1), 0) {
			implot.SetupAxesV("Frame", "Time (ms)", 0, 0)
			implot.SetupAxisLimitsV(implot.AxisY1, 0, limit(1, series...), implot.CondAlways)
			for _, name := range names {
				plot(name, c.systems[name])
			}
			implot.EndPlot()
		}
		imgui.EndTabItem()
	}
	imgui.EndTabBar()
}

func plot(label string, h *history) {
	samples := h.unrolled()
	implot.PlotLineFloatPtrInt(label, &samples[0], int32(len(samples)))
}
