package debugui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/danmaku/ecs"
)

// Kind viewer columns.
const (
	kindColumnName = iota
	kindColumnCount
	kindColumnSlots
	kindColumnHoles
)

func NewKindViewerComponent() KindViewerComponent {
	return KindViewerComponent{
		sortColumn:    kindColumnCount,
		sortAscending: false,
	}
}

// Render lists every component kind with its live count and column
// occupancy. It returns the kind whose row was clicked this frame.
func (kv *KindViewerComponent) Render(storage *ecs.Storage) (string, bool) {
	if !imgui.BeginV("Kind Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return "", false
	}

	kv.kinds = storage.CollectStats().KindBreakdown
	sortKinds(kv.kinds, kv.sortColumn, kv.sortAscending)

	maxCount := 0
	for _, k := range kv.kinds {
		maxCount = max(maxCount, k.Count)
	}

	var clicked string
	var ok bool

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("KindTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Live")
		imgui.TableSetupColumn("Slots")
		imgui.TableSetupColumn("Holes")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			kv.sortColumn = int(spec.ColumnIndex())
			kv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortKinds(kv.kinds, kv.sortColumn, kv.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, k := range kv.kinds {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(k.Name, kv.selectedKind == k.Name, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				kv.selectedKind = k.Name
				clicked, ok = k.Name, true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", k.Count))
			if maxCount > 0 {
				barWidth := float32(k.Count) / float32(maxCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", k.Slots))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d (%.0f%%)", k.Holes, fragmentation(k)*100))
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked, ok
}

// fragmentation is the share of a column's slots that are holes.
func fragmentation(k ecs.KindStats) float64 {
	if k.Slots == 0 {
		return 0
	}
	return float64(k.Holes) / float64(k.Slots)
}

func sortKinds(kinds []ecs.KindStats, column int, ascending bool) {
	slices.SortStableFunc(kinds, func(a, b ecs.KindStats) int {
		var c int
		switch column {
		case kindColumnCount:
			c = a.Count - b.Count
		case kindColumnSlots:
			c = a.Slots - b.Slots
		case kindColumnHoles:
			c = a.Holes - b.Holes
		}
		if c == 0 {
			c = strings.Compare(a.Name, b.Name)
			if !ascending && column != kindColumnName {
				// Names stay alphabetical within equal counts.
				return c
			}
		}
		if !ascending {
			c = -c
		}
		return c
	})
}
