package debugui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/danmaku/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	ComponentTypes []string
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastLen       int
	lastLast      ecs.EntityId
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortAscending: true,
			lastLen:       -1,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(storage)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterKind = ""
		eb.currentPage = 0
	}
	if eb.filterKind != "" {
		imgui.Text("Kind: " + eb.filterKind)
	}

	filtered := filterEntities(eb.cache.entities, eb.filterText, eb.filterKind)
	pages := pageCount(len(filtered), eb.maxEntitiesPerPage)
	eb.currentPage = min(eb.currentPage, max(pages-1, 0))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		start := eb.currentPage * eb.maxEntitiesPerPage
		end := min(start+eb.maxEntitiesPerPage, len(filtered))
		for _, entity := range filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.ComponentTypes)))
		}

		imgui.EndTable()
	}

	if pages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, pages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < pages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

// FilterKind narrows the list to entities carrying the named kind. An empty
// name clears the filter.
func (eb *EntityBrowserComponent) FilterKind(kind string) {
	eb.filterKind = kind
	eb.currentPage = 0
}

// rebuildCacheIfNeeded rebuilds when the population changed. Entities in this
// storage gain and lose components rarely, so the count and the newest id are
// a good enough signature.
func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(storage *ecs.Storage) {
	var last ecs.EntityId
	for id := range storage.Entities() {
		last = id
	}
	if eb.cache.entities != nil && eb.cache.lastLen == storage.Len() && eb.cache.lastLast == last {
		return
	}
	eb.cache.lastLen = storage.Len()
	eb.cache.lastLast = last
	eb.cache.entities = collectEntities(storage)
	sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)

	if eb.selectedEntityId != 0 && !storage.Alive(eb.selectedEntityId) {
		eb.selectedEntityId = 0
	}
}

func (eb *EntityBrowserComponent) GetSelectedEntity() ecs.EntityId {
	return eb.selectedEntityId
}

func collectEntities(storage *ecs.Storage) []EntityInfo {
	entities := make([]EntityInfo, 0, storage.Len())
	for id := range storage.Entities() {
		types := storage.ComponentTypes(id)
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		entities = append(entities, EntityInfo{ID: id, ComponentTypes: names})
	}
	return entities
}

// sortEntities orders by id (column 0), component list (1) or component
// count (2). Ties fall back to id.
func sortEntities(entities []EntityInfo, column int, ascending bool) {
	slices.SortStableFunc(entities, func(a, b EntityInfo) int {
		var c int
		switch column {
		case 1:
			c = strings.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		case 2:
			c = len(a.ComponentTypes) - len(b.ComponentTypes)
		}
		if c == 0 {
			c = int(a.ID) - int(b.ID)
		}
		if !ascending {
			c = -c
		}
		return c
	})
}

// filterEntities keeps entities whose id or component names contain text,
// case insensitively, and that carry kind when kind is set.
func filterEntities(entities []EntityInfo, text, kind string) []EntityInfo {
	if text == "" && kind == "" {
		return entities
	}

	needle := strings.ToLower(text)
	filtered := make([]EntityInfo, 0, len(entities))
	for _, entity := range entities {
		if kind != "" && !slices.Contains(entity.ComponentTypes, kind) {
			continue
		}
		if needle != "" {
			id := fmt.Sprintf("%d", entity.ID)
			components := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
			if !strings.Contains(id, needle) && !strings.Contains(components, needle) {
				continue
			}
		}
		filtered = append(filtered, entity)
	}
	return filtered
}

func pageCount(n, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}
