package ecs

import "sort"

// StorageStats is a snapshot of storage occupancy.
type StorageStats struct {
	TotalEntityCount int
	KindCount        int
	SingletonCount   int
	KindBreakdown    []KindStats
	SingletonTypes   []string
}

// KindStats describes the column of one component kind.
type KindStats struct {
	Name  string
	Count int
	Slots int
	Holes int
}

// CollectStats gathers a StorageStats snapshot. Kinds are listed in the order
// they were first used.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		TotalEntityCount: s.Len(),
		SingletonCount:   len(s.singletons),
	}

	for _, t := range s.kinds {
		col := s.columns[t]
		if col.storage.Live() == 0 && col.storage.Len() == 0 {
			continue
		}
		stats.KindBreakdown = append(stats.KindBreakdown, KindStats{
			Name:  t.String(),
			Count: col.storage.Live(),
			Slots: col.storage.Len(),
			Holes: col.storage.Holes(),
		})
	}
	stats.KindCount = len(stats.KindBreakdown)

	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}
