package ecs

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler manages and executes systems in order.
type Scheduler struct {
	storage     *Storage
	systems     []System
	systemStats []*systemStatsInternal
	commands    *Commands
	ticks       uint64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage:  storage,
		systems:  make([]System, 0),
		commands: newCommands(),
	}
}

// Storage returns the storage systems run against.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register adds a system to the scheduler and initializes its Query fields.
// Systems run in registration order.
func (s *Scheduler) Register(system System) {
	s.initializeQueries(system)
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	systemName := systemType.Name()

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName,
		minDuration: time.Duration(1<<63 - 1),
	})
}

func (s *Scheduler) initializeQueries(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()

		if strings.HasPrefix(typeName, "Query[") || strings.HasPrefix(typeName, "Singleton[") {
			initMethod := field.Addr().MethodByName("Init")
			if !initMethod.IsValid() {
				panic("Init method not found on field: " + fieldType.Name)
			}

			initMethod.Call([]reflect.Value{
				reflect.ValueOf(s.storage),
			})
		}
	}
}

// Systems returns the registered systems in execution order.
func (s *Scheduler) Systems() []System {
	return slices.Clone(s.systems)
}

// Len returns the number of registered systems.
func (s *Scheduler) Len() int {
	return len(s.systems)
}

// Tick returns the number of completed ticks since the scheduler was created.
func (s *Scheduler) Tick() uint64 {
	return s.ticks
}

// Once executes all registered systems once with the given delta time, then
// applies the deferred commands they queued.
func (s *Scheduler) Once(dt float64) {
	s.ticks++
	frame := &UpdateFrame{
		DeltaTime: dt,
		Tick:      s.ticks,
		Commands:  s.commands,
		Storage:   s.storage,
	}

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	frame.Commands.Flush(s.storage)
	s.storage.compactFragmented()
}

// Cancel cancels every registered system that implements Canceler, in
// registration order, and then unregisters all systems. Commands still
// buffered are dropped.
func (s *Scheduler) Cancel() {
	for _, system := range s.systems {
		if c, ok := system.(Canceler); ok {
			c.Cancel()
		}
	}
	s.systems = nil
	s.systemStats = nil
	s.commands = newCommands()
}

// Run executes all systems repeatedly at the given interval until the context
// is cancelled. Each iteration sleeps for whatever is left of the interval
// after the tick; a tick that overruns is followed immediately by the next one
// and missed ticks are not caught up.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	dt := interval.Seconds()
	for ctx.Err() == nil {
		start := time.Now()
		s.Once(dt)

		remaining := interval - time.Since(start)
		if remaining <= 0 {
			continue
		}
		timer.Reset(remaining)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.ticks,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
