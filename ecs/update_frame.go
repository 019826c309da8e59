package ecs

// UpdateFrame is handed to every system during one scheduler tick.
type UpdateFrame struct {
	DeltaTime float64
	// Tick counts completed scheduler ticks, starting at 1 for the first.
	Tick     uint64
	Commands *Commands
	Storage  *Storage
}
