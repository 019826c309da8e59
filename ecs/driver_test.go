package ecs_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/plus3/danmaku/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverStartStop(t *testing.T) {
	var steps atomic.Int64
	driver := ecs.NewDriver(2*time.Millisecond, func() bool {
		steps.Add(1)
		return true
	})
	assert.False(t, driver.Running())

	driver.Start()
	driver.Start()
	assert.True(t, driver.Running())

	require.Eventually(t, func() bool { return steps.Load() >= 3 }, 2*time.Second, time.Millisecond)

	driver.Stop()
	assert.False(t, driver.Running())

	after := steps.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, steps.Load(), "no step runs after Stop returns")
}

func TestDriverStepEndsLoop(t *testing.T) {
	var steps atomic.Int64
	driver := ecs.NewDriver(time.Millisecond, func() bool {
		return steps.Add(1) < 3
	})

	driver.Start()
	require.Eventually(t, func() bool { return !driver.Running() }, 2*time.Second, time.Millisecond)
	assert.Equal(t, int64(3), steps.Load())

	// Stop after a self-stop still joins cleanly.
	driver.Stop()

	driver.Start()
	require.Eventually(t, func() bool { return !driver.Running() }, 2*time.Second, time.Millisecond)
	assert.Equal(t, int64(4), steps.Load())
}

func TestDriverStopWhenStopped(t *testing.T) {
	driver := ecs.NewDriver(time.Millisecond, func() bool { return true })
	driver.Stop()
	assert.False(t, driver.Running())
	assert.Equal(t, time.Millisecond, driver.Interval())
}

func TestDriverPacesSteps(t *testing.T) {
	var steps atomic.Int64
	driver := ecs.NewDriver(10*time.Millisecond, func() bool {
		steps.Add(1)
		return true
	})

	driver.Start()
	time.Sleep(55 * time.Millisecond)
	driver.Stop()

	assert.GreaterOrEqual(t, steps.Load(), int64(2))
	assert.LessOrEqual(t, steps.Load(), int64(8))
}
