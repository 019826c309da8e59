package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/danmaku/ecs"
)

func TestAnimationStep(t *testing.T) {
	t.Run("looping", func(t *testing.T) {
		a := &Animation{Frames: 2, Interval: 2, Active: true, Loop: true}
		var frames []int
		for range 6 {
			a.step()
			frames = append(frames, a.Index())
		}
		assert.Equal(t, []int{0, 1, 1, 0, 0, 1}, frames)
	})

	t.Run("holding", func(t *testing.T) {
		a := &Animation{Frames: 3, Interval: 1, Active: true}
		for range 10 {
			a.step()
		}
		assert.Equal(t, 2, a.Index())
	})

	t.Run("inactive rests on the first frame", func(t *testing.T) {
		a := &Animation{Frames: 3, Interval: 1, Ticker: 2}
		a.step()
		assert.Zero(t, a.Index())
	})
}

func TestFacing(t *testing.T) {
	assert.Equal(t, "default", Facing(0))
	assert.Equal(t, "right", Facing(45))
	assert.Equal(t, "right", Facing(90))
	assert.Equal(t, "default", Facing(180))
	assert.Equal(t, "left", Facing(315))
	assert.Equal(t, "left", Facing(270))
}

func TestPlayerSpriteFollowsHeading(t *testing.T) {
	w := newTestWorld(t)
	w.enterStage(t)
	sprite := func() Animation {
		var a Animation
		w.storage(func(s *ecs.Storage) {
			for id := range ecs.All[Player](s) {
				a = *ecs.ReadComponent[Animation](s, id)
			}
		})
		return a
	}

	w.hold(KeyLeft)
	w.steps(40)
	left := sprite()
	assert.Equal(t, "player-left", left.Image)
	assert.False(t, left.Loop)
	assert.Equal(t, playerSpriteCount-1, left.Index(), "turning sprites hold their last frame")

	w.release(KeyLeft)
	w.Step()
	idle := sprite()
	assert.Equal(t, "player-default", idle.Image)
	assert.True(t, idle.Loop)
}

func TestScrollSystemWraps(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ScrollSystem{})
	id := storage.Spawn(Scroll{Image: "board", Offset: 673, Length: 675})

	scheduler.Once(0)
	assert.Equal(t, 674, ecs.ReadComponent[Scroll](storage, id).Offset)
	scheduler.Once(0)
	assert.Zero(t, ecs.ReadComponent[Scroll](storage, id).Offset)
}

func TestMusicSystem(t *testing.T) {
	audio := &recordingAudio{}
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(NewMusicSystem(audio, SoundStage1))
	assert.Equal(t, []string{SoundStage1}, audio.played)

	scheduler.Cancel()
	assert.Equal(t, []string{SoundStage1}, audio.stopped)
}
