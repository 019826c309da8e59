package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/danmaku/config"
	"github.com/plus3/danmaku/game"
)

// muted never opens the speaker, so the mixer can be pulled by hand.
func muted(volume float64) *SoundManager {
	return NewSoundManager(config.Audio{
		MasterVolume:  volume,
		MusicVolume:   1,
		EffectsVolume: 1,
	}, nil)
}

func pull(sm *SoundManager, d time.Duration) [][2]float64 {
	buf := make([][2]float64, sampleRate.N(d))
	sm.mixer.Stream(buf)
	return buf
}

func peak(buf [][2]float64) float64 {
	var p float64
	for _, s := range buf {
		p = max(p, s[0], -s[0])
	}
	return p
}

func TestSoundManagerWithoutSpeaker(t *testing.T) {
	sm := muted(1)
	require.NoError(t, sm.Initialize(), "disabled audio does not touch the speaker")

	assert.NotPanics(t, func() {
		sm.Play(game.SoundTitle)
		sm.Play(game.SoundHit)
		sm.Stop(game.SoundTitle)
		sm.Stop("nothing")
		sm.Close()
	})
}

func TestMusicPlaysOnce(t *testing.T) {
	sm := muted(1)
	sm.Play(game.SoundStage1)
	sm.Play(game.SoundStage1)

	assert.True(t, sm.Playing(game.SoundStage1))
	assert.Equal(t, 1, sm.mixer.Len())
	assert.Positive(t, peak(pull(sm, 100*time.Millisecond)))
	assert.Equal(t, 1, sm.mixer.Len(), "music keeps going")

	sm.Stop(game.SoundStage1)
	assert.False(t, sm.Playing(game.SoundStage1))
	pull(sm, 10*time.Millisecond)
	assert.Zero(t, sm.mixer.Len())
}

func TestEffectsOverlapAndEnd(t *testing.T) {
	sm := muted(1)
	sm.Play(game.SoundSelect)
	sm.Play(game.SoundSelect)
	sm.Play(game.SoundHit)
	assert.Equal(t, 3, sm.mixer.Len())
	assert.False(t, sm.Playing(game.SoundHit))

	assert.Positive(t, peak(pull(sm, 50*time.Millisecond)))
	pull(sm, 400*time.Millisecond)
	assert.Zero(t, sm.mixer.Len())
}

func TestUnknownSoundIsIgnored(t *testing.T) {
	sm := muted(1)
	sm.Play("fanfare")
	assert.Zero(t, sm.mixer.Len())
}

func TestZeroVolumeIsSilent(t *testing.T) {
	sm := muted(0)
	sm.Play(game.SoundTitle)
	assert.Zero(t, peak(pull(sm, 100*time.Millisecond)))
}

func TestCloseStopsMusic(t *testing.T) {
	sm := muted(1)
	sm.Play(game.SoundTitle)
	sm.Play(game.SoundStage1)
	sm.Close()
	assert.False(t, sm.Playing(game.SoundTitle))
	assert.Zero(t, sm.mixer.Len())
}

func TestEverySoundIsRegistered(t *testing.T) {
	for _, name := range Names() {
		_, ok := sounds[name]
		assert.True(t, ok, name)
	}
	assert.Len(t, sounds, len(Names()))
}

func TestGenerators(t *testing.T) {
	t.Run("triangle", func(t *testing.T) {
		assert.InDelta(t, 1.0, triangle(0), 1e-9)
		assert.InDelta(t, -1.0, triangle(0.5), 1e-9)
		assert.InDelta(t, 0.0, triangle(0.25), 1e-9)
		assert.InDelta(t, 1.0, triangle(3), 1e-9)
	})

	t.Run("rests are silent", func(t *testing.T) {
		g := newMelody(sampleRate, 10*time.Millisecond, 0.5, 0, 0, 0)
		buf := make([][2]float64, 1000)
		n, ok := g.Stream(buf)
		assert.Equal(t, 1000, n)
		assert.True(t, ok)
		assert.Zero(t, peak(buf))
	})

	t.Run("melody stays in range", func(t *testing.T) {
		g := newMelody(sampleRate, 10*time.Millisecond, 0.5, 0.1, a3, c5)
		buf := make([][2]float64, 4000)
		g.Stream(buf)
		assert.LessOrEqual(t, peak(buf), 0.6)
		assert.Positive(t, peak(buf))
	})

	t.Run("sweep decays", func(t *testing.T) {
		g := newSweep(sampleRate, 440, 880, 10*time.Millisecond, 20, 1)
		early := make([][2]float64, sampleRate.N(10*time.Millisecond))
		g.Stream(early)
		late := make([][2]float64, sampleRate.N(10*time.Millisecond))
		for range 20 {
			g.Stream(late)
		}
		assert.Greater(t, peak(early), peak(late))
	})

	t.Run("noise is repeatable", func(t *testing.T) {
		a := make([][2]float64, 256)
		b := make([][2]float64, 256)
		newNoise(sampleRate, 7, 5, 1).Stream(a)
		newNoise(sampleRate, 7, 5, 1).Stream(b)
		assert.Equal(t, a, b)
	})
}
