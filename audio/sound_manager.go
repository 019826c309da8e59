// Package audio plays the game's sounds on the system speaker. Everything is
// synthesised; there are no asset files.
package audio

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/plus3/danmaku/config"
	"github.com/plus3/danmaku/game"
)

const sampleRate = beep.SampleRate(44100)

// sound builds a fresh streamer each time it is played. Music loops until
// stopped; effects end on their own.
type sound struct {
	music bool
	build func(sr beep.SampleRate) beep.Streamer
}

// note frequencies in Hz.
const (
	a3 = 220.00
	c4 = 261.63
	d4 = 293.66
	e4 = 329.63
	g4 = 392.00
	a4 = 440.00
	c5 = 523.25
)

var sounds = map[string]sound{
	game.SoundTitle: {music: true, build: func(sr beep.SampleRate) beep.Streamer {
		return newMelody(sr, 240*time.Millisecond, 0.20, 0.05,
			a3, c4, e4, a4, g4, e4, d4, 0, c4, d4, e4, g4, a4, 0, e4, 0)
	}},
	game.SoundStage1: {music: true, build: func(sr beep.SampleRate) beep.Streamer {
		return newMelody(sr, 150*time.Millisecond, 0.18, 0.08,
			a3, a4, e4, a4, c5, a4, e4, a4, g4, d4, g4, a4, c5, a4, g4, e4)
	}},
	game.SoundSelect: {build: func(sr beep.SampleRate) beep.Streamer {
		return beep.Take(sr.N(60*time.Millisecond), newSweep(sr, 880, 1320, 60*time.Millisecond, 20, 0.3))
	}},
	game.SoundHit: {build: func(sr beep.SampleRate) beep.Streamer {
		return beep.Take(sr.N(350*time.Millisecond), newNoise(sr, 0x5eed, 9, 0.5))
	}},
}

// Names lists the sounds the manager can play.
func Names() []string {
	return []string{game.SoundTitle, game.SoundStage1, game.SoundSelect, game.SoundHit}
}

// SoundManager implements game.Audio. A manager that was never initialised,
// or whose speaker failed to open, still tracks what is playing but makes no
// noise.
type SoundManager struct {
	mu          sync.Mutex
	settings    config.Audio
	logger      *slog.Logger
	mixer       *beep.Mixer
	music       map[string]*beep.Ctrl
	initialized bool
}

func NewSoundManager(settings config.Audio, logger *slog.Logger) *SoundManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SoundManager{
		settings: settings,
		logger:   logger,
		mixer:    &beep.Mixer{},
		music:    make(map[string]*beep.Ctrl),
	}
}

// Initialize opens the speaker. Disabled audio skips it. On failure the
// manager logs a warning and stays silent; the error is returned for callers
// that care.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.settings.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		sm.logger.Warn("audio unavailable", "err", err)
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.logger.Debug("audio initialized", "sample_rate", int(sampleRate))
	return nil
}

// Play starts a sound. Music that is already playing is left alone; effects
// overlap. Unknown names are ignored.
func (sm *SoundManager) Play(name string) {
	snd, ok := sounds[name]
	if !ok {
		sm.logger.Debug("unknown sound", "name", name)
		return
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if snd.music {
		if _, playing := sm.music[name]; playing {
			return
		}
	}

	volume := sm.settings.MasterVolume * sm.settings.EffectsVolume
	if snd.music {
		volume = sm.settings.MasterVolume * sm.settings.MusicVolume
	}
	ctrl := &beep.Ctrl{Streamer: newVolume(snd.build(sampleRate), volume)}

	sm.lock()
	if snd.music {
		sm.music[name] = ctrl
	}
	sm.mixer.Add(ctrl)
	sm.unlock()
}

// Stop silences a looping sound. Effects cannot be stopped.
func (sm *SoundManager) Stop(name string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ctrl, ok := sm.music[name]
	if !ok {
		return
	}
	sm.lock()
	// A nil streamer makes the mixer drop the ctrl on its next pass.
	ctrl.Streamer = nil
	sm.unlock()
	delete(sm.music, name)
}

// Playing reports whether the named music is looping.
func (sm *SoundManager) Playing(name string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, ok := sm.music[name]
	return ok
}

// Close stops everything and releases the speaker.
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.lock()
	for _, ctrl := range sm.music {
		ctrl.Paused = true
	}
	sm.mixer.Clear()
	sm.unlock()
	clear(sm.music)

	if sm.initialized {
		speaker.Close()
		sm.initialized = false
	}
}

// lock and unlock guard the mixer against the speaker goroutine.
func (sm *SoundManager) lock() {
	if sm.initialized {
		speaker.Lock()
	}
}

func (sm *SoundManager) unlock() {
	if sm.initialized {
		speaker.Unlock()
	}
}

// newVolume scales s linearly by vol. Log2(0) is -Inf, so zero is silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

var _ game.Audio = (*SoundManager)(nil)
