package game

import "github.com/plus3/danmaku/ecs"

// AnimationSystem advances every sprite animation by one tick.
type AnimationSystem struct {
	Animations ecs.Query[struct {
		*Animation
	}]
}

func (s *AnimationSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Animations.Iter() {
		item.Animation.step()
	}
}

// ScrollSystem scrolls the stage board one pixel a tick, wrapping at its
// length.
type ScrollSystem struct {
	Boards ecs.Query[struct {
		*Scroll
	}]
}

func (s *ScrollSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Boards.Iter() {
		scroll := item.Scroll
		if scroll.Offset+1 < scroll.Length {
			scroll.Offset++
		} else {
			scroll.Offset = 0
		}
	}
}

// MusicSystem plays a track for as long as it is registered.
type MusicSystem struct {
	audio Audio
	track string
}

// NewMusicSystem starts track right away.
func NewMusicSystem(audio Audio, track string) *MusicSystem {
	if audio != nil {
		audio.Play(track)
	}
	return &MusicSystem{audio: audio, track: track}
}

func (s *MusicSystem) Execute(frame *ecs.UpdateFrame) {}

func (s *MusicSystem) Cancel() {
	if s.audio != nil {
		s.audio.Stop(s.track)
	}
}
