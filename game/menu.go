package game

import "github.com/plus3/danmaku/ecs"

// MenuSystem moves the selection between the menu's entries. Up and Down
// wrap around; X jumps to the last entry, or exits if it is already there;
// Z and Enter activate the selection. Every key press plays the select
// sound.
type MenuSystem struct {
	Items ecs.Query[struct {
		*Selectable
		Animation *Animation `ecs:"optional"`
	}]

	input    Input
	session  Session
	audio    Audio
	selected int
}

func NewMenuSystem(input Input, session Session, audio Audio) *MenuSystem {
	s := &MenuSystem{input: input, session: session, audio: audio}
	if input != nil {
		input.Subscribe(s)
	}
	return s
}

// Selected is the Order of the highlighted entry.
func (s *MenuSystem) Selected() int {
	return s.selected
}

func (s *MenuSystem) HandleKey(ev KeyEvent) {
	if !ev.Pressed {
		return
	}
	if s.audio != nil {
		s.audio.Play(SoundSelect)
	}

	last := s.Items.Count() - 1
	if last < 0 {
		return
	}
	switch ev.Key {
	case KeyUp:
		if s.selected > 0 {
			s.selected--
		} else {
			s.selected = last
		}
	case KeyDown:
		if s.selected < last {
			s.selected++
		} else {
			s.selected = 0
		}
	case KeyX:
		if s.selected != last {
			s.selected = last
		} else {
			s.exit()
		}
	case KeyZ, KeyEnter:
		switch s.selected {
		case 0:
			if s.session != nil {
				s.session.RequestTransition(StateStage(1))
			}
		case 1:
			s.exit()
		}
	}
}

func (s *MenuSystem) exit() {
	if s.session != nil {
		s.session.RequestExit()
	}
}

func (s *MenuSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Items.Iter() {
		selected := item.Selectable.Order == s.selected
		item.Selectable.Selected = selected
		if item.Animation != nil {
			item.Animation.Active = selected
		}
	}
}

func (s *MenuSystem) Cancel() {
	if s.input != nil {
		s.input.Unsubscribe(s)
	}
}
