package game

// Image references an asset by name. Frame selects one image out of a strip
// (digits, hearts, animation frames).
type Image struct {
	Name  string
	Frame int
}

// Renderer receives draw calls, in back-to-front order, during World.Render.
// Rectangles are in screen coordinates.
type Renderer interface {
	DrawImage(rect Rect, img Image)
}

// Audio plays named sounds. Unknown names are ignored by implementations.
type Audio interface {
	Play(name string)
	Stop(name string)
}

// App is the window or process hosting the world.
type App interface {
	Exit()
}

// Sound names.
const (
	SoundTitle  = "starter"
	SoundStage1 = "stage-1"
	SoundSelect = "select"
	SoundHit    = "hit"
)

// Session is what systems use to leave the current state. Requests are
// applied once the current tick or key event has been fully processed.
type Session interface {
	RequestTransition(to State)
	RequestExit()
}

type silentAudio struct{}

func (silentAudio) Play(string) {}
func (silentAudio) Stop(string) {}

type nopApp struct{}

func (nopApp) Exit() {}
