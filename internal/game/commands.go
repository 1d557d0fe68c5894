package game

// Prop identifies a scene object the round can toggle or rotate.
type Prop int

const (
	PropClockHand Prop = iota
	PropClockFace
)

func (p Prop) String() string {
	switch p {
	case PropClockHand:
		return "clock_hand"
	case PropClockFace:
		return "clock_face"
	default:
		return "unknown"
	}
}

// Command is a presentation side effect produced by the round.
// The host applies commands in the order they are returned.
type Command interface {
	command()
}

// PlayClip asks the audio player to play one clip.
type PlayClip struct {
	Clip   string
	Volume float64 // 0.0 - 1.0
	Pitch  float64 // 1.0 is the recorded pitch
}

// SetImage replaces the task image. An empty ref hides it.
type SetImage struct {
	Image string
}

// SetPropEnabled shows or hides a prop.
type SetPropEnabled struct {
	Prop    Prop
	Enabled bool
}

// SetPropRotation sets a prop's angle in degrees, [0, 360).
type SetPropRotation struct {
	Prop  Prop
	Angle float64
}

// SetOverlayText sets the transient notice line. Empty clears it.
type SetOverlayText struct {
	Text string
}

// Quit asks the host to shut down.
type Quit struct{}

func (PlayClip) command()        {}
func (SetImage) command()        {}
func (SetPropEnabled) command()  {}
func (SetPropRotation) command() {}
func (SetOverlayText) command()  {}
func (Quit) command()            {}
