package core

import "fmt"

// Input is a semantic input code, abstracted from physical key presses.
// The platform maps keys to inputs; the round only ever sees these codes.
type Input int

const (
	InputNone           Input = iota
	InputCPR                  // C - chest compressions
	InputThump                // T - precordial thump, also starts a round
	InputPulse                // P - pulse check
	InputThresholdUp          // + - raise the win score
	InputThresholdDown        // - - lower the win score
	InputRestart              // R - back to the title screen
	InputResetHighScore       // ctrl+r - wipe the stored high score
	InputQuit                 // Q, Esc, Ctrl+C - exit
	InputSuppressor           // Alt held with a task key blocks the match
)

var inputNames = map[Input]string{
	InputNone:           "none",
	InputCPR:            "cpr",
	InputThump:          "thump",
	InputPulse:          "pulse",
	InputThresholdUp:    "threshold_up",
	InputThresholdDown:  "threshold_down",
	InputRestart:        "restart",
	InputResetHighScore: "reset_high_score",
	InputQuit:           "quit",
	InputSuppressor:     "suppressor",
}

// String returns the config name of the input.
func (i Input) String() string {
	if name, ok := inputNames[i]; ok {
		return name
	}
	return "unknown"
}

// ParseInput converts a config name back into an Input.
func ParseInput(name string) (Input, error) {
	for in, n := range inputNames {
		if n == name {
			return in, nil
		}
	}
	return InputNone, fmt.Errorf("core: unknown input %q", name)
}

// InputFrame holds the input state for a single simulation tick.
// Pressed marks inputs that went down during the tick; Held marks inputs
// that are down at the end of it.
type InputFrame struct {
	pressed map[Input]bool
	held    map[Input]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		pressed: make(map[Input]bool),
		held:    make(map[Input]bool),
	}
}

// Press marks an input as newly pressed this tick. A pressed input is also held.
func (f *InputFrame) Press(in Input) {
	if f.pressed == nil {
		f.pressed = make(map[Input]bool)
	}
	f.pressed[in] = true
	f.Hold(in)
}

// Hold marks an input as currently held without a new press.
func (f *InputFrame) Hold(in Input) {
	if f.held == nil {
		f.held = make(map[Input]bool)
	}
	f.held[in] = true
}

// Pressed returns true if the input was newly pressed this tick.
func (f InputFrame) Pressed(in Input) bool {
	return f.pressed[in]
}

// Held returns true if the input is currently down.
func (f InputFrame) Held(in Input) bool {
	return f.held[in]
}
