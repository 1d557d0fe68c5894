package game

import (
	"fmt"

	"github.com/vovakirdan/ruff-day/internal/registry"
)

const (
	titleText  = "Veterinarian's Hospital:\nRuff Day"
	promptText = "Thump to play!"
)

// Overlay describes the text layer drawn over the scene.
type Overlay struct {
	Heading string   // Title or end screen heading
	Lines   []string // Lines under the heading
	Dim     bool     // Scene is dimmed behind the text
	Caption string   // Task name, set when the task has no image
	HUD     string   // Score line, empty on the title screen
	Notice  string   // Transient win score notice
}

var taskCaptions = map[registry.TaskKind]string{
	registry.CPR:             "CPR!",
	registry.PrecordialThump: "Precordial thump!",
	registry.Pulse:           "Check the pulse!",
	registry.Success:         "Good boy!",
}

// Render returns the overlay for the current state.
func (r *Round) Render() Overlay {
	var o Overlay

	switch r.Phase() {
	case PhaseStart:
		o.Heading = titleText
		o.Lines = []string{promptText}
		o.Dim = true
	case PhaseEndLose, PhaseEndWin:
		o.Heading = "You lost!"
		if r.Phase() == PhaseEndWin {
			o.Heading = "You won!"
		}
		o.Lines = []string{
			fmt.Sprintf("High Score: %d", r.highScore),
			fmt.Sprintf("Score: %d", r.score),
			promptText,
		}
		o.Dim = true
	default:
		if r.task.Image == "" {
			o.Caption = taskCaptions[r.task.Kind]
		}
	}

	if r.Phase() != PhaseStart {
		o.HUD = fmt.Sprintf("Score: %d / %d", r.score, r.winThreshold)
	}
	if r.displaying && r.now < r.displayClearAt {
		o.Notice = r.thresholdNotice()
	}

	return o
}

func (r *Round) thresholdNotice() string {
	return fmt.Sprintf("Win score: %d", r.winThreshold)
}
