package tui

import (
	"time"

	"github.com/vovakirdan/ruff-day/internal/core"
)

// repeatGap is the longest gap between two events of one key that still
// reads as terminal autorepeat. Anything slower is a new tap.
const repeatGap = 100 * time.Millisecond

// holdTracker approximates key hold state from terminal key events.
// Terminals only report presses; a key counts as held while events keep
// arriving within the window.
type holdTracker struct {
	window time.Duration
	gap    time.Duration
	last   map[core.Input]time.Time
}

func newHoldTracker(window time.Duration) *holdTracker {
	return &holdTracker{
		window: window,
		gap:    min(repeatGap, window),
		last:   make(map[core.Input]time.Time),
	}
}

// Held reports whether an event for in arrived within the window before now.
func (h *holdTracker) Held(in core.Input, now time.Time) bool {
	at, ok := h.last[in]
	return ok && now.Sub(at) <= h.window
}

// Observe records a key event. It returns true for a fresh press and false
// for an autorepeat of the previous event.
func (h *holdTracker) Observe(in core.Input, at time.Time) bool {
	prev, ok := h.last[in]
	h.last[in] = at
	return !ok || at.Sub(prev) > h.gap
}

// Apply marks every held input on the frame and forgets expired ones.
func (h *holdTracker) Apply(frame *core.InputFrame, now time.Time) {
	for in, at := range h.last {
		if now.Sub(at) > h.window {
			delete(h.last, in)
			continue
		}
		frame.Hold(in)
	}
}
