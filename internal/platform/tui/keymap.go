package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ruff-day/internal/config"
	"github.com/vovakirdan/ruff-day/internal/core"
)

// KeyMap holds the bindings for every round input.
// Alt on any key is the suppressor and is handled separately.
type KeyMap struct {
	CPR            key.Binding
	Thump          key.Binding
	Pulse          key.Binding
	ThresholdUp    key.Binding
	ThresholdDown  key.Binding
	Restart        key.Binding
	ResetHighScore key.Binding
	Quit           key.Binding
}

// NewKeyMap builds bindings from configured key names.
func NewKeyMap(keys config.KeyConfig) KeyMap {
	return KeyMap{
		CPR:            binding(keys.CPR, "CPR"),
		Thump:          binding(keys.PrecordialThump, "thump"),
		Pulse:          binding(keys.Pulse, "pulse"),
		ThresholdUp:    binding(keys.ThresholdUp, "win score +1"),
		ThresholdDown:  binding(keys.ThresholdDown, "win score -1"),
		Restart:        binding(keys.Restart, "title"),
		ResetHighScore: binding(keys.ResetHighScore, "reset high score"),
		Quit:           binding(keys.Quit, "quit"),
	}
}

func binding(keys []string, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CPR, k.Thump, k.Pulse, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CPR, k.Thump, k.Pulse},
		{k.ThresholdUp, k.ThresholdDown},
		{k.Restart, k.ResetHighScore, k.Quit},
	}
}

// Map translates a key message to a round input.
// suppressed is true when Alt was held with the key.
func (k KeyMap) Map(msg tea.KeyMsg) (in core.Input, suppressed bool) {
	suppressed = msg.Alt
	plain := msg
	plain.Alt = false

	switch {
	case key.Matches(plain, k.Quit):
		return core.InputQuit, suppressed
	case key.Matches(plain, k.ResetHighScore):
		return core.InputResetHighScore, suppressed
	case key.Matches(plain, k.CPR):
		return core.InputCPR, suppressed
	case key.Matches(plain, k.Thump):
		return core.InputThump, suppressed
	case key.Matches(plain, k.Pulse):
		return core.InputPulse, suppressed
	case key.Matches(plain, k.ThresholdUp):
		return core.InputThresholdUp, suppressed
	case key.Matches(plain, k.ThresholdDown):
		return core.InputThresholdDown, suppressed
	case key.Matches(plain, k.Restart):
		return core.InputRestart, suppressed
	}
	return core.InputNone, suppressed
}
