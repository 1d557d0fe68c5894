package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ruff-day/internal/config"
	"github.com/vovakirdan/ruff-day/internal/core"
	"github.com/vovakirdan/ruff-day/internal/game"
)

// maxFrameDelta caps the time a single tick may advance the round, so a
// stalled terminal does not skip whole tasks.
const maxFrameDelta = 250 * time.Millisecond

// ScoreRecorder stores finished rounds. *storage.Store satisfies it.
type ScoreRecorder interface {
	SaveScore(gameID string, score int, outcome string) (string, error)
}

// ModelOptions configures a Model.
type ModelOptions struct {
	Round    *game.Round
	Config   config.Config
	Runtime  core.RuntimeConfig
	Player   ClipPlayer    // Nil runs silent
	Recorder ScoreRecorder // Nil skips score history
	GameID   string        // Score table key
	Logger   *log.Logger
	Now      func() time.Time // Clock for key events, time.Now when nil
}

// Model is the Bubble Tea model hosting one round.
type Model struct {
	round     *game.Round
	presenter *Presenter
	screen    *core.Screen
	keys      KeyMap
	help      help.Model
	holds     *holdTracker
	frame     core.InputFrame
	recorder  ScoreRecorder
	gameID    string
	logger    *log.Logger
	now       func() time.Time
	tickRate  int
	lastTick  time.Time
	recorded  bool
	quitting  bool
}

// NewModel creates a Bubble Tea model for a round.
func NewModel(opts ModelOptions) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tickRate := opts.Runtime.TickRate
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		round:     opts.Round,
		presenter: NewPresenter(opts.Config.Images, opts.Player),
		screen:    core.NewScreen(opts.Runtime.ScreenW, screenRows(opts.Runtime.ScreenH)),
		keys:      NewKeyMap(opts.Config.Input.Keys),
		help:      h,
		holds:     newHoldTracker(opts.Config.Input.HoldWindow),
		frame:     core.NewInputFrame(),
		recorder:  opts.Recorder,
		gameID:    opts.GameID,
		logger:    logger,
		now:       now,
		tickRate:  tickRate,
	}
}

// screenRows leaves the last terminal row for the help bar.
func screenRows(h int) int {
	return core.Max(h-1, 1)
}

// Init shows the title screen and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.presenter.Apply(m.round.Initialize())
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg), nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, screenRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey queues a key event for the next tick.
// Repeat events only keep the key held; they do not press it again.
func (m Model) handleKey(msg tea.KeyMsg) Model {
	at := m.now()
	in, suppressed := m.keys.Map(msg)

	if suppressed {
		m.holds.Observe(core.InputSuppressor, at)
	}
	if in == core.InputNone {
		return m
	}

	if m.holds.Observe(in, at) {
		m.frame.Press(in)
	}
	return m
}

// handleTick advances the round by the wall time since the previous tick.
func (m Model) handleTick(at time.Time) (tea.Model, tea.Cmd) {
	var dt time.Duration
	if !m.lastTick.IsZero() {
		dt = min(max(at.Sub(m.lastTick), 0), maxFrameDelta)
	}
	m.lastTick = at

	m.holds.Apply(&m.frame, m.now())
	cmds := m.round.Tick(dt, m.frame)
	m.frame = core.NewInputFrame()

	if m.presenter.Apply(cmds) {
		m.quitting = true
		return m, tea.Quit
	}

	m = m.recordOutcome()
	return m, tickCmd(m.tickRate)
}

// recordOutcome saves a finished round once per end screen.
func (m Model) recordOutcome() Model {
	outcome := m.round.Outcome()
	if outcome == "" {
		m.recorded = false
		return m
	}
	if m.recorded {
		return m
	}
	m.recorded = true

	score := m.round.Score()
	if m.recorder == nil || score == 0 {
		return m
	}
	roundID, err := m.recorder.SaveScore(m.gameID, score, outcome)
	if err != nil {
		m.logger.Warn("failed to record round", "score", score, "err", err)
		return m
	}
	m.logger.Info("round recorded", "round", roundID, "score", score, "outcome", outcome)
	return m
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.presenter.Draw(m.screen, m.round.Render())
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Round returns the hosted round.
func (m Model) Round() *game.Round { return m.round }

// Run starts the Bubble Tea program with the given options.
func Run(opts ModelOptions) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
