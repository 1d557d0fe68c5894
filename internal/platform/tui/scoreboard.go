package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ruff-day/internal/game"
	"github.com/vovakirdan/ruff-day/internal/storage"
)

// Scoreboard layout constants
const (
	maxScores     = 100 // Max scores to load
	tableMinWidth = 40
)

// ScoreFilter selects which finished rounds the scoreboard lists.
type ScoreFilter int

const (
	FilterAll ScoreFilter = iota
	FilterWins
	FilterLosses
	filterCount
)

// String returns the tab label of the filter.
func (f ScoreFilter) String() string {
	switch f {
	case FilterWins:
		return "Wins"
	case FilterLosses:
		return "Losses"
	default:
		return "All"
	}
}

// Match reports whether a round with the given outcome passes the filter.
func (f ScoreFilter) Match(outcome string) bool {
	switch f {
	case FilterWins:
		return outcome == game.OutcomeWin
	case FilterLosses:
		return outcome == game.OutcomeLose
	default:
		return true
	}
}

// ScoreSource reads round history. *storage.Store satisfies it.
type ScoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	GetGameStats(gameID string) (*storage.GameStats, error)
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFilter, k.PrevFilter, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextFilter, k.PrevFilter, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next filter"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev filter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	source   ScoreSource
	gameID   string
	filter   ScoreFilter
	all      []storage.ScoreEntry
	scores   []storage.ScoreEntry
	stats    *storage.GameStats
	loadErr  error
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(source ScoreSource, gameID string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		source: source,
		gameID: gameID,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}

	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Outcome", Width: 9},
		{Title: "Date", Width: 14},
	}

	// Give spare width to the date column
	if tableWidth := m.width - 8; tableWidth > tableMinWidth {
		columns[3].Width = min(tableWidth-26, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, stats, and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads history and stats from the source.
func (m *ScoreboardModel) load() {
	m.all, m.stats, m.loadErr = nil, nil, nil
	if m.source != nil {
		if m.all, m.loadErr = m.source.TopScores(m.gameID, maxScores); m.loadErr == nil {
			m.stats, m.loadErr = m.source.GetGameStats(m.gameID)
		}
	}
	m.applyFilter()
}

// applyFilter narrows the loaded history to the current filter.
func (m *ScoreboardModel) applyFilter() {
	m.scores = nil
	for _, s := range m.all {
		if m.filter.Match(s.Outcome) {
			m.scores = append(m.scores, s)
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			s.Outcome,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % filterCount
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.filter = (m.filter + filterCount - 1) % filterCount
			m.applyFilter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(centerText(titleStyle.Render("RUFF DAY - HIGH SCORES"), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.renderStats(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, filterCount)
	for f := range filterCount {
		if f == m.filter {
			tabs[f] = activeTabStyle.Render(f.String())
		} else {
			tabs[f] = tabStyle.Render(f.String())
		}
	}
	return strings.Join(tabs, " ")
}

func (m ScoreboardModel) renderStats() string {
	statsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	if m.loadErr != nil {
		return statsStyle.Render("Scores unavailable: " + m.loadErr.Error())
	}
	if m.stats == nil || m.stats.GamesCount == 0 {
		return statsStyle.Render("No rounds played")
	}

	line := fmt.Sprintf("Rounds: %d  Wins: %d  Best: %d  Avg: %.1f",
		m.stats.GamesCount, m.stats.Wins, m.stats.HighScore, m.stats.AvgScore)
	if !m.stats.LastPlayed.IsZero() {
		line += "  Last: " + m.stats.LastPlayed.Format("Jan 02 15:04")
	}
	return statsStyle.Render(line)
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.scores) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No scores recorded yet.\nThump to play!")
	}

	return m.table.View()
}

// Filter returns the active filter.
func (m ScoreboardModel) Filter() ScoreFilter { return m.filter }

// Scores returns the rounds shown under the active filter.
func (m ScoreboardModel) Scores() []storage.ScoreEntry { return m.scores }

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(source ScoreSource, gameID string, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(source, gameID, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// centerText pads each line of text to center it within width.
func centerText(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if pad := (width - lipgloss.Width(line)) / 2; pad > 0 {
			lines[i] = strings.Repeat(" ", pad) + line
		}
	}
	return strings.Join(lines, "\n")
}
