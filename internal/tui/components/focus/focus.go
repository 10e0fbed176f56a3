// Package focus renders the interval timer for one habit.
package focus

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pomohabit/internal/aggregate"
	"github.com/julianstephens/pomohabit/internal/constants"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/timer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 2).
			Align(lipgloss.Center)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 0).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Width(20).
			Align(lipgloss.Center)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	breakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	workStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// maxNotes is how many of today's notes are listed under the timer.
const maxNotes = 5

type StartMsg struct{ HabitID string }

type PauseMsg struct{ HabitID string }

type StopMsg struct{ HabitID string }

type AddNoteMsg struct{ Habit models.Habit }

type KeyMap struct {
	Toggle key.Binding
	Stop   key.Binding
	Note   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "start/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "note"),
		),
	}
}

type Model struct {
	Habit    models.Habit
	State    timer.State
	Progress aggregate.Progress
	Notes    []models.Note

	keys   KeyMap
	bar    progress.Model
	width  int
	height int
}

func New(habit models.Habit) Model {
	return Model{
		Habit: habit,
		State: timer.State{Mode: timer.Work, Remaining: timer.Duration(timer.Work)},
		keys:  DefaultKeyMap(),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = min(max(width-8, 10), 60)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	id := m.Habit.ID
	switch {
	case key.Matches(k, m.keys.Toggle):
		if m.State.Running {
			return m, func() tea.Msg { return PauseMsg{HabitID: id} }
		}
		return m, func() tea.Msg { return StartMsg{HabitID: id} }
	case key.Matches(k, m.keys.Stop):
		return m, func() tea.Msg { return StopMsg{HabitID: id} }
	case key.Matches(k, m.keys.Note):
		habit := m.Habit
		return m, func() tea.Msg { return AddNoteMsg{Habit: habit} }
	}
	return m, nil
}

// Elapsed is the completed fraction of the current interval.
func (m Model) Elapsed() float64 {
	total := timer.Duration(m.State.Mode)
	if total <= 0 {
		return 0
	}
	done := 1 - float64(m.State.Remaining)/float64(total)
	return min(max(done, 0), 1)
}

func (m Model) status() string {
	switch {
	case m.State.Running:
		return "running"
	case m.State.Paused():
		return "paused"
	default:
		return "ready"
	}
}

func (m Model) View() string {
	mode := workStyle.Render(m.State.Mode.String())
	if m.State.Mode == timer.Break {
		mode = breakStyle.Render(m.State.Mode.String())
	}

	lines := []string{
		titleStyle.Render(m.Habit.Title),
	}
	if m.Habit.Description != "" {
		lines = append(lines, dimStyle.Render(m.Habit.Description))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("%s  %s", mode, dimStyle.Render(m.status())),
		clockStyle.Render(timer.FormatRemaining(m.State.RemainingSeconds())),
		m.bar.ViewAs(m.Elapsed()),
		"",
		fmt.Sprintf("Today %s", m.Progress),
	)

	if len(m.Notes) > 0 {
		lines = append(lines, "", dimStyle.Render("Notes"))
		for i, n := range m.Notes {
			if i == maxNotes {
				lines = append(lines, dimStyle.Render(fmt.Sprintf("… and %d more", len(m.Notes)-maxNotes)))
				break
			}
			lines = append(lines, fmt.Sprintf("%s  %s",
				dimStyle.Render(n.CreatedAt.Format(constants.TimeFormat)), firstLine(n.Text)))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
