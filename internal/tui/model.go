package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pomohabit/internal/aggregate"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/notifier"
	"github.com/julianstephens/pomohabit/internal/timer"
	"github.com/julianstephens/pomohabit/internal/tracker"
	"github.com/julianstephens/pomohabit/internal/tui/components/focus"
	"github.com/julianstephens/pomohabit/internal/tui/components/habits"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateFocus
	StateAddHabit
	StateEditHabit
	StateAddNote
	StateConfirmDelete
)

type HabitFormModel struct {
	Title       string
	Description string
}

type NoteFormModel struct {
	Text string
}

// TimerFactory builds a fresh interval timer bound to the store.
type TimerFactory func(opts ...timer.Option) *timer.Timer

type Model struct {
	manager  *tracker.Manager
	newTimer TimerFactory
	notifier *notifier.Notifier

	// timers holds one timer per habit opened this session; they keep
	// running while another view is shown.
	timers map[string]*timer.Timer
	bus    *eventBus

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	habitList     habits.Model
	focusModel    focus.Model
	summary       aggregate.Summary

	form          *huh.Form
	habitForm     *HabitFormModel
	noteForm      *NoteFormModel
	editingHabit  *models.Habit
	noteHabit     models.Habit
	habitToDelete models.Habit

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel builds the TUI over a habit manager. n may be nil to disable
// desktop notifications.
func NewModel(manager *tracker.Manager, newTimer TimerFactory, n *notifier.Notifier) Model {
	m := Model{
		manager:   manager,
		newTimer:  newTimer,
		notifier:  n,
		timers:    make(map[string]*timer.Timer),
		bus:       newEventBus(),
		state:     StateHabits,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habits.New(nil, 0, 0),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateFocus:
		fk := m.focusModel.Keys()
		return []key.Binding{fk.Toggle, fk.Stop, fk.Note, m.keys.Back, m.keys.Quit}
	case StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case StateAddHabit, StateEditHabit, StateAddNote:
		return []key.Binding{m.keys.Back}
	}
	hk := habits.DefaultKeyMap()
	return []key.Binding{hk.Open, hk.Add, hk.Note, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Back, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case StateFocus:
		fk := m.focusModel.Keys()
		actions = []key.Binding{fk.Toggle, fk.Stop, fk.Note}
	case StateHabits:
		hk := habits.DefaultKeyMap()
		actions = []key.Binding{hk.Open, hk.Add, hk.Edit, hk.Delete, hk.Note}
	}
	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return m.bus.wait()
}
