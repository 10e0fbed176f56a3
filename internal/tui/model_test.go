package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/storage/sqlite"
	"github.com/julianstephens/pomohabit/internal/timer"
	"github.com/julianstephens/pomohabit/internal/tracker"
	"github.com/julianstephens/pomohabit/internal/tui/components/focus"
	"github.com/julianstephens/pomohabit/internal/tui/components/habits"
)

// idleScheduler never fires; tests drive the timers with Tick.
type idleScheduler struct{}

func (idleScheduler) Start(func()) {}
func (idleScheduler) Stop()        {}

func setup(t *testing.T) (Model, *tracker.Manager, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	manager := tracker.New(store, tracker.WithClock(clock), tracker.WithLocation(time.UTC))
	newTimer := func(opts ...timer.Option) *timer.Timer {
		opts = append(opts, timer.WithScheduler(idleScheduler{}), timer.WithClock(clock))
		return timer.New(store, opts...)
	}
	return NewModel(manager, newTimer, nil), manager, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// drain feeds every queued timer event back into the model.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case msg := <-m.bus.events:
			m = update(t, m, msg)
		default:
			return m
		}
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelListsHabits(t *testing.T) {
	m, manager, _ := setup(t)
	assert.Empty(t, m.habitList.Items())

	_, err := manager.AddHabit("Read", "")
	require.NoError(t, err)
	_, err = manager.AddHabit("Write", "")
	require.NoError(t, err)

	m.refresh()
	items := m.habitList.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Progress.Completed)
	assert.Equal(t, 4, items[0].Progress.Target)
}

func TestFocusStartTickStop(t *testing.T) {
	m, manager, store := setup(t)
	h, err := manager.AddHabit("Read", "")
	require.NoError(t, err)
	m.refresh()

	m = update(t, m, habits.OpenHabitMsg{Habit: h})
	require.Equal(t, StateFocus, m.state)
	assert.False(t, m.focusModel.State.Running)

	m = drain(t, update(t, m, focus.StartMsg{HabitID: h.ID}))
	assert.True(t, m.focusModel.State.Running)
	assert.Contains(t, m.habitList.Items()[0].Status, "work 25:00")

	sessions, err := store.GetSessionsForHabit(h.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Nil(t, sessions[0].EndTime)

	require.NoError(t, m.timers[h.ID].Tick())
	m = drain(t, m)
	assert.Equal(t, 1499, m.focusModel.State.RemainingSeconds())

	m = drain(t, update(t, m, focus.PauseMsg{HabitID: h.ID}))
	assert.True(t, m.focusModel.State.Paused())
	assert.Contains(t, m.habitList.Items()[0].Status, "24:59")

	m = drain(t, update(t, m, focus.StopMsg{HabitID: h.ID}))
	assert.False(t, m.focusModel.State.Running)
	assert.Equal(t, 1500, m.focusModel.State.RemainingSeconds())
	assert.Empty(t, m.habitList.Items()[0].Status)

	sessions, err = store.GetSessionsForHabit(h.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.NotNil(t, sessions[0].EndTime)
}

func TestFocusCompletionRefreshesProgress(t *testing.T) {
	m, manager, _ := setup(t)
	h, err := manager.AddHabit("Read", "")
	require.NoError(t, err)
	m.refresh()

	m = update(t, m, habits.OpenHabitMsg{Habit: h})
	m = drain(t, update(t, m, focus.StartMsg{HabitID: h.ID}))

	tm := m.timers[h.ID]
	for i := 0; i < 1500; i++ {
		require.NoError(t, tm.Tick())
		m = drain(t, m)
	}

	assert.Equal(t, timer.Break, m.focusModel.State.Mode)
	assert.Equal(t, 300, m.focusModel.State.RemainingSeconds())
	assert.Equal(t, 1, m.focusModel.Progress.Completed)
	assert.Equal(t, 1, m.habitList.Items()[0].Progress.Completed)
	assert.Equal(t, 1, m.summary.TotalPomodoros)
	assert.Equal(t, "Finished work interval", m.status)
}

func TestBackFromFocusKeepsTimerRunning(t *testing.T) {
	m, manager, _ := setup(t)
	h, err := manager.AddHabit("Read", "")
	require.NoError(t, err)
	m.refresh()

	m = update(t, m, habits.OpenHabitMsg{Habit: h})
	m = drain(t, update(t, m, focus.StartMsg{HabitID: h.ID}))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, StateHabits, m.state)
	assert.True(t, m.timers[h.ID].Snapshot().Running)

	m = update(t, m, habits.OpenHabitMsg{Habit: h})
	assert.True(t, m.focusModel.State.Running)
}

func TestDeleteHabitAsksFirst(t *testing.T) {
	m, manager, _ := setup(t)
	h, err := manager.AddHabit("Read", "")
	require.NoError(t, err)
	m.refresh()

	m = update(t, m, habits.DeleteHabitMsg{Habit: h})
	require.Equal(t, StateConfirmDelete, m.state)
	m = update(t, m, keyMsg("n"))
	assert.Equal(t, StateHabits, m.state)
	_, err = manager.GetHabit(h.ID)
	require.NoError(t, err)

	m = update(t, m, habits.DeleteHabitMsg{Habit: h})
	m = update(t, m, keyMsg("y"))
	assert.Equal(t, StateHabits, m.state)
	assert.Empty(t, m.habitList.Items())
	_, err = manager.GetHabit(h.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestHabitForm(t *testing.T) {
	m, manager, _ := setup(t)

	m.openHabitForm(nil)
	assert.Equal(t, StateAddHabit, m.state)
	m.habitForm.Title = "Read"
	m.habitForm.Description = "Twenty pages"
	require.NoError(t, m.saveHabitForm())

	items := m.habitList.Items()
	require.Len(t, items, 1)
	h := items[0].Habit
	assert.Equal(t, "Read", h.Title)

	m.openHabitForm(&h)
	assert.Equal(t, StateEditHabit, m.state)
	assert.Equal(t, "Read", m.habitForm.Title)
	m.habitForm.Title = "Read more"
	require.NoError(t, m.saveHabitForm())

	got, err := manager.GetHabit(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read more", got.Title)
	assert.Equal(t, "Twenty pages", got.Description)

	m.openHabitForm(nil)
	m.habitForm.Title = "  "
	assert.True(t, apperr.IsValidation(m.saveHabitForm()))
}

func TestNoteForm(t *testing.T) {
	m, manager, _ := setup(t)
	h, err := manager.AddHabit("Read", "")
	require.NoError(t, err)
	m.refresh()

	m = update(t, m, habits.OpenHabitMsg{Habit: h})
	m = update(t, m, focus.AddNoteMsg{Habit: h})
	require.Equal(t, StateAddNote, m.state)
	assert.Equal(t, StateFocus, m.previousState)

	m.noteForm.Text = "chapter 3"
	require.NoError(t, m.saveNoteForm())

	require.Len(t, m.focusModel.Notes, 1)
	assert.Equal(t, "chapter 3", m.focusModel.Notes[0].Text)
	assert.Len(t, m.summary.Notes, 1)

	m.noteHabit = models.Habit{ID: "missing"}
	m.noteForm.Text = "lost"
	assert.True(t, apperr.IsNotFound(m.saveNoteForm()))
}

func TestQuitClosesTimers(t *testing.T) {
	m, manager, _ := setup(t)
	h, err := manager.AddHabit("Read", "")
	require.NoError(t, err)
	m.refresh()

	m = update(t, m, habits.OpenHabitMsg{Habit: h})
	m = drain(t, update(t, m, focus.StartMsg{HabitID: h.ID}))

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.False(t, m.timers[h.ID].Snapshot().Running)
	assert.Equal(t, "", m.View())
}
