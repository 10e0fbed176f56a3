package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pomohabit/internal/logger"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/timer"
	"github.com/julianstephens/pomohabit/internal/tui/components/focus"
	"github.com/julianstephens/pomohabit/internal/tui/components/habits"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// openHabitForm shows the add form, or the edit form when h is set.
func (m *Model) openHabitForm(h *models.Habit) tea.Cmd {
	m.previousState = m.state
	m.habitForm = &HabitFormModel{}
	m.editingHabit = h
	m.state = StateAddHabit
	label := "New habit"
	if h != nil {
		m.habitForm.Title = h.Title
		m.habitForm.Description = h.Description
		m.state = StateEditHabit
		label = "Edit habit"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(label).
				Placeholder("Title").
				Value(&m.habitForm.Title).
				Validate(required("title")),
			huh.NewText().
				Title("Description").
				Value(&m.habitForm.Description),
		),
	)
	if m.width > 0 {
		w, _ := docStyle.GetFrameSize()
		m.form = m.form.WithWidth(m.width - w)
	}
	return m.form.Init()
}

func (m *Model) saveHabitForm() error {
	if m.editingHabit == nil {
		h, err := m.manager.AddHabit(m.habitForm.Title, m.habitForm.Description)
		if err != nil {
			return err
		}
		m.status = "Added " + h.Title
	} else {
		h, err := m.manager.UpdateHabit(m.editingHabit.ID, m.habitForm.Title, m.habitForm.Description)
		if err != nil {
			return err
		}
		if m.focusModel.Habit.ID == h.ID {
			m.focusModel.Habit = h
		}
		m.status = "Updated " + h.Title
	}
	m.refresh()
	return nil
}

func (m *Model) openNoteForm(h models.Habit) tea.Cmd {
	m.previousState = m.state
	m.noteForm = &NoteFormModel{}
	m.noteHabit = h
	m.state = StateAddNote

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note for " + h.Title).
				Value(&m.noteForm.Text).
				Validate(required("note")),
		),
	)
	if m.width > 0 {
		w, _ := docStyle.GetFrameSize()
		m.form = m.form.WithWidth(m.width - w)
	}
	return m.form.Init()
}

func (m *Model) saveNoteForm() error {
	if _, err := m.manager.AddNote(m.noteHabit.ID, m.noteForm.Text); err != nil {
		return err
	}
	m.status = "Note added to " + m.noteHabit.Title
	m.refresh()
	return nil
}

func (m *Model) deleteHabit(h models.Habit) error {
	if t, ok := m.timers[h.ID]; ok {
		t.Close()
		delete(m.timers, h.ID)
	}
	if err := m.manager.DeleteHabit(h.ID); err != nil {
		return err
	}
	if m.focusModel.Habit.ID == h.ID {
		m.focusModel = focus.Model{}
	}
	m.status = "Deleted " + h.Title
	m.refresh()
	return nil
}

func (m *Model) openFocus(h models.Habit) {
	fm := focus.New(h)
	fm.State = m.timerFor(h.ID).Snapshot()
	fm.SetSize(m.width, m.height-chromeHeight)
	m.focusModel = fm
	m.state = StateFocus
	m.refreshFocus()
}

// timerFor returns the habit's timer, creating and subscribing it on first use.
func (m *Model) timerFor(habitID string) *timer.Timer {
	if t, ok := m.timers[habitID]; ok {
		return t
	}
	t := m.newTimer()
	t.Subscribe(m.bus.listener(habitID))
	if m.notifier != nil {
		title := habitID
		if h, err := m.manager.GetHabit(habitID); err == nil {
			title = h.Title
		}
		t.Subscribe(m.notifier.Listener(title))
	}
	m.timers[habitID] = t
	return t
}

// shutdown stops every timer. Open intervals are left unfinished.
func (m *Model) shutdown() {
	for id, t := range m.timers {
		if s := t.Snapshot(); s.SessionID != "" {
			logger.Info("Leaving interval unfinished", "habit_id", id, "session_id", s.SessionID)
		}
		t.Close()
	}
	m.bus.close()
}

// refresh reloads the dashboard and the focused habit from the store.
func (m *Model) refresh() {
	dash, err := m.manager.Dashboard()
	if err != nil {
		m.err = err
		return
	}
	m.summary = dash.Summary

	items := make([]habits.Item, len(dash.Habits))
	for i, hp := range dash.Habits {
		items[i] = habits.Item{
			Habit:    hp.Habit,
			Progress: hp.Progress,
			Status:   m.timerStatus(hp.Habit.ID),
		}
	}
	m.habitList.SetItems(items)

	if m.focusModel.Habit.ID != "" {
		m.refreshFocus()
	}
}

func (m *Model) refreshFocus() {
	id := m.focusModel.Habit.ID
	progress, err := m.manager.Progress(id)
	if err != nil {
		m.err = err
		return
	}
	notes, err := m.manager.TodaysNotes(id)
	if err != nil {
		m.err = err
		return
	}
	loc := m.manager.Location()
	newest := make([]models.Note, len(notes))
	for i, n := range notes {
		n.CreatedAt = n.CreatedAt.In(loc)
		newest[len(notes)-1-i] = n
	}
	m.focusModel.Progress = progress
	m.focusModel.Notes = newest
}

// syncStatuses updates the list's timer column without touching the store.
func (m *Model) syncStatuses() {
	items := m.habitList.Items()
	for i := range items {
		items[i].Status = m.timerStatus(items[i].Habit.ID)
	}
	m.habitList.SetItems(items)
}

func (m *Model) timerStatus(habitID string) string {
	t, ok := m.timers[habitID]
	if !ok {
		return ""
	}
	s := t.Snapshot()
	switch {
	case s.Running:
		return "▶ " + s.Mode.String() + " " + timer.FormatRemaining(s.RemainingSeconds())
	case s.Paused():
		return "⏸ " + s.Mode.String() + " " + timer.FormatRemaining(s.RemainingSeconds())
	}
	return ""
}
