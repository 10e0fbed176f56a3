package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pomohabit/internal/timer"
	"github.com/julianstephens/pomohabit/internal/tui/components/focus"
	"github.com/julianstephens/pomohabit/internal/tui/components/habits"
)

// chromeHeight is the rows taken by the header, status line and help.
const chromeHeight = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Timer events must be handled in every state or the event loop stops.
	switch msg := msg.(type) {
	case timerEventMsg:
		m.handleTimerEvent(msg)
		return m, m.bus.wait()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := docStyle.GetFrameSize()
		m.habitList.SetSize(msg.Width-h, msg.Height-chromeHeight-v)
		m.focusModel.SetSize(msg.Width, msg.Height-chromeHeight)
		m.help.Width = msg.Width
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - h)
		}
		return m, nil
	}

	switch m.state {
	case StateAddHabit, StateEditHabit:
		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
			m.state = m.previousState
			return m, nil
		}
		cmds = append(cmds, m.updateForm(msg))
		switch m.form.State {
		case huh.StateCompleted:
			if err := m.saveHabitForm(); err != nil {
				m.err = err
			}
			m.state = m.previousState
		case huh.StateAborted:
			m.state = m.previousState
		}
		return m, tea.Batch(cmds...)

	case StateAddNote:
		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
			m.state = m.previousState
			return m, nil
		}
		cmds = append(cmds, m.updateForm(msg))
		switch m.form.State {
		case huh.StateCompleted:
			if err := m.saveNoteForm(); err != nil {
				m.err = err
			}
			m.state = m.previousState
		case huh.StateAborted:
			m.state = m.previousState
		}
		return m, tea.Batch(cmds...)

	case StateConfirmDelete:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.keys.Confirm):
				if err := m.deleteHabit(m.habitToDelete); err != nil {
					m.err = err
				}
				m.state = StateHabits
			case key.Matches(msg, m.keys.Cancel):
				m.state = StateHabits
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		return m, m.openHabitForm(nil)
	case habits.EditHabitMsg:
		h := msg.Habit
		return m, m.openHabitForm(&h)
	case habits.DeleteHabitMsg:
		m.habitToDelete = msg.Habit
		m.state = StateConfirmDelete
		return m, nil
	case habits.AddNoteMsg:
		return m, m.openNoteForm(msg.Habit)
	case habits.OpenHabitMsg:
		m.openFocus(msg.Habit)
		return m, nil

	case focus.StartMsg:
		if err := m.timerFor(msg.HabitID).Start(msg.HabitID); err != nil {
			m.err = err
		}
		return m, nil
	case focus.PauseMsg:
		m.timerFor(msg.HabitID).Pause()
		return m, nil
	case focus.StopMsg:
		if err := m.timerFor(msg.HabitID).Stop(); err != nil {
			m.err = err
		}
		return m, nil
	case focus.AddNoteMsg:
		return m, m.openNoteForm(msg.Habit)

	case tea.KeyMsg:
		filtering := m.state == StateHabits && m.habitList.Filtering()
		if !filtering {
			m.err = nil
			m.status = ""
			switch {
			case msg.Type == tea.KeyCtrlC || key.Matches(msg, m.keys.Quit):
				m.shutdown()
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(msg, m.keys.Back) && m.state == StateFocus:
				m.state = StateHabits
				m.refresh()
				return m, nil
			}
		} else if msg.Type == tea.KeyCtrlC {
			m.shutdown()
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateFocus:
		m.focusModel, cmd = m.focusModel.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return cmd
}

func (m *Model) handleTimerEvent(msg timerEventMsg) {
	ev := msg.event
	if m.focusModel.Habit.ID == msg.habitID {
		m.focusModel.State = ev.State
	}

	switch ev.Kind {
	case timer.Completed, timer.Stopped:
		m.refresh()
		if ev.Kind == timer.Completed {
			m.status = "Finished " + ev.Finished.String() + " interval"
		}
	case timer.Failed:
		m.err = ev.Err
		m.refresh()
	default:
		m.syncStatuses()
	}
}
