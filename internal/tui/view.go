package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pomohabit/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.habitList.View())
	case StateFocus:
		content = m.focusModel.View()
	case StateAddHabit, StateEditHabit, StateAddNote:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	day := m.manager.Now().In(m.manager.Location()).Format(constants.DateFormat)
	summary := fmt.Sprintf("%s  %d pomodoros  %d habits worked  %d notes",
		day, m.summary.TotalPomodoros, m.summary.HabitsWorked, len(m.summary.Notes))
	return lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(constants.AppName),
		summaryStyle.Render(summary),
	)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-chromeHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q with all its sessions and notes?", m.habitToDelete.Title)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
