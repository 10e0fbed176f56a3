package pomodoro

import (
	"fmt"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/constants"
	"github.com/julianstephens/pomohabit/internal/utils"
)

// dashboardNotes is how many of today's notes the dashboard lists.
const dashboardNotes = 3

type TodayCmd struct {
	AllNotes bool `help:"List every note from today." name:"all-notes"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	dash, err := m.Dashboard()
	if err != nil {
		return fmt.Errorf("failed to build dashboard: %w", err)
	}

	ctx.Printf("Today (%s)\n", utils.FormatDay(dash.Day))
	ctx.Printf("  Pomodoros:     %d\n", dash.Summary.TotalPomodoros)
	ctx.Printf("  Habits worked: %d of %d\n", dash.Summary.HabitsWorked, len(dash.Habits))

	if len(dash.Habits) > 0 {
		ctx.Println("\nProgress:")
		for _, hp := range dash.Habits {
			ctx.Printf("  %s %s\n", hp.Progress, hp.Habit.Title)
		}
	}

	notes := dash.Summary.Notes
	if !c.AllNotes && len(notes) > dashboardNotes {
		notes = notes[:dashboardNotes]
	}
	if len(notes) > 0 {
		titles := make(map[string]string, len(dash.Habits))
		for _, hp := range dash.Habits {
			titles[hp.Habit.ID] = hp.Habit.Title
		}
		ctx.Println("\nRecent notes:")
		for _, n := range notes {
			ctx.Printf("  %s  [%s] %s\n", n.CreatedAt.In(m.Location()).Format(constants.TimeFormat), titles[n.HabitID], n.Text)
		}
	}
	return nil
}
