package habits

import (
	"fmt"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/constants"
	"github.com/julianstephens/pomohabit/internal/timer"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Create a habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Change a habit's title or description."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit with its sessions and notes."`
	List   HabitListCmd   `cmd:"" help:"List habits with today's progress." default:"1"`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit with today's sessions and notes."`
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Description string `help:"Optional description." short:"d"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := m.AddHabit(c.Title, c.Description)
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	ctx.Printf("✓ Added habit %q (ID: %s)\n", habit.Title, habit.ID)
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit ID or exact title."`
	Title       string  `help:"New title." short:"t"`
	Description *string `help:"New description." short:"d"`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := m.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	title := habit.Title
	if c.Title != "" {
		title = c.Title
	}
	description := habit.Description
	if c.Description != nil {
		description = *c.Description
	}

	updated, err := m.UpdateHabit(habit.ID, title, description)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	ctx.Printf("✓ Updated habit %q\n", updated.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or exact title."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := m.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q and all of its sessions and notes?", habit.Title))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup("habit delete")
	if err := m.DeleteHabit(habit.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	ctx.Printf("✓ Deleted habit %q\n", habit.Title)
	return nil
}

type HabitListCmd struct {
	ShowIDs bool `help:"Show habit IDs." name:"show-ids"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	dash, err := m.Dashboard()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	if len(dash.Habits) == 0 {
		ctx.Println("No habits yet. Add one with 'pomohabit habit add TITLE'.")
		return nil
	}

	ctx.Println("Habits:")
	for _, hp := range dash.Habits {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", hp.Habit.ID)
		}
		ctx.Printf("  %s %s%s\n", hp.Progress, hp.Habit.Title, idStr)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit ID or exact title."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := m.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	progress, err := m.Progress(habit.ID)
	if err != nil {
		return err
	}
	sessions, err := m.TodaysSessions(habit.ID)
	if err != nil {
		return err
	}
	notes, err := m.TodaysNotes(habit.ID)
	if err != nil {
		return err
	}

	ctx.Printf("%s\n", habit.Title)
	if habit.Description != "" {
		ctx.Printf("  %s\n", habit.Description)
	}
	ctx.Printf("  ID:      %s\n", habit.ID)
	ctx.Printf("  Created: %s\n", habit.CreatedAt.In(m.Location()).Format(constants.DateFormat+" "+constants.TimeFormat))
	ctx.Printf("  Today:   %s\n", progress)

	if len(sessions) > 0 {
		ctx.Println("\nSessions today:")
		for _, s := range sessions {
			kind := timer.Work
			if s.IsBreak {
				kind = timer.Break
			}
			status := "open"
			if s.Completed() {
				status = timer.FormatRemaining(int(s.Duration().Seconds()))
			}
			ctx.Printf("  %s  %-5s  %s\n", s.StartTime.In(m.Location()).Format(constants.TimeFormat), kind, status)
		}
	}
	if len(notes) > 0 {
		ctx.Println("\nNotes today:")
		for _, n := range notes {
			ctx.Printf("  %s  %s\n", n.CreatedAt.In(m.Location()).Format(constants.TimeFormat), n.Text)
		}
	}
	return nil
}
