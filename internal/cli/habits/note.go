package habits

import (
	"fmt"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/constants"
)

type NoteCmd struct {
	Add  NoteAddCmd  `cmd:"" help:"Attach a note to a habit."`
	List NoteListCmd `cmd:"" help:"List a habit's notes."`
}

type NoteAddCmd struct {
	Habit string `arg:"" help:"Habit ID or exact title."`
	Text  string `arg:"" help:"Note text."`
}

func (c *NoteAddCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := m.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if _, err := m.AddNote(habit.ID, c.Text); err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	ctx.Printf("✓ Note added to %q\n", habit.Title)
	return nil
}

type NoteListCmd struct {
	Habit string `arg:"" help:"Habit ID or exact title."`
	Today bool   `help:"Only show today's notes."`
}

func (c *NoteListCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := m.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	notes, err := m.Notes(habit.ID)
	if c.Today {
		notes, err = m.TodaysNotes(habit.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get notes: %w", err)
	}
	if len(notes) == 0 {
		ctx.Println("No notes found")
		return nil
	}

	ctx.Printf("Notes for %s:\n", habit.Title)
	for _, n := range notes {
		ctx.Printf("  %s  %s\n", n.CreatedAt.In(m.Location()).Format(constants.DateFormat+" "+constants.TimeFormat), n.Text)
	}
	return nil
}
