package pomodoro

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/timer"
)

var errInterrupted = errors.New("interrupted")

type FocusCmd struct {
	Habit string `arg:"" help:"Habit ID or exact title."`
	Break bool   `help:"Run a break interval instead of a work interval."`
	Quiet bool   `help:"Do not print the countdown." short:"q"`
}

// Run counts one interval down in the foreground. Ctrl-C stops the interval
// early and closes its session.
func (c *FocusCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := m.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	mode := timer.Work
	if c.Break {
		mode = timer.Break
	}
	t := ctx.NewTimer(timer.WithMode(mode))
	defer t.Close()

	// The notifier goes first so the notification is sent before Run returns.
	if n := ctx.Notifier(); n != nil {
		t.Subscribe(n.Listener(habit.Title))
	}

	done := make(chan timer.Event, 1)
	t.Subscribe(func(ev timer.Event) {
		switch ev.Kind {
		case timer.Ticked:
			if !c.Quiet {
				ctx.Printf("\r%s %s ", ev.State.Mode, timer.FormatRemaining(ev.State.RemainingSeconds()))
			}
		case timer.Completed, timer.Failed:
			select {
			case done <- ev:
			default:
			}
		}
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := t.Start(habit.ID); err != nil {
		return fmt.Errorf("failed to start interval: %w", err)
	}
	ctx.Printf("%s interval for %s (%s). Press Ctrl-C to stop.\n", mode, habit.Title, timer.FormatRemaining(int(timer.Duration(mode).Seconds())))

	ev, err := wait(sigCtx, done)
	if !c.Quiet {
		ctx.Println()
	}
	if errors.Is(err, errInterrupted) {
		if err := t.Stop(); err != nil {
			return fmt.Errorf("failed to stop interval: %w", err)
		}
		ctx.Println("Interval stopped.")
		return nil
	}
	if ev.Kind == timer.Failed {
		return fmt.Errorf("failed to record interval: %w", ev.Err)
	}

	ctx.Printf("✓ %s interval complete.\n", ev.Finished)
	progress, err := m.Progress(habit.ID)
	if err != nil {
		return err
	}
	ctx.Printf("  Today: %s\n", progress)
	return nil
}

func wait(ctx context.Context, done <-chan timer.Event) (timer.Event, error) {
	select {
	case ev := <-done:
		return ev, nil
	case <-ctx.Done():
		return timer.Event{}, errInterrupted
	}
}
