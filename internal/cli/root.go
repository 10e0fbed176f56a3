package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/pomohabit/internal/backup"
	"github.com/julianstephens/pomohabit/internal/logger"
	"github.com/julianstephens/pomohabit/internal/notifier"
	"github.com/julianstephens/pomohabit/internal/storage"
	"github.com/julianstephens/pomohabit/internal/timer"
	"github.com/julianstephens/pomohabit/internal/tracker"
	"github.com/julianstephens/pomohabit/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Notify bool

	// Out and In default to the process's stdout and stdin.
	Out io.Writer
	In  io.Reader

	// Clock and TimerOptions are test seams for the tracker and timers
	// built from this context.
	Clock        func() time.Time
	TimerOptions []timer.Option

	manager  *tracker.Manager
	notifier *notifier.Notifier
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// Confirm asks a yes/no question on In and reports a yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// Tracker returns the habit manager, configured with the timezone stored in
// settings. The store must be loaded.
func (c *Context) Tracker() (*tracker.Manager, error) {
	if c.manager != nil {
		return c.manager, nil
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	loc, err := utils.LocationFromSettings(settings)
	if err != nil {
		return nil, err
	}

	opts := []tracker.Option{tracker.WithLocation(loc)}
	if c.Clock != nil {
		opts = append(opts, tracker.WithClock(c.Clock))
	}
	c.manager = tracker.New(c.Store, opts...)
	return c.manager, nil
}

// NewTimer builds an interval timer writing to the store.
func (c *Context) NewTimer(extra ...timer.Option) *timer.Timer {
	opts := append([]timer.Option{}, c.TimerOptions...)
	if c.Clock != nil {
		opts = append(opts, timer.WithClock(c.Clock))
	}
	return timer.New(c.Store, append(opts, extra...)...)
}

// Notifier returns the desktop notifier, or nil when notifications are off.
func (c *Context) Notifier() *notifier.Notifier {
	if !c.Notify {
		return nil
	}
	if c.notifier == nil {
		c.notifier = notifier.New()
	}
	return c.notifier
}

// PerformAutomaticBackup snapshots a SQLite database before a destructive
// command. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup(reason string) {
	if storage.IsPostgres(c.Store.GetConfigPath()) {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Auto(reason); err != nil {
		logger.Warn("Automatic backup failed", "reason", reason, "error", err)
	}
}
