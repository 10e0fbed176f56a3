// Package timer implements the work/break interval state machine. Each
// interval is persisted as a session when it starts and closed when it
// completes or is stopped.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pomohabit/internal/constants"
	"github.com/julianstephens/pomohabit/internal/logger"
	"github.com/julianstephens/pomohabit/internal/models"
)

// SessionStore is the slice of the storage provider the timer writes to.
type SessionStore interface {
	AddSession(session models.Session) error
	CompleteSession(id string, end time.Time) error
}

// State is a point-in-time copy of the timer.
type State struct {
	Mode      Mode
	Remaining time.Duration
	Running   bool
	SessionID string
	HabitID   string
}

// RemainingSeconds returns Remaining truncated to whole seconds.
func (s State) RemainingSeconds() int {
	return int(s.Remaining / time.Second)
}

// Paused reports whether an interval is open but not counting down.
func (s State) Paused() bool {
	return !s.Running && s.SessionID != "" && s.Remaining > 0
}

// EventKind identifies the transition an Event reports.
type EventKind int

const (
	Started EventKind = iota
	Ticked
	Paused
	Stopped
	Completed
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Ticked:
		return "ticked"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to subscribers after every state change. For
// Completed, State.Mode is already the next mode and Finished is the mode
// that just ended. Err is set only for Failed.
type Event struct {
	Kind     EventKind
	State    State
	Finished Mode
	Err      error
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock sets the time source for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithScheduler replaces the default one-second TickerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(t *Timer) { t.scheduler = s }
}

// WithMode sets the mode of the first interval.
func WithMode(m Mode) Option {
	return func(t *Timer) {
		t.state.Mode = m
		t.state.Remaining = Duration(m)
	}
}

// WithIDGenerator sets how session ids are generated.
func WithIDGenerator(gen func() string) Option {
	return func(t *Timer) { t.newID = gen }
}

// Timer runs one interval at a time and records each as a session. It is
// safe for concurrent use.
type Timer struct {
	store     SessionStore
	scheduler Scheduler
	now       func() time.Time
	newID     func() string

	mu        sync.Mutex
	state     State
	epoch     uint64
	listeners []listener
	nextSub   int
}

type listener struct {
	id int
	fn func(Event)
}

// New returns an idle timer in work mode with a full work interval remaining.
func New(store SessionStore, opts ...Option) *Timer {
	t := &Timer{
		store:     store,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		state: State{
			Mode:      Work,
			Remaining: Duration(Work),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.scheduler == nil {
		t.scheduler = NewTickerScheduler(constants.TickInterval)
	}
	return t
}

// Snapshot returns a copy of the current state.
func (t *Timer) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe registers fn for every subsequent event. Listeners run in
// subscription order. The returned func removes fn.
func (t *Timer) Subscribe(fn func(Event)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	t.listeners = append(t.listeners, listener{id: id, fn: fn})
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Start begins a new interval for habitID in the current mode. It is a
// no-op while running. A paused interval is abandoned: its session stays
// open and a fresh one is created.
func (t *Timer) Start(habitID string) error {
	t.mu.Lock()
	if t.state.Running {
		t.mu.Unlock()
		return nil
	}

	start := t.now()
	session := models.Session{
		ID:        t.newID(),
		HabitID:   habitID,
		StartTime: start,
		IsBreak:   t.state.Mode == Break,
	}
	if err := t.store.AddSession(session); err != nil {
		t.mu.Unlock()
		logger.Error("Failed to start interval", "habit", habitID, "mode", t.state.Mode, "error", err)
		return err
	}

	if t.state.SessionID != "" {
		logger.Warn("Abandoning open interval", "session", t.state.SessionID, "habit", t.state.HabitID)
	}

	t.state.Remaining = Duration(t.state.Mode)
	t.state.Running = true
	t.state.SessionID = session.ID
	t.state.HabitID = habitID
	t.schedule()

	logger.Debug("Interval started", "session", session.ID, "habit", habitID, "mode", t.state.Mode)
	t.emitLocked(Event{Kind: Started, State: t.state})
	return nil
}

// Tick advances the countdown by one second. It is a no-op unless running.
func (t *Timer) Tick() error {
	t.mu.Lock()
	return t.tickLocked()
}

func (t *Timer) scheduledTick(epoch uint64) {
	t.mu.Lock()
	if epoch != t.epoch {
		t.mu.Unlock()
		return
	}
	if err := t.tickLocked(); err != nil {
		logger.Error("Scheduled tick failed", "error", err)
	}
}

// tickLocked is entered with t.mu held and releases it.
func (t *Timer) tickLocked() error {
	if !t.state.Running {
		t.mu.Unlock()
		return nil
	}

	t.state.Remaining -= time.Second
	if t.state.Remaining > 0 {
		t.emitLocked(Event{Kind: Ticked, State: t.state})
		return nil
	}
	t.state.Remaining = 0
	return t.completeLocked()
}

// completeLocked is entered with t.mu held and releases it.
func (t *Timer) completeLocked() error {
	t.cancel()
	t.state.Running = false

	if err := t.store.CompleteSession(t.state.SessionID, t.now()); err != nil {
		logger.Error("Failed to complete interval", "session", t.state.SessionID, "error", err)
		t.emitLocked(Event{Kind: Failed, State: t.state, Err: err})
		return err
	}

	finished := t.state.Mode
	logger.Info("Interval completed", "session", t.state.SessionID, "habit", t.state.HabitID, "mode", finished)

	t.state.SessionID = ""
	t.state.Mode = finished.Next()
	t.state.Remaining = Duration(t.state.Mode)
	t.emitLocked(Event{Kind: Completed, State: t.state, Finished: finished})
	return nil
}

// Pause stops the countdown, keeping the remaining time and the open
// session. It is a no-op unless running.
func (t *Timer) Pause() {
	t.mu.Lock()
	if !t.state.Running {
		t.mu.Unlock()
		return
	}
	t.cancel()
	t.state.Running = false

	logger.Debug("Interval paused", "session", t.state.SessionID, "remaining", t.state.Remaining)
	t.emitLocked(Event{Kind: Paused, State: t.state})
}

// Stop ends the current interval early. The session is closed, the mode is
// kept and the countdown resets to the mode's full length. It is a no-op
// without an open session.
func (t *Timer) Stop() error {
	t.mu.Lock()
	if t.state.SessionID == "" {
		t.mu.Unlock()
		return nil
	}

	if err := t.store.CompleteSession(t.state.SessionID, t.now()); err != nil {
		t.mu.Unlock()
		logger.Error("Failed to stop interval", "session", t.state.SessionID, "error", err)
		return err
	}

	t.cancel()
	logger.Debug("Interval stopped", "session", t.state.SessionID, "mode", t.state.Mode)

	t.state.SessionID = ""
	t.state.Running = false
	t.state.Remaining = Duration(t.state.Mode)
	t.emitLocked(Event{Kind: Stopped, State: t.state})
	return nil
}

// Close cancels pending ticks and drops subscribers. An open session is
// left unresolved.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancel()
	t.state.Running = false
	t.listeners = nil
}

func (t *Timer) schedule() {
	t.epoch++
	epoch := t.epoch
	t.scheduler.Start(func() { t.scheduledTick(epoch) })
}

func (t *Timer) cancel() {
	t.epoch++
	t.scheduler.Stop()
}

// emitLocked releases t.mu and then delivers ev to every subscriber.
func (t *Timer) emitLocked(ev Event) {
	listeners := make([]func(Event), len(t.listeners))
	for i, l := range t.listeners {
		listeners[i] = l.fn
	}
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
