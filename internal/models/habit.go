package models

import "time"

// Habit is a user-tracked recurring activity. It owns its sessions and notes.
type Habit struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session is one timed work or break interval. A nil EndTime means the
// interval is still running, paused or was abandoned.
type Session struct {
	ID        string     `json:"id"`
	HabitID   string     `json:"habit_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	IsBreak   bool       `json:"is_break"`
}

// Completed reports whether the session has an end timestamp.
func (s Session) Completed() bool {
	return s.EndTime != nil
}

// CountsTowardProgress reports whether the session is a completed work interval.
func (s Session) CountsTowardProgress() bool {
	return s.Completed() && !s.IsBreak
}

// Duration returns the elapsed time between start and end, or zero for an open session.
func (s Session) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Note is a free-text annotation attached to a habit. Notes are immutable.
type Note struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Record kinds, used in not-found errors.
const (
	KindHabit    = "habit"
	KindSession  = "session"
	KindNote     = "note"
	KindSettings = "settings"
)
