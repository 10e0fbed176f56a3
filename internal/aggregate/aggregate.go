// Package aggregate derives daily progress from snapshots of sessions and
// notes. All functions are pure; the calendar day is taken from now's
// location and a record belongs to the day its start or creation time falls in.
package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/pomohabit/internal/constants"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/utils"
)

// Progress is a habit's standing against the daily target.
type Progress struct {
	Completed int
	Target    int
	Ratio     float64
}

// String renders the progress as [●●○○] 2/4.
func (p Progress) String() string {
	filled := min(p.Completed, p.Target)
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("●", filled), strings.Repeat("○", p.Target-filled), p.Completed, p.Target)
}

// Summary is the cross-habit view of one day.
type Summary struct {
	TotalPomodoros int
	HabitsWorked   int
	// Notes holds the day's notes, newest first.
	Notes []models.Note
}

// TodaysSessions returns the habit's sessions that started today, in input order.
func TodaysSessions(habitID string, sessions []models.Session, now time.Time) []models.Session {
	start, end := utils.DayBounds(now)
	out := []models.Session{}
	for _, s := range sessions {
		if s.HabitID != habitID {
			continue
		}
		if !s.StartTime.Before(start) && s.StartTime.Before(end) {
			out = append(out, s)
		}
	}
	return out
}

// TodaysCompletedWorkSessions returns the subset of TodaysSessions that
// counts toward progress.
func TodaysCompletedWorkSessions(habitID string, sessions []models.Session, now time.Time) []models.Session {
	out := []models.Session{}
	for _, s := range TodaysSessions(habitID, sessions, now) {
		if s.CountsTowardProgress() {
			out = append(out, s)
		}
	}
	return out
}

// TodaysNotes returns the habit's notes created today, in input order.
func TodaysNotes(habitID string, notes []models.Note, now time.Time) []models.Note {
	start, end := utils.DayBounds(now)
	out := []models.Note{}
	for _, n := range notes {
		if n.HabitID != habitID {
			continue
		}
		if !n.CreatedAt.Before(start) && n.CreatedAt.Before(end) {
			out = append(out, n)
		}
	}
	return out
}

// CompletedCount counts the sessions that are completed work intervals.
func CompletedCount(sessions []models.Session) int {
	n := 0
	for _, s := range sessions {
		if s.CountsTowardProgress() {
			n++
		}
	}
	return n
}

// ProgressRatio returns completed/DailyTarget clamped to [0, 1].
func ProgressRatio(completed int) float64 {
	if completed <= 0 {
		return 0
	}
	if completed >= constants.DailyTarget {
		return 1
	}
	return float64(completed) / float64(constants.DailyTarget)
}

// ProgressFor returns the habit's completed work sessions today against the
// daily target.
func ProgressFor(habitID string, sessions []models.Session, now time.Time) Progress {
	completed := len(TodaysCompletedWorkSessions(habitID, sessions, now))
	return Progress{
		Completed: completed,
		Target:    constants.DailyTarget,
		Ratio:     ProgressRatio(completed),
	}
}

// Summarize builds the dashboard for the day of now. Sessions and notes of
// habits not in habits are ignored.
func Summarize(habits []models.Habit, sessions []models.Session, notes []models.Note, now time.Time) Summary {
	summary := Summary{Notes: []models.Note{}}
	for _, h := range habits {
		completed := len(TodaysCompletedWorkSessions(h.ID, sessions, now))
		summary.TotalPomodoros += completed
		if completed > 0 {
			summary.HabitsWorked++
		}
		summary.Notes = append(summary.Notes, TodaysNotes(h.ID, notes, now)...)
	}
	sort.SliceStable(summary.Notes, func(i, j int) bool {
		return summary.Notes[i].CreatedAt.After(summary.Notes[j].CreatedAt)
	})
	return summary
}
