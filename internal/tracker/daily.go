package tracker

import (
	"time"

	"github.com/julianstephens/pomohabit/internal/aggregate"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/utils"
)

// HabitProgress pairs a habit with its progress for the day.
type HabitProgress struct {
	Habit    models.Habit
	Progress aggregate.Progress
}

// Dashboard is the daily overview across all habits.
type Dashboard struct {
	Day     time.Time
	Summary aggregate.Summary
	Habits  []HabitProgress
}

func (m *Manager) today() (time.Time, time.Time, time.Time) {
	now := m.Now()
	start, end := utils.DayBounds(now)
	return now, start, end
}

// TodaysSessions returns the habit's sessions started today.
func (m *Manager) TodaysSessions(habitID string) ([]models.Session, error) {
	now, start, end := m.today()
	sessions, err := m.store.GetSessionsForHabit(habitID, start, end)
	if err != nil {
		return nil, err
	}
	return aggregate.TodaysSessions(habitID, sessions, now), nil
}

// TodaysCompletedWorkSessions returns today's finished work sessions.
func (m *Manager) TodaysCompletedWorkSessions(habitID string) ([]models.Session, error) {
	now, start, end := m.today()
	sessions, err := m.store.GetSessionsForHabit(habitID, start, end)
	if err != nil {
		return nil, err
	}
	return aggregate.TodaysCompletedWorkSessions(habitID, sessions, now), nil
}

// TodaysNotes returns the habit's notes written today.
func (m *Manager) TodaysNotes(habitID string) ([]models.Note, error) {
	now, start, end := m.today()
	notes, err := m.store.GetNotesForHabit(habitID, start, end)
	if err != nil {
		return nil, err
	}
	return aggregate.TodaysNotes(habitID, notes, now), nil
}

// Progress returns the habit's progress toward today's target.
func (m *Manager) Progress(habitID string) (aggregate.Progress, error) {
	now, start, end := m.today()
	sessions, err := m.store.GetSessionsForHabit(habitID, start, end)
	if err != nil {
		return aggregate.Progress{}, err
	}
	return aggregate.ProgressFor(habitID, sessions, now), nil
}

// Dashboard builds today's overview across all habits.
func (m *Manager) Dashboard() (Dashboard, error) {
	now, start, end := m.today()

	habits, err := m.store.GetAllHabits()
	if err != nil {
		return Dashboard{}, err
	}
	sessions, err := m.store.GetSessionsInRange(start, end)
	if err != nil {
		return Dashboard{}, err
	}
	notes, err := m.store.GetNotesInRange(start, end)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Day:     start,
		Summary: aggregate.Summarize(habits, sessions, notes, now),
		Habits:  make([]HabitProgress, 0, len(habits)),
	}
	for _, h := range habits {
		d.Habits = append(d.Habits, HabitProgress{
			Habit:    h,
			Progress: aggregate.ProgressFor(h.ID, sessions, now),
		})
	}
	return d, nil
}
