// Package tracker manages habits and notes and answers the daily progress
// queries against the store.
package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/logger"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/storage"
	"github.com/julianstephens/pomohabit/internal/validation"
)

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.clock = now }
}

// WithLocation sets the timezone that decides the calendar day.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) { m.loc = loc }
}

// Manager validates habit and note changes and writes them to the store.
type Manager struct {
	store storage.Provider
	clock func() time.Time
	loc   *time.Location
}

// New returns a Manager over store using the local clock and timezone.
func New(store storage.Provider, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		clock: time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the current time in the manager's location.
func (m *Manager) Now() time.Time {
	return m.clock().In(m.loc)
}

// Location returns the timezone that decides the calendar day.
func (m *Manager) Location() *time.Location {
	return m.loc
}

// AddHabit validates and stores a new habit.
func (m *Manager) AddHabit(title, description string) (models.Habit, error) {
	in := validation.HabitInput{Title: title, Description: description}
	if err := validation.Habit(&in); err != nil {
		return models.Habit{}, err
	}

	habit := models.Habit{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   m.Now(),
	}
	if err := m.store.AddHabit(habit); err != nil {
		return models.Habit{}, err
	}
	logger.Debug("Habit created", "id", habit.ID, "title", habit.Title)
	return habit, nil
}

// UpdateHabit changes a habit's title and description.
func (m *Manager) UpdateHabit(id, title, description string) (models.Habit, error) {
	in := validation.HabitInput{Title: title, Description: description}
	if err := validation.Habit(&in); err != nil {
		return models.Habit{}, err
	}

	habit, err := m.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}
	habit.Title = in.Title
	habit.Description = in.Description
	if err := m.store.UpdateHabit(habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// DeleteHabit removes the habit with its sessions and notes in one store
// transaction. Nothing is removed if the delete fails.
func (m *Manager) DeleteHabit(id string) error {
	if _, err := m.store.GetHabit(id); err != nil {
		return err
	}

	sessions, err := m.store.GetSessionsForHabit(id, time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	notes, err := m.store.GetNotesForHabit(id, time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	if err := m.store.DeleteHabit(id); err != nil {
		return err
	}

	logger.Info("Habit deleted", "id", id, "sessions", len(sessions), "notes", len(notes))
	return nil
}

func (m *Manager) GetHabit(id string) (models.Habit, error) {
	return m.store.GetHabit(id)
}

// ListHabits returns every habit, oldest first.
func (m *Manager) ListHabits() ([]models.Habit, error) {
	return m.store.GetAllHabits()
}

// ResolveHabit finds a habit by id, falling back to an exact title match.
func (m *Manager) ResolveHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	habit, err := m.store.GetHabit(ref)
	if err == nil {
		return habit, nil
	}
	if !apperr.IsNotFound(err) {
		return models.Habit{}, err
	}

	habits, err := m.store.GetAllHabits()
	if err != nil {
		return models.Habit{}, err
	}
	var matches []models.Habit
	for _, h := range habits {
		if h.Title == ref {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, apperr.NewNotFound(models.KindHabit, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are titled %q; use the id", len(matches), ref)
	}
}

// AddNote attaches a note to an existing habit.
func (m *Manager) AddNote(habitID, text string) (models.Note, error) {
	in := validation.NoteInput{HabitID: habitID, Text: text}
	if err := validation.Note(&in); err != nil {
		return models.Note{}, err
	}
	if _, err := m.store.GetHabit(in.HabitID); err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		ID:        uuid.New().String(),
		HabitID:   in.HabitID,
		Text:      in.Text,
		CreatedAt: m.Now(),
	}
	if err := m.store.AddNote(note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// Notes returns every note of the habit, oldest first.
func (m *Manager) Notes(habitID string) ([]models.Note, error) {
	return m.store.GetNotesForHabit(habitID, time.Time{}, time.Time{})
}
