package storage

import (
	"time"

	"github.com/julianstephens/pomohabit/internal/models"
)

// Provider is the persistence gateway. Every write is committed before the
// call returns. Engine failures come back as *errors.StorageError and
// missing ids as *errors.NotFoundError.
//
// Range queries are half-open, [from, to), on the record's start or
// creation timestamp and return records in ascending timestamp order. A zero
// from or to leaves that side of the range open.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	// UpdateHabit changes title and description only.
	UpdateHabit(models.Habit) error
	// DeleteHabit removes the habit together with its sessions and notes in
	// one transaction.
	DeleteHabit(id string) error

	// Sessions
	AddSession(models.Session) error
	GetSession(id string) (models.Session, error)
	// CompleteSession sets the end timestamp. It fails with
	// errors.ErrAlreadyCompleted if the session already has one.
	CompleteSession(id string, end time.Time) error
	GetSessionsForHabit(habitID string, from, to time.Time) ([]models.Session, error)
	GetSessionsInRange(from, to time.Time) ([]models.Session, error)

	// Notes
	AddNote(models.Note) error
	GetNote(id string) (models.Note, error)
	GetNotesForHabit(habitID string, from, to time.Time) ([]models.Note, error)
	GetNotesInRange(from, to time.Time) ([]models.Note, error)

	// Utils
	GetConfigPath() string
}
