package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/models"
)

const noteColumns = "id, habit_id, text, created_at"

func (s *Store) AddNote(note models.Note) error {
	_, err := s.db.Exec(`
		INSERT INTO notes (id, habit_id, text, created_at)
		VALUES (?, ?, ?, ?)`,
		note.ID, note.HabitID, note.Text, formatTime(note.CreatedAt))
	return apperr.NewStorage("add note", err)
}

func scanNote(row scanner) (models.Note, error) {
	var n models.Note
	var createdAt string
	if err := row.Scan(&n.ID, &n.HabitID, &n.Text, &createdAt); err != nil {
		return models.Note{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return models.Note{}, fmt.Errorf("failed to parse created_at for note %s: %w", n.ID, err)
	}
	n.CreatedAt = t
	return n, nil
}

func (s *Store) GetNote(id string) (models.Note, error) {
	row := s.db.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, apperr.NewNotFound(models.KindNote, id)
	}
	if err != nil {
		return models.Note{}, apperr.NewStorage("get note", err)
	}
	return n, nil
}

func (s *Store) queryNotes(op, where string, args []interface{}) ([]models.Note, error) {
	rows, err := s.db.Query("SELECT "+noteColumns+" FROM notes WHERE 1=1"+where+" ORDER BY created_at, id", args...)
	if err != nil {
		return nil, apperr.NewStorage(op, err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, apperr.NewStorage(op, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewStorage(op, err)
	}
	return notes, nil
}

func (s *Store) GetNotesForHabit(habitID string, from, to time.Time) ([]models.Note, error) {
	where, args := rangeClause("created_at", from, to, []interface{}{habitID})
	return s.queryNotes("list habit notes", " AND habit_id = ?"+where, args)
}

func (s *Store) GetNotesInRange(from, to time.Time) ([]models.Note, error) {
	where, args := rangeClause("created_at", from, to, nil)
	return s.queryNotes("list notes", where, args)
}
