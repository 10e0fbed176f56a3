package postgres

import (
	"database/sql"
	"errors"
	"time"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/models"
)

const noteColumns = "id, habit_id, text, created_at"

func (s *Store) AddNote(note models.Note) error {
	_, err := s.db.Exec(`
		INSERT INTO notes (id, habit_id, text, created_at)
		VALUES ($1, $2, $3, $4)`,
		note.ID, note.HabitID, note.Text, note.CreatedAt)
	return wrap("add note", err)
}

func scanNote(row scanner) (models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.HabitID, &n.Text, &n.CreatedAt)
	return n, err
}

func (s *Store) GetNote(id string) (models.Note, error) {
	row := s.db.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = $1", id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, apperr.NewNotFound(models.KindNote, id)
	}
	if err != nil {
		return models.Note{}, wrap("get note", err)
	}
	return n, nil
}

func (s *Store) queryNotes(op, where string, args []interface{}) ([]models.Note, error) {
	rows, err := s.db.Query("SELECT "+noteColumns+" FROM notes WHERE TRUE"+where+" ORDER BY created_at, id", args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return notes, nil
}

func (s *Store) GetNotesForHabit(habitID string, from, to time.Time) ([]models.Note, error) {
	where, args := rangeClause("created_at", from, to, []interface{}{habitID})
	return s.queryNotes("list habit notes", " AND habit_id = $1"+where, args)
}

func (s *Store) GetNotesInRange(from, to time.Time) ([]models.Note, error) {
	where, args := rangeClause("created_at", from, to, nil)
	return s.queryNotes("list notes", where, args)
}
