package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/models"
)

const sessionColumns = "id, habit_id, start_time, end_time, is_break"

func (s *Store) AddSession(session models.Session) error {
	var endTime sql.NullString
	if session.EndTime != nil {
		endTime = sql.NullString{String: formatTime(*session.EndTime), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, habit_id, start_time, end_time, is_break)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.HabitID, formatTime(session.StartTime), endTime, session.IsBreak)
	return apperr.NewStorage("add session", err)
}

func scanSession(row scanner) (models.Session, error) {
	var sess models.Session
	var startTime string
	var endTime sql.NullString

	if err := row.Scan(&sess.ID, &sess.HabitID, &startTime, &endTime, &sess.IsBreak); err != nil {
		return models.Session{}, err
	}

	t, err := parseTime(startTime)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to parse start_time for session %s: %w", sess.ID, err)
	}
	sess.StartTime = t
	if endTime.Valid {
		end, err := parseTime(endTime.String)
		if err != nil {
			return models.Session{}, fmt.Errorf("failed to parse end_time for session %s: %w", sess.ID, err)
		}
		sess.EndTime = &end
	}
	return sess, nil
}

func (s *Store) GetSession(id string) (models.Session, error) {
	row := s.db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, apperr.NewNotFound(models.KindSession, id)
	}
	if err != nil {
		return models.Session{}, apperr.NewStorage("get session", err)
	}
	return sess, nil
}

func (s *Store) CompleteSession(id string, end time.Time) error {
	result, err := s.db.Exec(`
		UPDATE sessions SET end_time = ? WHERE id = ? AND end_time IS NULL`,
		formatTime(end), id)
	if err != nil {
		return apperr.NewStorage("complete session", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.NewStorage("complete session", err)
	}
	if rows == 1 {
		return nil
	}

	if _, err := s.GetSession(id); err != nil {
		return err
	}
	return apperr.ErrAlreadyCompleted
}

func (s *Store) querySessions(op, where string, args []interface{}) ([]models.Session, error) {
	rows, err := s.db.Query("SELECT "+sessionColumns+" FROM sessions WHERE 1=1"+where+" ORDER BY start_time, id", args...)
	if err != nil {
		return nil, apperr.NewStorage(op, err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, apperr.NewStorage(op, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewStorage(op, err)
	}
	return sessions, nil
}

func (s *Store) GetSessionsForHabit(habitID string, from, to time.Time) ([]models.Session, error) {
	where, args := rangeClause("start_time", from, to, []interface{}{habitID})
	return s.querySessions("list habit sessions", " AND habit_id = ?"+where, args)
}

func (s *Store) GetSessionsInRange(from, to time.Time) ([]models.Session, error) {
	where, args := rangeClause("start_time", from, to, nil)
	return s.querySessions("list sessions", where, args)
}
