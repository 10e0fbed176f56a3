package postgres

import (
	"database/sql"
	"errors"
	"time"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/models"
)

const sessionColumns = "id, habit_id, start_time, end_time, is_break"

func (s *Store) AddSession(session models.Session) error {
	var endTime sql.NullTime
	if session.EndTime != nil {
		endTime = sql.NullTime{Time: *session.EndTime, Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, habit_id, start_time, end_time, is_break)
		VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.HabitID, session.StartTime, endTime, session.IsBreak)
	return wrap("add session", err)
}

func scanSession(row scanner) (models.Session, error) {
	var sess models.Session
	var endTime sql.NullTime
	if err := row.Scan(&sess.ID, &sess.HabitID, &sess.StartTime, &endTime, &sess.IsBreak); err != nil {
		return models.Session{}, err
	}
	if endTime.Valid {
		end := endTime.Time
		sess.EndTime = &end
	}
	return sess, nil
}

func (s *Store) GetSession(id string) (models.Session, error) {
	row := s.db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = $1", id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, apperr.NewNotFound(models.KindSession, id)
	}
	if err != nil {
		return models.Session{}, wrap("get session", err)
	}
	return sess, nil
}

func (s *Store) CompleteSession(id string, end time.Time) error {
	result, err := s.db.Exec(`
		UPDATE sessions SET end_time = $1 WHERE id = $2 AND end_time IS NULL`,
		end, id)
	if err != nil {
		return wrap("complete session", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return wrap("complete session", err)
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
	rows, err := s.db.Query("SELECT "+sessionColumns+" FROM sessions WHERE TRUE"+where+" ORDER BY start_time, id", args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return sessions, nil
}

func (s *Store) GetSessionsForHabit(habitID string, from, to time.Time) ([]models.Session, error) {
	where, args := rangeClause("start_time", from, to, []interface{}{habitID})
	return s.querySessions("list habit sessions", " AND habit_id = $1"+where, args)
}

func (s *Store) GetSessionsInRange(from, to time.Time) ([]models.Session, error) {
	where, args := rangeClause("start_time", from, to, nil)
	return s.querySessions("list sessions", where, args)
}
