package postgres

import (
	"database/sql"
	"errors"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/models"
)

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, title, description, created_at)
		VALUES ($1, $2, $3, $4)`,
		habit.ID, habit.Title, habit.Description, habit.CreatedAt)
	return wrap("add habit", err)
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.CreatedAt)
	return h, err
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, created_at
		FROM habits WHERE id = $1`, id)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperr.NewNotFound(models.KindHabit, id)
	}
	if err != nil {
		return models.Habit{}, wrap("get habit", err)
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, created_at
		FROM habits ORDER BY created_at, id`)
	if err != nil {
		return nil, wrap("list habits", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, wrap("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list habits", err)
	}
	return habits, nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits SET title = $1, description = $2 WHERE id = $3`,
		habit.Title, habit.Description, habit.ID)
	if err != nil {
		return wrap("update habit", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return wrap("update habit", err)
	}
	if rows == 0 {
		return apperr.NewNotFound(models.KindHabit, habit.ID)
	}
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrap("delete habit", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE habit_id = $1", id); err != nil {
		return wrap("delete habit sessions", err)
	}
	if _, err := tx.Exec("DELETE FROM notes WHERE habit_id = $1", id); err != nil {
		return wrap("delete habit notes", err)
	}
	result, err := tx.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return wrap("delete habit", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return wrap("delete habit", err)
	}
	if rows == 0 {
		return apperr.NewNotFound(models.KindHabit, id)
	}
	return wrap("delete habit", tx.Commit())
}
