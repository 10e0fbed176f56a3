package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/models"
)

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, title, description, created_at)
		VALUES (?, ?, ?, ?)`,
		habit.ID, habit.Title, habit.Description, formatTime(habit.CreatedAt))
	return apperr.NewStorage("add habit", err)
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt string
	if err := row.Scan(&h.ID, &h.Title, &h.Description, &createdAt); err != nil {
		return models.Habit{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.CreatedAt = t
	return h, nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, created_at
		FROM habits WHERE id = ?`, id)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperr.NewNotFound(models.KindHabit, id)
	}
	if err != nil {
		return models.Habit{}, apperr.NewStorage("get habit", err)
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, created_at
		FROM habits ORDER BY created_at, id`)
	if err != nil {
		return nil, apperr.NewStorage("list habits", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, apperr.NewStorage("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewStorage("list habits", err)
	}
	return habits, nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits SET title = ?, description = ? WHERE id = ?`,
		habit.Title, habit.Description, habit.ID)
	if err != nil {
		return apperr.NewStorage("update habit", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.NewStorage("update habit", err)
	}
	if rows == 0 {
		return apperr.NewNotFound(models.KindHabit, habit.ID)
	}
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.NewStorage("delete habit", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE habit_id = ?", id); err != nil {
		return apperr.NewStorage("delete habit sessions", err)
	}
	if _, err := tx.Exec("DELETE FROM notes WHERE habit_id = ?", id); err != nil {
		return apperr.NewStorage("delete habit notes", err)
	}
	result, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return apperr.NewStorage("delete habit", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.NewStorage("delete habit", err)
	}
	if rows == 0 {
		return apperr.NewNotFound(models.KindHabit, id)
	}

	return apperr.NewStorage("delete habit", tx.Commit())
}
