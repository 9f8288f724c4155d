package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/steady/internal/models"
)

const habitColumns = "id, title, schedule, reminder_time, enabled, created_at"

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.exec(`
		INSERT INTO habits (id, title, schedule, reminder_time, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Title, habit.Schedule, habit.ReminderTime, habit.Enabled, formatTime(habit.CreatedAt))
	return err
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow("SELECT "+habitColumns+" FROM habits WHERE id = ?", id))
	if err != nil {
		return models.Habit{}, notFound(err, "habit "+id)
	}
	return h, nil
}

func (s *Store) GetHabitByTitle(title string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow("SELECT "+habitColumns+" FROM habits WHERE LOWER(title) = LOWER(?)", title))
	if err != nil {
		return models.Habit{}, notFound(err, fmt.Sprintf("habit %q", title))
	}
	return h, nil
}

func (s *Store) GetAllHabits(includeDisabled bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits"
	var args []interface{}
	if !includeDisabled {
		query += " WHERE enabled = ?"
		args = append(args, true)
	}
	query += " ORDER BY created_at, title"

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.exec(`
		UPDATE habits SET title = ?, schedule = ?, reminder_time = ?, enabled = ?
		WHERE id = ?`,
		habit.Title, habit.Schedule, habit.ReminderTime, habit.Enabled, habit.ID)
	if err != nil {
		return err
	}
	return requireAffected(result, "habit "+habit.ID)
}

func (s *Store) SetHabitEnabled(id string, enabled bool) error {
	result, err := s.exec("UPDATE habits SET enabled = ? WHERE id = ?", enabled, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "habit "+id)
}

func (s *Store) DeleteHabit(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		// Ticks are removed explicitly so the cascade holds even when the
		// backend was opened without foreign key enforcement.
		if _, err := s.txExec(tx, "DELETE FROM habit_ticks WHERE habit_id = ?", id); err != nil {
			return err
		}
		result, err := s.txExec(tx, "DELETE FROM habits WHERE id = ?", id)
		if err != nil {
			return err
		}
		return requireAffected(result, "habit "+id)
	})
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt string
	if err := row.Scan(&h.ID, &h.Title, &h.Schedule, &h.ReminderTime, &h.Enabled, &createdAt); err != nil {
		return models.Habit{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.CreatedAt = t
	return h, nil
}

// Habit ticks

func (s *Store) SetHabitTick(tick models.HabitTick) error {
	_, err := s.exec(`
		INSERT INTO habit_ticks (habit_id, date, done) VALUES (?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET done = excluded.done`,
		tick.HabitID, tick.Date, tick.Done)
	return err
}

func (s *Store) GetHabitTick(habitID, date string) (models.HabitTick, error) {
	var t models.HabitTick
	err := s.queryRow("SELECT habit_id, date, done FROM habit_ticks WHERE habit_id = ? AND date = ?", habitID, date).
		Scan(&t.HabitID, &t.Date, &t.Done)
	if err != nil {
		return models.HabitTick{}, notFound(err, fmt.Sprintf("tick %s@%s", habitID, date))
	}
	return t, nil
}

func (s *Store) GetHabitTicks(habitID, startDate, endDate string) ([]models.HabitTick, error) {
	return s.collectTicks(`
		SELECT habit_id, date, done FROM habit_ticks
		WHERE habit_id = ? AND date >= ? AND date <= ?
		ORDER BY date DESC`, habitID, startDate, endDate)
}

func (s *Store) GetHabitTicksForDay(date string) ([]models.HabitTick, error) {
	return s.collectTicks("SELECT habit_id, date, done FROM habit_ticks WHERE date = ? ORDER BY habit_id", date)
}

func (s *Store) GetHabitTicksInRange(startDate, endDate string) ([]models.HabitTick, error) {
	return s.collectTicks(`
		SELECT habit_id, date, done FROM habit_ticks
		WHERE date >= ? AND date <= ?
		ORDER BY date, habit_id`, startDate, endDate)
}

func (s *Store) GetAllHabitTicks() ([]models.HabitTick, error) {
	return s.collectTicks("SELECT habit_id, date, done FROM habit_ticks ORDER BY habit_id, date")
}

func (s *Store) IsHabitDoneOn(habitID, date string) (bool, error) {
	var done bool
	err := s.queryRow("SELECT done FROM habit_ticks WHERE habit_id = ? AND date = ?", habitID, date).Scan(&done)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return done, nil
}

func (s *Store) DeleteHabitTick(habitID, date string) error {
	result, err := s.exec("DELETE FROM habit_ticks WHERE habit_id = ? AND date = ?", habitID, date)
	if err != nil {
		return err
	}
	return requireAffected(result, fmt.Sprintf("tick %s@%s", habitID, date))
}

func (s *Store) collectTicks(query string, args ...interface{}) ([]models.HabitTick, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []models.HabitTick
	for rows.Next() {
		var t models.HabitTick
		if err := rows.Scan(&t.HabitID, &t.Date, &t.Done); err != nil {
			return nil, err
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}
