package sqldb

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
)

// journalWhere builds the created_at range filter shared by journal listings.
func journalWhere(q storage.JournalQuery, clauses []string, args []interface{}) (string, []interface{}) {
	if !q.Since.IsZero() {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, formatTime(q.Since))
	}
	if !q.Until.IsZero() {
		clauses = append(clauses, "created_at < ?")
		args = append(args, formatTime(q.Until))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func joinDistortions(ds []models.Distortion) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func splitDistortions(value string) []models.Distortion {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]models.Distortion, 0, len(parts))
	for _, p := range parts {
		out = append(out, models.Distortion(p))
	}
	return out
}

// Reframes

const reframeColumns = "id, situation, automatic_thought, distortions, balanced_thought, intensity_before, intensity_after, created_at"

func (s *Store) AddReframe(r models.ReframeEntry) error {
	_, err := s.exec(`
		INSERT INTO reframes (`+reframeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Situation, r.AutomaticThought, joinDistortions(r.Distortions), r.BalancedThought,
		r.IntensityBefore, r.IntensityAfter, formatTime(r.CreatedAt))
	return err
}

func (s *Store) GetReframe(id string) (models.ReframeEntry, error) {
	r, err := scanReframe(s.queryRow("SELECT "+reframeColumns+" FROM reframes WHERE id = ?", id))
	if err != nil {
		return models.ReframeEntry{}, notFound(err, "reframe "+id)
	}
	return r, nil
}

func (s *Store) ListReframes(q storage.JournalQuery) ([]models.ReframeEntry, error) {
	where, args := journalWhere(q, nil, nil)
	rows, err := s.query("SELECT "+reframeColumns+" FROM reframes"+where+" ORDER BY created_at DESC"+limitClause(q.Limit), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReframeEntry
	for rows.Next() {
		r, err := scanReframe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DeleteReframe(id string) error {
	result, err := s.exec("DELETE FROM reframes WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result, "reframe "+id)
}

func scanReframe(row scanner) (models.ReframeEntry, error) {
	var r models.ReframeEntry
	var distortions, createdAt string
	if err := row.Scan(&r.ID, &r.Situation, &r.AutomaticThought, &distortions, &r.BalancedThought,
		&r.IntensityBefore, &r.IntensityAfter, &createdAt); err != nil {
		return models.ReframeEntry{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return models.ReframeEntry{}, fmt.Errorf("failed to parse created_at for reframe %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	r.Distortions = splitDistortions(distortions)
	return r, nil
}

// Worries

const worryColumns = "id, worry, category, controllable, action_step, intensity, resolved, created_at, resolved_at"

func (s *Store) AddWorry(w models.WorryEntry) error {
	_, err := s.exec(`
		INSERT INTO worries (`+worryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Worry, string(w.Category), w.Controllable, w.ActionStep, w.Intensity, w.Resolved,
		formatTime(w.CreatedAt), nullTime(w.ResolvedAt))
	return err
}

func (s *Store) GetWorry(id string) (models.WorryEntry, error) {
	w, err := scanWorry(s.queryRow("SELECT "+worryColumns+" FROM worries WHERE id = ?", id))
	if err != nil {
		return models.WorryEntry{}, notFound(err, "worry "+id)
	}
	return w, nil
}

func (s *Store) UpdateWorry(w models.WorryEntry) error {
	result, err := s.exec(`
		UPDATE worries SET worry = ?, category = ?, controllable = ?, action_step = ?,
			intensity = ?, resolved = ?, resolved_at = ?
		WHERE id = ?`,
		w.Worry, string(w.Category), w.Controllable, w.ActionStep, w.Intensity, w.Resolved,
		nullTime(w.ResolvedAt), w.ID)
	if err != nil {
		return err
	}
	return requireAffected(result, "worry "+w.ID)
}

func (s *Store) ListWorries(q storage.JournalQuery, includeResolved bool) ([]models.WorryEntry, error) {
	var clauses []string
	var args []interface{}
	if !includeResolved {
		clauses = append(clauses, "resolved = ?")
		args = append(args, false)
	}
	where, args := journalWhere(q, clauses, args)

	rows, err := s.query("SELECT "+worryColumns+" FROM worries"+where+" ORDER BY created_at DESC"+limitClause(q.Limit), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorryEntry
	for rows.Next() {
		w, err := scanWorry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) DeleteWorry(id string) error {
	result, err := s.exec("DELETE FROM worries WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result, "worry "+id)
}

func scanWorry(row scanner) (models.WorryEntry, error) {
	var w models.WorryEntry
	var category, createdAt string
	var resolvedAt sql.NullString
	if err := row.Scan(&w.ID, &w.Worry, &category, &w.Controllable, &w.ActionStep, &w.Intensity,
		&w.Resolved, &createdAt, &resolvedAt); err != nil {
		return models.WorryEntry{}, err
	}
	w.Category = models.WorryCategory(category)

	t, err := parseTime(createdAt)
	if err != nil {
		return models.WorryEntry{}, fmt.Errorf("failed to parse created_at for worry %s: %w", w.ID, err)
	}
	w.CreatedAt = t
	if resolvedAt.Valid {
		rt, err := parseTime(resolvedAt.String)
		if err != nil {
			return models.WorryEntry{}, fmt.Errorf("failed to parse resolved_at for worry %s: %w", w.ID, err)
		}
		w.ResolvedAt = &rt
	}
	return w, nil
}

// Micro-wins

func (s *Store) AddMicroWin(w models.MicroWin) error {
	_, err := s.exec(`
		INSERT INTO micro_wins (id, description, category, created_at)
		VALUES (?, ?, ?, ?)`,
		w.ID, w.Description, string(w.Category), formatTime(w.CreatedAt))
	return err
}

func (s *Store) ListMicroWins(q storage.JournalQuery) ([]models.MicroWin, error) {
	where, args := journalWhere(q, nil, nil)
	rows, err := s.query("SELECT id, description, category, created_at FROM micro_wins"+where+" ORDER BY created_at DESC"+limitClause(q.Limit), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MicroWin
	for rows.Next() {
		var w models.MicroWin
		var category, createdAt string
		if err := rows.Scan(&w.ID, &w.Description, &category, &createdAt); err != nil {
			return nil, err
		}
		w.Category = models.WinCategory(category)
		if w.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at for micro-win %s: %w", w.ID, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) DeleteMicroWin(id string) error {
	result, err := s.exec("DELETE FROM micro_wins WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result, "micro-win "+id)
}
