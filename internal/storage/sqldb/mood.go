package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/steady/internal/models"
)

const moodColumns = "id, user_id, mood_level, notes, timestamp, day"

func (s *Store) AddMoodEntry(entry models.MoodEntry) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := s.txExec(tx, `
			INSERT INTO mood_entries (id, user_id, mood_level, notes, timestamp, day)
			VALUES (?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.UserID, entry.MoodLevel, entry.Notes, formatTime(entry.Timestamp), entry.Day); err != nil {
			return err
		}
		return s.writeTags(tx, entry.ID, entry.EmotionTags)
	})
}

func (s *Store) UpdateMoodEntry(entry models.MoodEntry) error {
	return s.withTx(func(tx *sql.Tx) error {
		result, err := s.txExec(tx, `
			UPDATE mood_entries SET mood_level = ?, notes = ?, timestamp = ?, day = ?
			WHERE id = ?`,
			entry.MoodLevel, entry.Notes, formatTime(entry.Timestamp), entry.Day, entry.ID)
		if err != nil {
			return err
		}
		if err := requireAffected(result, "mood entry "+entry.ID); err != nil {
			return err
		}
		if _, err := s.txExec(tx, "DELETE FROM mood_entry_tags WHERE entry_id = ?", entry.ID); err != nil {
			return err
		}
		return s.writeTags(tx, entry.ID, entry.EmotionTags)
	})
}

func (s *Store) writeTags(tx *sql.Tx, entryID string, tags []string) error {
	for i, tag := range tags {
		if _, err := s.txExec(tx,
			"INSERT INTO mood_entry_tags (entry_id, position, tag) VALUES (?, ?, ?)",
			entryID, i, tag); err != nil {
			return fmt.Errorf("failed to save tag %q: %w", tag, err)
		}
	}
	return nil
}

func (s *Store) GetMoodEntry(id string) (models.MoodEntry, error) {
	row := s.queryRow("SELECT "+moodColumns+" FROM mood_entries WHERE id = ?", id)
	entry, err := scanMood(row)
	if err != nil {
		return models.MoodEntry{}, notFound(err, "mood entry "+id)
	}
	tags, err := s.tagsFor([]string{entry.ID})
	if err != nil {
		return models.MoodEntry{}, err
	}
	entry.EmotionTags = tags[entry.ID]
	return entry, nil
}

func (s *Store) DeleteMoodEntry(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := s.txExec(tx, "DELETE FROM mood_entry_tags WHERE entry_id = ?", id); err != nil {
			return err
		}
		result, err := s.txExec(tx, "DELETE FROM mood_entries WHERE id = ?", id)
		if err != nil {
			return err
		}
		return requireAffected(result, "mood entry "+id)
	})
}

func (s *Store) DeleteMoodEntriesBefore(userID, day string) (int64, error) {
	var removed int64
	err := s.withTx(func(tx *sql.Tx) error {
		if _, err := s.txExec(tx, `
			DELETE FROM mood_entry_tags WHERE entry_id IN (
				SELECT id FROM mood_entries WHERE user_id = ? AND day < ?
			)`, userID, day); err != nil {
			return err
		}
		result, err := s.txExec(tx, "DELETE FROM mood_entries WHERE user_id = ? AND day < ?", userID, day)
		if err != nil {
			return err
		}
		removed, err = result.RowsAffected()
		return err
	})
	return removed, err
}

func (s *Store) ListMoodEntries(userID, startDay, endDay string, limit int) ([]models.MoodEntry, error) {
	rows, err := s.query(`
		SELECT `+moodColumns+` FROM mood_entries
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY timestamp DESC`+limitClause(limit), userID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	return s.collectMoods(rows)
}

func (s *Store) GetAllMoodEntries() ([]models.MoodEntry, error) {
	rows, err := s.query("SELECT " + moodColumns + " FROM mood_entries ORDER BY timestamp")
	if err != nil {
		return nil, err
	}
	return s.collectMoods(rows)
}

func (s *Store) collectMoods(rows *sql.Rows) ([]models.MoodEntry, error) {
	defer rows.Close()

	var entries []models.MoodEntry
	var ids []string
	for rows.Next() {
		entry, err := scanMood(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return entries, nil
	}
	tags, err := s.tagsFor(ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].EmotionTags = tags[entries[i].ID]
	}
	return entries, nil
}

// tagsFor loads ordered tags for a set of entries.
func (s *Store) tagsFor(ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	// Chunk to stay well below SQLite's bound-parameter limit
	const chunk = 500
	for start := 0; start < len(ids); start += chunk {
		end := start + chunk
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		placeholders := make([]byte, 0, len(batch)*2)
		args := make([]interface{}, len(batch))
		for i, id := range batch {
			if i > 0 {
				placeholders = append(placeholders, ',')
			}
			placeholders = append(placeholders, '?')
			args[i] = id
		}

		rows, err := s.query(`
			SELECT entry_id, tag FROM mood_entry_tags
			WHERE entry_id IN (`+string(placeholders)+`)
			ORDER BY entry_id, position`, args...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var entryID, tag string
			if err := rows.Scan(&entryID, &tag); err != nil {
				rows.Close()
				return nil, err
			}
			out[entryID] = append(out[entryID], tag)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMood(row scanner) (models.MoodEntry, error) {
	var e models.MoodEntry
	var ts string
	if err := row.Scan(&e.ID, &e.UserID, &e.MoodLevel, &e.Notes, &ts, &e.Day); err != nil {
		return models.MoodEntry{}, err
	}
	t, err := parseTime(ts)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse timestamp for mood entry %s: %w", e.ID, err)
	}
	e.Timestamp = t
	return e, nil
}

// Aggregation

func (s *Store) HasMoodEntryOn(userID, day string) (bool, error) {
	var one int
	err := s.queryRow("SELECT 1 FROM mood_entries WHERE user_id = ? AND day = ? LIMIT 1", userID, day).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) GetMoodAggregate(userID, startDay, endDay string) (models.MoodAggregate, error) {
	var agg models.MoodAggregate
	var avg sql.NullFloat64
	var minLevel, maxLevel sql.NullInt64

	err := s.queryRow(`
		SELECT COUNT(*), AVG(mood_level), MIN(mood_level), MAX(mood_level), COUNT(DISTINCT day)
		FROM mood_entries
		WHERE user_id = ? AND day >= ? AND day <= ?`,
		userID, startDay, endDay).Scan(&agg.Count, &avg, &minLevel, &maxLevel, &agg.ActiveDays)
	if err != nil {
		return models.MoodAggregate{}, err
	}

	agg.Average = avg.Float64
	agg.Min = int(minLevel.Int64)
	agg.Max = int(maxLevel.Int64)
	return agg, nil
}

func (s *Store) GetDailyMoods(userID, startDay, endDay string) ([]models.DailyMood, error) {
	rows, err := s.query(`
		SELECT day, AVG(mood_level), COUNT(*)
		FROM mood_entries
		WHERE user_id = ? AND day >= ? AND day <= ?
		GROUP BY day
		ORDER BY day`, userID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.DailyMood
	for rows.Next() {
		var d models.DailyMood
		if err := rows.Scan(&d.Day, &d.Average, &d.Count); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *Store) GetTagCounts(userID, startDay, endDay string) ([]models.TagCount, error) {
	rows, err := s.query(`
		SELECT t.tag, COUNT(*), AVG(e.mood_level)
		FROM mood_entry_tags t
		JOIN mood_entries e ON e.id = t.entry_id
		WHERE e.user_id = ? AND e.day >= ? AND e.day <= ?
		GROUP BY t.tag`, userID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.TagCount
	for rows.Next() {
		var c models.TagCount
		if err := rows.Scan(&c.Tag, &c.Count, &c.AvgMood); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
