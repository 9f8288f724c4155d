package sqldb

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/steady/internal/models"
)

const contactColumns = "id, user_id, name, phone, relationship, is_professional, created_at"

func (s *Store) AddSupportContact(c models.SupportContact) error {
	_, err := s.exec(`
		INSERT INTO support_contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Phone, c.Relationship, c.IsProfessional, formatTime(c.CreatedAt))
	return err
}

func (s *Store) GetSupportContact(id string) (models.SupportContact, error) {
	c, err := scanContact(s.queryRow("SELECT "+contactColumns+" FROM support_contacts WHERE id = ?", id))
	if err != nil {
		return models.SupportContact{}, notFound(err, "contact "+id)
	}
	return c, nil
}

func (s *Store) ListSupportContacts(userID string) ([]models.SupportContact, error) {
	rows, err := s.query(`
		SELECT `+contactColumns+` FROM support_contacts
		WHERE user_id = ?
		ORDER BY is_professional DESC, name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SupportContact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateSupportContact(c models.SupportContact) error {
	result, err := s.exec(`
		UPDATE support_contacts SET name = ?, phone = ?, relationship = ?, is_professional = ?
		WHERE id = ?`,
		c.Name, c.Phone, c.Relationship, c.IsProfessional, c.ID)
	if err != nil {
		return err
	}
	return requireAffected(result, "contact "+c.ID)
}

func (s *Store) DeleteSupportContact(id string) error {
	result, err := s.exec("DELETE FROM support_contacts WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result, "contact "+id)
}

func scanContact(row scanner) (models.SupportContact, error) {
	var c models.SupportContact
	var createdAt string
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Relationship, &c.IsProfessional, &createdAt); err != nil {
		return models.SupportContact{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return models.SupportContact{}, fmt.Errorf("failed to parse created_at for contact %s: %w", c.ID, err)
	}
	c.CreatedAt = t
	return c, nil
}

// Safety plan

func (s *Store) GetSafetyPlan(userID string) (models.SafetyPlan, error) {
	var warning, coping, reasons, places, professionals, updatedAt string
	err := s.queryRow(`
		SELECT warning_signs, coping_strategies, reasons_to_live, safe_places, professional_contacts, updated_at
		FROM safety_plans WHERE user_id = ?`, userID).
		Scan(&warning, &coping, &reasons, &places, &professionals, &updatedAt)
	if err != nil {
		return models.SafetyPlan{}, notFound(err, "safety plan")
	}

	plan := models.SafetyPlan{UserID: userID}
	fields := []struct {
		raw string
		dst *[]string
	}{
		{warning, &plan.WarningSigns},
		{coping, &plan.CopingStrategies},
		{reasons, &plan.ReasonsToLive},
		{places, &plan.SafePlaces},
		{professionals, &plan.ProfessionalContacts},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return models.SafetyPlan{}, fmt.Errorf("failed to decode safety plan: %w", err)
		}
	}
	if plan.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.SafetyPlan{}, fmt.Errorf("failed to parse updated_at for safety plan: %w", err)
	}
	return plan, nil
}

func (s *Store) SaveSafetyPlan(plan models.SafetyPlan) error {
	encode := func(items []string) (string, error) {
		if items == nil {
			items = []string{}
		}
		b, err := json.Marshal(items)
		return string(b), err
	}

	values := make([]interface{}, 0, 7)
	values = append(values, plan.UserID)
	for _, items := range [][]string{plan.WarningSigns, plan.CopingStrategies, plan.ReasonsToLive, plan.SafePlaces, plan.ProfessionalContacts} {
		v, err := encode(items)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	values = append(values, formatTime(plan.UpdatedAt))

	_, err := s.exec(`
		INSERT INTO safety_plans (user_id, warning_signs, coping_strategies, reasons_to_live, safe_places, professional_contacts, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			warning_signs = excluded.warning_signs,
			coping_strategies = excluded.coping_strategies,
			reasons_to_live = excluded.reasons_to_live,
			safe_places = excluded.safe_places,
			professional_contacts = excluded.professional_contacts,
			updated_at = excluded.updated_at`, values...)
	return err
}
