package models

import "time"

// SupportContact is a person the user can reach out to.
type SupportContact struct {
	ID             string    `json:"id" yaml:"id"`
	UserID         string    `json:"user_id" yaml:"user_id"`
	Name           string    `json:"name" yaml:"name"`
	Phone          string    `json:"phone" yaml:"phone"`
	Relationship   string    `json:"relationship" yaml:"relationship"`
	IsProfessional bool      `json:"is_professional" yaml:"is_professional"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// SafetyPlan is the single per-user crisis plan.
type SafetyPlan struct {
	UserID               string    `json:"user_id" yaml:"user_id"`
	WarningSigns         []string  `json:"warning_signs" yaml:"warning_signs"`
	CopingStrategies     []string  `json:"coping_strategies" yaml:"coping_strategies"`
	ReasonsToLive        []string  `json:"reasons_to_live" yaml:"reasons_to_live"`
	SafePlaces           []string  `json:"safe_places" yaml:"safe_places"`
	ProfessionalContacts []string  `json:"professional_contacts" yaml:"professional_contacts"`
	UpdatedAt            time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsEmpty reports whether no section of the plan has been filled in.
func (p SafetyPlan) IsEmpty() bool {
	return len(p.WarningSigns) == 0 && len(p.CopingStrategies) == 0 &&
		len(p.ReasonsToLive) == 0 && len(p.SafePlaces) == 0 && len(p.ProfessionalContacts) == 0
}

// CrisisLine is a built-in hotline.
type CrisisLine struct {
	Name   string
	Phone  string
	SMS    string
	Region string
}
