package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/validation"
)

// NewWorry describes a worry to park.
type NewWorry struct {
	Worry        string
	Category     models.WorryCategory
	Controllable bool
	ActionStep   string
	Intensity    int
}

func (s *Service) AddWorry(in NewWorry) (models.WorryEntry, error) {
	category := in.Category
	if category == "" {
		category = models.WorryOther
	}
	entry := models.WorryEntry{
		ID:           uuid.New().String(),
		Worry:        strings.TrimSpace(in.Worry),
		Category:     category,
		Controllable: in.Controllable,
		ActionStep:   strings.TrimSpace(in.ActionStep),
		Intensity:    in.Intensity,
		CreatedAt:    s.stamp(),
	}
	if err := validation.Worry(entry); err != nil {
		return models.WorryEntry{}, err
	}

	v, err := s.sealer()
	if err != nil {
		return models.WorryEntry{}, err
	}
	stored := entry
	if err := seal(v, &stored.Worry, &stored.ActionStep); err != nil {
		return models.WorryEntry{}, err
	}
	if err := s.store.AddWorry(stored); err != nil {
		return models.WorryEntry{}, fmt.Errorf("failed to save worry: %w", err)
	}
	return entry, nil
}

// ResolveWorry marks a worry as resolved now.
func (s *Service) ResolveWorry(id string) (models.WorryEntry, error) {
	entry, err := s.store.GetWorry(id)
	if err != nil {
		return models.WorryEntry{}, err
	}
	if entry.Resolved {
		return s.openWorry(entry)
	}
	now := s.stamp()
	entry.Resolved = true
	entry.ResolvedAt = &now
	if err := s.store.UpdateWorry(entry); err != nil {
		return models.WorryEntry{}, fmt.Errorf("failed to update worry: %w", err)
	}
	return s.openWorry(entry)
}

func (s *Service) openWorry(entry models.WorryEntry) (models.WorryEntry, error) {
	v, err := s.opener()
	if err != nil {
		return models.WorryEntry{}, err
	}
	if err := open(v, &entry.Worry, &entry.ActionStep); err != nil {
		return models.WorryEntry{}, err
	}
	return entry, nil
}

// ListWorries returns worries newest first, hiding resolved ones unless asked.
func (s *Service) ListWorries(limit int, since time.Time, includeResolved bool) ([]models.WorryEntry, error) {
	entries, err := s.store.ListWorries(query(limit, since), includeResolved)
	if err != nil {
		return nil, err
	}
	v, err := s.opener()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		if err := open(v, &e.Worry, &e.ActionStep); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *Service) DeleteWorry(id string) error {
	return s.store.DeleteWorry(id)
}
