package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/validation"
)

// NewReframe describes a thought reframe to record.
type NewReframe struct {
	Situation        string
	AutomaticThought string
	Distortions      []models.Distortion
	BalancedThought  string
	IntensityBefore  int
	IntensityAfter   int
}

func (s *Service) AddReframe(in NewReframe) (models.ReframeEntry, error) {
	entry := models.ReframeEntry{
		ID:               uuid.New().String(),
		Situation:        strings.TrimSpace(in.Situation),
		AutomaticThought: strings.TrimSpace(in.AutomaticThought),
		Distortions:      in.Distortions,
		BalancedThought:  strings.TrimSpace(in.BalancedThought),
		IntensityBefore:  in.IntensityBefore,
		IntensityAfter:   in.IntensityAfter,
		CreatedAt:        s.stamp(),
	}
	if err := validation.Reframe(entry); err != nil {
		return models.ReframeEntry{}, err
	}

	v, err := s.sealer()
	if err != nil {
		return models.ReframeEntry{}, err
	}
	stored := entry
	if err := seal(v, &stored.Situation, &stored.AutomaticThought, &stored.BalancedThought); err != nil {
		return models.ReframeEntry{}, err
	}
	if err := s.store.AddReframe(stored); err != nil {
		return models.ReframeEntry{}, fmt.Errorf("failed to save reframe: %w", err)
	}
	return entry, nil
}

func (s *Service) GetReframe(id string) (models.ReframeEntry, error) {
	entry, err := s.store.GetReframe(id)
	if err != nil {
		return models.ReframeEntry{}, err
	}
	v, err := s.opener()
	if err != nil {
		return models.ReframeEntry{}, err
	}
	if err := open(v, &entry.Situation, &entry.AutomaticThought, &entry.BalancedThought); err != nil {
		return models.ReframeEntry{}, err
	}
	return entry, nil
}

// ListReframes returns up to limit reframes since the given time, newest first.
func (s *Service) ListReframes(limit int, since time.Time) ([]models.ReframeEntry, error) {
	entries, err := s.store.ListReframes(query(limit, since))
	if err != nil {
		return nil, err
	}
	v, err := s.opener()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		if err := open(v, &e.Situation, &e.AutomaticThought, &e.BalancedThought); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *Service) DeleteReframe(id string) error {
	return s.store.DeleteReframe(id)
}
