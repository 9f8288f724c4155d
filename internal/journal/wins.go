package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/validation"
)

func (s *Service) AddMicroWin(description string, category models.WinCategory) (models.MicroWin, error) {
	if category == "" {
		category = models.WinOther
	}
	win := models.MicroWin{
		ID:          uuid.New().String(),
		Description: strings.TrimSpace(description),
		Category:    category,
		CreatedAt:   s.stamp(),
	}
	if err := validation.MicroWin(win); err != nil {
		return models.MicroWin{}, err
	}

	v, err := s.sealer()
	if err != nil {
		return models.MicroWin{}, err
	}
	stored := win
	if err := seal(v, &stored.Description); err != nil {
		return models.MicroWin{}, err
	}
	if err := s.store.AddMicroWin(stored); err != nil {
		return models.MicroWin{}, fmt.Errorf("failed to save micro-win: %w", err)
	}
	return win, nil
}

// ListMicroWins returns wins newest first.
func (s *Service) ListMicroWins(limit int, since time.Time) ([]models.MicroWin, error) {
	wins, err := s.store.ListMicroWins(query(limit, since))
	if err != nil {
		return nil, err
	}
	v, err := s.opener()
	if err != nil {
		return nil, err
	}
	for i := range wins {
		if err := open(v, &wins[i].Description); err != nil {
			return nil, err
		}
	}
	return wins, nil
}

func (s *Service) DeleteMicroWin(id string) error {
	return s.store.DeleteMicroWin(id)
}
