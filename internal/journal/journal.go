// Package journal stores CBT journaling records.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/keyring"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/vault"
)

// ErrLocked is returned when encryption is on but no passphrase is available.
var ErrLocked = errors.New("journal is encrypted and no passphrase is stored in the keyring")

// Store is the storage surface used by the journal.
type Store interface {
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	AddReframe(models.ReframeEntry) error
	GetReframe(id string) (models.ReframeEntry, error)
	ListReframes(storage.JournalQuery) ([]models.ReframeEntry, error)
	DeleteReframe(id string) error

	AddWorry(models.WorryEntry) error
	GetWorry(id string) (models.WorryEntry, error)
	UpdateWorry(models.WorryEntry) error
	ListWorries(q storage.JournalQuery, includeResolved bool) ([]models.WorryEntry, error)
	DeleteWorry(id string) error

	AddMicroWin(models.MicroWin) error
	ListMicroWins(storage.JournalQuery) ([]models.MicroWin, error)
	DeleteMicroWin(id string) error
}

// PassphraseFunc returns the journal passphrase.
type PassphraseFunc func() (string, error)

type Service struct {
	store      Store
	now        func() time.Time
	passphrase PassphraseFunc
	vault      *vault.Vault
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now, passphrase: keyring.GetJournalPassphrase}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithPassphrase overrides where the passphrase comes from.
func (s *Service) WithPassphrase(fn PassphraseFunc) *Service {
	s.passphrase = fn
	s.vault = nil
	return s
}

// sealer returns the vault when encryption is enabled, nil otherwise.
func (s *Service) sealer() (*vault.Vault, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.JournalEncryption {
		return nil, nil
	}
	if s.vault != nil {
		return s.vault, nil
	}

	phrase, err := s.passphrase()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrLocked
		}
		return nil, err
	}
	v, err := vault.New(phrase, settings.JournalSalt)
	if err != nil {
		return nil, err
	}
	s.vault = v
	return v, nil
}

// opener returns a vault able to read sealed rows even when encryption has
// since been turned off. Plaintext rows pass through without one.
func (s *Service) opener() (*vault.Vault, error) {
	if v, err := s.sealer(); v != nil || err != nil {
		return v, err
	}
	settings, err := s.store.GetSettings()
	if err != nil || settings.JournalSalt == "" {
		return nil, nil
	}
	phrase, err := s.passphrase()
	if err != nil {
		return nil, nil
	}
	v, err := vault.New(phrase, settings.JournalSalt)
	if err != nil {
		return nil, nil
	}
	return v, nil
}

func seal(v *vault.Vault, fields ...*string) error {
	if v == nil {
		return nil
	}
	for _, f := range fields {
		sealed, err := v.Seal(*f)
		if err != nil {
			return err
		}
		*f = sealed
	}
	return nil
}

func open(v *vault.Vault, fields ...*string) error {
	for _, f := range fields {
		if !vault.IsSealed(*f) {
			continue
		}
		if v == nil {
			return ErrLocked
		}
		plain, err := v.Open(*f)
		if err != nil {
			return err
		}
		*f = plain
	}
	return nil
}

// EnableEncryption turns on sealing for new entries, creating a salt and
// storing the passphrase in the keyring.
func (s *Service) EnableEncryption(passphrase string, store func(string) error) error {
	if strings.TrimSpace(passphrase) == "" {
		return vault.ErrEmptyPhrase
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.JournalSalt == "" {
		salt, err := vault.NewSalt()
		if err != nil {
			return err
		}
		settings.JournalSalt = salt
	}
	if store == nil {
		store = keyring.SetJournalPassphrase
	}
	if err := store(passphrase); err != nil {
		return err
	}
	settings.JournalEncryption = true
	if err := s.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.vault = nil
	logger.Info("Journal encryption enabled")
	return nil
}

// DisableEncryption stops sealing new entries. Existing sealed entries stay
// readable while the passphrase remains in the keyring.
func (s *Service) DisableEncryption() error {
	settings, err := s.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings.JournalEncryption = false
	s.vault = nil
	return s.store.SaveSettings(settings)
}

func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func query(limit int, since time.Time) storage.JournalQuery {
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	return storage.JournalQuery{Since: since, Limit: limit}
}
