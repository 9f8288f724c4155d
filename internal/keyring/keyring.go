package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/steady/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested key
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func set(user, secret, what string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func del(user, what string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetConnectionString retrieves the PostgreSQL connection string.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the PostgreSQL connection string.
func SetConnectionString(connStr string) error {
	return set(constants.DefaultKeyringUser, connStr, "connection string")
}

// DeleteConnectionString removes the stored connection string.
func DeleteConnectionString() error {
	return del(constants.DefaultKeyringUser, "connection string")
}

// GetJournalPassphrase retrieves the passphrase used to seal journal text.
func GetJournalPassphrase() (string, error) {
	return get(constants.JournalKeyringUser)
}

// SetJournalPassphrase stores the journal passphrase.
func SetJournalPassphrase(passphrase string) error {
	return set(constants.JournalKeyringUser, passphrase, "journal passphrase")
}

// DeleteJournalPassphrase removes the journal passphrase.
func DeleteJournalPassphrase() error {
	return del(constants.JournalKeyringUser, "journal passphrase")
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered and is simply empty
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
