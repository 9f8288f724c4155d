package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/keyring"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability and stored secrets." default:"1"`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	connStr := cmd.ConnectionString
	if !storage.IsPostgresConnString(connStr) && !strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}
	if err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.Println("⚠ The connection string contains a password.")
		ctx.Println("  It is stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return err
	}
	ctx.Println("✓ Connection string stored in the OS keyring")
	ctx.Println("  steady will use it when --config is not given")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring, use 'steady keyring set' to store one")
	}
	if err != nil {
		return err
	}
	ctx.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring")
	}
	if err != nil {
		return err
	}
	ctx.Println("✓ Connection string deleted from the OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	secrets := []struct {
		what string
		get  func() (string, error)
	}{
		{"Connection string", keyring.GetConnectionString},
		{"Journal passphrase", keyring.GetJournalPassphrase},
	}
	for _, s := range secrets {
		if _, err := s.get(); err == nil {
			ctx.Printf("✓ %s is stored\n", s.what)
		} else {
			ctx.Printf("ℹ %s is not stored\n", s.what)
		}
	}
	return nil
}

// maskPassword hides the password in a URL or key=value connection string.
func maskPassword(connStr string) string {
	if storage.IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		return u.Redacted()
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if k, _, ok := strings.Cut(part, "="); ok && strings.EqualFold(k, "password") {
			parts[i] = k + "=xxxxx"
		}
	}
	return strings.Join(parts, " ")
}
