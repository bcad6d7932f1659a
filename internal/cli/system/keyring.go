package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/keyring"
	"github.com/vitatrack/vitatrack/internal/storage"
	"github.com/vitatrack/vitatrack/internal/storage/postgres"
)

// KeyringSetCmd stores the development database connection string in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !storage.IsPostgres(cmd.ConnectionString) {
		return errors.New("connection string must be a postgres:// or postgresql:// URL")
	}

	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.Printf("⚠️  Warning: Connection string contains embedded credentials.\n")
		ctx.Printf("   It will be stored as-is in the encrypted OS keyring.\n")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.Printf("✓ Connection string stored successfully in OS keyring\n")
	ctx.Printf("  'vitatrack serve' will use it when --db is not set\n")
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.Printf("✓ Connection string deleted from OS keyring\n")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Printf("❌ OS keyring is not available on this system\n")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Printf("✓ OS keyring is available\n")

	if user, err := keyring.GetUser(); err == nil {
		ctx.Printf("✓ Session stored for user %d\n", user.ID)
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Printf("ℹ No session stored in keyring\n")
	}

	if connStr, err := keyring.GetConnectionString(); err == nil {
		ctx.Printf("✓ Connection string: %s\n", maskPassword(connStr))
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Printf("ℹ No connection string stored in keyring\n")
	}
	return nil
}

// maskPassword masks the password of a postgres URL for display
func maskPassword(connStr string) string {
	idx := strings.Index(connStr, "://")
	if idx == -1 {
		return connStr
	}
	remaining := connStr[idx+3:]
	atIdx := strings.LastIndex(remaining, "@")
	if atIdx == -1 {
		return connStr
	}
	userInfo := remaining[:atIdx]
	if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
		return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + remaining[atIdx:]
	}
	return connStr
}
