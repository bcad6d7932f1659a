package system

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/config"
	"github.com/vitatrack/vitatrack/internal/keyring"
	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/storage/sqlite"
)

type DoctorCmd struct {
	DB string `help:"Development SQLite database to check." default:"${dev_db}" env:"VITATRACK_DB"`
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Running diagnostics...\n\n")

	hasError := false
	check := func(name string, err error) bool {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return false
		}
		ctx.Printf("✓ %s: OK\n", name)
		return true
	}
	skip := func(name, reason string) {
		ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
	}

	// Check 1: keyring
	keyringOK := check("OS keyring", checkKeyring())

	// Check 2: session
	var user models.User
	sessionOK := false
	if keyringOK {
		var err error
		user, err = ctx.Session.Current()
		if err != nil {
			ctx.Printf("⚠ Session: WARNING\n")
			ctx.Printf("   %v - run 'vitatrack login <user-id>'\n", err)
		} else {
			ctx.Printf("✓ Session: OK (user %d)\n", user.ID)
			sessionOK = true
		}
	} else {
		skip("Session", "keyring not available")
	}

	// Check 3: server reachable
	if sessionOK {
		check("Server reachable", checkServer(ctx, user))
	} else {
		skip("Server reachable", "not logged in")
	}

	// Check 4: development database
	path, err := config.ExpandHome(cmd.DB)
	if err != nil {
		check("Development database", err)
	} else if _, statErr := os.Stat(path); statErr != nil {
		skip("Development database", "no database at "+path)
	} else {
		check("Development database", checkDevDatabase(path))
	}

	// Check 5: clock
	check("Clock/timezone", checkClockTimezone())

	// Check 6: log file
	if path := logger.Path(); path == "" {
		skip("Log file", "logging not initialized")
	} else {
		check("Log file", checkLogFile(path))
	}

	ctx.Printf("\n")
	if hasError {
		ctx.Printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Printf("All diagnostics passed!\n")
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkServer(ctx *cli.Context, user models.User) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), ctx.Config.Timeout)
	defer cancel()
	today := time.Now()
	if _, err := ctx.Client.Fetch(reqCtx, user.ID, &today, nil); err != nil {
		return fmt.Errorf("%s: %w", ctx.Client.Origin(), err)
	}
	return nil
}

func checkDevDatabase(path string) error {
	store := sqlite.NewStore(path)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	current, latest, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d; run 'vitatrack serve --migrate-only'", current, latest)
	}
	return nil
}

func checkLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("log file is not writable: %w", err)
	}
	return f.Close()
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

