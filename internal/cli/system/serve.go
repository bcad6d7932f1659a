package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/config"
	"github.com/vitatrack/vitatrack/internal/constants"
	"github.com/vitatrack/vitatrack/internal/devserver"
	"github.com/vitatrack/vitatrack/internal/keyring"
	"github.com/vitatrack/vitatrack/internal/storage"
	"github.com/vitatrack/vitatrack/internal/storage/postgres"
	"github.com/vitatrack/vitatrack/internal/storage/sqlite"
)

type ServeCmd struct {
	Addr        string   `help:"Listen address." default:"${listen_addr}"`
	DB          string   `help:"SQLite path or PostgreSQL connection string. Credentials must NOT be embedded in the connection string; store them with 'vitatrack keyring set' instead." env:"VITATRACK_DB"`
	UploadDir   string   `help:"Directory for uploaded food images (default: <config-dir>/uploads)." type:"path"`
	Origins     []string `help:"Allowed CORS origins." default:"*"`
	MigrateOnly bool     `help:"Apply database migrations and exit." name:"migrate-only"`
}

func (c *ServeCmd) Validate() error {
	if storage.IsPostgres(c.DB) {
		if err := postgres.ValidateConnString(c.DB); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL connection strings with embedded credentials are NOT allowed in --db or VITATRACK_DB; use 'vitatrack keyring set', environment variables, or .pgpass")
			}
			return err
		}
	}
	return nil
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	store, err := OpenDevStore(c.DB)
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	current, latest, err := store.SchemaVersion()
	if err != nil {
		return err
	}
	if c.MigrateOnly {
		ctx.Printf("✓ Database at schema version %d (latest %d)\n", current, latest)
		ctx.Printf("  Storage: %s\n", store.GetConfigPath())
		return nil
	}

	uploadDir := c.UploadDir
	if uploadDir == "" {
		uploadDir = ctx.Config.UploadDir()
	}
	srv, err := devserver.New(devserver.Config{Store: store, UploadDir: uploadDir, AllowedOrigins: c.Origins})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Serving VitaTrack API on %s (storage: %s)\n", c.Addr, store.GetConfigPath())
	return srv.ListenAndServe(sigCtx, c.Addr)
}

// OpenDevStore picks the storage provider for dsn. An empty dsn falls back
// to the keyring connection string and then to the default SQLite file.
func OpenDevStore(dsn string) (storage.Provider, error) {
	if dsn == "" {
		if stored, err := keyring.GetConnectionString(); err == nil {
			dsn = stored
		} else {
			dsn = constants.DefaultDevDB
		}
	}

	if storage.IsPostgres(dsn) {
		return postgres.New(dsn), nil
	}

	path, err := config.ExpandHome(dsn)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}
