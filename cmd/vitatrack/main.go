package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/vitatrack/vitatrack/internal/cli"
	"github.com/vitatrack/vitatrack/internal/cli/records"
	"github.com/vitatrack/vitatrack/internal/cli/system"
	"github.com/vitatrack/vitatrack/internal/config"
	"github.com/vitatrack/vitatrack/internal/constants"
	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/remote"
)

var CLI struct {
	Version   kong.VersionFlag
	Server    string        `help:"VitaTrack server URL." default:"${server_url}" env:"VITATRACK_SERVER"`
	Timeout   time.Duration `help:"Request timeout." default:"15s" env:"VITATRACK_TIMEOUT"`
	ConfigDir string        `help:"Configuration directory (logs, uploads, .env)." default:"${config_dir}" env:"VITATRACK_CONFIG_DIR" name:"config-dir"`
	Debug     bool          `help:"Log debug output to stderr." env:"VITATRACK_DEBUG"`
	LogLevel  string        `help:"Log file level (debug, info, warn, error)." env:"VITATRACK_LOG_LEVEL" name:"log-level"`

	Tui     system.TuiCmd `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Login   cli.LoginCmd  `cmd:"" help:"Log in as a backend user."`
	Logout  cli.LogoutCmd `cmd:"" help:"Log out and clear local records."`
	Whoami  cli.WhoamiCmd `cmd:"" help:"Show the logged in user."`
	Records struct {
		List   records.RecordListCmd   `cmd:"" help:"List food records for a day." default:"1"`
		Add    records.RecordAddCmd    `cmd:"" help:"Add a food record."`
		Edit   records.RecordEditCmd   `cmd:"" help:"Edit a food record."`
		Delete records.RecordDeleteCmd `cmd:"" help:"Delete a food record."`
	} `cmd:"" help:"Manage food records."`
	Day      cli.DayCmd       `cmd:"" help:"Show records by day."`
	Progress cli.ProgressCmd  `cmd:"" help:"Show nutrition progress for a day."`
	Serve    system.ServeCmd  `cmd:"" help:"Run the development backend."`
	Doctor   system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the development database connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability and stored entries." default:"1"`
	} `cmd:"" help:"Manage OS keyring entries."`
}

func main() {
	config.LoadEnv()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Nutrition tracking client with local-first food records"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"server_url":  constants.DefaultServerURL,
			"config_dir":  constants.DefaultConfigDir,
			"listen_addr": constants.DefaultListenAddr,
			"dev_db":      constants.DefaultDevDB,
		},
	)

	cfg, err := config.New(CLI.Server, CLI.ConfigDir, CLI.Timeout, CLI.Debug)
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Level:     CLI.LogLevel,
		Debug:     cfg.Debug,
		ConfigDir: cfg.ConfigDir,
		Stderr:    ctx.Command() == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	client, err := remote.NewClient(remote.Config{BaseURL: cfg.ServerURL, Timeout: cfg.Timeout})
	if err != nil {
		apperrors.Fatal(err)
	}

	apperrors.Fatal(ctx.Run(cli.NewContext(cfg, client)))
}
