package constants

import "time"

const (
	AppName            = "vitatrack"
	DefaultKeyringUser = "current-user"
	DevDBKeyringUser   = "dev-database"
	DefaultConfigDir   = "~/.config/vitatrack"
	DefaultServerURL   = "http://localhost:4000"
	DefaultDevDB       = "~/.config/vitatrack/devserver.db"
	DefaultListenAddr  = ":4000"
	Version            = "v0.3.0"

	// DateFormat is the wire and display date format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat is used for human date labels outside of today/yesterday/tomorrow
	DisplayDateFormat = "Jan 2, 2006"

	// Record defaults
	DefaultUnit   = "g"
	DefaultAmount = 1.0

	// HTTP client defaults
	DefaultRequestTimeout = 15 * time.Second
	MaxErrorBodyBytes     = 512

	// Subscriber channel buffer for store snapshots
	SnapshotBuffer = 1
)
