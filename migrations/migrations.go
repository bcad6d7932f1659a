// Package migrations embeds the schema migrations for each storage backend.
// Files are named NNN_name.sql and live in a directory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
