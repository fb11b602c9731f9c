// Package migrations embeds the goose migrations of the client's databases.
package migrations

import "embed"

// SQLite holds the local session cache schema.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the profile store schema.
//
//go:embed postgres/*.sql
var Postgres embed.FS
