// Package migrations embeds goose SQL migrations for every SQL backend.
package migrations

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Migration directories inside FS.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
