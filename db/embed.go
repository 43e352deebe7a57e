// Package db embeds the SQL schema migrations of the registry.
package db

import "embed"

// Migrations holds db/migrations for builds tagged embed_migrations and for
// the integration suite.
//
//go:embed migrations/*.sql
var Migrations embed.FS
