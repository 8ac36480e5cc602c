package database

import "embed"

// MigrationFS holds the PostgreSQL schema migrations.
//
//go:embed migration/*.sql
var MigrationFS embed.FS
