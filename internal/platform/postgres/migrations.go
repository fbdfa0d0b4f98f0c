package postgres

import "embed"

// MigrationsFS holds the goose SQL migrations for the schema. Embedding
// them keeps the server binary self-contained: migrations run from the
// binary with the -migrate flag, no checkout required.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migrations within MigrationsFS.
const MigrationsDir = "migrations"
