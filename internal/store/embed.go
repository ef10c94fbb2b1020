package store

import "embed"

// migrationFS embeds the schema migrations applied by Open. Grounded
// on the embed-migrations pattern in
// _examples/scarson-CVErt-Ops/migrations/embed.go, adapted to run
// through goose (the migration runner already present, indirectly,
// in the pack via _examples/SirClappington-enq/go.mod) instead of
// golang-migrate.
//
//go:embed migrations/*.sql
var migrationFS embed.FS
