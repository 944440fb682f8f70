package migrations

import "embed"

// FS holds the SQL migrations applied by the sqlite backend on open.
//
//go:embed *.sql
var FS embed.FS
