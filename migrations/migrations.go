// Package migrations embeds the schema migrations for the assessments
// database. Goose applies them at startup, in timestamp order; files are
// named YYYYMMDDHHMMSS_description.sql.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
