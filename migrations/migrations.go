// Package migrations embeds the SQL schema migration files so the server
// binary can apply them with goose at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
