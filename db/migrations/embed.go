// Package migrations embeds the SQL schema for the bookmarks and ratings tables.
package migrations

import "embed"

// FS holds every *.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
