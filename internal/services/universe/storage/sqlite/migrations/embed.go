// Package migrations embeds the SQL schema history of the universe store.
package migrations

import "embed"

// UniverseFS holds the universe store migrations under universe/.
//
//go:embed universe/*.sql
var UniverseFS embed.FS
