// Package db embeds the SQL migration files so the binary can migrate the
// schema at startup without shipping loose files.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
