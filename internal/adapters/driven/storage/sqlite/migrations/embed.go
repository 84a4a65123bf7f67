// Package migrations holds the numbered schema files of the key-value store.
// Files are named NNN_name.up.sql and applied in order once each.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
