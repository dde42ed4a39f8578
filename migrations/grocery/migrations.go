// Package grocery embeds the goose migrations for the grocery_items table.
package grocery

import "embed"

//go:embed *.sql
var FS embed.FS
