// Package migrations embeds the goose SQL migrations of the issue tracker.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
