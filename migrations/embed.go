// Package migrations carries the schema for the Fahrerportal database,
// embedded so tests can migrate throwaway databases without caring where
// the binary runs from.
package migrations

import "embed"

// FS contains every *.sql migration, ordered by the goose version prefix.
//
//go:embed *.sql
var FS embed.FS
