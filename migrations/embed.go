// Package migrations carries the SQL schema so binaries run without a
// migrations directory next to them.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
