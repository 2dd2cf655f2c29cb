package postgres

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// Schema renders the DDL for the given table prefix.
func Schema(prefix string) string {
	return strings.ReplaceAll(schemaSQL, "{{prefix}}", prefix)
}
