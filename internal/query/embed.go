// Package query holds the SQL templates for both data sources and the
// named-placeholder substitution used to bind parameters into them. The
// query text is an external asset: stores load it by name instead of
// embedding SQL in Go code.
package query

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

// PostgresFS embeds identity-source query templates.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds warehouse query templates.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

// Load reads a template by name (without the .sql extension) from the
// given source filesystem.
func Load(source fs.FS, dir, name string) (string, error) {
	data, err := fs.ReadFile(source, dir+"/"+name+".sql")
	if err != nil {
		return "", fmt.Errorf("load query %s/%s: %w", dir, name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Postgres loads an identity-source template by name.
func Postgres(name string) (string, error) {
	return Load(PostgresFS, "postgres", name)
}

// Clickhouse loads a warehouse template by name.
func Clickhouse(name string) (string, error) {
	return Load(ClickhouseFS, "clickhouse", name)
}
