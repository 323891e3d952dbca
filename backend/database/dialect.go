package database

import (
	"fmt"
	"strings"

	"github.com/PressureTank/promptbase/backend/prompt"
)

// dialect holds the SQL that differs between SQLite and PostgreSQL.
type dialect struct {
	name   string
	driver string
	schema string
	// contains renders a case-sensitive literal substring test.
	contains func(col, param string) string
	// collate is appended to text sort columns for byte-wise ordering.
	collate string
	bind    func(n int) string
}

var sqliteDialect = dialect{
	name:   "sqlite",
	driver: "sqlite3",
	schema: `
		CREATE TABLE IF NOT EXISTS prompts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			prompt TEXT NOT NULL,
			is_favorite BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	contains: func(col, param string) string {
		return fmt.Sprintf("instr(%s, %s) > 0", col, param)
	},
	collate: " COLLATE BINARY",
	bind:    func(int) string { return "?" },
}

var postgresDialect = dialect{
	name:   "postgres",
	driver: "pgx",
	schema: `
		CREATE TABLE IF NOT EXISTS prompts (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			prompt TEXT NOT NULL,
			is_favorite BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	contains: func(col, param string) string {
		return fmt.Sprintf("strpos(%s, %s) > 0", col, param)
	},
	collate: ` COLLATE "C"`,
	bind:    func(n int) string { return fmt.Sprintf("$%d", n) },
}

// sortColumns is the only source of column names spliced into ORDER BY.
var sortColumns = map[prompt.SortKey]string{
	prompt.SortCreatedAt:  "created_at",
	prompt.SortTitle:      "title",
	prompt.SortIsFavorite: "is_favorite",
}

var sortOrders = map[prompt.SortOrder]string{
	prompt.Ascending:  "ASC",
	prompt.Descending: "DESC",
}

const columns = "id, title, prompt, is_favorite, created_at, updated_at"

// resolve picks a dialect and driver DSN for a DATABASE_URL value.
func resolve(url string) (dialect, string, error) {
	switch {
	case url == "":
		return dialect{}, "", fmt.Errorf("empty database url")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgresDialect, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqliteDialect, strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "sqlite3://"):
		return sqliteDialect, strings.TrimPrefix(url, "sqlite3://"), nil
	case strings.Contains(url, "://"):
		return dialect{}, "", fmt.Errorf("unsupported database url scheme: %s", url)
	}
	return sqliteDialect, url, nil
}

// listQuery builds the SELECT for ListPrompts. opts must already be normalized.
func (d dialect) listQuery(opts prompt.ListOptions) (string, []any, error) {
	col, ok := sortColumns[opts.Sort]
	if !ok {
		return "", nil, prompt.ErrInvalidSort
	}
	dir, ok := sortOrders[opts.Order]
	if !ok {
		return "", nil, prompt.ErrInvalidSort
	}
	if opts.Sort == prompt.SortTitle {
		col += d.collate
	}

	var b strings.Builder
	var args []any
	b.WriteString("SELECT " + columns + " FROM prompts")

	if opts.Search != "" {
		args = append(args, opts.Search, opts.Search)
		fmt.Fprintf(&b, " WHERE (%s OR %s)",
			d.contains("title", d.bind(1)),
			d.contains("prompt", d.bind(2)),
		)
	}

	fmt.Fprintf(&b, " ORDER BY %s %s, id %s", col, dir, dir)
	return b.String(), args, nil
}
