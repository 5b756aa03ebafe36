// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func openSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return db, nil
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func loadSQLite(ctx context.Context, path, table, column string) ([]string, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	cols, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(cols, column) {
		return nil, fmt.Errorf("%w: %q in table %s (columns: %v)", ErrColumnNotFound, column, table, cols)
	}

	// Non-text values (numbers, blobs) do not count as documents.
	query := fmt.Sprintf(`SELECT CASE WHEN typeof(%[1]s) = 'text' THEN %[1]s END FROM %[2]s`,
		quoteIdent(column), quoteIdent(table))

	var rows []sql.NullString
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("reading %s.%s: %w", table, column, err)
	}

	docs := make([]string, len(rows))
	for i, r := range rows {
		docs[i] = r.String
	}
	return docs, nil
}

// columnInfo is one row of PRAGMA table_info.
type columnInfo struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

func tableColumns(ctx context.Context, db *sqlx.DB, table string) ([]string, error) {
	var info []columnInfo
	if err := db.SelectContext(ctx, &info, "PRAGMA table_info("+quoteIdent(table)+")"); err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	cols := make([]string, len(info))
	for i, c := range info {
		cols[i] = c.Name
	}
	return cols, nil
}

func sqliteColumns(ctx context.Context, path, table string) ([]string, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return tableColumns(ctx, db, table)
}

// sqliteTables lists user tables, for inspecting a database without --table.
func sqliteTables(ctx context.Context, path string) ([]string, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var names []string
	if err := db.SelectContext(ctx, &names,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`); err != nil {
		return nil, fmt.Errorf("listing tables of %s: %w", path, err)
	}
	return names, nil
}
