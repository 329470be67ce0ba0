package a

import (
	"context"
	"fmt"
)

type DB struct{}

func (DB) ExecContext(ctx context.Context, query string, args ...any) error { return nil }
func (DB) QueryRow(query string, args ...any) error                      { return nil }

const listVisited = "SELECT country_code FROM visited_countries"

func bad(ctx context.Context, db DB, table, code string) {
	db.ExecContext(ctx, "DELETE FROM "+table+" WHERE country_code = ?", code) // want "SQL built by string concatenation passed to ExecContext"
	db.QueryRow(fmt.Sprintf("SELECT 1 FROM countries WHERE country_code = '%s'", code)) // want "SQL built by fmt.Sprintf passed to QueryRow"
}

func good(ctx context.Context, db DB, code string) {
	db.ExecContext(ctx, "DELETE FROM visited_countries WHERE country_code = ?", code)
	db.QueryRow(listVisited + " ORDER BY id")
	db.QueryRow(listVisited)
}
