// Package sqlite provides a SQLite implementation of the RelationalDB interface.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/infrastructure/config"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// foldFunc is a SQL function applying entities.NormalizeName, so name
// matching folds non-ASCII letters the same way Go does.
const foldFunc = "travel_fold"

var registerOnce sync.Once
var registerErr error

func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction(foldFunc, 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case string:
					return entities.NormalizeName(v), nil
				case []byte:
					return entities.NormalizeName(string(v)), nil
				default:
					return nil, nil
				}
			})
	})
	return registerErr
}

// Repository implements ports.RelationalDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.DatabaseConfig) (*Repository, error) {
	if cfg.SQLitePath == "" {
		return nil, errors.New("sqlite path is required")
	}

	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("registering sqlite functions: %w", err)
	}

	if cfg.SQLitePath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection: SQLite has a single writer, and every :memory:
	// connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %q: %w", pragma, err)
		}
	}

	return &Repository{
		db:   db,
		path: cfg.SQLitePath,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// Ping verifies the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureSchema creates the database schema if it doesn't exist. Tables
// created elsewhere, e.g. by a migrate script, get the unique indexes added;
// duplicate visited rows are collapsed to the oldest one first.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	tables := `
	-- Reference countries (seeded once, read-only at runtime)
	CREATE TABLE IF NOT EXISTS countries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country_code TEXT NOT NULL UNIQUE,
		country_name TEXT NOT NULL UNIQUE
	);

	-- Visited countries (at most one row per code)
	CREATE TABLE IF NOT EXISTS visited_countries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country_code TEXT NOT NULL UNIQUE REFERENCES countries(country_code) ON DELETE CASCADE
	);
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, tables); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM visited_countries
		WHERE id NOT IN (SELECT MIN(id) FROM visited_countries GROUP BY country_code)
	`); err != nil {
		return fmt.Errorf("removing duplicate visited countries: %w", err)
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_countries_country_code ON countries(country_code)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_countries_country_name ON countries(country_name)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_visited_countries_country_code ON visited_countries(country_code)`,
	}
	for _, index := range indexes {
		if _, err := tx.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}

// FindCountryByName finds a country by case-insensitive name.
func (r *Repository) FindCountryByName(ctx context.Context, name string) (*entities.Country, error) {
	query := `
		SELECT country_code, country_name
		FROM countries
		WHERE ` + foldFunc + `(country_name) = ?
		ORDER BY id
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, entities.NormalizeName(name))

	var country entities.Country
	err := row.Scan(&country.Code, &country.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning country: %w", err)
	}
	return &country, nil
}

// ListCountries lists all countries ordered by name.
func (r *Repository) ListCountries(ctx context.Context) ([]entities.Country, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT country_code, country_name FROM countries ORDER BY country_name`)
	if err != nil {
		return nil, fmt.Errorf("querying countries: %w", err)
	}
	defer rows.Close()

	var result []entities.Country
	for rows.Next() {
		var c entities.Country
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning country: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// CountCountries returns the number of reference countries.
func (r *Repository) CountCountries(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting countries: %w", err)
	}
	return count, nil
}

// SaveCountries inserts countries in one transaction, skipping rows whose
// code or name already exists.
func (r *Repository) SaveCountries(ctx context.Context, countries []entities.Country) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO countries (country_code, country_name)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, c := range countries {
		res, err := stmt.ExecContext(ctx, c.Code, c.Name)
		if err != nil {
			return 0, fmt.Errorf("inserting country %s: %w", c.Code, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("reading rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing countries: %w", err)
	}
	return inserted, nil
}

// ListVisitedCodes returns visited codes in insertion order.
func (r *Repository) ListVisitedCodes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT country_code FROM visited_countries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying visited countries: %w", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning visited country: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// InsertVisited records code as visited. The unique constraint makes the
// check and the insert a single atomic statement.
func (r *Repository) InsertVisited(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO visited_countries (country_code)
		VALUES (?)
		ON CONFLICT(country_code) DO NOTHING
	`, code)
	if err != nil {
		return fmt.Errorf("inserting visited country: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return entities.ErrAlreadyVisited
	}
	return nil
}

// DeleteVisited removes every row for code.
func (r *Repository) DeleteVisited(ctx context.Context, code string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM visited_countries WHERE country_code = ?`, code)
	if err != nil {
		return 0, fmt.Errorf("deleting visited country: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}

// ExecStatement runs a single raw SQL statement.
func (r *Repository) ExecStatement(ctx context.Context, statement string) error {
	if _, err := r.db.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}
