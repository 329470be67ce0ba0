// Package ports defines interfaces for storage the application depends on.
package ports

import (
	"context"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

// CountryStore reads the static country reference table.
type CountryStore interface {
	// FindCountryByName finds a country by exact, case-insensitive name.
	// Returns nil if no country matches.
	FindCountryByName(ctx context.Context, name string) (*entities.Country, error)

	// ListCountries lists all reference countries ordered by name.
	ListCountries(ctx context.Context) ([]entities.Country, error)

	// CountCountries returns the number of reference countries.
	CountCountries(ctx context.Context) (int, error)

	// SaveCountries inserts reference countries, skipping codes already present.
	// Returns the number of rows inserted.
	SaveCountries(ctx context.Context, countries []entities.Country) (int, error)
}

// VisitedStore records which country codes have been visited.
type VisitedStore interface {
	// ListVisitedCodes returns visited codes in insertion order.
	ListVisitedCodes(ctx context.Context) ([]string, error)

	// InsertVisited atomically records code as visited.
	// Returns entities.ErrAlreadyVisited if the code is already recorded.
	InsertVisited(ctx context.Context, code string) error

	// DeleteVisited removes every row for code and returns the number removed.
	DeleteVisited(ctx context.Context, code string) (int64, error)
}

// ScriptExecutor runs raw SQL statements for the batch loader.
type ScriptExecutor interface {
	ExecStatement(ctx context.Context, statement string) error
}

// RelationalDB is the storage capability the application is built on.
// Implementations own their connection pool: acquire on construction,
// release on Close.
type RelationalDB interface {
	CountryStore
	VisitedStore
	ScriptExecutor

	// EnsureSchema creates the tables and constraints if they don't exist.
	EnsureSchema(ctx context.Context) error

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
