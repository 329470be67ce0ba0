// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

// RelationalDB is an in-memory mock implementation of ports.RelationalDB.
// Setting an *Err field makes the matching method fail.
type RelationalDB struct {
	mu        sync.Mutex
	Countries map[string]entities.Country // keyed by code
	Visited   []string

	Err         error // applies to every method when set
	FindErr     error
	ListErr     error
	InsertErr   error
	DeleteErr   error
	PingErr     error
	ExecErrs    map[string]error // statement -> error
	Executed    []string
	SchemaCalls int
	InsertCalls int
	DeleteCalls int
	Closed      bool
}

// NewRelationalDB creates a mock seeded with the given countries.
func NewRelationalDB(countries ...entities.Country) *RelationalDB {
	m := &RelationalDB{
		Countries: make(map[string]entities.Country),
		ExecErrs:  make(map[string]error),
	}
	for _, c := range countries {
		m.Countries[c.Code] = c
	}
	return m
}

// EnsureSchema records the call.
func (m *RelationalDB) EnsureSchema(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SchemaCalls++
	return m.Err
}

// Ping returns PingErr or Err.
func (m *RelationalDB) Ping(_ context.Context) error {
	if m.PingErr != nil {
		return m.PingErr
	}
	return m.Err
}

// Close marks the mock closed.
func (m *RelationalDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Country methods.

// FindCountryByName finds a country by case-insensitive name.
func (m *RelationalDB) FindCountryByName(_ context.Context, name string) (*entities.Country, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	normalized := entities.NormalizeName(name)
	for _, c := range m.Countries {
		if entities.NormalizeName(c.Name) == normalized {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

// ListCountries lists countries ordered by name.
func (m *RelationalDB) ListCountries(_ context.Context) ([]entities.Country, error) {
	if err := m.firstErr(nil); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.Country, 0, len(m.Countries))
	for _, c := range m.Countries {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// CountCountries returns the number of countries.
func (m *RelationalDB) CountCountries(_ context.Context) (int, error) {
	if err := m.firstErr(nil); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Countries), nil
}

// SaveCountries inserts countries whose code is not yet present.
func (m *RelationalDB) SaveCountries(_ context.Context, countries []entities.Country) (int, error) {
	if err := m.firstErr(nil); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, c := range countries {
		if _, ok := m.Countries[c.Code]; ok {
			continue
		}
		m.Countries[c.Code] = c
		inserted++
	}
	return inserted, nil
}

// Visited methods.

// ListVisitedCodes returns visited codes in insertion order.
func (m *RelationalDB) ListVisitedCodes(_ context.Context) ([]string, error) {
	if err := m.firstErr(m.ListErr); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.Visited))
	copy(result, m.Visited)
	return result, nil
}

// InsertVisited appends code unless it is already present.
func (m *RelationalDB) InsertVisited(_ context.Context, code string) error {
	m.mu.Lock()
	m.InsertCalls++
	m.mu.Unlock()
	if err := m.firstErr(m.InsertErr); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.Visited {
		if v == code {
			return entities.ErrAlreadyVisited
		}
	}
	m.Visited = append(m.Visited, code)
	return nil
}

// DeleteVisited removes every occurrence of code.
func (m *RelationalDB) DeleteVisited(_ context.Context, code string) (int64, error) {
	m.mu.Lock()
	m.DeleteCalls++
	m.mu.Unlock()
	if err := m.firstErr(m.DeleteErr); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Visited[:0]
	var removed int64
	for _, v := range m.Visited {
		if v == code {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	m.Visited = kept
	return removed, nil
}

// ExecStatement records the statement and returns its configured error.
func (m *RelationalDB) ExecStatement(_ context.Context, statement string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Executed = append(m.Executed, statement)
	if err, ok := m.ExecErrs[statement]; ok {
		return err
	}
	return m.Err
}

func (m *RelationalDB) firstErr(specific error) error {
	if specific != nil {
		return specific
	}
	return m.Err
}
