package services

import (
	"context"
	"fmt"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/ports"
)

// CountryService manages the reference country table.
type CountryService struct {
	countries ports.CountryStore
}

// NewCountryService creates a new CountryService.
func NewCountryService(countries ports.CountryStore) *CountryService {
	return &CountryService{
		countries: countries,
	}
}

// List returns all reference countries ordered by name.
func (s *CountryService) List(ctx context.Context) ([]entities.Country, error) {
	countries, err := s.countries.ListCountries(ctx)
	if err != nil {
		return nil, entities.StorageError(fmt.Errorf("listing countries: %w", err))
	}
	return countries, nil
}

// Count returns the number of reference countries.
func (s *CountryService) Count(ctx context.Context) (int, error) {
	count, err := s.countries.CountCountries(ctx)
	if err != nil {
		return 0, entities.StorageError(fmt.Errorf("counting countries: %w", err))
	}
	return count, nil
}

// SeedResult counts what happened to each row passed to Seed.
type SeedResult struct {
	Inserted int
	Existing int // code or name already present
	Invalid  int // blank code or name
}

// Seed inserts the given countries, normalizing codes and skipping blank
// rows. Existing codes are left untouched.
func (s *CountryService) Seed(ctx context.Context, countries []entities.Country) (SeedResult, error) {
	var result SeedResult
	clean := make([]entities.Country, 0, len(countries))
	for _, c := range countries {
		code := entities.NormalizeCode(c.Code)
		if code == "" || c.Name == "" {
			result.Invalid++
			continue
		}
		clean = append(clean, entities.Country{Code: code, Name: c.Name})
	}
	if len(clean) == 0 {
		return result, nil
	}

	inserted, err := s.countries.SaveCountries(ctx, clean)
	if err != nil {
		return SeedResult{}, entities.StorageError(fmt.Errorf("seeding countries: %w", err))
	}
	result.Inserted = inserted
	result.Existing = len(clean) - inserted
	return result, nil
}
