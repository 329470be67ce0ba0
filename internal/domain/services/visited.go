// Package services contains domain business logic.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/ports"
)

// VisitedService reads and mutates the visited list.
type VisitedService struct {
	countries ports.CountryStore
	visited   ports.VisitedStore
}

// NewVisitedService creates a new VisitedService.
func NewVisitedService(countries ports.CountryStore, visited ports.VisitedStore) *VisitedService {
	return &VisitedService{
		countries: countries,
		visited:   visited,
	}
}

// List returns the visited country codes in storage order.
func (s *VisitedService) List(ctx context.Context) ([]string, error) {
	codes, err := s.visited.ListVisitedCodes(ctx)
	if err != nil {
		return nil, entities.StorageError(fmt.Errorf("listing visited countries: %w", err))
	}
	return codes, nil
}

// Resolve finds the reference country for a user-supplied name.
// Blank input never matches.
func (s *VisitedService) Resolve(ctx context.Context, rawName string) (*entities.Country, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return nil, entities.ErrCountryNotFound
	}

	country, err := s.countries.FindCountryByName(ctx, name)
	if err != nil {
		return nil, entities.StorageError(fmt.Errorf("finding country %q: %w", name, err))
	}
	if country == nil {
		return nil, entities.ErrCountryNotFound
	}
	return country, nil
}

// Add marks the named country as visited.
func (s *VisitedService) Add(ctx context.Context, rawName string) (entities.Outcome, error) {
	country, err := s.Resolve(ctx, rawName)
	if errors.Is(err, entities.ErrCountryNotFound) {
		return entities.OutcomeNotFound, nil
	}
	if err != nil {
		return "", err
	}

	err = s.visited.InsertVisited(ctx, country.Code)
	if errors.Is(err, entities.ErrAlreadyVisited) {
		return entities.OutcomeDuplicate, nil
	}
	if err != nil {
		return "", entities.StorageError(fmt.Errorf("adding visited country %s: %w", country.Code, err))
	}
	return entities.OutcomeAdded, nil
}

// Remove removes the named country from the visited list.
func (s *VisitedService) Remove(ctx context.Context, rawName string) (entities.Outcome, error) {
	country, err := s.Resolve(ctx, rawName)
	if errors.Is(err, entities.ErrCountryNotFound) {
		return entities.OutcomeNotFound, nil
	}
	if err != nil {
		return "", err
	}

	removed, err := s.visited.DeleteVisited(ctx, country.Code)
	if err != nil {
		return "", entities.StorageError(fmt.Errorf("removing visited country %s: %w", country.Code, err))
	}
	if removed == 0 {
		return entities.OutcomeNotInVisited, nil
	}
	return entities.OutcomeRemoved, nil
}
