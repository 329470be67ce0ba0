package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/services"
)

// CountryHandler handles reference country queries.
type CountryHandler struct {
	service *services.CountryService
}

// NewCountryHandler creates a new country handler.
func NewCountryHandler(service *services.CountryService) *CountryHandler {
	return &CountryHandler{
		service: service,
	}
}

// HandleList returns all reference countries ordered by name.
func (h *CountryHandler) HandleList(ctx context.Context) ([]entities.Country, error) {
	countries, err := h.service.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing countries: %w", err)
	}
	return countries, nil
}

// HandleCount returns the number of reference countries.
func (h *CountryHandler) HandleCount(ctx context.Context) (int, error) {
	return h.service.Count(ctx)
}
