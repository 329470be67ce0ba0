package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/services"
	"github.com/ersonp/travel-tracker/internal/infrastructure/parsers"
)

// ImportHandler handles seeding reference countries from files.
type ImportHandler struct {
	service *services.CountryService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.CountryService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Parsed   int
	Imported int
	Skipped  int // already present
	Invalid  int // blank code or name
}

// Handle imports countries from a file. Format is "json", "csv", or empty
// to detect it from the file extension.
func (h *ImportHandler) Handle(ctx context.Context, filePath, format string) (*ImportResult, error) {
	var parser parsers.CountryParser
	if format == "" || format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	countries, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	return h.HandleCountries(ctx, countries)
}

// HandleCountries seeds already-parsed countries.
func (h *ImportHandler) HandleCountries(ctx context.Context, countries []entities.Country) (*ImportResult, error) {
	if len(countries) == 0 {
		return &ImportResult{}, nil
	}

	seeded, err := h.service.Seed(ctx, countries)
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Parsed:   len(countries),
		Imported: seeded.Inserted,
		Skipped:  seeded.Existing,
		Invalid:  seeded.Invalid,
	}, nil
}
