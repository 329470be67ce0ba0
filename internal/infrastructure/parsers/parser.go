// Package parsers reads country seed files and SQL scripts.
package parsers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

// CountryParser parses reference countries from an external source.
type CountryParser interface {
	Parse(r io.Reader) ([]entities.Country, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) CountryParser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) CountryParser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}
