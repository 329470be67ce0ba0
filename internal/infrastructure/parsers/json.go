package parsers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

// JSONParser parses countries from a JSON array of {"code","name"} objects.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed countries.
func (p *JSONParser) Parse(r io.Reader) ([]entities.Country, error) {
	var countries []entities.Country

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&countries); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	for i := range countries {
		countries[i].Code = entities.NormalizeCode(countries[i].Code)
		countries[i].Name = strings.TrimSpace(countries[i].Name)
		if countries[i].Code == "" || countries[i].Name == "" {
			return nil, fmt.Errorf("entry %d: country code and name are required", i+1)
		}
	}

	return countries, nil
}
