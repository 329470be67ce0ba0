package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

// Accepted header spellings for each column.
var (
	codeColumns = []string{"country_code", "code"}
	nameColumns = []string{"country_name", "name"}
)

// CSVParser parses countries from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed countries.
// Expected columns: country_code (or code), country_name (or name).
func (p *CSVParser) Parse(r io.Reader) ([]entities.Country, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	codeIdx, nameIdx, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, codeIdx, nameIdx)
}

// readHeader reads the header row and locates the code and name columns.
func (p *CSVParser) readHeader(reader *csv.Reader) (int, int, error) {
	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	codeIdx, ok := findColumn(colIndex, codeColumns)
	if !ok {
		return 0, 0, fmt.Errorf("missing required column: %s", codeColumns[0])
	}
	nameIdx, ok := findColumn(colIndex, nameColumns)
	if !ok {
		return 0, 0, fmt.Errorf("missing required column: %s", nameColumns[0])
	}

	return codeIdx, nameIdx, nil
}

// readRecords reads all data rows.
func (p *CSVParser) readRecords(reader *csv.Reader, codeIdx, nameIdx int) ([]entities.Country, error) {
	var countries []entities.Country
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		country := entities.Country{
			Code: entities.NormalizeCode(getColumn(record, codeIdx)),
			Name: strings.TrimSpace(getColumn(record, nameIdx)),
		}
		if country.Code == "" || country.Name == "" {
			return nil, fmt.Errorf("line %d: country code and name are required", lineNum)
		}
		countries = append(countries, country)
	}

	return countries, nil
}

func findColumn(colIndex map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := colIndex[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}
