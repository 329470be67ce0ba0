package entities

import "strings"

// Country is a row of the reference table. It is seeded once and never
// mutated by the application.
type Country struct {
	Code string `json:"code"` // Stable identifier, e.g. "FR"
	Name string `json:"name"` // Display name, e.g. "France"
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeCode trims and upper-cases a country code. Map region ids use the
// same form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// UniqueCodes returns codes with duplicates removed, preserving first-seen order.
func UniqueCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	result := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		result = append(result, code)
	}
	return result
}
