package entities

import "fmt"

// Statement is a single SQL statement taken from a script.
type Statement struct {
	SQL  string `json:"sql"`
	Line int    `json:"line"` // 1-based line where the statement starts
}

// Summary returns the first line of the statement, cut to maxLen characters.
func (s Statement) Summary(maxLen int) string {
	first := s.SQL
	for i, r := range first {
		if r == '\n' {
			first = first[:i]
			break
		}
	}
	runes := []rune(first)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	if len(first) < len(s.SQL) {
		return first + "..."
	}
	return first
}

// StatementError records a statement that failed during a script run.
type StatementError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e StatementError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e StatementError) Unwrap() error {
	return e.Err
}

// MigrationResult summarises a script run.
type MigrationResult struct {
	Executed int              `json:"executed"`
	Failed   int              `json:"failed"`
	Errors   []StatementError `json:"-"`
}

// Total returns the number of statements attempted.
func (r *MigrationResult) Total() int {
	return r.Executed + r.Failed
}
