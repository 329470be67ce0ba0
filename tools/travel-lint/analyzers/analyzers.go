// Package analyzers provides all custom static analyzers for travel-tracker.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/travel-tracker/tools/travel-lint/analyzers/loopcall"
	"github.com/ersonp/travel-tracker/tools/travel-lint/analyzers/sqlconcat"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		loopcall.Analyzer,
		sqlconcat.Analyzer,
	}
}
