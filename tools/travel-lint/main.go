// travel-lint is a custom static analyzer for travel-tracker storage patterns.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/travel-tracker/tools/travel-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
