// Package loopcall detects per-row store calls inside loops.
package loopcall

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects store calls inside loops that should use a batch method.
var Analyzer = &analysis.Analyzer{
	Name:     "loopcall",
	Doc:      "detects per-row store calls inside loops that should be batched",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// rowMethods are store methods that touch a single row or scan a whole table.
// ExecStatement is left out: scripts run one statement at a time.
var rowMethods = map[string]string{
	"FindCountryByName": "ListCountries",
	"InsertVisited":     "",
	"DeleteVisited":     "",
	"ListCountries":     "",
	"ListVisitedCodes":  "",
	"CountCountries":    "",
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// Goroutines started in a loop run concurrently, not one after another.
			if _, ok := n.(*ast.GoStmt); ok {
				return false
			}

			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			methodName := sel.Sel.Name
			batch, found := rowMethods[methodName]
			if !found {
				return true
			}

			if batch != "" {
				pass.Reportf(call.Pos(),
					"potential N+1: %s called inside loop - load once with %s",
					methodName, batch)
			} else {
				pass.Reportf(call.Pos(),
					"potential N+1: %s called inside loop - consider batching",
					methodName)
			}
			return true
		})
	})

	return nil, nil
}
