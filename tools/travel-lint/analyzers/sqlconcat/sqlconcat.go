// Package sqlconcat detects SQL text assembled at runtime and passed to a query method.
package sqlconcat

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports query calls whose SQL argument is built with + or fmt.Sprintf.
var Analyzer = &analysis.Analyzer{
	Name:     "sqlconcat",
	Doc:      "detects SQL built by concatenation or formatting instead of placeholders",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// queryMethods take the SQL text as their first string argument.
var queryMethods = map[string]bool{
	"Exec":            true,
	"ExecContext":     true,
	"Query":           true,
	"QueryContext":    true,
	"QueryRow":        true,
	"QueryRowContext": true,
	"Prepare":         true,
	"PrepareContext":  true,
	"Raw":             true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !queryMethods[sel.Sel.Name] {
			return
		}
		if _, isMethod := pass.TypesInfo.Selections[sel]; !isMethod {
			return
		}

		arg := sqlArg(pass, call)
		if arg == nil || isConstant(pass, arg) {
			return
		}

		switch {
		case isConcat(arg):
			pass.Reportf(arg.Pos(),
				"SQL built by string concatenation passed to %s - use placeholders",
				sel.Sel.Name)
		case isSprintf(pass, arg):
			pass.Reportf(arg.Pos(),
				"SQL built by fmt.Sprintf passed to %s - use placeholders",
				sel.Sel.Name)
		}
	})

	return nil, nil
}

// sqlArg returns the first argument of string type.
func sqlArg(pass *analysis.Pass, call *ast.CallExpr) ast.Expr {
	for _, arg := range call.Args {
		tv, ok := pass.TypesInfo.Types[arg]
		if !ok {
			continue
		}
		if basic, ok := tv.Type.Underlying().(*types.Basic); ok && basic.Info()&types.IsString != 0 {
			return arg
		}
	}
	return nil
}

func isConstant(pass *analysis.Pass, expr ast.Expr) bool {
	tv, ok := pass.TypesInfo.Types[expr]
	return ok && tv.Value != nil
}

func isConcat(expr ast.Expr) bool {
	bin, ok := ast.Unparen(expr).(*ast.BinaryExpr)
	return ok && bin.Op == token.ADD
}

func isSprintf(pass *analysis.Pass, expr ast.Expr) bool {
	call, ok := ast.Unparen(expr).(*ast.CallExpr)
	if !ok {
		return false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Sprintf" {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	return ok && fn.Pkg() != nil && fn.Pkg().Path() == "fmt"
}
