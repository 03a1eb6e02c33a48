package analyzer

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// typeCheckMatchBranch lowers one branch of a match on exp: the pattern's
// bindings become `let` declarations at the top of a synthetic block that
// also holds the branch body. The branch scope is discarded afterwards, so
// bindings never leak into sibling branches.
func (c checkContext) typeCheckMatchBranch(exp *typed.Expression, branch ast.MatchBranch, annotation typesystem.TypeID) diagnostics.Result[typed.MatchBranch] {
	var warnings, errors []*diagnostics.DiagnosticError
	var m matchResult
	if !branch.Condition.IsCatchAll {
		scrutinee, ok := diagnostics.Check(c.typeCheckScrutinee(branch.Condition.Scrutinee, exp.ReturnType), &warnings, &errors)
		if !ok {
			return diagnostics.Err[typed.MatchBranch](warnings, errors)
		}
		m, ok = diagnostics.Check(c.matcher(exp, scrutinee), &warnings, &errors)
		if !ok {
			return diagnostics.Err[typed.MatchBranch](warnings, errors)
		}
	}

	inner := c.scoped(symbols.ScopeBranch)
	contents := make([]typed.AstNode, 0, len(m.Declarations)+1)
	for _, d := range m.Declarations {
		if inner.ns.IsDefinedLocally(d.Name.Value) {
			warnings = append(warnings, diagnostics.NewWarning(diagnostics.WarnW002, d.Name.Token,
				"`%s` is bound more than once in this pattern; the last binding is used", d.Name.Value))
		}
		// Later bindings of the same name shadow earlier ones.
		inner.ns.Insert(symbols.Symbol{
			Name:   d.Name.Value,
			Kind:   symbols.VariableSymbol,
			TypeID: d.Value.ReturnType,
			Token:  d.Name.Token,
		})
		contents = append(contents, typed.AstNode{
			Content: &typed.VariableDeclaration{
				Name:           d.Name,
				Body:           d.Value,
				TypeAscription: d.Value.ReturnType,
			},
			Span: d.Name.Token,
		})
	}

	result, ok := diagnostics.Check(inner.typeCheckExpression(branch.Result, annotation,
		"match branches must all have the same type"), &warnings, &errors)
	if !ok {
		return diagnostics.Err[typed.MatchBranch](warnings, errors)
	}

	if block, ok := result.Variant.(typed.CodeBlock); ok {
		contents = append(contents, block.Contents...)
	} else {
		contents = append(contents, typed.AstNode{
			Content: &typed.ImplicitReturn{Expression: result},
			Span:    result.Span,
		})
	}

	return diagnostics.Ok(typed.MatchBranch{
		Result: &typed.Expression{
			Variant:    typed.CodeBlock{Contents: contents},
			ReturnType: result.ReturnType,
			Span:       branch.Token,
		},
		Condition:    branch.Condition,
		Requirements: m.Requirements,
	}, warnings, errors)
}

// typeCheckMatchExpression checks the matched value and lowers every branch.
// A branch that fails is dropped after its diagnostics are recorded; the
// remaining branches are still checked. All branch results share one type.
func (c checkContext) typeCheckMatchExpression(e *ast.MatchExpression, annotation typesystem.TypeID) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	value := c.typeCheckExpressionOrRecover(e.Value, c.engine.InsertUnknown(), "", &warnings, &errors)
	if c.isRecovered(value) {
		return diagnostics.Ok(c.errorRecovery(e.Token), warnings, errors)
	}

	branches := make([]typed.MatchBranch, 0, len(e.Branches))
	for _, b := range e.Branches {
		branch, ok := diagnostics.Check(c.typeCheckMatchBranch(value, b, annotation), &warnings, &errors)
		if !ok {
			continue
		}
		branches = append(branches, branch)
	}
	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.MatchExpression{Value: value, Branches: branches},
		ReturnType: annotation,
		Span:       e.Token,
	}, warnings, errors)
}
