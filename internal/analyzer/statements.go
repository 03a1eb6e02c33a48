package analyzer

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// typeCheckCodeBlock checks a block in its own scope. The block takes the
// type of its implicit return, or unit when there is none.
func (c checkContext) typeCheckCodeBlock(block *ast.CodeBlock, annotation typesystem.TypeID) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	inner := c.scoped(symbols.ScopeBlock)
	contents := make([]typed.AstNode, 0, len(block.Contents))
	var returnType typesystem.TypeID

	for _, node := range block.Contents {
		var content typed.AstNodeContent
		switch stmt := node.Content.(type) {
		case *ast.VariableDeclaration:
			decl := inner.typeCheckVariableDeclaration(stmt, &warnings, &errors)
			inner.ns.Insert(symbols.Symbol{
				Name:      decl.Name.Value,
				Kind:      symbols.VariableSymbol,
				TypeID:    decl.Body.ReturnType,
				IsMutable: decl.IsMutable,
				Token:     decl.Name.Token,
			})
			content = decl
		case *ast.ExpressionStatement:
			expr := inner.typeCheckExpressionOrRecover(stmt.Expression, c.engine.InsertUnknown(), "", &warnings, &errors)
			content = &typed.ExpressionStatement{Expression: expr}
		case *ast.ImplicitReturn:
			expr := inner.typeCheckExpressionOrRecover(stmt.Expression, annotation,
				"the block's value does not match the expected type", &warnings, &errors)
			returnType = expr.ReturnType
			content = &typed.ImplicitReturn{Expression: expr}
		case *ast.ReturnStatement:
			var expr *typed.Expression
			if stmt.Expression == nil {
				expr = &typed.Expression{Variant: typed.Tuple{}, ReturnType: c.engine.InsertUnit(), IsConstant: true, Span: stmt.Token}
				w, errs := c.unify(expr.ReturnType, c.fnReturn, stmt.Token, "the function's return type is not ()")
				warnings = append(warnings, w...)
				errors = append(errors, errs...)
			} else {
				expr = inner.typeCheckExpressionOrRecover(stmt.Expression, c.fnReturn,
					"returned value does not match the function's return type", &warnings, &errors)
			}
			content = &typed.ReturnStatement{Expression: expr}
		default:
			errors = append(errors, diagnostics.NewInternalError(node.Token, "unhandled statement kind"))
			continue
		}
		contents = append(contents, typed.AstNode{Content: content, Span: node.Token})
	}

	if !returnType.IsValid() {
		returnType = c.engine.InsertUnit()
		w, errs := c.unify(returnType, annotation, block.Token, "this block has no value")
		warnings = append(warnings, w...)
		errors = append(errors, errs...)
	}
	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.CodeBlock{Contents: contents},
		ReturnType: returnType,
		Span:       block.Token,
	}, warnings, errors)
}

func (c checkContext) typeCheckVariableDeclaration(stmt *ast.VariableDeclaration, warnings, errors *[]*diagnostics.DiagnosticError) *typed.VariableDeclaration {
	ascription := c.engine.InsertUnknown()
	if stmt.TypeAscription != nil {
		id, err := c.ns.ResolveType(stmt.TypeAscription, c.self)
		if err != nil {
			*errors = append(*errors, err)
		} else {
			ascription = id
		}
	}
	body := c.typeCheckExpressionOrRecover(stmt.Body, ascription,
		"variable declaration's type annotation does not match up with the assigned expression's type", warnings, errors)
	return &typed.VariableDeclaration{
		Name:           stmt.Name,
		Body:           body,
		IsMutable:      stmt.IsMutable,
		TypeAscription: ascription,
	}
}
