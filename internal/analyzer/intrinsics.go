package analyzer

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// typeCheckIntrinsic checks a call to a compiler intrinsic.
func (c checkContext) typeCheckIntrinsic(e *ast.IntrinsicFunction) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	name := e.Name.Value

	var wantArgs, wantTypeArgs int
	var returnType typesystem.TypeID
	constant := false
	switch name {
	case config.IsReferenceTypeIntrinsic:
		wantTypeArgs = 1
		returnType = c.engine.InsertBool()
		constant = true
	case config.SizeOfIntrinsic:
		wantTypeArgs = 1
		returnType = c.engine.InsertU64()
	case config.SizeOfValIntrinsic:
		wantArgs = 1
		returnType = c.engine.InsertU64()
	default:
		errors = append(errors, diagnostics.NewError(diagnostics.ErrA001, e.Name.Token,
			"unknown intrinsic `%s`", name))
		return diagnostics.Err[*typed.Expression](warnings, errors)
	}

	if len(e.Arguments) != wantArgs {
		errors = append(errors, diagnostics.NewError(diagnostics.ErrA023, e.Token,
			"`%s` expects %d argument(s), found %d", name, wantArgs, len(e.Arguments)))
		return diagnostics.Err[*typed.Expression](warnings, errors)
	}
	if len(e.TypeArguments) != wantTypeArgs {
		errors = append(errors, diagnostics.NewError(diagnostics.ErrA023, e.Token,
			"`%s` expects %d type argument(s), found %d", name, wantTypeArgs, len(e.TypeArguments)))
		return diagnostics.Err[*typed.Expression](warnings, errors)
	}

	typeArgs := make([]typesystem.TypeID, len(e.TypeArguments))
	for i, ta := range e.TypeArguments {
		id, err := c.ns.ResolveType(ta.Type, c.self)
		if err != nil {
			errors = append(errors, err)
			return diagnostics.Err[*typed.Expression](warnings, errors)
		}
		typeArgs[i] = id
	}
	args := make([]*typed.Expression, len(e.Arguments))
	for i, arg := range e.Arguments {
		args[i] = c.typeCheckExpressionOrRecover(arg, c.engine.InsertUnknown(), "", &warnings, &errors)
	}

	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.Intrinsic{Name: name, Arguments: args, TypeArguments: typeArgs},
		ReturnType: returnType,
		IsConstant: constant,
		Span:       e.Token,
	}, warnings, errors)
}
