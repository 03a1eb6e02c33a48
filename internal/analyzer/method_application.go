package analyzer

import (
	"fmt"
	"strings"

	"github.com/funvibe/contractc/internal/abi"
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// typeCheckMethodApplication resolves a method call to its declaration and
// checks it. Failing to find the method fails the expression; every other
// problem is reported and the call is still built.
func (c checkContext) typeCheckMethodApplication(ma *ast.MethodApplication) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError

	// Arguments are inferred bottom-up so that the receiver type is known
	// before the method is looked up.
	args := make([]*typed.Expression, 0, len(ma.Arguments))
	for _, arg := range ma.Arguments {
		args = append(args, c.typeCheckExpressionOrRecover(arg, c.engine.InsertUnknown(), "", &warnings, &errors))
	}

	// The receiver failed already; its error is reported.
	if ma.MethodName.TypeName == nil && len(args) > 0 && c.isRecovered(args[0]) {
		return diagnostics.Ok(c.errorRecovery(ma.Token), warnings, errors)
	}

	method, ok := diagnostics.Check(c.resolveMethodName(ma, args), &warnings, &errors)
	if !ok {
		return diagnostics.Err[*typed.Expression](warnings, errors)
	}
	methodName := ma.MethodName.EasyName()

	var selector *typed.ContractCallMetadata
	if method.IsContractCall {
		if len(args) == 0 {
			errors = append(errors, diagnostics.NewInternalError(ma.Token, "contract call without a contract caller receiver"))
			return diagnostics.Err[*typed.Expression](warnings, errors)
		}
		receiver := args[0]
		args = args[1:]
		caller, ok := c.engine.LookUp(receiver.ReturnType).(typesystem.ContractCaller)
		if !ok || caller.Address == nil {
			errors = append(errors, diagnostics.NewError(diagnostics.ErrA015, receiver.Span,
				"address must be known: calling `%s` requires a contract caller created with `abi(%s, address)`",
				methodName.Value, abiNameOf(caller)))
			return diagnostics.Err[*typed.Expression](warnings, errors)
		}
		sel, err := abi.Selector(c.engine, method)
		if err != nil {
			errors = append(errors, diagnostics.NewError(diagnostics.ErrA003, methodName.Token,
				"cannot compute the selector of `%s`: %v", methodName.Value, err))
		}
		selector = &typed.ContractCallMetadata{FuncSelector: sel, ContractAddress: receiver}
	}

	if err := c.checkPurity(methodName, method); err != nil {
		errors = append(errors, err)
	}

	var contractParams map[string]*typed.Expression
	if method.IsContractCall {
		contractParams = c.typeCheckContractCallParams(ma.ContractCallParams, &warnings, &errors)
	} else if len(ma.ContractCallParams) > 0 {
		spans := make([]token.Token, len(ma.ContractCallParams))
		for i, p := range ma.ContractCallParams {
			spans[i] = p.Name.Token
		}
		errors = append(errors, diagnostics.NewError(diagnostics.ErrA013, token.JoinAll(spans...),
			"call parameters are only allowed on contract calls; `%s` is not a contract method", methodName.Value))
	}

	params, returnType, ok := c.instantiateSignature(method, ma.TypeArguments, methodName.Token, &errors)
	if !ok {
		return diagnostics.Err[*typed.Expression](warnings, errors)
	}
	arguments := c.zipArguments(methodName, params, args, ma.Token, &warnings, &errors)

	name := ma.MethodName.CallPath
	if ma.MethodName.Kind == ast.FromModule {
		name = ast.CallPath{Suffix: methodName}
	}
	return diagnostics.Ok(&typed.Expression{
		Variant: typed.FunctionApplication{
			Name:                name,
			ContractCallParams:  contractParams,
			Arguments:           arguments,
			FunctionDeclaration: method,
			Selector:            selector,
		},
		ReturnType: returnType,
		Span:       ma.Token,
	}, warnings, errors)
}

// resolveMethodName determines the receiver type and finds the method for
// it. The receiver type is either written (`Type::method`) or taken from the
// first argument.
func (c checkContext) resolveMethodName(ma *ast.MethodApplication, args []*typed.Expression) diagnostics.Result[*typed.FunctionDeclaration] {
	fail := func(err *diagnostics.DiagnosticError) diagnostics.Result[*typed.FunctionDeclaration] {
		return diagnostics.Err[*typed.FunctionDeclaration](nil, []*diagnostics.DiagnosticError{err})
	}
	name := ma.MethodName.EasyName()

	var receiver typesystem.TypeID
	var path []string
	switch ma.MethodName.Kind {
	case ast.FromType:
		path = c.modulePath(ma.MethodName.CallPath)
		switch {
		case ma.MethodName.TypeName != nil:
			if nt, ok := ma.MethodName.TypeName.(*ast.NamedType); ok && len(nt.Args) > 0 && len(ma.TypeArguments) > 0 {
				return fail(diagnostics.NewError(diagnostics.ErrA016, ma.MethodName.TypeNameSpan,
					"did not expect to find type arguments here: `%s` already has explicit type arguments", nt.Name))
			}
			id, err := c.ns.ResolveType(ma.MethodName.TypeName, c.self)
			if err != nil {
				return fail(err)
			}
			receiver = id
		case len(args) > 0:
			receiver = args[0].ReturnType
		default:
			return fail(diagnostics.NewError(diagnostics.ErrA014, name.Token,
				"cannot determine the type `%s` belongs to: no type was written and there are no arguments", name.Value))
		}
	case ast.FromModule:
		if len(args) == 0 {
			return fail(diagnostics.NewInternalError(name.Token, "method call without a receiver"))
		}
		receiver = args[0].ReturnType
		path = c.ns.ModulePath()
	}

	method, err := c.ns.FindMethodForType(receiver, path, name.Value, name.Token)
	if err != nil {
		return fail(err)
	}
	return diagnostics.Ok(method, nil, nil)
}

// modulePath turns the prefixes of a call path into an absolute module path.
func (c checkContext) modulePath(cp ast.CallPath) []string {
	if cp.IsAbsolute {
		return cp.PrefixPath()
	}
	return append(append([]string{}, c.ns.ModulePath()...), cp.PrefixPath()...)
}

func (c checkContext) checkPurity(name ast.Ident, callee *typed.FunctionDeclaration) *diagnostics.DiagnosticError {
	if c.purity.CanCall(callee.Purity) {
		return nil
	}
	caller := c.fnName
	if caller == "" {
		caller = "this context"
	}
	return diagnostics.NewError(diagnostics.ErrA010, name.Token,
		"storage attribute access mismatch: `%s` is %s but `%s` requires storage access `%s`\nhelp: add `%s` to `%s`",
		caller, c.purity, name.Value, callee.Purity, c.purity.Promote(callee.Purity).AttributeSyntax(), caller)
}

// typeCheckContractCallParams checks `{ gas: .., coins: .., asset_id: .. }`.
// Each recognized parameter may be given once; the first occurrence is used.
func (c checkContext) typeCheckContractCallParams(params []ast.StructExpressionField, warnings, errors *[]*diagnostics.DiagnosticError) map[string]*typed.Expression {
	counts := make(map[string]int, len(params))
	first := make(map[string]token.Token, len(params))
	for _, p := range params {
		if counts[p.Name.Value] == 0 {
			first[p.Name.Value] = p.Name.Token
		}
		counts[p.Name.Value]++
	}
	for _, name := range config.ContractCallParameterNames {
		if counts[name] > 1 {
			*errors = append(*errors, diagnostics.NewError(diagnostics.ErrA011, first[name],
				"contract call parameter `%s` is specified %d times", name, counts[name]))
		}
	}

	out := make(map[string]*typed.Expression, len(params))
	for _, p := range params {
		var expected typesystem.TypeID
		switch p.Name.Value {
		case config.ContractCallGasParameterName, config.ContractCallCoinsParameterName:
			expected = c.engine.InsertU64()
		case config.ContractCallAssetIDParameterName:
			expected = c.engine.InsertB256()
		default:
			*errors = append(*errors, diagnostics.NewError(diagnostics.ErrA012, p.Name.Token,
				"unrecognized contract call parameter `%s`; expected one of: %s",
				p.Name.Value, strings.Join(config.ContractCallParameterNames, ", ")))
			continue
		}
		value := c.typeCheckExpressionOrRecover(p.Value, expected,
			fmt.Sprintf("contract call parameter `%s` has a fixed type", p.Name.Value), warnings, errors)
		if _, seen := out[p.Name.Value]; !seen {
			out[p.Name.Value] = value
		}
	}
	return out
}

// instantiateSignature returns the parameter and return types of fn for one
// call, with generic parameters replaced by explicit type arguments or fresh
// inference variables.
func (c checkContext) instantiateSignature(fn *typed.FunctionDeclaration, typeArgs []ast.TypeArgument, span token.Token, errors *[]*diagnostics.DiagnosticError) ([]typed.FunctionParameter, typesystem.TypeID, bool) {
	if len(typeArgs) > 0 && len(fn.TypeParameters) == 0 {
		*errors = append(*errors, diagnostics.NewError(diagnostics.ErrA016, span,
			"`%s` does not take type arguments", fn.Name.Value))
		return nil, typesystem.NoTypeID, false
	}
	if len(typeArgs) > 0 && len(typeArgs) != len(fn.TypeParameters) {
		*errors = append(*errors, diagnostics.NewError(diagnostics.ErrA003, span,
			"`%s` expects %d type argument(s), found %d", fn.Name.Value, len(fn.TypeParameters), len(typeArgs)))
		return nil, typesystem.NoTypeID, false
	}

	ids := append(fn.ParameterTypes(), fn.ReturnType)
	subst := make(map[string]typesystem.TypeID)
	for i, tp := range fn.TypeParameters {
		g, ok := c.engine.LookUp(tp).(typesystem.UnknownGeneric)
		if !ok {
			continue
		}
		if len(typeArgs) > 0 {
			id, err := c.ns.ResolveType(typeArgs[i].Type, c.self)
			if err != nil {
				*errors = append(*errors, err)
				return nil, typesystem.NoTypeID, false
			}
			subst[g.Name] = id
		} else {
			subst[g.Name] = c.engine.InsertUnknown()
		}
	}
	for i, id := range ids {
		ids[i] = c.engine.Instantiate(id, subst)
	}

	params := make([]typed.FunctionParameter, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = typed.FunctionParameter{Name: p.Name, TypeID: ids[i], Span: p.Span}
	}
	return params, ids[len(ids)-1], true
}

// zipArguments checks arity and argument types, then pairs arguments with
// parameters up to the shorter of the two lists.
func (c checkContext) zipArguments(name ast.Ident, params []typed.FunctionParameter, args []*typed.Expression, span token.Token, warnings, errors *[]*diagnostics.DiagnosticError) []typed.Argument {
	switch {
	case len(args) > len(params):
		*errors = append(*errors, diagnostics.NewError(diagnostics.ErrA008, span,
			"too many arguments to `%s`: expected %d, found %d", name.Value, len(params), len(args)))
	case len(args) < len(params):
		*errors = append(*errors, diagnostics.NewError(diagnostics.ErrA009, span,
			"too few arguments to `%s`: expected %d, found %d", name.Value, len(params), len(args)))
	}

	n := len(args)
	if len(params) < n {
		n = len(params)
	}
	out := make([]typed.Argument, n)
	for i := 0; i < n; i++ {
		arg, param := args[i], params[i]
		w, errs := c.unify(arg.ReturnType, param.TypeID, arg.Span, "")
		*warnings = append(*warnings, w...)
		if len(errs) > 0 {
			*errors = append(*errors, diagnostics.NewError(diagnostics.ErrA019, arg.Span,
				"argument `%s` of `%s` expects `%s`, found `%s`",
				param.Name, name.Value, c.engine.FriendlyName(param.TypeID), c.engine.FriendlyName(arg.ReturnType)))
		}
		out[i] = typed.Argument{Name: param.Name, Value: arg}
	}
	return out
}

func abiNameOf(caller typesystem.ContractCaller) string {
	if caller.AbiName == "" {
		return "Abi"
	}
	return caller.AbiName
}

// typeCheckFunctionApplication resolves and checks a free function call.
func (c checkContext) typeCheckFunctionApplication(fa *ast.FunctionApplication) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	args := make([]*typed.Expression, 0, len(fa.Arguments))
	for _, arg := range fa.Arguments {
		args = append(args, c.typeCheckExpressionOrRecover(arg, c.engine.InsertUnknown(), "", &warnings, &errors))
	}

	scope := c.ns
	if len(fa.Name.Prefixes) > 0 || fa.Name.IsAbsolute {
		mod, err := c.ns.FindModulePath(c.modulePath(fa.Name), fa.Name.Span())
		if err != nil {
			return diagnostics.Err[*typed.Expression](warnings, append(errors, err))
		}
		scope = mod
	}
	sym, ok := scope.Find(fa.Name.Suffix.Value)
	if !ok || sym.Kind != symbols.FunctionSymbol {
		errors = append(errors, diagnostics.NewError(diagnostics.ErrA001, fa.Name.Span(),
			"cannot find function `%s` in this scope", fa.Name.String()))
		return diagnostics.Err[*typed.Expression](warnings, errors)
	}
	fn := sym.Function

	if err := c.checkPurity(fa.Name.Suffix, fn); err != nil {
		errors = append(errors, err)
	}
	params, returnType, ok := c.instantiateSignature(fn, fa.TypeArguments, fa.Name.Suffix.Token, &errors)
	if !ok {
		return diagnostics.Err[*typed.Expression](warnings, errors)
	}
	arguments := c.zipArguments(fa.Name.Suffix, params, args, fa.Token, &warnings, &errors)
	return diagnostics.Ok(&typed.Expression{
		Variant: typed.FunctionApplication{
			Name:                fa.Name,
			Arguments:           arguments,
			FunctionDeclaration: fn,
		},
		ReturnType: returnType,
		Span:       fa.Token,
	}, warnings, errors)
}
