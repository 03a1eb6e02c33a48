package analyzer

import (
	"encoding/hex"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

type exprResult = diagnostics.Result[*typed.Expression]

// typeCheckExpression checks expr and unifies its type with annotation. An
// Err result means no expression could be built; callers substitute an
// error-recovery expression when they can continue.
func (c checkContext) typeCheckExpression(expr ast.Expression, annotation typesystem.TypeID, help string) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	res, ok := diagnostics.Check(c.typeCheckExpressionInner(expr, annotation, help), &warnings, &errors)
	if !ok {
		return diagnostics.Err[*typed.Expression](warnings, errors)
	}

	switch res.Variant.(type) {
	case typed.CodeBlock, typed.IfExpression, typed.MatchExpression:
		// These pushed the annotation into their result expressions.
	default:
		w, e := c.unify(res.ReturnType, annotation, res.Span, help)
		warnings = append(warnings, w...)
		errors = append(errors, e...)
	}

	if lit, ok := res.Variant.(typed.Literal); ok {
		if err := c.checkLiteralRange(lit.Value, res.ReturnType, res.Span); err != nil {
			errors = append(errors, err)
		}
	}
	return diagnostics.Ok(res, warnings, errors)
}

// typeCheckExpressionOrRecover is typeCheckExpression with a placeholder in
// place of a missing result.
func (c checkContext) typeCheckExpressionOrRecover(expr ast.Expression, annotation typesystem.TypeID, help string, warnings, errors *[]*diagnostics.DiagnosticError) *typed.Expression {
	return diagnostics.CheckOr(c.typeCheckExpression(expr, annotation, help), c.errorRecovery(expr.GetToken()), warnings, errors)
}

func (c checkContext) typeCheckExpressionInner(expr ast.Expression, annotation typesystem.TypeID, help string) exprResult {
	switch e := expr.(type) {
	case *ast.LiteralExpression:
		return diagnostics.Ok(c.typeCheckLiteral(e.Value, e.Token), nil, nil)
	case *ast.VariableExpression:
		return c.typeCheckVariable(e)
	case *ast.TupleExpression:
		return c.typeCheckTuple(e, annotation)
	case *ast.ArrayExpression:
		return c.typeCheckArray(e, annotation)
	case *ast.StructExpression:
		return c.typeCheckStructExpression(e)
	case *ast.SubfieldExpression:
		var warnings, errors []*diagnostics.DiagnosticError
		prefix, ok := diagnostics.Check(c.typeCheckExpression(e.Prefix, c.engine.InsertUnknown(), ""), &warnings, &errors)
		if !ok {
			return diagnostics.Err[*typed.Expression](warnings, errors)
		}
		field, ok := diagnostics.Check(c.instantiateStructFieldAccess(prefix, e.FieldToAccess, e.Token), &warnings, &errors)
		if !ok {
			return diagnostics.Err[*typed.Expression](warnings, errors)
		}
		return diagnostics.Ok(field, warnings, errors)
	case *ast.TupleIndexExpression:
		var warnings, errors []*diagnostics.DiagnosticError
		prefix, ok := diagnostics.Check(c.typeCheckExpression(e.Prefix, c.engine.InsertUnknown(), ""), &warnings, &errors)
		if !ok {
			return diagnostics.Err[*typed.Expression](warnings, errors)
		}
		access, ok := diagnostics.Check(c.instantiateTupleIndexAccess(prefix, e.Index, e.IndexSpan, e.Token), &warnings, &errors)
		if !ok {
			return diagnostics.Err[*typed.Expression](warnings, errors)
		}
		return diagnostics.Ok(access, warnings, errors)
	case *ast.CodeBlock:
		return c.typeCheckCodeBlock(e, annotation)
	case *ast.IfExpression:
		return c.typeCheckIf(e, annotation)
	case *ast.MatchExpression:
		return c.typeCheckMatchExpression(e, annotation)
	case *ast.MethodApplication:
		return c.typeCheckMethodApplication(e)
	case *ast.FunctionApplication:
		return c.typeCheckFunctionApplication(e)
	case *ast.EnumInstantiation:
		return c.typeCheckEnumInstantiation(e)
	case *ast.AbiCastExpression:
		return c.typeCheckAbiCast(e)
	case *ast.AsmExpression:
		return c.typeCheckAsm(e)
	case *ast.IntrinsicFunction:
		return c.typeCheckIntrinsic(e)
	default:
		return diagnostics.Err[*typed.Expression](nil, []*diagnostics.DiagnosticError{
			diagnostics.NewInternalError(expr.GetToken(), "unhandled expression kind"),
		})
	}
}

func (c checkContext) typeCheckVariable(e *ast.VariableExpression) exprResult {
	sym, ok := c.ns.Find(e.Name.Value)
	if !ok {
		err := diagnostics.NewError(diagnostics.ErrA001, e.Name.Token, "cannot find value `%s` in this scope", e.Name.Value)
		return diagnostics.Ok(c.errorRecovery(e.Name.Token), nil, []*diagnostics.DiagnosticError{err})
	}
	if sym.Kind != symbols.VariableSymbol && sym.Kind != symbols.ConstantSymbol {
		err := diagnostics.NewError(diagnostics.ErrA001, e.Name.Token, "expected a value, found %s `%s`", sym.Kind, e.Name.Value)
		return diagnostics.Ok(c.errorRecovery(e.Name.Token), nil, []*diagnostics.DiagnosticError{err})
	}
	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.VariableExpression{Name: e.Name.Value},
		ReturnType: sym.TypeID,
		IsConstant: sym.Kind == symbols.ConstantSymbol,
		Span:       e.Name.Token,
	}, nil, nil)
}

func (c checkContext) typeCheckTuple(e *ast.TupleExpression, annotation typesystem.TypeID) exprResult {
	if len(e.Fields) == 0 {
		return diagnostics.Ok(&typed.Expression{
			Variant:    typed.Tuple{},
			ReturnType: c.engine.InsertUnit(),
			IsConstant: true,
			Span:       e.Token,
		}, nil, nil)
	}
	var warnings, errors []*diagnostics.DiagnosticError
	hints, _ := c.engine.TupleFields(annotation)
	if len(hints) != len(e.Fields) {
		hints = nil
	}
	fields := make([]*typed.Expression, len(e.Fields))
	types := make([]typesystem.TypeArgument, len(e.Fields))
	constant := true
	for i, f := range e.Fields {
		expected := c.engine.InsertUnknown()
		if hints != nil {
			expected = hints[i].TypeID
		}
		fields[i] = c.typeCheckExpressionOrRecover(f, expected, "tuple field type does not match the expected type", &warnings, &errors)
		types[i] = typesystem.TypeArgument{TypeID: fields[i].ReturnType, Span: f.GetToken()}
		constant = constant && fields[i].IsConstant
	}
	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.Tuple{Fields: fields},
		ReturnType: c.engine.Insert(typesystem.Tuple{Fields: types}),
		IsConstant: constant,
		Span:       e.Token,
	}, warnings, errors)
}

func (c checkContext) typeCheckArray(e *ast.ArrayExpression, annotation typesystem.TypeID) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	elem := c.engine.InsertUnknown()
	if arr, ok := c.engine.LookUp(annotation).(typesystem.Array); ok {
		elem = arr.Elem
	}
	contents := make([]*typed.Expression, len(e.Contents))
	constant := true
	for i, item := range e.Contents {
		contents[i] = c.typeCheckExpressionOrRecover(item, elem, "array elements must all have the same type", &warnings, &errors)
		constant = constant && contents[i].IsConstant
	}
	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.Array{Contents: contents},
		ReturnType: c.engine.Insert(typesystem.Array{Elem: elem, Length: len(contents)}),
		IsConstant: constant,
		Span:       e.Token,
	}, warnings, errors)
}

func (c checkContext) typeCheckStructExpression(e *ast.StructExpression) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	sym, ok := c.ns.Find(e.StructName.Value)
	if !ok || sym.Kind != symbols.TypeSymbol {
		err := diagnostics.NewError(diagnostics.ErrA002, e.StructName.Token, "cannot find struct `%s` in this scope", e.StructName.Value)
		return diagnostics.Ok(c.errorRecovery(e.Token), nil, []*diagnostics.DiagnosticError{err})
	}
	structID := c.ns.InstantiateFresh(sym.TypeID)
	st, err := c.ns.ExpectStructFromTypeID(structID, e.StructName.Token)
	if err != nil {
		return diagnostics.Err[*typed.Expression](nil, []*diagnostics.DiagnosticError{err})
	}

	provided := make(map[string]ast.StructExpressionField, len(e.Fields))
	for _, f := range e.Fields {
		if _, declared := st.Field(f.Name.Value); !declared {
			errors = append(errors, unknownField(st, f.Name))
			continue
		}
		provided[f.Name.Value] = f
	}

	fields := make([]typed.StructExpressionField, 0, len(st.Fields))
	constant := true
	for _, decl := range st.Fields {
		f, ok := provided[decl.Name]
		if !ok {
			errors = append(errors, diagnostics.NewError(diagnostics.ErrA005, e.Token,
				"struct `%s` is missing field `%s`", st.Name, decl.Name))
			fields = append(fields, typed.StructExpressionField{Name: decl.Name, Value: c.errorRecovery(e.Token)})
			constant = false
			continue
		}
		value := c.typeCheckExpressionOrRecover(f.Value, decl.TypeID,
			"struct field type does not match its declaration", &warnings, &errors)
		fields = append(fields, typed.StructExpressionField{Name: decl.Name, Value: value})
		constant = constant && value.IsConstant
	}
	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.StructExpression{StructName: st.Name, Fields: fields},
		ReturnType: structID,
		IsConstant: constant,
		Span:       e.Token,
	}, warnings, errors)
}

func (c checkContext) typeCheckIf(e *ast.IfExpression, annotation typesystem.TypeID) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	cond := c.typeCheckExpressionOrRecover(e.Condition, c.engine.InsertBool(), "the condition of an if expression must be a boolean", &warnings, &errors)
	if e.Else == nil {
		// Without an else branch the expression is unit.
		unit := c.engine.InsertUnit()
		w, errs := c.unify(unit, annotation, e.Token, "an `if` without an `else` has type ()")
		warnings = append(warnings, w...)
		errors = append(errors, errs...)
		annotation = unit
	}
	then := c.typeCheckExpressionOrRecover(e.Then, annotation, "", &warnings, &errors)
	var otherwise *typed.Expression
	if e.Else != nil {
		otherwise = c.typeCheckExpressionOrRecover(e.Else, annotation,
			"`if` and `else` have incompatible types", &warnings, &errors)
		w, errs := c.unify(otherwise.ReturnType, then.ReturnType, e.Else.GetToken(), "`if` and `else` have incompatible types")
		warnings = append(warnings, w...)
		errors = append(errors, errs...)
	}
	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.IfExpression{Condition: cond, Then: then, Else: otherwise},
		ReturnType: then.ReturnType,
		Span:       e.Token,
	}, warnings, errors)
}

func (c checkContext) typeCheckEnumInstantiation(e *ast.EnumInstantiation) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	sym, ok := c.ns.Find(e.EnumName.Value)
	if !ok || sym.Kind != symbols.TypeSymbol {
		err := diagnostics.NewError(diagnostics.ErrA002, e.EnumName.Token, "cannot find enum `%s` in this scope", e.EnumName.Value)
		return diagnostics.Ok(c.errorRecovery(e.Token), nil, []*diagnostics.DiagnosticError{err})
	}
	enumID := c.ns.InstantiateFresh(sym.TypeID)
	en, err := c.ns.ExpectEnumFromTypeID(enumID, e.EnumName.Token)
	if err != nil {
		return diagnostics.Err[*typed.Expression](nil, []*diagnostics.DiagnosticError{err})
	}
	variant, ok := en.Variant(e.VariantName.Value)
	if !ok {
		return diagnostics.Err[*typed.Expression](nil, []*diagnostics.DiagnosticError{unknownVariant(en, e.VariantName)})
	}

	var contents *typed.Expression
	constant := true
	if e.Value == nil {
		w, errs := c.unify(c.engine.InsertUnit(), variant.TypeID, e.VariantName.Token,
			"this variant carries a value")
		warnings = append(warnings, w...)
		errors = append(errors, errs...)
	} else {
		contents = c.typeCheckExpressionOrRecover(e.Value, variant.TypeID,
			"enum variant payload does not match its declaration", &warnings, &errors)
		constant = contents.IsConstant
	}
	return diagnostics.Ok(&typed.Expression{
		Variant: typed.EnumInstantiation{
			EnumName:    en.Name,
			VariantName: variant.Name,
			Tag:         variant.Tag,
			Contents:    contents,
		},
		ReturnType: enumID,
		IsConstant: constant,
		Span:       e.Token,
	}, warnings, errors)
}

func (c checkContext) typeCheckAbiCast(e *ast.AbiCastExpression) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError
	name := e.AbiName.Suffix.Value
	sym, ok := c.ns.Find(name)
	if !ok || sym.Kind != symbols.AbiSymbol {
		err := diagnostics.NewError(diagnostics.ErrA002, e.AbiName.Span(), "abi `%s` is not declared", e.AbiName.String())
		return diagnostics.Ok(c.errorRecovery(e.Token), nil, []*diagnostics.DiagnosticError{err})
	}
	address := c.typeCheckExpressionOrRecover(e.Address, c.engine.InsertB256(),
		"a contract address must be a b256", &warnings, &errors)

	addr := e.Address.GetToken().Lexeme
	if lit, ok := address.Variant.(typed.Literal); ok && lit.Value.Kind == ast.LitB256 {
		addr = "0x" + hex.EncodeToString(lit.Value.B256[:])
	}
	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.AbiCast{AbiName: e.AbiName, Address: address},
		ReturnType: c.engine.Insert(typesystem.ContractCaller{AbiName: name, Address: &addr}),
		Span:       e.Token,
	}, warnings, errors)
}
