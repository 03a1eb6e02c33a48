package analyzer

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

type scrutineeResult = diagnostics.Result[*typed.Scrutinee]

// typeCheckScrutinee checks a pattern. expected is the type of the value the
// pattern will be matched against; it only guides literal width checks and
// tuple hints, the matcher unifies the two.
func (c checkContext) typeCheckScrutinee(s ast.Scrutinee, expected typesystem.TypeID) scrutineeResult {
	switch p := s.(type) {
	case *ast.CatchAll:
		return diagnostics.Ok(&typed.Scrutinee{
			Variant: typed.CatchAll{},
			TypeID:  c.engine.InsertUnknown(),
			Span:    p.Token,
		}, nil, nil)

	case *ast.LiteralScrutinee:
		id := c.engine.Insert(literalType(p.Value))
		var errors []*diagnostics.DiagnosticError
		if p.Value.Kind == ast.LitNumeric {
			if err := c.checkLiteralRange(p.Value, expected, p.Token); err != nil {
				errors = append(errors, err)
			}
		} else if err := c.checkLiteralRange(p.Value, id, p.Token); err != nil {
			errors = append(errors, err)
		}
		return diagnostics.Ok(&typed.Scrutinee{
			Variant: typed.LiteralScrutinee{Value: p.Value},
			TypeID:  id,
			Span:    p.Token,
		}, nil, errors)

	case *ast.VariableScrutinee:
		return diagnostics.Ok(&typed.Scrutinee{
			Variant: typed.VariableScrutinee{Name: p.Name},
			TypeID:  c.engine.InsertUnknown(),
			Span:    p.Name.Token,
		}, nil, nil)

	case *ast.StructScrutinee:
		return c.typeCheckStructScrutinee(p)

	case *ast.EnumScrutinee:
		return c.typeCheckEnumScrutinee(p)

	case *ast.TupleScrutinee:
		var warnings, errors []*diagnostics.DiagnosticError
		hints, _ := c.engine.TupleFields(expected)
		if len(hints) != len(p.Elems) {
			hints = nil
		}
		elems := make([]*typed.Scrutinee, len(p.Elems))
		types := make([]typesystem.TypeArgument, len(p.Elems))
		for i, sub := range p.Elems {
			hint := c.engine.InsertUnknown()
			if hints != nil {
				hint = hints[i].TypeID
			}
			elem, ok := diagnostics.Check(c.typeCheckScrutinee(sub, hint), &warnings, &errors)
			if !ok {
				return diagnostics.Err[*typed.Scrutinee](warnings, errors)
			}
			elems[i] = elem
			types[i] = typesystem.TypeArgument{TypeID: elem.TypeID, Span: elem.Span}
		}
		id := c.engine.InsertUnit()
		if len(types) > 0 {
			id = c.engine.Insert(typesystem.Tuple{Fields: types})
		}
		return diagnostics.Ok(&typed.Scrutinee{
			Variant: typed.TupleScrutinee{Elems: elems},
			TypeID:  id,
			Span:    p.Token,
		}, warnings, errors)

	default:
		return diagnostics.Err[*typed.Scrutinee](nil, []*diagnostics.DiagnosticError{
			diagnostics.NewInternalError(s.GetToken(), "unhandled pattern kind"),
		})
	}
}

func (c checkContext) typeCheckStructScrutinee(p *ast.StructScrutinee) scrutineeResult {
	var warnings, errors []*diagnostics.DiagnosticError
	sym, ok := c.ns.Find(p.StructName.Value)
	if !ok || sym.Kind != symbols.TypeSymbol {
		return diagnostics.Err[*typed.Scrutinee](nil, []*diagnostics.DiagnosticError{
			diagnostics.NewError(diagnostics.ErrA002, p.StructName.Token, "cannot find struct `%s` in this scope", p.StructName.Value),
		})
	}
	structID := c.ns.InstantiateFresh(sym.TypeID)
	st, err := c.ns.ExpectStructFromTypeID(structID, p.StructName.Token)
	if err != nil {
		return diagnostics.Err[*typed.Scrutinee](nil, []*diagnostics.DiagnosticError{err})
	}

	fields := make([]typed.StructScrutineeField, len(p.Fields))
	for i, f := range p.Fields {
		decl, ok := st.Field(f.Field.Value)
		if !ok {
			errors = append(errors, unknownField(st, f.Field))
			return diagnostics.Err[*typed.Scrutinee](warnings, errors)
		}
		fields[i] = typed.StructScrutineeField{Field: f.Field}
		if f.Scrutinee != nil {
			sub, ok := diagnostics.Check(c.typeCheckScrutinee(f.Scrutinee, decl.TypeID), &warnings, &errors)
			if !ok {
				return diagnostics.Err[*typed.Scrutinee](warnings, errors)
			}
			fields[i].Scrutinee = sub
		}
	}
	return diagnostics.Ok(&typed.Scrutinee{
		Variant: typed.StructScrutinee{StructName: st.Name, Fields: fields},
		TypeID:  structID,
		Span:    p.Token,
	}, warnings, errors)
}

func (c checkContext) typeCheckEnumScrutinee(p *ast.EnumScrutinee) scrutineeResult {
	var warnings, errors []*diagnostics.DiagnosticError
	if len(p.CallPath.Prefixes) == 0 {
		return diagnostics.Err[*typed.Scrutinee](nil, []*diagnostics.DiagnosticError{
			diagnostics.NewError(diagnostics.ErrA002, p.CallPath.Suffix.Token,
				"enum variant `%s` must be qualified with its enum name", p.CallPath.Suffix.Value),
		})
	}
	enumName := p.CallPath.Prefixes[len(p.CallPath.Prefixes)-1]
	sym, ok := c.ns.Find(enumName.Value)
	if !ok || sym.Kind != symbols.TypeSymbol {
		return diagnostics.Err[*typed.Scrutinee](nil, []*diagnostics.DiagnosticError{
			diagnostics.NewError(diagnostics.ErrA002, enumName.Token, "cannot find enum `%s` in this scope", enumName.Value),
		})
	}
	enumID := c.ns.InstantiateFresh(sym.TypeID)
	en, err := c.ns.ExpectEnumFromTypeID(enumID, enumName.Token)
	if err != nil {
		return diagnostics.Err[*typed.Scrutinee](nil, []*diagnostics.DiagnosticError{err})
	}
	variant, ok := en.Variant(p.CallPath.Suffix.Value)
	if !ok {
		return diagnostics.Err[*typed.Scrutinee](nil, []*diagnostics.DiagnosticError{unknownVariant(en, p.CallPath.Suffix)})
	}

	var value *typed.Scrutinee
	if p.Value != nil {
		value, ok = diagnostics.Check(c.typeCheckScrutinee(p.Value, variant.TypeID), &warnings, &errors)
		if !ok {
			return diagnostics.Err[*typed.Scrutinee](warnings, errors)
		}
	}
	return diagnostics.Ok(&typed.Scrutinee{
		Variant: typed.EnumScrutinee{EnumName: en.Name, Variant: variant, Value: value},
		TypeID:  enumID,
		Span:    p.Token,
	}, warnings, errors)
}
