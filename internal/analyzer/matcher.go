package analyzer

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/typed"
)

// matchResult is what the matcher produces for one branch.
type matchResult struct {
	Requirements typed.MatchReqMap
	Declarations typed.MatchDeclMap
}

// matcher desugars matching exp against scrutinee into the equality tests
// that must hold for the branch to fire and the bindings the branch body
// sees. Requirements of an outer pattern precede those of nested patterns
// and elements are visited left to right.
//
// The scrutinee's type is unified with exp's type first; on failure nothing
// is produced.
func (c checkContext) matcher(exp *typed.Expression, scrutinee *typed.Scrutinee) diagnostics.Result[matchResult] {
	var warnings, errors []*diagnostics.DiagnosticError
	w, e := c.unify(exp.ReturnType, scrutinee.TypeID, scrutinee.Span, "this pattern does not match the type of the matched value")
	warnings = append(warnings, w...)
	if len(e) > 0 {
		return diagnostics.Err[matchResult](warnings, append(errors, e...))
	}

	switch s := scrutinee.Variant.(type) {
	case typed.CatchAll:
		return diagnostics.Ok(matchResult{}, warnings, errors)

	case typed.LiteralScrutinee:
		lit := c.literalExpression(s.Value, scrutinee.TypeID, scrutinee.Span)
		return diagnostics.Ok(matchResult{
			Requirements: typed.MatchReqMap{{Left: exp, Right: lit}},
		}, warnings, errors)

	case typed.VariableScrutinee:
		return diagnostics.Ok(matchResult{
			Declarations: typed.MatchDeclMap{{Name: s.Name, Value: exp}},
		}, warnings, errors)

	case typed.TupleScrutinee:
		var out matchResult
		for i, elem := range s.Elems {
			access, ok := diagnostics.Check(c.instantiateTupleIndexAccess(exp, i, elem.Span, elem.Span), &warnings, &errors)
			if !ok {
				return diagnostics.Err[matchResult](warnings, errors)
			}
			sub, ok := diagnostics.Check(c.matcher(access, elem), &warnings, &errors)
			if !ok {
				return diagnostics.Err[matchResult](warnings, errors)
			}
			out.append(sub)
		}
		return diagnostics.Ok(out, warnings, errors)

	case typed.StructScrutinee:
		var out matchResult
		for _, f := range s.Fields {
			access, ok := diagnostics.Check(c.instantiateStructFieldAccess(exp, f.Field, f.Field.Token), &warnings, &errors)
			if !ok {
				return diagnostics.Err[matchResult](warnings, errors)
			}
			if f.Scrutinee == nil {
				out.Declarations = append(out.Declarations, typed.MatchDecl{Name: f.Field, Value: access})
				continue
			}
			sub, ok := diagnostics.Check(c.matcher(access, f.Scrutinee), &warnings, &errors)
			if !ok {
				return diagnostics.Err[matchResult](warnings, errors)
			}
			out.append(sub)
		}
		return diagnostics.Ok(out, warnings, errors)

	case typed.EnumScrutinee:
		u64 := c.engine.InsertU64()
		tag := &typed.Expression{
			Variant:    typed.EnumTag{Prefix: exp},
			ReturnType: u64,
			Span:       scrutinee.Span,
		}
		want := c.literalExpression(ast.U64(uint64(s.Variant.Tag)), u64, scrutinee.Span)
		out := matchResult{Requirements: typed.MatchReqMap{{Left: tag, Right: want}}}
		if s.Value == nil {
			return diagnostics.Ok(out, warnings, errors)
		}
		payload := &typed.Expression{
			Variant:    typed.UnsafeDowncast{Prefix: exp, Variant: s.Variant},
			ReturnType: s.Variant.TypeID,
			IsConstant: exp.IsConstant,
			Span:       s.Value.Span,
		}
		sub, ok := diagnostics.Check(c.matcher(payload, s.Value), &warnings, &errors)
		if !ok {
			return diagnostics.Err[matchResult](warnings, errors)
		}
		out.append(sub)
		return diagnostics.Ok(out, warnings, errors)

	default:
		return diagnostics.Err[matchResult](warnings, append(errors,
			diagnostics.NewInternalError(scrutinee.Span, "unhandled typed pattern kind")))
	}
}

func (m *matchResult) append(other matchResult) {
	m.Requirements = append(m.Requirements, other.Requirements...)
	m.Declarations = append(m.Declarations, other.Declarations...)
}
