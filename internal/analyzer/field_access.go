package analyzer

import (
	"strings"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// instantiateTupleIndexAccess builds `parent.index`. A parent that is not a
// tuple, or an index past the end, fails this expression. A parent that
// already failed yields error recovery without a new diagnostic.
func (c checkContext) instantiateTupleIndexAccess(parent *typed.Expression, index int, indexSpan, span token.Token) exprResult {
	if c.isRecovered(parent) {
		return diagnostics.Ok(c.errorRecovery(span), nil, nil)
	}
	fields, err := c.ns.ExpectTupleTypeArgsFromTypeID(parent.ReturnType, parent.Span)
	if err != nil {
		return diagnostics.Err[*typed.Expression](nil, []*diagnostics.DiagnosticError{err})
	}
	if index < 0 || index >= len(fields) {
		return diagnostics.Err[*typed.Expression](nil, []*diagnostics.DiagnosticError{
			diagnostics.NewError(diagnostics.ErrA007, indexSpan,
				"tuple index %d is out of bounds: the tuple has %d element(s)", index, len(fields)),
		})
	}
	return diagnostics.Ok(&typed.Expression{
		Variant: typed.TupleIndexAccess{
			Prefix:               parent,
			ElemToAccessNum:      index,
			ResolvedTypeOfParent: parent.ReturnType,
			ElemToAccessSpan:     indexSpan,
		},
		ReturnType: fields[index].TypeID,
		IsConstant: parent.IsConstant,
		Span:       span,
	}, nil, nil)
}

// instantiateStructFieldAccess builds `parent.field`.
func (c checkContext) instantiateStructFieldAccess(parent *typed.Expression, field ast.Ident, span token.Token) exprResult {
	if c.isRecovered(parent) {
		return diagnostics.Ok(c.errorRecovery(span), nil, nil)
	}
	st, err := c.ns.ExpectStructFromTypeID(parent.ReturnType, parent.Span)
	if err != nil {
		return diagnostics.Err[*typed.Expression](nil, []*diagnostics.DiagnosticError{err})
	}
	f, ok := st.Field(field.Value)
	if !ok {
		return diagnostics.Err[*typed.Expression](nil, []*diagnostics.DiagnosticError{unknownField(st, field)})
	}
	return diagnostics.Ok(&typed.Expression{
		Variant: typed.StructFieldAccess{
			Prefix:               parent,
			FieldToAccess:        f,
			ResolvedTypeOfParent: parent.ReturnType,
		},
		ReturnType: f.TypeID,
		IsConstant: parent.IsConstant,
		Span:       span,
	}, nil, nil)
}

func unknownField(st typesystem.Struct, field ast.Ident) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrA005, field.Token,
		"struct `%s` has no field named `%s`; known fields: %s",
		st.Name, field.Value, strings.Join(st.FieldNames(), ", "))
}

func unknownVariant(en typesystem.Enum, variant ast.Ident) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrA006, variant.Token,
		"enum `%s` has no variant named `%s`; known variants: %s",
		en.Name, variant.Value, strings.Join(en.VariantNames(), ", "))
}
