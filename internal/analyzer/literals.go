package analyzer

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// literalType returns the type a literal has before any annotation applies.
func literalType(lit ast.Literal) typesystem.TypeInfo {
	switch lit.Kind {
	case ast.LitU8:
		return typesystem.UnsignedInteger{Bits: typesystem.Eight}
	case ast.LitU16:
		return typesystem.UnsignedInteger{Bits: typesystem.Sixteen}
	case ast.LitU32:
		return typesystem.UnsignedInteger{Bits: typesystem.ThirtyTwo}
	case ast.LitU64:
		return typesystem.UnsignedInteger{Bits: typesystem.SixtyFour}
	case ast.LitNumeric:
		return typesystem.Numeric{}
	case ast.LitString:
		return typesystem.Str{Length: len(lit.String)}
	case ast.LitBoolean:
		return typesystem.Boolean{}
	case ast.LitByte:
		return typesystem.Byte{}
	default:
		return typesystem.B256{}
	}
}

func (c checkContext) typeCheckLiteral(lit ast.Literal, span token.Token) *typed.Expression {
	return c.literalExpression(lit, c.engine.Insert(literalType(lit)), span)
}

func (c checkContext) literalExpression(lit ast.Literal, id typesystem.TypeID, span token.Token) *typed.Expression {
	return &typed.Expression{
		Variant:    typed.Literal{Value: lit},
		ReturnType: id,
		IsConstant: true,
		Span:       span,
	}
}

// checkLiteralRange reports an integer literal that does not fit the width
// its type resolved to.
func (c checkContext) checkLiteralRange(lit ast.Literal, id typesystem.TypeID, span token.Token) *diagnostics.DiagnosticError {
	switch lit.Kind {
	case ast.LitU8, ast.LitU16, ast.LitU32, ast.LitU64, ast.LitNumeric:
	default:
		return nil
	}
	var bits typesystem.IntegerBits
	switch t := c.engine.LookUp(id).(type) {
	case typesystem.UnsignedInteger:
		bits = t.Bits
	case typesystem.Byte:
		bits = typesystem.Eight
	default:
		return nil
	}
	if lit.Uint > bits.MaxValue() {
		return diagnostics.NewError(diagnostics.ErrA017, span,
			"literal `%d` does not fit in %s (max %d)", lit.Uint, c.engine.FriendlyName(id), bits.MaxValue())
	}
	return nil
}
