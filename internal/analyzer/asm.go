package analyzer

import (
	"strings"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// typeCheckAsm checks an inline assembly block. Register initializers are
// inferred freely; the block's type is its declared return type, u64 when a
// return register is named without a type, and unit otherwise.
func (c checkContext) typeCheckAsm(e *ast.AsmExpression) exprResult {
	var warnings, errors []*diagnostics.DiagnosticError

	registers := make([]typed.AsmRegister, len(e.Registers))
	for i, r := range e.Registers {
		registers[i] = typed.AsmRegister{Name: r.Name.Value}
		if r.Initializer != nil {
			registers[i].Initializer = c.typeCheckExpressionOrRecover(r.Initializer, c.engine.InsertUnknown(), "", &warnings, &errors)
		}
	}

	for _, op := range e.Body {
		if isDisallowedOpcode(op.OpName.Value) {
			errors = append(errors, diagnostics.NewError(diagnostics.ErrA018, op.OpName.Token,
				"opcode `%s` is not allowed in inline assembly; control flow must stay in the surrounding code",
				op.OpName.Value))
		}
	}

	var returnType typesystem.TypeID
	switch {
	case e.ReturnType != nil:
		id, err := c.ns.ResolveType(e.ReturnType, c.self)
		if err != nil {
			errors = append(errors, err)
			id = c.engine.InsertErrorRecovery()
		}
		returnType = id
	case e.Returns != nil:
		returnType = c.engine.InsertU64()
	default:
		returnType = c.engine.InsertUnit()
	}

	return diagnostics.Ok(&typed.Expression{
		Variant:    typed.Asm{Registers: registers, Body: e.Body, Returns: e.Returns},
		ReturnType: returnType,
		Span:       e.Token,
	}, warnings, errors)
}

func isDisallowedOpcode(name string) bool {
	for _, op := range config.DisallowedOpcodes {
		if strings.EqualFold(name, op) {
			return true
		}
	}
	return false
}
