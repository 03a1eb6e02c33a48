package typed

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typesystem"
)

// Scrutinee is a type-checked pattern.
type Scrutinee struct {
	Variant ScrutineeVariant
	TypeID  typesystem.TypeID
	Span    token.Token
}

// ScrutineeVariant is implemented by every kind of typed pattern.
type ScrutineeVariant interface {
	scrutineeVariant()
}

type CatchAll struct{}

type LiteralScrutinee struct {
	Value ast.Literal
}

type VariableScrutinee struct {
	Name ast.Ident
}

// StructScrutineeField is a destructured field. Scrutinee is nil when the
// field is bound to its own name.
type StructScrutineeField struct {
	Field     ast.Ident
	Scrutinee *Scrutinee
}

type StructScrutinee struct {
	StructName string
	Fields     []StructScrutineeField
}

type EnumScrutinee struct {
	EnumName string
	Variant  typesystem.EnumVariant
	Value    *Scrutinee
}

type TupleScrutinee struct {
	Elems []*Scrutinee
}

func (CatchAll) scrutineeVariant()          {}
func (LiteralScrutinee) scrutineeVariant()  {}
func (VariableScrutinee) scrutineeVariant() {}
func (StructScrutinee) scrutineeVariant()   {}
func (EnumScrutinee) scrutineeVariant()     {}
func (TupleScrutinee) scrutineeVariant()    {}

// MatchReq is one runtime equality test: Left must equal Right.
type MatchReq struct {
	Left  *Expression
	Right *Expression
}

// MatchDecl binds Name to Value in the branch body.
type MatchDecl struct {
	Name  ast.Ident
	Value *Expression
}

// MatchReqMap lists the requirements of a branch, outer patterns before
// nested ones and left to right.
type MatchReqMap []MatchReq

// MatchDeclMap lists the bindings of a branch in pattern order.
type MatchDeclMap []MatchDecl
