// Package typed holds the fully typed, desugared tree produced by semantic
// analysis and consumed by code generation.
package typed

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typesystem"
)

// Expression is a typed expression. Nodes are immutable once built and own
// their children.
type Expression struct {
	Variant    ExpressionVariant
	ReturnType typesystem.TypeID
	IsConstant bool
	Span       token.Token
}

// ExpressionVariant is implemented by every kind of typed expression.
type ExpressionVariant interface {
	expressionVariant()
}

type Literal struct {
	Value ast.Literal
}

type VariableExpression struct {
	Name string
}

type Tuple struct {
	Fields []*Expression
}

type Array struct {
	Contents []*Expression
}

type StructExpressionField struct {
	Name  string
	Value *Expression
}

type StructExpression struct {
	StructName string
	Fields     []StructExpressionField
}

// StructFieldAccess reads one field of a struct value.
type StructFieldAccess struct {
	Prefix               *Expression
	FieldToAccess        typesystem.StructField
	ResolvedTypeOfParent typesystem.TypeID
}

// TupleIndexAccess reads one positional element of a tuple value.
type TupleIndexAccess struct {
	Prefix               *Expression
	ElemToAccessNum      int
	ResolvedTypeOfParent typesystem.TypeID
	ElemToAccessSpan     token.Token
}

// ContractCallMetadata is what codegen needs to emit a cross-contract call.
type ContractCallMetadata struct {
	FuncSelector    [4]byte
	ContractAddress *Expression
}

// Argument pairs a callee parameter name with the value passed for it.
type Argument struct {
	Name  string
	Value *Expression
}

// FunctionApplication is a resolved call. ContractCallParams and Selector are
// only set for contract calls.
type FunctionApplication struct {
	Name                ast.CallPath
	ContractCallParams  map[string]*Expression
	Arguments           []Argument
	FunctionDeclaration *FunctionDeclaration
	Selector            *ContractCallMetadata
}

type CodeBlock struct {
	Contents []AstNode
}

type IfExpression struct {
	Condition *Expression
	Then      *Expression
	Else      *Expression
}

// MatchBranch is a lowered branch paired with the condition it was written
// with, for the if-chain assembler.
type MatchBranch struct {
	Result       *Expression
	Condition    ast.MatchCondition
	Requirements MatchReqMap
}

type MatchExpression struct {
	Value    *Expression
	Branches []MatchBranch
}

type AbiCast struct {
	AbiName ast.CallPath
	Address *Expression
}

type AsmRegister struct {
	Name        string
	Initializer *Expression
}

type Asm struct {
	Registers []AsmRegister
	Body      []ast.AsmOp
	Returns   *ast.Ident
}

type Intrinsic struct {
	Name          string
	Arguments     []*Expression
	TypeArguments []typesystem.TypeID
}

type EnumInstantiation struct {
	EnumName    string
	VariantName string
	Tag         int
	Contents    *Expression
}

// EnumTag evaluates to the runtime tag of an enum value as a u64.
type EnumTag struct {
	Prefix *Expression
}

// UnsafeDowncast reinterprets an enum value as the payload of Variant. Only
// valid once the tag has been checked.
type UnsafeDowncast struct {
	Prefix  *Expression
	Variant typesystem.EnumVariant
}

// ErrorRecovery stands in for an expression that failed to check.
type ErrorRecovery struct{}

func (Literal) expressionVariant()             {}
func (VariableExpression) expressionVariant()  {}
func (Tuple) expressionVariant()               {}
func (Array) expressionVariant()               {}
func (StructExpression) expressionVariant()    {}
func (StructFieldAccess) expressionVariant()   {}
func (TupleIndexAccess) expressionVariant()    {}
func (FunctionApplication) expressionVariant() {}
func (CodeBlock) expressionVariant()           {}
func (IfExpression) expressionVariant()        {}
func (MatchExpression) expressionVariant()     {}
func (AbiCast) expressionVariant()             {}
func (Asm) expressionVariant()                 {}
func (Intrinsic) expressionVariant()           {}
func (EnumInstantiation) expressionVariant()   {}
func (EnumTag) expressionVariant()             {}
func (UnsafeDowncast) expressionVariant()      {}
func (ErrorRecovery) expressionVariant()       {}

// NewErrorRecovery returns a placeholder expression for span whose type
// unifies with anything.
func NewErrorRecovery(engine *typesystem.Engine, span token.Token) *Expression {
	return &Expression{
		Variant:    ErrorRecovery{},
		ReturnType: engine.InsertErrorRecovery(),
		Span:       span,
	}
}

// IsErrorRecovery reports whether e is a placeholder.
func (e *Expression) IsErrorRecovery() bool {
	_, ok := e.Variant.(ErrorRecovery)
	return ok
}
