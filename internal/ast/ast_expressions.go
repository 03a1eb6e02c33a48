package ast

import (
	"github.com/funvibe/contractc/internal/token"
)

// LiteralKind tags the value held by a Literal.
type LiteralKind int

const (
	LitU8 LiteralKind = iota
	LitU16
	LitU32
	LitU64
	LitNumeric // integer without a type suffix
	LitString
	LitBoolean
	LitByte
	LitB256
)

// Literal is a constant value as written in source.
type Literal struct {
	Kind   LiteralKind
	Uint   uint64 // LitU8..LitNumeric
	String string
	Bool   bool
	Byte   byte
	B256   [32]byte
}

// Convenience constructors used by the parser and tests.
func U64(v uint64) Literal     { return Literal{Kind: LitU64, Uint: v} }
func Numeric(v uint64) Literal { return Literal{Kind: LitNumeric, Uint: v} }
func Bool(v bool) Literal      { return Literal{Kind: LitBoolean, Bool: v} }
func Str(s string) Literal     { return Literal{Kind: LitString, String: s} }

// TypeArgument is a type written between angle brackets at a use site.
type TypeArgument struct {
	Type  Type
	Token token.Token
}

// LiteralExpression is `42`, `true`, `"abc"`, `0x..`.
type LiteralExpression struct {
	Token token.Token
	Value Literal
}

func (le *LiteralExpression) expressionNode()       {}
func (le *LiteralExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LiteralExpression) GetToken() token.Token { return le.Token }

// VariableExpression is a reference to a local or constant.
type VariableExpression struct {
	Name Ident
}

func (ve *VariableExpression) expressionNode()       {}
func (ve *VariableExpression) TokenLiteral() string  { return ve.Name.Value }
func (ve *VariableExpression) GetToken() token.Token { return ve.Name.Token }

// TupleExpression is `(a, b, c)`.
type TupleExpression struct {
	Token  token.Token
	Fields []Expression
}

func (te *TupleExpression) expressionNode()       {}
func (te *TupleExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TupleExpression) GetToken() token.Token { return te.Token }

// ArrayExpression is `[a, b, c]`.
type ArrayExpression struct {
	Token    token.Token
	Contents []Expression
}

func (ae *ArrayExpression) expressionNode()       {}
func (ae *ArrayExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *ArrayExpression) GetToken() token.Token { return ae.Token }

// StructExpressionField is `name: value` inside a struct literal or a
// contract call parameter list.
type StructExpressionField struct {
	Name  Ident
	Value Expression
	Token token.Token
}

// StructExpression is `Point { x: 1, y: 2 }`.
type StructExpression struct {
	Token      token.Token
	StructName Ident
	Fields     []StructExpressionField
}

func (se *StructExpression) expressionNode()       {}
func (se *StructExpression) TokenLiteral() string  { return se.Token.Lexeme }
func (se *StructExpression) GetToken() token.Token { return se.Token }

// SubfieldExpression is `prefix.field`.
type SubfieldExpression struct {
	Token         token.Token
	Prefix        Expression
	FieldToAccess Ident
}

func (se *SubfieldExpression) expressionNode()       {}
func (se *SubfieldExpression) TokenLiteral() string  { return se.Token.Lexeme }
func (se *SubfieldExpression) GetToken() token.Token { return se.Token }

// TupleIndexExpression is `prefix.0`.
type TupleIndexExpression struct {
	Token     token.Token
	Prefix    Expression
	Index     int
	IndexSpan token.Token
}

func (te *TupleIndexExpression) expressionNode()       {}
func (te *TupleIndexExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *TupleIndexExpression) GetToken() token.Token { return te.Token }

// CodeBlock is `{ stmt; stmt; expr }`.
type CodeBlock struct {
	Token    token.Token
	Contents []AstNode
}

func (cb *CodeBlock) expressionNode()       {}
func (cb *CodeBlock) TokenLiteral() string  { return cb.Token.Lexeme }
func (cb *CodeBlock) GetToken() token.Token { return cb.Token }

// IfExpression is `if c { a } else { b }`. Else may be nil.
type IfExpression struct {
	Token     token.Token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }

// MatchExpression is `match value { branches }`.
type MatchExpression struct {
	Token    token.Token
	Value    Expression
	Branches []MatchBranch
}

func (me *MatchExpression) expressionNode()       {}
func (me *MatchExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token { return me.Token }

// MethodNameKind distinguishes the two method call syntaxes.
type MethodNameKind int

const (
	// FromType is `path::Type::method(args)`; the receiver type may be
	// omitted and is then taken from the first argument.
	FromType MethodNameKind = iota
	// FromModule is `receiver.method(args)`.
	FromModule
)

// MethodName names the callee of a MethodApplication.
type MethodName struct {
	Kind MethodNameKind

	// FromType
	CallPath     CallPath
	TypeName     Type // nil when not written
	TypeNameSpan token.Token

	// FromModule
	MethodName Ident
}

// EasyName returns the bare method name.
func (m MethodName) EasyName() Ident {
	if m.Kind == FromModule {
		return m.MethodName
	}
	return m.CallPath.Suffix
}

// Span covers the method name as written.
func (m MethodName) Span() token.Token {
	if m.Kind == FromModule {
		return m.MethodName.Token
	}
	return m.CallPath.Span()
}

// MethodApplication is a method or associated function call, optionally with
// contract call parameters: `caller.transfer { gas: 10 } (to, amount)`.
type MethodApplication struct {
	Token              token.Token
	MethodName         MethodName
	ContractCallParams []StructExpressionField
	Arguments          []Expression
	TypeArguments      []TypeArgument
}

func (ma *MethodApplication) expressionNode()       {}
func (ma *MethodApplication) TokenLiteral() string  { return ma.Token.Lexeme }
func (ma *MethodApplication) GetToken() token.Token { return ma.Token }

// FunctionApplication is a free function call `foo::bar(args)`.
type FunctionApplication struct {
	Token         token.Token
	Name          CallPath
	Arguments     []Expression
	TypeArguments []TypeArgument
}

func (fa *FunctionApplication) expressionNode()       {}
func (fa *FunctionApplication) TokenLiteral() string  { return fa.Token.Lexeme }
func (fa *FunctionApplication) GetToken() token.Token { return fa.Token }

// EnumInstantiation is `Enum::Variant(value)`; Value is nil for unit variants.
type EnumInstantiation struct {
	Token       token.Token
	EnumName    Ident
	VariantName Ident
	Value       Expression
}

func (ei *EnumInstantiation) expressionNode()       {}
func (ei *EnumInstantiation) TokenLiteral() string  { return ei.Token.Lexeme }
func (ei *EnumInstantiation) GetToken() token.Token { return ei.Token }

// AbiCastExpression is `abi(Wallet, address)`.
type AbiCastExpression struct {
	Token   token.Token
	AbiName CallPath
	Address Expression
}

func (ac *AbiCastExpression) expressionNode()       {}
func (ac *AbiCastExpression) TokenLiteral() string  { return ac.Token.Lexeme }
func (ac *AbiCastExpression) GetToken() token.Token { return ac.Token }

// AsmRegisterDeclaration declares a register of an asm block, with an
// optional initializer: `asm(r1: x, r2) { ... }`.
type AsmRegisterDeclaration struct {
	Name        Ident
	Initializer Expression
}

// AsmOp is one instruction of an asm block.
type AsmOp struct {
	OpName    Ident
	OpArgs    []Ident
	Immediate *Ident
	Token     token.Token
}

// AsmExpression is an inline assembly block. ReturnType is nil when the
// block does not return a register.
type AsmExpression struct {
	Token      token.Token
	Registers  []AsmRegisterDeclaration
	Body       []AsmOp
	Returns    *Ident
	ReturnType Type
}

func (ae *AsmExpression) expressionNode()       {}
func (ae *AsmExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AsmExpression) GetToken() token.Token { return ae.Token }

// IntrinsicFunction is a call to a compiler intrinsic such as `__size_of<T>()`.
type IntrinsicFunction struct {
	Token         token.Token
	Name          Ident
	Arguments     []Expression
	TypeArguments []TypeArgument
}

func (inf *IntrinsicFunction) expressionNode()       {}
func (inf *IntrinsicFunction) TokenLiteral() string  { return inf.Token.Lexeme }
func (inf *IntrinsicFunction) GetToken() token.Token { return inf.Token }
