package ast

import (
	"github.com/funvibe/contractc/internal/token"
)

// --- Type Nodes ---

// Type represents a type as written in source.
// E.g. u64, Option<bool>, (u8, b256), [byte; 4], str[5], Self
type Type interface {
	Node
	typeNode()
}

// NamedType is a primitive or user type referred to by name, with optional
// generic arguments.
type NamedType struct {
	Token token.Token
	Name  string
	Args  []Type
}

func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// TupleType is (T1, T2). The empty tuple is the unit type.
type TupleType struct {
	Token token.Token
	Types []Type
}

func (tt *TupleType) typeNode()             {}
func (tt *TupleType) TokenLiteral() string  { return tt.Token.Lexeme }
func (tt *TupleType) GetToken() token.Token { return tt.Token }

// ArrayType is [T; N].
type ArrayType struct {
	Token  token.Token
	Elem   Type
	Length int
}

func (at *ArrayType) typeNode()             {}
func (at *ArrayType) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token { return at.Token }

// StrType is str[N].
type StrType struct {
	Token  token.Token
	Length int
}

func (st *StrType) typeNode()             {}
func (st *StrType) TokenLiteral() string  { return st.Token.Lexeme }
func (st *StrType) GetToken() token.Token { return st.Token }

// ContractCallerType is ContractCaller<Abi>; AbiName is empty for `ContractCaller<_>`.
type ContractCallerType struct {
	Token   token.Token
	AbiName string
}

func (ct *ContractCallerType) typeNode()             {}
func (ct *ContractCallerType) TokenLiteral() string  { return ct.Token.Lexeme }
func (ct *ContractCallerType) GetToken() token.Token { return ct.Token }

// --- Declarations ---

// Declaration is a top-level item of a Program.
type Declaration interface {
	Node
	declarationNode()
}

// FunctionParameter is `name: Type`.
type FunctionParameter struct {
	Name Ident
	Type Type
}

// FunctionDeclaration is `fn name<T>(params) -> ret { body }`. Body is nil for
// ABI method signatures and ReturnType is nil for unit.
type FunctionDeclaration struct {
	Token          token.Token
	Name           Ident
	TypeParameters []Ident
	Parameters     []FunctionParameter
	ReturnType     Type
	Body           *CodeBlock
	Purity         Purity
}

func (fd *FunctionDeclaration) declarationNode()      {}
func (fd *FunctionDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token { return fd.Token }

// StructDeclarationField is one field of a struct declaration.
type StructDeclarationField struct {
	Name Ident
	Type Type
}

// StructDeclaration is `struct Name<T> { fields }`.
type StructDeclaration struct {
	Token          token.Token
	Name           Ident
	TypeParameters []Ident
	Fields         []StructDeclarationField
}

func (sd *StructDeclaration) declarationNode()      {}
func (sd *StructDeclaration) TokenLiteral() string  { return sd.Token.Lexeme }
func (sd *StructDeclaration) GetToken() token.Token { return sd.Token }

// EnumDeclarationVariant is one variant; Type is nil for unit variants.
type EnumDeclarationVariant struct {
	Name Ident
	Type Type
}

// EnumDeclaration is `enum Name<T> { variants }`.
type EnumDeclaration struct {
	Token          token.Token
	Name           Ident
	TypeParameters []Ident
	Variants       []EnumDeclarationVariant
}

func (ed *EnumDeclaration) declarationNode()      {}
func (ed *EnumDeclaration) TokenLiteral() string  { return ed.Token.Lexeme }
func (ed *EnumDeclaration) GetToken() token.Token { return ed.Token }

// AbiDeclaration is `abi Name { fn ...; }`. Methods carry no bodies.
type AbiDeclaration struct {
	Token   token.Token
	Name    Ident
	Methods []*FunctionDeclaration
}

func (ad *AbiDeclaration) declarationNode()      {}
func (ad *AbiDeclaration) TokenLiteral() string  { return ad.Token.Lexeme }
func (ad *AbiDeclaration) GetToken() token.Token { return ad.Token }

// ImplDeclaration is `impl Type { methods }`.
type ImplDeclaration struct {
	Token            token.Token
	TypeImplementing Type
	Methods          []*FunctionDeclaration
}

func (id *ImplDeclaration) declarationNode()      {}
func (id *ImplDeclaration) TokenLiteral() string  { return id.Token.Lexeme }
func (id *ImplDeclaration) GetToken() token.Token { return id.Token }

// VariableDeclaration is `let [mut] name[: T] = body;`. It is both a block
// statement and, for constants, a top-level declaration.
type VariableDeclaration struct {
	Token          token.Token
	Name           Ident
	TypeAscription Type
	Body           Expression
	IsMutable      bool
}

func (vd *VariableDeclaration) statementNode()        {}
func (vd *VariableDeclaration) declarationNode()      {}
func (vd *VariableDeclaration) TokenLiteral() string  { return vd.Token.Lexeme }
func (vd *VariableDeclaration) GetToken() token.Token { return vd.Token }
