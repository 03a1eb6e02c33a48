package ast

import (
	"github.com/funvibe/contractc/internal/token"
)

// Scrutinee is the pattern on the left of a match branch.
type Scrutinee interface {
	Node
	scrutineeNode()
}

// CatchAll is `_`.
type CatchAll struct {
	Token token.Token
}

func (c *CatchAll) scrutineeNode()        {}
func (c *CatchAll) TokenLiteral() string  { return c.Token.Lexeme }
func (c *CatchAll) GetToken() token.Token { return c.Token }

// LiteralScrutinee matches a constant value.
type LiteralScrutinee struct {
	Token token.Token
	Value Literal
}

func (l *LiteralScrutinee) scrutineeNode()        {}
func (l *LiteralScrutinee) TokenLiteral() string  { return l.Token.Lexeme }
func (l *LiteralScrutinee) GetToken() token.Token { return l.Token }

// VariableScrutinee binds the matched value to a name.
type VariableScrutinee struct {
	Name Ident
}

func (v *VariableScrutinee) scrutineeNode()        {}
func (v *VariableScrutinee) TokenLiteral() string  { return v.Name.Value }
func (v *VariableScrutinee) GetToken() token.Token { return v.Name.Token }

// StructScrutineeField is `field` or `field: pattern`. Scrutinee is nil in
// the short form, which binds the field to its own name.
type StructScrutineeField struct {
	Field     Ident
	Scrutinee Scrutinee
}

// StructScrutinee is `Point { x, y: 0 }`.
type StructScrutinee struct {
	Token      token.Token
	StructName Ident
	Fields     []StructScrutineeField
}

func (s *StructScrutinee) scrutineeNode()        {}
func (s *StructScrutinee) TokenLiteral() string  { return s.Token.Lexeme }
func (s *StructScrutinee) GetToken() token.Token { return s.Token }

// EnumScrutinee is `Enum::Variant(pattern)`; the call path suffix is the
// variant name and the last prefix the enum name.
type EnumScrutinee struct {
	Token    token.Token
	CallPath CallPath
	Value    Scrutinee
}

func (e *EnumScrutinee) scrutineeNode()        {}
func (e *EnumScrutinee) TokenLiteral() string  { return e.Token.Lexeme }
func (e *EnumScrutinee) GetToken() token.Token { return e.Token }

// TupleScrutinee is `(a, 5, _)`.
type TupleScrutinee struct {
	Token token.Token
	Elems []Scrutinee
}

func (t *TupleScrutinee) scrutineeNode()        {}
func (t *TupleScrutinee) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TupleScrutinee) GetToken() token.Token { return t.Token }

// MatchCondition is the left side of a match branch: either a catch-all or a
// scrutinee.
type MatchCondition struct {
	IsCatchAll bool
	Scrutinee  Scrutinee
	Token      token.Token
}

// MatchBranch is `condition => result`.
type MatchBranch struct {
	Condition MatchCondition
	Result    Expression
	Token     token.Token
}
