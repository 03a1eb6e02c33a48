package ast

import (
	"strings"

	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that may appear as the content of an AstNode.
type Statement interface {
	Node
	statementNode()
}

// Ident is a name together with the token it was written at.
type Ident struct {
	Value string
	Token token.Token
}

func (i Ident) String() string { return i.Value }

// CallPath is a possibly qualified name: `std::hash::sha256` or `~std::hash::sha256`
// when absolute.
type CallPath struct {
	Prefixes   []Ident
	Suffix     Ident
	IsAbsolute bool
}

// FullPath returns prefixes followed by the suffix.
func (cp CallPath) FullPath() []string {
	out := make([]string, 0, len(cp.Prefixes)+1)
	for _, p := range cp.Prefixes {
		out = append(out, p.Value)
	}
	return append(out, cp.Suffix.Value)
}

// PrefixPath returns the module part of the path.
func (cp CallPath) PrefixPath() []string {
	out := make([]string, len(cp.Prefixes))
	for i, p := range cp.Prefixes {
		out[i] = p.Value
	}
	return out
}

func (cp CallPath) String() string {
	s := strings.Join(cp.FullPath(), "::")
	if cp.IsAbsolute {
		return "~" + s
	}
	return s
}

// Span covers the whole path.
func (cp CallPath) Span() token.Token {
	toks := make([]token.Token, 0, len(cp.Prefixes)+1)
	for _, p := range cp.Prefixes {
		toks = append(toks, p.Token)
	}
	return token.JoinAll(append(toks, cp.Suffix.Token)...)
}

// Program is the root node handed over by the parser for one compilation unit.
type Program struct {
	File         string
	Kind         config.ProgramKind
	Declarations []Declaration
}

// AstNode is one entry of a code block.
type AstNode struct {
	Content Statement
	Token   token.Token
}

// ExpressionStatement is an expression evaluated for its effects: `foo();`
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

// ImplicitReturn is the trailing expression of a block without a semicolon.
type ImplicitReturn struct {
	Token      token.Token
	Expression Expression
}

func (ir *ImplicitReturn) statementNode()        {}
func (ir *ImplicitReturn) TokenLiteral() string  { return ir.Token.Lexeme }
func (ir *ImplicitReturn) GetToken() token.Token { return ir.Token }

// ReturnStatement is `return expr;`.
type ReturnStatement struct {
	Token      token.Token
	Expression Expression
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// Purity describes the storage access a function is allowed.
type Purity int

const (
	Pure Purity = iota
	Reads
	Writes
	ReadsWrites
)

// ParsePurity maps the build config spelling to a Purity.
func ParsePurity(s string) (Purity, bool) {
	switch s {
	case "pure", "":
		return Pure, true
	case "read":
		return Reads, true
	case "write":
		return Writes, true
	case "readwrite":
		return ReadsWrites, true
	default:
		return Pure, false
	}
}

// CanCall reports whether a function with purity p may call a function with
// purity callee.
func (p Purity) CanCall(callee Purity) bool {
	switch p {
	case Pure:
		return callee == Pure
	case Reads:
		return callee == Pure || callee == Reads
	case Writes:
		return callee == Pure || callee == Writes
	default:
		return true
	}
}

// Promote returns the least purity that allows calling both p and other.
func (p Purity) Promote(other Purity) Purity {
	switch {
	case p == other:
		return p
	case p == Pure:
		return other
	case other == Pure:
		return p
	default:
		return ReadsWrites
	}
}

// AttributeSyntax renders the storage attribute that grants this purity.
func (p Purity) AttributeSyntax() string {
	switch p {
	case Reads:
		return "#[storage(read)]"
	case Writes:
		return "#[storage(write)]"
	case ReadsWrites:
		return "#[storage(read, write)]"
	default:
		return ""
	}
}

func (p Purity) String() string {
	switch p {
	case Pure:
		return "pure"
	case Reads:
		return "read"
	case Writes:
		return "write"
	default:
		return "readwrite"
	}
}
