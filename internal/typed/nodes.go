package typed

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typesystem"
)

// AstNode is one statement of a typed code block.
type AstNode struct {
	Content AstNodeContent
	Span    token.Token
}

// AstNodeContent is implemented by the statement kinds of a code block.
type AstNodeContent interface {
	astNodeContent()
}

// VariableDeclaration is an explicit `let` binding. Pattern bindings of match
// branches are lowered to these as well.
type VariableDeclaration struct {
	Name           ast.Ident
	Body           *Expression
	IsMutable      bool
	TypeAscription typesystem.TypeID
}

type ExpressionStatement struct {
	Expression *Expression
}

// ImplicitReturn is the trailing expression that gives a block its value.
type ImplicitReturn struct {
	Expression *Expression
}

type ReturnStatement struct {
	Expression *Expression
}

func (*VariableDeclaration) astNodeContent() {}
func (*ExpressionStatement) astNodeContent() {}
func (*ImplicitReturn) astNodeContent()      {}
func (*ReturnStatement) astNodeContent()     {}

// FunctionParameter is a resolved parameter of a callable.
type FunctionParameter struct {
	Name   string
	TypeID typesystem.TypeID
	Span   token.Token
}

// FunctionDeclaration is the method descriptor of a resolved callable.
// Body is nil for ABI methods, which are implemented by another contract.
type FunctionDeclaration struct {
	Name           ast.Ident
	Parameters     []FunctionParameter
	ReturnType     typesystem.TypeID
	TypeParameters []typesystem.TypeID
	Body           *Expression
	Purity         ast.Purity
	IsContractCall bool
	Span           token.Token
}

// ParameterTypes returns the declared parameter types in order.
func (fd *FunctionDeclaration) ParameterTypes() []typesystem.TypeID {
	ids := make([]typesystem.TypeID, len(fd.Parameters))
	for i, p := range fd.Parameters {
		ids[i] = p.TypeID
	}
	return ids
}

// Program is the typed result of analyzing one compilation unit.
type Program struct {
	Kind      config.ProgramKind
	Functions []*FunctionDeclaration
	// TypeKey -> methods, in declaration order.
	Methods   map[string][]*FunctionDeclaration
	Abis      map[string][]*FunctionDeclaration
	Constants []*VariableDeclaration
}
