package symbols

import (
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

type SymbolKind int

type ScopeType int

const (
	ScopeModule   ScopeType = iota // A module: holds types, functions, methods and submodules
	ScopeFunction                  // Function parameters
	ScopeBlock                     // Code block locals
	ScopeBranch                    // Bindings of one match branch
)

const (
	VariableSymbol SymbolKind = iota
	ConstantSymbol
	FunctionSymbol
	TypeSymbol
	AbiSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case VariableSymbol:
		return "variable"
	case ConstantSymbol:
		return "constant"
	case FunctionSymbol:
		return "function"
	case TypeSymbol:
		return "type"
	case AbiSymbol:
		return "abi"
	default:
		return "symbol"
	}
}

type Symbol struct {
	Name      string
	Kind      SymbolKind
	TypeID    typesystem.TypeID
	IsMutable bool
	Function  *typed.FunctionDeclaration // FunctionSymbol only
	Token     token.Token                // Where the symbol was declared
}

// Namespace is a lexical scope. Module scopes additionally own the methods
// declared in them and their submodules; child scopes only hold locals and
// are discarded once the code that opened them has been checked.
type Namespace struct {
	engine    *typesystem.Engine
	store     map[string]Symbol
	outer     *Namespace
	scopeType ScopeType

	// Module scopes only.
	path    []string
	modules map[string]*Namespace
	// TypeKey -> methods declared for that type, in declaration order.
	methods map[string][]*typed.FunctionDeclaration
}

// NewRootNamespace creates the root module of a compilation unit.
func NewRootNamespace(engine *typesystem.Engine) *Namespace {
	return &Namespace{
		engine:    engine,
		store:     make(map[string]Symbol),
		scopeType: ScopeModule,
		modules:   make(map[string]*Namespace),
		methods:   make(map[string][]*typed.FunctionDeclaration),
	}
}

// NewEnclosedNamespace opens a child scope under outer.
func NewEnclosedNamespace(outer *Namespace, scopeType ScopeType) *Namespace {
	ns := &Namespace{
		engine:    outer.engine,
		store:     make(map[string]Symbol),
		outer:     outer,
		scopeType: scopeType,
	}
	if scopeType == ScopeModule {
		ns.modules = make(map[string]*Namespace)
		ns.methods = make(map[string][]*typed.FunctionDeclaration)
	}
	return ns
}

// Engine returns the type table shared by every scope of the unit.
func (ns *Namespace) Engine() *typesystem.Engine {
	return ns.engine
}

// Outer returns the enclosing scope, or nil for the root.
func (ns *Namespace) Outer() *Namespace {
	return ns.outer
}

// ScopeType returns the kind of this scope.
func (ns *Namespace) ScopeType() ScopeType {
	return ns.scopeType
}

// Root returns the root module.
func (ns *Namespace) Root() *Namespace {
	for ns.outer != nil {
		ns = ns.outer
	}
	return ns
}

// Module returns the nearest enclosing module scope.
func (ns *Namespace) Module() *Namespace {
	for ns.scopeType != ScopeModule {
		ns = ns.outer
	}
	return ns
}

// ModulePath returns the absolute path of the nearest enclosing module.
func (ns *Namespace) ModulePath() []string {
	return ns.Module().path
}
