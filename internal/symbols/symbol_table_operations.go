package symbols

import (
	"strings"

	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/token"
)

// Insert binds a symbol in this scope, replacing an earlier binding of the
// same name. Used for locals, where shadowing is allowed.
func (ns *Namespace) Insert(sym Symbol) {
	ns.store[sym.Name] = sym
}

// Define binds a symbol in this scope and reports a redefinition if the name
// is already taken here.
func (ns *Namespace) Define(sym Symbol) *diagnostics.DiagnosticError {
	if prev, ok := ns.store[sym.Name]; ok {
		return diagnostics.NewError(diagnostics.ErrA004, sym.Token,
			"%s `%s` is already defined at %d:%d", prev.Kind, sym.Name, prev.Token.Line, prev.Token.Column)
	}
	ns.store[sym.Name] = sym
	return nil
}

// FindWithScope returns the symbol and the scope where it was defined.
func (ns *Namespace) FindWithScope(name string) (Symbol, *Namespace, bool) {
	for s := ns; s != nil; s = s.outer {
		if sym, ok := s.store[name]; ok {
			return sym, s, true
		}
	}
	return Symbol{}, nil, false
}

// Find looks name up through the enclosing scopes.
func (ns *Namespace) Find(name string) (Symbol, bool) {
	sym, _, ok := ns.FindWithScope(name)
	return sym, ok
}

// IsDefinedLocally checks only this scope.
func (ns *Namespace) IsDefinedLocally(name string) bool {
	_, ok := ns.store[name]
	return ok
}

// InsertModule creates, or returns the existing, submodule name of this
// module scope.
func (ns *Namespace) InsertModule(name string) *Namespace {
	mod := ns.Module()
	if sub, ok := mod.modules[name]; ok {
		return sub
	}
	sub := NewEnclosedNamespace(mod, ScopeModule)
	sub.path = append(append([]string{}, mod.path...), name)
	mod.modules[name] = sub
	return sub
}

// FindModulePath resolves an absolute module path from the root.
func (ns *Namespace) FindModulePath(path []string, span token.Token) (*Namespace, *diagnostics.DiagnosticError) {
	mod := ns.Root()
	for i, name := range path {
		sub, ok := mod.modules[name]
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrA001, span,
				"module `%s` not found", strings.Join(path[:i+1], "::"))
		}
		mod = sub
	}
	return mod, nil
}
