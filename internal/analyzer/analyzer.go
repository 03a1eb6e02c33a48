package analyzer

import (
	"log"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// Analyzer performs semantic analysis of one compilation unit: it registers
// declarations in the namespace, then type-checks and desugars every body.
type Analyzer struct {
	engine *typesystem.Engine
	root   *symbols.Namespace
	logger *log.Logger
	// Storage access of functions without a storage attribute.
	defaultPurity ast.Purity
}

// New creates an Analyzer working on engine and the root namespace ns.
func New(engine *typesystem.Engine, ns *symbols.Namespace) *Analyzer {
	return &Analyzer{engine: engine, root: ns}
}

// SetLogger enables progress logging. A nil logger keeps the analyzer silent.
func (a *Analyzer) SetLogger(l *log.Logger) {
	a.logger = l
}

// SetDefaultPurity sets the storage access granted to functions that carry
// no storage attribute.
func (a *Analyzer) SetDefaultPurity(p ast.Purity) {
	a.defaultPurity = p
}

func (a *Analyzer) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// checkContext is threaded through every checking call. It is passed by
// value; opening a scope returns a copy pointing at the child namespace.
type checkContext struct {
	ns     *symbols.Namespace
	engine *typesystem.Engine
	// Type of the enclosing impl block, NoTypeID outside of one.
	self typesystem.TypeID
	// Storage access allowed to the enclosing function.
	purity ast.Purity
	// Declared return type of the enclosing function.
	fnReturn typesystem.TypeID
	fnName   string
}

func newCheckContext(ns *symbols.Namespace) checkContext {
	e := ns.Engine()
	return checkContext{ns: ns, engine: e, purity: ast.Pure, fnReturn: e.InsertUnit()}
}

// scoped returns a context whose namespace is a fresh child scope.
func (c checkContext) scoped(scope symbols.ScopeType) checkContext {
	c.ns = symbols.NewEnclosedNamespace(c.ns, scope)
	return c
}

// unify unifies with the contextual Self type substituted when inside an
// impl block.
func (c checkContext) unify(received, expected typesystem.TypeID, span token.Token, help string) (warnings, errors []*diagnostics.DiagnosticError) {
	if c.self.IsValid() {
		return c.engine.UnifyWithSelf(received, expected, c.self, span, help)
	}
	return c.engine.Unify(received, expected, span, help)
}

func (c checkContext) errorRecovery(span token.Token) *typed.Expression {
	return typed.NewErrorRecovery(c.engine, span)
}

// isRecovered reports whether e stands in for an expression that failed,
// either directly or through a binding whose type came from one.
func (c checkContext) isRecovered(e *typed.Expression) bool {
	if e.IsErrorRecovery() {
		return true
	}
	_, ok := c.engine.LookUp(e.ReturnType).(typesystem.ErrorRecovery)
	return ok
}
