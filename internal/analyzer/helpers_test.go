package analyzer

import (
	"strings"
	"testing"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// Every token gets its own column so that diagnostics never collapse in the
// collector's position-based deduplication.
var column int

func tok(lexeme string) token.Token {
	column++
	return token.Token{File: "test.cc", Lexeme: lexeme, Line: 1, Column: column}
}

func id(name string) ast.Ident {
	return ast.Ident{Value: name, Token: tok(name)}
}

// --- expressions ---

func num(v uint64) *ast.LiteralExpression {
	return &ast.LiteralExpression{Token: tok("n"), Value: ast.Numeric(v)}
}

func u64(v uint64) *ast.LiteralExpression {
	return &ast.LiteralExpression{Token: tok("u64"), Value: ast.U64(v)}
}

func boolean(v bool) *ast.LiteralExpression {
	return &ast.LiteralExpression{Token: tok("bool"), Value: ast.Bool(v)}
}

func address(b byte) *ast.LiteralExpression {
	lit := ast.Literal{Kind: ast.LitB256}
	lit.B256[31] = b
	return &ast.LiteralExpression{Token: tok("0x"), Value: lit}
}

func variable(name string) *ast.VariableExpression {
	return &ast.VariableExpression{Name: id(name)}
}

func tuple(fields ...ast.Expression) *ast.TupleExpression {
	return &ast.TupleExpression{Token: tok("("), Fields: fields}
}

func call(name string, args ...ast.Expression) *ast.FunctionApplication {
	return &ast.FunctionApplication{Token: tok(name), Name: ast.CallPath{Suffix: id(name)}, Arguments: args}
}

// method builds `receiver.name(args)`.
func method(name string, receiver ast.Expression, args ...ast.Expression) *ast.MethodApplication {
	return &ast.MethodApplication{
		Token:      tok(name),
		MethodName: ast.MethodName{Kind: ast.FromModule, MethodName: id(name)},
		Arguments:  append([]ast.Expression{receiver}, args...),
	}
}

func callParam(name string, value ast.Expression) ast.StructExpressionField {
	return ast.StructExpressionField{Name: id(name), Value: value, Token: tok(name)}
}

// --- statements ---

func block(stmts ...ast.Statement) *ast.CodeBlock {
	nodes := make([]ast.AstNode, len(stmts))
	for i, s := range stmts {
		nodes[i] = ast.AstNode{Content: s, Token: tok("stmt")}
	}
	return &ast.CodeBlock{Token: tok("{"), Contents: nodes}
}

func ret(e ast.Expression) *ast.ImplicitReturn {
	return &ast.ImplicitReturn{Token: e.GetToken(), Expression: e}
}

func exprStmt(e ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Token: e.GetToken(), Expression: e}
}

func let(name string, ascription ast.Type, body ast.Expression) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{Token: tok("let"), Name: id(name), TypeAscription: ascription, Body: body}
}

// --- types and declarations ---

func named(name string, args ...ast.Type) *ast.NamedType {
	return &ast.NamedType{Token: tok(name), Name: name, Args: args}
}

func tupleType(types ...ast.Type) *ast.TupleType {
	return &ast.TupleType{Token: tok("("), Types: types}
}

func caller(abi string) *ast.ContractCallerType {
	return &ast.ContractCallerType{Token: tok("ContractCaller"), AbiName: abi}
}

func param(name string, t ast.Type) ast.FunctionParameter {
	return ast.FunctionParameter{Name: id(name), Type: t}
}

func fn(name string, params []ast.FunctionParameter, returns ast.Type, body *ast.CodeBlock) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{Token: tok("fn"), Name: id(name), Parameters: params, ReturnType: returns, Body: body}
}

func structDecl(name string, fields ...ast.StructDeclarationField) *ast.StructDeclaration {
	return &ast.StructDeclaration{Token: tok("struct"), Name: id(name), Fields: fields}
}

func field(name string, t ast.Type) ast.StructDeclarationField {
	return ast.StructDeclarationField{Name: id(name), Type: t}
}

func program(decls ...ast.Declaration) *ast.Program {
	return &ast.Program{File: "test.cc", Kind: config.KindContract, Declarations: decls}
}

// analyzeProgram runs declaration registration and body checking on a fresh
// engine.
func analyzeProgram(t *testing.T, prog *ast.Program) (*typed.Program, []*diagnostics.DiagnosticError, []*diagnostics.DiagnosticError) {
	t.Helper()
	engine := typesystem.NewEngine()
	a := New(engine, symbols.NewRootNamespace(engine))
	return a.Analyze(prog)
}

func analyzeProgramWithPurity(t *testing.T, prog *ast.Program, purity ast.Purity) (*typed.Program, []*diagnostics.DiagnosticError, []*diagnostics.DiagnosticError) {
	t.Helper()
	engine := typesystem.NewEngine()
	a := New(engine, symbols.NewRootNamespace(engine))
	a.SetDefaultPurity(purity)
	return a.Analyze(prog)
}

// implicitReturn returns the value expression of a function body.
func implicitReturn(t *testing.T, fn *typed.FunctionDeclaration) *typed.Expression {
	t.Helper()
	block, ok := fn.Body.Variant.(typed.CodeBlock)
	if !ok {
		t.Fatalf("body of %s is %T, want CodeBlock", fn.Name.Value, fn.Body.Variant)
	}
	for i := len(block.Contents) - 1; i >= 0; i-- {
		if r, ok := block.Contents[i].Content.(*typed.ImplicitReturn); ok {
			return r.Expression
		}
	}
	t.Fatalf("body of %s has no implicit return", fn.Name.Value)
	return nil
}

func findFunction(t *testing.T, prog *typed.Program, name string) *typed.FunctionDeclaration {
	t.Helper()
	for _, f := range prog.Functions {
		if f.Name.Value == name {
			return f
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

// --- check context for unit tests of single passes ---

func newTestContext() checkContext {
	engine := typesystem.NewEngine()
	return newCheckContext(symbols.NewRootNamespace(engine))
}

func (c checkContext) declareStruct(t *testing.T, name string, fields ...typesystem.StructField) typesystem.TypeID {
	t.Helper()
	sid := c.engine.Insert(typesystem.Struct{Name: name, Fields: fields})
	if err := c.ns.Define(symbols.Symbol{Name: name, Kind: symbols.TypeSymbol, TypeID: sid, Token: tok(name)}); err != nil {
		t.Fatalf("declare %s: %v", name, err)
	}
	return sid
}

func (c checkContext) declareEnum(t *testing.T, name string, variants ...typesystem.EnumVariant) typesystem.TypeID {
	t.Helper()
	for i := range variants {
		variants[i].Tag = i
	}
	eid := c.engine.Insert(typesystem.Enum{Name: name, Variants: variants})
	if err := c.ns.Define(symbols.Symbol{Name: name, Kind: symbols.TypeSymbol, TypeID: eid, Token: tok(name)}); err != nil {
		t.Fatalf("declare %s: %v", name, err)
	}
	return eid
}

func (c checkContext) u64Type() typesystem.TypeID  { return c.engine.InsertU64() }
func (c checkContext) boolType() typesystem.TypeID { return c.engine.InsertBool() }

func (c checkContext) tupleOf(ids ...typesystem.TypeID) typesystem.TypeID {
	fields := make([]typesystem.TypeArgument, len(ids))
	for i, tid := range ids {
		fields[i] = typesystem.TypeArgument{TypeID: tid}
	}
	return c.engine.Insert(typesystem.Tuple{Fields: fields})
}

func symbolFor(name string, tid typesystem.TypeID) symbols.Symbol {
	return symbols.Symbol{Name: name, Kind: symbols.VariableSymbol, TypeID: tid, Token: tok(name)}
}

// valueOf is a typed reference to a variable of the given type, the `E` that
// patterns are matched against.
func valueOf(name string, id typesystem.TypeID) *typed.Expression {
	return &typed.Expression{Variant: typed.VariableExpression{Name: name}, ReturnType: id, Span: tok(name)}
}

// --- diagnostics assertions ---

func expectCode(t *testing.T, errs []*diagnostics.DiagnosticError, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	t.Fatalf("expected diagnostic %s, got:\n%s", code, describe(errs))
	return nil
}

func expectCodeContains(t *testing.T, errs []*diagnostics.DiagnosticError, code diagnostics.ErrorCode, substr string) {
	t.Helper()
	e := expectCode(t, errs, code)
	if !strings.Contains(e.Message, substr) {
		t.Errorf("expected %s message to contain %q, got: %s", code, substr, e.Message)
	}
}

func expectNoCode(t *testing.T, errs []*diagnostics.DiagnosticError, code diagnostics.ErrorCode) {
	t.Helper()
	for _, e := range errs {
		if e.Code == code {
			t.Fatalf("unexpected diagnostic %s: %s", code, e.Message)
		}
	}
}

func expectNoErrors(t *testing.T, errs []*diagnostics.DiagnosticError) {
	t.Helper()
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got:\n%s", describe(errs))
	}
}

func countCode(errs []*diagnostics.DiagnosticError, code diagnostics.ErrorCode) int {
	n := 0
	for _, e := range errs {
		if e.Code == code {
			n++
		}
	}
	return n
}

func describe(errs []*diagnostics.DiagnosticError) string {
	if len(errs) == 0 {
		return "  (none)"
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "  " + e.Error()
	}
	return strings.Join(msgs, "\n")
}
