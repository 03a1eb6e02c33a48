package analyzer

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/typed"
)

func abiDecl(name string, methods ...*ast.FunctionDeclaration) *ast.AbiDeclaration {
	return &ast.AbiDeclaration{Token: tok("abi"), Name: id(name), Methods: methods}
}

func implDecl(t ast.Type, methods ...*ast.FunctionDeclaration) *ast.ImplDeclaration {
	return &ast.ImplDeclaration{Token: tok("impl"), TypeImplementing: t, Methods: methods}
}

// selfParam is the `self` receiver of a method.
func selfParam() ast.FunctionParameter {
	return ast.FunctionParameter{Name: id("self")}
}

func walletAbi() *ast.AbiDeclaration {
	return abiDecl("Wallet", fn("send", []ast.FunctionParameter{param("amount", named("u64"))}, named("bool"), nil))
}

func walletCast() *ast.AbiCastExpression {
	return &ast.AbiCastExpression{Token: tok("abi"), AbiName: ast.CallPath{Suffix: id("Wallet")}, Address: address(1)}
}

// counterDecls declares `struct Counter { n: u64 }` with a few methods.
func counterDecls() []ast.Declaration {
	load := fn("load", []ast.FunctionParameter{selfParam()}, named("u64"),
		block(ret(&ast.SubfieldExpression{Token: tok("."), Prefix: variable("self"), FieldToAccess: id("n")})))
	load.Purity = ast.Reads
	return []ast.Declaration{
		structDecl("Counter", field("n", named("u64"))),
		implDecl(named("Counter"),
			fn("get", []ast.FunctionParameter{selfParam()}, named("u64"),
				block(ret(&ast.SubfieldExpression{Token: tok("."), Prefix: variable("self"), FieldToAccess: id("n")}))),
			fn("add", []ast.FunctionParameter{selfParam(), param("x", named("u64"))}, named("u64"),
				block(ret(variable("x")))),
			load,
		),
	}
}

// counterMain wraps body in `fn main(c: Counter) -> u64`.
func counterMain(body ast.Expression) *ast.Program {
	decls := counterDecls()
	decls = append(decls, fn("main", []ast.FunctionParameter{param("c", named("Counter"))}, named("u64"), block(ret(body))))
	return program(decls...)
}

// ---------------------------------------------------------------------------
// Contract calls
// ---------------------------------------------------------------------------

func TestMethodApplication_ContractCallNeedsKnownAddress(t *testing.T) {
	prog := program(walletAbi(),
		fn("main", []ast.FunctionParameter{param("w", caller("Wallet"))}, named("bool"),
			block(ret(method("send", variable("w"), u64(1))))))

	_, _, errs := analyzeProgram(t, prog)
	expectCodeContains(t, errs, diagnostics.ErrA015, "address must be known")
	expectNoCode(t, errs, diagnostics.ErrA008)
	expectNoCode(t, errs, diagnostics.ErrA009)
	expectNoCode(t, errs, diagnostics.ErrA019)
}

func TestMethodApplication_ContractCallSelectorAndParams(t *testing.T) {
	send := method("send", variable("w"), u64(5))
	send.ContractCallParams = []ast.StructExpressionField{
		callParam("gas", u64(1)),
		callParam("coins", u64(2)),
	}
	prog := program(walletAbi(),
		fn("main", nil, named("bool"), block(let("w", nil, walletCast()), ret(send))))

	out, _, errs := analyzeProgram(t, prog)
	expectNoErrors(t, errs)

	res := implicitReturn(t, findFunction(t, out, "main"))
	app, ok := res.Variant.(typed.FunctionApplication)
	if !ok {
		t.Fatalf("result is %T, want FunctionApplication", res.Variant)
	}
	if app.Selector == nil {
		t.Fatal("contract call has no selector")
	}
	sum := sha256.Sum256([]byte("send(u64)"))
	if !bytes.Equal(app.Selector.FuncSelector[:], sum[:4]) {
		t.Errorf("selector = %x, want %x", app.Selector.FuncSelector, sum[:4])
	}
	if len(app.Arguments) != 1 || app.Arguments[0].Name != "amount" {
		t.Errorf("arguments = %v, want [amount] (receiver removed)", app.Arguments)
	}
	if len(app.ContractCallParams) != 2 {
		t.Errorf("contract call params = %d, want 2", len(app.ContractCallParams))
	}
	if len(out.Abis["Wallet"]) != 1 || !out.Abis["Wallet"][0].IsContractCall {
		t.Errorf("Wallet abi methods not registered as contract calls")
	}
}

func TestMethodApplication_RepeatedCallParamReportedOnce(t *testing.T) {
	send := method("send", variable("w"), u64(5))
	send.ContractCallParams = []ast.StructExpressionField{
		callParam("gas", u64(1)),
		callParam("gas", u64(2)),
	}
	prog := program(walletAbi(),
		fn("main", nil, named("bool"), block(let("w", nil, walletCast()), ret(send))))

	out, _, errs := analyzeProgram(t, prog)
	if n := countCode(errs, diagnostics.ErrA011); n != 1 {
		t.Fatalf("A011 reported %d times, want 1:\n%s", n, describe(errs))
	}

	// Non-fatal: the call is still built, with the first value.
	res := implicitReturn(t, findFunction(t, out, "main"))
	app, ok := res.Variant.(typed.FunctionApplication)
	if !ok {
		t.Fatalf("result is %T, want FunctionApplication", res.Variant)
	}
	gas, ok := app.ContractCallParams["gas"].Variant.(typed.Literal)
	if !ok || gas.Value.Uint != 1 {
		t.Errorf("gas = %#v, want the first value 1", app.ContractCallParams["gas"].Variant)
	}
}

func TestMethodApplication_UnrecognizedCallParam(t *testing.T) {
	send := method("send", variable("w"), u64(5))
	send.ContractCallParams = []ast.StructExpressionField{callParam("fee", u64(1))}
	prog := program(walletAbi(),
		fn("main", nil, named("bool"), block(let("w", nil, walletCast()), ret(send))))

	_, _, errs := analyzeProgram(t, prog)
	expectCodeContains(t, errs, diagnostics.ErrA012, "`fee`")
}

func TestMethodApplication_CallParamTypesAreFixed(t *testing.T) {
	send := method("send", variable("w"), u64(5))
	send.ContractCallParams = []ast.StructExpressionField{callParam("asset_id", u64(1))}
	prog := program(walletAbi(),
		fn("main", nil, named("bool"), block(let("w", nil, walletCast()), ret(send))))

	_, _, errs := analyzeProgram(t, prog)
	expectCodeContains(t, errs, diagnostics.ErrA003, "b256")
}

// ---------------------------------------------------------------------------
// Ordinary methods
// ---------------------------------------------------------------------------

func TestMethodApplication_ResolvesByReceiverType(t *testing.T) {
	out, _, errs := analyzeProgram(t, counterMain(method("get", variable("c"))))
	expectNoErrors(t, errs)

	app, ok := implicitReturn(t, findFunction(t, out, "main")).Variant.(typed.FunctionApplication)
	if !ok {
		t.Fatal("expected a function application")
	}
	if app.FunctionDeclaration.Name.Value != "get" || app.Selector != nil {
		t.Errorf("resolved %s (selector %v), want get without selector", app.FunctionDeclaration.Name.Value, app.Selector)
	}
	if len(out.Methods["Counter"]) != 3 {
		t.Errorf("Counter methods = %d, want 3", len(out.Methods["Counter"]))
	}
}

func TestMethodApplication_WrittenTypeName(t *testing.T) {
	// Counter::get(c)
	call := &ast.MethodApplication{
		Token: tok("get"),
		MethodName: ast.MethodName{
			Kind:     ast.FromType,
			CallPath: ast.CallPath{Suffix: id("get")},
			TypeName: named("Counter"),
		},
		Arguments: []ast.Expression{variable("c")},
	}
	_, _, errs := analyzeProgram(t, counterMain(call))
	expectNoErrors(t, errs)
}

func TestMethodApplication_CallParamsOnOrdinaryMethod(t *testing.T) {
	get := method("get", variable("c"))
	get.ContractCallParams = []ast.StructExpressionField{callParam("gas", u64(1)), callParam("coins", u64(1))}
	_, _, errs := analyzeProgram(t, counterMain(get))
	if n := countCode(errs, diagnostics.ErrA013); n != 1 {
		t.Fatalf("A013 reported %d times, want 1:\n%s", n, describe(errs))
	}
}

func TestMethodApplication_TooManyArguments(t *testing.T) {
	_, _, errs := analyzeProgram(t, counterMain(method("get", variable("c"), u64(1))))
	expectCodeContains(t, errs, diagnostics.ErrA008, "expected 1, found 2")
}

func TestMethodApplication_TooFewArguments(t *testing.T) {
	_, _, errs := analyzeProgram(t, counterMain(method("add", variable("c"))))
	expectCodeContains(t, errs, diagnostics.ErrA009, "expected 2, found 1")
}

func TestMethodApplication_ArgumentTypeMismatch(t *testing.T) {
	_, _, errs := analyzeProgram(t, counterMain(method("add", variable("c"), boolean(true))))
	expectCodeContains(t, errs, diagnostics.ErrA019, "expects `u64`, found `bool`")
}

func TestMethodApplication_MethodNotFound(t *testing.T) {
	_, _, errs := analyzeProgram(t, counterMain(method("missing", variable("c"))))
	expectCodeContains(t, errs, diagnostics.ErrA014, "available methods: get, add, load")
}

func TestMethodApplication_FailedReceiverReportsOnce(t *testing.T) {
	_, _, errs := analyzeProgram(t, counterMain(method("get", variable("nope"))))
	expectCodeContains(t, errs, diagnostics.ErrA001, "`nope`")
	expectNoCode(t, errs, diagnostics.ErrA014)
	if len(errs) != 1 {
		t.Errorf("expected only the undeclared receiver, got %s", describe(errs))
	}
}

func TestMethodApplication_ReceiverBoundToFailedValue(t *testing.T) {
	prog := counterMain(&ast.CodeBlock{Token: tok("{"), Contents: []ast.AstNode{
		{Content: let("c2", nil, variable("nope")), Token: tok("let")},
		{Content: ret(method("get", variable("c2"))), Token: tok("get")},
	}})
	_, _, errs := analyzeProgram(t, prog)
	expectNoCode(t, errs, diagnostics.ErrA014)
	if n := countCode(errs, diagnostics.ErrA001); n != 1 || len(errs) != 1 {
		t.Errorf("expected one A001, got %s", describe(errs))
	}
}

func TestMethodApplication_PurityViolation(t *testing.T) {
	_, _, errs := analyzeProgram(t, counterMain(method("load", variable("c"))))
	expectCodeContains(t, errs, diagnostics.ErrA010, "#[storage(read)]")
}

func TestMethodApplication_PurityAllowed(t *testing.T) {
	prog := counterMain(method("load", variable("c")))
	main := prog.Declarations[len(prog.Declarations)-1].(*ast.FunctionDeclaration)
	main.Purity = ast.Reads
	_, _, errs := analyzeProgram(t, prog)
	expectNoErrors(t, errs)
}

func TestMethodApplication_DefaultPurityFromConfig(t *testing.T) {
	prog := counterMain(method("load", variable("c")))
	_, _, errs := analyzeProgramWithPurity(t, prog, ast.Reads)
	expectNoErrors(t, errs)
}

// ---------------------------------------------------------------------------
// Generics
// ---------------------------------------------------------------------------

func boxDecls() []ast.Declaration {
	box := structDecl("Box", field("v", named("T")))
	box.TypeParameters = []ast.Ident{id("T")}
	return []ast.Declaration{
		box,
		implDecl(named("Box"),
			fn("get", []ast.FunctionParameter{selfParam()}, named("T"),
				block(ret(&ast.SubfieldExpression{Token: tok("."), Prefix: variable("self"), FieldToAccess: id("v")})))),
	}
}

func TestMethodApplication_GenericReceiver(t *testing.T) {
	decls := boxDecls()
	decls = append(decls,
		fn("unwrap", []ast.FunctionParameter{param("b", named("Box", named("u64")))}, named("u64"),
			block(ret(method("get", variable("b"))))),
		fn("unwrap_bool", []ast.FunctionParameter{param("b", named("Box", named("bool")))}, named("bool"),
			block(ret(method("get", variable("b"))))),
	)
	_, _, errs := analyzeProgram(t, program(decls...))
	expectNoErrors(t, errs)
}

func TestMethodApplication_TypeArgumentsTwice(t *testing.T) {
	// Box<u64>::get::<u64>(b)
	call := &ast.MethodApplication{
		Token: tok("get"),
		MethodName: ast.MethodName{
			Kind:     ast.FromType,
			CallPath: ast.CallPath{Suffix: id("get")},
			TypeName: named("Box", named("u64")),
		},
		Arguments:     []ast.Expression{variable("b")},
		TypeArguments: []ast.TypeArgument{{Type: named("u64"), Token: tok("u64")}},
	}
	decls := boxDecls()
	decls = append(decls, fn("main", []ast.FunctionParameter{param("b", named("Box", named("u64")))}, named("u64"),
		block(ret(call))))
	_, _, errs := analyzeProgram(t, program(decls...))
	expectCodeContains(t, errs, diagnostics.ErrA016, "did not expect to find type arguments here")
}

func TestFunctionApplication_GenericFunctionIsFreshPerCall(t *testing.T) {
	identity := fn("identity", []ast.FunctionParameter{param("x", named("T"))}, named("T"), block(ret(variable("x"))))
	identity.TypeParameters = []ast.Ident{id("T")}
	prog := program(identity,
		fn("main", nil, named("bool"), block(
			let("a", named("u64"), call("identity", u64(1))),
			ret(call("identity", boolean(true))),
		)))

	out, _, errs := analyzeProgram(t, prog)
	expectNoErrors(t, errs)
	res := implicitReturn(t, findFunction(t, out, "main"))
	if res.ReturnType == 0 {
		t.Fatal("call has no type")
	}
}

func TestFunctionApplication_Unknown(t *testing.T) {
	prog := program(fn("main", nil, nil, block(exprStmt(call("nowhere")))))
	_, _, errs := analyzeProgram(t, prog)
	expectCodeContains(t, errs, diagnostics.ErrA001, "nowhere")
}

func TestFunctionApplication_ExplicitTypeArgumentsOnNonGeneric(t *testing.T) {
	f := call("helper")
	f.TypeArguments = []ast.TypeArgument{{Type: named("u64"), Token: tok("u64")}}
	prog := program(
		fn("helper", nil, nil, block()),
		fn("main", nil, nil, block(exprStmt(f))))
	_, _, errs := analyzeProgram(t, prog)
	expectCodeContains(t, errs, diagnostics.ErrA016, "does not take type arguments")
}
