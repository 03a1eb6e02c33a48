package contractc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/contractc/internal/abi"
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/token"
)

var column int

var walletAddress = "0x" + strings.Repeat("00", 31) + "01"

func tok(lexeme string) token.Token {
	column++
	return token.Token{File: "wallet.cc", Lexeme: lexeme, Line: 1, Column: column}
}

func id(name string) ast.Ident {
	return ast.Ident{Value: name, Token: tok(name)}
}

func named(name string) *ast.NamedType {
	return &ast.NamedType{Token: tok(name), Name: name}
}

func u64(v uint64) *ast.LiteralExpression {
	return &ast.LiteralExpression{Token: tok("u64"), Value: ast.U64(v)}
}

// walletProgram declares
//
//	abi Wallet { fn send(amount: u64) -> bool; }
//	fn main() -> bool {
//	    let w = abi(Wallet, 0x00..01);
//	    w.send { gas: 10 }(5)
//	}
func walletProgram(file string) *ast.Program {
	addr := ast.Literal{Kind: ast.LitB256}
	addr.B256[31] = 1
	addrTok := tok(walletAddress)

	send := &ast.MethodApplication{
		Token:              tok("send"),
		MethodName:         ast.MethodName{Kind: ast.FromModule, MethodName: id("send")},
		ContractCallParams: []ast.StructExpressionField{{Name: id("gas"), Value: u64(10), Token: tok("gas")}},
		Arguments:          []ast.Expression{&ast.VariableExpression{Name: id("w")}, u64(5)},
	}
	body := &ast.CodeBlock{Token: tok("{"), Contents: []ast.AstNode{
		{Content: &ast.VariableDeclaration{
			Token: tok("let"),
			Name:  id("w"),
			Body: &ast.AbiCastExpression{
				Token:   tok("abi"),
				AbiName: ast.CallPath{Suffix: id("Wallet")},
				Address: &ast.LiteralExpression{Token: addrTok, Value: addr},
			},
		}, Token: tok("let")},
		{Content: &ast.ImplicitReturn{Token: send.Token, Expression: send}, Token: send.Token},
	}}

	return &ast.Program{
		File: file,
		Kind: config.KindContract,
		Declarations: []ast.Declaration{
			&ast.AbiDeclaration{Token: tok("abi"), Name: id("Wallet"), Methods: []*ast.FunctionDeclaration{{
				Token:      tok("fn"),
				Name:       id("send"),
				Parameters: []ast.FunctionParameter{{Name: id("amount"), Type: named("u64")}},
				ReturnType: named("bool"),
			}}},
			&ast.FunctionDeclaration{Token: tok("fn"), Name: id("main"), ReturnType: named("bool"), Body: body},
		},
	}
}

func TestCheck_ContractCall(t *testing.T) {
	ctx := New(nil).Check(walletProgram("wallet.cc"))
	if ctx.Failed() {
		var out strings.Builder
		ctx.Report(&out)
		t.Fatalf("unit failed:\n%s", out.String())
	}

	if ctx.Descriptors["Wallet"] == nil {
		t.Error("no descriptor exported for Wallet")
	}
	if len(ctx.CallSites) != 1 {
		t.Fatalf("call sites = %d, want 1", len(ctx.CallSites))
	}
	cs, err := abi.DecodeCallSite(ctx.CallSites[0])
	if err != nil {
		t.Fatal(err)
	}
	if cs.Function != "send" || !cs.HasGas || cs.HasCoins {
		t.Errorf("call site = %+v", cs)
	}
	if cs.ContractAddress != walletAddress {
		t.Errorf("address = %s, want %s", cs.ContractAddress, walletAddress)
	}
	if abi.SelectorHex(cs.Selector) != "0x930c143f" {
		t.Errorf("selector = %s", abi.SelectorHex(cs.Selector))
	}
}

func TestCheckAll_KeepsInputOrder(t *testing.T) {
	cfg := config.DefaultBuildConfig()
	cfg.SelectorDB = ":memory:"
	c := New(cfg)

	files := []string{"a.cc", "b.cc", "c.cc", "d.cc"}
	programs := make([]*ast.Program, len(files))
	for i, f := range files {
		programs[i] = walletProgram(f)
	}
	results, err := c.CheckAll(context.Background(), programs)
	if err != nil {
		t.Fatal(err)
	}
	for i, ctx := range results {
		if ctx.FilePath != files[i] {
			t.Errorf("results[%d] is %s, want %s", i, ctx.FilePath, files[i])
		}
		// The same signature registered by every unit is not a collision.
		if ctx.Failed() {
			t.Errorf("%s failed with %d error(s)", ctx.FilePath, len(ctx.Errors))
		}
	}
}

func TestCheckAll_NilProgram(t *testing.T) {
	_, err := New(nil).CheckAll(context.Background(), []*ast.Program{walletProgram("a.cc"), nil})
	if err == nil || !strings.Contains(err.Error(), "unit 1") {
		t.Errorf("err = %v, want a nil program error for unit 1", err)
	}
}

func TestCheckAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil).CheckAll(ctx, []*ast.Program{walletProgram("a.cc")}); err == nil {
		t.Error("expected the cancellation error")
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.BuildConfigFileName)
	if err := os.WriteFile(path, []byte("project: wallet\npurity: sometimes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFile(path); err == nil {
		t.Error("invalid purity should be rejected")
	}

	if err := os.WriteFile(path, []byte("project: wallet\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := NewFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Engine() == nil {
		t.Error("checker has no engine")
	}
}
