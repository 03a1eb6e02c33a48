package analyzer

import (
	"testing"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/typed"
)

func branch(pattern ast.Scrutinee, result ast.Expression) ast.MatchBranch {
	return ast.MatchBranch{
		Condition: ast.MatchCondition{Scrutinee: pattern, Token: pattern.GetToken()},
		Result:    result,
		Token:     tok("=>"),
	}
}

func catchAllBranch(result ast.Expression) ast.MatchBranch {
	return ast.MatchBranch{
		Condition: ast.MatchCondition{IsCatchAll: true, Token: tok("_")},
		Result:    result,
		Token:     tok("=>"),
	}
}

func TestMatchBranch_BindingsBecomeLetDeclarations(t *testing.T) {
	c := newTestContext()
	e := valueOf("e", c.tupleOf(c.u64Type(), c.boolType()))

	// (n, _) => n
	res := c.typeCheckMatchBranch(e, branch(&ast.TupleScrutinee{
		Token: tok("("),
		Elems: []ast.Scrutinee{&ast.VariableScrutinee{Name: id("n")}, &ast.CatchAll{Token: tok("_")}},
	}, variable("n")), c.engine.InsertUnknown())
	if !res.OK {
		t.Fatalf("branch failed:\n%s", describe(res.Errors))
	}
	expectNoErrors(t, res.Errors)

	block, ok := res.Value.Result.Variant.(typed.CodeBlock)
	if !ok {
		t.Fatalf("branch result is %T, want CodeBlock", res.Value.Result.Variant)
	}
	if len(block.Contents) != 2 {
		t.Fatalf("block has %d statements, want 2", len(block.Contents))
	}
	decl, ok := block.Contents[0].Content.(*typed.VariableDeclaration)
	if !ok || decl.Name.Value != "n" || decl.IsMutable {
		t.Fatalf("first statement should be an immutable `let n`, got %#v", block.Contents[0].Content)
	}
	expectTupleAccess(t, decl.Body, e, 0)
	if _, ok := block.Contents[1].Content.(*typed.ImplicitReturn); !ok {
		t.Errorf("last statement is %T, want ImplicitReturn", block.Contents[1].Content)
	}
	if got := c.engine.FriendlyName(res.Value.Result.ReturnType); got != "u64" {
		t.Errorf("branch type = %s, want u64", got)
	}
}

func TestMatchBranch_DuplicateBindingLastWins(t *testing.T) {
	c := newTestContext()
	e := valueOf("e", c.tupleOf(c.u64Type(), c.boolType()))

	// (x, x) => x
	res := c.typeCheckMatchBranch(e, branch(&ast.TupleScrutinee{
		Token: tok("("),
		Elems: []ast.Scrutinee{&ast.VariableScrutinee{Name: id("x")}, &ast.VariableScrutinee{Name: id("x")}},
	}, variable("x")), c.engine.InsertUnknown())
	if !res.OK {
		t.Fatalf("branch failed:\n%s", describe(res.Errors))
	}
	expectNoErrors(t, res.Errors)
	expectCode(t, res.Warnings, diagnostics.WarnW002)

	if got := c.engine.FriendlyName(res.Value.Result.ReturnType); got != "bool" {
		t.Errorf("x resolved to %s, want bool (the second binding)", got)
	}
}

func TestMatchBranch_BlockBodyIsSpliced(t *testing.T) {
	c := newTestContext()
	e := valueOf("e", c.u64Type())

	// v => { let w = v; w }
	res := c.typeCheckMatchBranch(e, branch(&ast.VariableScrutinee{Name: id("v")},
		block(let("w", nil, variable("v")), ret(variable("w")))), c.engine.InsertUnknown())
	if !res.OK {
		t.Fatalf("branch failed:\n%s", describe(res.Errors))
	}
	expectNoErrors(t, res.Errors)
	contents := res.Value.Result.Variant.(typed.CodeBlock).Contents
	// let v, let w, w
	if len(contents) != 3 {
		t.Fatalf("block has %d statements, want 3", len(contents))
	}
}

func TestMatchBranch_CatchAllHasNoRequirements(t *testing.T) {
	c := newTestContext()
	res := c.typeCheckMatchBranch(valueOf("e", c.u64Type()), catchAllBranch(boolean(true)), c.engine.InsertUnknown())
	if !res.OK {
		t.Fatalf("branch failed:\n%s", describe(res.Errors))
	}
	if len(res.Value.Requirements) != 0 {
		t.Errorf("requirements = %d, want 0", len(res.Value.Requirements))
	}
}

func TestMatchExpression_BindingsDoNotLeakAcrossBranches(t *testing.T) {
	c := newTestContext()
	c.ns.Insert(symbolFor("p", c.tupleOf(c.u64Type(), c.u64Type())))

	// match p { (y, 1) => y, _ => y }
	res := c.typeCheckMatchExpression(&ast.MatchExpression{
		Token: tok("match"),
		Value: variable("p"),
		Branches: []ast.MatchBranch{
			branch(&ast.TupleScrutinee{Token: tok("("), Elems: []ast.Scrutinee{
				&ast.VariableScrutinee{Name: id("y")},
				&ast.LiteralScrutinee{Token: tok("1"), Value: ast.Numeric(1)},
			}}, variable("y")),
			catchAllBranch(variable("y")),
		},
	}, c.engine.InsertUnknown())
	if !res.OK {
		t.Fatalf("match failed:\n%s", describe(res.Errors))
	}
	expectCodeContains(t, res.Errors, diagnostics.ErrA001, "`y`")
}

func TestMatchExpression_FailedBranchIsSkipped(t *testing.T) {
	c := newTestContext()
	c.ns.Insert(symbolFor("p", c.u64Type()))

	// match p { (a, b) => 1, 2 => 3, _ => 4 }
	res := c.typeCheckMatchExpression(&ast.MatchExpression{
		Token: tok("match"),
		Value: variable("p"),
		Branches: []ast.MatchBranch{
			branch(&ast.TupleScrutinee{Token: tok("("), Elems: []ast.Scrutinee{
				&ast.VariableScrutinee{Name: id("a")},
				&ast.VariableScrutinee{Name: id("b")},
			}}, num(1)),
			branch(&ast.LiteralScrutinee{Token: tok("2"), Value: ast.Numeric(2)}, num(3)),
			catchAllBranch(num(4)),
		},
	}, c.engine.InsertUnknown())
	if !res.OK {
		t.Fatalf("match failed:\n%s", describe(res.Errors))
	}
	expectCode(t, res.Errors, diagnostics.ErrA003)
	m := res.Value.Variant.(typed.MatchExpression)
	if len(m.Branches) != 2 {
		t.Fatalf("branches = %d, want 2 (the mismatched one is dropped)", len(m.Branches))
	}
}

func TestMatchExpression_BranchTypesMustAgree(t *testing.T) {
	c := newTestContext()
	c.ns.Insert(symbolFor("p", c.u64Type()))

	res := c.typeCheckMatchExpression(&ast.MatchExpression{
		Token: tok("match"),
		Value: variable("p"),
		Branches: []ast.MatchBranch{
			branch(&ast.LiteralScrutinee{Token: tok("1"), Value: ast.Numeric(1)}, boolean(true)),
			catchAllBranch(u64(0)),
		},
	}, c.engine.InsertUnknown())
	if !res.OK {
		t.Fatalf("match failed:\n%s", describe(res.Errors))
	}
	expectCodeContains(t, res.Errors, diagnostics.ErrA003, "match branches must all have the same type")
}

func TestMatchExpression_ValueBoundToFailedExpression(t *testing.T) {
	c := newTestContext()
	c.ns.Insert(symbolFor("p", c.engine.InsertErrorRecovery()))

	res := c.typeCheckMatchExpression(&ast.MatchExpression{
		Token: tok("match"),
		Value: variable("p"),
		Branches: []ast.MatchBranch{
			branch(&ast.TupleScrutinee{Token: tok("("), Elems: []ast.Scrutinee{
				&ast.VariableScrutinee{Name: id("a")},
				&ast.VariableScrutinee{Name: id("b")},
			}}, num(1)),
			catchAllBranch(num(2)),
		},
	}, c.engine.InsertUnknown())
	if !res.OK {
		t.Fatalf("match failed:\n%s", describe(res.Errors))
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no follow-on errors, got:\n%s", describe(res.Errors))
	}
	if !res.Value.IsErrorRecovery() {
		t.Errorf("match over a failed value should recover, got %T", res.Value.Variant)
	}
}
