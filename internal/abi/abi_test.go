package abi

import (
	"errors"
	"testing"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

func method(e *typesystem.Engine, name string, ret typesystem.TypeID, params ...typesystem.TypeID) *typed.FunctionDeclaration {
	fn := &typed.FunctionDeclaration{Name: ast.Ident{Value: name}, ReturnType: ret}
	for i, p := range params {
		fn.Parameters = append(fn.Parameters, typed.FunctionParameter{Name: string(rune('a' + i)), TypeID: p})
	}
	return fn
}

func expectSelector(t *testing.T, e *typesystem.Engine, fn *typed.FunctionDeclaration, wantName, wantHex string) {
	t.Helper()
	name, err := SelectorName(e, fn)
	if err != nil {
		t.Fatalf("SelectorName: %v", err)
	}
	if name != wantName {
		t.Errorf("selector name = %q, want %q", name, wantName)
	}
	sel, err := Selector(e, fn)
	if err != nil {
		t.Fatalf("Selector: %v", err)
	}
	if got := SelectorHex(sel); got != wantHex {
		t.Errorf("selector of %s = %s, want %s", wantName, got, wantHex)
	}
}

// ---------------------------------------------------------------------------
// Selectors
// ---------------------------------------------------------------------------

func TestSelector_Scalars(t *testing.T) {
	e := typesystem.NewEngine()
	expectSelector(t, e, method(e, "send", e.InsertBool(), e.InsertU64()), "send(u64)", "0x930c143f")
	expectSelector(t, e, method(e, "transfer", e.InsertUnit(), e.InsertU64(), e.InsertB256()),
		"transfer(u64,b256)", "0x28c7dd8b")
	expectSelector(t, e, method(e, "noop", e.InsertUnit()), "noop()", "0x03875fb2")
}

func TestSelector_Aggregates(t *testing.T) {
	e := typesystem.NewEngine()
	pair := e.Insert(typesystem.Tuple{Fields: []typesystem.TypeArgument{{TypeID: e.InsertU64()}, {TypeID: e.InsertBool()}}})
	point := e.Insert(typesystem.Struct{Name: "Point", Fields: []typesystem.StructField{
		{Name: "x", TypeID: e.Insert(typesystem.UnsignedInteger{Bits: typesystem.Eight})},
		{Name: "owner", TypeID: e.InsertB256()},
	}})
	arr := e.Insert(typesystem.Array{Elem: e.Insert(typesystem.UnsignedInteger{Bits: typesystem.Sixteen}), Length: 3})
	str := e.Insert(typesystem.Str{Length: 4})

	expectSelector(t, e, method(e, "f", e.InsertUnit(), pair, point, arr, str),
		"f((u64,bool),s(u8,b256),a[u16;3],str[4])", "0xe6fbd0a1")
}

func TestSelector_FollowsUnifiedTypes(t *testing.T) {
	e := typesystem.NewEngine()
	v := e.InsertUnknown()
	if _, errs := e.Unify(v, e.InsertU64(), token.Token{}, ""); len(errs) > 0 {
		t.Fatalf("unify: %v", errs)
	}
	expectSelector(t, e, method(e, "send", e.InsertBool(), v), "send(u64)", "0x930c143f")
}

func TestSelector_UnresolvedGeneric(t *testing.T) {
	e := typesystem.NewEngine()
	fn := method(e, "id", e.InsertUnit(), e.Insert(typesystem.UnknownGeneric{Name: "T"}))
	_, err := Selector(e, fn)
	var unresolved *typesystem.UnresolvedTypeError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedTypeError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Descriptors
// ---------------------------------------------------------------------------

func TestDescribe_ServicePerAbi(t *testing.T) {
	e := typesystem.NewEngine()
	methods := []*typed.FunctionDeclaration{
		method(e, "get_balance", e.InsertU64(), e.InsertB256()),
		method(e, "deposit", e.InsertUnit(), e.InsertU64(), e.InsertBool()),
	}
	fd, err := Describe(e, "Wallet", methods)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	svc := fd.FindService(protoPackage + ".Wallet")
	if svc == nil {
		t.Fatal("service Wallet not found")
	}
	if n := len(svc.GetMethods()); n != 2 {
		t.Fatalf("methods = %d, want 2", n)
	}
	m := svc.FindMethodByName("GetBalance")
	if m == nil {
		t.Fatal("rpc GetBalance not found")
	}
	if n := len(m.GetInputType().GetFields()); n != 1 {
		t.Errorf("GetBalanceRequest fields = %d, want 1", n)
	}
	if n := len(m.GetOutputType().GetFields()); n != 1 {
		t.Errorf("GetBalanceResponse fields = %d, want 1", n)
	}
	deposit := svc.FindMethodByName("Deposit")
	if deposit == nil {
		t.Fatal("rpc Deposit not found")
	}
	if n := len(deposit.GetOutputType().GetFields()); n != 0 {
		t.Errorf("unit return should give an empty response, got %d field(s)", n)
	}
}

func TestExportedName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"send", "Send"},
		{"get_balance", "GetBalance"},
		{"__private", "Private"},
	}
	for _, tt := range tests {
		if got := exportedName(tt.in); got != tt.want {
			t.Errorf("exportedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Call sites
// ---------------------------------------------------------------------------

func TestCallSite_EncodeDecode(t *testing.T) {
	e := typesystem.NewEngine()
	fn := method(e, "send", e.InsertBool(), e.InsertU64())
	sel, err := Selector(e, fn)
	if err != nil {
		t.Fatal(err)
	}
	app := typed.FunctionApplication{
		Name:                ast.CallPath{Suffix: ast.Ident{Value: "send"}},
		FunctionDeclaration: fn,
		Selector:            &typed.ContractCallMetadata{FuncSelector: sel},
		ContractCallParams: map[string]*typed.Expression{
			config.ContractCallGasParameterName: {Variant: typed.Literal{Value: ast.U64(10)}},
		},
	}
	cs := NewCallSite(app, "0x01")
	if !cs.HasGas || cs.HasCoins || cs.HasAssetID {
		t.Errorf("call params = gas:%v coins:%v asset_id:%v, want only gas", cs.HasGas, cs.HasCoins, cs.HasAssetID)
	}

	data, err := EncodeCallSite(cs)
	if err != nil {
		t.Fatalf("EncodeCallSite: %v", err)
	}
	got, err := DecodeCallSite(data)
	if err != nil {
		t.Fatalf("DecodeCallSite: %v", err)
	}
	if got != cs {
		t.Errorf("decoded %+v, want %+v", got, cs)
	}
}
