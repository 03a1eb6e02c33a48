package symbols

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typesystem"
)

var primitiveTypes = map[string]typesystem.TypeInfo{
	"u8":   typesystem.UnsignedInteger{Bits: typesystem.Eight},
	"u16":  typesystem.UnsignedInteger{Bits: typesystem.Sixteen},
	"u32":  typesystem.UnsignedInteger{Bits: typesystem.ThirtyTwo},
	"u64":  typesystem.UnsignedInteger{Bits: typesystem.SixtyFour},
	"bool": typesystem.Boolean{},
	"byte": typesystem.Byte{},
	"b256": typesystem.B256{},
}

// ResolveType converts a written type into a type table entry. self is the
// type of the enclosing impl block, or NoTypeID outside of one.
func (ns *Namespace) ResolveType(t ast.Type, self typesystem.TypeID) (typesystem.TypeID, *diagnostics.DiagnosticError) {
	e := ns.engine
	switch tt := t.(type) {
	case nil:
		return e.InsertUnit(), nil
	case *ast.NamedType:
		return ns.resolveNamed(tt, self)
	case *ast.TupleType:
		if len(tt.Types) == 0 {
			return e.InsertUnit(), nil
		}
		fields := make([]typesystem.TypeArgument, len(tt.Types))
		for i, sub := range tt.Types {
			id, err := ns.ResolveType(sub, self)
			if err != nil {
				return typesystem.NoTypeID, err
			}
			fields[i] = typesystem.TypeArgument{TypeID: id, Span: sub.GetToken()}
		}
		return e.Insert(typesystem.Tuple{Fields: fields}), nil
	case *ast.ArrayType:
		elem, err := ns.ResolveType(tt.Elem, self)
		if err != nil {
			return typesystem.NoTypeID, err
		}
		return e.Insert(typesystem.Array{Elem: elem, Length: tt.Length}), nil
	case *ast.StrType:
		return e.Insert(typesystem.Str{Length: tt.Length}), nil
	case *ast.ContractCallerType:
		if tt.AbiName != "" {
			if sym, ok := ns.Find(tt.AbiName); !ok || sym.Kind != AbiSymbol {
				return typesystem.NoTypeID, diagnostics.NewError(diagnostics.ErrA002, tt.Token,
					"abi `%s` is not declared", tt.AbiName)
			}
		}
		return e.Insert(typesystem.ContractCaller{AbiName: tt.AbiName}), nil
	default:
		return typesystem.NoTypeID, diagnostics.NewInternalError(t.GetToken(), "unhandled type syntax")
	}
}

func (ns *Namespace) resolveNamed(nt *ast.NamedType, self typesystem.TypeID) (typesystem.TypeID, *diagnostics.DiagnosticError) {
	e := ns.engine
	if prim, ok := primitiveTypes[nt.Name]; ok {
		if len(nt.Args) > 0 {
			return typesystem.NoTypeID, doesNotTakeTypeArguments(nt.Name, nt.Token)
		}
		return e.Insert(prim), nil
	}
	switch nt.Name {
	case "_":
		return e.InsertUnknown(), nil
	case config.SelfTypeName:
		if self.IsValid() {
			return self, nil
		}
		return e.Insert(typesystem.SelfType{}), nil
	}

	sym, ok := ns.Find(nt.Name)
	if !ok || sym.Kind != TypeSymbol {
		return typesystem.NoTypeID, diagnostics.NewError(diagnostics.ErrA002, nt.Token,
			"cannot find type `%s` in this scope", nt.Name)
	}
	params := e.GenericNames(sym.TypeID)
	switch {
	case len(params) == 0 && len(nt.Args) > 0:
		return typesystem.NoTypeID, doesNotTakeTypeArguments(nt.Name, nt.Token)
	case len(params) == 0:
		return sym.TypeID, nil
	case len(nt.Args) != 0 && len(nt.Args) != len(params):
		return typesystem.NoTypeID, diagnostics.NewError(diagnostics.ErrA003, nt.Token,
			"`%s` expects %d type argument(s), found %d", nt.Name, len(params), len(nt.Args))
	}

	subst := make(map[string]typesystem.TypeID, len(params))
	for i, name := range params {
		if len(nt.Args) == 0 {
			subst[name] = e.InsertUnknown()
			continue
		}
		id, err := ns.ResolveType(nt.Args[i], self)
		if err != nil {
			return typesystem.NoTypeID, err
		}
		subst[name] = id
	}
	return e.Instantiate(sym.TypeID, subst), nil
}

// InstantiateFresh returns a copy of a declared generic type with every
// parameter replaced by a new inference variable.
func (ns *Namespace) InstantiateFresh(declared typesystem.TypeID) typesystem.TypeID {
	params := ns.engine.GenericNames(declared)
	if len(params) == 0 {
		return declared
	}
	subst := make(map[string]typesystem.TypeID, len(params))
	for _, name := range params {
		subst[name] = ns.engine.InsertUnknown()
	}
	return ns.engine.Instantiate(declared, subst)
}

func doesNotTakeTypeArguments(name string, span token.Token) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrA016, span, "`%s` does not take type arguments", name)
}

// ExpectTupleTypeArgsFromTypeID returns the element types of a tuple type.
func (ns *Namespace) ExpectTupleTypeArgsFromTypeID(id typesystem.TypeID, span token.Token) ([]typesystem.TypeArgument, *diagnostics.DiagnosticError) {
	fields, ok := ns.engine.TupleFields(id)
	if !ok {
		if _, unit := ns.engine.LookUp(id).(typesystem.Unit); unit {
			return nil, nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrA020, span,
			"expected a tuple, found `%s`", ns.engine.FriendlyName(id))
	}
	return fields, nil
}

// ExpectStructFromTypeID returns the struct type id resolves to.
func (ns *Namespace) ExpectStructFromTypeID(id typesystem.TypeID, span token.Token) (typesystem.Struct, *diagnostics.DiagnosticError) {
	st, ok := ns.engine.LookUp(id).(typesystem.Struct)
	if !ok {
		return typesystem.Struct{}, diagnostics.NewError(diagnostics.ErrA021, span,
			"expected a struct, found `%s`", ns.engine.FriendlyName(id))
	}
	return st, nil
}

// ExpectEnumFromTypeID returns the enum type id resolves to.
func (ns *Namespace) ExpectEnumFromTypeID(id typesystem.TypeID, span token.Token) (typesystem.Enum, *diagnostics.DiagnosticError) {
	en, ok := ns.engine.LookUp(id).(typesystem.Enum)
	if !ok {
		return typesystem.Enum{}, diagnostics.NewError(diagnostics.ErrA003, span,
			"expected an enum, found `%s`", ns.engine.FriendlyName(id))
	}
	return en, nil
}
