package analyzer

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// pendingBody is a function whose body is checked after every declaration of
// the unit has been registered.
type pendingBody struct {
	decl  *ast.FunctionDeclaration
	fn    *typed.FunctionDeclaration
	scope *symbols.Namespace
	self  typesystem.TypeID
}

// Analyze registers the declarations of program and checks every function
// body. Diagnostics are deduplicated and sorted by position.
func (a *Analyzer) Analyze(program *ast.Program) (*typed.Program, []*diagnostics.DiagnosticError, []*diagnostics.DiagnosticError) {
	coll := diagnostics.NewCollector(program.File)
	out := &typed.Program{
		Kind:    program.Kind,
		Methods: make(map[string][]*typed.FunctionDeclaration),
		Abis:    make(map[string][]*typed.FunctionDeclaration),
	}
	if out.Kind == "" {
		out.Kind = config.KindContract
	}

	var structs []*ast.StructDeclaration
	var enums []*ast.EnumDeclaration
	var abis []*ast.AbiDeclaration
	var fns []*ast.FunctionDeclaration
	var impls []*ast.ImplDeclaration
	var constants []*ast.VariableDeclaration
	for _, d := range program.Declarations {
		switch decl := d.(type) {
		case *ast.StructDeclaration:
			structs = append(structs, decl)
		case *ast.EnumDeclaration:
			enums = append(enums, decl)
		case *ast.AbiDeclaration:
			abis = append(abis, decl)
		case *ast.FunctionDeclaration:
			fns = append(fns, decl)
		case *ast.ImplDeclaration:
			impls = append(impls, decl)
		case *ast.VariableDeclaration:
			constants = append(constants, decl)
		default:
			coll.Add(diagnostics.NewInternalError(d.GetToken(), "unhandled declaration kind"))
		}
	}

	// Types are declared as placeholders first so that they may refer to
	// each other regardless of order.
	placeholders := make(map[string]typesystem.TypeID)
	declareType := func(name ast.Ident) {
		id := a.engine.InsertUnknown()
		if err := a.root.Define(symbols.Symbol{Name: name.Value, Kind: symbols.TypeSymbol, TypeID: id, Token: name.Token}); err != nil {
			coll.Add(err)
			return
		}
		placeholders[name.Value] = id
	}
	for _, s := range structs {
		declareType(s.Name)
	}
	for _, e := range enums {
		declareType(e.Name)
	}
	for _, s := range structs {
		if id, ok := placeholders[s.Name.Value]; ok {
			a.defineType(id, a.resolveStruct(s, coll), s.Name, coll)
		}
	}
	for _, e := range enums {
		if id, ok := placeholders[e.Name.Value]; ok {
			a.defineType(id, a.resolveEnum(e, coll), e.Name, coll)
		}
	}

	var pending []pendingBody
	for _, abiDecl := range abis {
		callerID := a.engine.Insert(typesystem.ContractCaller{AbiName: abiDecl.Name.Value})
		if err := a.root.Define(symbols.Symbol{Name: abiDecl.Name.Value, Kind: symbols.AbiSymbol, TypeID: callerID, Token: abiDecl.Name.Token}); err != nil {
			coll.Add(err)
			continue
		}
		for _, m := range abiDecl.Methods {
			fn, _ := a.declareFunction(a.root, m, typesystem.NoTypeID, coll)
			fn.IsContractCall = true
			if err := a.root.InsertMethod(callerID, fn); err != nil {
				coll.Add(err)
				continue
			}
			out.Abis[abiDecl.Name.Value] = append(out.Abis[abiDecl.Name.Value], fn)
		}
	}

	for _, f := range fns {
		fn, scope := a.declareFunction(a.root, f, typesystem.NoTypeID, coll)
		if err := a.root.Define(symbols.Symbol{Name: f.Name.Value, Kind: symbols.FunctionSymbol, TypeID: fn.ReturnType, Function: fn, Token: f.Name.Token}); err != nil {
			coll.Add(err)
			continue
		}
		out.Functions = append(out.Functions, fn)
		pending = append(pending, pendingBody{decl: f, fn: fn, scope: scope})
	}

	for _, impl := range impls {
		self, implScope, err := a.resolveImplType(impl)
		if err != nil {
			coll.Add(err)
			continue
		}
		key := symbols.TypeKey(a.engine, self)
		for _, m := range impl.Methods {
			fn, scope := a.declareFunction(implScope, m, self, coll)
			if err := a.root.InsertMethod(self, fn); err != nil {
				coll.Add(err)
				continue
			}
			out.Methods[key] = append(out.Methods[key], fn)
			pending = append(pending, pendingBody{decl: m, fn: fn, scope: scope, self: self})
		}
	}

	rootCtx := newCheckContext(a.root)
	rootCtx.purity = a.defaultPurity
	for _, cd := range constants {
		var warnings, errors []*diagnostics.DiagnosticError
		decl := rootCtx.typeCheckVariableDeclaration(cd, &warnings, &errors)
		coll.AddAll(warnings, errors)
		if err := a.root.Define(symbols.Symbol{Name: cd.Name.Value, Kind: symbols.ConstantSymbol, TypeID: decl.Body.ReturnType, Token: cd.Name.Token}); err != nil {
			coll.Add(err)
			continue
		}
		out.Constants = append(out.Constants, decl)
	}
	a.logf("registered %d type(s), %d abi(s), %d function(s), %d impl block(s), %d constant(s)",
		len(placeholders), len(abis), len(fns), len(impls), len(out.Constants))

	for _, p := range pending {
		if p.decl.Body == nil {
			coll.Add(diagnostics.NewError(diagnostics.ErrA003, p.decl.Name.Token, "function `%s` has no body", p.decl.Name.Value))
			continue
		}
		a.checkBody(p, coll)
	}
	a.logf("checked %d function body(ies): %d diagnostic(s), %d type table entries", len(pending), coll.Len(), a.engine.Len())

	return out, coll.Warnings(), coll.Errors()
}

// defineType links a type placeholder to its resolved declaration.
func (a *Analyzer) defineType(placeholder, resolved typesystem.TypeID, name ast.Ident, coll *diagnostics.Collector) {
	if !resolved.IsValid() {
		a.engine.Unify(placeholder, a.engine.InsertErrorRecovery(), name.Token, "")
		return
	}
	_, errs := a.engine.Unify(placeholder, resolved, name.Token, "")
	coll.AddAll(errs)
}

// genericScope opens a scope where the type parameters are declared as
// generic types. The returned arguments are the parameters' type IDs.
func (a *Analyzer) genericScope(outer *symbols.Namespace, params []ast.Ident, coll *diagnostics.Collector) (*symbols.Namespace, []typesystem.TypeArgument) {
	scope := symbols.NewEnclosedNamespace(outer, symbols.ScopeFunction)
	args := make([]typesystem.TypeArgument, 0, len(params))
	for _, p := range params {
		id := a.engine.Insert(typesystem.UnknownGeneric{Name: p.Value})
		if err := scope.Define(symbols.Symbol{Name: p.Value, Kind: symbols.TypeSymbol, TypeID: id, Token: p.Token}); err != nil {
			coll.Add(err)
			continue
		}
		args = append(args, typesystem.TypeArgument{TypeID: id, Span: p.Token})
	}
	return scope, args
}

func (a *Analyzer) resolveStruct(s *ast.StructDeclaration, coll *diagnostics.Collector) typesystem.TypeID {
	scope, params := a.genericScope(a.root, s.TypeParameters, coll)
	fields := make([]typesystem.StructField, 0, len(s.Fields))
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if seen[f.Name.Value] {
			coll.Add(diagnostics.NewError(diagnostics.ErrA004, f.Name.Token,
				"field `%s` is already declared in struct `%s`", f.Name.Value, s.Name.Value))
			continue
		}
		seen[f.Name.Value] = true
		id, err := scope.ResolveType(f.Type, typesystem.NoTypeID)
		if err != nil {
			coll.Add(err)
			id = a.engine.InsertErrorRecovery()
		}
		fields = append(fields, typesystem.StructField{Name: f.Name.Value, TypeID: id, Span: f.Name.Token})
	}
	return a.engine.Insert(typesystem.Struct{Name: s.Name.Value, Fields: fields, TypeParameters: params})
}

func (a *Analyzer) resolveEnum(e *ast.EnumDeclaration, coll *diagnostics.Collector) typesystem.TypeID {
	scope, params := a.genericScope(a.root, e.TypeParameters, coll)
	variants := make([]typesystem.EnumVariant, 0, len(e.Variants))
	seen := make(map[string]bool, len(e.Variants))
	for i, v := range e.Variants {
		if seen[v.Name.Value] {
			coll.Add(diagnostics.NewError(diagnostics.ErrA004, v.Name.Token,
				"variant `%s` is already declared in enum `%s`", v.Name.Value, e.Name.Value))
			continue
		}
		seen[v.Name.Value] = true
		id, err := scope.ResolveType(v.Type, typesystem.NoTypeID)
		if err != nil {
			coll.Add(err)
			id = a.engine.InsertErrorRecovery()
		}
		variants = append(variants, typesystem.EnumVariant{Name: v.Name.Value, TypeID: id, Tag: i, Span: v.Name.Token})
	}
	return a.engine.Insert(typesystem.Enum{Name: e.Name.Value, Variants: variants, TypeParameters: params})
}

// resolveImplType resolves the type an impl block is for. `impl Foo` on a
// generic Foo implements every instance: the declared parameters stay
// generic and are visible to the methods.
func (a *Analyzer) resolveImplType(impl *ast.ImplDeclaration) (typesystem.TypeID, *symbols.Namespace, *diagnostics.DiagnosticError) {
	scope := symbols.NewEnclosedNamespace(a.root, symbols.ScopeFunction)
	if nt, ok := impl.TypeImplementing.(*ast.NamedType); ok && len(nt.Args) == 0 {
		if sym, ok := a.root.Find(nt.Name); ok && sym.Kind == symbols.TypeSymbol {
			for _, p := range typeParameters(a.engine, sym.TypeID) {
				if g, ok := a.engine.LookUp(p.TypeID).(typesystem.UnknownGeneric); ok {
					scope.Insert(symbols.Symbol{Name: g.Name, Kind: symbols.TypeSymbol, TypeID: p.TypeID, Token: p.Span})
				}
			}
			return sym.TypeID, scope, nil
		}
	}
	id, err := a.root.ResolveType(impl.TypeImplementing, typesystem.NoTypeID)
	if err != nil {
		return typesystem.NoTypeID, nil, err
	}
	return id, scope, nil
}

func typeParameters(engine *typesystem.Engine, id typesystem.TypeID) []typesystem.TypeArgument {
	switch t := engine.LookUp(id).(type) {
	case typesystem.Struct:
		return t.TypeParameters
	case typesystem.Enum:
		return t.TypeParameters
	default:
		return nil
	}
}

// declareFunction resolves the signature of a function or method. The
// returned scope holds its type parameters and arguments; the body is
// checked in it later.
func (a *Analyzer) declareFunction(outer *symbols.Namespace, f *ast.FunctionDeclaration, self typesystem.TypeID, coll *diagnostics.Collector) (*typed.FunctionDeclaration, *symbols.Namespace) {
	scope, generics := a.genericScope(outer, f.TypeParameters, coll)

	var typeParams []typesystem.TypeID
	if self.IsValid() {
		for _, p := range typeParameters(a.engine, self) {
			typeParams = append(typeParams, p.TypeID)
		}
	}
	for _, g := range generics {
		typeParams = append(typeParams, g.TypeID)
	}

	resolve := func(t ast.Type) typesystem.TypeID {
		id, err := scope.ResolveType(t, self)
		if err != nil {
			coll.Add(err)
			return a.engine.InsertErrorRecovery()
		}
		return id
	}

	params := make([]typed.FunctionParameter, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		var id typesystem.TypeID
		if p.Type == nil && p.Name.Value == "self" && self.IsValid() {
			id = self
		} else {
			id = resolve(p.Type)
		}
		if err := scope.Define(symbols.Symbol{Name: p.Name.Value, Kind: symbols.VariableSymbol, TypeID: id, Token: p.Name.Token}); err != nil {
			coll.Add(err)
		}
		params = append(params, typed.FunctionParameter{Name: p.Name.Value, TypeID: id, Span: p.Name.Token})
	}

	purity := f.Purity
	if purity == ast.Pure {
		purity = a.defaultPurity
	}
	return &typed.FunctionDeclaration{
		Name:           f.Name,
		Parameters:     params,
		ReturnType:     resolve(f.ReturnType),
		TypeParameters: typeParams,
		Purity:         purity,
		Span:           f.Token,
	}, scope
}

func (a *Analyzer) checkBody(p pendingBody, coll *diagnostics.Collector) {
	ctx := newCheckContext(p.scope)
	ctx.self = p.self
	ctx.purity = p.fn.Purity
	ctx.fnReturn = p.fn.ReturnType
	ctx.fnName = p.fn.Name.Value

	var warnings, errors []*diagnostics.DiagnosticError
	p.fn.Body = ctx.typeCheckExpressionOrRecover(p.decl.Body, p.fn.ReturnType,
		"function body's return type does not match up with its return type annotation", &warnings, &errors)
	coll.AddAll(warnings, errors)
}
