package typesystem

// Instantiate copies the type at id, replacing generic parameters named in
// subst. Types without generic parameters are returned unchanged.
func (e *Engine) Instantiate(id TypeID, subst map[string]TypeID) TypeID {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(subst) == 0 {
		return id
	}
	return e.instantiate(id, subst)
}

func (e *Engine) instantiate(id TypeID, subst map[string]TypeID) TypeID {
	r := e.root(id)
	switch t := e.slots[r].(type) {
	case UnknownGeneric:
		if s, ok := subst[t.Name]; ok {
			return s
		}
		return r
	case Tuple:
		return e.insert(Tuple{Fields: e.instantiateArgs(t.Fields, subst)})
	case Custom:
		return e.insert(Custom{Name: t.Name, TypeArguments: e.instantiateArgs(t.TypeArguments, subst)})
	case Array:
		return e.insert(Array{Elem: e.instantiate(t.Elem, subst), Length: t.Length})
	case Struct:
		fields := make([]StructField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = StructField{Name: f.Name, TypeID: e.instantiate(f.TypeID, subst), Span: f.Span}
		}
		return e.insert(Struct{Name: t.Name, Fields: fields, TypeParameters: e.instantiateArgs(t.TypeParameters, subst)})
	case Enum:
		variants := make([]EnumVariant, len(t.Variants))
		for i, v := range t.Variants {
			variants[i] = EnumVariant{Name: v.Name, TypeID: e.instantiate(v.TypeID, subst), Tag: v.Tag, Span: v.Span}
		}
		return e.insert(Enum{Name: t.Name, Variants: variants, TypeParameters: e.instantiateArgs(t.TypeParameters, subst)})
	default:
		return r
	}
}

func (e *Engine) instantiateArgs(args []TypeArgument, subst map[string]TypeID) []TypeArgument {
	if args == nil {
		return nil
	}
	out := make([]TypeArgument, len(args))
	for i, a := range args {
		out[i] = TypeArgument{TypeID: e.instantiate(a.TypeID, subst), Span: a.Span}
	}
	return out
}

// GenericNames returns the parameter names of a generic struct or enum, in
// declaration order.
func (e *Engine) GenericNames(id TypeID) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var params []TypeArgument
	switch t := e.lookUp(id).(type) {
	case Struct:
		params = t.TypeParameters
	case Enum:
		params = t.TypeParameters
	default:
		return nil
	}
	names := make([]string, 0, len(params))
	for _, p := range params {
		if g, ok := e.lookUp(p.TypeID).(UnknownGeneric); ok {
			names = append(names, g.Name)
		}
	}
	return names
}
