package typed

import "sort"

// Inspect traverses e depth-first, calling f for each expression. If f
// returns false the children of that expression are skipped.
func Inspect(e *Expression, f func(*Expression) bool) {
	if e == nil || !f(e) {
		return
	}
	switch v := e.Variant.(type) {
	case Tuple:
		inspectAll(v.Fields, f)
	case Array:
		inspectAll(v.Contents, f)
	case StructExpression:
		for _, field := range v.Fields {
			Inspect(field.Value, f)
		}
	case StructFieldAccess:
		Inspect(v.Prefix, f)
	case TupleIndexAccess:
		Inspect(v.Prefix, f)
	case FunctionApplication:
		if v.Selector != nil {
			Inspect(v.Selector.ContractAddress, f)
		}
		for _, name := range sortedKeys(v.ContractCallParams) {
			Inspect(v.ContractCallParams[name], f)
		}
		for _, arg := range v.Arguments {
			Inspect(arg.Value, f)
		}
	case CodeBlock:
		InspectBlock(v.Contents, f)
	case IfExpression:
		Inspect(v.Condition, f)
		Inspect(v.Then, f)
		Inspect(v.Else, f)
	case MatchExpression:
		Inspect(v.Value, f)
		for _, b := range v.Branches {
			for _, req := range b.Requirements {
				Inspect(req.Left, f)
				Inspect(req.Right, f)
			}
			Inspect(b.Result, f)
		}
	case AbiCast:
		Inspect(v.Address, f)
	case Asm:
		for _, r := range v.Registers {
			Inspect(r.Initializer, f)
		}
	case Intrinsic:
		inspectAll(v.Arguments, f)
	case EnumInstantiation:
		Inspect(v.Contents, f)
	case EnumTag:
		Inspect(v.Prefix, f)
	case UnsafeDowncast:
		Inspect(v.Prefix, f)
	}
}

// InspectBlock runs Inspect over every expression held by the statements of
// a code block.
func InspectBlock(contents []AstNode, f func(*Expression) bool) {
	for _, node := range contents {
		switch n := node.Content.(type) {
		case *VariableDeclaration:
			Inspect(n.Body, f)
		case *ExpressionStatement:
			Inspect(n.Expression, f)
		case *ImplicitReturn:
			Inspect(n.Expression, f)
		case *ReturnStatement:
			Inspect(n.Expression, f)
		}
	}
}

func inspectAll(exprs []*Expression, f func(*Expression) bool) {
	for _, e := range exprs {
		Inspect(e, f)
	}
}

// Bodies returns every function and method with a body, free functions
// first, then methods grouped by type in key order.
func (p *Program) Bodies() []*FunctionDeclaration {
	var out []*FunctionDeclaration
	for _, fn := range p.Functions {
		if fn.Body != nil {
			out = append(out, fn)
		}
	}
	for _, key := range sortedKeys(p.Methods) {
		for _, fn := range p.Methods[key] {
			if fn.Body != nil {
				out = append(out, fn)
			}
		}
	}
	return out
}

// AbiNames returns the names of the unit's ABIs in sorted order.
func (p *Program) AbiNames() []string {
	return sortedKeys(p.Abis)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
