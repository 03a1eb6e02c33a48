package symbols

import (
	"strings"

	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// TypeKey names the method table a type's methods live in. Instances of a
// generic type share their declaration's table.
func TypeKey(engine *typesystem.Engine, id typesystem.TypeID) string {
	switch t := engine.LookUp(id).(type) {
	case typesystem.Struct:
		return t.Name
	case typesystem.Enum:
		return t.Name
	case typesystem.Custom:
		return t.Name
	case typesystem.ContractCaller:
		return "contract caller " + t.AbiName
	case typesystem.Unknown, typesystem.ErrorRecovery:
		return ""
	default:
		return engine.FriendlyName(id)
	}
}

// InsertMethod registers decl as a method of the type at id in the nearest
// module scope.
func (ns *Namespace) InsertMethod(id typesystem.TypeID, decl *typed.FunctionDeclaration) *diagnostics.DiagnosticError {
	mod := ns.Module()
	key := TypeKey(ns.engine, id)
	for _, m := range mod.methods[key] {
		if m.Name.Value == decl.Name.Value {
			return diagnostics.NewError(diagnostics.ErrA004, decl.Name.Token,
				"method `%s` is already defined for `%s` at %d:%d",
				decl.Name.Value, key, m.Name.Token.Line, m.Name.Token.Column)
		}
	}
	mod.methods[key] = append(mod.methods[key], decl)
	return nil
}

// FindMethodForType looks up method name for the type at id in the module at
// path. A missing method is reported with the names that do exist.
func (ns *Namespace) FindMethodForType(id typesystem.TypeID, path []string, name string, span token.Token) (*typed.FunctionDeclaration, *diagnostics.DiagnosticError) {
	mod, err := ns.FindModulePath(path, span)
	if err != nil {
		return nil, err
	}
	key := TypeKey(ns.engine, id)
	candidates := mod.methods[key]
	for _, m := range candidates {
		if m.Name.Value == name {
			return m, nil
		}
	}
	msg := "no method named `" + name + "` found for type `" + ns.engine.FriendlyName(id) + "`"
	if len(candidates) > 0 {
		names := make([]string, len(candidates))
		for i, m := range candidates {
			names[i] = m.Name.Value
		}
		msg += "; available methods: " + strings.Join(names, ", ")
	}
	return nil, diagnostics.NewError(diagnostics.ErrA014, span, "%s", msg)
}
