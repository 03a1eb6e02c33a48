package typesystem

import (
	"fmt"

	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/token"
)

// Unify attempts to make received and expected the same type by linking
// unresolved entries. Mismatches are returned as A003 errors; implicit
// narrowing of unsigned integers is allowed with a W001 warning.
//
// Within tuples and generic arguments, pairs are unified left to right and
// links made before a later mismatch are kept.
func (e *Engine) Unify(received, expected TypeID, span token.Token, help string) (warnings, errors []*diagnostics.DiagnosticError) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unify(received, expected, span, help)
}

// UnifyWithSelf is Unify with any top-level Self type replaced by self first.
func (e *Engine) UnifyWithSelf(received, expected, self TypeID, span token.Token, help string) (warnings, errors []*diagnostics.DiagnosticError) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.lookUp(received).(SelfType); ok {
		received = self
	}
	if _, ok := e.lookUp(expected).(SelfType); ok {
		expected = self
	}
	return e.unify(received, expected, span, help)
}

func (e *Engine) unify(received, expected TypeID, span token.Token, help string) (warnings, errors []*diagnostics.DiagnosticError) {
	r, x := e.root(received), e.root(expected)
	if r == x || r == NoTypeID || x == NoTypeID {
		return nil, nil
	}
	rt, xt := e.slots[r], e.slots[x]

	// Placeholders first: error recovery absorbs, unknowns bind.
	switch {
	case isErrorRecovery(rt) || isErrorRecovery(xt):
		return nil, nil
	case isUnknown(rt):
		return nil, e.bind(r, x, span, help)
	case isUnknown(xt):
		return nil, e.bind(x, r, span, help)
	}

	if rg, ok := rt.(UnknownGeneric); ok {
		if xg, ok := xt.(UnknownGeneric); ok && xg.Name == rg.Name {
			return nil, nil
		}
		return nil, e.bind(r, x, span, help)
	}
	if _, ok := xt.(UnknownGeneric); ok {
		return nil, e.bind(x, r, span, help)
	}

	if _, ok := rt.(Numeric); ok && isIntegerLike(xt) {
		e.link(r, x)
		return nil, nil
	}
	if _, ok := xt.(Numeric); ok && isIntegerLike(rt) {
		e.link(x, r)
		return nil, nil
	}

	switch rt := rt.(type) {
	case UnsignedInteger:
		if xt, ok := xt.(UnsignedInteger); ok {
			if rt.Bits > xt.Bits {
				warnings = append(warnings, diagnostics.NewWarning(diagnostics.WarnW001, span,
					"this cast from u%d to u%d loses precision", rt.Bits, xt.Bits))
			}
			return warnings, nil
		}
	case Boolean, Unit, Byte, B256, Contract:
		if sameVariant(rt, xt) {
			return nil, nil
		}
	case SelfType:
		if _, ok := xt.(SelfType); ok {
			return nil, nil
		}
	case Str:
		if xt, ok := xt.(Str); ok && xt.Length == rt.Length {
			return nil, nil
		}
	case Tuple:
		if xt, ok := xt.(Tuple); ok && len(xt.Fields) == len(rt.Fields) {
			for i := range rt.Fields {
				w, errs := e.unify(rt.Fields[i].TypeID, xt.Fields[i].TypeID, span, help)
				warnings = append(warnings, w...)
				errors = append(errors, errs...)
			}
			return warnings, errors
		}
	case Custom:
		if xt, ok := xt.(Custom); ok && xt.Name == rt.Name && len(xt.TypeArguments) == len(rt.TypeArguments) {
			return e.unifyArguments(rt.TypeArguments, xt.TypeArguments, span, help)
		}
	case Struct:
		if xt, ok := xt.(Struct); ok && xt.Name == rt.Name && sameFieldNames(rt, xt) {
			for i := range rt.Fields {
				w, errs := e.unify(rt.Fields[i].TypeID, xt.Fields[i].TypeID, span, help)
				warnings = append(warnings, w...)
				errors = append(errors, errs...)
			}
			return warnings, errors
		}
	case Enum:
		if xt, ok := xt.(Enum); ok && xt.Name == rt.Name && sameVariantNames(rt, xt) {
			for i := range rt.Variants {
				w, errs := e.unify(rt.Variants[i].TypeID, xt.Variants[i].TypeID, span, help)
				warnings = append(warnings, w...)
				errors = append(errors, errs...)
			}
			return warnings, errors
		}
	case Array:
		if xt, ok := xt.(Array); ok && xt.Length == rt.Length {
			return e.unify(rt.Elem, xt.Elem, span, help)
		}
	case ContractCaller:
		if xt, ok := xt.(ContractCaller); ok {
			switch {
			case rt.AbiName == "" && xt.AbiName != "":
				e.link(r, x)
				return nil, nil
			case xt.AbiName == "" && rt.AbiName != "":
				e.link(x, r)
				return nil, nil
			case rt.AbiName == xt.AbiName:
				return nil, nil
			}
		}
	}

	return warnings, append(errors, e.mismatch(r, x, span, help))
}

func (e *Engine) unifyArguments(received, expected []TypeArgument, span token.Token, help string) (warnings, errors []*diagnostics.DiagnosticError) {
	for i := range received {
		w, errs := e.unify(received[i].TypeID, expected[i].TypeID, span, help)
		warnings = append(warnings, w...)
		errors = append(errors, errs...)
	}
	return warnings, errors
}

// bind links the unresolved root tv to t, performing the occurs check.
func (e *Engine) bind(tv, t TypeID, span token.Token, help string) []*diagnostics.DiagnosticError {
	if e.occurs(tv, t) {
		return []*diagnostics.DiagnosticError{diagnostics.NewError(diagnostics.ErrA003, span,
			"infinite type detected: %s occurs in %s", e.friendlyName(tv), e.friendlyName(t))}
	}
	e.link(tv, t)
	return nil
}

// occurs reports whether the root tv appears inside t.
func (e *Engine) occurs(tv, t TypeID) bool {
	t = e.root(t)
	if t == tv {
		return true
	}
	switch tt := e.slots[t].(type) {
	case Tuple:
		for _, f := range tt.Fields {
			if e.occurs(tv, f.TypeID) {
				return true
			}
		}
	case Custom:
		for _, a := range tt.TypeArguments {
			if e.occurs(tv, a.TypeID) {
				return true
			}
		}
	case Array:
		return e.occurs(tv, tt.Elem)
	}
	return false
}

func (e *Engine) mismatch(received, expected TypeID, span token.Token, help string) *diagnostics.DiagnosticError {
	msg := fmt.Sprintf("mismatched types: expected `%s`, found `%s`", e.friendlyName(expected), e.friendlyName(received))
	if help != "" {
		msg += "\nhelp: " + help
	}
	return diagnostics.NewError(diagnostics.ErrA003, span, "%s", msg)
}

func isUnknown(t TypeInfo) bool {
	_, ok := t.(Unknown)
	return ok
}

func isErrorRecovery(t TypeInfo) bool {
	_, ok := t.(ErrorRecovery)
	return ok
}

func isIntegerLike(t TypeInfo) bool {
	switch t.(type) {
	case UnsignedInteger, Numeric, Byte:
		return true
	default:
		return false
	}
}

func sameVariant(a, b TypeInfo) bool {
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

func sameFieldNames(a, b Struct) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name {
			return false
		}
	}
	return true
}

func sameVariantNames(a, b Enum) bool {
	if len(a.Variants) != len(b.Variants) {
		return false
	}
	for i := range a.Variants {
		if a.Variants[i].Name != b.Variants[i].Name {
			return false
		}
	}
	return true
}
