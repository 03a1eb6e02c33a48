// Package abi computes contract call selectors and describes contract ABIs
// for code generation and external tooling.
package abi

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// TypeString returns the ABI spelling of a resolved type, as it appears in a
// selector name.
func TypeString(engine *typesystem.Engine, id typesystem.TypeID) (string, error) {
	switch t := engine.LookUp(id).(type) {
	case typesystem.UnsignedInteger:
		return fmt.Sprintf("u%d", t.Bits), nil
	case typesystem.Boolean:
		return "bool", nil
	case typesystem.Byte:
		return "byte", nil
	case typesystem.B256, typesystem.ContractCaller:
		return "b256", nil
	case typesystem.Unit:
		return "()", nil
	case typesystem.Str:
		return fmt.Sprintf("str[%d]", t.Length), nil
	case typesystem.Tuple:
		parts, err := typeStrings(engine, tupleIDs(t))
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(parts, ",") + ")", nil
	case typesystem.Struct:
		ids := make([]typesystem.TypeID, len(t.Fields))
		for i, f := range t.Fields {
			ids[i] = f.TypeID
		}
		parts, err := typeStrings(engine, ids)
		if err != nil {
			return "", err
		}
		return "s(" + strings.Join(parts, ",") + ")", nil
	case typesystem.Enum:
		ids := make([]typesystem.TypeID, len(t.Variants))
		for i, v := range t.Variants {
			ids[i] = v.TypeID
		}
		parts, err := typeStrings(engine, ids)
		if err != nil {
			return "", err
		}
		return "e(" + strings.Join(parts, ",") + ")", nil
	case typesystem.Array:
		elem, err := TypeString(engine, t.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("a[%s;%d]", elem, t.Length), nil
	default:
		return "", typesystem.NewUnresolvedTypeError(engine.FriendlyName(id))
	}
}

func typeStrings(engine *typesystem.Engine, ids []typesystem.TypeID) ([]string, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		s, err := TypeString(engine, id)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return parts, nil
}

func tupleIDs(t typesystem.Tuple) []typesystem.TypeID {
	ids := make([]typesystem.TypeID, len(t.Fields))
	for i, f := range t.Fields {
		ids[i] = f.TypeID
	}
	return ids
}

// SelectorName returns the string hashed into the selector of fn:
// `name(type1,type2)`.
func SelectorName(engine *typesystem.Engine, fn *typed.FunctionDeclaration) (string, error) {
	parts, err := typeStrings(engine, fn.ParameterTypes())
	if err != nil {
		return "", err
	}
	return fn.Name.Value + "(" + strings.Join(parts, ",") + ")", nil
}

// Selector returns the first four bytes of the SHA-256 digest of the
// selector name of fn.
func Selector(engine *typesystem.Engine, fn *typed.FunctionDeclaration) ([config.SelectorLength]byte, error) {
	var sel [config.SelectorLength]byte
	name, err := SelectorName(engine, fn)
	if err != nil {
		return sel, err
	}
	sum := sha256.Sum256([]byte(name))
	copy(sel[:], sum[:config.SelectorLength])
	return sel, nil
}

// SelectorHex formats a selector as 0x-prefixed hex.
func SelectorHex(sel [config.SelectorLength]byte) string {
	return fmt.Sprintf("0x%x", sel[:])
}
