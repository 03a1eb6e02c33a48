package typesystem

import (
	"fmt"
	"strings"
)

// FriendlyName renders id the way it is written in source, for diagnostics.
func (e *Engine) FriendlyName(id TypeID) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.friendlyName(id)
}

func (e *Engine) friendlyName(id TypeID) string {
	switch t := e.lookUp(id).(type) {
	case Unknown:
		return "unknown"
	case UnknownGeneric:
		return t.Name
	case Str:
		return fmt.Sprintf("str[%d]", t.Length)
	case UnsignedInteger:
		return fmt.Sprintf("u%d", t.Bits)
	case Numeric:
		return "numeric"
	case Boolean:
		return "bool"
	case Unit:
		return "()"
	case Byte:
		return "byte"
	case B256:
		return "b256"
	case Tuple:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = e.friendlyName(f.TypeID)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Custom:
		return t.Name + e.typeArgsName(t.TypeArguments)
	case Struct:
		return t.Name + e.typeArgsName(t.TypeParameters)
	case Enum:
		return t.Name + e.typeArgsName(t.TypeParameters)
	case Array:
		return fmt.Sprintf("[%s; %d]", e.friendlyName(t.Elem), t.Length)
	case ContractCaller:
		if t.AbiName == "" {
			return "contract caller"
		}
		return "contract caller " + t.AbiName
	case Contract:
		return "contract"
	case SelfType:
		return "Self"
	case ErrorRecovery:
		return "unknown due to error"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func (e *Engine) typeArgsName(args []TypeArgument) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.friendlyName(a.TypeID)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
