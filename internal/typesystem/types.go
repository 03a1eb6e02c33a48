package typesystem

import (
	"github.com/funvibe/contractc/internal/token"
)

// TypeID is a handle into the Engine arena. IDs are never reused; aliasing is
// expressed by linking one entry to another during unification.
type TypeID uint32

// NoTypeID marks the absence of a type. It behaves like an error-recovery
// placeholder: it unifies with anything and binds nothing.
const NoTypeID TypeID = 0

// IsValid returns true if the ID refers to an arena entry.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// IntegerBits is the width of an unsigned integer type.
type IntegerBits uint8

const (
	Eight     IntegerBits = 8
	Sixteen   IntegerBits = 16
	ThirtyTwo IntegerBits = 32
	SixtyFour IntegerBits = 64
)

// MaxValue returns the largest value representable in the width.
func (b IntegerBits) MaxValue() uint64 {
	if b >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << b) - 1
}

// TypeInfo is the interface for all entries of the type arena.
type TypeInfo interface {
	typeInfo()
}

// Unknown is an inference variable awaiting resolution.
type Unknown struct{}

// UnknownGeneric is a declared generic parameter not yet instantiated.
type UnknownGeneric struct {
	Name string
}

// Ref links an entry to another one. It is written only by the unifier and
// is never visible through LookUp.
type Ref struct {
	Target TypeID
}

// Str is a fixed-length string.
type Str struct {
	Length int
}

// UnsignedInteger is u8, u16, u32 or u64.
type UnsignedInteger struct {
	Bits IntegerBits
}

// Numeric is the type of an integer literal without a suffix; it resolves to
// the first unsigned integer type it is unified with.
type Numeric struct{}

type Boolean struct{}

type Unit struct{}

type Byte struct{}

// B256 is a 256-bit value (hashes, addresses, asset ids).
type B256 struct{}

// TypeArgument is a type used as a generic or tuple argument.
type TypeArgument struct {
	TypeID TypeID
	Span   token.Token
}

type Tuple struct {
	Fields []TypeArgument
}

// Custom is a named type as written in source, before it is resolved
// against the namespace.
type Custom struct {
	Name          string
	TypeArguments []TypeArgument
}

type StructField struct {
	Name   string
	TypeID TypeID
	Span   token.Token
}

type Struct struct {
	Name           string
	Fields         []StructField
	TypeParameters []TypeArgument
}

// FieldNames returns the declared field names in order.
func (s Struct) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Field finds a field by name.
func (s Struct) Field(name string) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

type EnumVariant struct {
	Name   string
	TypeID TypeID
	Tag    int
	Span   token.Token
}

type Enum struct {
	Name           string
	Variants       []EnumVariant
	TypeParameters []TypeArgument
}

// Variant finds a variant by name.
func (e Enum) Variant(name string) (EnumVariant, bool) {
	for _, v := range e.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return EnumVariant{}, false
}

// VariantNames returns the declared variant names in order.
func (e Enum) VariantNames() []string {
	names := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		names[i] = v.Name
	}
	return names
}

type Array struct {
	Elem   TypeID
	Length int
}

// ContractCaller is a handle to a deployed contract implementing an ABI.
// An empty AbiName means the ABI is not known yet. Address is nil when the
// contract address is not statically known.
type ContractCaller struct {
	AbiName string
	Address *string
}

// Contract is the type of the contract being compiled.
type Contract struct{}

// SelfType refers to the type of the enclosing impl block.
type SelfType struct{}

// ErrorRecovery is the type of a placeholder expression produced after an
// error. It unifies with anything without binding.
type ErrorRecovery struct{}

func (Unknown) typeInfo()         {}
func (UnknownGeneric) typeInfo()  {}
func (Ref) typeInfo()             {}
func (Str) typeInfo()             {}
func (UnsignedInteger) typeInfo() {}
func (Numeric) typeInfo()         {}
func (Boolean) typeInfo()         {}
func (Unit) typeInfo()            {}
func (Byte) typeInfo()            {}
func (B256) typeInfo()            {}
func (Tuple) typeInfo()           {}
func (Custom) typeInfo()          {}
func (Struct) typeInfo()          {}
func (Enum) typeInfo()            {}
func (Array) typeInfo()           {}
func (ContractCaller) typeInfo()  {}
func (Contract) typeInfo()        {}
func (SelfType) typeInfo()        {}
func (ErrorRecovery) typeInfo()   {}

// IsCopyType reports whether values of the type fit in a register and are
// passed by value.
func IsCopyType(t TypeInfo) bool {
	switch t.(type) {
	case UnsignedInteger, Numeric, Boolean, Unit, Byte:
		return true
	default:
		return false
	}
}
