package diagnostics

import (
	"fmt"

	"github.com/funvibe/contractc/internal/token"
)

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

// Analyzer errors
const (
	ErrA001 ErrorCode = "A001" // undeclared symbol
	ErrA002 ErrorCode = "A002" // undeclared type
	ErrA003 ErrorCode = "A003" // type mismatch
	ErrA004 ErrorCode = "A004" // redefinition
	ErrA005 ErrorCode = "A005" // unknown struct field
	ErrA006 ErrorCode = "A006" // unknown enum variant
	ErrA007 ErrorCode = "A007" // tuple index out of bounds
	ErrA008 ErrorCode = "A008" // too many arguments
	ErrA009 ErrorCode = "A009" // too few arguments
	ErrA010 ErrorCode = "A010" // storage access mismatch
	ErrA011 ErrorCode = "A011" // contract call parameter repeated
	ErrA012 ErrorCode = "A012" // unrecognized contract call parameter
	ErrA013 ErrorCode = "A013" // call parameter for non-contract call
	ErrA014 ErrorCode = "A014" // method not found
	ErrA015 ErrorCode = "A015" // contract address must be known
	ErrA016 ErrorCode = "A016" // does not take type arguments
	ErrA017 ErrorCode = "A017" // literal out of range
	ErrA018 ErrorCode = "A018" // disallowed asm opcode
	ErrA019 ErrorCode = "A019" // argument/parameter type mismatch
	ErrA020 ErrorCode = "A020" // not a tuple
	ErrA021 ErrorCode = "A021" // not a struct
	ErrA022 ErrorCode = "A022" // selector collision
	ErrA023 ErrorCode = "A023" // intrinsic misuse
)

// Internal errors
const (
	ErrI001 ErrorCode = "I001"
)

// Warnings
const (
	WarnW001 ErrorCode = "W001" // loss of precision
	WarnW002 ErrorCode = "W002" // shadowed pattern binding
)

// Severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

var errorTitles = map[ErrorCode]string{
	ErrA001:  "undeclared symbol",
	ErrA002:  "undeclared type",
	ErrA003:  "type error",
	ErrA004:  "redefinition",
	ErrA005:  "unknown field",
	ErrA006:  "unknown variant",
	ErrA007:  "tuple index out of bounds",
	ErrA008:  "too many arguments",
	ErrA009:  "too few arguments",
	ErrA010:  "storage access mismatch",
	ErrA011:  "repeated contract call parameter",
	ErrA012:  "unrecognized contract call parameter",
	ErrA013:  "call parameter on non-contract call",
	ErrA014:  "method not found",
	ErrA015:  "contract address must be known",
	ErrA016:  "unexpected type arguments",
	ErrA017:  "literal out of range",
	ErrA018:  "disallowed opcode",
	ErrA019:  "argument type mismatch",
	ErrA020:  "not a tuple",
	ErrA021:  "not a struct",
	ErrA022:  "selector collision",
	ErrA023:  "intrinsic misuse",
	ErrI001:  "internal compiler error",
	WarnW001: "loss of precision",
	WarnW002: "shadowed binding",
}

// DiagnosticError is a single error or warning with its source location.
type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	File     string
	Message  string
	Severity Severity
}

func (e *DiagnosticError) Error() string {
	title := errorTitles[e.Code]
	if title == "" {
		title = string(e.Code)
	}
	return fmt.Sprintf("%s at %d:%d: %s", title, e.Token.Line, e.Token.Column, e.Message)
}

// Title returns the short human-readable name of the error class.
func (e *DiagnosticError) Title() string {
	return errorTitles[e.Code]
}

// IsWarning reports whether the diagnostic does not fail compilation.
func (e *DiagnosticError) IsWarning() bool {
	return e.Severity == Warning
}

// NewError creates an error diagnostic. When args are given, msg is used as a format string.
func NewError(code ErrorCode, tok token.Token, msg string, args ...interface{}) *DiagnosticError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, File: tok.File, Message: msg, Severity: Error}
}

// NewWarning creates a warning diagnostic.
func NewWarning(code ErrorCode, tok token.Token, msg string, args ...interface{}) *DiagnosticError {
	d := NewError(code, tok, msg, args...)
	d.Severity = Warning
	return d
}

// NewInternalError reports a broken compiler invariant.
func NewInternalError(tok token.Token, msg string) *DiagnosticError {
	return NewError(ErrI001, tok, "%s", msg)
}
