package typesystem

import "fmt"

// UnresolvedTypeError indicates a type that still contains inference
// variables where a concrete type is required.
type UnresolvedTypeError struct {
	Name string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("type %s is not resolved", e.Name)
}

func NewUnresolvedTypeError(name string) *UnresolvedTypeError {
	return &UnresolvedTypeError{Name: name}
}
