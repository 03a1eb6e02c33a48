package diagnostics

// Result is the outcome of a checking operation: an optional value plus the
// warnings and errors accumulated while producing it. A Result with OK set may
// still carry errors when the operation recovered with a degraded value.
type Result[T any] struct {
	Value    T
	OK       bool
	Warnings []*DiagnosticError
	Errors   []*DiagnosticError
}

// Ok returns a Result holding v.
func Ok[T any](v T, warnings, errors []*DiagnosticError) Result[T] {
	return Result[T]{Value: v, OK: true, Warnings: warnings, Errors: errors}
}

// Err returns a Result without a value.
func Err[T any](warnings, errors []*DiagnosticError) Result[T] {
	return Result[T]{Warnings: warnings, Errors: errors}
}

// Check moves the diagnostics of r into warnings and errors and reports
// whether r produced a value. Callers decide whether to continue or return.
func Check[T any](r Result[T], warnings, errors *[]*DiagnosticError) (T, bool) {
	*warnings = append(*warnings, r.Warnings...)
	*errors = append(*errors, r.Errors...)
	return r.Value, r.OK
}

// CheckOr is Check with a fallback value used when r has none.
func CheckOr[T any](r Result[T], fallback T, warnings, errors *[]*DiagnosticError) T {
	v, ok := Check(r, warnings, errors)
	if !ok {
		return fallback
	}
	return v
}

// Split separates a mixed diagnostic list into warnings and errors.
func Split(diags []*DiagnosticError) (warnings, errors []*DiagnosticError) {
	for _, d := range diags {
		if d.IsWarning() {
			warnings = append(warnings, d)
		} else {
			errors = append(errors, d)
		}
	}
	return warnings, errors
}
