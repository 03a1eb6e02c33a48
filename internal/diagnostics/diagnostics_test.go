package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/contractc/internal/token"
)

func at(line, col int) token.Token {
	return token.Token{File: "main.cc", Lexeme: "x", Line: line, Column: col}
}

// ---------------------------------------------------------------------------
// Collector
// ---------------------------------------------------------------------------

func TestCollector_DeduplicatesByPositionCodeAndMessage(t *testing.T) {
	c := NewCollector("main.cc")
	c.Add(NewError(ErrA003, at(1, 1), "mismatch"))
	c.Add(NewError(ErrA003, at(1, 1), "mismatch"))
	c.Add(NewError(ErrA003, at(1, 1), "other mismatch"))
	c.Add(NewError(ErrA001, at(1, 1), "mismatch"))
	c.Add(nil)

	if got := c.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
}

func TestCollector_SortsByPosition(t *testing.T) {
	c := NewCollector("main.cc")
	c.Add(NewError(ErrA001, at(3, 1), "third"))
	c.Add(NewError(ErrA001, at(1, 9), "second"))
	c.Add(NewError(ErrA001, at(1, 2), "first"))
	c.Add(NewWarning(WarnW002, at(2, 1), "shadowed"))

	errs := c.Errors()
	want := []string{"first", "second", "third"}
	if len(errs) != len(want) {
		t.Fatalf("errors = %d, want %d", len(errs), len(want))
	}
	for i, e := range errs {
		if e.Message != want[i] {
			t.Errorf("errors[%d] = %q, want %q", i, e.Message, want[i])
		}
	}
	if w := c.Warnings(); len(w) != 1 || w[0].Code != WarnW002 {
		t.Errorf("warnings = %v, want one W002", w)
	}
	if !c.HasErrors() {
		t.Error("HasErrors() = false")
	}
}

func TestCollector_StampsFile(t *testing.T) {
	c := NewCollector("lib.cc")
	c.Add(NewError(ErrA001, token.Token{Line: 1, Column: 1}, "x"))
	if got := c.Errors()[0].File; got != "lib.cc" {
		t.Errorf("File = %q, want lib.cc", got)
	}
}

func TestCollector_WarningsOnly(t *testing.T) {
	c := NewCollector("")
	c.Add(NewWarning(WarnW001, at(1, 1), "narrowing"))
	if c.HasErrors() {
		t.Error("a warning must not count as an error")
	}
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

func TestResult_CheckAccumulates(t *testing.T) {
	var warnings, errors []*DiagnosticError
	w := NewWarning(WarnW001, at(1, 1), "w")
	e := NewError(ErrA003, at(1, 2), "e")

	v, ok := Check(Ok(7, []*DiagnosticError{w}, []*DiagnosticError{e}), &warnings, &errors)
	if !ok || v != 7 {
		t.Fatalf("Check(Ok) = %d, %v", v, ok)
	}
	if _, ok := Check(Err[int](nil, []*DiagnosticError{e}), &warnings, &errors); ok {
		t.Fatal("Check(Err) reported a value")
	}
	if len(warnings) != 1 || len(errors) != 2 {
		t.Errorf("accumulated %d warning(s), %d error(s); want 1, 2", len(warnings), len(errors))
	}
	if got := CheckOr(Err[int](nil, nil), -1, &warnings, &errors); got != -1 {
		t.Errorf("CheckOr fallback = %d, want -1", got)
	}
}

func TestSplit(t *testing.T) {
	warnings, errors := Split([]*DiagnosticError{
		NewError(ErrA001, at(1, 1), "a"),
		NewWarning(WarnW002, at(1, 2), "b"),
		NewInternalError(at(1, 3), "c"),
	})
	if len(warnings) != 1 || len(errors) != 2 {
		t.Errorf("Split = %d warning(s), %d error(s); want 1, 2", len(warnings), len(errors))
	}
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func TestNewError_Formats(t *testing.T) {
	d := NewError(ErrA008, at(4, 2), "expected %d, found %d", 1, 2)
	if d.Message != "expected 1, found 2" {
		t.Errorf("Message = %q", d.Message)
	}
	// A literal percent sign survives when there are no arguments.
	if d := NewError(ErrA003, at(1, 1), "100%"); d.Message != "100%" {
		t.Errorf("Message = %q", d.Message)
	}
	if got := d.Error(); got != "too many arguments at 4:2: expected 1, found 2" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRenderer_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(&buf, ColorAuto).Render(
		[]*DiagnosticError{NewWarning(WarnW002, at(2, 5), "binding `x` is shadowed")},
		[]*DiagnosticError{NewError(ErrA003, at(1, 3), "mismatched types\nhelp: annotate")},
	)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"warning[W002]: shadowed binding",
		"error[A003]: type error",
		"--> main.cc:1:3",
		"   | help: annotate",
		"1 error(s), 1 warning(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// A buffer is not a terminal.
	if strings.Contains(out, "\033[") {
		t.Errorf("auto mode wrote colors to a buffer:\n%s", out)
	}
}

func TestRenderer_ColorModes(t *testing.T) {
	errs := []*DiagnosticError{NewError(ErrA001, at(1, 1), "missing")}

	var always bytes.Buffer
	if err := NewRenderer(&always, ColorAlways).Render(nil, errs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(always.String(), ansiRed) {
		t.Error("always mode did not color errors")
	}

	var never bytes.Buffer
	if err := NewRenderer(&never, ColorNever).Render(nil, errs); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(never.String(), "\033[") {
		t.Error("never mode wrote colors")
	}
}

func TestRenderer_NothingToReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf, ColorNever).Render(nil, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
