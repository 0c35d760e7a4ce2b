// Package diag is the shared diagnostic sink the lexer and parser report
// into. spec.md §5 requires the label table, error count, and parser state
// to be "process-wide within an assemble run" but reset between runs; we
// satisfy both by giving every assemble invocation its own *Sink instead of
// a package-level counter (see DESIGN.md's Open Question decisions).
package diag

import "fmt"

// Diagnostic is one assemble-time error: a lex or parse problem tied to a
// source position, or a component-level message with no position.
type Diagnostic struct {
	File    string
	Line    int
	Col     int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: error: %s", d.File, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: error: %s", d.File, d.Line, d.Col, d.Message)
}

// Sink accumulates diagnostics for one assemble run.
type Sink struct {
	items []Diagnostic
}

// New returns an empty sink.
func New() *Sink {
	return &Sink{}
}

// Add records one positioned diagnostic and increments the error count. A
// diagnostic identical to one already recorded (same position and message,
// as when both assembler passes meet the same error) is not recorded again.
func (s *Sink) Add(file string, line, col int, format string, args ...any) {
	d := Diagnostic{
		File:    file,
		Line:    line,
		Col:     col,
		Message: fmt.Sprintf(format, args...),
	}
	for _, prior := range s.items {
		if prior == d {
			return
		}
	}
	s.items = append(s.items, d)
}

// AddGlobal records a diagnostic with no source position.
func (s *Sink) AddGlobal(component, format string, args ...any) {
	s.items = append(s.items, Diagnostic{
		File:    component,
		Message: fmt.Sprintf(format, args...),
	})
}

// Count returns the number of diagnostics recorded so far.
func (s *Sink) Count() int {
	return len(s.items)
}

// All returns every diagnostic recorded, in report order.
func (s *Sink) All() []Diagnostic {
	return s.items
}
