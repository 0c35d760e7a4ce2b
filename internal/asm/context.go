// Package asm implements the two-pass parser, label resolver, and binary
// codec (spec.md §4.4/§4.5, C4/C5). Every exported entry point takes or
// creates its own *Context rather than touching package-level state, which
// is how this module satisfies spec.md §5's "must be reset between
// invocations within one process" requirement without the original C
// tool's module-level globals (see DESIGN.md).
package asm

import "github.com/oisee/minstral/internal/diag"

// Context is the assembler's per-run state: the label table, the shared
// diagnostic sink, the current section, and the subroutine currently being
// defined (so `rsr` knows which header slot to return through).
type Context struct {
	Labels  map[string]*Label
	Sink    *diag.Sink
	Section Section

	// CurrentSubroutine is the header slot of the subroutine body presently
	// being emitted, or -1 outside of one. It is set when `name: dsr` is
	// parsed and cleared by the next label declaration.
	CurrentSubroutine int64

	pass int // 1 (layout) or 2 (emission)
}

// NewContext returns a fresh assembler context reporting into sink.
func NewContext(sink *diag.Sink) *Context {
	return &Context{
		Labels:            make(map[string]*Label),
		Sink:              sink,
		CurrentSubroutine: -1,
		pass:              1,
	}
}
