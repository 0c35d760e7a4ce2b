package asm

import "github.com/oisee/minstral/internal/diag"

// Assemble runs the full two-pass pipeline over one source file and returns
// the resulting Image together with the diagnostics collected along the
// way. A non-empty sink means the Image is incomplete and must not be
// written out (spec.md §7).
func Assemble(file string, src []byte) (*Image, *diag.Sink) {
	sink := diag.New()
	ctx := NewContext(sink)
	img := ParseRoot(file, src, ctx)
	return img, sink
}
