// Package disasm renders a decoded (opcode, operand) pair back into
// assembly text (spec.md §4.6, C6), grounded on
// original_source/src/disassembler.c's disassemble_op and the teacher's
// pkg/inst.Catalog-driven lookup style.
package disasm

import (
	"fmt"
	"strings"

	"github.com/oisee/minstral/internal/asm"
	"github.com/oisee/minstral/internal/vm"
)

// Op renders one instruction. Memory-mode operands are bracketed to mark
// them as an address, matching the original's "add [] to indicate a memory
// access"; stack-mode operands render as the tos keyword, which the parser
// accepts. The assembler does not accept the bracketed "[N]" form, nor
// "csr N" with a numeric target, so lines of those two kinds do not
// re-assemble.
func Op(opcode vm.Opcode, operand int64) string {
	mnemonic := vm.Mnemonic(opcode)
	if mnemonic == "" {
		return fmt.Sprintf("??? %d", operand)
	}

	switch vm.Mode(opcode) {
	case vm.ModeNone, vm.ModeAcc:
		return mnemonic
	case vm.ModeMem:
		return fmt.Sprintf("%s [%d]", mnemonic, operand)
	case vm.ModeStack:
		return fmt.Sprintf("%s tos", mnemonic)
	default:
		return fmt.Sprintf("%s %d", mnemonic, operand)
	}
}

// Image renders every populated slot of img as one line per instruction, no
// slot index or other prefix — a leading index would make every line start
// with an INT token the parser rejects as a statement. A listing re-assembles
// to the same image when it has no memory-mode operand and no csr line (see
// Op).
func Image(img *asm.Image) string {
	var b strings.Builder
	for i := 0; i < img.OpCount; i++ {
		fmt.Fprintf(&b, "%s\n", Op(img.Instructions[i], img.Data[i]))
	}
	return b.String()
}
