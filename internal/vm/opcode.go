package vm

// Opcode is a compact identifier for one of the VM's instructions. It is its
// own type (rather than a raw int) so a plain integer is not taken for an
// opcode without an explicit conversion, the same role the teacher's
// inst.OpCode plays for the Z80 instruction set.
type Opcode uint16

// OperandMode names the addressing mode encoded in a mnemonic's suffix: the
// effective operand is an immediate (I), a memory cell (M), the accumulator
// (A), or the top of the operand stack (S).
type OperandMode uint8

const (
	ModeNone OperandMode = iota
	ModeImm
	ModeMem
	ModeAcc
	ModeStack
)

const (
	// Control.
	NOP Opcode = iota
	HLT
	DAT

	// Load / store.
	LDI
	LDM
	LDAS
	STM
	STAS

	// Print.
	PRCI
	PRCM
	PRCA
	PRCS
	PRII
	PRIM
	PRIA
	PRIS

	// Arithmetic.
	ADDI
	ADDM
	ADDS
	SUBI
	SUBM
	SUBS
	MULI
	MULM
	MULS
	DIVI
	DIVM
	DIVS
	MODI
	MODM
	MODS

	// Bitwise.
	SHLI
	SHLM
	SHLS
	SHRI
	SHRM
	SHRS
	ANDI
	ANDM
	ANDS
	ORI
	ORM
	ORS
	XORI
	XORM
	XORS
	NOT
	NOTM
	NOTS
	NEG
	NEGM
	NEGS

	// Branch (unconditional / conditional on ACC).
	BRA
	BRAA
	BRZ
	BRP
	BRN

	// Compare + flag branches.
	CMPI
	CMPM
	CMPS
	BEQ
	BNE
	BLT
	BLE
	BGT
	BGE

	// Stack.
	PSHA
	PSHI
	PSHM
	PSHS
	POPA
	POPM
	DRP
	SWPM
	SWPS

	// Console input.
	RDCA
	RDCM
	RDCS
	RDIA
	RDIM
	RDIS

	// Indirection.
	REFM
	REFS
	LDDA
	LDDM
	LDDS
	STDM
	STDS

	// "Set-if" shorthands: accumulator predicates (Z, P, N) and flag
	// predicates (Q=equal, NE, LT, LE, GT, GE), each over {A, M, S}.
	SEZA
	SEZM
	SEZS
	SEPA
	SEPM
	SEPS
	SENA
	SENM
	SENS
	SEQA
	SEQM
	SEQS
	SENEA
	SENEM
	SENES
	SELTA
	SELTM
	SELTS
	SELEA
	SELEM
	SELES
	SEGTA
	SEGTM
	SEGTS
	SEGEA
	SEGEM
	SEGES

	// Subroutines.
	CSR
	IPS

	// OpcodeCount is a sentinel, not a valid opcode.
	OpcodeCount
)

// Info holds static metadata for an opcode: its canonical mnemonic (the
// spelling the disassembler emits and the parser's preferred synonym) and
// the addressing mode its operand slot carries.
type Info struct {
	Mnemonic string
	Mode     OperandMode
}

// Catalog maps every Opcode to its Info. Built once in init so a missing
// entry (zero value, empty Mnemonic) is easy to catch in tests, mirroring
// the teacher's pkg/inst.Catalog array.
var Catalog [OpcodeCount]Info

func reg(op Opcode, mnemonic string, mode OperandMode) {
	Catalog[op] = Info{Mnemonic: mnemonic, Mode: mode}
}

func init() {
	reg(NOP, "nop", ModeNone)
	reg(HLT, "hlt", ModeNone)
	reg(DAT, "dat", ModeImm)

	reg(LDI, "lda", ModeImm)
	reg(LDM, "lda", ModeMem)
	reg(LDAS, "lda", ModeStack)
	reg(STM, "sta", ModeMem)
	reg(STAS, "sta", ModeStack)

	reg(PRCI, "prc", ModeImm)
	reg(PRCM, "prc", ModeMem)
	reg(PRCA, "prc", ModeAcc)
	reg(PRCS, "prc", ModeStack)
	reg(PRII, "pri", ModeImm)
	reg(PRIM, "pri", ModeMem)
	reg(PRIA, "pri", ModeAcc)
	reg(PRIS, "pri", ModeStack)

	reg(ADDI, "add", ModeImm)
	reg(ADDM, "add", ModeMem)
	reg(ADDS, "add", ModeStack)
	reg(SUBI, "sub", ModeImm)
	reg(SUBM, "sub", ModeMem)
	reg(SUBS, "sub", ModeStack)
	reg(MULI, "mul", ModeImm)
	reg(MULM, "mul", ModeMem)
	reg(MULS, "mul", ModeStack)
	reg(DIVI, "div", ModeImm)
	reg(DIVM, "div", ModeMem)
	reg(DIVS, "div", ModeStack)
	reg(MODI, "mod", ModeImm)
	reg(MODM, "mod", ModeMem)
	reg(MODS, "mod", ModeStack)

	reg(SHLI, "shl", ModeImm)
	reg(SHLM, "shl", ModeMem)
	reg(SHLS, "shl", ModeStack)
	reg(SHRI, "shr", ModeImm)
	reg(SHRM, "shr", ModeMem)
	reg(SHRS, "shr", ModeStack)
	reg(ANDI, "and", ModeImm)
	reg(ANDM, "and", ModeMem)
	reg(ANDS, "and", ModeStack)
	reg(ORI, "or", ModeImm)
	reg(ORM, "or", ModeMem)
	reg(ORS, "or", ModeStack)
	reg(XORI, "xor", ModeImm)
	reg(XORM, "xor", ModeMem)
	reg(XORS, "xor", ModeStack)
	reg(NOT, "not", ModeAcc)
	reg(NOTM, "not", ModeMem)
	reg(NOTS, "not", ModeStack)
	reg(NEG, "neg", ModeAcc)
	reg(NEGM, "neg", ModeMem)
	reg(NEGS, "neg", ModeStack)

	reg(BRA, "bra", ModeImm)
	reg(BRAA, "braa", ModeAcc)
	reg(BRZ, "brz", ModeImm)
	reg(BRP, "brp", ModeImm)
	reg(BRN, "brn", ModeImm)

	reg(CMPI, "cmp", ModeImm)
	reg(CMPM, "cmp", ModeMem)
	reg(CMPS, "cmp", ModeStack)
	reg(BEQ, "beq", ModeImm)
	reg(BNE, "bne", ModeImm)
	reg(BLT, "blt", ModeImm)
	reg(BLE, "ble", ModeImm)
	reg(BGT, "bgt", ModeImm)
	reg(BGE, "bge", ModeImm)

	reg(PSHA, "psh", ModeAcc)
	reg(PSHI, "psh", ModeImm)
	reg(PSHM, "psh", ModeMem)
	reg(PSHS, "psh", ModeStack)
	reg(POPA, "pop", ModeAcc)
	reg(POPM, "pop", ModeMem)
	reg(DRP, "drp", ModeNone)
	reg(SWPM, "swp", ModeMem)
	reg(SWPS, "swp", ModeStack)

	reg(RDCA, "rdc", ModeAcc)
	reg(RDCM, "rdc", ModeMem)
	reg(RDCS, "rdc", ModeStack)
	reg(RDIA, "rdi", ModeAcc)
	reg(RDIM, "rdi", ModeMem)
	reg(RDIS, "rdi", ModeStack)

	reg(REFM, "ref", ModeMem)
	reg(REFS, "ref", ModeStack)
	reg(LDDA, "ldd", ModeAcc)
	reg(LDDM, "ldd", ModeMem)
	reg(LDDS, "ldd", ModeStack)
	reg(STDM, "std", ModeMem)
	reg(STDS, "std", ModeStack)

	reg(SEZA, "sez", ModeAcc)
	reg(SEZM, "sez", ModeMem)
	reg(SEZS, "sez", ModeStack)
	reg(SEPA, "sep", ModeAcc)
	reg(SEPM, "sep", ModeMem)
	reg(SEPS, "sep", ModeStack)
	reg(SENA, "sen", ModeAcc)
	reg(SENM, "sen", ModeMem)
	reg(SENS, "sen", ModeStack)
	reg(SEQA, "seq", ModeAcc)
	reg(SEQM, "seq", ModeMem)
	reg(SEQS, "seq", ModeStack)
	reg(SENEA, "sene", ModeAcc)
	reg(SENEM, "sene", ModeMem)
	reg(SENES, "sene", ModeStack)
	reg(SELTA, "selt", ModeAcc)
	reg(SELTM, "selt", ModeMem)
	reg(SELTS, "selt", ModeStack)
	reg(SELEA, "sele", ModeAcc)
	reg(SELEM, "sele", ModeMem)
	reg(SELES, "sele", ModeStack)
	reg(SEGTA, "segt", ModeAcc)
	reg(SEGTM, "segt", ModeMem)
	reg(SEGTS, "segt", ModeStack)
	reg(SEGEA, "sege", ModeAcc)
	reg(SEGEM, "sege", ModeMem)
	reg(SEGES, "sege", ModeStack)

	reg(CSR, "csr", ModeImm)
	reg(IPS, "ips", ModeNone)
}

// Mnemonic returns an opcode's canonical, suffix-free mnemonic text.
func Mnemonic(op Opcode) string {
	return Catalog[op].Mnemonic
}

// Mode returns an opcode's addressing mode.
func Mode(op Opcode) OperandMode {
	return Catalog[op].Mode
}
