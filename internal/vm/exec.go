package vm

import (
	"context"
	"fmt"

	"github.com/golang/glog"
)

// fetch loads MAR from PC and advances PC, matching
// original_source/src/vm.c's fetch().
func (s *State) fetch() error {
	if s.PC < 0 || s.PC >= MemSize {
		return runtimeError(errMemoryExhausted)
	}
	s.MAR = s.PC
	s.PC++
	return nil
}

// decode copies the addressed slot into CIR/MDR. The teacher's pkg/cpu/exec.go
// reads every operand unconditionally even for no-operand opcodes; we keep
// that (see spec.md §9, "redundant operand in decode" — harmless to keep).
func (s *State) decode() {
	s.CIR = s.Instructions[s.MAR]
	s.MDR = s.Data[s.MAR]
}

// Cycle runs one fetch-decode-execute step.
func (s *State) Cycle(io IO) error {
	if err := s.fetch(); err != nil {
		return err
	}
	s.decode()

	if glog.V(2) {
		glog.Infof("pc=%d op=%s(%d) operand=%d acc=%d", s.MAR, Mnemonic(s.CIR), s.CIR, s.MDR, s.Acc)
	}

	return s.execute(io)
}

// Run drives the fetch-decode-execute loop until HLT, a fatal error, or
// ctx is canceled. An un-canceled context.Background() behaves exactly like
// the original's unbounded while(running) loop.
func (s *State) Run(ctx context.Context, io IO) error {
	s.Running = true

	for s.Running {
		select {
		case <-ctx.Done():
			return runtimeError(fmt.Errorf("execution canceled: %w", ctx.Err()))
		default:
		}

		if err := s.Cycle(io); err != nil {
			s.Running = false
			return err
		}
	}

	return nil
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// execute dispatches on CIR. Every opcode is handled explicitly, mirroring
// the teacher's pkg/cpu/exec.go; a value with no case falls to the default
// branch and fails at run time as an undefined instruction.
// TestCatalogCompleteness checks the catalog, not this switch.
func (s *State) execute(io IO) error {
	switch s.CIR {

	// --- Control ---
	case NOP, DAT, IPS:
		// inert

	case HLT:
		s.Running = false

	// --- Load / store ---
	case LDI:
		s.Acc = s.MDR
	case LDM:
		s.Acc = s.Data[s.MDR]
	case LDAS:
		s.Acc = s.TOS()
	case STM:
		s.Data[s.MDR] = s.Acc
	case STAS:
		s.setTOS(s.Acc)

	// --- Print ---
	case PRCI:
		return io.WriteChar(s.MDR)
	case PRCM:
		return io.WriteChar(s.Data[s.MDR])
	case PRCA:
		return io.WriteChar(s.Acc)
	case PRCS:
		return io.WriteChar(s.TOS())
	case PRII:
		return io.WriteInt(s.MDR)
	case PRIM:
		return io.WriteInt(s.Data[s.MDR])
	case PRIA:
		return io.WriteInt(s.Acc)
	case PRIS:
		return io.WriteInt(s.TOS())

	// --- Arithmetic ---
	case ADDI:
		s.Acc += s.MDR
	case ADDM:
		s.Acc += s.Data[s.MDR]
	case ADDS:
		s.Acc += s.TOS()
	case SUBI:
		s.Acc -= s.MDR
	case SUBM:
		s.Acc -= s.Data[s.MDR]
	case SUBS:
		s.Acc -= s.TOS()
	case MULI:
		s.Acc *= s.MDR
	case MULM:
		s.Acc *= s.Data[s.MDR]
	case MULS:
		s.Acc *= s.TOS()
	case DIVI:
		if s.MDR == 0 {
			return runtimeError(errDivideByZero)
		}
		s.Acc /= s.MDR
	case DIVM:
		if s.Data[s.MDR] == 0 {
			return runtimeError(errDivideByZero)
		}
		s.Acc /= s.Data[s.MDR]
	case DIVS:
		if s.TOS() == 0 {
			return runtimeError(errDivideByZero)
		}
		s.Acc /= s.TOS()
	case MODI:
		if s.MDR == 0 {
			return runtimeError(errDivideByZero)
		}
		s.Acc %= s.MDR
	case MODM:
		if s.Data[s.MDR] == 0 {
			return runtimeError(errDivideByZero)
		}
		s.Acc %= s.Data[s.MDR]
	case MODS:
		if s.TOS() == 0 {
			return runtimeError(errDivideByZero)
		}
		s.Acc %= s.TOS()

	// --- Bitwise ---
	case SHLI:
		s.Acc <<= uint64(s.MDR) % 64
	case SHLM:
		s.Acc <<= uint64(s.Data[s.MDR]) % 64
	case SHLS:
		s.Acc <<= uint64(s.TOS()) % 64
	case SHRI:
		s.Acc >>= uint64(s.MDR) % 64
	case SHRM:
		s.Acc >>= uint64(s.Data[s.MDR]) % 64
	case SHRS:
		s.Acc >>= uint64(s.TOS()) % 64
	case ANDI:
		s.Acc &= s.MDR
	case ANDM:
		s.Acc &= s.Data[s.MDR]
	case ANDS:
		s.Acc &= s.TOS()
	case ORI:
		s.Acc |= s.MDR
	case ORM:
		s.Acc |= s.Data[s.MDR]
	case ORS:
		s.Acc |= s.TOS()
	case XORI:
		s.Acc ^= s.MDR
	case XORM:
		s.Acc ^= s.Data[s.MDR]
	case XORS:
		s.Acc ^= s.TOS()
	case NOT:
		s.Acc = boolWord(s.Acc == 0)
	case NOTM:
		s.Data[s.MDR] = boolWord(s.Data[s.MDR] == 0)
	case NOTS:
		s.setTOS(boolWord(s.TOS() == 0))
	case NEG:
		s.Acc = -s.Acc
	case NEGM:
		s.Data[s.MDR] = -s.Data[s.MDR]
	case NEGS:
		s.setTOS(-s.TOS())

	// --- Branch ---
	case BRA, CSR:
		s.PC = s.MDR
	case BRAA:
		s.PC = s.Acc
	case BRZ:
		if s.Acc == 0 {
			s.PC = s.MDR
		}
	case BRP:
		if s.Acc >= 0 {
			s.PC = s.MDR
		}
	case BRN:
		if s.Acc < 0 {
			s.PC = s.MDR
		}

	// --- Compare + flag branch ---
	case CMPI:
		s.Acc = abs(s.Acc) - abs(s.MDR)
		s.setFlags()
	case CMPM:
		s.Acc = abs(s.Acc) - abs(s.Data[s.MDR])
		s.setFlags()
	case CMPS:
		s.Acc = abs(s.Acc) - abs(s.TOS())
		s.setFlags()
	case BEQ:
		if s.ZF {
			s.PC = s.MDR
		}
	case BNE:
		if !s.ZF {
			s.PC = s.MDR
		}
	case BLT:
		if s.NF {
			s.PC = s.MDR
		}
	case BLE:
		if s.NF || s.ZF {
			s.PC = s.MDR
		}
	case BGT:
		if s.CF {
			s.PC = s.MDR
		}
	case BGE:
		if s.CF || s.ZF {
			s.PC = s.MDR
		}

	// --- Stack ---
	case PSHA:
		return s.Push(s.Acc)
	case PSHI:
		return s.Push(s.MDR)
	case PSHM:
		return s.Push(s.Data[s.MDR])
	case PSHS:
		// Reads TOS before SP changes, so pushing on an empty stack
		// pushes slot zero (spec.md §9, "top-of-stack tolerance").
		return s.Push(s.TOS())
	case POPA:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		s.Acc = v
	case POPM:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		s.Data[s.MDR] = v
	case DRP:
		// Decrements SP with no floor; underflow is undefined (spec.md §9).
		s.SP--
	case SWPM:
		i := s.SP - 1
		if i < 0 {
			i = 0
		}
		s.Stack[i], s.Data[s.MDR] = s.Data[s.MDR], s.Stack[i]
	case SWPS:
		i := s.SP - 1
		if i < 0 {
			i = 0
		}
		j := i - 1
		if j < 0 {
			j = 0
		}
		s.Stack[i], s.Stack[j] = s.Stack[j], s.Stack[i]

	// --- Console input ---
	case RDCA:
		v, err := io.ReadChar()
		if err != nil {
			return err
		}
		s.Acc = v
	case RDCM:
		v, err := io.ReadChar()
		if err != nil {
			return err
		}
		s.Data[s.MDR] = v
	case RDCS:
		v, err := io.ReadChar()
		if err != nil {
			return err
		}
		s.setTOS(v)
	case RDIA:
		v, err := io.ReadInt()
		if err != nil {
			return err
		}
		s.Acc = v
	case RDIM:
		v, err := io.ReadInt()
		if err != nil {
			return err
		}
		s.Data[s.MDR] = v
	case RDIS:
		v, err := io.ReadInt()
		if err != nil {
			return err
		}
		s.setTOS(v)

	// --- Indirection ---
	case REFM:
		s.Acc = s.MDR
	case REFS:
		s.Acc = s.TOS()
	case LDDA:
		s.Acc = s.Data[s.Acc]
	case LDDM:
		s.Acc = s.Data[s.Data[s.MDR]]
	case LDDS:
		s.Acc = s.Stack[s.TOS()]
	case STDM:
		s.Data[s.Data[s.MDR]] = s.Acc
	case STDS:
		s.Stack[s.TOS()] = s.Acc

	// --- Set-if shorthands ---
	case SEZA:
		s.Acc = boolWord(s.Acc == 0)
	case SEZM:
		s.Data[s.MDR] = boolWord(s.Acc == 0)
	case SEZS:
		s.setTOS(boolWord(s.Acc == 0))
	case SEPA:
		s.Acc = boolWord(s.Acc >= 0)
	case SEPM:
		s.Data[s.MDR] = boolWord(s.Acc >= 0)
	case SEPS:
		s.setTOS(boolWord(s.Acc >= 0))
	case SENA:
		s.Acc = boolWord(s.Acc < 0)
	case SENM:
		s.Data[s.MDR] = boolWord(s.Acc < 0)
	case SENS:
		s.setTOS(boolWord(s.Acc < 0))
	case SEQA:
		s.Acc = boolWord(s.ZF)
	case SEQM:
		s.Data[s.MDR] = boolWord(s.ZF)
	case SEQS:
		s.setTOS(boolWord(s.ZF))
	case SENEA:
		s.Acc = boolWord(!s.ZF)
	case SENEM:
		s.Data[s.MDR] = boolWord(!s.ZF)
	case SENES:
		s.setTOS(boolWord(!s.ZF))
	case SELTA:
		s.Acc = boolWord(s.NF)
	case SELTM:
		s.Data[s.MDR] = boolWord(s.NF)
	case SELTS:
		s.setTOS(boolWord(s.NF))
	case SELEA:
		s.Acc = boolWord(s.NF || s.ZF)
	case SELEM:
		s.Data[s.MDR] = boolWord(s.NF || s.ZF)
	case SELES:
		s.setTOS(boolWord(s.NF || s.ZF))
	case SEGTA:
		s.Acc = boolWord(s.CF)
	case SEGTM:
		s.Data[s.MDR] = boolWord(s.CF)
	case SEGTS:
		s.setTOS(boolWord(s.CF))
	case SEGEA:
		s.Acc = boolWord(s.CF || s.ZF)
	case SEGEM:
		s.Data[s.MDR] = boolWord(s.CF || s.ZF)
	case SEGES:
		s.setTOS(boolWord(s.CF || s.ZF))

	default:
		return runtimeError(fmt.Errorf("%w %d", errUnknownOpcode, s.CIR))
	}

	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
