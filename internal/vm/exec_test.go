package vm

import (
	"context"
	"strings"
	"testing"
)

// fakeIO is a minimal IO for tests: characters/ints are written to a
// strings.Builder and read from a queue of pre-seeded values.
type fakeIO struct {
	out   strings.Builder
	ints  []int64
	chars []int64
}

func (f *fakeIO) WriteChar(v int64) error {
	f.out.WriteByte(byte(v))
	return nil
}

func (f *fakeIO) WriteInt(v int64) error {
	f.out.WriteString(itoa(v))
	return nil
}

func (f *fakeIO) ReadChar() (int64, error) {
	v := f.chars[0]
	f.chars = f.chars[1:]
	return v, nil
}

func (f *fakeIO) ReadInt() (int64, error) {
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v, nil
}

func itoa(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	if v == 0 {
		return "0"
	}
	var buf [24]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// TestHelloDigit implements scenario 1 of spec.md §8: lda 65; prc; hlt.
func TestHelloDigit(t *testing.T) {
	s := New()
	must(t, s.PushOp(LDI, 65))
	must(t, s.PushOp(PRCA, 0))
	must(t, s.PushOp(HLT, 0))

	io := &fakeIO{}
	if err := s.Run(context.Background(), io); err != nil {
		t.Fatalf("run: %v", err)
	}
	if io.out.String() != "A" {
		t.Errorf("output = %q, want %q", io.out.String(), "A")
	}
}

// TestSumLoop implements scenario 2: store 0, loop ten times adding 1, print.
func TestSumLoop(t *testing.T) {
	s := New()
	// slot 0: dat 0         (n)
	nSlot := int64(0)
	must(t, s.PushOp(DAT, 0))
	// slot 1: lda 0 (n is already zero, loaded via LDI for clarity)
	must(t, s.PushOp(LDI, 0))
	must(t, s.PushOp(STM, nSlot))
	loopStart := int64(s.OpCount)
	must(t, s.PushOp(LDM, nSlot))
	must(t, s.PushOp(ADDI, 1))
	must(t, s.PushOp(STM, nSlot))
	must(t, s.PushOp(CMPI, 10))
	must(t, s.PushOp(BNE, loopStart))
	must(t, s.PushOp(LDM, nSlot))
	must(t, s.PushOp(PRIA, 0))
	must(t, s.PushOp(HLT, 0))

	io := &fakeIO{}
	if err := s.Run(context.Background(), io); err != nil {
		t.Fatalf("run: %v", err)
	}
	if io.out.String() != "10" {
		t.Errorf("output = %q, want %q", io.out.String(), "10")
	}
}

// TestForwardLabelBranch implements scenario 3: bra end; hlt; end: hlt.
func TestForwardLabelBranch(t *testing.T) {
	s := New()
	must(t, s.PushOp(BRA, 2))
	must(t, s.PushOp(HLT, 0))
	endSlot := int64(s.OpCount)
	must(t, s.PushOp(HLT, 0))

	io := &fakeIO{}
	if err := s.Run(context.Background(), io); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.PC != endSlot+1 {
		t.Errorf("PC after halt = %d, want %d", s.PC, endSlot+1)
	}
}

// TestStackDiscipline implements scenario 5: psh 1; psh 2; psh 3; pop a,b,c.
func TestStackDiscipline(t *testing.T) {
	s := New()
	aSlot, bSlot, cSlot := int64(0), int64(1), int64(2)
	must(t, s.PushOp(DAT, 0))
	must(t, s.PushOp(DAT, 0))
	must(t, s.PushOp(DAT, 0))
	must(t, s.PushOp(PSHI, 1))
	must(t, s.PushOp(PSHI, 2))
	must(t, s.PushOp(PSHI, 3))
	must(t, s.PushOp(POPM, aSlot))
	must(t, s.PushOp(POPM, bSlot))
	must(t, s.PushOp(POPM, cSlot))
	must(t, s.PushOp(HLT, 0))

	io := &fakeIO{}
	if err := s.Run(context.Background(), io); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.Data[aSlot] != 3 || s.Data[bSlot] != 2 || s.Data[cSlot] != 1 {
		t.Errorf("a,b,c = %d,%d,%d, want 3,2,1", s.Data[aSlot], s.Data[bSlot], s.Data[cSlot])
	}
}

// TestCompareFlags checks that CMP sets exactly one flag, measured on
// absolute values, for positive/zero/negative outcomes (spec.md §8).
func TestCompareFlags(t *testing.T) {
	cases := []struct {
		name     string
		acc, mdr int64
		wantCF   bool
		wantZF   bool
		wantNF   bool
	}{
		{"greater", 5, 2, true, false, false},
		{"equal", -5, 5, false, true, false},
		{"less", 1, -9, false, false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := New()
			s.Acc = c.acc
			s.MDR = c.mdr
			s.CIR = CMPI
			if err := s.execute(&fakeIO{}); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if s.CF != c.wantCF || s.ZF != c.wantZF || s.NF != c.wantNF {
				t.Errorf("flags = CF:%v ZF:%v NF:%v, want CF:%v ZF:%v NF:%v",
					s.CF, s.ZF, s.NF, c.wantCF, c.wantZF, c.wantNF)
			}
			count := 0
			for _, f := range []bool{s.CF, s.ZF, s.NF} {
				if f {
					count++
				}
			}
			if count != 1 {
				t.Errorf("expected exactly one flag set, got %d", count)
			}
		})
	}
}

// TestPushOnEmptyStackTolerance checks the documented TOS(SP==0) tolerance:
// PSHS on an empty stack pushes slot zero (spec.md §9).
func TestPushOnEmptyStackTolerance(t *testing.T) {
	s := New()
	s.Stack[0] = 42
	if err := s.Push(s.TOS()); err != nil {
		t.Fatalf("push: %v", err)
	}
	if s.SP != 1 || s.Stack[0] != 42 {
		t.Errorf("stack = %v sp=%d, want [42] sp=1", s.Stack[:1], s.SP)
	}
}

func TestMemoryExhaustedOnFetch(t *testing.T) {
	s := New()
	s.PC = MemSize
	if err := s.Cycle(&fakeIO{}); err == nil {
		t.Fatal("expected memory-exhausted error")
	}
}

func TestStackUnderflow(t *testing.T) {
	s := New()
	if _, err := s.Pop(); err == nil {
		t.Fatal("expected stack underflow error")
	}
}

func TestStackOverflow(t *testing.T) {
	s := New()
	for i := 0; i < StackSize; i++ {
		must(t, s.Push(int64(i)))
	}
	if err := s.Push(0); err == nil {
		t.Fatal("expected stack overflow error")
	}
}

func TestDivideByZero(t *testing.T) {
	s := New()
	s.Acc = 10
	s.MDR = 0
	s.CIR = DIVI
	if err := s.execute(&fakeIO{}); err == nil {
		t.Fatal("expected divide-by-zero error")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
