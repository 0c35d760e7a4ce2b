package disasm

import (
	"strings"
	"testing"

	"github.com/oisee/minstral/internal/asm"
	"github.com/oisee/minstral/internal/vm"
)

func TestOpRendersMemoryOperandBracketed(t *testing.T) {
	got := Op(vm.LDM, 7)
	if got != "lda [7]" {
		t.Errorf("got %q, want %q", got, "lda [7]")
	}
}

func TestOpRendersAccumulatorWithNoOperand(t *testing.T) {
	got := Op(vm.NOT, 0)
	if got != "not" {
		t.Errorf("got %q, want %q", got, "not")
	}
}

func TestOpRendersStackOperandAsTosKeyword(t *testing.T) {
	got := Op(vm.ADDS, 0)
	if got != "add tos" {
		t.Errorf("got %q, want %q", got, "add tos")
	}
}

func TestOpRendersImmediatePlain(t *testing.T) {
	got := Op(vm.LDI, 42)
	if got != "lda 42" {
		t.Errorf("got %q, want %q", got, "lda 42")
	}
}

func TestImageRoundTripsThroughAssembler(t *testing.T) {
	src := "lda 5\nadd 3\nbra end\nhlt\nend: hlt\n"
	img, sink := asm.Assemble("test.min", []byte(src))
	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.All())
	}
	listing := Image(img)

	reassembled, sink2 := asm.Assemble("listing.min", []byte(listing))
	if sink2.Count() != 0 {
		t.Fatalf("listing did not reassemble:\n%s\ndiagnostics: %v", listing, sink2.All())
	}
	if reassembled.OpCount != img.OpCount {
		t.Fatalf("op count = %d, want %d", reassembled.OpCount, img.OpCount)
	}
	if reassembled.Instructions != img.Instructions || reassembled.Data != img.Data {
		t.Errorf("round-trip mismatch:\noriginal:     %+v %+v\nreassembled:  %+v %+v",
			img.Instructions, img.Data, reassembled.Instructions, reassembled.Data)
	}
}

func TestImageHasNoSlotIndexPrefix(t *testing.T) {
	img, sink := asm.Assemble("test.min", []byte("lda 5\nadd 3\nhlt\n"))
	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.All())
	}
	listing := Image(img)
	if !strings.Contains(listing, "lda 5") || !strings.Contains(listing, "add 3") || !strings.Contains(listing, "hlt") {
		t.Errorf("listing missing expected lines:\n%s", listing)
	}
	if strings.Contains(listing, ":") {
		t.Errorf("listing should carry no slot-index prefix:\n%s", listing)
	}
}
