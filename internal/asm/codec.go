package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/oisee/minstral/internal/vm"
)

// Codec serializes/deserializes a program image as the whitespace-separated
// stream of integer pairs spec.md §4.5 describes: one <opcode> <operand>
// pair per slot. The original loader (original_source/src/loader.c)
// copy-pasted the same "read one line of slots" scanner three times (decimal
// read, decimal probe, binary read); Codec replaces all three with one pair
// of writer/reader functions sharing a single slot-record shape, with the
// binary/decimal choice made once up front.
type Codec struct {
	// Decimal writes signed decimal text instead of the default unpadded
	// base-2 text, matching original_source/src/assembler.c's writer
	// (int_to_bin for binary, plain sprintf for decimal).
	Decimal bool
	// Linebreak separates pairs with a newline instead of a space.
	Linebreak bool
}

// WriteImage serializes img per c.Decimal/c.Linebreak, matching spec.md §4.5.
func (c Codec) WriteImage(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)
	pairSep := " "
	if c.Linebreak {
		pairSep = "\n"
	}
	for i := 0; i < img.OpCount; i++ {
		if i > 0 {
			if _, err := bw.WriteString(pairSep); err != nil {
				return fmt.Errorf("asm: write image: %w", err)
			}
		}
		op := c.formatUnsigned(uint64(img.Instructions[i]))
		operand := c.formatSigned(img.Data[i])
		if _, err := fmt.Fprintf(bw, "%s %s", op, operand); err != nil {
			return fmt.Errorf("asm: write image: %w", err)
		}
	}
	return bw.Flush()
}

func (c Codec) formatUnsigned(v uint64) string {
	if c.Decimal {
		return strconv.FormatUint(v, 10)
	}
	return strconv.FormatUint(v, 2)
}

func (c Codec) formatSigned(v int64) string {
	if c.Decimal {
		return strconv.FormatInt(v, 10)
	}
	// Binary encoding assumes non-negative operands (spec.md §4.5): the
	// writer never produces a sign, matching original_source's int_to_bin.
	return strconv.FormatUint(uint64(v), 2)
}

// ReadImage auto-detects the encoding by inspecting the first token: per
// spec.md §4.5, any digit ≥ 2 in it means the whole file is decimal text; a
// token built only from '0'/'1' stays base-2. Both space and newline
// separators are accepted regardless of what the writer chose.
func ReadImage(r io.Reader) (*Image, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var tokens []string
	for sc.Scan() {
		tokens = append(tokens, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("asm: read image: %w", err)
	}
	if len(tokens) == 0 {
		return &Image{}, nil
	}
	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("asm: read image: odd number of fields")
	}

	base := 2
	if isDecimalToken(tokens[0]) {
		base = 10
	}

	img := &Image{}
	for i := 0; i+1 < len(tokens); i += 2 {
		op, err := strconv.ParseUint(tokens[i], base, 16)
		if err != nil {
			return nil, fmt.Errorf("asm: read image: bad opcode %q: %w", tokens[i], err)
		}
		operand, err := strconv.ParseInt(tokens[i+1], base, 64)
		if err != nil {
			return nil, fmt.Errorf("asm: read image: bad operand %q: %w", tokens[i+1], err)
		}
		if err := img.Append(vm.Opcode(op), operand); err != nil {
			return nil, fmt.Errorf("asm: read image: %w", err)
		}
	}
	return img, nil
}

func isDecimalToken(tok string) bool {
	for _, r := range tok {
		if r >= '2' && r <= '9' {
			return true
		}
	}
	return false
}
