// Package console implements vm.IO against the process's own stdin/stdout,
// buffered the way original_source/src/vm.c's RDCA/RDIA/PRCI/PRII cases
// read and write through stdio (spec.md §6, C9).
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Console is a line-buffered terminal adapter satisfying vm.IO.
type Console struct {
	in  *bufio.Reader
	out *bufio.Writer
}

// New wraps r and w. Callers must call Flush (or defer it) before the
// process exits so buffered output actually reaches w.
func New(r io.Reader, w io.Writer) *Console {
	return &Console{in: bufio.NewReader(r), out: bufio.NewWriter(w)}
}

// Flush writes any buffered output through to the underlying writer.
func (c *Console) Flush() error {
	return c.out.Flush()
}

// WriteChar writes v's low byte, matching PRC*'s fputc((char)v, stdout).
func (c *Console) WriteChar(v int64) error {
	if err := c.out.WriteByte(byte(v)); err != nil {
		return fmt.Errorf("console: write: %w", err)
	}
	return nil
}

// WriteInt writes v in decimal, matching PRI*'s fprintf "%"PRId64.
func (c *Console) WriteInt(v int64) error {
	if _, err := fmt.Fprintf(c.out, "%d", v); err != nil {
		return fmt.Errorf("console: write: %w", err)
	}
	return nil
}

// ReadChar reads one line and returns its first byte, matching RDC*'s
// fgets-then-take-buffer[0]. An empty line (just a newline) reads as 0.
func (c *Console) ReadChar() (int64, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	if line == "" {
		return 0, nil
	}
	return int64(line[0]), nil
}

// ReadInt reads one line and parses it as a decimal integer, matching
// RDI*'s fgets-then-atoi (atoi silently returns 0 on a non-numeric line;
// we match that instead of surfacing a parse error).
func (c *Console) ReadInt() (int64, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	v, convErr := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if convErr != nil {
		return 0, nil
	}
	return v, nil
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("console: read: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
