package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteCharAndInt(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)
	if err := c.WriteChar('A'); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteInt(42); err != nil {
		t.Fatal(err)
	}
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "A42" {
		t.Errorf("got %q, want %q", out.String(), "A42")
	}
}

func TestReadCharTakesFirstByteOfLine(t *testing.T) {
	c := New(strings.NewReader("xyz\n"), &bytes.Buffer{})
	v, err := c.ReadChar()
	if err != nil {
		t.Fatal(err)
	}
	if v != int64('x') {
		t.Errorf("got %d, want %d", v, 'x')
	}
}

func TestReadIntParsesLine(t *testing.T) {
	c := New(strings.NewReader("123\n"), &bytes.Buffer{})
	v, err := c.ReadInt()
	if err != nil {
		t.Fatal(err)
	}
	if v != 123 {
		t.Errorf("got %d, want 123", v)
	}
}

func TestReadIntNonNumericReadsZero(t *testing.T) {
	c := New(strings.NewReader("nope\n"), &bytes.Buffer{})
	v, err := c.ReadInt()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("got %d, want 0", v)
	}
}

func TestReadCharEmptyLineReadsZero(t *testing.T) {
	c := New(strings.NewReader("\n"), &bytes.Buffer{})
	v, err := c.ReadChar()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("got %d, want 0", v)
	}
}
