package lexer

import (
	"testing"

	"github.com/oisee/minstral/internal/diag"
)

func tokens(t *testing.T, src string) ([]Token, *diag.Sink) {
	t.Helper()
	sink := diag.New()
	lex := New("test.min", []byte(src), sink)
	var toks []Token
	for {
		tok := lex.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks, sink
}

// TestIntegerRadixEquivalence checks spec.md §8: 0xff, 377o, 11111111b, and
// 255 all produce the same INT token value (377 octal = 255 decimal).
func TestIntegerRadixEquivalence(t *testing.T) {
	cases := []string{"0xff", "377o", "11111111b", "255"}
	for _, src := range cases {
		toks, sink := tokens(t, src)
		if sink.Count() != 0 {
			t.Fatalf("%s: unexpected diagnostics: %v", src, sink.All())
		}
		if toks[0].Kind != INT || toks[0].IntVal != 255 {
			t.Errorf("%s => kind=%v val=%d, want INT 255", src, toks[0].Kind, toks[0].IntVal)
		}
	}
}

func TestIdentifierCaseFolding(t *testing.T) {
	toks, _ := tokens(t, "MyLabel")
	if toks[0].Kind != IDENT || toks[0].Text != "mylabel" {
		t.Errorf("got %+v, want lowercase IDENT", toks[0])
	}
}

func TestCharLiteralEscapes(t *testing.T) {
	cases := map[string]int64{
		`'\n'`: 10,
		`'\t'`: 9,
		`'\r'`: 13,
		`'\0'`: 0,
		`'\''`: int64('\''),
		`'\"'`: int64('"'),
		`'\\'`: int64('\\'),
		`'A'`:  65,
	}
	for src, want := range cases {
		toks, sink := tokens(t, src)
		if sink.Count() != 0 {
			t.Fatalf("%s: unexpected diagnostics: %v", src, sink.All())
		}
		if toks[0].Kind != INT || toks[0].IntVal != want {
			t.Errorf("%s => %+v, want INT %d", src, toks[0], want)
		}
	}
}

func TestUnterminatedCharLiteral(t *testing.T) {
	_, sink := tokens(t, "'A")
	if sink.Count() == 0 {
		t.Fatal("expected a diagnostic for unterminated char literal")
	}
}

func TestCommentRunsToNewline(t *testing.T) {
	toks, _ := tokens(t, "nop ; comment\nhlt")
	var kinds []Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	want := []Kind{IDENT, EOL, IDENT, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestDigitSeparator(t *testing.T) {
	toks, sink := tokens(t, "1_000_000")
	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.All())
	}
	if toks[0].Kind != INT || toks[0].IntVal != 1000000 {
		t.Errorf("got %+v, want INT 1000000", toks[0])
	}
}

func TestFloatLiteralsLexButAreTagged(t *testing.T) {
	for _, src := range []string{"1.5", "3f"} {
		toks, sink := tokens(t, src)
		if sink.Count() != 0 {
			t.Fatalf("%s: unexpected diagnostics: %v", src, sink.All())
		}
		if toks[0].Kind != FLOAT {
			t.Errorf("%s => kind %v, want FLOAT", src, toks[0].Kind)
		}
	}
}

func TestNegativeIntegerLiteral(t *testing.T) {
	toks, sink := tokens(t, "-42")
	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.All())
	}
	if toks[0].Kind != INT || toks[0].IntVal != -42 {
		t.Errorf("got %+v, want INT -42", toks[0])
	}
}

func TestUnknownByteRecordsErrorAndContinues(t *testing.T) {
	toks, sink := tokens(t, "@ nop")
	if sink.Count() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", sink.Count(), sink.All())
	}
	if toks[0].Kind != IDENT || toks[0].Text != "nop" {
		t.Errorf("lexing should continue past the bad byte, got %+v", toks[0])
	}
}
