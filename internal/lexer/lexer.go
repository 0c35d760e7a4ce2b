package lexer

import (
	"strconv"
	"strings"

	"github.com/oisee/minstral/internal/diag"
)

// Lexer scans one source file into Tokens. It slurps the whole input up
// front, matching original_source/src/lexer.c's create_lexer (which reads
// the file in one fread rather than streaming), since assembly sources here
// are always small.
type Lexer struct {
	file string
	src  []byte
	pos  int
	line int
	col  int
	sink *diag.Sink
}

// New returns a Lexer over src, reporting into sink.
func New(file string, src []byte, sink *diag.Sink) *Lexer {
	return &Lexer{file: file, src: src, pos: 0, line: 1, col: 1, sink: sink}
}

func (l *Lexer) cur() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peek(offset int) byte {
	i := l.pos + offset
	if i >= len(l.src) {
		if len(l.src) == 0 {
			return 0
		}
		return l.src[len(l.src)-1]
	}
	if i < 0 {
		return l.src[0]
	}
	return l.src[i]
}

func (l *Lexer) step() {
	if l.pos >= len(l.src) {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }
func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f' }

// Next returns the next token, skipping comments and non-newline whitespace.
func (l *Lexer) Next() Token {
	for isSpace(l.cur()) {
		l.step()
	}

	switch {
	case l.cur() == 0:
		return Token{Kind: EOF, Text: "eof", Line: l.line, Col: l.col}
	case l.cur() == '\n':
		return l.lexEOL()
	case l.cur() == ';':
		return l.skipComment()
	case l.cur() == ':':
		return l.single(COLON, ":")
	case l.cur() == '.':
		return l.single(DOT, ".")
	case isAlpha(l.cur()) || l.cur() == '_':
		return l.lexIdent()
	case isDigit(l.cur()) || (l.cur() == '-' && isDigit(l.peek(1))):
		return l.lexNumber()
	case l.cur() == '\'':
		return l.lexChar()
	}

	l.sink.Add(l.file, l.line, l.col, "unknown token '%c'", l.cur())
	l.step()
	return l.Next()
}

func (l *Lexer) single(kind Kind, text string) Token {
	tok := Token{Kind: kind, Text: text, Line: l.line, Col: l.col}
	l.step()
	return tok
}

func (l *Lexer) lexEOL() Token {
	tok := Token{Kind: EOL, Text: "\n", Line: l.line, Col: l.col}
	l.step()
	return tok
}

func (l *Lexer) skipComment() Token {
	for l.cur() != 0 && l.cur() != '\n' {
		l.step()
	}
	if l.cur() == '\n' {
		return l.lexEOL()
	}
	return Token{Kind: EOF, Text: "eof", Line: l.line, Col: l.col}
}

func (l *Lexer) lexIdent() Token {
	line, col := l.line, l.col
	var sb strings.Builder
	for isAlnum(l.cur()) || l.cur() == '_' {
		b := l.cur()
		if b >= 'A' && b <= 'Z' {
			b = b - 'A' + 'a'
		}
		sb.WriteByte(b)
		l.step()
	}
	return Token{Kind: IDENT, Text: sb.String(), Line: line, Col: col}
}

// lexNumber implements the recognition order of spec.md §4.3: optional
// leading '-', then 0x/0[0-7] prefixed literals, else a decimal digit run
// (with '_' separators and an optional '.digits' that makes it a float),
// then an optional radix suffix h/o/b, or a trailing 'f' that makes it a
// float.
func (l *Lexer) lexNumber() Token {
	line, col := l.line, l.col

	neg := false
	if l.cur() == '-' {
		neg = true
		l.step()
	}

	if l.cur() == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X' || isOctalDigit(l.peek(1))) {
		return l.lexPrefixed(line, col, neg)
	}

	var sb strings.Builder
	hasDecimal := false

	for isDigit(l.cur()) ||
		(l.cur() == '.' && sb.Len() > 0 && !hasDecimal && isDigit(l.peek(1))) ||
		(l.cur() == '_' && isDigit(l.peek(1))) {

		if l.cur() == '.' {
			hasDecimal = true
			sb.WriteByte('.')
		} else if l.cur() == '_' {
			l.step()
			continue
		} else {
			sb.WriteByte(l.cur())
		}
		l.step()
	}

	digits := sb.String()

	switch {
	case l.cur() == 'f':
		l.step()
		text := digits
		if !hasDecimal {
			text += ".0"
		}
		if neg {
			text = "-" + text
		}
		return Token{Kind: FLOAT, Text: text, Line: line, Col: col}

	case !hasDecimal && (l.cur() == 'h' || l.cur() == 'o' || l.cur() == 'b'):
		radix := 16
		switch l.cur() {
		case 'o':
			radix = 8
		case 'b':
			radix = 2
		}
		l.step()
		return l.finishInt(digits, neg, radix, line, col)

	case hasDecimal:
		text := digits
		if neg {
			text = "-" + text
		}
		return Token{Kind: FLOAT, Text: text, Line: line, Col: col}

	default:
		return l.finishInt(digits, neg, 10, line, col)
	}
}

func (l *Lexer) lexPrefixed(line, col int, neg bool) Token {
	var sb strings.Builder
	sb.WriteByte('0')
	l.step()

	isHex := false
	if l.cur() == 'x' || l.cur() == 'X' {
		isHex = true
		l.step()
	}

	var digits strings.Builder
	for {
		b := l.cur()
		if isHex && isHexDigit(b) {
			digits.WriteByte(b)
			l.step()
		} else if !isHex && isOctalDigit(b) {
			digits.WriteByte(b)
			l.step()
		} else {
			break
		}
	}

	radix := 8
	if isHex {
		radix = 16
	}
	return l.finishInt(digits.String(), neg, radix, line, col)
}

func (l *Lexer) finishInt(digits string, neg bool, radix, line, col int) Token {
	if digits == "" {
		digits = "0"
	}

	v, err := strconv.ParseInt(digits, radix, 64)
	if err != nil {
		l.sink.Add(l.file, l.line, l.col, "digit conversion failed: %s", err)
		return Token{Kind: INT, IntVal: 0, Line: line, Col: col}
	}
	if neg {
		v = -v
	}
	return Token{Kind: INT, IntVal: v, Line: line, Col: col}
}

var escapes = map[byte]int64{
	'n':  10,
	't':  9,
	'r':  13,
	'0':  0,
	'\'': int64('\''),
	'"':  int64('"'),
	'\\': int64('\\'),
}

// lexChar scans a character literal 'c' or '\c', emitting an INT token
// carrying the numeric code (spec.md §4.3).
func (l *Lexer) lexChar() Token {
	line, col := l.line, l.col
	l.step() // opening quote

	var value int64
	if l.cur() == '\\' {
		l.step()
		code, ok := escapes[l.cur()]
		if !ok {
			l.sink.Add(l.file, l.line, l.col, "unsupported escape sequence '\\%c'", l.cur())
		} else {
			value = code
		}
		l.step()
	} else {
		value = int64(l.cur())
		l.step()
	}

	if l.cur() != '\'' {
		l.sink.Add(l.file, l.line, l.col, "unclosed character constant")
	} else {
		l.step()
	}

	return Token{Kind: INT, IntVal: value, Line: line, Col: col}
}
