package asm

import (
	"github.com/oisee/minstral/internal/lexer"
	"github.com/oisee/minstral/internal/vm"
)

// Op is one emitted (opcode, operand) pair, with the operand already
// resolved to a literal slot index where it names a label.
type Op struct {
	Opcode  vm.Opcode
	Operand int64
}

// Image is the assembler's output: a program laid out across the two
// parallel memories C1 defines, ready to be written by the binary codec or
// loaded straight into a vm.State.
type Image struct {
	Instructions [vm.MemSize]vm.Opcode
	Data         [vm.MemSize]int64
	OpCount      int
}

// Append writes one slot, matching original_source/src/vm.c's push_op.
func (img *Image) Append(op vm.Opcode, operand int64) error {
	if img.OpCount >= vm.MemSize {
		return errMemoryOverflow
	}
	img.Instructions[img.OpCount] = op
	img.Data[img.OpCount] = operand
	img.OpCount++
	return nil
}

// Parser walks a pre-lexed token stream twice: pass 1 lays out labels
// against the emitted-op counter without committing real opcodes, pass 2
// resolves every operand and emits the final Image (spec.md §4.4).
type Parser struct {
	file  string
	toks  []lexer.Token
	pos   int
	ctx   *Context
	img   *Image
	count int // ops emitted so far in the current pass, image or not
}

// ParseRoot runs both passes over src and returns the resulting Image. The
// caller must check ctx.Sink.Count() == 0 before using it or writing it out
// (spec.md §7: any diagnostic means no output file is written).
func ParseRoot(file string, src []byte, ctx *Context) *Image {
	var toks []lexer.Token
	lex := lexer.New(file, src, ctx.Sink)
	for {
		tok := lex.Next()
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}

	p := &Parser{file: file, toks: toks, ctx: ctx}

	ctx.pass = 1
	ctx.Section = SectionNone
	ctx.CurrentSubroutine = -1
	p.pos = 0
	p.count = 0
	p.runPass()

	ctx.pass = 2
	ctx.Section = SectionNone
	ctx.CurrentSubroutine = -1
	p.pos = 0
	p.count = 0
	img := &Image{}
	p.img = img
	p.runPass()

	return img
}

func (p *Parser) runPass() {
	for p.cur().Kind != lexer.EOF {
		for p.cur().Kind == lexer.EOL {
			p.eat(lexer.EOL)
		}
		if p.cur().Kind == lexer.EOF {
			break
		}
		ops := p.parseStatement()
		for _, op := range ops {
			p.count++
			if p.img != nil {
				if err := p.img.Append(op.Opcode, op.Operand); err != nil {
					p.ctx.Sink.AddGlobal("asm", "%s", err.Error())
					return
				}
			}
		}
	}
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	if i < 0 {
		return p.toks[0]
	}
	return p.toks[i]
}

func (p *Parser) eat(kind lexer.Kind) lexer.Token {
	tok := p.cur()
	if tok.Kind != kind {
		p.ctx.Sink.Add(p.file, tok.Line, tok.Col, "found token '%s' when expecting '%s'", tok.Kind, kind)
	}
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

// slot returns the slot index the next emitted op will occupy, valid in
// both passes since p.count is tracked independently of the Image.
func (p *Parser) slot() int64 {
	return int64(p.count)
}

func (p *Parser) parseStatement() []Op {
	tok := p.cur()
	if tok.Kind == lexer.DOT {
		return p.parseSectionDirective()
	}
	if tok.Kind != lexer.IDENT {
		p.ctx.Sink.Add(p.file, tok.Line, tok.Col, "invalid statement '%s'", tok.Kind)
		p.eat(tok.Kind)
		return nil
	}
	return p.parseIdentStatement()
}

func (p *Parser) parseSectionDirective() []Op {
	p.eat(lexer.DOT)
	tok := p.cur()
	if tok.Kind != lexer.IDENT {
		p.ctx.Sink.Add(p.file, tok.Line, tok.Col, "expected section name after '.'")
		return nil
	}
	p.eat(lexer.IDENT)
	switch tok.Text {
	case "text":
		p.ctx.Section = SectionText
	case "data":
		p.ctx.Section = SectionData
	default:
		p.ctx.Sink.Add(p.file, tok.Line, tok.Col, "unknown section directive '.%s'", tok.Text)
	}
	return nil
}
