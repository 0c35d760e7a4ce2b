package asm

import (
	"github.com/oisee/minstral/internal/lexer"
	"github.com/oisee/minstral/internal/vm"
)

// declareLabel records name as occupying the slot about to be emitted.
// Only pass 1 writes the table; pass 2 just looks the same entry back up,
// mirroring the original two-pass layout in original_source/src/parser.c.
func (p *Parser) declareLabel(name string, line, col int) *Label {
	if p.ctx.pass != 1 {
		return p.ctx.Labels[name]
	}
	if existing, ok := p.ctx.Labels[name]; ok && existing.Defined {
		p.ctx.Sink.Add(p.file, line, col, "redefinition of label '%s' (first defined at %s:%d:%d)",
			name, existing.DefFile, existing.DefLine, existing.DefCol)
		return existing
	}
	lbl := &Label{Name: name, Slot: p.slot(), Defined: true, DefFile: p.file, DefLine: line, DefCol: col}
	p.ctx.Labels[name] = lbl
	return lbl
}

// parseIdentStatement parses everything that begins with an identifier:
// a label declaration (possibly immediately followed by a dsr/dat
// directive on the same line), the rsr pseudo-op, or an ordinary mnemonic.
func (p *Parser) parseIdentStatement() []Op {
	tok := p.cur()
	name := tok.Text

	if p.peek(1).Kind == lexer.COLON {
		p.eat(lexer.IDENT)
		p.eat(lexer.COLON)
		return p.parseLabelBody(name, tok.Line, tok.Col)
	}

	switch name {
	case "rsr":
		p.eat(lexer.IDENT)
		return p.parseRsr(tok.Line, tok.Col)
	case "csr":
		p.eat(lexer.IDENT)
		return p.parseCsr(tok.Line, tok.Col)
	default:
		p.eat(lexer.IDENT)
		return p.parseGeneric(name, tok.Line, tok.Col)
	}
}

// parseLabelBody handles what follows "name:": dsr opens a subroutine body
// whose header slot is this label, dat reserves a data cell, and anything
// else (typically end-of-line) is a plain code label.
func (p *Parser) parseLabelBody(name string, line, col int) []Op {
	lbl := p.declareLabel(name, line, col)
	p.ctx.CurrentSubroutine = -1

	switch {
	case p.cur().Kind == lexer.IDENT && p.cur().Text == "dsr":
		p.eat(lexer.IDENT)
		if lbl != nil {
			lbl.IsSubroutine = true
		}
		p.ctx.CurrentSubroutine = p.slot()
		return []Op{{Opcode: vm.DAT, Operand: 0}}

	case p.cur().Kind == lexer.IDENT && p.cur().Text == "dat":
		p.eat(lexer.IDENT)
		return []Op{{Opcode: vm.DAT, Operand: p.parseDatOperand()}}

	default:
		return nil
	}
}

func (p *Parser) parseDatOperand() int64 {
	if p.cur().Kind == lexer.INT {
		v := p.cur().IntVal
		p.eat(lexer.INT)
		return v
	}
	return 0
}

// parseCsr lowers `csr name` into the self-modifying calling sequence:
// write the return address into the subroutine's header slot, then jump
// past it into the body. Three ops regardless of pass, so slot layout
// stays identical between pass 1 and pass 2.
func (p *Parser) parseCsr(line, col int) []Op {
	tok := p.cur()
	if tok.Kind != lexer.IDENT {
		p.ctx.Sink.Add(p.file, tok.Line, tok.Col, "csr requires a subroutine name")
		return nil
	}
	p.eat(lexer.IDENT)

	lbl := p.resolveLabel(tok.Text, tok.Line, tok.Col)

	headerSlot := int64(0)
	bodySlot := int64(0)
	if lbl != nil {
		headerSlot = lbl.Slot
		bodySlot = lbl.Slot + 1
	}
	returnSlot := p.slot() + 3

	return []Op{
		{Opcode: vm.LDI, Operand: returnSlot},
		{Opcode: vm.STM, Operand: headerSlot},
		{Opcode: vm.CSR, Operand: bodySlot},
	}
}

// parseRsr lowers the bare `rsr` pseudo-op into loading the enclosing
// subroutine's header slot (written by the call site) and jumping there.
func (p *Parser) parseRsr(line, col int) []Op {
	if p.ctx.CurrentSubroutine < 0 {
		p.ctx.Sink.Add(p.file, line, col, "rsr outside of a subroutine body")
		return nil
	}
	return []Op{
		{Opcode: vm.LDM, Operand: p.ctx.CurrentSubroutine},
		{Opcode: vm.BRAA},
	}
}
