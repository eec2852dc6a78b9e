package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// Error kinds this package raises.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func errKind(kind, format string, a ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// Parse parses formula text (without a leading '=') into an AST.
//
// Operator precedence, lowest to highest: comparison, concatenation
// (&), additive (+ -), multiplicative (* /), exponentiation (^),
// unary prefix (+ -) and postfix (%), primary (literals, references,
// function calls, parenthesized expressions).
func Parse(input string) (Expr, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, errKind("Internal", "formula: empty formula")
	}
	p := &parser{s: trimmed}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, errKind("Internal", "formula: unexpected trailing input: %q", p.s[p.pos:])
	}
	return expr, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) rest() string { return p.s[p.pos:] }

func (p *parser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t' || p.s[p.pos] == '\n' || p.s[p.pos] == '\r') {
		p.pos++
	}
}

func (p *parser) peekByte() (byte, bool) {
	if p.pos >= len(p.s) {
		return 0, false
	}
	return p.s[p.pos], true
}

func (p *parser) consumeTag(tag string) bool {
	if strings.HasPrefix(p.rest(), tag) {
		p.pos += len(tag)
		return true
	}
	return false
}

func (p *parser) consumeTagCI(tag string) bool {
	if len(p.rest()) < len(tag) {
		return false
	}
	if strings.EqualFold(p.rest()[:len(tag)], tag) {
		p.pos += len(tag)
		return true
	}
	return false
}

// --- precedence ladder, lowest first ---

func (p *parser) expr() (Expr, error) { return p.comparison() }

func (p *parser) comparison() (Expr, error) {
	left, err := p.concat()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op, ok := p.comparisonOp()
		if !ok {
			return left, nil
		}
		p.skipSpace()
		right, err := p.concat()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) comparisonOp() (BinOp, bool) {
	switch {
	case p.consumeTag("<="):
		return OpLe, true
	case p.consumeTag(">="):
		return OpGe, true
	case p.consumeTag("<>"):
		return OpNe, true
	case p.consumeTag("<"):
		return OpLt, true
	case p.consumeTag(">"):
		return OpGt, true
	case p.consumeTag("="):
		return OpEq, true
	}
	return 0, false
}

func (p *parser) concat() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.consumeTag("&") {
			return left, nil
		}
		p.skipSpace()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: OpConcat, Left: left, Right: right}
	}
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		var op BinOp
		switch {
		case p.consumeTag("+"):
			op = OpAdd
		case p.consumeTag("-"):
			op = OpSub
		default:
			return left, nil
		}
		p.skipSpace()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.power()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		var op BinOp
		switch {
		case p.consumeTag("*"):
			op = OpMul
		case p.consumeTag("/"):
			op = OpDiv
		default:
			return left, nil
		}
		p.skipSpace()
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) power() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.consumeTag("^") {
			return left, nil
		}
		p.skipSpace()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: OpPow, Left: left, Right: right}
	}
}

func (p *parser) unary() (Expr, error) {
	p.skipSpace()
	if p.consumeTag("-") {
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return UnaryOp{Op: OpNeg, Operand: operand}, nil
	}
	if p.consumeTag("+") {
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return UnaryOp{Op: OpPos, Operand: operand}, nil
	}
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.consumeTag("%") {
			break
		}
		expr = UnaryOp{Op: OpPercent, Operand: expr}
	}
	return expr, nil
}

func (p *parser) primary() (Expr, error) {
	p.skipSpace()
	if b, ok := p.peekByte(); ok && b == '(' {
		return p.parenExpr()
	}
	if b, ok := p.peekByte(); ok && b == '"' {
		return p.stringLiteral()
	}
	if expr, ok := p.tryErrorLiteral(); ok {
		return expr, nil
	}
	if expr, ok := p.tryBoolLiteral(); ok {
		return expr, nil
	}
	if expr, ok, err := p.tryFunctionCall(); ok || err != nil {
		return expr, err
	}
	if expr, ok, err := p.tryCellRefOrRange(); ok || err != nil {
		return expr, err
	}
	return p.numberLiteral()
}

func (p *parser) parenExpr() (Expr, error) {
	p.pos++ // '('
	p.skipSpace()
	inner, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.consumeTag(")") {
		return nil, errKind("Internal", "formula: expected ')' at %q", p.rest())
	}
	return Paren{Inner: inner}, nil
}

func (p *parser) stringLiteral() (Expr, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for {
		if p.pos >= len(p.s) {
			return nil, errKind("Internal", "formula: unterminated string literal")
		}
		if strings.HasPrefix(p.rest(), `""`) {
			b.WriteByte('"')
			p.pos += 2
			continue
		}
		if p.s[p.pos] == '"' {
			p.pos++
			break
		}
		b.WriteByte(p.s[p.pos])
		p.pos++
	}
	return Str(b.String()), nil
}

func (p *parser) tryErrorLiteral() (Expr, bool) {
	for _, lit := range errorLiterals {
		if strings.HasPrefix(p.rest(), lit) {
			p.pos += len(lit)
			return ErrLit(lit), true
		}
	}
	return nil, false
}

func (p *parser) tryBoolLiteral() (Expr, bool) {
	save := p.pos
	if p.consumeTagCI("TRUE") && !p.nextIsAlnumOrUnderscore() {
		return Bool(true), true
	}
	p.pos = save
	if p.consumeTagCI("FALSE") && !p.nextIsAlnumOrUnderscore() {
		return Bool(false), true
	}
	p.pos = save
	return nil, false
}

func (p *parser) nextIsAlnumOrUnderscore() bool {
	b, ok := p.peekByte()
	if !ok {
		return false
	}
	return isAlnum(b) || b == '_'
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func (p *parser) numberLiteral() (Expr, error) {
	start := p.pos
	for p.pos < len(p.s) && isDigit(p.s[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, errKind("Internal", "formula: expected a number at %q", p.rest())
	}
	if p.pos < len(p.s) && p.s[p.pos] == '.' {
		dotPos := p.pos
		p.pos++
		fracStart := p.pos
		for p.pos < len(p.s) && isDigit(p.s[p.pos]) {
			p.pos++
		}
		if p.pos == fracStart {
			p.pos = dotPos
		}
	}
	n, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return nil, errKind("Internal", "formula: invalid numeric literal %q", p.s[start:p.pos])
	}
	return Number(n), nil
}

// tryFunctionCall attempts to parse NAME(arg, arg, ...). It only
// commits (consuming input) once it has confirmed the '(' follows the
// identifier, so a bare identifier that turns out to be a cell/sheet
// reference falls through to tryCellRefOrRange untouched.
func (p *parser) tryFunctionCall() (Expr, bool, error) {
	save := p.pos
	name, ok := p.scanFunctionName()
	if !ok {
		p.pos = save
		return nil, false, nil
	}
	p.skipSpace()
	if !p.consumeTag("(") {
		p.pos = save
		return nil, false, nil
	}
	p.skipSpace()
	var args []Expr
	if b, ok := p.peekByte(); !ok || b != ')' {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, true, err
			}
			args = append(args, arg)
			p.skipSpace()
			if p.consumeTag(",") {
				p.skipSpace()
				continue
			}
			break
		}
	}
	p.skipSpace()
	if !p.consumeTag(")") {
		return nil, true, errKind("Internal", "formula: expected ')' closing call to %s", name)
	}
	return Call{Name: strings.ToUpper(name), Args: args}, true, nil
}

// scanFunctionName accepts letters/digits/underscore/dot after an
// initial letter or underscore, so names like _xlfn.CONCAT and
// ERROR.TYPE both scan correctly.
func (p *parser) scanFunctionName() (string, bool) {
	start := p.pos
	if p.pos >= len(p.s) {
		return "", false
	}
	if !isAlpha(p.s[p.pos]) && p.s[p.pos] != '_' {
		return "", false
	}
	p.pos++
	for p.pos < len(p.s) && (isAlnum(p.s[p.pos]) || p.s[p.pos] == '_' || p.s[p.pos] == '.') {
		p.pos++
	}
	return p.s[start:p.pos], true
}

func (p *parser) tryCellRefOrRange() (Expr, bool, error) {
	save := p.pos
	first, ok, err := p.tryCellReference()
	if err != nil {
		return nil, true, err
	}
	if !ok {
		p.pos = save
		return nil, false, nil
	}
	if p.consumeTag(":") {
		second, ok, err := p.tryCellReference()
		if err != nil {
			return nil, true, err
		}
		if !ok {
			return nil, true, errKind("Internal", "formula: expected cell reference after ':' at %q", p.rest())
		}
		return Range{Start: first, End: second}, true, nil
	}
	return CellRef{Ref: first}, true, nil
}

func (p *parser) tryCellReference() (CellReference, bool, error) {
	save := p.pos
	sheet, hasSheet := p.trySheetPrefix()
	absCol := p.consumeTag("$")
	colStart := p.pos
	for p.pos < len(p.s) && isAlpha(p.s[p.pos]) {
		p.pos++
	}
	if p.pos == colStart {
		p.pos = save
		return CellReference{}, false, nil
	}
	col := strings.ToUpper(p.s[colStart:p.pos])
	absRow := p.consumeTag("$")
	rowStart := p.pos
	for p.pos < len(p.s) && isDigit(p.s[p.pos]) {
		p.pos++
	}
	if p.pos == rowStart {
		p.pos = save
		return CellReference{}, false, nil
	}
	row, err := strconv.Atoi(p.s[rowStart:p.pos])
	if err != nil {
		return CellReference{}, false, err
	}
	ref := CellReference{Col: col, Row: row, AbsCol: absCol, AbsRow: absRow}
	if hasSheet {
		ref.Sheet = sheet
	}
	return ref, true, nil
}

// trySheetPrefix recognises `Name!` or `'Quoted Name'!` immediately
// preceding a cell reference, backtracking cleanly if no '!' follows.
func (p *parser) trySheetPrefix() (string, bool) {
	save := p.pos
	if b, ok := p.peekByte(); ok && b == '\'' {
		p.pos++
		var b strings.Builder
		for {
			if p.pos >= len(p.s) {
				p.pos = save
				return "", false
			}
			if strings.HasPrefix(p.rest(), "''") {
				b.WriteByte('\'')
				p.pos += 2
				continue
			}
			if p.s[p.pos] == '\'' {
				p.pos++
				break
			}
			b.WriteByte(p.s[p.pos])
			p.pos++
		}
		if !p.consumeTag("!") {
			p.pos = save
			return "", false
		}
		return b.String(), true
	}
	start := p.pos
	for p.pos < len(p.s) && (isAlnum(p.s[p.pos]) || p.s[p.pos] == '_') {
		p.pos++
	}
	if p.pos == start {
		p.pos = save
		return "", false
	}
	name := p.s[start:p.pos]
	if !p.consumeTag("!") {
		p.pos = save
		return "", false
	}
	return name, true
}
