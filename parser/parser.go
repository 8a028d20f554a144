// Package parser is a recursive-descent, Pratt-style parser: it turns a
// token stream into the list of top-level ast.Expression values the
// compiler consumes. It never stops at the first error - it collects
// every diagnostic it can find across the whole program and returns
// them together, the way the rest of this front end does (see the
// compiler package's statement loop).
package parser

import (
	"rmc/ast"
	"rmc/diag"
	"rmc/lexer"
	"rmc/source"
	"rmc/token"
)

// Parser holds parsing state: the lexer feeding it tokens, a one-token
// lookahead, and the diagnostics accumulated so far.
type Parser struct {
	l *lexer.Lexer

	cur, peek           token.Token
	curRange, peekRange source.Range

	// prevEnd is where the token before cur ended, so a token directly
	// abutting it (no whitespace in between) can be recognized.
	prevEnd source.Location

	errors diag.Errors
}

// New builds a Parser over input, priming the two-token lookahead.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.prevEnd = p.curRange.End
	p.cur, p.curRange = p.peek, p.peekRange
	p.peek, p.peekRange = p.l.NextToken()
}

func (p *Parser) error(kind diag.Kind, rng source.Range) {
	p.errors = append(p.errors, diag.New(kind, rng))
}

func (p *Parser) errorf(kind diag.Kind, rng source.Range, format string, args ...any) {
	p.errors = append(p.errors, diag.Newf(kind, rng, format, args...))
}

// Parse runs the parser to completion, returning every top-level
// statement it managed to parse and every diagnostic it collected along
// the way (the latter may be non-empty even when the former is
// non-nil - callers should check len(errors) before using the program).
func Parse(input string) ([]ast.Expression, diag.Errors) {
	p := New(input)
	return p.parseProgram()
}

func (p *Parser) parseProgram() ([]ast.Expression, diag.Errors) {
	var program []ast.Expression

	for p.cur.Type != token.EOF {
		before := p.curRange
		stmt, ok := p.parseStatement()
		if ok {
			program = append(program, stmt)
			continue
		}
		if p.curRange == before {
			// Nothing was consumed (e.g. a stray `end`): skip the token
			// so the loop always makes progress.
			p.next()
		}
		p.synchronize()
	}

	return program, p.errors
}

// synchronize skips tokens until one that plausibly starts a new
// statement, so a single bad statement doesn't prevent every later one
// from being diagnosed too.
func (p *Parser) synchronize() {
	for !isStatementStart(p.cur.Type) && p.cur.Type != token.EOF {
		p.next()
	}
}

func isStatementStart(t token.Type) bool {
	switch t {
	case token.NUMBER, token.IDENT, token.LPAREN,
		token.INLINE, token.IF, token.USE, token.VAR,
		token.FOREVER, token.WHILE, token.PASS, token.DEBUG,
		token.END, token.ELIF, token.ELSE:
		return true
	default:
		return false
	}
}

// parseStatement parses exactly one top-level construct. Within a
// single statement the first error short-circuits the rest of that
// statement's parse (ok=false); the caller resynchronizes and keeps
// going.
func (p *Parser) parseStatement() (ast.Expression, bool) {
	switch p.cur.Type {
	case token.INLINE:
		return p.parseInlineDeclaration()
	case token.USE:
		return p.parseUse()
	case token.VAR:
		return p.parseVarDeclaration()
	case token.PASS:
		rng := p.curRange
		p.next()
		return &ast.Pass{Rng: rng}, true
	case token.IF:
		return p.parseConditional()
	case token.FOREVER:
		return p.parseEndlessLoop()
	case token.WHILE:
		return p.parseWhileLoop()
	default:
		return p.parseExpression()
	}
}

func (p *Parser) parseInlineDeclaration() (ast.Expression, bool) {
	start := p.curRange
	p.next() // consume 'inline'

	ident, ok := p.expectIdent(diag.InvalidDeclaration)
	if !ok {
		return nil, false
	}

	if p.cur.Type != token.ASSIGN {
		p.error(diag.MissingEquals, p.curRange)
		return nil, false
	}
	p.next() // consume '='

	value, ok := p.parseExpression()
	if !ok {
		return nil, false
	}

	return &ast.InlineDeclaration{Ident: ident, Value: value, Rng: start.Add(value.Range())}, true
}

func (p *Parser) parseVarDeclaration() (ast.Expression, bool) {
	start := p.curRange
	p.next() // consume 'var'

	ident, ok := p.expectIdent(diag.InvalidDeclaration)
	if !ok {
		return nil, false
	}

	return &ast.VarDeclaration{Ident: ident, Rng: start.Add(ident.Range)}, true
}

func (p *Parser) parseUse() (ast.Expression, bool) {
	start := p.curRange
	p.next() // consume 'use'

	var modules []source.Ident
	for {
		if p.cur.Type == token.DEBUG {
			// `debug` is also a keyword; in a `use` list it names the
			// debug module.
			p.cur.Type = token.IDENT
		}
		ident, ok := p.expectIdent(diag.InvalidModuleName)
		if !ok {
			return nil, false
		}
		modules = append(modules, ident)

		if p.cur.Type != token.COMMA {
			break
		}
		p.next() // consume ','
	}

	rng := start
	if len(modules) > 0 {
		rng = start.Add(modules[len(modules)-1].Range)
	}
	return &ast.Use{Modules: modules, Rng: rng}, true
}

// parseBody parses statements up to (but not including) a block
// terminator - END, ELIF, ELSE, or EOF. It never raises an error for
// reaching EOF itself; that is left for the caller's end-of-block check,
// per this language's documented MissingEnd behavior.
func (p *Parser) parseBody() ([]ast.Expression, source.Range, bool) {
	startRng := p.curRange
	var body []ast.Expression

	for p.cur.Type != token.END && p.cur.Type != token.ELIF &&
		p.cur.Type != token.ELSE && p.cur.Type != token.EOF {

		stmt, ok := p.parseStatement()
		if !ok {
			p.synchronize()
			continue
		}
		body = append(body, stmt)
	}

	rng := startRng
	if len(body) > 0 {
		rng = startRng.Add(body[len(body)-1].Range())
	}

	if len(body) == 0 {
		p.error(diag.EmptyBlock, rng)
		return nil, rng, false
	}
	return body, rng, true
}

func (p *Parser) parseConditional() (ast.Expression, bool) {
	start := p.curRange
	p.next() // consume 'if'

	cond, ok := p.parseExpression()
	if !ok {
		return nil, false
	}

	body, bodyRng, ok := p.parseBody()
	if !ok {
		return nil, false
	}

	var paths []ast.ElifBranch
	for p.cur.Type == token.ELIF {
		p.next() // consume 'elif'

		elifCond, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		elifBody, _, ok := p.parseBody()
		if !ok {
			return nil, false
		}
		paths = append(paths, ast.ElifBranch{Condition: elifCond, Body: elifBody})
	}

	var alternate []ast.Expression
	if p.cur.Type == token.ELSE {
		p.next() // consume 'else'
		alt, _, ok := p.parseBody()
		if !ok {
			return nil, false
		}
		alternate = alt
	}

	if p.cur.Type != token.END {
		p.error(diag.MissingEnd, p.curRange)
		return nil, false
	}
	endRng := p.curRange
	p.next() // consume 'end'

	return &ast.Conditional{
		Condition: cond,
		Body:      body,
		Paths:     paths,
		Alternate: alternate,
		Rng:       start.Add(bodyRng).Add(endRng),
	}, true
}

func (p *Parser) parseEndlessLoop() (ast.Expression, bool) {
	start := p.curRange
	p.next() // consume 'forever'

	body, _, ok := p.parseBody()
	if !ok {
		return nil, false
	}

	if p.cur.Type != token.END {
		p.error(diag.MissingEnd, p.curRange)
		return nil, false
	}
	endRng := p.curRange
	p.next()

	return &ast.EndlessLoop{Body: body, Rng: start.Add(endRng)}, true
}

func (p *Parser) parseWhileLoop() (ast.Expression, bool) {
	start := p.curRange
	p.next() // consume 'while'

	cond, ok := p.parseExpression()
	if !ok {
		return nil, false
	}

	body, _, ok := p.parseBody()
	if !ok {
		return nil, false
	}

	if p.cur.Type != token.END {
		p.error(diag.MissingEnd, p.curRange)
		return nil, false
	}
	endRng := p.curRange
	p.next()

	return &ast.WhileLoop{Condition: cond, Body: body, Rng: start.Add(endRng)}, true
}

// expectIdent consumes the current token as an identifier, or records an
// error of the given kind and leaves the cursor in place.
func (p *Parser) expectIdent(onFailure diag.Kind) (source.Ident, bool) {
	if p.cur.Type != token.IDENT {
		p.error(onFailure, p.curRange)
		return source.Ident{}, false
	}
	ident := source.Ident{Name: p.cur.Literal, Range: p.curRange}
	p.next()
	return ident, true
}

// --- expression precedence ladder ---
//
//	assignment -> i_assignment -> equality -> additive -> multiplicative -> call/member -> primary

func (p *Parser) parseExpression() (ast.Expression, bool) {
	return p.parseAssignment()
}

var iassignOps = map[token.Type]source.BinaryOperator{
	token.PLUS_ASSIGN:     source.Plus,
	token.MINUS_ASSIGN:    source.Minus,
	token.ASTERISK_ASSIGN: source.Mult,
	token.AMP_ASSIGN:      source.And,
	token.PIPE_ASSIGN:     source.Or,
	token.CARET_ASSIGN:    source.Xor,
}

func (p *Parser) parseAssignment() (ast.Expression, bool) {
	left, ok := p.parseEquality()
	if !ok {
		return nil, false
	}

	if p.cur.Type == token.ASSIGN {
		ident, ok := asIdent(left)
		if !ok {
			p.error(diag.InvalidAssignment, left.Range())
			return nil, false
		}
		p.next() // consume '='
		value, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		return &ast.Assignment{Ident: ident, Value: value, Rng: left.Range().Add(value.Range())}, true
	}

	if op, isIassign := iassignOps[p.cur.Type]; isIassign {
		ident, ok := asIdent(left)
		if !ok {
			p.error(diag.InvalidAssignment, left.Range())
			return nil, false
		}
		p.next() // consume 'op='
		value, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		return &ast.IAssignment{Ident: ident, Value: value, Operator: op, Rng: left.Range().Add(value.Range())}, true
	}

	return left, true
}

func asIdent(e ast.Expression) (source.Ident, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return source.Ident{}, false
	}
	return source.Ident{Name: id.Name, Range: id.Rng}, true
}

var equalityOps = map[token.Type]source.EqualityOperator{
	token.EQ:     source.EqualTo,
	token.NOT_EQ: source.NotEqualTo,
	token.GT:     source.GreaterThan,
	token.LT:     source.LessThan,
	token.GE:     source.GreaterOrEqual,
	token.LE:     source.LessOrEqual,
}

func (p *Parser) parseEquality() (ast.Expression, bool) {
	left, ok := p.parseAdditive()
	if !ok {
		return nil, false
	}

	for {
		op, isEq := equalityOps[p.cur.Type]
		if !isEq {
			break
		}
		p.next()
		right, ok := p.parseAdditive()
		if !ok {
			return nil, false
		}
		left = &ast.EqExpr{Left: left, Right: right, Operator: op, Rng: left.Range().Add(right.Range())}
	}
	return left, true
}

func (p *Parser) parseAdditive() (ast.Expression, bool) {
	left, ok := p.parseMultiplicative()
	if !ok {
		return nil, false
	}

	for p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		var op source.BinaryOperator
		if p.cur.Type == token.PLUS {
			op = source.Plus
		} else {
			op = source.Minus
		}
		p.next()
		right, ok := p.parseMultiplicative()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Left: left, Right: right, Operator: op, Rng: left.Range().Add(right.Range())}
	}
	return left, true
}

var multiplicativeOps = map[token.Type]source.BinaryOperator{
	token.ASTERISK: source.Mult,
	token.AMP:      source.And,
	token.PIPE:     source.Or,
	token.CARET:    source.Xor,
}

func (p *Parser) parseMultiplicative() (ast.Expression, bool) {
	left, ok := p.parseCallMember()
	if !ok {
		return nil, false
	}

	for {
		op, isMul := multiplicativeOps[p.cur.Type]
		if !isMul {
			break
		}
		p.next()
		right, ok := p.parseCallMember()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Left: left, Right: right, Operator: op, Rng: left.Range().Add(right.Range())}
	}
	return left, true
}

func (p *Parser) parseCallMember() (ast.Expression, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}

	for {
		switch p.cur.Type {
		case token.DOT:
			p.next()
			prop, ok := p.expectIdent(diag.InvalidDot)
			if !ok {
				return nil, false
			}
			expr = &ast.Member{Object: expr, Property: prop, Rng: expr.Range().Add(prop.Range)}

		case token.CALL_PAREN:
			callRng := p.curRange
			p.next()
			args, ok := p.parseArgs()
			if !ok {
				return nil, false
			}
			expr = &ast.Call{Function: expr, Args: args, Rng: expr.Range().Add(callRng)}

			if p.cur.Type == token.CALL_PAREN ||
				(p.cur.Type == token.LPAREN && p.curRange.Start == p.prevEnd) {
				// no currying: f(1)(2) is rejected, not parsed.
				p.error(diag.FunctionChaining, p.curRange)
				return nil, false
			}

		default:
			return expr, true
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expression, bool) {
	var args []ast.Expression

	if p.cur.Type == token.RPAREN {
		p.next()
		return args, true
	}

	for {
		arg, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		args = append(args, arg)

		if p.cur.Type == token.COMMA {
			p.next()
			continue
		}
		break
	}

	if p.cur.Type != token.RPAREN {
		p.error(diag.MissingClosingParen, p.curRange)
		return nil, false
	}
	p.next()
	return args, true
}

func (p *Parser) parsePrimary() (ast.Expression, bool) {
	switch p.cur.Type {
	case token.NUMBER:
		return p.parseNumericLiteral()

	case token.IDENT:
		rng := p.curRange
		name := p.cur.Literal
		p.next()
		return &ast.Identifier{Name: name, Rng: rng}, true

	case token.DEBUG:
		rng := p.curRange
		p.next()
		if p.cur.Type == token.DOT {
			// `debug.method(...)` calls into the debug module rather
			// than being the `debug` marker expression.
			return &ast.Identifier{Name: "debug", Rng: rng}, true
		}
		return &ast.Debug{Rng: rng}, true

	case token.PASS:
		rng := p.curRange
		p.next()
		return &ast.Pass{Rng: rng}, true

	case token.LPAREN:
		p.next()
		inner, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		if p.cur.Type != token.RPAREN {
			p.error(diag.ExpectedParen, p.curRange)
			return nil, false
		}
		p.next()
		return inner, true

	case token.EOF:
		p.error(diag.Eof, p.curRange)
		return nil, false

	default:
		p.error(diag.UnexpectedOther, p.curRange)
		return nil, false
	}
}

func (p *Parser) parseNumericLiteral() (ast.Expression, bool) {
	rng := p.curRange
	lit := p.cur.Literal

	var value int64
	for _, ch := range lit {
		value = value*10 + int64(ch-'0')
	}
	p.next()

	// Wrap into 16-bit two's complement the same way constant folding
	// does, rather than rejecting literals that use the high bit.
	v := int16(uint16(value))
	return &ast.NumericLiteral{Value: v, Rng: rng}, true
}
