// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Lox with precedence
// climbing for expressions.
//
// Within a statement, errors are handled by panicking with parseError
// and recovering at the nearest enclosing declaration, which then
// discards tokens up to a statement boundary and resumes. One parse
// therefore reports every independent syntax error, batched in an
// ErrorList along with any lexical errors from the scanner.

import "fmt"

type parseError struct{}

type parser struct {
	tokens []TokenValue // ends with EOF token
	pos    int
	errs   ErrorList
}

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename is
// only used when recording position information. If src == nil, Parse
// parses the file specified by filename.
func Parse(filename string, src interface{}) (*File, error) {
	tokens, err := Scan(filename, src)
	if err != nil {
		if _, ok := err.(ErrorList); !ok {
			return nil, err // I/O error
		}
	}
	p := &parser{tokens: tokens}
	if err != nil {
		p.errs = err.(ErrorList)
	}
	f := &File{Path: filename, Stmts: p.program()}
	if len(p.errs) > 0 {
		return f, p.errs
	}
	return f, nil
}

// ParseExpr parses a Lox expression. Inputs that contain more than a
// single expression are an error.
func ParseExpr(filename string, src interface{}) (Expr, error) {
	tokens, err := Scan(filename, src)
	if err != nil {
		if _, ok := err.(ErrorList); !ok {
			return nil, err
		}
	}
	p := &parser{tokens: tokens}
	if err != nil {
		p.errs = err.(ErrorList)
	}
	var x Expr
	func() {
		defer p.recover()
		x = p.expression()
		if !p.at(EOF) {
			p.panicf(p.peek().Pos, "got %s, want end of expression", p.peek().Token)
		}
	}()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return x, nil
}

func (p *parser) peek() TokenValue { return p.tokens[p.pos] }

func (p *parser) peekNext() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1].Token
	}
	return EOF
}

func (p *parser) prev() TokenValue { return p.tokens[p.pos-1] }

func (p *parser) at(tok Token) bool { return p.peek().Token == tok }

func (p *parser) advance() TokenValue {
	tv := p.peek()
	if tv.Token != EOF {
		p.pos++
	}
	return tv
}

// match consumes the next token if it has the specified type.
func (p *parser) match(tok Token) bool {
	if p.at(tok) {
		p.pos++
		return true
	}
	return false
}

// expect consumes a token of the specified type, or fails the current
// statement. The context (e.g. "';' after value") names what was wanted.
func (p *parser) expect(tok Token, context string) TokenValue {
	if p.at(tok) {
		return p.advance()
	}
	p.panicf(p.peek().Pos, "got %#v, want %s", p.peek().Token, context)
	panic("unreachable")
}

// recordf records an error without abandoning the current statement.
func (p *parser) recordf(pos Position, format string, args ...interface{}) {
	p.errs = append(p.errs, Error{pos, fmt.Sprintf(format, args...)})
}

// panicf records an error and abandons the current statement.
func (p *parser) panicf(pos Position, format string, args ...interface{}) {
	p.recordf(pos, format, args...)
	panic(parseError{})
}

func (p *parser) recover() {
	if e := recover(); e != nil {
		if _, ok := e.(parseError); !ok {
			panic(e)
		}
	}
}

// synchronize discards tokens until a likely statement boundary: just
// past a semicolon, or just before a declaration or statement keyword.
func (p *parser) synchronize() {
	p.advance()
	for !p.at(EOF) {
		if p.prev().Token == SEMICOLON {
			return
		}
		switch p.peek().Token {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

// program = declaration* EOF
func (p *parser) program() []Stmt {
	var stmts []Stmt
	for !p.at(EOF) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// declaration = class | fun IDENT function | var | statement
func (p *parser) declaration() (stmt Stmt) {
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(parseError); !ok {
				panic(e)
			}
			p.synchronize()
			stmt = nil
		}
	}()
	switch {
	case p.match(CLASS):
		return p.classDecl(p.prev().Pos)
	case p.at(FUN) && p.peekNext() == IDENT:
		// "fun" followed by "(" is an anonymous function expression,
		// handled by primary.
		p.advance()
		return p.funcDecl(p.prev().Pos, "function")
	case p.match(VAR):
		return p.varDecl(p.prev().Pos)
	}
	return p.statement()
}

// classDecl = "class" IDENT ("<" IDENT)? "{" method* "}"
func (p *parser) classDecl(classPos Position) Stmt {
	name := p.ident("class name")
	var superclass *Ident
	if p.match(LT) {
		superclass = p.ident("superclass name")
	}
	p.expect(LBRACE, "'{' before class body")
	var methods []*FuncStmt
	for !p.at(RBRACE) && !p.at(EOF) {
		methods = append(methods, p.funcDecl(p.peek().Pos, "method"))
	}
	rbrace := p.expect(RBRACE, "'}' after class body")
	return &ClassStmt{
		Class:      classPos,
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
		Rbrace:     rbrace.Pos,
	}
}

func (p *parser) funcDecl(startPos Position, kind string) *FuncStmt {
	name := p.ident(kind + " name")
	return &FuncStmt{Name: name, Function: p.function(startPos, kind)}
}

// function = "(" params? ")" block
// The FUN keyword (or, for a method, nothing) has already been consumed.
func (p *parser) function(startPos Position, kind string) Function {
	p.expect(LPAREN, "'(' after "+kind+" name")
	var params []*Ident
	if !p.at(RPAREN) {
		for {
			if len(params) >= 255 {
				p.recordf(p.peek().Pos, "%s has more than 255 parameters", kind)
			}
			params = append(params, p.ident("parameter name"))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.expect(RPAREN, "')' after parameters")
	p.expect(LBRACE, "'{' before "+kind+" body")
	body, rbrace := p.block()
	return Function{StartPos: startPos, Params: params, Body: body, Rbrace: rbrace}
}

// varDecl = "var" IDENT ("=" expression)? ";"
func (p *parser) varDecl(varPos Position) Stmt {
	name := p.ident("variable name")
	var init Expr
	if p.match(EQ) {
		init = p.expression()
	}
	semi := p.expect(SEMICOLON, "';' after variable declaration")
	return &VarStmt{Var: varPos, Name: name, Init: init, Semicolon: semi.Pos}
}

func (p *parser) statement() Stmt {
	switch {
	case p.match(FOR):
		return p.forStmt(p.prev().Pos)
	case p.match(IF):
		return p.ifStmt(p.prev().Pos)
	case p.match(PRINT):
		return p.printStmt(p.prev().Pos)
	case p.match(RETURN):
		return p.returnStmt(p.prev().Pos)
	case p.match(WHILE):
		return p.whileStmt(p.prev().Pos)
	case p.match(LBRACE):
		lbrace := p.prev().Pos
		stmts, rbrace := p.block()
		return &BlockStmt{Lbrace: lbrace, Stmts: stmts, Rbrace: rbrace}
	}
	x := p.expression()
	semi := p.expect(SEMICOLON, "';' after expression")
	return &ExprStmt{X: x, Semicolon: semi.Pos}
}

// block parses statements until the closing brace. The opening brace
// has already been consumed.
func (p *parser) block() (stmts []Stmt, rbrace Position) {
	for !p.at(RBRACE) && !p.at(EOF) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.expect(RBRACE, "'}' after block").Pos
}

// forStmt = "for" "(" (varDecl | exprStmt | ";") expression? ";" expression? ")" statement
//
// There is no for-loop in the syntax tree; the parser desugars the
// form into equivalent block and while statements.
func (p *parser) forStmt(forPos Position) Stmt {
	p.expect(LPAREN, "'(' after 'for'")

	var init Stmt
	switch {
	case p.match(SEMICOLON):
		// no initializer
	case p.match(VAR):
		init = p.varDecl(p.prev().Pos)
	default:
		x := p.expression()
		semi := p.expect(SEMICOLON, "';' after loop initializer")
		init = &ExprStmt{X: x, Semicolon: semi.Pos}
	}

	var cond Expr
	if !p.at(SEMICOLON) {
		cond = p.expression()
	}
	p.expect(SEMICOLON, "';' after loop condition")

	var incr Expr
	if !p.at(RPAREN) {
		incr = p.expression()
	}
	rparen := p.expect(RPAREN, "')' after for clauses")

	body := p.statement()

	if incr != nil {
		_, end := body.Span()
		body = &BlockStmt{
			Lbrace: forPos,
			Stmts:  []Stmt{body, &ExprStmt{X: incr, Semicolon: end}},
			Rbrace: end,
		}
	}
	if cond == nil {
		cond = &Literal{Token: TRUE, TokenPos: rparen.Pos, Raw: "true", Value: true}
	}
	var loop Stmt = &WhileStmt{While: forPos, Cond: cond, Body: body}
	if init != nil {
		_, end := loop.Span()
		loop = &BlockStmt{Lbrace: forPos, Stmts: []Stmt{init, loop}, Rbrace: end}
	}
	return loop
}

func (p *parser) ifStmt(ifPos Position) Stmt {
	p.expect(LPAREN, "'(' after 'if'")
	cond := p.expression()
	p.expect(RPAREN, "')' after condition")
	then := p.statement()
	var els Stmt
	if p.match(ELSE) {
		els = p.statement()
	}
	return &IfStmt{If: ifPos, Cond: cond, True: then, False: els}
}

func (p *parser) printStmt(printPos Position) Stmt {
	x := p.expression()
	semi := p.expect(SEMICOLON, "';' after value")
	return &PrintStmt{Print: printPos, X: x, Semicolon: semi.Pos}
}

func (p *parser) returnStmt(returnPos Position) Stmt {
	var result Expr
	if !p.at(SEMICOLON) {
		result = p.expression()
	}
	semi := p.expect(SEMICOLON, "';' after return value")
	return &ReturnStmt{Return: returnPos, Result: result, Semicolon: semi.Pos}
}

func (p *parser) whileStmt(whilePos Position) Stmt {
	p.expect(LPAREN, "'(' after 'while'")
	cond := p.expression()
	p.expect(RPAREN, "')' after condition")
	return &WhileStmt{While: whilePos, Cond: cond, Body: p.statement()}
}

func (p *parser) ident(context string) *Ident {
	tv := p.expect(IDENT, context)
	return &Ident{NamePos: tv.Pos, Name: tv.Raw}
}

// Expressions, from lowest to highest precedence.

// expression = assignment
func (p *parser) expression() Expr { return p.assignment() }

// assignment = (call ".")? IDENT "=" assignment | logicalOr
func (p *parser) assignment() Expr {
	x := p.logicalOr()
	if p.match(EQ) {
		opPos := p.prev().Pos
		value := p.assignment()
		switch x := x.(type) {
		case *Ident:
			return &AssignExpr{Name: x, OpPos: opPos, Value: value}
		case *DotExpr:
			return &SetExpr{X: x.X, Dot: x.Dot, Name: x.Name, Value: value}
		}
		// Not fatal: the expression to the left is already parsed,
		// so there is nothing to resynchronize.
		p.recordf(opPos, "invalid assignment target")
	}
	return x
}

func (p *parser) logicalOr() Expr {
	x := p.logicalAnd()
	for p.match(OR) {
		opPos := p.prev().Pos
		x = &LogicalExpr{X: x, OpPos: opPos, Op: OR, Y: p.logicalAnd()}
	}
	return x
}

func (p *parser) logicalAnd() Expr {
	x := p.equality()
	for p.match(AND) {
		opPos := p.prev().Pos
		x = &LogicalExpr{X: x, OpPos: opPos, Op: AND, Y: p.equality()}
	}
	return x
}

func (p *parser) equality() Expr {
	return p.binary((*parser).comparison, EQL, NEQ)
}

func (p *parser) comparison() Expr {
	return p.binary((*parser).term, GT, GE, LT, LE)
}

func (p *parser) term() Expr {
	return p.binary((*parser).factor, PLUS, MINUS)
}

func (p *parser) factor() Expr {
	return p.binary((*parser).unary, STAR, SLASH)
}

// binary parses a left-associative series of binary operators of equal
// precedence, whose operands are parsed by next.
func (p *parser) binary(next func(*parser) Expr, ops ...Token) Expr {
	x := next(p)
	for {
		tok := p.peek().Token
		matched := false
		for _, op := range ops {
			if tok == op {
				matched = true
				break
			}
		}
		if !matched {
			return x
		}
		opPos := p.advance().Pos
		x = &BinaryExpr{X: x, OpPos: opPos, Op: tok, Y: next(p)}
	}
}

// unary = ("!" | "-") unary | call
func (p *parser) unary() Expr {
	if p.match(NOT) || p.match(MINUS) {
		op := p.prev()
		return &UnaryExpr{OpPos: op.Pos, Op: op.Token, X: p.unary()}
	}
	return p.call()
}

// call = primary ("(" arguments? ")" | "." IDENT)*
func (p *parser) call() Expr {
	x := p.primary()
	for {
		switch {
		case p.match(LPAREN):
			x = p.finishCall(x, p.prev().Pos)
		case p.match(DOT):
			dot := p.prev().Pos
			x = &DotExpr{X: x, Dot: dot, Name: p.ident("property name after '.'")}
		default:
			return x
		}
	}
}

func (p *parser) finishCall(fn Expr, lparen Position) Expr {
	var args []Expr
	if !p.at(RPAREN) {
		for {
			if len(args) >= 255 {
				p.recordf(p.peek().Pos, "call has more than 255 arguments")
			}
			args = append(args, p.expression())
			if !p.match(COMMA) {
				break
			}
		}
	}
	rparen := p.expect(RPAREN, "')' after arguments")
	return &CallExpr{Fn: fn, Lparen: lparen, Args: args, Rparen: rparen.Pos}
}

func (p *parser) primary() Expr {
	tv := p.advance()
	switch tv.Token {
	case FALSE:
		return &Literal{Token: FALSE, TokenPos: tv.Pos, Raw: tv.Raw, Value: false}
	case TRUE:
		return &Literal{Token: TRUE, TokenPos: tv.Pos, Raw: tv.Raw, Value: true}
	case NIL:
		return &Literal{Token: NIL, TokenPos: tv.Pos, Raw: tv.Raw, Value: nil}
	case NUMBER, STRING:
		return &Literal{Token: tv.Token, TokenPos: tv.Pos, Raw: tv.Raw, Value: tv.Value}
	case IDENT:
		return &Ident{NamePos: tv.Pos, Name: tv.Raw}
	case THIS:
		return &ThisExpr{This: tv.Pos}
	case SUPER:
		dot := p.expect(DOT, "'.' after 'super'")
		return &SuperExpr{Super: tv.Pos, Dot: dot.Pos, Name: p.ident("superclass method name")}
	case LPAREN:
		x := p.expression()
		rparen := p.expect(RPAREN, "')' after expression")
		return &ParenExpr{Lparen: tv.Pos, X: x, Rparen: rparen.Pos}
	case FUN:
		return &FuncExpr{Function: p.function(tv.Pos, "function")}
	}
	p.panicf(tv.Pos, "got %#v, want expression", tv.Token)
	panic("unreachable")
}
