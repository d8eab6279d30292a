// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a Lox scanner, parser, and abstract syntax tree.
package syntax

// A Node is a node in a Lox syntax tree.
//
// Nodes are allocated once by the parser and never copied, so the
// pointer identity of a node is stable. The resolver relies on this:
// its binding-depth table is keyed by node identity, since two
// syntactically identical references at different sites must resolve
// independently.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents a Lox program: a sequence of declarations and
// statements.
type File struct {
	Path  string
	Stmts []Stmt
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is a Lox statement.
type Stmt interface {
	Node
	stmt()
}

func (*BlockStmt) stmt()  {}
func (*ClassStmt) stmt()  {}
func (*ExprStmt) stmt()   {}
func (*FuncStmt) stmt()   {}
func (*IfStmt) stmt()     {}
func (*PrintStmt) stmt()  {}
func (*ReturnStmt) stmt() {}
func (*VarStmt) stmt()    {}
func (*WhileStmt) stmt()  {}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X         Expr
	Semicolon Position
}

func (x *ExprStmt) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Semicolon.add(";")
}

// A PrintStmt prints the value of an expression: print X;
type PrintStmt struct {
	Print     Position
	X         Expr
	Semicolon Position
}

func (x *PrintStmt) Span() (start, end Position) {
	return x.Print, x.Semicolon.add(";")
}

// A VarStmt declares a variable: var Name = Init;
// Init is nil if the declaration has no initializer.
type VarStmt struct {
	Var       Position
	Name      *Ident
	Init      Expr // may be nil
	Semicolon Position
}

func (x *VarStmt) Span() (start, end Position) {
	return x.Var, x.Semicolon.add(";")
}

// A BlockStmt is a brace-delimited list of statements, which forms a
// new lexical scope: { Stmts }
type BlockStmt struct {
	Lbrace Position
	Stmts  []Stmt
	Rbrace Position
}

func (x *BlockStmt) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// An IfStmt is a conditional: if (Cond) True else False.
// False is nil if there is no else clause.
type IfStmt struct {
	If    Position
	Cond  Expr
	True  Stmt
	False Stmt // may be nil
}

func (x *IfStmt) Span() (start, end Position) {
	body := x.False
	if body == nil {
		body = x.True
	}
	_, end = body.Span()
	return x.If, end
}

// A WhileStmt is a loop: while (Cond) Body.
// For-loops do not appear in the tree; the parser desugars them into
// while-loops.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  Stmt
}

func (x *WhileStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.While, end
}

// A Function represents the common parts of FuncStmt, FuncExpr, and
// class methods: a parameter list and a body.
type Function struct {
	StartPos Position // position of FUN token, or of the method name
	Params   []*Ident
	Body     []Stmt
	Rbrace   Position
}

func (x *Function) Span() (start, end Position) {
	return x.StartPos, x.Rbrace.add("}")
}

// A FuncStmt is a named function declaration: fun Name(Params) { Body }
type FuncStmt struct {
	Name *Ident
	Function
}

func (x *FuncStmt) Span() (start, end Position) {
	return x.Function.Span()
}

// A ReturnStmt returns from a function: return Result;
// Result is nil for a bare return.
type ReturnStmt struct {
	Return    Position
	Result    Expr // may be nil
	Semicolon Position
}

func (x *ReturnStmt) Span() (start, end Position) {
	return x.Return, x.Semicolon.add(";")
}

// A ClassStmt declares a class: class Name < Superclass { Methods }
// Superclass is nil if the class has none.
type ClassStmt struct {
	Class      Position
	Name       *Ident
	Superclass *Ident // may be nil
	Methods    []*FuncStmt
	Rbrace     Position
}

func (x *ClassStmt) Span() (start, end Position) {
	return x.Class, x.Rbrace.add("}")
}

// An Expr is a Lox expression.
type Expr interface {
	Node
	expr()
}

func (*AssignExpr) expr()  {}
func (*BinaryExpr) expr()  {}
func (*CallExpr) expr()    {}
func (*DotExpr) expr()     {}
func (*FuncExpr) expr()    {}
func (*Ident) expr()       {}
func (*Literal) expr()     {}
func (*LogicalExpr) expr() {}
func (*ParenExpr) expr()   {}
func (*SetExpr) expr()     {}
func (*SuperExpr) expr()   {}
func (*ThisExpr) expr()    {}
func (*UnaryExpr) expr()   {}

// An Ident represents an identifier: a variable reference, or the name
// in a declaration, parameter list, or property access.
type Ident struct {
	NamePos Position
	Name    string
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a number, string, boolean, or nil literal.
type Literal struct {
	Token    Token // = NUMBER | STRING | TRUE | FALSE | NIL
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = float64 | string | bool | nil
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// An AssignExpr assigns a new value to a variable: Name = Value.
type AssignExpr struct {
	Name  *Ident
	OpPos Position
	Value Expr
}

func (x *AssignExpr) Span() (start, end Position) {
	start, _ = x.Name.Span()
	_, end = x.Value.Span()
	return start, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// A LogicalExpr represents a short-circuiting expression: X and Y, X or Y.
type LogicalExpr struct {
	X     Expr
	OpPos Position
	Op    Token // = AND | OR
	Y     Expr
}

func (x *LogicalExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token // = NOT | MINUS
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A CallExpr represents a call expression: Fn(Args).
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// A DotExpr represents a property read: X.Name.
type DotExpr struct {
	X    Expr
	Dot  Position
	Name *Ident
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Name.Span()
	return start, end
}

// A SetExpr represents a property assignment: X.Name = Value.
type SetExpr struct {
	X     Expr
	Dot   Position
	Name  *Ident
	Value Expr
}

func (x *SetExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Value.Span()
	return start, end
}

// A ThisExpr represents the receiver of the enclosing method: this.
type ThisExpr struct {
	This Position
}

func (x *ThisExpr) Span() (start, end Position) {
	return x.This, x.This.add("this")
}

// A SuperExpr represents a superclass method reference: super.Name.
type SuperExpr struct {
	Super Position
	Dot   Position
	Name  *Ident
}

func (x *SuperExpr) Span() (start, end Position) {
	_, end = x.Name.Span()
	return x.Super, end
}

// A FuncExpr represents an anonymous function: fun (Params) { Body }.
type FuncExpr struct {
	Function
}

func (x *FuncExpr) Span() (start, end Position) {
	return x.Function.Span()
}
