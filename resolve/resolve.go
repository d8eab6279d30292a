// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve statically resolves the variable references of a Lox
// syntax tree before execution.
//
// The resolver mirrors the block and function structure of the program
// with a stack of lexical scopes, without executing anything. For each
// variable reference bound to a local declaration it records a binding
// depth: the number of environment links the interpreter must traverse
// outward to reach the declaring scope. References it cannot resolve
// are global; the interpreter looks those up by name in the global
// environment at run time.
//
// The depths recorded here must agree exactly with the environment
// chain the interpreter builds: a new environment per block, one
// environment for a function call holding its parameters and body
// locals, a "this" environment wrapped around each bound method, and a
// "super" environment around the methods of a subclass. Any mismatch
// is a bug in this package or the interpreter, not a user error.
//
// The resolver also reports contextual errors: reading a variable in
// its own initializer, redeclaring a name in the same scope, return
// outside a function, returning a value from an initializer, this or
// super used where they have no meaning, and a class inheriting from
// itself. All errors are batched in an ErrorList; callers must not
// execute a program whose resolution failed.
package resolve

import (
	"fmt"

	"github.com/lox-lang/golox/syntax"
)

// Bindings is the resolver's output: for each resolved variable
// reference, the number of enclosing environments to traverse to find
// its declaration. The table is keyed by node identity, since two
// syntactically identical references at different sites resolve
// independently. References absent from the table are global.
//
// Keys are *syntax.Ident, *syntax.AssignExpr, *syntax.ThisExpr, and
// *syntax.SuperExpr nodes.
type Bindings map[syntax.Expr]int

// An Error describes the position and cause of a resolution error.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// An ErrorList is a non-empty list of resolution errors.
type ErrorList []Error

func (list ErrorList) Error() string {
	switch len(list) {
	case 0:
		return "no errors"
	case 1:
		return list[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", list[0], len(list)-1)
}

// File resolves the statements of a parsed program.
// A non-nil error is an ErrorList.
func File(f *syntax.File) (Bindings, error) {
	r := newResolver()
	r.stmts(f.Stmts)
	return r.done()
}

// Expr resolves a single expression, as in the REPL.
// A non-nil error is an ErrorList.
func Expr(x syntax.Expr) (Bindings, error) {
	r := newResolver()
	r.expr(x)
	return r.done()
}

type funcKind int8

const (
	noFunc funcKind = iota
	inFunction
	inInitializer
	inMethod
)

type classKind int8

const (
	noClass classKind = iota
	inClass
	inSubclass
)

type resolver struct {
	// scopes is the stack of local lexical scopes, innermost last.
	// Each scope maps a declared name to whether its initializer has
	// completed. The program top level is not a scope: names that
	// resolve to no scope are globals.
	scopes   []map[string]bool
	binds    Bindings
	function funcKind
	class    classKind
	errs     ErrorList
}

func newResolver() *resolver {
	return &resolver{binds: make(Bindings)}
}

func (r *resolver) done() (Bindings, error) {
	if len(r.errs) > 0 {
		return nil, r.errs
	}
	return r.binds, nil
}

func (r *resolver) errorf(pos syntax.Position, format string, args ...interface{}) {
	r.errs = append(r.errs, Error{pos, fmt.Sprintf(format, args...)})
}

func (r *resolver) push() { r.scopes = append(r.scopes, make(map[string]bool)) }
func (r *resolver) pop()  { r.scopes = r.scopes[:len(r.scopes)-1] }

// declare records name in the innermost scope, marked as not yet
// defined so that its own initializer cannot read it.
func (r *resolver) declare(id *syntax.Ident) {
	if len(r.scopes) == 0 {
		return // global; redeclaration is permitted there
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[id.Name]; ok {
		r.errorf(id.NamePos, "%s redeclared in this block", id.Name)
	}
	scope[id.Name] = false
}

// define marks a declared name as initialized and usable.
func (r *resolver) define(id *syntax.Ident) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][id.Name] = true
}

// use resolves a reference to name at the expression node e, recording
// the binding depth if a declaring scope is found.
func (r *resolver) use(e syntax.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.binds[e] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found: treat as global, resolved dynamically.
}

func (r *resolver) stmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		r.stmt(stmt)
	}
}

func (r *resolver) stmt(stmt syntax.Stmt) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		r.expr(stmt.X)

	case *syntax.PrintStmt:
		r.expr(stmt.X)

	case *syntax.VarStmt:
		r.declare(stmt.Name)
		if stmt.Init != nil {
			r.expr(stmt.Init)
		}
		r.define(stmt.Name)

	case *syntax.BlockStmt:
		r.push()
		r.stmts(stmt.Stmts)
		r.pop()

	case *syntax.IfStmt:
		r.expr(stmt.Cond)
		r.stmt(stmt.True)
		if stmt.False != nil {
			r.stmt(stmt.False)
		}

	case *syntax.WhileStmt:
		r.expr(stmt.Cond)
		r.stmt(stmt.Body)

	case *syntax.FuncStmt:
		// The name is defined before the body is resolved, so a
		// function may recur.
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.resolveFunction(&stmt.Function, inFunction)

	case *syntax.ReturnStmt:
		if r.function == noFunc {
			r.errorf(stmt.Return, "return outside function")
		}
		if stmt.Result != nil {
			if r.function == inInitializer {
				r.errorf(stmt.Return, "cannot return a value from an initializer")
			}
			r.expr(stmt.Result)
		}

	case *syntax.ClassStmt:
		r.classStmt(stmt)

	default:
		panic(fmt.Sprintf("resolve: unexpected statement %T", stmt))
	}
}

func (r *resolver) classStmt(stmt *syntax.ClassStmt) {
	r.declare(stmt.Name)
	r.define(stmt.Name)

	class := r.class
	defer func() { r.class = class }()
	r.class = inClass

	if stmt.Superclass != nil {
		if stmt.Superclass.Name == stmt.Name.Name {
			r.errorf(stmt.Superclass.NamePos, "class %s cannot inherit from itself", stmt.Name.Name)
		}
		r.class = inSubclass
		r.expr(stmt.Superclass)

		// Methods of a subclass close over a scope holding "super".
		r.push()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	// Bound methods close over a scope holding "this".
	r.push()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range stmt.Methods {
		kind := inMethod
		if method.Name.Name == "init" {
			kind = inInitializer
		}
		r.resolveFunction(&method.Function, kind)
	}

	r.pop()
	if stmt.Superclass != nil {
		r.pop()
	}
}

// resolveFunction resolves a function literal's parameters and body in a
// new scope.
func (r *resolver) resolveFunction(fn *syntax.Function, kind funcKind) {
	outer := r.function
	r.function = kind
	r.push()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.stmts(fn.Body)
	r.pop()
	r.function = outer
}

func (r *resolver) expr(e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.Literal:
		// nothing to do

	case *syntax.Ident:
		if n := len(r.scopes); n > 0 {
			if defined, ok := r.scopes[n-1][e.Name]; ok && !defined {
				r.errorf(e.NamePos, "cannot read local variable %s in its own initializer", e.Name)
			}
		}
		r.use(e, e.Name)

	case *syntax.AssignExpr:
		r.expr(e.Value)
		r.use(e, e.Name.Name)

	case *syntax.BinaryExpr:
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.LogicalExpr:
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.UnaryExpr:
		r.expr(e.X)

	case *syntax.CallExpr:
		r.expr(e.Fn)
		for _, arg := range e.Args {
			r.expr(arg)
		}

	case *syntax.ParenExpr:
		r.expr(e.X)

	case *syntax.DotExpr:
		// Property names are looked up dynamically, not resolved.
		r.expr(e.X)

	case *syntax.SetExpr:
		r.expr(e.Value)
		r.expr(e.X)

	case *syntax.ThisExpr:
		if r.class == noClass {
			r.errorf(e.This, "cannot use 'this' outside of a class")
			return
		}
		r.use(e, "this")

	case *syntax.SuperExpr:
		switch r.class {
		case noClass:
			r.errorf(e.Super, "cannot use 'super' outside of a class")
			return
		case inClass:
			r.errorf(e.Super, "cannot use 'super' in a class with no superclass")
			return
		}
		r.use(e, "super")

	case *syntax.FuncExpr:
		r.resolveFunction(&e.Function, inFunction)

	default:
		panic(fmt.Sprintf("resolve: unexpected expression %T", e))
	}
}
