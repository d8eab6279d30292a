// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lox provides a tree-walking interpreter for the Lox
// language.
//
// The execution pipeline is Scan → Parse → Resolve → interpret.
// The first three phases batch their diagnostics: ExecFile returns a
// syntax.ErrorList or resolve.ErrorList and performs no execution if
// any were recorded. Run-time errors are not batched: the first
// *EvalError aborts the remainder of the run.
package lox

import (
	"fmt"

	"github.com/lox-lang/golox/resolve"
	"github.com/lox-lang/golox/syntax"
)

// A Thread holds the state of a Lox execution thread: its name and the
// client's print hook. Execution is single-threaded and synchronous; a
// Thread exists so that clients such as tests and the REPL can capture
// output.
type Thread struct {
	// Name is an optional name that distinguishes the thread, for
	// error messages and debugging.
	Name string

	// Print is the client-supplied implementation of the Lox print
	// statement. If nil, fmt.Println(msg) is used instead.
	Print func(thread *Thread, msg string)
}

func (thread *Thread) print(msg string) {
	if thread.Print != nil {
		thread.Print(thread, msg)
	} else {
		fmt.Println(msg)
	}
}

// An EvalError is a Lox run-time error and its source position.
type EvalError struct {
	Pos syntax.Position
	Msg string
}

func (e *EvalError) Error() string { return e.Pos.String() + ": " + e.Msg }

func evalErrorf(pos syntax.Position, format string, args ...interface{}) *EvalError {
	return &EvalError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// wrapError attaches a position to err unless it already has one.
func wrapError(pos syntax.Position, err error) error {
	switch err := err.(type) {
	case nil, *EvalError:
		return err
	}
	return evalErrorf(pos, "%v", err)
}

// ExecFile parses, resolves, and executes a Lox program in the
// specified global environment, which may be modified during
// execution. If globals is nil, a fresh environment from NewGlobals is
// used.
//
// The filename and src parameters are as for syntax.Parse.
//
// If scanning, parsing, or resolution failed, ExecFile returns the
// batched diagnostics (a syntax.ErrorList or resolve.ErrorList) and
// executes nothing. If execution aborted, it returns the *EvalError.
func ExecFile(thread *Thread, filename string, src interface{}, globals *Environment) error {
	f, err := syntax.Parse(filename, src)
	if err != nil {
		return err
	}
	binds, err := resolve.File(f)
	if err != nil {
		return err
	}
	if globals == nil {
		globals = NewGlobals()
	}
	in := &interp{thread: thread, globals: globals, binds: binds}
	_, err = in.execStmts(globals, f.Stmts)
	return err
}

// Eval parses, resolves, and evaluates a single expression within the
// specified global environment.
func Eval(thread *Thread, filename string, src interface{}, globals *Environment) (Value, error) {
	x, err := syntax.ParseExpr(filename, src)
	if err != nil {
		return nil, err
	}
	binds, err := resolve.Expr(x)
	if err != nil {
		return nil, err
	}
	if globals == nil {
		globals = NewGlobals()
	}
	in := &interp{thread: thread, globals: globals, binds: binds}
	return in.eval(globals, x)
}

// Call calls the function or class fn with the specified arguments.
func Call(thread *Thread, fn Value, args []Value) (Value, error) {
	c, ok := fn.(Callable)
	if !ok {
		return nil, fmt.Errorf("invalid call of non-function (%s)", fn.Type())
	}
	if len(args) != c.Arity() {
		return nil, fmt.Errorf("%s takes %d arguments (got %d)", c.Name(), c.Arity(), len(args))
	}
	res, err := c.CallInternal(thread, args)
	// Sanity check: Go nil is not a valid Lox value.
	if err == nil && res == nil {
		return nil, fmt.Errorf("internal error: nil (not Lox nil) returned from %s", c.Name())
	}
	return res, err
}

// An interp holds the per-program state of the evaluator. The current
// environment is threaded through exec and eval as a parameter; it
// changes as blocks, functions, and methods are entered and exited.
type interp struct {
	thread  *Thread
	globals *Environment
	binds   resolve.Bindings
}

// A signal describes how a statement completed: normally, or by a
// return statement carrying a value to the nearest enclosing call.
// It is the interpreter's only non-local control transfer.
type signal struct {
	returned bool
	value    Value
}

func (in *interp) execStmts(env *Environment, stmts []syntax.Stmt) (signal, error) {
	for _, stmt := range stmts {
		sig, err := in.execStmt(env, stmt)
		if err != nil || sig.returned {
			return sig, err
		}
	}
	return signal{}, nil
}

func (in *interp) execStmt(env *Environment, stmt syntax.Stmt) (signal, error) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		_, err := in.eval(env, stmt.X)
		return signal{}, err

	case *syntax.PrintStmt:
		v, err := in.eval(env, stmt.X)
		if err != nil {
			return signal{}, err
		}
		in.thread.print(AsString(v))
		return signal{}, nil

	case *syntax.VarStmt:
		var v Value = Nil
		if stmt.Init != nil {
			var err error
			v, err = in.eval(env, stmt.Init)
			if err != nil {
				return signal{}, err
			}
		}
		env.Define(stmt.Name.Name, v)
		return signal{}, nil

	case *syntax.BlockStmt:
		return in.execStmts(NewEnvironment(env), stmt.Stmts)

	case *syntax.IfStmt:
		cond, err := in.eval(env, stmt.Cond)
		if err != nil {
			return signal{}, err
		}
		if cond.Truth() {
			return in.execStmt(env, stmt.True)
		} else if stmt.False != nil {
			return in.execStmt(env, stmt.False)
		}
		return signal{}, nil

	case *syntax.WhileStmt:
		for {
			cond, err := in.eval(env, stmt.Cond)
			if err != nil {
				return signal{}, err
			}
			if !cond.Truth() {
				return signal{}, nil
			}
			sig, err := in.execStmt(env, stmt.Body)
			if err != nil || sig.returned {
				return sig, err
			}
		}

	case *syntax.FuncStmt:
		env.Define(stmt.Name.Name, in.makeFunction(stmt.Name.Name, &stmt.Function, env, false))
		return signal{}, nil

	case *syntax.ReturnStmt:
		var v Value = Nil
		if stmt.Result != nil {
			var err error
			v, err = in.eval(env, stmt.Result)
			if err != nil {
				return signal{}, err
			}
		}
		return signal{returned: true, value: v}, nil

	case *syntax.ClassStmt:
		return signal{}, in.execClass(env, stmt)
	}

	start, _ := stmt.Span()
	panic(fmt.Sprintf("%s: exec: unexpected statement %T", start, stmt))
}

func (in *interp) execClass(env *Environment, stmt *syntax.ClassStmt) error {
	var superclass *Class
	if stmt.Superclass != nil {
		v, err := in.eval(env, stmt.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return evalErrorf(stmt.Superclass.NamePos, "superclass must be a class, not %s", v.Type())
		}
		superclass = sc
	}

	// The class name is bound before the methods are built so that
	// they may refer to it.
	env.Define(stmt.Name.Name, Nil)

	// Methods of a subclass close over an environment holding
	// "super"; super.m resolves against it, starting one level above
	// the class whose method is executing, not the instance's class.
	menv := env
	if superclass != nil {
		menv = NewEnvironment(env)
		menv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, m := range stmt.Methods {
		methods[m.Name.Name] = in.makeFunction(m.Name.Name, &m.Function, menv, m.Name.Name == "init")
	}

	env.Define(stmt.Name.Name, &Class{name: stmt.Name.Name, superclass: superclass, methods: methods})
	return nil
}

func (in *interp) makeFunction(name string, decl *syntax.Function, env *Environment, isInit bool) *Function {
	return &Function{
		name:    name,
		decl:    decl,
		closure: env,
		globals: in.globals,
		binds:   in.binds,
		isInit:  isInit,
	}
}

// lookup returns the value of the variable reference e, using the
// resolver's binding depth when one was recorded and falling back to
// the global environment otherwise.
func (in *interp) lookup(env *Environment, e syntax.Expr, name string, pos syntax.Position) (Value, error) {
	if depth, ok := in.binds[e]; ok {
		return env.GetAt(depth, name), nil
	}
	if v, ok := in.globals.Get(name); ok {
		return v, nil
	}
	return nil, evalErrorf(pos, "undefined variable %s", name)
}

func (in *interp) eval(env *Environment, e syntax.Expr) (Value, error) {
	switch e := e.(type) {
	case *syntax.Literal:
		switch v := e.Value.(type) {
		case nil:
			return Nil, nil
		case bool:
			return Bool(v), nil
		case float64:
			return Number(v), nil
		case string:
			return String(v), nil
		}

	case *syntax.Ident:
		return in.lookup(env, e, e.Name, e.NamePos)

	case *syntax.AssignExpr:
		v, err := in.eval(env, e.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := in.binds[e]; ok {
			env.SetAt(depth, e.Name.Name, v)
		} else if !in.globals.Set(e.Name.Name, v) {
			return nil, evalErrorf(e.Name.NamePos, "undefined variable %s", e.Name.Name)
		}
		return v, nil

	case *syntax.LogicalExpr:
		x, err := in.eval(env, e.X)
		if err != nil {
			return nil, err
		}
		// The result is an operand value, not a bool.
		if e.Op == syntax.OR {
			if x.Truth() {
				return x, nil
			}
		} else if !x.Truth() {
			return x, nil
		}
		return in.eval(env, e.Y)

	case *syntax.BinaryExpr:
		x, err := in.eval(env, e.X)
		if err != nil {
			return nil, err
		}
		y, err := in.eval(env, e.Y)
		if err != nil {
			return nil, err
		}
		return binary(e.Op, e.OpPos, x, y)

	case *syntax.UnaryExpr:
		x, err := in.eval(env, e.X)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case syntax.MINUS:
			if x, ok := x.(Number); ok {
				return -x, nil
			}
			return nil, evalErrorf(e.OpPos, "invalid operand to unary -: %s", x.Type())
		case syntax.NOT:
			return !x.Truth(), nil
		}

	case *syntax.CallExpr:
		fn, err := in.eval(env, e.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			if args[i], err = in.eval(env, arg); err != nil {
				return nil, err
			}
		}
		res, err := Call(in.thread, fn, args)
		return res, wrapError(e.Lparen, err)

	case *syntax.ParenExpr:
		return in.eval(env, e.X)

	case *syntax.DotExpr:
		x, err := in.eval(env, e.X)
		if err != nil {
			return nil, err
		}
		inst, ok := x.(*Instance)
		if !ok {
			return nil, evalErrorf(e.Dot, "%s value has no properties", x.Type())
		}
		v := inst.Attr(e.Name.Name)
		if v == nil {
			return nil, evalErrorf(e.Name.NamePos, "undefined property %s", e.Name.Name)
		}
		return v, nil

	case *syntax.SetExpr:
		x, err := in.eval(env, e.X)
		if err != nil {
			return nil, err
		}
		inst, ok := x.(*Instance)
		if !ok {
			return nil, evalErrorf(e.Dot, "%s value has no fields", x.Type())
		}
		v, err := in.eval(env, e.Value)
		if err != nil {
			return nil, err
		}
		inst.SetField(e.Name.Name, v)
		return v, nil

	case *syntax.ThisExpr:
		return in.lookup(env, e, "this", e.This)

	case *syntax.SuperExpr:
		// The resolver recorded the depth of the "super" frame for
		// the enclosing subclass; "this" lives one frame nearer.
		depth, ok := in.binds[e]
		if !ok {
			return nil, evalErrorf(e.Super, "internal error: unresolved super")
		}
		superclass := env.GetAt(depth, "super").(*Class)
		inst := env.GetAt(depth-1, "this").(*Instance)
		m := superclass.findMethod(e.Name.Name)
		if m == nil {
			return nil, evalErrorf(e.Name.NamePos, "undefined property %s", e.Name.Name)
		}
		return m.bind(inst), nil

	case *syntax.FuncExpr:
		return in.makeFunction("", &e.Function, env, false), nil
	}

	start, _ := e.Span()
	panic(fmt.Sprintf("%s: eval: unexpected expression %T", start, e))
}

// binary applies a strict binary operator (not and or or) to its
// operands. Arithmetic and comparison require numbers, except +, which
// also concatenates two strings. There is no implicit coercion.
func binary(op syntax.Token, opPos syntax.Position, x, y Value) (Value, error) {
	switch op {
	case syntax.PLUS:
		switch x := x.(type) {
		case Number:
			if y, ok := y.(Number); ok {
				return x + y, nil
			}
		case String:
			if y, ok := y.(String); ok {
				return x + y, nil
			}
		}

	case syntax.MINUS:
		if x, ok := x.(Number); ok {
			if y, ok := y.(Number); ok {
				return x - y, nil
			}
		}

	case syntax.STAR:
		if x, ok := x.(Number); ok {
			if y, ok := y.(Number); ok {
				return x * y, nil
			}
		}

	case syntax.SLASH:
		// Division by zero follows IEEE 754: the result is ±Inf.
		if x, ok := x.(Number); ok {
			if y, ok := y.(Number); ok {
				return x / y, nil
			}
		}

	case syntax.GT:
		if x, ok := x.(Number); ok {
			if y, ok := y.(Number); ok {
				return Bool(x > y), nil
			}
		}

	case syntax.GE:
		if x, ok := x.(Number); ok {
			if y, ok := y.(Number); ok {
				return Bool(x >= y), nil
			}
		}

	case syntax.LT:
		if x, ok := x.(Number); ok {
			if y, ok := y.(Number); ok {
				return Bool(x < y), nil
			}
		}

	case syntax.LE:
		if x, ok := x.(Number); ok {
			if y, ok := y.(Number); ok {
				return Bool(x <= y), nil
			}
		}

	case syntax.EQL:
		return Bool(Equal(x, y)), nil

	case syntax.NEQ:
		return Bool(!Equal(x, y)), nil
	}

	return nil, evalErrorf(opPos, "invalid operands to %s: %s and %s", op, x.Type(), y.Type())
}
