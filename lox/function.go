// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"github.com/lox-lang/golox/resolve"
	"github.com/lox-lang/golox/syntax"
)

// A Function is a user-defined Lox function or method.
//
// A Function closes over the environment in force at its definition
// site. Each call executes the body in a fresh environment whose
// parent is that captured environment, never the caller's, which is
// what makes closures independent of the call site.
type Function struct {
	name    string // empty for anonymous functions
	decl    *syntax.Function
	closure *Environment     // environment at definition site
	globals *Environment     // globals of the defining program
	binds   resolve.Bindings // binding depths of the defining program
	isInit  bool             // the class initializer rule applies
}

func (fn *Function) Name() string {
	if fn.name == "" {
		return "anonymous function"
	}
	return fn.name
}

func (fn *Function) Arity() int { return len(fn.decl.Params) }

func (fn *Function) String() string {
	if fn.name == "" {
		return "<fn>"
	}
	return "<fn " + fn.name + ">"
}

func (fn *Function) Type() string { return "function" }
func (fn *Function) Truth() Bool  { return True }

func (fn *Function) CallInternal(thread *Thread, args []Value) (Value, error) {
	in := &interp{thread: thread, globals: fn.globals, binds: fn.binds}
	env := NewEnvironment(fn.closure)
	for i, param := range fn.decl.Params {
		env.Define(param.Name, args[i])
	}
	sig, err := in.execStmts(env, fn.decl.Body)
	if err != nil {
		return nil, err
	}
	if fn.isInit {
		// An initializer always produces the new instance, whatever
		// its body does; a bare return exits early with it.
		return fn.closure.GetAt(0, "this"), nil
	}
	if sig.returned {
		return sig.value, nil
	}
	return Nil, nil
}

// bind returns a copy of the method with this bound to the instance,
// by wrapping an environment holding "this" around the method's
// closure.
func (fn *Function) bind(inst *Instance) *Function {
	env := NewEnvironment(fn.closure)
	env.Define("this", inst)
	bound := *fn
	bound.closure = env
	return &bound
}
