// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

// This file defines the data types of Lox and their basic operations.

import (
	"fmt"
	"strconv"
)

// Value is a value in the Lox interpreter.
type Value interface {
	// String returns the string form of the value.
	// Strings are rendered with quotation marks; use AsString to
	// obtain the unquoted contents, as the print statement does.
	String() string
	// Type returns a short string describing the value's type.
	Type() string
	// Truth returns the truth value: everything is true except nil
	// and false.
	Truth() Bool
}

// A Callable is a value that may be called like a function: a
// user-defined function, a bound method, a native function, or a class
// (whose call constructs an instance).
type Callable interface {
	Value
	Name() string
	Arity() int
	CallInternal(thread *Thread, args []Value) (Value, error)
}

// NilType is the type of Nil. Its only legal value is Nil.
// (We represent it as a number, not struct{}, so that Nil may be
// constant.)
type NilType byte

const Nil = NilType(0)

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }
func (NilType) Truth() Bool    { return False }

// Bool is the type of a Lox bool.
type Bool bool

const (
	False Bool = false
	True  Bool = true
)

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Type() string { return "bool" }
func (b Bool) Truth() Bool  { return b }

// Number is the type of a Lox number: an IEEE 754 double-precision
// float. There is no separate integer type.
type Number float64

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}
func (n Number) Type() string { return "number" }
func (n Number) Truth() Bool  { return True }

// String is the type of a Lox string.
type String string

func (s String) String() string { return strconv.Quote(string(s)) }
func (s String) Type() string   { return "string" }
func (s String) Truth() Bool    { return True }

// AsString returns the text a value displays as: the unquoted contents
// of a string, or the String form of any other value.
func AsString(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.String()
}

// Equal reports whether two Lox values are equal.
//
// Nil equals only nil; values of different types are never equal;
// booleans, numbers, and strings compare by value; functions, classes,
// and instances compare by identity. There is no coercion.
func Equal(x, y Value) bool {
	switch x := x.(type) {
	case NilType:
		_, ok := y.(NilType)
		return ok
	case Bool:
		y, ok := y.(Bool)
		return ok && x == y
	case Number:
		y, ok := y.(Number)
		return ok && x == y
	case String:
		y, ok := y.(String)
		return ok && x == y
	}
	return x == y
}

// A Builtin is a function implemented in Go, such as clock.
type Builtin struct {
	name  string
	arity int
	fn    func(thread *Thread, args []Value) (Value, error)
}

// NewBuiltin returns a new native function with the given name and
// fixed arity.
func NewBuiltin(name string, arity int, fn func(thread *Thread, args []Value) (Value, error)) *Builtin {
	return &Builtin{name: name, arity: arity, fn: fn}
}

func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) Arity() int     { return b.arity }
func (b *Builtin) String() string { return fmt.Sprintf("<native fn %s>", b.name) }
func (b *Builtin) Type() string   { return "builtin" }
func (b *Builtin) Truth() Bool    { return True }

func (b *Builtin) CallInternal(thread *Thread, args []Value) (Value, error) {
	return b.fn(thread, args)
}
