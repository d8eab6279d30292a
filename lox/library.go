// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

// This file defines the library of built-ins of the Lox language.

import (
	"sort"
	"time"
)

// A StringDict is a set of name/value bindings, such as the set of
// predeclared built-ins.
type StringDict map[string]Value

// Keys returns a new sorted slice of d's keys.
func (d StringDict) Keys() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Universe defines the set of universal built-ins, such as clock.
//
// The Go application may add or remove entries before the first call
// to NewGlobals.
var Universe = StringDict{
	"clock": NewBuiltin("clock", 0, clock),
}

// NewGlobals returns a new global environment populated with the
// Universe built-ins, suitable for passing to ExecFile or Eval.
// Built-ins occupy ordinary global bindings, so a program may shadow
// or reassign them.
func NewGlobals() *Environment {
	env := NewEnvironment(nil)
	for name, v := range Universe {
		env.Define(name, v)
	}
	return env
}

func clock(thread *Thread, args []Value) (Value, error) {
	return Number(float64(time.Now().UnixNano()) / 1e9), nil
}
