// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"sort"
	"strings"
)

// An Environment is a run-time scope frame: a mapping from names to
// values, plus a link to the enclosing frame. A child frame references
// its parent; a parent never references its children. At any point in
// execution the chain length equals the lexical nesting depth.
//
// A closure keeps its defining Environment alive after the block that
// created it has exited; this is the one place a frame's lifetime
// outlives its syntax. The resulting graphs may be cyclic (a method's
// bound receiver can reach the closure again); Go's garbage collector
// reclaims them.
type Environment struct {
	parent *Environment // frame of enclosing scope, or nil
	values map[string]Value
}

// NewEnvironment returns a new empty environment enclosed by parent,
// which may be nil.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]Value)}
}

// Define binds name to value in this frame, creating or replacing the
// binding.
func (env *Environment) Define(name string, v Value) {
	env.values[name] = v
}

// Get returns the value bound to name in this frame or any enclosing
// frame.
func (env *Environment) Get(name string) (Value, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set rebinds an existing binding of name in this frame or the nearest
// enclosing frame that has one. It reports whether a binding was found.
func (env *Environment) Set(name string, v Value) bool {
	for e := env; e != nil; e = e.parent {
		if _, ok := e.values[name]; ok {
			e.values[name] = v
			return true
		}
	}
	return false
}

// GetAt returns the value bound to name exactly depth frames out.
// The binding must exist; the resolver guarantees it.
func (env *Environment) GetAt(depth int, name string) Value {
	v, ok := env.ancestor(depth).values[name]
	if !ok {
		panic("environment: unresolved binding for " + name)
	}
	return v
}

// SetAt rebinds name exactly depth frames out.
func (env *Environment) SetAt(depth int, name string, v Value) {
	env.ancestor(depth).values[name] = v
}

// ancestor walks exactly depth parent links.
func (env *Environment) ancestor(depth int) *Environment {
	e := env
	for i := 0; i < depth; i++ {
		e = e.parent
	}
	return e
}

// Names returns the sorted names bound in this frame alone.
func (env *Environment) Names() []string {
	names := make([]string, 0, len(env.values))
	for name := range env.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (env *Environment) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	sep := ""
	for _, name := range env.Names() {
		buf.WriteString(sep)
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(env.values[name].String())
		sep = ", "
	}
	buf.WriteByte('}')
	return buf.String()
}
