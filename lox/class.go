// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

// A Class is a user-defined Lox class: a name, an optional superclass,
// and a method table. Lox inheritance is data, not Go inheritance:
// method lookup walks the explicit superclass chain.
//
// Calling a class constructs an instance; if the class or an ancestor
// defines an init method, the call runs it on the new instance.
type Class struct {
	name       string
	superclass *Class // may be nil
	methods    map[string]*Function
}

func (c *Class) Name() string   { return c.name }
func (c *Class) String() string { return c.name }
func (c *Class) Type() string   { return "class" }
func (c *Class) Truth() Bool    { return True }

// Arity returns the number of arguments the class's initializer
// expects, or zero if it has none.
func (c *Class) Arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// findMethod returns the named method of the class, consulting
// superclasses in order, or nil.
func (c *Class) findMethod(name string) *Function {
	for ; c != nil; c = c.superclass {
		if m, ok := c.methods[name]; ok {
			return m
		}
	}
	return nil
}

func (c *Class) CallInternal(thread *Thread, args []Value) (Value, error) {
	inst := &Instance{class: c, fields: make(map[string]Value)}
	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(inst).CallInternal(thread, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// An Instance is an instance of a Lox class. Fields are created by
// their first assignment, not predeclared, and are independent of the
// class's methods.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func (inst *Instance) String() string { return inst.class.name + " instance" }
func (inst *Instance) Type() string   { return "instance" }
func (inst *Instance) Truth() Bool    { return True }

// Class returns the class of which this is an instance.
func (inst *Instance) Class() *Class { return inst.class }

// Attr returns the named property of the instance: a field if one has
// been assigned, otherwise the named method freshly bound to the
// instance. It returns nil if the instance has neither.
func (inst *Instance) Attr(name string) Value {
	if v, ok := inst.fields[name]; ok {
		return v
	}
	if m := inst.class.findMethod(name); m != nil {
		return m.bind(inst)
	}
	return nil
}

// SetField creates or replaces the named field.
func (inst *Instance) SetField(name string, v Value) {
	inst.fields[name] = v
}
