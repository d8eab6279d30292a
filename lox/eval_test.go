// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lox-lang/golox/internal/chunkedfile"
	"github.com/lox-lang/golox/lox"
	"github.com/lox-lang/golox/resolve"
	"github.com/lox-lang/golox/syntax"
)

func TestEvalExpr(t *testing.T) {
	globals := lox.NewGlobals()
	thread := &lox.Thread{Name: "test"}
	for _, test := range []struct{ src, want string }{
		{`1 + 2`, `3`},
		{`2 + 3 * 4`, `14`},
		{`2 * (3 + 4)`, `14`},
		{`(2 + 3) * 4`, `20`},
		{`10 / 4`, `2.5`},
		{`1 / 0`, `+Inf`},
		{`-1 / 0`, `-Inf`},
		{`0.1 + 0.2`, `0.30000000000000004`},
		{`-(3)`, `-3`},
		{`"foo" + "bar"`, `"foobar"`},
		{`1 < 2`, `true`},
		{`2 <= 2`, `true`},
		{`3 > 4`, `false`},
		{`1 == 1`, `true`},
		{`1 == "1"`, `false`}, // no coercion
		{`nil == nil`, `true`},
		{`nil == false`, `false`},
		{`"a" != "b"`, `true`},
		{`!nil`, `true`},
		{`!0`, `false`},  // zero is truthy
		{`!""`, `false`}, // so is the empty string
		{`!!true`, `true`},
		{`false or "x"`, `"x"`}, // or yields an operand, not a bool
		{`nil and 1`, `nil`},
		{`1 and 2`, `2`},
		{`nil or false`, `false`},
		{`true`, `true`},
		{`nil`, `nil`},
	} {
		v, err := lox.Eval(thread, "expr.lox", test.src, globals)
		if err != nil {
			t.Errorf("eval %s failed: %v", test.src, err)
			continue
		}
		if got := v.String(); got != test.want {
			t.Errorf("eval %s = %s, want %s", test.src, got, test.want)
		}
	}
}

// run executes a program and returns the lines it printed.
func run(t *testing.T, src string) []string {
	t.Helper()
	var got []string
	thread := &lox.Thread{
		Name:  "test",
		Print: func(_ *lox.Thread, msg string) { got = append(got, msg) },
	}
	if err := lox.ExecFile(thread, "test.lox", src, nil); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	return got
}

func TestExecFile(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
		want []string
	}{
		{"hello", `print "hello, world";`, []string{"hello, world"}},
		{"print_values", `
print nil;
print true;
print 1.5;
fun f() {}
print f;
class K {}
print K;
print K();
print clock;
`, []string{"nil", "true", "1.5", "<fn f>", "K", "K instance", "<native fn clock>"}},
		{"shadowing", `
var a = "global";
{
  var a = "block";
  print a;
}
print a;
`, []string{"block", "global"}},
		{"assign_outer", `
var a = 1;
{
  a = 2;
}
print a;
`, []string{"2"}},
		{"for_loop", `
var sum = 0;
for (var i = 1; i <= 4; i = i + 1) sum = sum + i;
print sum;
`, []string{"10"}},
		{"while_loop", `
var n = 5;
var fact = 1;
while (n > 1) {
  fact = fact * n;
  n = n - 1;
}
print fact;
`, []string{"120"}},
		{"recursion", `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`, []string{"55"}},
		{"counters_independent", `
fun makeCounter() {
  var n = 0;
  fun inc() {
    n = n + 1;
    return n;
  }
  return inc;
}
var a = makeCounter();
var b = makeCounter();
print a();
print a();
print b();
`, []string{"1", "2", "1"}},
		{"closure_captures_definition_site", `
var x = "global";
{
  fun show() {
    print x;
  }
  var x = "block";
  show();
}
`, []string{"global"}},
		{"anonymous_function", `
var double = fun (x) { return x * 2; };
print double(5);
`, []string{"10"}},
		{"fields_and_this", `
class Point {
  init(x, y) {
    this.x = x;
    this.y = y;
  }
  sum() {
    return this.x + this.y;
  }
}
var p = Point(3, 4);
print p.sum();
print p.x;
p.x = 10;
print p.sum();
`, []string{"7", "3", "14"}},
		{"inherited_method", `
class Base {
  greet() {
    print "hi";
  }
}
class Derived < Base {}
Derived().greet();
`, []string{"hi"}},
		{"super_skips_override", `
class A {
  method() {
    print "A.method";
  }
}
class B < A {
  method() {
    print "B.method";
  }
  test() {
    super.method();
  }
}
B().test();
B().method();
`, []string{"A.method", "B.method"}},
		{"bound_method_keeps_receiver", `
class Cake {
  flavor() {
    print this.kind;
  }
}
var cake = Cake();
cake.kind = "chocolate";
var f = cake.flavor;
f();
`, []string{"chocolate"}},
		{"initializer_returns_instance", `
class C {
  init() {
    this.v = 1;
    return;
  }
}
var c = C();
print c.v;
print c.init() == c;
print C() == c;
`, []string{"1", "true", "false"}},
		{"truthiness", `
if (0) print "zero truthy";
if ("") print "empty truthy";
if (nil) print "nil truthy"; else print "nil falsy";
`, []string{"zero truthy", "empty truthy", "nil falsy"}},
		{"short_circuit", `
fun boom() {
  print "boom";
  return true;
}
var r = false and boom();
print r;
r = true or boom();
print r;
`, []string{"false", "true"}},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := run(t, test.src)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Running the same program again with fresh globals yields identical
// output; neither resolution nor execution mutates the syntax tree.
func TestExecIdempotent(t *testing.T) {
	const src = `
var total = 0;
fun add(n) {
  total = total + n;
  return total;
}
for (var i = 1; i <= 3; i = i + 1) print add(i);
`
	first := run(t, src)
	second := run(t, src)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("outputs differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "3", "6"}, first); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRuntimeErrors(t *testing.T) {
	filename := filepath.Join("testdata", "errors.lox")
	for _, chunk := range chunkedfile.Read(filename, t) {
		thread := &lox.Thread{Print: func(*lox.Thread, string) {}}
		err := lox.ExecFile(thread, filename, chunk.Source, nil)
		switch err := err.(type) {
		case nil:
			// ok
		case *lox.EvalError:
			chunk.GotError(int(err.Pos.Line), err.Msg)
		default:
			t.Errorf("unexpected error type %T: %v", err, err)
		}
		chunk.Done()
	}
}

// Diagnostics from scanning, parsing, and resolution are batched, and
// a program with any of them is not executed at all.
func TestDiagnosticsSuppressExecution(t *testing.T) {
	ran := false
	thread := &lox.Thread{Print: func(*lox.Thread, string) { ran = true }}

	err := lox.ExecFile(thread, "bad.lox", "print 1;\nvar;\n", nil)
	if _, ok := err.(syntax.ErrorList); !ok {
		t.Errorf("parse diagnostics: got %T, want syntax.ErrorList", err)
	}
	if ran {
		t.Error("program with parse errors was executed")
	}

	err = lox.ExecFile(thread, "bad.lox", "print 1;\nreturn 2;\n", nil)
	if _, ok := err.(resolve.ErrorList); !ok {
		t.Errorf("resolve diagnostics: got %T, want resolve.ErrorList", err)
	}
	if ran {
		t.Error("program with resolve errors was executed")
	}
}

// A runtime error stops execution immediately; output printed before
// the failure has already happened.
func TestRuntimeErrorStopsExecution(t *testing.T) {
	var got []string
	thread := &lox.Thread{Print: func(_ *lox.Thread, msg string) { got = append(got, msg) }}
	err := lox.ExecFile(thread, "stop.lox", "print \"one\";\nprint missing;\nprint \"two\";\n", nil)
	evalErr, ok := err.(*lox.EvalError)
	if !ok {
		t.Fatalf("got %T, want *EvalError", err)
	}
	if want := "stop.lox:2:7: undefined variable missing"; evalErr.Error() != want {
		t.Errorf("got error %q, want %q", evalErr.Error(), want)
	}
	if diff := cmp.Diff([]string{"one"}, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

// Globals persist across programs and expressions on the same
// environment, as in the REPL.
func TestPersistentGlobals(t *testing.T) {
	globals := lox.NewGlobals()
	thread := &lox.Thread{}

	if err := lox.ExecFile(thread, "a.lox", "var x = 1;\nfun get() { return x; }\n", globals); err != nil {
		t.Fatal(err)
	}
	v, err := lox.Eval(thread, "b.lox", "get() + x", globals)
	if err != nil {
		t.Fatal(err)
	}
	if v != lox.Number(2) {
		t.Errorf("got %s, want 2", v)
	}

	// A function defined earlier sees later global updates.
	if err := lox.ExecFile(thread, "c.lox", "x = 41;\n", globals); err != nil {
		t.Fatal(err)
	}
	v, err = lox.Eval(thread, "d.lox", "get() + 1", globals)
	if err != nil {
		t.Fatal(err)
	}
	if v != lox.Number(42) {
		t.Errorf("got %s, want 42", v)
	}
}

func TestCall(t *testing.T) {
	globals := lox.NewGlobals()
	thread := &lox.Thread{}
	if err := lox.ExecFile(thread, "f.lox", "fun add(x, y) { return x + y; }", globals); err != nil {
		t.Fatal(err)
	}
	add, ok := globals.Get("add")
	if !ok {
		t.Fatal("add not defined")
	}
	v, err := lox.Call(thread, add, []lox.Value{lox.Number(1), lox.Number(2)})
	if err != nil {
		t.Fatal(err)
	}
	if v != lox.Number(3) {
		t.Errorf("add(1, 2) = %s, want 3", v)
	}

	if _, err := lox.Call(thread, add, []lox.Value{lox.Number(1)}); err == nil {
		t.Error("call with too few arguments succeeded unexpectedly")
	}
	if _, err := lox.Call(thread, lox.String("s"), nil); err == nil {
		t.Error("call of a string succeeded unexpectedly")
	}
}
