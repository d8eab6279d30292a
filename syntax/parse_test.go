// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/lox-lang/golox/syntax"
)

func TestExprParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`1`, `1`},
		{`x + 1`,
			`(BinaryExpr X=x Op=+ Y=1)`},
		{`x + y * z`,
			`(BinaryExpr X=x Op=+ Y=(BinaryExpr X=y Op=* Y=z))`},
		{`x * y - z`,
			`(BinaryExpr X=(BinaryExpr X=x Op=* Y=y) Op=- Y=z)`},
		{`a - b - c`, // left-associative
			`(BinaryExpr X=(BinaryExpr X=a Op=- Y=b) Op=- Y=c)`},
		{`(x + y) * z`,
			`(BinaryExpr X=(ParenExpr X=(BinaryExpr X=x Op=+ Y=y)) Op=* Y=z)`},
		{`-1 + -2`,
			`(BinaryExpr X=(UnaryExpr Op=- X=1) Op=+ Y=(UnaryExpr Op=- X=2))`},
		{`!!x`,
			`(UnaryExpr Op=! X=(UnaryExpr Op=! X=x))`},
		{`!true`,
			`(UnaryExpr Op=! X=true)`},
		{`"foo" + "bar"`,
			`(BinaryExpr X="foo" Op=+ Y="bar")`},
		{`a < b == c > d`, // comparison binds tighter than equality
			`(BinaryExpr X=(BinaryExpr X=a Op=< Y=b) Op=== Y=(BinaryExpr X=c Op=> Y=d))`},
		{`a <= b`,
			`(BinaryExpr X=a Op=<= Y=b)`},
		{`a != nil`,
			`(BinaryExpr X=a Op=!= Y=nil)`},
		{`a or b and c`, // and binds tighter than or
			`(LogicalExpr X=a Op=or Y=(LogicalExpr X=b Op=and Y=c))`},
		{`a and b or c`,
			`(LogicalExpr X=(LogicalExpr X=a Op=and Y=b) Op=or Y=c)`},
		{`a = b = c`, // right-associative
			`(AssignExpr Name=a Value=(AssignExpr Name=b Value=c))`},
		{`a = b or c`, // assignment has the lowest precedence
			`(AssignExpr Name=a Value=(LogicalExpr X=b Op=or Y=c))`},
		{`f()`,
			`(CallExpr Fn=f)`},
		{`f(1, x)`,
			`(CallExpr Fn=f Args=(1 x))`},
		{`f(1)(2)`,
			`(CallExpr Fn=(CallExpr Fn=f Args=(1)) Args=(2))`},
		{`a.b.c`,
			`(DotExpr X=(DotExpr X=a Name=b) Name=c)`},
		{`a.b(c).d`,
			`(DotExpr X=(CallExpr Fn=(DotExpr X=a Name=b) Args=(c)) Name=d)`},
		{`a.b = c`,
			`(SetExpr X=a Name=b Value=c)`},
		{`a.b.c = d`,
			`(SetExpr X=(DotExpr X=a Name=b) Name=c Value=d)`},
		{`this.x`,
			`(DotExpr X=(ThisExpr) Name=x)`},
		{`super.m()`,
			`(CallExpr Fn=(SuperExpr Name=m))`},
		{`-x.y`, // unary - binds looser than property access
			`(UnaryExpr Op=- X=(DotExpr X=x Name=y))`},
		{`fun (x) { return x; }`,
			`(FuncExpr Function=(Function Params=(x) Body=((ReturnStmt Result=x))))`},
	} {
		x, err := syntax.ParseExpr("foo.lox", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, err)
			continue
		}
		if got := treeString(x); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestStmtParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`print 1;`,
			`(PrintStmt X=1)`},
		{`x = 1;`,
			`(ExprStmt X=(AssignExpr Name=x Value=1))`},
		{`var x = 1;`,
			`(VarStmt Name=x Init=1)`},
		{`var x;`,
			`(VarStmt Name=x)`},
		{`{ var x = 1; print x; }`,
			`(BlockStmt Stmts=((VarStmt Name=x Init=1) (PrintStmt X=x)))`},
		{`if (a) b;`,
			`(IfStmt Cond=a True=(ExprStmt X=b))`},
		{`if (a) b; else c;`,
			`(IfStmt Cond=a True=(ExprStmt X=b) False=(ExprStmt X=c))`},
		{`if (a) if (b) c; else d;`, // else binds to the nearest if
			`(IfStmt Cond=a True=(IfStmt Cond=b True=(ExprStmt X=c) False=(ExprStmt X=d)))`},
		{`while (a) { b; }`,
			`(WhileStmt Cond=a Body=(BlockStmt Stmts=((ExprStmt X=b))))`},
		{`fun f(a, b) { return a; }`,
			`(FuncStmt Name=f Function=(Function Params=(a b) Body=((ReturnStmt Result=a))))`},
		{`fun f() { return; }`,
			`(FuncStmt Name=f Function=(Function Body=((ReturnStmt))))`},
		{`class A {}`,
			`(ClassStmt Name=A)`},
		{`class B < A {}`,
			`(ClassStmt Name=B Superclass=A)`},
		{`class A { m() { return 1; } }`,
			`(ClassStmt Name=A Methods=((FuncStmt Name=m Function=(Function Body=((ReturnStmt Result=1))))))`},

		// A for-loop is desugared into while and block statements.
		{`for (var i = 0; i < 3; i = i + 1) print i;`,
			`(BlockStmt Stmts=((VarStmt Name=i Init=0) ` +
				`(WhileStmt Cond=(BinaryExpr X=i Op=< Y=3) ` +
				`Body=(BlockStmt Stmts=((PrintStmt X=i) ` +
				`(ExprStmt X=(AssignExpr Name=i Value=(BinaryExpr X=i Op=+ Y=1))))))))`},
		{`for (;;) x;`,
			`(WhileStmt Cond=true Body=(ExprStmt X=x))`},
		{`for (; a;) x;`,
			`(WhileStmt Cond=a Body=(ExprStmt X=x))`},
		{`for (x;;) y;`,
			`(BlockStmt Stmts=((ExprStmt X=x) (WhileStmt Cond=true Body=(ExprStmt X=y))))`},
	} {
		f, err := syntax.Parse("foo.lox", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, err)
			continue
		}
		if len(f.Stmts) != 1 {
			t.Errorf("parse `%s`: got %d statements, want 1", test.input, len(f.Stmts))
			continue
		}
		if got := treeString(f.Stmts[0]); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`print 1`,
			`foo.lox:1:8: got end of file, want ';' after value`},
		{`var 1 = 2;`,
			`foo.lox:1:5: got number literal, want variable name`},
		{`1 +;`,
			`foo.lox:1:4: got ';', want expression`},
		{`(1;`,
			`foo.lox:1:3: got ';', want ')' after expression`},
		{`a + b = c;`,
			`foo.lox:1:7: invalid assignment target`},
		{`super;`,
			`foo.lox:1:6: got ';', want '.' after 'super'`},
		{`fun f(a {}`,
			`foo.lox:1:9: got '{', want ')' after parameters`},
		{`class A < {}`,
			`foo.lox:1:11: got '{', want superclass name`},
		{`if a) b;`,
			`foo.lox:1:4: got identifier, want '(' after 'if'`},

		// Errors are batched: a failed statement is skipped and
		// parsing resumes at the next statement boundary.
		{"var;\nprint 1",
			`foo.lox:1:4: got ';', want variable name (and 1 more errors)`},
		{"1 ++;\n2 ++;",
			`foo.lox:1:4: got '+', want expression (and 1 more errors)`},
	} {
		_, err := syntax.Parse("foo.lox", test.input)
		if err == nil {
			t.Errorf("parse `%s` succeeded unexpectedly", test.input)
			continue
		}
		if got := err.Error(); test.want != got {
			t.Errorf("parse `%s` error [%s], want [%s]", test.input, got, test.want)
		}
	}
}

// A parse error yields the statements parsed so far, so that tools can
// still inspect the rest of the file.
func TestParseRecovery(t *testing.T) {
	f, err := syntax.Parse("foo.lox", "var x = 1;\nvar = 2;\nprint x;\n")
	if err == nil {
		t.Fatal("Parse succeeded unexpectedly")
	}
	if f == nil {
		t.Fatal("Parse returned no file")
	}
	if len(f.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(f.Stmts))
	}
	if _, ok := f.Stmts[1].(*syntax.PrintStmt); !ok {
		t.Errorf("second statement is %T, want *PrintStmt", f.Stmts[1])
	}
}

func TestParseExprRejectsTrailing(t *testing.T) {
	_, err := syntax.ParseExpr("foo.lox", "1 2")
	if err == nil {
		t.Fatal("ParseExpr succeeded unexpectedly")
	}
	const want = "foo.lox:1:3: got number literal, want end of expression"
	if got := err.Error(); got != want {
		t.Errorf("got [%s], want [%s]", got, want)
	}
}

func treeString(n syntax.Node) string {
	var buf bytes.Buffer
	writeTree(&buf, reflect.ValueOf(n))
	return buf.String()
}

// writeTree prints a syntax tree in short form, omitting positions.
func writeTree(out *bytes.Buffer, x reflect.Value) {
	switch x.Kind() {
	case reflect.String, reflect.Int, reflect.Bool:
		fmt.Fprintf(out, "%v", x.Interface())
	case reflect.Ptr, reflect.Interface:
		if elem := x.Elem(); elem.Kind() == 0 {
			out.WriteString("nil")
		} else {
			writeTree(out, elem)
		}
	case reflect.Struct:
		switch v := x.Interface().(type) {
		case syntax.Literal:
			switch v.Token {
			case syntax.STRING:
				fmt.Fprintf(out, "%q", v.Value)
			case syntax.NUMBER:
				fmt.Fprintf(out, "%v", v.Value)
			default: // true, false, nil
				out.WriteString(v.Raw)
			}
			return
		case syntax.Ident:
			out.WriteString(v.Name)
			return
		}
		fmt.Fprintf(out, "(%s", strings.TrimPrefix(x.Type().String(), "syntax."))
		for i, n := 0, x.NumField(); i < n; i++ {
			f := x.Field(i)
			if f.Type() == reflect.TypeOf(syntax.Position{}) {
				continue // skip positions
			}
			name := x.Type().Field(i).Name
			if f.Type() == reflect.TypeOf(syntax.Token(0)) {
				fmt.Fprintf(out, " %s=%s", name, f.Interface())
				continue
			}

			switch f.Kind() {
			case reflect.Slice:
				if n := f.Len(); n > 0 {
					fmt.Fprintf(out, " %s=(", name)
					for i := 0; i < n; i++ {
						if i > 0 {
							out.WriteByte(' ')
						}
						writeTree(out, f.Index(i))
					}
					out.WriteByte(')')
				}
				continue
			case reflect.Ptr, reflect.Interface:
				if f.IsNil() {
					continue
				}
			}
			fmt.Fprintf(out, " %s=", name)
			writeTree(out, f)
		}
		fmt.Fprintf(out, ")")
	default:
		fmt.Fprintf(out, "%T", x.Interface())
	}
}

