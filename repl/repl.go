// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/eval/print loop for Lox.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// If an input line can be parsed as an expression,
// the REPL evaluates it and prints its result.
// Otherwise the REPL executes the input as a program,
// for side effects. Input whose braces remain open
// continues on the next line, until a blank line.
//
// Global bindings persist from one input to the next,
// so functions defined interactively may be called later.
package repl

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/lox-lang/golox/lox"
	"github.com/lox-lang/golox/resolve"
	"github.com/lox-lang/golox/syntax"
)

// REPL executes a read, eval, print loop.
func REPL(thread *lox.Thread, globals *lox.Environment) {
	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, thread, globals); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Lox errors are printed.
func rep(rl *readline.Instance, thread *lox.Thread, globals *lox.Environment) error {
	rl.SetPrompt(">>> ")
	line, err := rl.Readline()
	if err != nil {
		return err // EOF or ErrInterrupt
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}
	text := line + "\n"

	// Blocks continue onto subsequent lines until their braces
	// close; a blank line forces the attempt regardless.
	for !complete(text) {
		rl.SetPrompt("... ")
		line, err := rl.Readline()
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		text += line + "\n"
	}

	// An expression is evaluated and its value printed;
	// anything else is executed as a program.
	if _, err := syntax.ParseExpr("<stdin>", text); err == nil {
		v, err := lox.Eval(thread, "<stdin>", text, globals)
		if err != nil {
			PrintError(err)
			return nil
		}
		if v != lox.Nil {
			fmt.Println(v)
		}
	} else if err := lox.ExecFile(thread, "<stdin>", text, globals); err != nil {
		PrintError(err)
	}

	return nil
}

// complete reports whether the input's braces are balanced, so that
// a class or function body may span several lines of input.
// Input that does not even scan is complete; executing it will
// report the errors.
func complete(text string) bool {
	tokens, err := syntax.Scan("<stdin>", text)
	if err != nil {
		return true
	}
	depth := 0
	for _, tok := range tokens {
		switch tok.Token {
		case syntax.LBRACE:
			depth++
		case syntax.RBRACE:
			depth--
		}
	}
	return depth <= 0
}

// PrintError prints the error to stderr, one line per diagnostic if it
// is a batch of scan, parse, or resolve errors.
func PrintError(err error) {
	switch err := err.(type) {
	case syntax.ErrorList:
		for _, e := range err {
			fmt.Fprintln(os.Stderr, e)
		}
	case resolve.ErrorList:
		for _, e := range err {
			fmt.Fprintln(os.Stderr, e)
		}
	default:
		fmt.Fprintln(os.Stderr, err)
	}
}
