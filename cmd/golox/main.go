// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The golox command interprets a Lox file.
// With no arguments, it starts a read-eval-print loop (REPL)
// if standard input is a terminal, and otherwise interprets
// standard input as a program.
//
// Exit codes follow the sysexits convention: 65 for programs
// rejected by scanning, parsing, or resolution, and 70 for
// programs that failed at run time.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"golang.org/x/term"

	"github.com/lox-lang/golox/lox"
	"github.com/lox-lang/golox/repl"
	"github.com/lox-lang/golox/resolve"
	"github.com/lox-lang/golox/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	showenv    = flag.Bool("showenv", false, "on success, print final global environment")
	execprog   = flag.String("c", "", "execute program `prog`")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("golox: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	thread := &lox.Thread{}
	globals := lox.NewGlobals()

	switch {
	case flag.NArg() == 1 || *execprog != "":
		var (
			filename string
			src      interface{}
		)
		if *execprog != "" {
			// Execute provided program.
			filename = "cmdline"
			src = *execprog
		} else {
			// Execute specified file.
			filename = flag.Arg(0)
		}
		thread.Name = "exec " + filename
		if err := lox.ExecFile(thread, filename, src, globals); err != nil {
			repl.PrintError(err)
			return exitCode(err)
		}
	case flag.NArg() == 0:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Println("Welcome to Lox (github.com/lox-lang/golox)")
			thread.Name = "REPL"
			repl.REPL(thread, globals)
		} else {
			thread.Name = "exec <stdin>"
			if err := lox.ExecFile(thread, "<stdin>", os.Stdin, globals); err != nil {
				repl.PrintError(err)
				return exitCode(err)
			}
		}
	default:
		log.Print("want at most one Lox file name")
		return 2
	}

	// Print the global environment.
	if *showenv {
		for _, name := range globals.Names() {
			v, _ := globals.Get(name)
			fmt.Fprintf(os.Stderr, "%s = %s\n", name, v)
		}
	}

	return 0
}

// exitCode maps an error from ExecFile to a process exit code:
// 65 (EX_DATAERR) for diagnostics batched before execution,
// 70 (EX_SOFTWARE) for a run-time error.
func exitCode(err error) int {
	switch err.(type) {
	case syntax.Error, syntax.ErrorList, resolve.Error, resolve.ErrorList:
		return 65
	case *lox.EvalError:
		return 70
	}
	return 1
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
