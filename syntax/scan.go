// Copyright 2024 The GoLox Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A scanner tokenizes Lox source text.
//
// The scanner materializes the entire token sequence up front, ending
// with an EOF token. It does not stop at the first problem: an invalid
// character or an unterminated string is recorded as an Error and
// scanning resumes, so one pass reports every lexical error in the
// input.

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number
	Col  int32   // 1-based column (in runes) number
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position {
	return Position{file, line, col}
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

// add returns the position at the end of s, assuming it contains no newlines.
func (p Position) add(s string) Position {
	p.Col += int32(len(s))
	return p
}

// An Error describes the position and cause of a lexical, syntax, or
// resolution error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// An ErrorList is a non-empty list of errors, sorted by source position.
type ErrorList []Error

func (list ErrorList) Error() string {
	switch len(list) {
	case 0:
		return "no errors"
	case 1:
		return list[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", list[0], len(list)-1)
}

type scanner struct {
	src       string   // entire input
	pos       int      // current byte offset
	start     int      // start of token under construction
	startPos  Position // position of start of token under construction
	line      int32    // current line number
	lineStart int      // offset of start of current line
	file      *string  // filename, shared by all positions
	tokens    []TokenValue
	errs      ErrorList
}

func newScanner(filename string, src interface{}) (*scanner, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	return &scanner{
		src:  data,
		line: 1,
		file: &filename,
	}, nil
}

func readSource(filename string, src interface{}) (string, error) {
	switch src := src.(type) {
	case string:
		return src, nil
	case []byte:
		return string(src), nil
	case io.Reader:
		data, err := io.ReadAll(src)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case nil:
		data, err := os.ReadFile(filename)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("invalid source: %T", src)
	}
}

// scan tokenizes the entire input. The token slice is never empty: it
// ends with an EOF token. A non-nil error is an ErrorList.
func (sc *scanner) scan() ([]TokenValue, error) {
	for !sc.eof() {
		sc.skipSpace()
		if sc.eof() {
			break
		}
		sc.start = sc.pos
		sc.startPos = sc.position(sc.pos)
		sc.scanToken()
	}
	sc.start = sc.pos
	sc.startPos = sc.position(sc.pos)
	sc.emit(EOF, nil)
	if len(sc.errs) > 0 {
		return sc.tokens, sc.errs
	}
	return sc.tokens, nil
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.src) }

func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.src[sc.pos]
}

func (sc *scanner) next() byte {
	c := sc.src[sc.pos]
	sc.pos++
	if c == '\n' {
		sc.line++
		sc.lineStart = sc.pos
	}
	return c
}

// match consumes the next byte if it equals c.
func (sc *scanner) match(c byte) bool {
	if sc.eof() || sc.src[sc.pos] != c {
		return false
	}
	sc.pos++
	return true
}

func (sc *scanner) position(offset int) Position {
	col := offset - sc.lineStart + 1
	return MakePosition(sc.file, sc.line, int32(col))
}

func (sc *scanner) emit(tok Token, value interface{}) {
	sc.tokens = append(sc.tokens, TokenValue{
		Token: tok,
		Pos:   sc.startPos,
		Raw:   sc.src[sc.start:sc.pos],
		Value: value,
	})
}

func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	sc.errs = append(sc.errs, Error{pos, fmt.Sprintf(format, args...)})
}

func (sc *scanner) skipSpace() {
	for !sc.eof() {
		switch sc.peek() {
		case ' ', '\t', '\r', '\n':
			sc.next()
		case '/':
			// May be a comment or a SLASH token.
			if sc.pos+1 < len(sc.src) && sc.src[sc.pos+1] == '/' {
				for !sc.eof() && sc.peek() != '\n' {
					sc.next()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (sc *scanner) scanToken() {
	c := sc.next()
	switch c {
	case '(':
		sc.emit(LPAREN, nil)
	case ')':
		sc.emit(RPAREN, nil)
	case '{':
		sc.emit(LBRACE, nil)
	case '}':
		sc.emit(RBRACE, nil)
	case ',':
		sc.emit(COMMA, nil)
	case '.':
		sc.emit(DOT, nil)
	case ';':
		sc.emit(SEMICOLON, nil)
	case '+':
		sc.emit(PLUS, nil)
	case '-':
		sc.emit(MINUS, nil)
	case '*':
		sc.emit(STAR, nil)
	case '/':
		sc.emit(SLASH, nil) // comments were consumed by skipSpace
	case '!':
		if sc.match('=') {
			sc.emit(NEQ, nil)
		} else {
			sc.emit(NOT, nil)
		}
	case '=':
		if sc.match('=') {
			sc.emit(EQL, nil)
		} else {
			sc.emit(EQ, nil)
		}
	case '<':
		if sc.match('=') {
			sc.emit(LE, nil)
		} else {
			sc.emit(LT, nil)
		}
	case '>':
		if sc.match('=') {
			sc.emit(GE, nil)
		} else {
			sc.emit(GT, nil)
		}
	case '"':
		sc.scanString()
	default:
		switch {
		case isDigit(c):
			sc.scanNumber()
		case isAlpha(c):
			sc.scanIdent()
		default:
			sc.errorf(sc.startPos, "unexpected character %q", c)
		}
	}
}

// scanString scans a string literal. The opening quote has been
// consumed. Lox strings may span lines and have no escape sequences.
func (sc *scanner) scanString() {
	for !sc.eof() && sc.peek() != '"' {
		sc.next()
	}
	if sc.eof() {
		sc.errorf(sc.startPos, "unterminated string literal")
		return
	}
	sc.next() // closing quote
	sc.emit(STRING, sc.src[sc.start+1:sc.pos-1])
}

// scanNumber scans a decimal number: digits with an optional fraction.
// A trailing dot is not part of the number ("1." scans as NUMBER DOT).
func (sc *scanner) scanNumber() {
	for !sc.eof() && isDigit(sc.peek()) {
		sc.next()
	}
	if sc.peek() == '.' && sc.pos+1 < len(sc.src) && isDigit(sc.src[sc.pos+1]) {
		sc.next()
		for !sc.eof() && isDigit(sc.peek()) {
			sc.next()
		}
	}
	raw := sc.src[sc.start:sc.pos]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		sc.errorf(sc.startPos, "invalid number literal %s", raw)
		return
	}
	sc.emit(NUMBER, v)
}

func (sc *scanner) scanIdent() {
	for !sc.eof() && isAlphaNumeric(sc.peek()) {
		sc.next()
	}
	raw := sc.src[sc.start:sc.pos]
	if tok, ok := keywordToken[raw]; ok {
		sc.emit(tok, nil)
	} else {
		sc.emit(IDENT, nil)
	}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// Scan tokenizes the specified source and returns the token sequence,
// which always ends with an EOF token.
//
// If src is nil, the file filename is read. Otherwise src must be a
// string, a []byte, or an io.Reader.
//
// If there were lexical errors the error is an ErrorList; the returned
// tokens include everything scanned after each error was recorded.
func Scan(filename string, src interface{}) ([]TokenValue, error) {
	sc, err := newScanner(filename, src)
	if err != nil {
		return nil, err
	}
	return sc.scan()
}
