// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

import (
	"fmt"
	"io"
)

// DefaultLimit is the historical PMAX value which limits the size of a
// compiled pattern to 256 bytes.
const DefaultLimit = 256

// CompilerOptions represents customizable options for Compile().
type CompilerOptions struct {
	// Limit is the maximum size of the compiled pattern in bytes. 0 means
	// no limit.
	Limit int
	// Trace receives a trace of the emitted atoms if not nil.
	Trace io.Writer
}

// DefaultCompilerOptions holds default Compiler options.
var DefaultCompilerOptions = CompilerOptions{
	Limit: DefaultLimit,
}

// Compiler compiles a pattern source into bytecode.
type Compiler struct {
	source []byte
	offset int
	pbuf   []byte
	limit  int
	trace  io.Writer
	indent int
}

// NewCompiler creates a new Compiler object.
func NewCompiler(source []byte, opts CompilerOptions) *Compiler {
	var capacity int
	if opts.Limit > 0 {
		// fixed size buffer of the historical tool
		capacity = opts.Limit
	} else {
		// Chars take two bytes and ranges have some overhead, so twice the
		// source is usually just over what a pattern needs.
		capacity = 2 * len(source)
	}
	return &Compiler{
		source: source,
		pbuf:   make([]byte, 0, capacity),
		limit:  opts.Limit,
		trace:  opts.Trace,
	}
}

// Compile compiles source into a Pattern whose size is limited to limit
// bytes. A limit of 0 means the compiled pattern can be of any size, use
// DefaultLimit for compatibility.
func Compile(source []byte, limit int) (*Pattern, error) {
	return CompileWithOptions(source, CompilerOptions{Limit: limit})
}

// CompileWithOptions compiles source with the given options.
func CompileWithOptions(source []byte, opts CompilerOptions) (*Pattern, error) {
	c := NewCompiler(source, opts)
	if err := c.Compile(); err != nil {
		return nil, err
	}
	return newPattern(c.pbuf), nil
}

// MustCompile is like Compile but panics if source cannot be compiled.
func MustCompile(source string, limit int) *Pattern {
	p, err := Compile([]byte(source), limit)
	if err != nil {
		panic(err)
	}
	return p
}

// Compile runs the compiler. It must be called once.
func (c *Compiler) Compile() error {
	if c.trace != nil {
		defer untracec(tracec(c, fmt.Sprintf("Compile %s", quoteBytes(c.source))))
	}

	var atomStart int
	for {
		ch, ok := c.bump()
		if !ok {
			break
		}

		if ch == '*' || ch == '+' || ch == '-' {
			if err := c.repeat(ch, atomStart); err != nil {
				return err
			}
			continue
		}

		// remember where the atom starts so it can be repeated
		atomStart = len(c.pbuf)

		var err error
		switch ch {
		case '^':
			err = c.emit(OpBOL)
		case '$':
			err = c.emit(OpEOL)
		case '.':
			err = c.emit(OpAny)
		case '[':
			err = c.class()
		case ':':
			err = c.colon()
		default:
			if ch == '\\' {
				// a trailing backslash is a literal backslash
				if next, ok := c.bump(); ok {
					ch = next
				}
			}
			err = c.emit(OpChar, toLower(ch))
		}
		if err != nil {
			return err
		}
	}

	if err := c.store(OpEndPat); err != nil {
		return err
	}
	return c.store(0)
}

// Bytes returns the bytecode emitted so far.
func (c *Compiler) Bytes() []byte {
	return c.pbuf
}

// repeat wraps the atom starting at atomStart in a repetition. Only the last
// emitted byte is checked, so a repetition can follow another repetition's
// closing ENDPAT.
func (c *Compiler) repeat(ch byte, atomStart int) error {
	if len(c.pbuf) == 0 {
		return c.badpat(IllegalOccurrence)
	}
	switch c.pbuf[len(c.pbuf)-1] {
	case OpBOL, OpEOL, OpStar, OpPlus, OpMinus:
		return c.badpat(IllegalOccurrence)
	}

	atomEnd := len(c.pbuf)
	// placeholder and terminator
	if err := c.store(OpEndPat); err != nil {
		return err
	}
	if err := c.store(OpEndPat); err != nil {
		return err
	}
	copy(c.pbuf[atomStart+1:], c.pbuf[atomStart:atomEnd])

	var op Opcode
	switch ch {
	case '*':
		op = OpStar
	case '-':
		op = OpMinus
	default:
		op = OpPlus
	}
	c.pbuf[atomStart] = op
	if c.trace != nil {
		c.printTrace("wrap", OpcodeNames[op], "at", atomStart)
	}
	return nil
}

func (c *Compiler) colon() error {
	ch, ok := c.bump()
	if !ok {
		return c.badpat(NoColonType)
	}
	switch ch {
	case 'a', 'A':
		return c.emit(OpAlpha)
	case 'd', 'D':
		return c.emit(OpDigit)
	case 'n', 'N':
		return c.emit(OpNAlpha)
	case ' ':
		return c.emit(OpPunct)
	}
	return c.badpat(UnknownColonType)
}

func (c *Compiler) class() error {
	op := OpClass
	if ch, ok := c.peek(); ok && ch == '^' {
		c.bump()
		op = OpNClass
	}
	if c.trace != nil {
		defer untracec(tracec(c, OpcodeNames[op]))
	}
	if err := c.store(op); err != nil {
		return err
	}
	classStart := len(c.pbuf)
	// byte count, fixed up below
	if err := c.store(0); err != nil {
		return err
	}

	for {
		ch, ok := c.bump()
		if !ok {
			return c.badpat(UnterminatedClass)
		}
		if ch == ']' {
			break
		}

		var err error
		switch {
		case ch == '\\':
			esc, ok := c.bump()
			if !ok {
				return c.badpat(BackslashUnterminatedClass)
			}
			err = c.store(toLower(esc))
		case ch == '-' && len(c.pbuf)-classStart > 1 && c.peekIsNot(']'):
			// A range directly followed by a dash takes the high bound of
			// the range as its low bound.
			low := c.pbuf[len(c.pbuf)-1]
			c.pbuf = c.pbuf[:len(c.pbuf)-1]
			high, _ := c.bump()
			if err = c.store(OpRange); err == nil {
				if err = c.store(low); err == nil {
					err = c.store(toLower(high))
				}
			}
			if c.trace != nil && err == nil {
				c.printTrace("RANGE", quoteByte(low), quoteByte(toLower(high)))
			}
		default:
			// A literal 14 is stored as is and is later read as RANGE.
			err = c.store(toLower(ch))
		}
		if err != nil {
			return err
		}
	}

	n := len(c.pbuf) - classStart
	if n >= 256 {
		return c.badpat(LargeClass)
	} else if n == 0 {
		// unreachable, the count includes its own byte
		return c.badpat(EmptyClass)
	}
	c.pbuf[classStart] = byte(n)
	return nil
}

// emit stores an atom made of op and its operands.
func (c *Compiler) emit(op Opcode, operands ...byte) error {
	if c.trace != nil {
		if len(operands) > 0 {
			c.printTrace(OpcodeNames[op], quoteByte(operands[0]))
		} else {
			c.printTrace(OpcodeNames[op])
		}
	}
	if err := c.store(op); err != nil {
		return err
	}
	for _, b := range operands {
		if err := c.store(b); err != nil {
			return err
		}
	}
	return nil
}

// store appends b to the bytecode, emulating a fixed size buffer when a
// limit is set.
func (c *Compiler) store(b byte) error {
	if c.limit > 0 && len(c.pbuf) >= c.limit {
		return &PatternError{Kind: ComplexPattern, Source: c.source, Offset: c.offset}
	}
	c.pbuf = append(c.pbuf, b)
	return nil
}

func (c *Compiler) bump() (byte, bool) {
	if c.offset < len(c.source) {
		ch := c.source[c.offset]
		c.offset++
		return ch, true
	}
	return 0, false
}

func (c *Compiler) peek() (byte, bool) {
	if c.offset < len(c.source) {
		return c.source[c.offset], true
	}
	return 0, false
}

func (c *Compiler) peekIsNot(ch byte) bool {
	next, ok := c.peek()
	return ok && next != ch
}

func (c *Compiler) badpat(kind PatternErrorKind) error {
	return &PatternError{Kind: kind, Source: c.source, Offset: c.offset}
}

func (c *Compiler) printTrace(a ...interface{}) {
	const (
		dots = ". . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . "
		n    = len(dots)
	)

	_, _ = fmt.Fprintf(c.trace, "%4d: ", c.offset)
	i := 2 * c.indent
	for i > n {
		_, _ = fmt.Fprint(c.trace, dots)
		i -= n
	}
	_, _ = fmt.Fprint(c.trace, dots[0:i])
	_, _ = fmt.Fprintln(c.trace, a...)
}

func tracec(c *Compiler, msg string) *Compiler {
	c.printTrace(msg, "{")
	c.indent++
	return c
}

func untracec(c *Compiler) {
	c.indent--
	c.printTrace("}")
}

// toLower folds ASCII upper case letters only.
func toLower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
