// Copyright (c) 2020 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

import (
	"fmt"
	"io"
)

// VM executes the bytecode of a Pattern against lines.
// Warning: VM is not safe to use concurrently, use one VM per goroutine or
// the methods of Pattern.
type VM struct {
	pattern []byte
	trace   io.Writer
	depth   int
}

// NewVM creates a VM object.
func NewVM(p *Pattern) *VM {
	return &VM{pattern: p.pbuf}
}

// SetTrace sets the writer which receives a trace of every executed opcode.
// nil disables tracing.
func (vm *VM) SetTrace(w io.Writer) *VM {
	vm.trace = w
	return vm
}

// IsMatch reports whether the pattern matches line at any start offset.
func (vm *VM) IsMatch(line []byte) (bool, error) {
	return vm.scan(NewLineCursor(line, 0))
}

// MatchBuffer is like IsMatch, but reads from buf.
func (vm *VM) MatchBuffer(buf *OverrunBuffer) (bool, error) {
	return vm.scan(buf.Cursor(0))
}

// IsMatchAnchored reports whether the pattern matches line starting exactly
// at offset.
func (vm *VM) IsMatchAnchored(line []byte, offset int) (bool, error) {
	_, ok, err := vm.pmatch(NewLineCursor(line, offset), NewPatternCursor(vm.pattern))
	return ok, err
}

// scan tries every start offset until the byte at the offset is NUL.
func (vm *VM) scan(l LineCursor) (bool, error) {
	for {
		c, err := l.Peek()
		if err != nil {
			return false, err
		}
		if c == 0 {
			return false, nil
		}
		_, ok, err := vm.pmatch(l, NewPatternCursor(vm.pattern))
		if err != nil || ok {
			return ok, err
		}
		l.Bump(1)
	}
}

// pmatch matches the (sub-)pattern at p against the line at l until ENDPAT.
// It returns the line offset after the match and whether it matched.
func (vm *VM) pmatch(l LineCursor, p PatternCursor) (int, bool, error) {
	if vm.trace != nil {
		vm.printTrace(fmt.Sprintf("pmatch(%d, %d) {", l.Offset(), p.Offset()))
		vm.depth++
		defer func() {
			vm.depth--
			vm.printTrace("}")
		}()
	}

	for {
		op, err := p.Next()
		if err != nil {
			return 0, false, err
		}
		if op == OpEndPat {
			return l.Offset(), true, nil
		}
		if vm.trace != nil {
			c, _ := l.Peek()
			vm.printTrace(fmt.Sprintf("byte[%d] = %s, op = %s",
				l.Offset(), quoteByte(c), OpcodeName(op)))
		}

		switch op {
		case OpChar:
			c, err := l.Next()
			if err != nil {
				return 0, false, err
			}
			want, err := p.Next()
			if err != nil {
				return 0, false, err
			}
			if toLower(c) != want {
				return 0, false, nil
			}
		case OpBOL:
			if !l.AtStart() {
				return 0, false, nil
			}
		case OpEOL:
			if !l.AtEnd() {
				return 0, false, nil
			}
		case OpAny:
			if l.AtEnd() {
				return 0, false, nil
			}
			l.Bump(1)
		case OpAlpha, OpDigit, OpNAlpha, OpPunct:
			c, err := l.Next()
			if err != nil {
				return 0, false, err
			}
			if !isClassByte(op, c) {
				return 0, false, nil
			}
		case OpClass, OpNClass:
			ok, err := vm.class(op, &l, &p)
			if err != nil || !ok {
				return 0, false, err
			}
		case OpMinus:
			end, ok, err := vm.pmatch(l, p)
			if err != nil {
				return 0, false, err
			}
			if err := skipSubpattern(&p); err != nil {
				return 0, false, err
			}
			if ok {
				l.SetOffset(end)
			}
		case OpStar, OpPlus:
			return vm.repeat(op, l, p)
		default:
			return 0, false, NewBadOpcodeError(op)
		}
	}
}

// class matches one line byte against the class entries at p. The length
// operand counts itself, so the entries are consumed while more than one
// byte remains. On success for OpClass the unread entries are skipped.
func (vm *VM) class(op Opcode, l *LineCursor, p *PatternCursor) (bool, error) {
	c, err := l.Next()
	if err != nil {
		return false, err
	}
	c = toLower(c)
	nb, err := p.Next()
	if err != nil {
		return false, err
	}

	n := int(nb)
	for {
		e, err := p.Peek()
		if err != nil {
			return false, err
		}
		if e == OpRange {
			p.Bump(1)
			low, err := p.Next()
			if err != nil {
				return false, err
			}
			high, err := p.Next()
			if err != nil {
				return false, err
			}
			n -= 2
			if c >= low && c <= high {
				break
			}
		} else {
			p.Bump(1)
			if c == e {
				break
			}
		}
		n--
		if n <= 1 {
			break
		}
	}

	if (op == OpClass) == (n <= 1) {
		return false, nil
	}
	if op == OpClass {
		p.Bump(n - 2)
	}
	return true, nil
}

// repeat matches STAR and PLUS. The sub-pattern is matched greedily, then
// the rest of the pattern is tried from the longest repetition back to the
// shortest.
func (vm *VM) repeat(op Opcode, l LineCursor, p PatternCursor) (int, bool, error) {
	if op == OpPlus {
		end, ok, err := vm.pmatch(l, p)
		if err != nil || !ok {
			return 0, false, err
		}
		l.SetOffset(end)
	}

	start := l.Offset()
	for {
		c, err := l.Peek()
		if err != nil {
			return 0, false, err
		}
		if c == 0 {
			break
		}
		end, ok, err := vm.pmatch(l, p)
		if err != nil {
			return 0, false, err
		}
		// a sub-pattern that consumes nothing would repeat forever
		if !ok || end == l.Offset() {
			break
		}
		l.SetOffset(end)
	}

	if err := skipSubpattern(&p); err != nil {
		return 0, false, err
	}
	for l.Offset() >= start {
		end, ok, err := vm.pmatch(l, p)
		if err != nil || ok {
			return end, ok, err
		}
		l.Bump(-1)
	}
	return 0, false, nil
}

// skipSubpattern advances p past the first ENDPAT byte.
func skipSubpattern(p *PatternCursor) error {
	for {
		b, err := p.Next()
		if err != nil {
			return err
		}
		if b == OpEndPat {
			return nil
		}
	}
}

func isClassByte(op Opcode, c byte) bool {
	switch op {
	case OpAlpha:
		c = toLower(c)
		return c >= 'a' && c <= 'z'
	case OpDigit:
		return c >= '0' && c <= '9'
	case OpNAlpha:
		c = toLower(c)
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	case OpPunct:
		return c <= ' '
	}
	return false
}

func (vm *VM) printTrace(msg string) {
	const (
		dots = ". . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . "
		n    = len(dots)
	)

	i := 2 * vm.depth
	for i > n {
		_, _ = fmt.Fprint(vm.trace, dots)
		i -= n
	}
	_, _ = fmt.Fprint(vm.trace, dots[0:i])
	_, _ = fmt.Fprintln(vm.trace, msg)
}
