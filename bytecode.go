// Copyright (c) 2020 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Pattern holds compiled bytecode. A Pattern is immutable and safe for
// concurrent use.
type Pattern struct {
	pbuf    []byte
	literal *literalFilter
}

func newPattern(pbuf []byte) *Pattern {
	return &Pattern{pbuf: pbuf, literal: newLiteralFilter(pbuf)}
}

// FromBytes returns a Pattern for raw bytecode. The bytecode is not
// validated, the matcher reports malformed bytecode as a *MatchError. b is
// copied.
func FromBytes(b []byte) *Pattern {
	return newPattern(append([]byte(nil), b...))
}

// MustFromBytes is like FromBytes. It exists for generated code and panics
// if b is empty.
func MustFromBytes(b []byte) *Pattern {
	if len(b) == 0 {
		panic("grep: empty bytecode")
	}
	return FromBytes(b)
}

// Bytes returns the compiled bytecode. It must not be modified.
func (p *Pattern) Bytes() []byte {
	return p.pbuf
}

// Len returns the size of the bytecode in bytes.
func (p *Pattern) Len() int {
	return len(p.pbuf)
}

// Equal reports whether p and o have the same bytecode.
func (p *Pattern) Equal(o *Pattern) bool {
	if p == nil || o == nil {
		return p == o
	}
	return bytes.Equal(p.pbuf, o.pbuf)
}

// Debug writes the bytecode in the historical debug format: control bytes
// in octal, each byte followed by a space.
func (p *Pattern) Debug(w io.Writer) error {
	var buf bytes.Buffer
	for _, c := range p.pbuf {
		if c < ' ' {
			_, _ = fmt.Fprintf(&buf, "\\%o", c)
		} else {
			buf.WriteByte(c)
		}
		buf.WriteByte(' ')
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// Fprint writes the instructions to given Writer in a human readable form.
func (p *Pattern) Fprint(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Pattern (%d bytes)\n", len(p.pbuf))
	for _, line := range FormatInstructions(p.pbuf) {
		_, _ = fmt.Fprintln(w, line)
	}
}

func (p *Pattern) String() string {
	var sb strings.Builder
	p.Fprint(&sb)
	return sb.String()
}

// IsMatch reports whether the pattern matches line at any start offset.
// Offsets are tried from 0 until the terminator or the first NUL byte, so an
// empty line never matches.
func (p *Pattern) IsMatch(line []byte) (bool, error) {
	if p.literal != nil {
		return p.literal.isMatch(line), nil
	}
	vm := NewVM(p)
	return vm.IsMatch(line)
}

// IsMatchAnchored reports whether the pattern matches line starting exactly
// at offset.
func (p *Pattern) IsMatchAnchored(line []byte, offset int) (bool, error) {
	vm := NewVM(p)
	return vm.IsMatchAnchored(line, offset)
}

// MatchBuffer is like IsMatch, but reads from buf which may define memory
// past the terminator of its line.
func (p *Pattern) MatchBuffer(buf *OverrunBuffer) (bool, error) {
	vm := NewVM(p)
	return vm.MatchBuffer(buf)
}
