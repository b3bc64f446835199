// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

// LineCursor is a bounds checked position in a line. Reading at the end of
// the line yields the terminator byte 0. Reading before the start or past
// the terminator is an ErrLineOverrun error.
//
// A cursor created from an OverrunBuffer can also read the bytes stored
// after the terminator.
type LineCursor struct {
	buf    []byte
	end    int
	offset int
}

// NewLineCursor returns a cursor over line positioned at offset.
func NewLineCursor(line []byte, offset int) LineCursor {
	return LineCursor{buf: line, end: len(line), offset: offset}
}

// Peek returns the byte at the cursor without advancing.
func (c *LineCursor) Peek() (byte, error) {
	switch {
	case c.offset < 0:
		return 0, ErrLineOverrun
	case c.offset < len(c.buf):
		return c.buf[c.offset], nil
	case c.offset == c.end:
		return 0, nil
	}
	return 0, ErrLineOverrun
}

// Next returns the byte at the cursor and advances it by one. The cursor is
// advanced even if the read fails.
func (c *LineCursor) Next() (byte, error) {
	b, err := c.Peek()
	c.offset++
	return b, err
}

// Bump moves the cursor by amount, which may be negative.
func (c *LineCursor) Bump(amount int) {
	c.offset += amount
}

// Offset returns the current offset.
func (c *LineCursor) Offset() int {
	return c.offset
}

// SetOffset moves the cursor to offset.
func (c *LineCursor) SetOffset(offset int) {
	c.offset = offset
}

// AtStart reports whether the cursor is at the start of the line.
func (c *LineCursor) AtStart() bool {
	return c.offset == 0
}

// AtEnd reports whether the cursor is at the terminator.
func (c *LineCursor) AtEnd() bool {
	return c.offset == c.end
}

// Len returns the offset of the terminator.
func (c *LineCursor) Len() int {
	return c.end
}

// PatternCursor is a bounds checked position in compiled bytecode. There is
// no implicit terminator, any read past the bytecode is an ErrPatternOverrun
// error.
type PatternCursor struct {
	pattern []byte
	offset  int
}

// NewPatternCursor returns a cursor at the start of pattern.
func NewPatternCursor(pattern []byte) PatternCursor {
	return PatternCursor{pattern: pattern}
}

// Peek returns the byte at the cursor without advancing.
func (c *PatternCursor) Peek() (byte, error) {
	if c.offset >= 0 && c.offset < len(c.pattern) {
		return c.pattern[c.offset], nil
	}
	return 0, ErrPatternOverrun
}

// Next returns the byte at the cursor and advances it by one. The cursor is
// advanced even if the read fails.
func (c *PatternCursor) Next() (byte, error) {
	b, err := c.Peek()
	c.offset++
	return b, err
}

// Bump moves the cursor by amount, which may be negative.
func (c *PatternCursor) Bump(amount int) {
	c.offset += amount
}

// Offset returns the current offset.
func (c *PatternCursor) Offset() int {
	return c.offset
}

// AtStart reports whether the cursor is at the start of the bytecode.
func (c *PatternCursor) AtStart() bool {
	return c.offset == 0
}

// AtEnd reports whether the cursor is at or past the end of the bytecode.
func (c *PatternCursor) AtEnd() bool {
	return c.offset >= len(c.pattern)
}
