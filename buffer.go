// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

import (
	"fmt"
)

// OverrunBuffer is a line together with memory that may be read past its
// terminator. It simulates a NUL terminated buffer in a larger allocation.
//
// Bytes in buf[:allowedLen] are in bounds and buf[allowedLen-1] is the
// terminator. Bytes in buf[allowedLen:] are out of bounds but readable.
// Reads past buf are overrun errors.
type OverrunBuffer struct {
	buf        []byte
	allowedLen int
}

// NewLineBuffer returns a buffer for line with no readable memory after its
// terminator. A NUL in line effectively truncates it.
func NewLineBuffer(line []byte) *OverrunBuffer {
	buf := make([]byte, len(line)+1)
	copy(buf, line)
	return &OverrunBuffer{buf: buf, allowedLen: len(buf)}
}

// NewOverrunBuffer returns a buffer where buf[:allowedLen] is in bounds and
// the rest of buf is out of bounds. buf[allowedLen-1] should usually be NUL,
// anything else simulates an unterminated string.
func NewOverrunBuffer(buf []byte, allowedLen int) (*OverrunBuffer, error) {
	if allowedLen < 1 || allowedLen > len(buf) {
		return nil, fmt.Errorf("allowed length %d out of range [1, %d]",
			allowedLen, len(buf))
	}
	return &OverrunBuffer{buf: buf, allowedLen: allowedLen}, nil
}

// Line returns the in bounds bytes before the terminator.
func (b *OverrunBuffer) Line() []byte {
	return b.buf[:b.allowedLen-1]
}

// Bytes returns the whole buffer including the out of bounds tail.
func (b *OverrunBuffer) Bytes() []byte {
	return b.buf
}

// Cursor returns a line cursor over the buffer positioned at offset. The
// cursor's terminator is at allowedLen-1 and it can read to the end of buf.
func (b *OverrunBuffer) Cursor(offset int) LineCursor {
	return LineCursor{buf: b.buf, end: b.allowedLen - 1, offset: offset}
}
