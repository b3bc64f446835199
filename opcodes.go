// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

import (
	"fmt"
)

// Opcode represents a single byte operation code.
type Opcode = byte

// List of opcodes. Values are part of the compiled pattern format.
const (
	OpChar   Opcode = iota + 1 // literal char, case-insensitive
	OpBOL                      // ^
	OpEOL                      // $
	OpAny                      // .
	OpClass                    // [
	OpNClass                   // [^
	OpStar                     // *
	OpPlus                     // +
	OpMinus                    // -
	OpAlpha                    // :a
	OpDigit                    // :d
	OpNAlpha                   // :n
	OpPunct                    // ": "
	OpRange                    // x-y inside a class
	OpEndPat                   // end of pattern or repetition
)

// OpcodeNames are string representation of opcodes.
var OpcodeNames = [...]string{
	0:        "NUL",
	OpChar:   "CHAR",
	OpBOL:    "BOL",
	OpEOL:    "EOL",
	OpAny:    "ANY",
	OpClass:  "CLASS",
	OpNClass: "NCLASS",
	OpStar:   "STAR",
	OpPlus:   "PLUS",
	OpMinus:  "MINUS",
	OpAlpha:  "ALPHA",
	OpDigit:  "DIGIT",
	OpNAlpha: "NALPHA",
	OpPunct:  "PUNCT",
	OpRange:  "RANGE",
	OpEndPat: "ENDPAT",
}

// OpcodeName returns the name of op or "BAD" if op is not a known opcode.
func OpcodeName(op Opcode) string {
	if int(op) < len(OpcodeNames) {
		return OpcodeNames[op]
	}
	return "BAD"
}

// FormatInstructions returns string representation of compiled pattern
// instructions. Nested repetitions are indented. Class bodies are printed as
// a single instruction; a class whose length runs past b is truncated.
func FormatInstructions(b []byte) []string {
	var out []string
	var depth int
	for i := 0; i < len(b); i++ {
		op := b[i]
		indent := depth
		if op == OpEndPat && depth > 0 {
			depth--
			indent = depth
		}
		prefix := fmt.Sprintf("%04d %*s", i, 2*indent, "")

		switch op {
		case OpChar:
			if i+1 < len(b) {
				out = append(out, fmt.Sprintf("%s%-7s %s", prefix,
					OpcodeNames[op], quoteByte(b[i+1])))
				i++
				continue
			}
			out = append(out, prefix+OpcodeNames[op])
		case OpClass, OpNClass:
			if i+1 >= len(b) {
				out = append(out, prefix+OpcodeNames[op])
				continue
			}
			n := int(b[i+1])
			start, end := i+2, i+1+n
			if end < start {
				end = start
			}
			if end > len(b) {
				end = len(b)
			}
			out = append(out, fmt.Sprintf("%s%-7s %-3d %s", prefix,
				OpcodeNames[op], n, formatClass(b[start:end])))
			i = end - 1
		case OpStar, OpPlus, OpMinus:
			out = append(out, prefix+OpcodeNames[op])
			depth++
		default:
			out = append(out, fmt.Sprintf("%s%s", prefix, OpcodeName(op)))
		}
	}
	return out
}

func formatClass(entries []byte) string {
	b := []byte{'['}
	for i := 0; i < len(entries); i++ {
		if entries[i] == OpRange && i+2 < len(entries) {
			b = appendEscaped(b, entries[i+1], false)
			b = append(b, '-')
			b = appendEscaped(b, entries[i+2], false)
			i += 2
			continue
		}
		b = appendEscaped(b, entries[i], false)
	}
	return string(append(b, ']'))
}
