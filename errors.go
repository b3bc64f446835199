// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

import (
	"fmt"
	"io"
	"strings"
)

// Error represents a generic error with a name and an optional cause. It is
// used to wrap failures that are not pattern or match errors, e.g. I/O.
type Error struct {
	Name    string
	Message string
	Cause   error
}

func (o *Error) Unwrap() error {
	return o.Cause
}

// Error implements error interface.
func (o *Error) Error() string {
	name := o.Name
	if name == "" {
		name = "error"
	}
	if o.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", name, o.Message, o.Cause)
	}
	return fmt.Sprintf("%s: %s", name, o.Message)
}

// NewError creates a new Error from o by setting Message and Cause.
func (o *Error) NewError(cause error, messages ...string) *Error {
	return &Error{
		Name:    o.Name,
		Message: strings.Join(messages, " "),
		Cause:   cause,
	}
}

// ErrIO is the base error for I/O failures of the line driver.
var ErrIO = &Error{Name: "IOError"}

// PatternErrorKind is the reason a pattern failed to compile.
type PatternErrorKind int

// List of pattern error kinds.
const (
	IllegalOccurrence PatternErrorKind = iota
	UnknownColonType
	NoColonType
	UnterminatedClass
	BackslashUnterminatedClass
	LargeClass
	EmptyClass
	ComplexPattern
)

// Message returns the historical diagnostic message of the kind.
func (k PatternErrorKind) Message() string {
	switch k {
	case IllegalOccurrence:
		return "Illegal occurrance op." // sic
	case UnknownColonType:
		return "Unknown : type"
	case NoColonType:
		return "No : type"
	case UnterminatedClass:
		return "Unterminated class"
	case BackslashUnterminatedClass:
		return "Class terminates badly"
	case LargeClass:
		return "Class too large"
	case EmptyClass:
		return "Empty class"
	case ComplexPattern:
		return "Pattern too complex"
	}
	return fmt.Sprintf("PatternErrorKind(%d)", int(k))
}

func (k PatternErrorKind) String() string {
	switch k {
	case IllegalOccurrence:
		return "illegal occurrence"
	case UnknownColonType:
		return "unknown ':' type"
	case NoColonType:
		return "missing ':' type"
	case UnterminatedClass, BackslashUnterminatedClass:
		return "unterminated class"
	case LargeClass:
		return "class too large"
	case EmptyClass:
		return "empty class"
	case ComplexPattern:
		return "pattern too complex"
	}
	return fmt.Sprintf("PatternErrorKind(%d)", int(k))
}

// PatternError is returned by the compiler. Offset is the number of source
// bytes consumed when compilation stopped, so Source[Offset-1] is the byte
// that caused the error.
type PatternError struct {
	Kind   PatternErrorKind
	Source []byte
	Offset int
}

func (e *PatternError) Error() string {
	if e.Kind == ComplexPattern || e.Offset < 1 || e.Offset > len(e.Source) {
		return "bad pattern: " + e.Kind.String()
	}
	return fmt.Sprintf("bad pattern: %s at byte %d (%s) in %s",
		e.Kind, e.Offset, quoteByte(e.Source[e.Offset-1]), quoteBytes(e.Source))
}

// Is reports whether target is a *PatternError of the same kind.
func (e *PatternError) Is(target error) bool {
	t, ok := target.(*PatternError)
	return ok && t.Kind == e.Kind
}

// Dump writes the error in the historical three line format. A
// ComplexPattern error only writes its message line.
func (e *PatternError) Dump(w io.Writer) error {
	if e.Kind == ComplexPattern {
		_, err := fmt.Fprintf(w, "%s\n", e.Kind.Message())
		return err
	}
	// No space between "pattern is" and the quoted source.
	if _, err := fmt.Fprintf(w, "-GREP-E-%s, pattern is\"", e.Kind.Message()); err != nil {
		return err
	}
	if _, err := w.Write(e.Source); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\"\n-GREP-E-Stopped at byte %d, '", e.Offset); err != nil {
		return err
	}
	if e.Offset >= 1 && e.Offset <= len(e.Source) {
		if _, err := w.Write(e.Source[e.Offset-1 : e.Offset]); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "'\n?GREP-E-Bad pattern\n")
	return err
}

// MatchErrorKind is the reason matching compiled bytecode failed.
type MatchErrorKind int

// List of match error kinds.
const (
	BadOpcode MatchErrorKind = iota
	PatternOverrun
	LineOverrun
)

// MatchError is returned by the matcher when the bytecode or the cursor
// discipline is violated. Op is only meaningful for BadOpcode.
type MatchError struct {
	Kind MatchErrorKind
	Op   Opcode
}

var (
	// ErrPatternOverrun is returned when the matcher reads past the end of
	// the compiled pattern.
	ErrPatternOverrun = &MatchError{Kind: PatternOverrun}

	// ErrLineOverrun is returned when the matcher reads past the
	// terminator of the line.
	ErrLineOverrun = &MatchError{Kind: LineOverrun}
)

// NewBadOpcodeError returns a MatchError for an unrecognized opcode.
func NewBadOpcodeError(op Opcode) *MatchError {
	return &MatchError{Kind: BadOpcode, Op: op}
}

func (e *MatchError) Error() string {
	switch e.Kind {
	case BadOpcode:
		return "bad opcode " + quoteByte(e.Op)
	case PatternOverrun:
		return "overran pattern buffer"
	case LineOverrun:
		return "overran line buffer"
	}
	return fmt.Sprintf("MatchErrorKind(%d)", int(e.Kind))
}

// Is reports whether target is a *MatchError of the same kind. Bad opcode
// errors must also have the same opcode.
func (e *MatchError) Is(target error) bool {
	t, ok := target.(*MatchError)
	if !ok || t.Kind != e.Kind {
		return false
	}
	return e.Kind != BadOpcode || t.Op == e.Op
}

// UsageError is a command line usage error.
type UsageError struct {
	Message string
	Flag    byte
}

var (
	// ErrNoArguments is returned when the command has no arguments.
	ErrNoArguments = &UsageError{Message: "No arguments"}

	// ErrNoPattern is returned when only flags are given.
	ErrNoPattern = &UsageError{Message: "No pattern"}
)

// Usage is the historical one line usage summary.
const Usage = "Usage: grep [-cfnv] pattern [file ...].  grep ? for help"

// NewUnknownFlagError returns a UsageError for an unknown flag character.
func NewUnknownFlagError(flag byte) *UsageError {
	return &UsageError{Message: "Unknown flag", Flag: flag}
}

func (e *UsageError) Error() string {
	if e.Flag != 0 {
		return "unknown flag " + quoteBytes([]byte{'-', e.Flag})
	}
	return strings.ToLower(e.Message)
}

// Is reports whether target is a *UsageError with the same message.
func (e *UsageError) Is(target error) bool {
	t, ok := target.(*UsageError)
	return ok && t.Message == e.Message
}

// Dump writes the error followed by the usage line in the historical format.
func (e *UsageError) Dump(w io.Writer) error {
	_, err := fmt.Fprintf(w, "?GREP-E-%s\n%s\n", e.Message, Usage)
	return err
}

// quoteBytes returns s as a double quoted string using C escapes.
func quoteBytes(s []byte) string {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	for i, c := range s {
		nextDigit := i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9'
		b = appendEscaped(b, c, nextDigit)
	}
	return string(append(b, '"'))
}

// quoteByte returns c as a single quoted char using C escapes.
func quoteByte(c byte) string {
	b := []byte{'\''}
	b = appendEscaped(b, c, false)
	return string(append(b, '\''))
}

func appendEscaped(b []byte, c byte, nextDigit bool) []byte {
	switch c {
	case '"':
		return append(b, '\\', '"')
	case '\\':
		return append(b, '\\', '\\')
	case 0x07:
		return append(b, '\\', 'a')
	case 0x08:
		return append(b, '\\', 'b')
	case 0x0c:
		return append(b, '\\', 'f')
	case '\n':
		return append(b, '\\', 'n')
	case '\r':
		return append(b, '\\', 'r')
	case '\t':
		return append(b, '\\', 't')
	case 0x0b:
		return append(b, '\\', 'v')
	}
	if c < 0x20 || c >= 0x7f {
		if nextDigit {
			return append(b, fmt.Sprintf("\\%03o", c)...)
		}
		return append(b, fmt.Sprintf("\\%o", c)...)
	}
	return append(b, c)
}
