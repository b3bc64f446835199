package grep_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/thaliaarchi/decus-grep"
)

func TestPatternErrorDump(t *testing.T) {
	testCases := []struct {
		source string
		want   string
	}{
		{"[abc", "-GREP-E-Unterminated class, pattern is\"[abc\"\n" +
			"-GREP-E-Stopped at byte 4, 'c'\n" +
			"?GREP-E-Bad pattern\n"},
		{"*", "-GREP-E-Illegal occurrance op., pattern is\"*\"\n" +
			"-GREP-E-Stopped at byte 1, '*'\n" +
			"?GREP-E-Bad pattern\n"},
		{":x", "-GREP-E-Unknown : type, pattern is\":x\"\n" +
			"-GREP-E-Stopped at byte 2, 'x'\n" +
			"?GREP-E-Bad pattern\n"},
		{"ab:", "-GREP-E-No : type, pattern is\"ab:\"\n" +
			"-GREP-E-Stopped at byte 3, ':'\n" +
			"?GREP-E-Bad pattern\n"},
		{`[\`, "-GREP-E-Class terminates badly, pattern is\"[\\\"\n" +
			"-GREP-E-Stopped at byte 2, '\\'\n" +
			"?GREP-E-Bad pattern\n"},
	}
	for _, tC := range testCases {
		_, err := Compile([]byte(tC.source), DefaultLimit)
		var perr *PatternError
		require.True(t, errors.As(err, &perr), "compiling %q", tC.source)
		var buf bytes.Buffer
		require.NoError(t, perr.Dump(&buf))
		require.Equal(t, tC.want, buf.String())
	}
}

func TestPatternErrorDumpComplex(t *testing.T) {
	_, err := Compile([]byte("abcdef"), 4)
	var perr *PatternError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, ComplexPattern, perr.Kind)

	var buf bytes.Buffer
	require.NoError(t, perr.Dump(&buf))
	require.Equal(t, "Pattern too complex\n", buf.String())
	require.Equal(t, "bad pattern: pattern too complex", perr.Error())
}

func TestPatternErrorString(t *testing.T) {
	_, err := Compile([]byte("[abc"), DefaultLimit)
	require.EqualError(t, err,
		`bad pattern: unterminated class at byte 4 ('c') in "[abc"`)

	err = &PatternError{Kind: UnknownColonType, Source: []byte(":\x019"), Offset: 2}
	require.EqualError(t, err,
		`bad pattern: unknown ':' type at byte 2 ('\1') in ":\0019"`)

	err = &PatternError{Kind: NoColonType, Source: []byte("a\tb\"\\"), Offset: 2}
	require.EqualError(t, err,
		`bad pattern: missing ':' type at byte 2 ('\t') in "a\tb\"\\"`)

	err = &PatternError{Kind: LargeClass, Source: []byte("x"), Offset: 0}
	require.EqualError(t, err, "bad pattern: class too large")

	require.True(t, errors.Is(err, &PatternError{Kind: LargeClass}))
	require.False(t, errors.Is(err, &PatternError{Kind: EmptyClass}))
	require.False(t, errors.Is(err, ErrPatternOverrun))
}

func TestPatternErrorKindMessages(t *testing.T) {
	require.Equal(t, "Illegal occurrance op.", IllegalOccurrence.Message())
	require.Equal(t, "Empty class", EmptyClass.Message())
	require.Equal(t, "Class too large", LargeClass.Message())
	require.Equal(t, "unterminated class", BackslashUnterminatedClass.String())
	require.Equal(t, "PatternErrorKind(42)", PatternErrorKind(42).String())
}

func TestMatchError(t *testing.T) {
	require.EqualError(t, NewBadOpcodeError('x'), "bad opcode 'x'")
	require.EqualError(t, NewBadOpcodeError(0), `bad opcode '\0'`)
	require.EqualError(t, NewBadOpcodeError(0xff), `bad opcode '\377'`)
	require.EqualError(t, ErrPatternOverrun, "overran pattern buffer")
	require.EqualError(t, ErrLineOverrun, "overran line buffer")

	require.True(t, errors.Is(NewBadOpcodeError('x'), NewBadOpcodeError('x')))
	require.False(t, errors.Is(NewBadOpcodeError('x'), NewBadOpcodeError('y')))
	require.False(t, errors.Is(ErrLineOverrun, ErrPatternOverrun))
	require.True(t, errors.Is(&MatchError{Kind: PatternOverrun}, ErrPatternOverrun))
}

func TestUsageError(t *testing.T) {
	require.EqualError(t, ErrNoArguments, "no arguments")
	require.EqualError(t, ErrNoPattern, "no pattern")
	require.EqualError(t, NewUnknownFlagError('x'), `unknown flag "-x"`)
	require.True(t, errors.Is(NewUnknownFlagError('q'), NewUnknownFlagError('x')))
	require.False(t, errors.Is(ErrNoPattern, ErrNoArguments))

	var buf bytes.Buffer
	require.NoError(t, NewUnknownFlagError('x').Dump(&buf))
	require.Equal(t, "?GREP-E-Unknown flag\n"+
		"Usage: grep [-cfnv] pattern [file ...].  grep ? for help\n", buf.String())

	buf.Reset()
	require.NoError(t, ErrNoPattern.Dump(&buf))
	require.Equal(t, "?GREP-E-No pattern\n"+Usage+"\n", buf.String())
}

func TestError(t *testing.T) {
	err := ErrIO.NewError(io.ErrUnexpectedEOF, "read", "in.txt")
	require.EqualError(t, err, "IOError: read in.txt: unexpected EOF")
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	require.EqualError(t, &Error{Message: "x"}, "error: x")
}
