package grep_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	. "github.com/thaliaarchi/decus-grep"
)

const searchInput = "foo\nbar\nFood\n\nsnafu"

func TestSearcher(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		opts    Options
		file    string
		want    string
		count   int
	}{
		{name: "plain", pattern: "fo", want: "foo\nFood\n", count: 2},
		{name: "last line without newline", pattern: "u$", want: "snafu\n", count: 1},
		{name: "line numbers", pattern: "fo",
			opts: Options{LineNumbers: true}, want: "1\tfoo\n3\tFood\n", count: 2},
		{name: "invert", pattern: "o",
			opts: Options{Invert: true}, want: "bar\n\nsnafu\n", count: 3},
		{name: "count", pattern: "a", opts: Options{Count: true}, want: "2\n", count: 2},
		{name: "count without match", pattern: "xyz",
			opts: Options{Count: true}, want: "0\n"},
		{name: "file name", pattern: "fo", file: "in.txt",
			opts: Options{FileName: true}, want: "File in.txt:\nfoo\nFood\n", count: 2},
		{name: "file name without match", pattern: "xyz", file: "in.txt",
			opts: Options{FileName: true}, want: ""},
		{name: "file name and count", pattern: "fo", file: "in.txt",
			opts: Options{FileName: true, Count: true}, want: "File in.txt:\n2\n", count: 2},
		{name: "file name without name", pattern: "bar",
			opts: Options{FileName: true}, want: "bar\n", count: 1},
		{name: "all", pattern: "^:a*$", file: "x",
			opts: Options{FileName: true, LineNumbers: true, Invert: true},
			want: "File x:\n4\t\n", count: 1},
	}
	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			p := MustCompile(tC.pattern, DefaultLimit)
			var out bytes.Buffer
			s := NewSearcher(p, tC.opts, &out)
			n, err := s.Search(context.Background(), strings.NewReader(searchInput), tC.file)
			require.NoError(t, err)
			require.Equal(t, tC.count, n)
			require.Equal(t, tC.want, out.String())
		})
	}
}

func TestSearcherMatchError(t *testing.T) {
	var out bytes.Buffer
	s := NewSearcher(MustCompile("[^]", DefaultLimit), Options{}, &out)
	n, err := s.Search(context.Background(), strings.NewReader("\nabc\ndef\n"), "")
	require.True(t, errors.Is(err, NewBadOpcodeError(0)), "got %v", err)
	require.Zero(t, n)
	require.Empty(t, out.String())
}

func TestSearcherContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	s := NewSearcher(MustCompile("a", DefaultLimit), Options{}, &out)
	_, err := s.Search(ctx, strings.NewReader("a\na\n"), "")
	require.True(t, errors.Is(err, context.Canceled))
	require.Empty(t, out.String())
}

func TestSearcherReadError(t *testing.T) {
	errRead := errors.New("disk on fire")
	var out bytes.Buffer
	s := NewSearcher(MustCompile("a", DefaultLimit), Options{}, &out)
	_, err := s.Search(context.Background(), iotest.ErrReader(errRead), "f")
	require.True(t, errors.Is(err, errRead))
	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, "IOError", e.Name)
}
