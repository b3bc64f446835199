package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	grep "github.com/thaliaarchi/decus-grep"
)

func TestParseArgs(t *testing.T) {
	var out bytes.Buffer
	cmd, err := parseArgs([]string{"-Cn", "fo*", "a.txt", "-v", "b.txt"}, &out)
	require.NoError(t, err)
	require.Equal(t, 1, cmd.cflag)
	require.Equal(t, 1, cmd.nflag)
	require.Equal(t, 1, cmd.vflag)
	require.Equal(t, []byte("fo*"), cmd.pattern)
	require.Equal(t, []string{"a.txt", "b.txt"}, cmd.files)
	// names are printed by default when files are given
	require.Equal(t, 1, cmd.fflag)
	require.Empty(t, out.String())

	cmd, err = parseArgs([]string{"-f", "x", "a.txt"}, &out)
	require.NoError(t, err)
	require.False(t, cmd.options().FileName)

	cmd, err = parseArgs([]string{"-f", "x"}, &out)
	require.NoError(t, err)
	require.True(t, cmd.options().FileName)

	cmd, err = parseArgs([]string{"?"}, &out)
	require.NoError(t, err)
	require.True(t, cmd.help)

	cmd, err = parseArgs([]string{"-", "x"}, &out)
	require.NoError(t, err)
	require.Equal(t, grep.Options{}, cmd.options())
}

func TestParseArgsErrors(t *testing.T) {
	var out bytes.Buffer
	_, err := parseArgs(nil, &out)
	require.True(t, errors.Is(err, grep.ErrNoArguments))

	_, err = parseArgs([]string{"-n", "-v"}, &out)
	require.True(t, errors.Is(err, grep.ErrNoPattern))

	_, err = parseArgs([]string{"-nx", "pat"}, &out)
	require.True(t, errors.Is(err, grep.NewUnknownFlagError('x')))
	require.EqualError(t, err, `unknown flag "-x"`)

	// help is written before the bad flag is seen
	_, err = parseArgs([]string{"-?z", "pat"}, &out)
	require.Error(t, err)
	require.Equal(t, grep.Documentation, out.String())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "apple\nbanana\ncherry\n")
	b := writeFile(t, dir, "b.txt", "avocado\nblueberry\n")
	missing := filepath.Join(dir, "missing.txt")

	testCases := []struct {
		name   string
		args   []string
		stdin  string
		stdout string
		stderr string
	}{
		{name: "stdin", args: []string{"an"}, stdin: "banana\nkiwi\nmango\n",
			stdout: "banana\nmango\n"},
		{name: "stdin count", args: []string{"-c", "an"}, stdin: "banana\nkiwi\n",
			stdout: "1\n"},
		{name: "one file", args: []string{"^a", a},
			stdout: "File " + a + ":\napple\n"},
		{name: "no file names", args: []string{"-f", "^a", a},
			stdout: "apple\n"},
		{name: "files", args: []string{"-n", "r+y$", a, b},
			stdout: "File " + a + ":\n3\tcherry\nFile " + b + ":\n2\tblueberry\n"},
		{name: "count files", args: []string{"-cf", "a", a, b},
			stdout: "2\n1\n"},
		{name: "missing file", args: []string{"o", missing, b},
			stdout: "File " + b + ":\navocado\n", stderr: missing + ": cannot open\n"},
		{name: "debug", args: []string{"-d", "a"}, stdin: "a\n",
			stdout: "\\1 a \\17 \\0 \na\n"},
		{name: "help", args: []string{"?"},
			stdout: grep.Documentation + grep.PatternDocumentation + "\n"},
	}
	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tC.args, strings.NewReader(tC.stdin),
				&stdout, &stderr)
			require.NoError(t, err)
			require.Equal(t, tC.stdout, stdout.String())
			require.Equal(t, tC.stderr, stderr.String())
		})
	}
}

func TestRunErrors(t *testing.T) {
	testCases := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "no arguments", want: "?GREP-E-No arguments\n" + grep.Usage + "\n"},
		{name: "unknown flag", args: []string{"-q", "x"},
			want: "?GREP-E-Unknown flag\n" + grep.Usage + "\n"},
		{name: "bad pattern", args: []string{"[abc"},
			want: "-GREP-E-Unterminated class, pattern is\"[abc\"\n" +
				"-GREP-E-Stopped at byte 4, 'c'\n?GREP-E-Bad pattern\n"},
		{name: "complex pattern", args: []string{strings.Repeat("x", 200)},
			want: "Pattern too complex\n"},
		{name: "match error", args: []string{"[^]"}, stdin: "abc\n",
			want: "grep: bad opcode '\\0'\n"},
	}
	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tC.args, strings.NewReader(tC.stdin),
				&stdout, &stderr)
			require.Error(t, err)
			report(&stderr, err)
			require.Equal(t, tC.want, stderr.String())
		})
	}
}
