package codegen_test

import (
	"bytes"
	"errors"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"

	grep "github.com/thaliaarchi/decus-grep"
	"github.com/thaliaarchi/decus-grep/internal/codegen"
)

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	err := codegen.Generate(&buf, "patterns", []codegen.Entry{
		{Name: "Word", Source: "ab"},
		{Name: "digits", Source: "^:d+$"},
	}, grep.DefaultLimit)
	require.NoError(t, err)

	src := buf.String()
	require.Contains(t, src, "// Code generated by grepgen. DO NOT EDIT.")
	require.Contains(t, src, "package patterns")
	require.Contains(t, src, `"github.com/thaliaarchi/decus-grep"`)
	require.Contains(t, src, `// Word matches "ab".`)
	require.Contains(t, src,
		"var Word = grep.MustFromBytes([]byte{1, 97, 1, 98, 15, 0})")
	require.Contains(t, src,
		"var digits = grep.MustFromBytes([]byte{2, 8, 11, 15, 3, 15, 0})")

	_, err = parser.ParseFile(token.NewFileSet(), "patterns.go", buf.Bytes(), 0)
	require.NoError(t, err)
}

func TestGenerateErrors(t *testing.T) {
	var buf bytes.Buffer
	err := codegen.Generate(&buf, "p", []codegen.Entry{{Name: "Bad", Source: "[abc"}},
		grep.DefaultLimit)
	require.True(t, errors.Is(err, &grep.PatternError{Kind: grep.UnterminatedClass}))
	require.Contains(t, err.Error(), "entry Bad: ")

	err = codegen.Generate(&buf, "p", []codegen.Entry{{Name: "1x", Source: "a"}}, 0)
	require.EqualError(t, err, `entry "1x": invalid identifier`)

	err = codegen.Generate(&buf, "p", []codegen.Entry{
		{Name: "A", Source: "a"}, {Name: "A", Source: "b"},
	}, 0)
	require.EqualError(t, err, "entry A: duplicate name")

	err = codegen.Generate(&buf, "p", []codegen.Entry{{Name: "Long", Source: "abcd"}}, 8)
	require.True(t, errors.Is(err, &grep.PatternError{Kind: grep.ComplexPattern}))
	require.Zero(t, buf.Len())
}
