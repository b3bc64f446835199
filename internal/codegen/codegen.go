// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Package codegen generates Go source declaring precompiled grep patterns.
package codegen

import (
	"fmt"
	"go/token"
	"io"
	"strconv"

	"github.com/dave/jennifer/jen"

	grep "github.com/thaliaarchi/decus-grep"
)

const grepPath = "github.com/thaliaarchi/decus-grep"

// Entry is a pattern to embed. Name is the Go identifier of the generated
// variable.
type Entry struct {
	Name   string
	Source string
}

// NewFile compiles every entry with limit and returns a file declaring one
// *grep.Pattern variable per entry, in order.
func NewFile(pkg string, entries []Entry, limit int) (*jen.File, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by grepgen. DO NOT EDIT.")
	f.ImportName(grepPath, "grep")

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !token.IsIdentifier(e.Name) {
			return nil, fmt.Errorf("entry %q: invalid identifier", e.Name)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("entry %s: duplicate name", e.Name)
		}
		seen[e.Name] = true

		p, err := grep.Compile([]byte(e.Source), limit)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Name, err)
		}
		values := make([]jen.Code, 0, p.Len())
		for _, b := range p.Bytes() {
			values = append(values, jen.Lit(int(b)))
		}

		f.Commentf("%s matches %s.", e.Name, strconv.Quote(e.Source))
		f.Var().Id(e.Name).Op("=").Qual(grepPath, "MustFromBytes").Call(
			jen.Index().Byte().Values(values...),
		)
	}
	return f, nil
}

// Generate writes the file built by NewFile to w.
func Generate(w io.Writer, pkg string, entries []Entry, limit int) error {
	f, err := NewFile(pkg, entries, limit)
	if err != nil {
		return err
	}
	return f.Render(w)
}
