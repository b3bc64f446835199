// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Command grepgen writes a Go file declaring precompiled grep patterns.
//
//	grepgen -pkg patterns -o patterns.go Word=ab Digits=^:d+$
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	grep "github.com/thaliaarchi/decus-grep"
	"github.com/thaliaarchi/decus-grep/internal/codegen"
)

type config struct {
	pkg     string
	output  string
	limit   int
	entries []codegen.Entry
}

func parseFlags(flagset *flag.FlagSet, args []string) (*config, error) {
	cfg := &config{}
	flagset.StringVar(&cfg.pkg, "pkg", "patterns", "Package name of the generated file")
	flagset.StringVar(&cfg.output, "o", "", "Output file, standard output if empty")
	flagset.IntVar(&cfg.limit, "limit", grep.DefaultLimit,
		"Compiled pattern size limit in bytes, 0 for no limit")

	flagset.Usage = func() {
		_, _ = fmt.Fprint(flagset.Output(),
			"Usage: grepgen [flags] name=pattern...\n\n",
			"Each pattern is compiled and declared as a *grep.Pattern variable\n",
			"\nFlags:\n",
		)
		flagset.PrintDefaults()
	}

	if err := flagset.Parse(args); err != nil {
		return nil, err
	}
	if flagset.NArg() == 0 {
		return nil, errors.New("no patterns")
	}
	for _, arg := range flagset.Args() {
		name, source, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q is not name=pattern", arg)
		}
		cfg.entries = append(cfg.entries, codegen.Entry{Name: name, Source: source})
	}
	return cfg, nil
}

func run(cfg *config, stdout io.Writer) error {
	var buf bytes.Buffer
	if err := codegen.Generate(&buf, cfg.pkg, cfg.entries, cfg.limit); err != nil {
		return err
	}
	if cfg.output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(cfg.output, buf.Bytes(), 0o644)
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	checkErr(err)
	checkErr(run(cfg, os.Stdout))
}

func checkErr(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "grepgen: %v\n", err)
	os.Exit(1)
}
