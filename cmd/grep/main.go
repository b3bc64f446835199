// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Command grep searches files for lines matching a pattern, with the flags,
// pattern syntax and diagnostics of the historical DECUS grep.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	grep "github.com/thaliaarchi/decus-grep"
)

// command holds the parsed command line. Flags are counters, as a flag may
// be given more than once.
type command struct {
	cflag   int
	dflag   int
	fflag   int
	nflag   int
	vflag   int
	help    bool
	pattern []byte
	files   []string
}

// parseArgs parses args without the program name. Every argument starting
// with '-' is a group of flags, wherever it appears. The first other
// argument is the pattern and the rest are files. A '?' flag writes the help
// text to w as soon as it is seen.
func parseArgs(args []string, w io.Writer) (*command, error) {
	if len(args) == 0 {
		return nil, grep.ErrNoArguments
	}
	if len(args) == 1 && args[0] == "?" {
		return &command{help: true}, nil
	}

	cmd := &command{}
	var rest []string
	for _, arg := range args {
		if len(arg) == 0 || arg[0] != '-' {
			rest = append(rest, arg)
			continue
		}
		for i := 1; i < len(arg); i++ {
			switch c := arg[i]; c {
			case '?':
				_, _ = io.WriteString(w, grep.Documentation)
			case 'c', 'C':
				cmd.cflag++
			case 'd', 'D':
				cmd.dflag++
			case 'f', 'F':
				cmd.fflag++
			case 'n', 'N':
				cmd.nflag++
			case 'v', 'V':
				cmd.vflag++
			default:
				return nil, grep.NewUnknownFlagError(c)
			}
		}
	}

	if len(rest) == 0 {
		return nil, grep.ErrNoPattern
	}
	cmd.pattern = []byte(rest[0])
	cmd.files = rest[1:]
	if len(cmd.files) > 0 {
		// -f reverses the default of printing names when files are given
		cmd.fflag ^= 1
	}
	return cmd, nil
}

func (cmd *command) options() grep.Options {
	return grep.Options{
		Count:       cmd.cflag > 0,
		FileName:    cmd.fflag > 0,
		LineNumbers: cmd.nflag > 0,
		Invert:      cmd.vflag > 0,
	}
}

// run executes the command. Unopenable files are reported to stderr and
// skipped. Pattern, usage and match errors are returned.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd, err := parseArgs(args, stdout)
	if err != nil {
		return err
	}
	if cmd.help {
		_, _ = io.WriteString(stdout, grep.Documentation)
		_, _ = io.WriteString(stdout, grep.PatternDocumentation+"\n")
		return nil
	}

	p, err := grep.Compile(cmd.pattern, grep.DefaultLimit)
	if err != nil {
		return err
	}
	if cmd.dflag > 0 {
		if err := p.Debug(stdout); err != nil {
			return err
		}
	}

	s := grep.NewSearcher(p, cmd.options(), stdout)
	if len(cmd.files) == 0 {
		_, err := s.Search(ctx, stdin, "")
		return err
	}
	for _, name := range cmd.files {
		f, err := os.Open(name)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "%s: cannot open\n", name)
			continue
		}
		_, err = s.Search(ctx, f, name)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// dumper is implemented by errors with a historical diagnostic format.
type dumper interface {
	Dump(w io.Writer) error
}

func report(w io.Writer, err error) {
	var d dumper
	if errors.As(err, &d) {
		_ = d.Dump(w)
		return
	}
	_, _ = fmt.Fprintf(w, "grep: %v\n", err)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	checkErr(err, cancel)
}

func checkErr(err error, fn func()) {
	if err == nil {
		return
	}

	defer os.Exit(1)
	report(os.Stderr, err)
	if fn != nil {
		fn()
	}
}
