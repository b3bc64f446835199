// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Options control what the Searcher prints.
type Options struct {
	// Count prints only the number of selected lines.
	Count bool
	// FileName prints "File <name>:" before the first output of a named
	// input.
	FileName bool
	// LineNumbers prefixes selected lines with their number and a tab.
	LineNumbers bool
	// Invert selects the lines that do not match.
	Invert bool
}

// Searcher runs a Pattern over the lines of its inputs and writes the
// selected lines.
type Searcher struct {
	pattern *Pattern
	opts    Options
	out     io.Writer
}

// NewSearcher returns a Searcher writing to out.
func NewSearcher(p *Pattern, opts Options, out io.Writer) *Searcher {
	return &Searcher{pattern: p, opts: opts, out: out}
}

// Search reads newline delimited lines from r and writes the selected ones.
// name is the input file name, empty for standard input. It returns the
// number of selected lines. A match error aborts the search. ctx is checked
// between lines.
func (s *Searcher) Search(ctx context.Context, r io.Reader, name string) (int, error) {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(s.out)
	printName := s.opts.FileName && name != ""

	var (
		count int
		lno   int
		out   []byte
	)
	for {
		if err := ctx.Err(); err != nil {
			_ = bw.Flush()
			return count, err
		}

		line, err := br.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			_ = bw.Flush()
			return count, ErrIO.NewError(err, "read", name)
		}
		line = bytes.TrimSuffix(line, []byte{'\n'})
		lno++

		matched, merr := s.pattern.IsMatch(line)
		if merr != nil {
			_ = bw.Flush()
			return count, merr
		}
		if matched == s.opts.Invert {
			continue
		}
		count++
		if s.opts.Count {
			continue
		}

		if printName {
			_, _ = fmt.Fprintf(bw, "File %s:\n", name)
			printName = false
		}
		out = out[:0]
		if s.opts.LineNumbers {
			out = strconv.AppendInt(out, int64(lno), 10)
			out = append(out, '\t')
		}
		out = append(out, line...)
		out = append(out, '\n')
		if _, err := bw.Write(out); err != nil {
			return count, ErrIO.NewError(err, "write")
		}
	}

	if s.opts.Count {
		if printName {
			_, _ = fmt.Fprintf(bw, "File %s:\n", name)
		}
		_, _ = fmt.Fprintf(bw, "%d\n", count)
	}
	if err := bw.Flush(); err != nil {
		return count, ErrIO.NewError(err, "write")
	}
	return count, nil
}
