// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

//go:build !js
// +build !js

// Command grepdbg is an interactive debugger for grep patterns. It compiles
// patterns, shows their bytecode and traces matching.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	grep "github.com/thaliaarchi/decus-grep"
	"github.com/thaliaarchi/decus-grep/encoder"
)

const (
	title        = "grepdbg"
	promptPrefix = ">>> "
)

var (
	initialLimit int
	traceEnabled bool
)

// Sentinel errors for repl.
var (
	errExit  = errors.New("exit")
	errReset = errors.New("reset")
)

type suggest struct {
	text        string
	description string
}

var suggestions = []suggest{
	{text: ".commands", description: "Print REPL commands"},
	{text: ".pattern", description: "Compile a pattern: .pattern <source>"},
	{text: ".limit", description: "Set the compiled size limit, 0 for none: .limit <n>"},
	{text: ".bytecode", description: "Print Bytecode"},
	{text: ".debug", description: "Print Bytecode in the -d format"},
	{text: ".trace", description: "Trace compiling and matching: .trace on|off"},
	{text: ".anchored", description: "Match at one offset: .anchored <n> <text>"},
	{text: ".save", description: "Save the compiled pattern: .save <file>"},
	{text: ".load", description: "Load a compiled pattern: .load <file>"},
	{text: ".reset", description: "Reset"},
	{text: ".exit", description: "Exit"},
}

type repl struct {
	ctx      context.Context
	out      io.Writer
	commands map[string]func(string) error
	source   []byte
	limit    int
	trace    bool
	pattern  *grep.Pattern
}

func newREPL(ctx context.Context, stdout io.Writer) *repl {
	if stdout == nil {
		stdout = os.Stdout
	}

	r := &repl{
		ctx:   ctx,
		out:   stdout,
		limit: initialLimit,
		trace: traceEnabled,
	}
	r.commands = map[string]func(string) error{
		".commands": r.cmdCommands,
		".pattern":  r.cmdPattern,
		".limit":    r.cmdLimit,
		".bytecode": r.cmdBytecode,
		".debug":    r.cmdDebug,
		".trace":    r.cmdTrace,
		".anchored": r.cmdAnchored,
		".save":     r.cmdSave,
		".load":     r.cmdLoad,
		".reset":    func(string) error { return errReset },
		".exit":     func(string) error { return errExit },
	}
	return r
}

// argument returns the text after the command name and one space.
func argument(line string) string {
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return ""
	}
	return line[i+1:]
}

func (r *repl) cmdCommands(_ string) error {
	var maxtext int
	for _, v := range suggestions {
		if maxtext < len(v.text) {
			maxtext = len(v.text)
		}
	}

	const spaces = "                                                           "
	for _, cmd := range suggestions {
		_, _ = fmt.Fprintf(r.out, "%s%s\t%s\n",
			cmd.text, spaces[:maxtext-len(cmd.text)], cmd.description)
	}
	return nil
}

func (r *repl) cmdPattern(line string) error {
	r.source = []byte(argument(line))
	r.compile()
	return nil
}

func (r *repl) compile() {
	opts := grep.DefaultCompilerOptions
	opts.Limit = r.limit
	if r.trace {
		opts.Trace = r.out
	}

	p, err := grep.CompileWithOptions(r.source, opts)
	if err != nil {
		r.pattern = nil
		var perr *grep.PatternError
		if errors.As(err, &perr) {
			_ = perr.Dump(r.out)
			return
		}
		r.writeString(fmt.Sprintf("!   %v", err))
		return
	}
	r.pattern = p
	r.writeString(fmt.Sprintf("compiled %d bytes", p.Len()))
}

func (r *repl) cmdLimit(line string) error {
	n, err := strconv.Atoi(strings.TrimSpace(argument(line)))
	if err != nil || n < 0 {
		r.writeString("!   limit must be a non-negative integer")
		return nil
	}
	r.limit = n
	if r.source != nil {
		r.compile()
	}
	return nil
}

func (r *repl) cmdBytecode(_ string) error {
	if !r.hasPattern() {
		return nil
	}
	_, _ = fmt.Fprint(r.out, r.pattern.String())
	return nil
}

func (r *repl) cmdDebug(_ string) error {
	if !r.hasPattern() {
		return nil
	}
	return r.pattern.Debug(r.out)
}

func (r *repl) cmdTrace(line string) error {
	switch strings.TrimSpace(argument(line)) {
	case "on":
		r.trace = true
	case "off":
		r.trace = false
	default:
		r.writeString("!   usage: .trace on|off")
		return nil
	}
	r.writeString("trace " + strconv.FormatBool(r.trace))
	return nil
}

func (r *repl) cmdAnchored(line string) error {
	if !r.hasPattern() {
		return nil
	}
	arg := argument(line)
	offs, text := arg, ""
	if i := strings.IndexByte(arg, ' '); i >= 0 {
		offs, text = arg[:i], arg[i+1:]
	}
	offset, err := strconv.Atoi(offs)
	if err != nil {
		r.writeString("!   usage: .anchored <n> <text>")
		return nil
	}

	vm := r.newVM()
	ok, err := vm.IsMatchAnchored([]byte(text), offset)
	r.writeResult(ok, err)
	return nil
}

func (r *repl) cmdSave(line string) error {
	if !r.hasPattern() {
		return nil
	}
	name := strings.TrimSpace(argument(line))
	f, err := os.Create(name)
	if err != nil {
		r.writeString(fmt.Sprintf("!   %v", err))
		return nil
	}
	err = encoder.EncodePatternTo(r.pattern, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		r.writeString(fmt.Sprintf("!   %v", err))
		return nil
	}
	r.writeString(fmt.Sprintf("saved %d bytes to %s", r.pattern.Len(), name))
	return nil
}

func (r *repl) cmdLoad(line string) error {
	name := strings.TrimSpace(argument(line))
	f, err := os.Open(name)
	if err != nil {
		r.writeString(fmt.Sprintf("!   %v", err))
		return nil
	}
	defer f.Close()

	p, err := encoder.DecodePatternFrom(f)
	if err != nil {
		r.writeString(fmt.Sprintf("!   %v", err))
		return nil
	}
	r.pattern = p
	r.source = nil
	r.writeString(fmt.Sprintf("loaded %d bytes from %s", p.Len(), name))
	return nil
}

func (r *repl) hasPattern() bool {
	if r.pattern == nil {
		r.writeString("!   no pattern, use .pattern <source>")
		return false
	}
	return true
}

func (r *repl) newVM() *grep.VM {
	vm := grep.NewVM(r.pattern)
	if r.trace {
		vm.SetTrace(r.out)
	}
	return vm
}

func (r *repl) writeResult(ok bool, err error) {
	switch {
	case err != nil:
		r.writeString(fmt.Sprintf("!   %v", err))
	case ok:
		r.writeString("match")
	default:
		r.writeString("no match")
	}
}

func (r *repl) writeString(msg string) {
	_, _ = fmt.Fprint(r.out, msg)
	_, _ = fmt.Fprintln(r.out)
}

func (r *repl) execute(line string) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	if len(line) > 0 && line[0] == '.' {
		cmd := strings.Fields(line)[0]
		if fn, ok := r.commands[cmd]; ok {
			return fn(line)
		}
		r.writeString(fmt.Sprintf("!   unknown command %s, see .commands", cmd))
		return nil
	}
	if !r.hasPattern() {
		return nil
	}
	vm := r.newVM()
	ok, err := vm.IsMatch([]byte(line))
	r.writeResult(ok, err)
	return nil
}

func (r *repl) printInfo() {
	_, _ = fmt.Fprintln(r.out, "grepdbg, DECUS grep pattern debugger")
	_, _ = fmt.Fprintln(r.out, "https://github.com/thaliaarchi/decus-grep",
		"Build:", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintln(r.out, "Write .commands to list available commands")
	_, _ = fmt.Fprintln(r.out, "Other lines are matched against the pattern")
	_, _ = fmt.Fprintln(r.out, "Press Ctrl+D or write .exit command to exit")
	_, _ = fmt.Fprintln(r.out)
}

func (r *repl) run(history io.Reader) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)
	_, err := line.ReadHistory(history)
	if err != nil {
		err = &grep.Error{Message: "failed history read", Cause: err}
		return err
	}
	r.printInfo()

	var str string

	for err == nil {
		str, err = line.Prompt(promptPrefix)
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				err = nil
				break
			}
			err = &grep.Error{Message: "prompt error", Cause: err}
			break
		}
		err = r.execute(str)
		if err == nil {
			if v := strings.TrimSpace(str); len(v) > 0 {
				line.AppendHistory(str)
			}
		}
	}
	return err
}

func complete(line string) (completions []string) {
	var contains []string
	for _, v := range suggestions {
		if strings.HasPrefix(v.text, line) {
			completions = append(completions, v.text)
		} else if strings.Contains(v.text, line) {
			contains = append(contains, v.text)
		}
	}
	completions = append(completions, contains...)
	return
}

func parseFlags(flagset *flag.FlagSet, args []string) (pattern string, err error) {
	flagset.IntVar(&initialLimit, "limit", grep.DefaultLimit,
		"Compiled pattern size limit in bytes, 0 for no limit")
	flagset.BoolVar(&traceEnabled, "trace", false, "Trace compiling and matching")

	flagset.Usage = func() {
		_, _ = fmt.Fprint(flagset.Output(),
			"Usage: grepdbg [flags] [pattern]\n\n",
			"Starts an interactive pattern debugger, compiling pattern if given\n",
			"\nFlags:\n",
		)
		flagset.PrintDefaults()
	}

	if err = flagset.Parse(args); err != nil {
		return
	}
	if flagset.NArg() > 1 {
		err = errors.New("too many arguments")
		return
	}
	pattern = flagset.Arg(0)
	return
}

func hasMode(f *os.File, m os.FileMode) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&m == m
}

func setTerminalTitle(title string) {
	if runtime.GOOS == "windows" {
		return
	}
	_, _ = os.Stdout.Write([]byte{0x1b, ']', '2', ';'})
	_, _ = os.Stdout.Write([]byte(title))
	_, _ = os.Stdout.Write([]byte{0x07})
}

func main() {
	pattern, err := parseFlags(flag.CommandLine, os.Args[1:])
	checkErr(err, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !hasMode(os.Stdout, os.ModeCharDevice) {
		_, _ = fmt.Fprintln(os.Stderr, "not a terminal")
		os.Exit(1)
	}
	setTerminalTitle(title)

	const history = ".pattern ^[a-z]+:d*$\n" +
		".trace on\n" +
		".anchored 0 abc123\n" +
		".bytecode\n"

L:
	for {
		r := newREPL(ctx, os.Stdout)
		if pattern != "" {
			_ = r.execute(".pattern " + pattern)
		}
		err = r.run(strings.NewReader(history))
		if err != nil {
			switch err {
			case errReset:
				continue
			case errExit:
				break L
			}
			checkErr(err, cancel)
		}
		break
	}
}

func checkErr(err error, fn func()) {
	if err == nil {
		return
	}

	defer os.Exit(1)
	_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
	if fn != nil {
		fn()
	}
}
