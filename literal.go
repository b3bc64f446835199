// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package grep

import (
	"bytes"
	"sync"

	"github.com/coregx/ahocorasick"
)

// literalFilter answers IsMatch for patterns made only of CHAR atoms. Such
// patterns never read past the terminator, so a substring search over the
// folded line up to the first NUL gives the same result as the VM.
type literalFilter struct {
	literal   []byte
	automaton *ahocorasick.Automaton
}

var foldPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 512)
		return &b
	},
}

// literalBytes returns the literal of bytecode made of CHAR atoms followed
// by ENDPAT and a trailing NUL. Operands must be folded and non-zero,
// otherwise the VM semantics differ from a substring search.
func literalBytes(pbuf []byte) ([]byte, bool) {
	n := len(pbuf)
	if n < 4 || pbuf[n-2] != OpEndPat || pbuf[n-1] != 0 || (n-2)%2 != 0 {
		return nil, false
	}
	lit := make([]byte, 0, (n-2)/2)
	for i := 0; i < n-2; i += 2 {
		op, c := pbuf[i], pbuf[i+1]
		if op != OpChar || c == 0 || toLower(c) != c {
			return nil, false
		}
		lit = append(lit, c)
	}
	return lit, true
}

func newLiteralFilter(pbuf []byte) *literalFilter {
	lit, ok := literalBytes(pbuf)
	if !ok {
		return nil
	}
	builder := ahocorasick.NewBuilder()
	builder.AddPattern(lit)
	automaton, err := builder.Build()
	if err != nil {
		return nil
	}
	return &literalFilter{literal: lit, automaton: automaton}
}

func (f *literalFilter) isMatch(line []byte) bool {
	if i := bytes.IndexByte(line, 0); i >= 0 {
		line = line[:i]
	}
	if len(line) < len(f.literal) {
		return false
	}

	bp := foldPool.Get().(*[]byte)
	folded := (*bp)[:0]
	for _, c := range line {
		folded = append(folded, toLower(c))
	}
	ok := f.automaton.IsMatch(folded)
	*bp = folded
	foldPool.Put(bp)
	return ok
}
