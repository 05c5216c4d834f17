package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/uasm/assembler/ast"
)

type (
	Spaces uint64

	Spacer struct {
		Spaces Spaces
		Of     Parser
	}
)

var (
	SpaceTab = NewSpaces(' ', '\t')
	SpaceAll = NewSpaces(' ', '\t', '\v', '\f', '\r', '\n')
)

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Is(c byte) bool {
	return c < 64 && s&(1<<c) != 0
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && s.Is(b[i]) {
		i++
	}

	return
}

// TrimRight cuts trailing spaces off b.
func (s Spaces) TrimRight(b []byte) []byte {
	i := len(b)

	for i > 0 && s.Is(b[i-1]) {
		i--
	}

	return b[:i]
}

func Spaced(p Parser, ss Spaces) Spacer {
	return Spacer{
		Spaces: ss,
		Of:     p,
	}
}

func (p Spacer) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := p.Spaces.Skip(b, st)

	x, i, err = p.Of.Parse(ctx, b, vst)
	if err != nil {
		if i == vst {
			i = st
		}

		err = errors.Wrap(err, "%T", p.Of)
	}

	return
}
