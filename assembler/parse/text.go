package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/uasm/assembler/ast"
)

type (
	Const []byte

	// Reg is the register shape: 'r' and at least one decimal digit.
	Reg struct{}

	// Uint is an unsigned decimal digit sequence.
	Uint struct{}

	// Mem is '[', one or more bytes other than ']', and ']'.
	Mem struct{}
)

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return ast.Token{Base: ast.Base{Pos: st, End: st + len(p)}}, st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Reg) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != 'r' {
		return nil, st, errors.New("register expected")
	}

	i = skipDigits(b, st+1)
	if i == st+1 {
		return nil, st, errors.New("register number expected")
	}

	return ast.Reg{Base: ast.Base{Pos: st, End: i}}, i, nil
}

func (p Uint) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = skipDigits(b, st)
	if i == st {
		return nil, st, errors.New("Uint expected")
	}

	return ast.Int{Base: ast.Base{Pos: st, End: i}}, i, nil
}

func (p Mem) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '[' {
		return nil, st, errors.New("memory reference expected")
	}

	i = st + 1

	for i < len(b) && b[i] != ']' {
		i++
	}

	switch {
	case i == len(b):
		return nil, st, errors.New("unclosed memory reference")
	case i == st+1:
		return nil, st, errors.New("empty memory reference")
	}

	i++

	return ast.Mem{Base: ast.Base{Pos: st, End: i}}, i, nil
}

func skipDigits(b []byte, i int) int {
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	return i
}
