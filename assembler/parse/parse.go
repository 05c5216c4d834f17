package parse

import (
	"context"
	"fmt"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/uasm/assembler/asm"
	"github.com/slowlang/uasm/assembler/ast"
)

type (
	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	PartialReadError struct {
		End int
	}
)

const Comment = '#'

var grammars = []struct {
	Op     asm.Op
	Parser Parser
}{
	{asm.OpLoad, Load{}},
	{asm.OpRead, Read{}},
	{asm.OpWrite, Write{}},
	{asm.OpSgn, Sgn{}},
}

// ParseLine parses one source line into ast.Load, ast.Read, ast.Write or ast.Sgn.
// Blank and comment lines result in nil node and nil error.
// Node spans index into b.
func ParseLine(ctx context.Context, b []byte) (ast.Node, error) {
	st := SpaceAll.Skip(b, 0)
	b = SpaceAll.TrimRight(b)

	if st >= len(b) || b[st] == Comment {
		return nil, nil
	}

	line := string(b[st:])

	for _, g := range grammars {
		kw := g.Op.Mnemonic()

		if !keyword(b, st, kw) {
			continue
		}

		x, i, err := g.Parser.Parse(ctx, b, st)
		if err == nil {
			i = SpaceTab.Skip(b, i)

			if i < len(b) && b[i] != Comment {
				err = PartialReadError{End: i}
			}
		}
		if err != nil {
			i = SpaceTab.Skip(b, i)

			tlog.V("parse").Printw("syntax error", "op", g.Op, "line", line, "pos", i, "err", err, "from", loc.Caller(1))

			return nil, asm.InvalidSyntaxError{
				Mnemonic: kw,
				Line:     line,
				Pos:      i,
				Err:      err,
			}
		}

		tlog.V("parse").Printw("line parsed", "op", g.Op, "typ", tlog.NextAsType, x, "node", x, "from", loc.Caller(1))

		return x, nil
	}

	return nil, asm.UnknownCommandError{Line: line}
}

// keyword reports whether b at st is kw followed by a space.
func keyword(b []byte, st int, kw string) bool {
	i := st + len(kw)

	return i < len(b) && string(b[st:i]) == kw && SpaceTab.Is(b[i])
}

func (e PartialReadError) Error() string {
	return fmt.Sprintf("unexpected text at %d", e.End)
}
