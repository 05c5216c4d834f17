package analyze

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"tlog.app/go/errors"

	"github.com/slowlang/uasm/assembler/asm"
	"github.com/slowlang/uasm/assembler/ast"
	"github.com/slowlang/uasm/assembler/parse"
)

type (
	UnsupportedASTNodeError struct{ T ast.Node }
)

// ParseLine turns one source line into an instruction.
// Blank and comment lines result in nil instruction and nil error.
// Errors are returned as they are, without wrapping.
func ParseLine(ctx context.Context, line []byte) (asm.Instr, error) {
	x, err := parse.ParseLine(ctx, line)
	if err != nil || x == nil {
		return nil, err
	}

	return Analyze(ctx, line, x)
}

// Analyze converts a node parsed from b to an instruction.
func Analyze(ctx context.Context, b []byte, x ast.Node) (asm.Instr, error) {
	switch x := x.(type) {
	case ast.Load:
		dst, err := ParseRegister(x.Dst.Text(b))
		if err != nil {
			return nil, err
		}

		c, err := parseWord(x.Const.Text(b))
		if err != nil {
			return nil, err
		}

		return asm.Load{Dst: dst, Const: c}, nil
	case ast.Read:
		dst, err := ParseRegister(x.Dst.Text(b))
		if err != nil {
			return nil, err
		}

		m, err := ParseMemoryReference(x.Src.Text(b))
		if err != nil {
			return nil, err
		}

		return asm.Read{Dst: dst, Base: m.Base, Off: m.Disp}, nil
	case ast.Write:
		m, err := ParseMemoryReference(x.Dst.Text(b))
		if err != nil {
			return nil, err
		}

		src, err := ParseRegister(x.Src.Text(b))
		if err != nil {
			return nil, err
		}

		return asm.Write{Src: src, Base: m.Base, Off: m.Disp}, nil
	case ast.Sgn:
		src, err := ParseMemoryReference(x.Src.Text(b))
		if err != nil {
			return nil, err
		}

		dst, err := ParseMemoryReference(x.Dst.Text(b))
		if err != nil {
			return nil, err
		}

		return asm.Sgn{Dst: asm.Addr(dst.Base), Src: asm.Addr(src.Base)}, nil
	default:
		return nil, NewUnsupportedASTNode(x)
	}
}

func parseWord(s string) (asm.Word, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, asm.OutOfRangeError{Field: "constant", Bits: 63, Text: s}
	}
	if err != nil {
		return 0, errors.Wrap(err, "parse constant")
	}

	return asm.Word(v), nil
}

func NewUnsupportedASTNode(x ast.Node) UnsupportedASTNodeError {
	return UnsupportedASTNodeError{
		T: x,
	}
}

func (e UnsupportedASTNodeError) Error() string {
	return fmt.Sprintf("unsupported node: %v", reflect.TypeOf(e.T))
}
