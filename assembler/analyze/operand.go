package analyze

import (
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/uasm/assembler/asm"
)

// ParseRegister parses a register token: 'r' followed by decimal digits only.
func ParseRegister(tok string) (asm.Reg, error) {
	if len(tok) < 2 || tok[0] != 'r' {
		return 0, asm.InvalidRegisterError{Token: tok}
	}

	for _, c := range []byte(tok[1:]) {
		if c < '0' || c > '9' {
			return 0, asm.InvalidRegisterError{Token: tok}
		}
	}

	v, err := strconv.ParseInt(tok[1:], 10, 64)
	if err != nil {
		return 0, asm.OutOfRangeError{Field: "register", Bits: 63, Text: tok[1:]}
	}

	return asm.Reg(v), nil
}

// ParseMemoryReference parses [rN] or [rN + K].
// Whitespace around the expression and around the inner tokens is ignored.
func ParseMemoryReference(expr string) (m asm.MemRef, err error) {
	expr = strings.TrimSpace(expr)

	if len(expr) < 2 || expr[0] != '[' || expr[len(expr)-1] != ']' {
		return m, asm.InvalidMemoryReferenceError{Expr: expr}
	}

	inner := strings.TrimSpace(expr[1 : len(expr)-1])
	parts := strings.Split(inner, "+")

	if len(parts) > 2 {
		return m, asm.InvalidMemoryExpressionError{Expr: expr}
	}

	m.Base, err = ParseRegister(strings.TrimSpace(parts[0]))
	if err != nil {
		return asm.MemRef{}, err
	}

	if len(parts) == 2 {
		m.Disp, err = parseDisp(expr, strings.TrimSpace(parts[1]))
		if err != nil {
			return asm.MemRef{}, err
		}
	}

	return m, nil
}

func parseDisp(expr, s string) (asm.Disp, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, asm.OutOfRangeError{Field: "displacement", Bits: 64, Text: s}
	}
	if err != nil {
		return 0, asm.InvalidMemoryExpressionError{Expr: expr}
	}

	return asm.Disp(v), nil
}
