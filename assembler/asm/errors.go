package asm

import "fmt"

type (
	InvalidRegisterError struct {
		Token string
	}

	InvalidMemoryReferenceError struct {
		Expr string
	}

	InvalidMemoryExpressionError struct {
		Expr string
	}

	// InvalidSyntaxError is returned when a line starting with a known
	// mnemonic does not match that mnemonic's grammar.
	InvalidSyntaxError struct {
		Mnemonic string
		Line     string
		Pos      int // where the grammar stopped matching

		Err error
	}

	UnknownCommandError struct {
		Line string
	}

	// OutOfRangeError reports a value that does not fit its field.
	// Text holds the literal when it could not even be represented as Value.
	OutOfRangeError struct {
		Field string
		Bits  uint
		Value int64
		Text  string
	}
)

func (e InvalidRegisterError) Error() string {
	return fmt.Sprintf("invalid register: %s", e.Token)
}

func (e InvalidMemoryReferenceError) Error() string {
	return fmt.Sprintf("invalid memory reference: %s", e.Expr)
}

func (e InvalidMemoryExpressionError) Error() string {
	return fmt.Sprintf("invalid memory expression: %s", e.Expr)
}

func (e InvalidSyntaxError) Error() string {
	return fmt.Sprintf("invalid %s syntax: %s", e.Mnemonic, e.Line)
}

func (e InvalidSyntaxError) Unwrap() error { return e.Err }

func (e UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Line)
}

func (e OutOfRangeError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%s out of range: %s does not fit in %d bits", e.Field, e.Text, e.Bits)
	}

	return fmt.Sprintf("%s out of range: %d does not fit in %d bits", e.Field, e.Value, e.Bits)
}
