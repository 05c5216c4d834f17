package asm

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	Op uint8

	Reg  int64
	Word int64
	Disp int64
	Addr int64

	// Instr is one of Load, Read, Write or Sgn.
	Instr interface {
		Op() Op

		// Fields lists the encoded fields in layout order, opcode first.
		Fields() []Field

		instr()
	}

	Field struct {
		Key   string
		Name  string
		Value int64
	}

	Load struct {
		Dst   Reg
		Const Word
	}

	Read struct {
		Dst  Reg
		Base Reg
		Off  Disp
	}

	Write struct {
		Src  Reg
		Base Reg
		Off  Disp
	}

	// Sgn addresses are base register indexes, displacement is never encoded.
	Sgn struct {
		Dst Addr
		Src Addr
	}

	MemRef struct {
		Base Reg
		Disp Disp
	}
)

const (
	OpWrite Op = 11
	OpRead  Op = 37
	OpLoad  Op = 49
	OpSgn   Op = 63
)

// Ops lists all the opcodes in mnemonic order.
var Ops = []Op{OpLoad, OpRead, OpWrite, OpSgn}

func (Load) Op() Op  { return OpLoad }
func (Read) Op() Op  { return OpRead }
func (Write) Op() Op { return OpWrite }
func (Sgn) Op() Op   { return OpSgn }

func (Load) instr()  {}
func (Read) instr()  {}
func (Write) instr() {}
func (Sgn) instr()   {}

func (x Load) Fields() []Field {
	return []Field{
		opField(OpLoad),
		{Key: "B", Name: "destReg", Value: int64(x.Dst)},
		{Key: "C", Name: "constant", Value: int64(x.Const)},
	}
}

func (x Read) Fields() []Field {
	return []Field{
		opField(OpRead),
		{Key: "B", Name: "baseReg", Value: int64(x.Base)},
		{Key: "C", Name: "offset", Value: int64(x.Off)},
		{Key: "D", Name: "destReg", Value: int64(x.Dst)},
	}
}

func (x Write) Fields() []Field {
	return []Field{
		opField(OpWrite),
		{Key: "B", Name: "offset", Value: int64(x.Off)},
		{Key: "C", Name: "srcReg", Value: int64(x.Src)},
		{Key: "D", Name: "baseReg", Value: int64(x.Base)},
	}
}

func (x Sgn) Fields() []Field {
	return []Field{
		opField(OpSgn),
		{Key: "B", Name: "dstAddr", Value: int64(x.Dst)},
		{Key: "C", Name: "srcAddr", Value: int64(x.Src)},
	}
}

func opField(op Op) Field {
	return Field{Key: "A", Name: "opcode", Value: int64(op)}
}

// Mnemonic returns the source keyword of op or "" if op is not defined.
func (op Op) Mnemonic() string {
	switch op {
	case OpLoad:
		return "load"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpSgn:
		return "sgn"
	default:
		return ""
	}
}

func (op Op) String() string {
	if m := op.Mnemonic(); m != "" {
		return m
	}

	return fmt.Sprintf("op(%d)", uint8(op))
}

func (op Op) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendFormat(b, "%v", op)
}
