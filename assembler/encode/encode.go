package encode

import (
	"encoding/binary"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/uasm/assembler/asm"
	"github.com/slowlang/uasm/assembler/set"
)

type (
	// Layout places the fields of an instruction in a little-endian word.
	// Fields go in the same order as asm.Instr.Fields returns them.
	Layout struct {
		Op     asm.Op
		Size   int // bytes
		Fields []Field
	}

	Field struct {
		Key   string
		Name  string
		Bits  uint
		Shift uint
	}
)

var layouts = map[asm.Op]Layout{
	asm.OpLoad: {
		Op:   asm.OpLoad,
		Size: 6,
		Fields: []Field{
			{Key: "A", Name: "opcode", Bits: 6, Shift: 0},
			{Key: "B", Name: "destReg", Bits: 7, Shift: 6},
			{Key: "C", Name: "constant", Bits: 28, Shift: 13},
		},
	},
	asm.OpRead: {
		Op:   asm.OpRead,
		Size: 4,
		Fields: []Field{
			{Key: "A", Name: "opcode", Bits: 6, Shift: 0},
			{Key: "B", Name: "baseReg", Bits: 7, Shift: 6},
			{Key: "C", Name: "offset", Bits: 6, Shift: 13},
			{Key: "D", Name: "destReg", Bits: 7, Shift: 19},
		},
	},
	asm.OpWrite: {
		Op:   asm.OpWrite,
		Size: 4,
		Fields: []Field{
			{Key: "A", Name: "opcode", Bits: 6, Shift: 0},
			{Key: "B", Name: "offset", Bits: 6, Shift: 6},
			{Key: "C", Name: "srcReg", Bits: 7, Shift: 12},
			{Key: "D", Name: "baseReg", Bits: 7, Shift: 19},
		},
	},
	asm.OpSgn: {
		Op:   asm.OpSgn,
		Size: 8,
		Fields: []Field{
			{Key: "A", Name: "opcode", Bits: 6, Shift: 0},
			{Key: "B", Name: "dstAddr", Bits: 26, Shift: 6},
			{Key: "C", Name: "srcAddr", Bits: 26, Shift: 32},
		},
	},
}

func init() {
	for _, op := range asm.Ops {
		l, ok := layouts[op]
		if !ok {
			panic("no layout for " + op.String())
		}

		if err := l.Check(); err != nil {
			panic(err)
		}
	}
}

// LayoutOf returns the layout of op.
func LayoutOf(op asm.Op) (Layout, bool) {
	l, ok := layouts[op]

	return l, ok
}

// Size is the encoded size of op in bytes, or 0 for unknown ops.
func Size(op asm.Op) int {
	return layouts[op].Size
}

// Encode appends the encoded x to b.
// Nothing is appended if any field value does not fit its width.
func Encode(b []byte, x asm.Instr) ([]byte, error) {
	l, ok := layouts[x.Op()]
	if !ok {
		return b, errors.New("unsupported instruction: %T", x)
	}

	vals := x.Fields()
	if len(vals) != len(l.Fields) {
		return b, errors.New("%v: %d fields, layout has %d", l.Op, len(vals), len(l.Fields))
	}

	var w uint64

	for j, f := range l.Fields {
		v := vals[j]

		if v.Key != f.Key {
			return b, errors.New("%v: field %d is %v, layout expects %v", l.Op, j, v.Key, f.Key)
		}

		if v.Value < 0 || v.Value >= int64(1)<<f.Bits {
			return b, asm.OutOfRangeError{Field: f.Name, Bits: f.Bits, Value: v.Value}
		}

		w |= uint64(v.Value) << f.Shift
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], w)

	return append(b, buf[:l.Size]...), nil
}

// Check verifies the layout: fields fit the word and do not overlap,
// and the opcode fits its field.
func (l Layout) Check() error {
	if l.Size <= 0 || l.Size > 8 {
		return errors.New("%v: bad word size %d", l.Op, l.Size)
	}

	if len(l.Fields) == 0 || l.Fields[0].Key != "A" {
		return errors.New("%v: opcode field expected first", l.Op)
	}

	word := set.Range(0, uint(l.Size)*8)

	var used set.Mask

	for _, f := range l.Fields {
		m := set.Range(f.Shift, f.Bits)

		if f.Bits == 0 || f.Shift+f.Bits > uint(l.Size)*8 || !word.Contains(m) {
			return errors.New("%v: field %v [%d:%d] outside of %d-byte word", l.Op, f.Name, f.Shift, f.Shift+f.Bits, l.Size)
		}

		if used.Overlaps(m) {
			return errors.New("%v: field %v overlaps %#x", l.Op, f.Name, uint64(used&m))
		}

		used |= m
	}

	if uint64(l.Op) >= 1<<l.Fields[0].Bits {
		return errors.New("%v: opcode does not fit %d bits", l.Op, l.Fields[0].Bits)
	}

	tlog.V("layout").Printw("layout checked", "op", l.Op, "size", l.Size, "used", used, "free", word&^used)

	return nil
}
