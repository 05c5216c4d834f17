package set

import "tlog.app/go/tlog/tlwire"

// Mask is a set of bit positions of a 64-bit word.
type Mask uint64

// Range returns bits [lo, lo+n) that fall inside the word.
func Range(lo, n uint) Mask {
	if n == 0 || lo >= 64 {
		return 0
	}

	if n >= 64 {
		return ^Mask(0) << lo
	}

	return (1<<n - 1) << lo
}

func (m Mask) Overlaps(x Mask) bool {
	return m&x != 0
}

func (m Mask) Contains(x Mask) bool {
	return m&x == x
}

func (m Mask) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendFormat(b, "%#x", uint64(m))
}
