package ast

type (
	Node interface {
	}

	// Base is a byte span of the parsed line.
	Base struct {
		Pos int
		End int
	}

	Token struct {
		Base `tlog:",embed"`
	}

	Reg struct {
		Base `tlog:",embed"`
	}

	Int struct {
		Base `tlog:",embed"`
	}

	// Mem is a bracketed memory reference, brackets included.
	// Its content is checked later by analyze.
	Mem struct {
		Base `tlog:",embed"`
	}

	Load struct {
		Base `tlog:",embed"`

		Dst   Reg
		Const Int
	}

	Read struct {
		Base `tlog:",embed"`

		Dst Reg
		Src Mem
	}

	Write struct {
		Base `tlog:",embed"`

		Dst Mem
		Src Reg
	}

	Sgn struct {
		Base `tlog:",embed"`

		Src Mem
		Dst Mem
	}
)

func (x Base) Text(b []byte) string {
	return string(b[x.Pos:x.End])
}
