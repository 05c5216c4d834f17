package parse

import (
	"context"

	"github.com/slowlang/uasm/assembler/ast"
)

type (
	// load <reg> = <uint>
	Load struct{}

	// read <reg> = <mem>
	Read struct{}

	// write <mem> = <reg>
	Write struct{}

	// sgn <mem> -> <mem>
	Sgn struct{}
)

func (p Load) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := AllOf{
		Const("load"),
		Spaced(Reg{}, SpaceTab),
		Spaced(Const("="), SpaceTab),
		Spaced(Uint{}, SpaceTab),
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return
	}

	xt := x.([]ast.Node)

	res := ast.Load{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Dst:   xt[1].(ast.Reg),
		Const: xt[3].(ast.Int),
	}

	return res, i, nil
}

func (p Read) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := AllOf{
		Const("read"),
		Spaced(Reg{}, SpaceTab),
		Spaced(Const("="), SpaceTab),
		Spaced(Mem{}, SpaceTab),
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return
	}

	xt := x.([]ast.Node)

	res := ast.Read{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Dst: xt[1].(ast.Reg),
		Src: xt[3].(ast.Mem),
	}

	return res, i, nil
}

func (p Write) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := AllOf{
		Const("write"),
		Spaced(Mem{}, SpaceTab),
		Spaced(Const("="), SpaceTab),
		Spaced(Reg{}, SpaceTab),
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return
	}

	xt := x.([]ast.Node)

	res := ast.Write{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Dst: xt[1].(ast.Mem),
		Src: xt[3].(ast.Reg),
	}

	return res, i, nil
}

func (p Sgn) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := AllOf{
		Const("sgn"),
		Spaced(Mem{}, SpaceTab),
		Spaced(Const("->"), SpaceTab),
		Spaced(Mem{}, SpaceTab),
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return
	}

	xt := x.([]ast.Node)

	res := ast.Sgn{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Src: xt[1].(ast.Mem),
		Dst: xt[3].(ast.Mem),
	}

	return res, i, nil
}
