package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/uasm/assembler/ast"
)

type (
	// AllOf matches its parsers one after another.
	// The result node is []ast.Node with one element per parser.
	AllOf []Parser
)

func (p AllOf) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	res := make([]ast.Node, len(p))

	for j, r := range p {
		x, i, err = r.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "%T (%d)", r, j)
		}

		res[j] = x
	}

	return res, i, nil
}
