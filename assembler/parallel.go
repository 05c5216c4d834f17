package assembler

import (
	"context"

	"golang.org/x/sync/errgroup"
	"nikand.dev/go/heap"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	result struct {
		idx  int
		unit Unit
		ok   bool
		err  error
	}
)

// assembleParallel parses and encodes lines on workers
// and merges the results back in line order.
// The first error in line order wins, as in assembleSeq.
func assembleParallel(ctx context.Context, lines []srcLine, workers int) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	res := make(chan result, workers)

	g.Go(func() error {
		defer close(jobs)

		for i := range lines {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}

		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				u, ok, err := assembleLine(gctx, lines[i])

				select {
				case res <- result{idx: i, unit: u, ok: ok, err: err}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(res)
	}()

	obj := &Object{}

	q := heap.Heap[result]{Less: resultLess}
	next := 0

	for r := range res {
		q.Push(r)

		for q.Len() != 0 && q.Data[0].idx == next {
			r := q.Pop()
			next++

			if r.err != nil {
				cancel()

				for range res {
				}

				return nil, r.err
			}

			if r.ok {
				obj.add(r.unit)
			}
		}

		tlog.V("reorder").Printw("result", "idx", r.idx, "next", next, "pending", q.Len())
	}

	if next != len(lines) {
		if err := g.Wait(); err != nil {
			return nil, errors.Wrap(err, "workers")
		}

		return nil, errors.New("lost results: %d of %d", next, len(lines))
	}

	return obj, nil
}

func resultLess(d []result, i, j int) bool {
	return d[i].idx < d[j].idx
}
