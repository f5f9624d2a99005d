package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachColumn runs fn for every index in [0, n) on at most workers
// goroutines. fn must only write the result slot of its own index. The first
// error cancels the remaining work and is returned.
func forEachColumn(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
