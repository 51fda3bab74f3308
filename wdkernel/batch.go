package wdkernel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchEvaluate scores a shared, read-only Forest against every sequence in
// seqs, one output per index, using a bounded worker pool (spec §4.6
// "Batch evaluation": "dispatch one thread per chunk of vec_idx[]; merge
// results into the output array. Threads share a read-only trie", spec §5
// "fixed pool of worker threads each processes a disjoint slice"). Grounded
// on stadam23-Eve-flipper's errgroup.SetLimit worker-pool idiom (DOMAIN
// STACK).
func BatchEvaluate(ctx context.Context, f *Forest, seqs [][]byte, workers int) ([]float64, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]float64, len(seqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seq := range seqs {
		i, seq := i, seq
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = f.ComputeByTree(seq)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
