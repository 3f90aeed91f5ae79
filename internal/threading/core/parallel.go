package core

import (
	"context"
	"runtime"
	"sync"
)

// chunks splits n items into at most NumCPU contiguous ranges.
func chunks(n int) [][2]int {
	if n == 0 {
		return nil
	}
	workers := min(runtime.NumCPU(), n)
	size := (n + workers - 1) / workers

	ranges := make([][2]int, 0, workers)
	for start := 0; start < n; start += size {
		ranges = append(ranges, [2]int{start, min(start+size, n)})
	}
	return ranges
}

// ParallelForEach calls fn for every item, spreading contiguous chunks over goroutines.
// Workers stop picking up items once ctx is cancelled.
func ParallelForEach[T any](ctx context.Context, items []T, fn func(int, T)) {
	var wg sync.WaitGroup
	for _, r := range chunks(len(items)) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return
				}
				fn(i, items[i])
			}
		}(r[0], r[1])
	}
	wg.Wait()
}

// ParallelMap applies fn to every item and returns the results in input order.
// Each worker writes only its own index range, so no locking is needed.
func ParallelMap[T any, R any](ctx context.Context, items []T, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}
	results := make([]R, len(items))
	ParallelForEach(ctx, items, func(i int, item T) {
		results[i] = fn(item)
	})
	return results
}
