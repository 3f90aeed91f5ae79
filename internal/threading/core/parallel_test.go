package core

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestParallelMapPreservesOrder(t *testing.T) {
	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}
	got := ParallelMap(context.Background(), items, func(v int) int { return v * v })
	if len(got) != len(items) {
		t.Fatalf("Expected %d results, got %d", len(items), len(got))
	}
	for i, v := range got {
		if v != i*i {
			t.Fatalf("Expected results[%d] = %d, got %d", i, i*i, v)
		}
	}
}

func TestParallelMapEmpty(t *testing.T) {
	if got := ParallelMap(context.Background(), []int(nil), func(v int) int { return v }); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}

func TestParallelForEachVisitsEveryItem(t *testing.T) {
	items := make([]int, 257)
	var sum atomic.Int64
	ParallelForEach(context.Background(), items, func(i int, _ int) {
		sum.Add(int64(i))
	})
	want := int64(256 * 257 / 2)
	if sum.Load() != want {
		t.Errorf("Expected index sum %d, got %d", want, sum.Load())
	}
}

func TestParallelForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int64
	ParallelForEach(ctx, make([]int, 100), func(int, int) { calls.Add(1) })
	if calls.Load() != 0 {
		t.Errorf("Expected no calls on cancelled context, got %d", calls.Load())
	}
}

func TestWorkerPoolParallelFor(t *testing.T) {
	pool := CreateDefaultWorkerPool()
	defer pool.Stop()

	hits := make([]int32, 64)
	pool.ParallelFor(context.Background(), 0, len(hits), func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i, h := range hits {
		if h != 1 {
			t.Errorf("Expected index %d visited once, got %d", i, h)
		}
	}
	pool.Stop() // second stop must not panic
}

func TestWorkerPoolNumWorkers(t *testing.T) {
	if n := NewWorkerPool(3).NumWorkers(); n != 3 {
		t.Errorf("Expected 3 workers, got %d", n)
	}
	if n := NewWorkerPool(0).NumWorkers(); n != runtime.NumCPU() {
		t.Errorf("Expected %d workers for a zero request, got %d", runtime.NumCPU(), n)
	}
}
