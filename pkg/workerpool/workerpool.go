// Package workerpool provides bounded fan-out helpers.
package workerpool

import (
	"context"
	"sync"
)

// Map runs fn over items on at most workerCount goroutines and returns one result per item,
// in input order. It returns only after every fn call has finished.
//
// fn is called for every item even when ctx is canceled; fn is expected to observe ctx itself.
func Map[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	fn func(context.Context, T) R,
) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if workerCount <= 0 || workerCount > len(items) {
		workerCount = len(items)
	}

	indexes := make(chan int)
	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx] = fn(ctx, items[idx])
			}
		}()
	}

	for i := range items {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

// Each is Map for calls without a result.
func Each[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	fn func(context.Context, T),
) {
	Map(ctx, workerCount, items, func(ctx context.Context, item T) struct{} {
		fn(ctx, item)
		return struct{}{}
	})
}
