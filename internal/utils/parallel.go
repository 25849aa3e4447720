package utils

import (
	"context"
	"sync"
)

// ParallelForEach executes fn for each item with at most workers
// goroutines. Per-item errors are collected by index; one item failing
// never stops its siblings. Cancelling the context records ctx.Err()
// for every item that has not run, so callers can tell an interrupted
// batch from a completed one.
func ParallelForEach[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T) error) []error {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	errs := make([]error, len(items))
	indexes := make(chan int, len(items))
	for i := range items {
		indexes <- i
	}
	close(indexes)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					// Mark the unclaimed remainder before exiting; the
					// backlog is already closed, so this drains it.
					for idx := range indexes {
						errs[idx] = ctx.Err()
					}
					return
				case idx, ok := <-indexes:
					if !ok {
						return
					}
					if err := ctx.Err(); err != nil {
						errs[idx] = err
						continue
					}
					errs[idx] = fn(ctx, items[idx])
				}
			}
		}()
	}
	wg.Wait()

	return errs
}

// FirstError returns the first non-nil error from a slice of errors
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// CollectErrors collects all non-nil errors from a slice
func CollectErrors(errs []error) []error {
	var result []error
	for _, err := range errs {
		if err != nil {
			result = append(result, err)
		}
	}
	return result
}
