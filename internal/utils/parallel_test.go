package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelForEachRunsEveryItemOnce(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	var calls int64
	errs := ParallelForEach(context.Background(), items, 4, func(ctx context.Context, item int) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})

	assert.Equal(t, int64(len(items)), calls)
	assert.NoError(t, FirstError(errs))
}

func TestParallelForEachIsolatesErrorsByIndex(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	boom := errors.New("boom")

	errs := ParallelForEach(context.Background(), items, 2, func(ctx context.Context, item string) error {
		if item == "c" {
			return boom
		}
		return nil
	})

	require.Len(t, errs, 4)
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.ErrorIs(t, errs[2], boom)
	assert.NoError(t, errs[3])
	assert.Len(t, CollectErrors(errs), 1)
}

func TestParallelForEachRecordsCancelForEveryUnrunItem(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	errs := ParallelForEach(ctx, []int{1, 2, 3}, 2, func(ctx context.Context, item int) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})

	assert.Zero(t, calls, "a cancelled batch must not run any item")
	require.Len(t, errs, 3)
	for i, err := range errs {
		assert.ErrorIs(t, err, context.Canceled, "item %d", i)
	}
}

func TestParallelForEachMidBatchCancelIsNotSilent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	items := []int{0, 1, 2, 3, 4}
	var calls int64
	errs := ParallelForEach(ctx, items, 1, func(ctx context.Context, item int) error {
		atomic.AddInt64(&calls, 1)
		if item == 0 {
			cancel()
		}
		return nil
	})

	assert.Equal(t, int64(1), calls)
	assert.NoError(t, errs[0])
	for i := 1; i < len(items); i++ {
		assert.ErrorIs(t, errs[i], context.Canceled,
			"unrun item %d must carry the cancellation", i)
	}
	assert.NotEmpty(t, CollectErrors(errs),
		"an interrupted batch must never look like a completed one")
}

func TestParallelForEachZeroWorkers(t *testing.T) {
	errs := ParallelForEach(context.Background(), []int{1, 2}, 0, func(ctx context.Context, item int) error {
		return nil
	})
	assert.Len(t, errs, 2)
}
