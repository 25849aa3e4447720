package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpack/docpack/internal/domain"
)

func newTestCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	url := "https://docs.example.test/ruby/3.4/String.html"
	require.NoError(t, c.Set(ctx, url, []byte("<p>page</p>"), time.Hour))

	got, err := c.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "<p>page</p>", string(got))
	assert.True(t, c.Has(ctx, url))
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "https://docs.example.test/absent")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	url := "https://docs.example.test/page"
	require.NoError(t, c.Set(ctx, url, []byte("x"), 0))
	require.NoError(t, c.Delete(ctx, url))

	assert.False(t, c.Has(ctx, url))
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.NoError(t, c.Close(), "repeated close must not panic the GC shutdown")
}

func TestCacheKeyNormalization(t *testing.T) {
	// Trailing slashes and fragments must not split cache entries
	a := GenerateKey("https://docs.example.test/page/")
	b := GenerateKey("https://docs.example.test/page#section")
	assert.Equal(t, a, b)

	c := GenerateKey("https://docs.example.test/other")
	assert.NotEqual(t, a, c)
}
