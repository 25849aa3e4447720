package fetcher

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpack/docpack/internal/domain"
)

func testRetrier(maxRetries int) *Retrier {
	return NewRetrier(RetrierOptions{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      1.5,
	})
}

func TestRetryEventualSuccess(t *testing.T) {
	r := testRetrier(3)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &domain.RetryableError{Err: fmt.Errorf("transient")}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryPermanentErrorAbortsImmediately(t *testing.T) {
	r := testRetrier(3)

	attempts := 0
	fatal := domain.NewFetchError("https://x.test/a", 404, fmt.Errorf("HTTP 404"))
	err := r.Retry(context.Background(), func() error {
		attempts++
		return fatal
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "non-retryable errors must not be retried")
	var fetchErr *domain.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestRetryExhaustsBudget(t *testing.T) {
	r := testRetrier(2)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return domain.NewFetchError("https://x.test/a", 503, fmt.Errorf("HTTP 503"))
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts, "initial attempt plus max retries")
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	r := testRetrier(10)
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := r.Retry(ctx, func() error {
		attempts++
		cancel()
		return &domain.RetryableError{Err: fmt.Errorf("transient")}
	})

	require.Error(t, err)
	assert.LessOrEqual(t, attempts, 2)
}

func TestShouldRetryStatus(t *testing.T) {
	for _, code := range []int{429, 502, 503, 504} {
		assert.True(t, ShouldRetryStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 301, 400, 403, 404, 500} {
		assert.False(t, ShouldRetryStatus(code), "status %d", code)
	}
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 30*time.Second, ParseRetryAfter("30"))
	assert.Equal(t, 5*time.Second, ParseRetryAfter(" 5 "))
	assert.Equal(t, time.Duration(0), ParseRetryAfter(""))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("-1"))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("Wed, 21 Oct 2026 07:28:00 GMT"))
}

func TestRandomUserAgent(t *testing.T) {
	ua := RandomUserAgent()
	assert.Contains(t, userAgents, ua)

	headers := RequestHeaders(ua)
	assert.Equal(t, ua, headers["User-Agent"])
	assert.NotEmpty(t, headers["Accept"])
}
