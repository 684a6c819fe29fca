package github

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetResponse(remaining int, reset time.Time) *http.Response {
	h := http.Header{}
	h.Set(HeaderRateRemaining, strconv.Itoa(remaining))
	h.Set(HeaderRateLimit, "5000")
	h.Set(HeaderRateReset, strconv.FormatInt(reset.Unix(), 10))
	return &http.Response{Header: h}
}

func TestRateLimiter_UnknownQuotaDoesNotBlock(t *testing.T) {
	r := NewRateLimiter(0)
	require.NoError(t, r.Wait(context.Background()))

	remaining, _, _ := r.Snapshot()
	assert.Equal(t, -1, remaining)
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter(0)
	reset := time.Unix(1_900_000_000, 0)

	r.UpdateFromResponse(resetResponse(42, reset))
	r.UpdateFromResponse(nil)

	remaining, limit, resetAt := r.Snapshot()
	assert.Equal(t, 42, remaining)
	assert.Equal(t, 5000, limit)
	assert.True(t, reset.Equal(resetAt))
}

func TestRateLimiter_WaitsForResetWhenExhausted(t *testing.T) {
	r := NewRateLimiter(0)
	now := time.Unix(1_800_000_000, 0)
	r.now = func() time.Time { return now }
	r.UpdateFromResponse(resetResponse(0, now.Add(time.Hour)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_PastResetDoesNotBlock(t *testing.T) {
	r := NewRateLimiter(0)
	now := time.Unix(1_800_000_000, 0)
	r.now = func() time.Time { return now }
	r.UpdateFromResponse(resetResponse(0, now.Add(-time.Minute)))

	assert.NoError(t, r.Wait(context.Background()))
}
