package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteRateLimiter_Integration_CeilingWithinWindow(t *testing.T) {
	limiter := NewVoteRateLimiter(setupTestClient(t), "test-salt", 20, time.Minute)
	ctx := context.Background()
	addr := "addr-" + uuid.NewString()

	for i := 0; i < 20; i++ {
		allowed, err := limiter.Admit(ctx, addr)
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be admitted", i+1)
	}

	allowed, err := limiter.Admit(ctx, addr)
	require.NoError(t, err)
	assert.False(t, allowed, "attempt 21 should be rejected")

	// Other addresses have their own window.
	allowed, err = limiter.Admit(ctx, "addr-"+uuid.NewString())
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestVoteRateLimiter_Integration_WindowExpires(t *testing.T) {
	// A short window so the test can wait out the real TTL.
	limiter := NewVoteRateLimiter(setupTestClient(t), "test-salt", 2, 200*time.Millisecond)
	ctx := context.Background()
	addr := "addr-" + uuid.NewString()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Admit(ctx, addr)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	allowed, err := limiter.Admit(ctx, addr)
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(300 * time.Millisecond)

	allowed, err = limiter.Admit(ctx, addr)
	require.NoError(t, err)
	assert.True(t, allowed, "fresh window admits again")
}

func TestVoteRateLimiter_Integration_StoresHashedAddresses(t *testing.T) {
	client := setupTestClient(t)
	limiter := NewVoteRateLimiter(client, "test-salt", 20, time.Minute)
	ctx := context.Background()
	addr := "203.0.113.7-" + uuid.NewString()

	_, err := limiter.Admit(ctx, addr)
	require.NoError(t, err)

	keys, err := client.Keys(ctx, "ratelimit:vote:*").Result()
	require.NoError(t, err)
	for _, key := range keys {
		assert.NotContains(t, key, addr, "raw address must never appear in a key")
	}

	// Same address and salt always map to the same counter.
	hashed := hashAddress(addr, "test-salt")
	count, err := client.Get(ctx, "ratelimit:vote:"+hashed).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
