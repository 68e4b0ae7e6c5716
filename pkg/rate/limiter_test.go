package rate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNoLimiter(t *testing.T) {
	l := &NoLimiter{}
	for i := 0; i < 1000; i++ {
		allowed, err := l.Allow("signer")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestLocalRateLimiter_PerKey(t *testing.T) {
	l := NewLocalRateLimiter(rate.Limit(2))

	for _, key := range []string{"alice", "bob"} {
		for i := 0; i < 2; i++ {
			allowed, err := l.Allow(key)
			require.NoError(t, err)
			assert.True(t, allowed, key)
		}

		allowed, err := l.Allow(key)
		require.NoError(t, err)
		assert.False(t, allowed, key)
	}
}

func TestLocalRateLimiter_FractionalRateAllowsOne(t *testing.T) {
	l := NewLocalRateLimiter(rate.Limit(0.5))

	allowed, err := l.Allow("alice")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.Allow("alice")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLocalRateLimiter_MaxKeys(t *testing.T) {
	l := NewLocalRateLimiterWithMaxKeys(rate.Limit(1), 2)

	for _, key := range []string{"alice", "bob"} {
		allowed, err := l.Allow(key)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	// carol evicts the least recently seen bucket, alice's
	allowed, err := l.Allow("carol")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.Allow("bob")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = l.Allow("alice")
	require.NoError(t, err)
	assert.True(t, allowed)
}
