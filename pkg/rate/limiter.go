package rate

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/franRappazzini/boltick-contracts/pkg/cache"
)

// DefaultMaxKeys bounds how many keys a local limiter tracks at once
const DefaultMaxKeys = 100_000

// Limiter limits operations based on a provided key.
type Limiter interface {
	Allow(key string) (bool, error)
}

// localRateLimiter keeps a token bucket per key, with a burst of one second
// worth of operations. Buckets of the least recently seen keys are dropped
// once maxKeys is reached, which resets those keys to a full bucket.
type localRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters cache.Cache[*rate.Limiter]
}

// NewLocalRateLimiter returns an in memory limiter tracking up to
// DefaultMaxKeys keys
func NewLocalRateLimiter(limit rate.Limit) Limiter {
	return NewLocalRateLimiterWithMaxKeys(limit, DefaultMaxKeys)
}

func NewLocalRateLimiterWithMaxKeys(limit rate.Limit, maxKeys int) Limiter {
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}

	return &localRateLimiter{
		limit:    limit,
		burst:    burst,
		limiters: cache.NewCache[*rate.Limiter](maxKeys),
	}
}

func (l *localRateLimiter) Allow(key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters.Retrieve(key)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		if err := l.limiters.Insert(key, limiter, 1); err != nil {
			l.mu.Unlock()
			return false, err
		}
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// NoLimiter never limits operations
type NoLimiter struct {
}

func (n *NoLimiter) Allow(_ string) (bool, error) {
	return true, nil
}
