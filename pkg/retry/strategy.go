package retry

import (
	"errors"
	"math/rand"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/retry/backoff"
)

// Strategy decides whether an action is attempted again. Strategies may
// sleep or cause other side effects.
type Strategy func(attempts uint, err error) bool

// Limit caps the total number of attempts.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only retries errors matching one of the targets.
func RetriableErrors(targets ...error) Strategy {
	return func(_ uint, err error) bool {
		return matchesAny(err, targets)
	}
}

// NonRetriableErrors retries everything except errors matching one of the
// targets.
func NonRetriableErrors(targets ...error) Strategy {
	return func(_ uint, err error) bool {
		return !matchesAny(err, targets)
	}
}

// Backoff sleeps for the delay given by strategy, capped at maxBackoff.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return func(attempts uint, _ error) bool {
		sleep(capDelay(strategy(attempts), maxBackoff))
		return true
	}
}

// BackoffWithJitter is Backoff with the capped delay moved by up to
// +/- jitter (a fraction of the delay).
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	return func(attempts uint, _ error) bool {
		delay := capDelay(strategy(attempts), maxBackoff)
		factor := 1 + (rand.Float64()*2-1)*jitter
		sleep(time.Duration(float64(delay) * factor))
		return true
	}
}

func capDelay(delay, max time.Duration) time.Duration {
	if delay > max {
		return max
	}
	return delay
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var sleep = time.Sleep
