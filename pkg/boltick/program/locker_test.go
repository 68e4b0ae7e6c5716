package program

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountLocker_SerializesOverlappingSets(t *testing.T) {
	locker := NewAccountLockerWithStripes(16)

	var inCritical, maxInCritical int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			accounts := []string{"event", "tier"}
			if i%2 == 0 {
				accounts = []string{"tier", "buyer", "event", ""}
			}

			unlock := locker.Lock(accounts...)
			defer unlock()

			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical)
}

func TestFixedClock(t *testing.T) {
	start := time.Unix(1700000000, 0)
	clock := NewFixedClock(start)

	assert.Equal(t, start, clock.Now())
	clock.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), clock.Now())
}
