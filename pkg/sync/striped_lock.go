package sync

import (
	"sort"
	base "sync"
)

const (
	hashEntriesPerLock = 200
)

// StripedLock is a partitioned locking mechanism that consistently maps a key
// space to a set of locks. This provides concurrent data access while also
// limiting the total memory footprint.
type StripedLock struct {
	locks    []base.RWMutex
	hashRing *ring
}

// NewStripedLock returns a new StripedLock with a static number of stripes.
func NewStripedLock(stripes uint) *StripedLock {
	return &StripedLock{
		locks:    make([]base.RWMutex, stripes),
		hashRing: newRing(int(stripes), hashEntriesPerLock),
	}
}

// Get gets the lock for a key
func (l *StripedLock) Get(key []byte) *base.RWMutex {
	return &l.locks[l.stripe(key)]
}

// LockAll write locks every stripe the keys map onto and returns a func that
// releases them. Stripes are deduplicated and acquired in index order, so two
// callers with overlapping key sets can never deadlock on each other.
func (l *StripedLock) LockAll(keys ...[]byte) (unlock func()) {
	seen := make(map[int]struct{}, len(keys))
	stripes := make([]int, 0, len(keys))
	for _, key := range keys {
		stripe := l.stripe(key)
		if _, ok := seen[stripe]; ok {
			continue
		}
		seen[stripe] = struct{}{}
		stripes = append(stripes, stripe)
	}
	sort.Ints(stripes)

	for _, stripe := range stripes {
		l.locks[stripe].Lock()
	}

	return func() {
		for i := len(stripes) - 1; i >= 0; i-- {
			l.locks[stripes[i]].Unlock()
		}
	}
}

func (l *StripedLock) stripe(key []byte) int {
	return l.hashRing.shard(key)
}
