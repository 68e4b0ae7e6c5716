package program

import (
	"github.com/franRappazzini/boltick-contracts/pkg/sync"
)

const defaultLockStripes = 1024

// AccountLocker serializes invocations that write overlapping account sets.
type AccountLocker struct {
	locks *sync.StripedLock
}

func NewAccountLocker() *AccountLocker {
	return NewAccountLockerWithStripes(defaultLockStripes)
}

func NewAccountLockerWithStripes(stripes uint) *AccountLocker {
	return &AccountLocker{
		locks: sync.NewStripedLock(stripes),
	}
}

// Lock write locks every account for the duration of an invocation. Empty
// addresses are skipped.
func (l *AccountLocker) Lock(accounts ...string) (unlock func()) {
	keys := make([][]byte, 0, len(accounts))
	for _, account := range accounts {
		if len(account) == 0 {
			continue
		}
		keys = append(keys, []byte(account))
	}
	return l.locks.LockAll(keys...)
}
