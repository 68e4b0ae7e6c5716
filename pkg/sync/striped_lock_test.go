package sync

import (
	"fmt"
	base "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripedLock_HappyPath(t *testing.T) {
	workerCount := 64
	operationCount := 1000

	l := NewStripedLock(4)

	var workerWg base.WaitGroup
	startChan := make(chan struct{})
	data := make([]int, workerCount)

	for i := 0; i < workerCount; i++ {
		workerWg.Add(1)

		go func(workerID int) {
			defer workerWg.Done()

			<-startChan

			key := []byte(fmt.Sprintf("worker%d", workerID))
			for j := 0; j < operationCount; j++ {
				mu := l.Get(key)
				mu.Lock()
				data[workerID]++
				mu.Unlock()
			}
		}(i)
	}

	close(startChan)
	workerWg.Wait()

	for _, val := range data {
		assert.EqualValues(t, operationCount, val)
	}
}

func TestStripedLock_LockAll(t *testing.T) {
	l := NewStripedLock(8)

	keys := [][]byte{[]byte("event"), []byte("tier"), []byte("buyer"), []byte("creator")}

	var counter int
	var wg base.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			// Overlapping key sets in different orders, all sharing the
			// config key that guards counter
			rotated := append(append([][]byte{}, keys[i%len(keys):]...), keys[:i%len(keys)]...)
			set := append(rotated[:2+i%3:2+i%3], []byte("config"))
			for j := 0; j < 100; j++ {
				unlock := l.LockAll(set...)
				counter++
				unlock()
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock acquiring overlapping key sets")
	}
	assert.Equal(t, 3200, counter)
}

func TestStripedLock_LockAllDuplicateKeys(t *testing.T) {
	l := NewStripedLock(1)

	unlock := l.LockAll([]byte("a"), []byte("b"), []byte("a"))
	unlock()

	unlock = l.LockAll([]byte("a"))
	unlock()
}

func TestStripedLock_StripesInRange(t *testing.T) {
	for _, stripes := range []uint{1, 3, 1024} {
		l := NewStripedLock(stripes)
		for i := 0; i < 500; i++ {
			key := []byte(fmt.Sprintf("account%d", i))

			stripe := l.stripe(key)
			assert.True(t, stripe >= 0 && stripe < int(stripes))
			assert.Equal(t, stripe, l.stripe(key))
			assert.Same(t, &l.locks[stripe], l.Get(key))
		}
	}
}
