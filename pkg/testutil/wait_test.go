package testutil

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitFor(t *testing.T) {
	var polls atomic.Int32
	require.NoError(t, WaitFor(time.Second, time.Millisecond, func() bool {
		return polls.Add(1) == 3
	}))
	assert.EqualValues(t, 3, polls.Load())

	assert.Error(t, WaitFor(20*time.Millisecond, 5*time.Millisecond, func() bool {
		return false
	}))

	assert.Error(t, WaitFor(5*time.Millisecond, 20*time.Millisecond, func() bool {
		return true
	}))
}
