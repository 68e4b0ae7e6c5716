package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripedChannel_HappyPath(t *testing.T) {
	c := NewStripedChannel[int](32, 256)

	channels := c.GetChannels()
	require.Len(t, channels, 32)

	results := make([]map[int][]int, len(channels))

	var wg sync.WaitGroup
	for i, channel := range channels {
		wg.Add(1)
		results[i] = make(map[int][]int)

		go func(id int, c <-chan int) {
			defer wg.Done()

			for val := range c {
				results[id][val/100] = append(results[id][val/100], val%100)
			}
		}(i, channel)
	}

	for key := 0; key < 64; key++ {
		for seq := 0; seq < 10; seq++ {
			assert.True(t, c.Send([]byte{byte(key)}, key*100+seq))
		}
	}

	c.Close()
	wg.Wait()

	aggregated := make(map[int][]int)
	for _, result := range results {
		for k, v := range result {
			_, dup := aggregated[k]
			require.False(t, dup, "key consumed by more than one channel")
			aggregated[k] = v
		}
	}

	assert.Len(t, aggregated, 64)
	for _, sequence := range aggregated {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sequence)
	}
}

func TestStripedChannel_FullQueue(t *testing.T) {
	c := NewStripedChannel[int](32, 16)

	for i := 0; i < 16; i++ {
		assert.True(t, c.Send([]byte{1}, 1))
	}

	assert.False(t, c.Send([]byte{1}, 1))
}
