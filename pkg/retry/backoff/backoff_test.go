package backoff

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedules(t *testing.T) {
	constant := Constant(time.Second)
	linear := Linear(time.Second)
	exponential := Exponential(time.Second, 3)
	binary := BinaryExponential(time.Second)

	for attempts := uint(1); attempts < 5; attempts++ {
		assert.Equal(t, time.Second, constant(attempts))
		assert.Equal(t, time.Duration(attempts)*time.Second, linear(attempts))
		assert.Equal(t, time.Duration(math.Pow(3, float64(attempts-1)))*time.Second, exponential(attempts))
		assert.Equal(t, time.Duration(1<<(attempts-1))*time.Second, binary(attempts))
	}
}

func TestOverflow(t *testing.T) {
	assert.EqualValues(t, math.MaxInt64, Linear(math.MaxInt64/2)(3))
	assert.EqualValues(t, math.MaxInt64, BinaryExponential(time.Hour)(200))
}
