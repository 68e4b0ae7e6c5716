package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/franRappazzini/boltick-contracts/pkg/config"
)

var errDeveloperInduced = errors.New("in memory config: developer induced error")

// Config is an in memory config for tests and fixed overrides
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns an in memory config holding value. A nil value means no
// value is set.
func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

func (c *Config) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = true
}

func (c *Config) SetValue(value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
}

// ClearValue makes subsequent Get calls return ErrNoValue
func (c *Config) ClearValue() {
	c.SetValue(nil)
}

// InduceErrors makes subsequent Get calls fail until StopInducingErrors
func (c *Config) InduceErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = errDeveloperInduced
}

func (c *Config) StopInducingErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
}
