package wrapper

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/config"
)

// ErrUnsuportedConversion indicates the wrapper does not implement conversion from the source type
var ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

type typedConfig[T any] struct {
	override     config.Config
	defaultValue T
	convert      func(raw interface{}) (T, error)

	stateMu   sync.RWMutex
	lastValue T
}

func newTypedConfig[T any](override config.Config, defaultValue T, convert func(raw interface{}) (T, error)) *typedConfig[T] {
	return &typedConfig[T]{
		override:     override,
		defaultValue: defaultValue,
		convert:      convert,
		lastValue:    defaultValue,
	}
}

// GetSafe gets a config value and propagates any errors that arise. A best-effort
// attempt is made to return the last known value
func (c *typedConfig[T]) GetSafe(ctx context.Context) (T, error) {
	raw, err := c.override.Get(ctx)

	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if err == config.ErrNoValue {
		c.lastValue = c.defaultValue
		return c.defaultValue, nil
	} else if err != nil {
		return c.lastValue, err
	}

	value, err := c.convert(raw)
	if err != nil {
		return c.lastValue, err
	}
	c.lastValue = value
	return value, nil
}

// Get is a wrapper for GetSafe that ignores the returned error
func (c *typedConfig[T]) Get(ctx context.Context) T {
	val, _ := c.GetSafe(ctx)
	return val
}

func (c *typedConfig[T]) Shutdown() {
	c.override.Shutdown()
}

// NewBoolConfig accepts bool values and strconv.ParseBool formatted bytes
func NewBoolConfig(override config.Config, defaultValue bool) config.Bool {
	return newTypedConfig(override, defaultValue, func(raw interface{}) (bool, error) {
		switch v := raw.(type) {
		case bool:
			return v, nil
		case []byte:
			return strconv.ParseBool(string(v))
		default:
			return false, ErrUnsuportedConversion
		}
	})
}

// NewUint64Config accepts unsigned integers and base 10 bytes
func NewUint64Config(override config.Config, defaultValue uint64) config.Uint64 {
	return newTypedConfig(override, defaultValue, func(raw interface{}) (uint64, error) {
		switch v := raw.(type) {
		case uint64:
			return v, nil
		case uint:
			return uint64(v), nil
		case uint32:
			return uint64(v), nil
		case []byte:
			return strconv.ParseUint(string(v), 10, 64)
		default:
			return 0, ErrUnsuportedConversion
		}
	})
}

// NewFloat64Config accepts float64 values and decimal bytes
func NewFloat64Config(override config.Config, defaultValue float64) config.Float64 {
	return newTypedConfig(override, defaultValue, func(raw interface{}) (float64, error) {
		switch v := raw.(type) {
		case float64:
			return v, nil
		case []byte:
			return strconv.ParseFloat(string(v), 64)
		default:
			return 0, ErrUnsuportedConversion
		}
	})
}

// NewDurationConfig accepts time.Duration values and time.ParseDuration
// formatted bytes
func NewDurationConfig(override config.Config, defaultValue time.Duration) config.Duration {
	return newTypedConfig(override, defaultValue, func(raw interface{}) (time.Duration, error) {
		switch v := raw.(type) {
		case time.Duration:
			return v, nil
		case []byte:
			return time.ParseDuration(string(v))
		default:
			return 0, ErrUnsuportedConversion
		}
	})
}

func NewStringConfig(override config.Config, defaultValue string) config.String {
	return newTypedConfig(override, defaultValue, func(raw interface{}) (string, error) {
		switch v := raw.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		default:
			return "", ErrUnsuportedConversion
		}
	})
}
