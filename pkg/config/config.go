package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue indicates no value was set for the config
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown indicates the use of a Config after calling Shutdown
	ErrShutdown = errors.New("config: shutdown")
)

// Config is a source of an untyped configuration value
type Config interface {
	// Get returns the latest config value
	Get(ctx context.Context) (interface{}, error)

	// Shutdown signals the config to stop all underlying resources
	Shutdown()
}

// Typed is a Config converted to T, falling back to a default when the
// source has no value
type Typed[T any] interface {
	// Get returns the latest value, or the last known one when the source
	// fails
	Get(ctx context.Context) T

	// GetSafe is Get with the source or conversion error
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

type (
	Bool     = Typed[bool]
	Uint64   = Typed[uint64]
	Float64  = Typed[float64]
	Duration = Typed[time.Duration]
	String   = Typed[string]
)
