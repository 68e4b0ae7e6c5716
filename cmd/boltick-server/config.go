package main

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/app"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/eventlog"
	pg "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
)

// serverConfig is the app section of the process config
type serverConfig struct {
	// Postgres is used unless the in-memory store is requested
	InMemoryStore bool      `mapstructure:"in_memory_store"`
	Postgres      pg.Config `mapstructure:"postgres"`

	// Program events go to JetStream when a URL is configured, and to the
	// log otherwise
	JetStream      eventlog.JetStreamConfig `mapstructure:"jetstream"`
	EventWorkers   uint                     `mapstructure:"event_workers"`
	EventQueueSize uint                     `mapstructure:"event_queue_size"`

	// The auditor runs on a cron schedule when one is set, and on a fixed
	// interval otherwise. A zero interval disables it.
	AuditorInterval time.Duration `mapstructure:"auditor_interval"`
	AuditorSchedule string        `mapstructure:"auditor_schedule"`
}

var defaultServerConfig = serverConfig{
	Postgres: pg.Config{
		Host:    "localhost",
		Port:    5432,
		SslMode: "disable",
	},
	JetStream: eventlog.JetStreamConfig{
		StreamName:     "BOLTICK",
		SubjectPrefix:  "boltick",
		ConnectionName: "boltick-server",
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
	},
	EventWorkers:    4,
	EventQueueSize:  1024,
	AuditorInterval: time.Minute,
}

func decodeServerConfig(raw app.Config) (*serverConfig, error) {
	config := defaultServerConfig

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(map[string]interface{}(raw)); err != nil {
		return nil, errors.Wrap(err, "invalid app config")
	}

	if config.EventWorkers == 0 {
		return nil, errors.New("event_workers must be positive")
	}

	return &config, nil
}
