package pg

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"

	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx"
)

// Config is the connection configuration for a Postgres pool.
type Config struct {
	User               string        `mapstructure:"user"`
	Password           string        `mapstructure:"password"`
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	DbName             string        `mapstructure:"db_name"`
	SslMode            string        `mapstructure:"ssl_mode"`
	MaxOpenConnections int           `mapstructure:"max_open_connections"`
	MaxIdleConnections int           `mapstructure:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c *Config) dsn() string {
	sslMode := c.SslMode
	if len(sslMode) == 0 {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DbName, sslMode,
	)
}

// New opens a connection pool through the New Relic instrumented pgx driver
// and checks connectivity.
func New(config *Config) (*sql.DB, error) {
	db, err := sql.Open("nrpgx", config.dsn())
	if err != nil {
		return nil, errors.Wrap(err, "error opening postgres pool")
	}

	if config.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(config.MaxOpenConnections)
	}
	if config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(config.MaxIdleConnections)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error pinging postgres")
	}

	return db, nil
}
