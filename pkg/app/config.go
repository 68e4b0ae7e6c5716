package app

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the application specific configuration, passed to App.Init.
type Config map[string]interface{}

// BaseConfig contains the process configuration as well as the application's
// own section.
type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`

	AppName string `mapstructure:"app_name"`

	HTTPListenAddress  string `mapstructure:"http_listen_address"`
	GRPCListenAddress  string `mapstructure:"grpc_listen_address"`
	DebugListenAddress string `mapstructure:"debug_listen_address"`

	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`

	EnablePprof  bool `mapstructure:"enable_pprof"`
	EnableExpvar bool `mapstructure:"enable_expvar"`

	// Periodically terminate the application when there's a memory leak
	EnableMemoryLeakCron   bool   `mapstructure:"enable_memory_leak_cron"`
	MemoryLeakCronSchedule string `mapstructure:"memory_leak_cron_schedule"`

	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`

	// Users should use mapstructure.Decode for AppConfig.
	AppConfig Config `mapstructure:"app"`
}

var defaultConfig = BaseConfig{
	LogLevel: "info",

	HTTPListenAddress:  ":8080",
	GRPCListenAddress:  ":8086",
	DebugListenAddress: ":8123",

	ShutdownGracePeriod: 30 * time.Second,

	EnablePprof:  true,
	EnableExpvar: true,

	EnableMemoryLeakCron:   false,
	MemoryLeakCronSchedule: "0 5 * * *",
}

func init() {
	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	_ = viper.BindEnv("app_name", "APP_NAME")

	_ = viper.BindEnv("http_listen_address", "HTTP_LISTEN_ADDRESS")
	_ = viper.BindEnv("grpc_listen_address", "GRPC_LISTEN_ADDRESS")
	_ = viper.BindEnv("debug_listen_address", "DEBUG_LISTEN_ADDRESS")

	_ = viper.BindEnv("shutdown_grace_period", "SHUTDOWN_GRACE_PERIOD")

	_ = viper.BindEnv("enable_pprof", "ENABLE_PPROF")
	_ = viper.BindEnv("enable_expvar", "ENABLE_EXPVAR")

	_ = viper.BindEnv("enable_memory_leak_cron", "ENABLE_MEMORY_LEAK_CRON")
	_ = viper.BindEnv("memory_leak_cron_schedule", "MEMORY_LEAK_CRON_SCHEDULE")

	_ = viper.BindEnv("new_relic_license_key", "NEW_RELIC_LICENSE_KEY")
}

// loadConfig reads the config file, when it exists, over the defaults. Env
// bindings take precedence over the file.
func loadConfig(path string) (BaseConfig, error) {
	v := viper.GetViper()

	// An explicitly set file that doesn't exist isn't reported as
	// ConfigFileNotFoundError, so only set it when it's there
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
	} else if !os.IsNotExist(err) {
		return BaseConfig{}, err
	}

	err := v.ReadInConfig()
	_, isConfigNotFound := err.(viper.ConfigFileNotFoundError)
	if err != nil && !isConfigNotFound {
		return BaseConfig{}, err
	}

	config := defaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return BaseConfig{}, err
	}
	return config, nil
}
