package config

import (
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads the service configuration from file and environment
// variables. File lookup covers /etc/riskwatch/ and the working directory;
// every key can be overridden with a RISKWATCH_-prefixed env var.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.pprof_enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "riskwatch")
	v.SetDefault("database.database", "riskwatch")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.alert_topic", "riskwatch.alerts")
	v.SetDefault("kafka.write_timeout", "10s")
	v.SetDefault("kafka.batch_timeout", "100ms")
	v.SetDefault("kafka.batch_size", 100)
	v.SetDefault("kafka.required_acks", -1)
	v.SetDefault("engine.view_cache_ttl", "30s")
	v.SetDefault("engine.lock_shards", 64)
	v.SetDefault("log.level", "info")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "riskwatch")
	v.SetDefault("tracing.sampling_rate", 0.1)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/riskwatch/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("RISKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
