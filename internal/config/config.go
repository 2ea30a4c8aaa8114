package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	EventSink   EventSinkConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	// Path selects the SQLite-backed store. Empty keeps the in-memory
	// registry, which forgets subscriptions on restart.
	Path string
}

type EventSinkConfig struct {
	// URL is the optional endpoint receiving a CloudEvent per recorded
	// subscription. Empty disables publishing.
	URL     string
	Secret  string
	Timeout time.Duration
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("pdw_env", "dev")
	v.SetDefault("pdw_port", 3000)
	v.SetDefault("pdw_db_path", "")
	v.SetDefault("pdw_event_sink_url", "")
	v.SetDefault("pdw_event_sink_secret", "")
	v.SetDefault("pdw_event_sink_timeout_ms", 10000)

	port := v.GetInt("pdw_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PDW_PORT: %d", port)
	}

	sinkTimeout := v.GetInt("pdw_event_sink_timeout_ms")
	if sinkTimeout <= 0 {
		sinkTimeout = 10000
	}

	return Config{
		Environment: strings.TrimSpace(v.GetString("pdw_env")),
		Server: ServerConfig{
			Port: port,
		},
		Database: DatabaseConfig{
			Path: strings.TrimSpace(v.GetString("pdw_db_path")),
		},
		EventSink: EventSinkConfig{
			URL:     strings.TrimSpace(v.GetString("pdw_event_sink_url")),
			Secret:  strings.TrimSpace(v.GetString("pdw_event_sink_secret")),
			Timeout: time.Duration(sinkTimeout) * time.Millisecond,
		},
	}, nil
}

// IsLocalDevelopment reports whether the service runs in a dev environment.
func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(c.Environment) {
	case "", "dev", "development", "local":
		return true
	default:
		return false
	}
}
