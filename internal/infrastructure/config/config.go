package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the bridge process, loaded from environment
// variables with sensible defaults for local development.
type Config struct {
	// ListenAddr is the address the HTTP/websocket server binds to.
	ListenAddr string `env:"VTT_BRIDGE_LISTEN_ADDR" envDefault:":8765"`

	// CallTimeout is the default deadline for bridge calls issued without
	// an explicit timeout.
	CallTimeout time.Duration `env:"VTT_BRIDGE_CALL_TIMEOUT" envDefault:"30s"`

	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration `env:"VTT_BRIDGE_WRITE_TIMEOUT" envDefault:"10s"`

	// PongTimeout is how long a client may stay silent before its
	// connection is considered dead.
	PongTimeout time.Duration `env:"VTT_BRIDGE_PONG_TIMEOUT" envDefault:"60s"`

	// SendBuffer is the per-connection outbound queue size.
	SendBuffer int `env:"VTT_BRIDGE_SEND_BUFFER" envDefault:"256"`

	LogLevel  string `env:"VTT_BRIDGE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"VTT_BRIDGE_LOG_FORMAT" envDefault:"console"`
	LogOutput string `env:"VTT_BRIDGE_LOG_OUTPUT" envDefault:"stdout"`
	LogFile   string `env:"VTT_BRIDGE_LOG_FILE"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
