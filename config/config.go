// Package config loads client configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the RosePay API root, including the version prefix.
	APIBaseURL string `env:"ROSEPAY_API_URL, default=http://127.0.0.1:8000/api/v1"`
	// HTTPTimeout bounds every request; a hung submission fails instead of
	// pinning the workflow in Submitting forever.
	HTTPTimeout time.Duration `env:"ROSEPAY_HTTP_TIMEOUT, default=15s"`
	// SessionDir overrides where the credential file lives. Empty means the
	// user config directory.
	SessionDir string `env:"ROSEPAY_SESSION_DIR"`
	// NavigationDelay is how long the success state stays visible before the
	// deferred navigation fires.
	NavigationDelay time.Duration `env:"ROSEPAY_NAV_DELAY, default=2s"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
