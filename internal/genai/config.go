package genai

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment with the GENCANVAS prefix. An empty
// GatewayURL means "discover one on the LAN via mDNS" (internal/net).
type Config struct {
	GatewayURL   string        `envconfig:"GATEWAY_URL"`
	APIKey       string        `envconfig:"API_KEY"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"90s"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"2s"`
	// MaxPolls bounds polling-based video generation; there is no automatic
	// retry beyond it.
	MaxPolls int `envconfig:"MAX_POLLS" default:"150"`
}

// LoadConfig reads the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("gencanvas", &cfg); err != nil {
		return Config{}, fmt.Errorf("load genai config: %w", err)
	}
	return cfg, nil
}
