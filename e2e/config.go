package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// GATEWAY_ADDR targets an already running gateway. When empty the suite
	// boots an in-process instance on an ephemeral port.
	GatewayAddr string `envconfig:"GATEWAY_ADDR"`
	// E2E_DEBUG_JSON dumps every websocket frame as JSON in the test logs
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
