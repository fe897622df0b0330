package config

import (
	"httprgb/types"
	"time"
)

type AppConfig struct {
	Accessories []types.DeviceConfig
}

// Settings are the process-level knobs, read from the environment.
type Settings struct {
	ConfigFile   string        `env:"HTTPRGB_CONFIG" envDefault:"config/accessories.yaml"`
	MetricsAddr  string        `env:"HTTPRGB_METRICS_ADDR" envDefault:":8080"`
	HapPin       string        `env:"HTTPRGB_HAP_PIN" envDefault:"00102003"`
	HapStore     string        `env:"HTTPRGB_HAP_STORE" envDefault:"./db"`
	LogLevel     string        `env:"HTTPRGB_LOG_LEVEL" envDefault:"info"`
	LogJson      bool          `env:"HTTPRGB_LOG_JSON" envDefault:"false"`
	HttpTimeout  time.Duration `env:"HTTPRGB_HTTP_TIMEOUT" envDefault:"10s"`
	PollInterval time.Duration `env:"HTTPRGB_POLL_INTERVAL" envDefault:"0s"`
}

// credentialOverride lets an accessory's basic auth be kept out of the YAML
// file, e.g. HTTPRGB_DESK_LAMP_PASSWORD.
type credentialOverride struct {
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}
