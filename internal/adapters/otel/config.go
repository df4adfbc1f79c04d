package otel

import "github.com/kelseyhightower/envconfig"

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string `envconfig:"OTEL_ENDPOINT"`
	Enabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	Insecure bool   `envconfig:"OTEL_INSECURE" default:"false"`
}

// LoadConfig loads OTEL configuration from EXPORTVIEW_OTEL_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("exportview", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Active reports whether an exporter should be created.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}
