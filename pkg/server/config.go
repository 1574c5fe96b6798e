package server

import (
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds the HTTP host settings. Defaults can be loaded from the
// environment via FromEnv.
type Config struct {
	// Addr is the listen address.
	Addr string `env:"CALLFORM_ADDR,default=:8080"`

	// BasePath is the URL prefix forms are served under.
	BasePath string `env:"CALLFORM_BASE_PATH,default=/forms"`

	// AllowedOrigins configures CORS. "*" allows every origin.
	AllowedOrigins []string `env:"CALLFORM_ALLOWED_ORIGINS,default=*"`

	ReadTimeout  time.Duration `env:"CALLFORM_READ_TIMEOUT,default=10s"`
	WriteTimeout time.Duration `env:"CALLFORM_WRITE_TIMEOUT,default=30s"`

	// LogLevel sets the minimum level for the host's logger.
	LogLevel string `env:"CALLFORM_LOG_LEVEL,default=info"`
}

// FromEnv builds a Config from environment variables, falling back to the
// struct tag defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.BasePath == "" {
		c.BasePath = "/forms"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}
