package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	App     AppConfig
	Logging LoggingConfig
}

// ServerConfig holds all server-related configuration
type ServerConfig struct {
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"readTimeout"`
	WriteTimeout time.Duration `json:"writeTimeout"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string `json:"environment"`
	LogLevel    string `json:"logLevel"`
}

// LoggingConfig controls the slog.Logger handed to the wsrpc core and the
// demo application built on top of it.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `json:"level"`
	// Format selects the slog handler: "text" or "json". Production
	// deployments want "json"; local development wants "text".
	Format string `json:"format"`
}

// NewDefaultConfig returns a Config instance with default values
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  time.Second * 15,
			WriteTimeout: time.Second * 15,
		},
		App: AppConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
