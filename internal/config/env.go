package config

import (
	"fmt"
	"os"
)

// ConfigPathEnv names the variable holding an optional config file path.
const ConfigPathEnv = "BEE_CONFIG"

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ApplyEnv overrides process settings from the environment. Game tuning is
// file-only.
func (c *Config) ApplyEnv() {
	c.Logging.Level = GetEnv("BEE_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = GetEnv("BEE_LOG_FORMAT", c.Logging.Format)
	c.Logging.Output = GetEnv("BEE_LOG_OUTPUT", c.Logging.Output)

	c.SSH.Host = GetEnv("SSH_HOST", c.SSH.Host)
	c.SSH.Port = GetEnv("SSH_PORT", c.SSH.Port)
	c.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", c.SSH.HostKeyPath)

	c.Web.Host = GetEnv("WEB_HOST", c.Web.Host)
	c.Web.Port = GetEnv("WEB_PORT", c.Web.Port)
	c.Web.DisplayHost = GetEnv("SSH_DISPLAY_HOST", c.Web.DisplayHost)
}

// FromEnv loads the file named by BEE_CONFIG (or the defaults when unset),
// applies environment overrides and validates the result.
func FromEnv() (*Config, error) {
	cfg := Default()
	if path := GetEnv(ConfigPathEnv, ""); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
