package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.GatewayURL == "" && cfg.SeedDomain == "" {
		return ErrNoGateway
	}

	if cfg.GatewayURL != "" {
		u, err := url.Parse(cfg.GatewayURL)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidGatewayURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: scheme must be http or https", ErrInvalidGatewayURL)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: missing host", ErrInvalidGatewayURL)
		}
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
