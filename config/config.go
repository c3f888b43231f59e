// Package config loads and validates the tool's configuration file, a
// plain key=value file kept in the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the tool's settings.
type Config struct {
	// GatewayURL is the gateway base URL. When empty, gateways are
	// discovered from SeedDomain.
	GatewayURL string

	// SeedDomain is the DNS seed domain for gateway discovery.
	SeedDomain string

	// DNSUpstream is the recursive resolver for seed queries
	// (host:port). Empty uses the built-in default.
	DNSUpstream string

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		SeedDomain: "seed.shuttle.network",
		LogLevel:   "info",
	}
}

// ConfigPath returns the config file location inside a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads a key=value config file. Blank lines and lines starting
// with '#' are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "gateway_url":
			cfg.GatewayURL = value
		case "seed_domain":
			cfg.SeedDomain = value
		case "dns_upstream":
			cfg.DNSUpstream = value
		case "log_level":
			cfg.LogLevel = value
		default:
			return cfg, fmt.Errorf("%w: line %d: %q", ErrUnknownKey, lineNo+1, key)
		}
	}

	return cfg, nil
}

// SaveConfig writes the config file, creating the parent directory as
// needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "gateway_url=%s\n", cfg.GatewayURL)
	fmt.Fprintf(&b, "seed_domain=%s\n", cfg.SeedDomain)
	fmt.Fprintf(&b, "dns_upstream=%s\n", cfg.DNSUpstream)
	fmt.Fprintf(&b, "log_level=%s\n", cfg.LogLevel)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
