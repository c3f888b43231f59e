package config

import "errors"

var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrUnknownKey indicates the config file contains an unrecognized key.
	ErrUnknownKey = errors.New("config: unknown configuration key")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidGatewayURL indicates the gateway URL is malformed.
	ErrInvalidGatewayURL = errors.New("config: invalid gateway URL")

	// ErrNoGateway indicates neither a gateway URL nor a seed domain is set.
	ErrNoGateway = errors.New("config: gateway_url or seed_domain must be set")
)
