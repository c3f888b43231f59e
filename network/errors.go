package network

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrTimeout indicates a network request timed out. Transient.
	ErrTimeout = errors.New("network: request timed out")

	// ErrUnavailable indicates the gateway or network is temporarily
	// unavailable (connection refused, 5xx). Transient.
	ErrUnavailable = errors.New("network: service unavailable")

	// ErrRateLimited indicates the gateway is throttling requests. Transient.
	ErrRateLimited = errors.New("network: rate limited")

	// ErrInsufficientFunds indicates the payment for a store operation was
	// rejected. Fatal.
	ErrInsufficientFunds = errors.New("network: insufficient funds")

	// ErrNotFound indicates no content exists at the requested address. Fatal.
	ErrNotFound = errors.New("network: content not found")

	// ErrInvalidResponse indicates the gateway returned a malformed or
	// unexpected response. Fatal.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrEmptyPayload indicates an attempt to store zero bytes. Fatal.
	ErrEmptyPayload = errors.New("network: payload is empty")

	// ErrNoEndpoints indicates no gateway endpoints could be resolved.
	ErrNoEndpoints = errors.New("network: no gateway endpoints")

	// ErrSeedLookupFailed indicates the DNS seed query failed.
	ErrSeedLookupFailed = errors.New("network: seed lookup failed")
)

// IsTransient reports whether err is worth retrying: timeouts, temporary
// unavailability, and rate limiting. Everything else — payment rejection,
// missing content, malformed input or responses, local I/O — is fatal and
// must surface immediately.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrRateLimited) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
