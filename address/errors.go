package address

import "errors"

var (
	// ErrInvalidLength indicates the raw address is not exactly 32 bytes.
	ErrInvalidLength = errors.New("address: must be 32 bytes")

	// ErrInvalidHex indicates the address string is not valid hex.
	ErrInvalidHex = errors.New("address: invalid hex string")
)
