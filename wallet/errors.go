package wallet

import "errors"

var (
	// ErrInvalidKey indicates the private key is not a valid 32-byte
	// secp256k1 scalar.
	ErrInvalidKey = errors.New("wallet: invalid private key")

	// ErrKeyNotFound indicates no key was found in the environment or
	// keystore.
	ErrKeyNotFound = errors.New("wallet: private key not found")

	// ErrEmptyPassword indicates an empty keystore password.
	ErrEmptyPassword = errors.New("wallet: password must not be empty")

	// ErrDecryptionFailed indicates the keystore could not be decrypted
	// (wrong password or corrupted file).
	ErrDecryptionFailed = errors.New("wallet: keystore decryption failed")

	// ErrChecksumMismatch indicates the decrypted key failed its checksum.
	ErrChecksumMismatch = errors.New("wallet: keystore checksum mismatch")
)
