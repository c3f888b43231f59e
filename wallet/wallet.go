// Package wallet handles the secp256k1 payment key that funds store
// operations. The key is read from the environment or an encrypted
// keystore file; it never leaves the process.
package wallet

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// EnvPrivateKey is the environment variable holding the hex-encoded
// payment private key.
const EnvPrivateKey = "SHUTTLE_PRIVATE_KEY"

// KeySize is the private key length in bytes.
const KeySize = 32

// addressLen is the wallet address length in bytes (hash160-style).
const addressLen = 20

// Wallet holds the payment key pair.
type Wallet struct {
	priv *ec.PrivateKey
	pub  *ec.PublicKey
}

// FromHex builds a wallet from a hex-encoded 32-byte private key.
// A leading "0x" is accepted.
func FromHex(keyHex string) (*Wallet, error) {
	keyHex = strings.TrimPrefix(strings.TrimSpace(keyHex), "0x")
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return FromBytes(raw)
}

// FromBytes builds a wallet from a raw 32-byte private key.
func FromBytes(raw []byte) (*Wallet, error) {
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, KeySize, len(raw))
	}
	priv, pub := ec.PrivateKeyFromBytes(raw)
	if priv == nil || pub == nil {
		return nil, ErrInvalidKey
	}
	return &Wallet{priv: priv, pub: pub}, nil
}

// FromEnvironment builds a wallet from the SHUTTLE_PRIVATE_KEY variable.
func FromEnvironment() (*Wallet, error) {
	keyHex := os.Getenv(EnvPrivateKey)
	if keyHex == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrKeyNotFound, EnvPrivateKey)
	}
	return FromHex(keyHex)
}

// Generate creates a wallet with a fresh random key.
func Generate() (*Wallet, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: generate key: %w", err)
	}
	return &Wallet{priv: priv, pub: priv.PubKey()}, nil
}

// Address returns the wallet's network identity: the hex of the first 20
// bytes of SHA256(compressed public key).
func (w *Wallet) Address() string {
	sum := sha256.Sum256(w.pub.Compressed())
	return hex.EncodeToString(sum[:addressLen])
}

// PublicKeyHex returns the compressed public key as hex.
func (w *Wallet) PublicKeyHex() string {
	return hex.EncodeToString(w.pub.Compressed())
}

// PrivateKeyHex returns the raw private key as hex, for export. Handle
// with care.
func (w *Wallet) PrivateKeyHex() string {
	return hex.EncodeToString(w.priv.Serialize())
}

// Authorization signs the payload digest so the gateway can charge this
// wallet for a store. The header value is "<pubkey hex>:<DER signature hex>"
// over SHA256(payload). Implements network.Payer.
func (w *Wallet) Authorization(payload []byte) (string, error) {
	digest := sha256.Sum256(payload)
	sig, err := w.priv.Sign(digest[:])
	if err != nil {
		return "", fmt.Errorf("wallet: sign payload: %w", err)
	}
	return w.PublicKeyHex() + ":" + hex.EncodeToString(sig.Serialize()), nil
}

// keyBytes returns the raw private key for keystore encryption.
func (w *Wallet) keyBytes() []byte {
	return w.priv.Serialize()
}
