package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for keystore encryption.
	argon2Time        = 3
	argon2Memory      = 64 * 1024 // 64 MB
	argon2Parallelism = 4
	argon2KeyLen      = 32

	// Keystore format sizes.
	saltLen     = 16
	nonceLen    = 12
	checksumLen = 4
)

// encryptKey encrypts the private key with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, key||checksum)
//
// The checksum is SHA256(key)[:4] for verifying correct decryption.
func encryptKey(key []byte, password string) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("wallet: generate salt: %w", err)
	}

	derivedKey := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	keyHash := sha256.Sum256(key)
	plaintext := make([]byte, 0, KeySize+checksumLen)
	plaintext = append(plaintext, key...)
	plaintext = append(plaintext, keyHash[:checksumLen]...)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("wallet: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("wallet: GCM creation failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("wallet: generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, saltLen+nonceLen+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}

// decryptKey decrypts a keystore blob and verifies its checksum.
func decryptKey(encrypted []byte, password string) ([]byte, error) {
	if len(encrypted) < saltLen+nonceLen+checksumLen {
		return nil, ErrDecryptionFailed
	}

	salt := encrypted[:saltLen]
	nonce := encrypted[saltLen : saltLen+nonceLen]
	ciphertext := encrypted[saltLen+nonceLen:]

	derivedKey := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(plaintext) != KeySize+checksumLen {
		return nil, ErrDecryptionFailed
	}

	key := plaintext[:KeySize]
	storedChecksum := plaintext[KeySize:]

	keyHash := sha256.Sum256(key)
	if subtle.ConstantTimeCompare(storedChecksum, keyHash[:checksumLen]) != 1 {
		return nil, ErrChecksumMismatch
	}

	return key, nil
}

// SaveKeystore encrypts the wallet's key with the password and writes it to
// path with owner-only permissions.
func SaveKeystore(path string, w *Wallet, password string) error {
	encrypted, err := encryptKey(w.keyBytes(), password)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, encrypted, 0600); err != nil {
		return fmt.Errorf("wallet: write keystore: %w", err)
	}
	return nil
}

// LoadKeystore reads and decrypts a keystore file.
func LoadKeystore(path, password string) (*Wallet, error) {
	encrypted, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
		}
		return nil, fmt.Errorf("wallet: read keystore: %w", err)
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	key, err := decryptKey(encrypted, password)
	if err != nil {
		return nil, err
	}
	return FromBytes(key)
}
