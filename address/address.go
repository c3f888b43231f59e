// Package address defines the typed content addresses used on the network.
//
// A data address names raw immutable bytes; an archive address names the
// stored serialized form of an archive manifest. The two kinds share the
// same 32-byte hex wire representation but are distinct Go types, so code
// cannot hand one off where the other is expected without an explicit
// conversion. Addresses are only ever produced by a successful store
// operation or parsed from operator input — never derived locally.
package address

import (
	"encoding/hex"
	"fmt"
)

// Size is the length in bytes of every network address.
const Size = 32

// Address is implemented by both address kinds. Network reads accept any
// Address (fetching bytes does not care what they encode); writes produce
// the concrete kind. The interface is sealed so no third kind can appear.
type Address interface {
	// Hex returns the lowercase hex encoding of the address.
	Hex() string

	// Bytes returns a copy of the raw 32-byte address.
	Bytes() []byte

	sealed()
}

// Data names raw immutable content stored on the network.
type Data struct {
	xor [Size]byte
}

// Archive names the stored serialized form of an archive manifest.
type Archive struct {
	xor [Size]byte
}

// NewData builds a data address from raw bytes.
func NewData(b []byte) (Data, error) {
	var d Data
	if len(b) != Size {
		return d, fmt.Errorf("%w: got %d", ErrInvalidLength, len(b))
	}
	copy(d.xor[:], b)
	return d, nil
}

// ParseData parses a hex-encoded data address as exchanged on the CLI
// boundary.
func ParseData(s string) (Data, error) {
	b, err := parseHex(s)
	if err != nil {
		return Data{}, err
	}
	return NewData(b)
}

// NewArchive builds an archive address from raw bytes.
func NewArchive(b []byte) (Archive, error) {
	var a Archive
	if len(b) != Size {
		return a, fmt.Errorf("%w: got %d", ErrInvalidLength, len(b))
	}
	copy(a.xor[:], b)
	return a, nil
}

// ParseArchive parses a hex-encoded archive address.
func ParseArchive(s string) (Archive, error) {
	b, err := parseHex(s)
	if err != nil {
		return Archive{}, err
	}
	return NewArchive(b)
}

// ArchiveFrom reinterprets a data address as an archive address. This is
// the single sanctioned crossing between the two kinds: the store
// operation always yields a data address, and the caller that stored
// serialized archive bytes marks the result here.
func ArchiveFrom(d Data) Archive {
	return Archive{xor: d.xor}
}

func parseHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	if len(b) != Size {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, len(b))
	}
	return b, nil
}

// Hex returns the lowercase hex encoding of the address.
func (d Data) Hex() string { return hex.EncodeToString(d.xor[:]) }

// Bytes returns a copy of the raw address bytes.
func (d Data) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, d.xor[:])
	return b
}

// IsZero reports whether the address is the zero value.
func (d Data) IsZero() bool { return d.xor == [Size]byte{} }

func (d Data) String() string { return d.Hex() }

func (Data) sealed() {}

// Hex returns the lowercase hex encoding of the address.
func (a Archive) Hex() string { return hex.EncodeToString(a.xor[:]) }

// Bytes returns a copy of the raw address bytes.
func (a Archive) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a.xor[:])
	return b
}

// IsZero reports whether the address is the zero value.
func (a Archive) IsZero() bool { return a.xor == [Size]byte{} }

func (a Archive) String() string { return a.Hex() }

func (Archive) sealed() {}
