// Package archive implements the named-path manifest stored alongside
// content on the network: an ordered sequence of (relative path, data
// address) entries, serialized once and immutable after storing.
package archive

import (
	"fmt"
	"strings"

	"github.com/nodeshard/shuttle/address"
)

// Entry maps a relative path to the data address of its content.
type Entry struct {
	// Path is a forward-slash-separated relative path. Never empty,
	// never absolute, never escaping the output root.
	Path string

	// Address names the entry's content on the network.
	Address address.Data
}

// Archive is an ordered manifest of entries. Build it with Add, serialize
// with Serialize; a deserialized archive is only read.
type Archive struct {
	entries []Entry
}

// New creates an empty archive.
func New() *Archive {
	return &Archive{}
}

// Add appends an entry after validating its path and address.
func (a *Archive) Add(path string, addr address.Data) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if addr.IsZero() {
		return fmt.Errorf("%w: %q", ErrZeroAddress, path)
	}
	a.entries = append(a.entries, Entry{Path: path, Address: addr})
	return nil
}

// Entries returns a copy of the entries in insertion order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Len returns the number of entries.
func (a *Archive) Len() int { return len(a.entries) }

/// ValidatePath checks that p is a usable relative entry path: non-empty,
// forward-slash separated, not absolute, with no ".", ".." or empty
// segments. Windows-style separators are rejected rather than translated.
func ValidatePath(p string) error {
	if p == "" {
		return ErrEmptyPath
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: %q", ErrAbsolutePath, p)
	}
	if strings.ContainsRune(p, '\\') {
		return fmt.Errorf("%w: backslash in %q", ErrInvalidPath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "":
			return fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, p)
		case ".":
			return fmt.Errorf("%w: %q segment in %q", ErrInvalidPath, seg, p)
		case "..":
			return fmt.Errorf("%w: %q", ErrPathEscapes, p)
		}
	}
	return nil
}
