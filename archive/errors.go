package archive

import "errors"

var (
	// ErrCorrupt indicates the byte sequence is not a well-formed archive
	// encoding.
	ErrCorrupt = errors.New("archive: corrupt encoding")

	// ErrEmptyPath indicates an entry path is empty.
	ErrEmptyPath = errors.New("archive: entry path is empty")

	// ErrAbsolutePath indicates an entry path is absolute.
	ErrAbsolutePath = errors.New("archive: entry path must be relative")

	// ErrPathEscapes indicates an entry path would escape the output root.
	ErrPathEscapes = errors.New("archive: entry path escapes the output root")

	// ErrInvalidPath indicates an entry path contains an empty or "."
	// segment or a backslash.
	ErrInvalidPath = errors.New("archive: invalid entry path")

	// ErrZeroAddress indicates an entry references the zero address.
	ErrZeroAddress = errors.New("archive: entry address is zero")
)
