package transfer

import "errors"

var (
	// ErrVerifyMismatch indicates the read-back bytes differ from the
	// uploaded bytes. The upload itself succeeded and its address is valid.
	ErrVerifyMismatch = errors.New("transfer: verification mismatch")

	// ErrEmptyFile indicates the local file has no content to upload.
	ErrEmptyFile = errors.New("transfer: file is empty")
)
