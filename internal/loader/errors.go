package loader

import "errors"

// Common errors.
var (
	ErrChecksumMismatch = errors.New("checksum mismatch: file may be corrupted")
	ErrUnsupportedDType = errors.New("unsupported dtype")
	ErrOutOfBounds      = errors.New("tensor extends beyond data section")
	ErrNotFound         = errors.New("tensor not found")
)
