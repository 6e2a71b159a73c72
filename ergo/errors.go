package ergo

import "errors"

var (
	// ErrInvalidAddress indicates the address string is malformed: wrong
	// length, unknown type byte, or checksum mismatch.
	ErrInvalidAddress = errors.New("ergo: invalid address")
)
