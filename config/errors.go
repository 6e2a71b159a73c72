package config

import "errors"

var (
	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidExplorerURL indicates the explorer URL is malformed.
	ErrInvalidExplorerURL = errors.New("config: invalid explorer URL")

	// ErrInvalidChangeAddress indicates the configured change address does
	// not parse as a P2PK address.
	ErrInvalidChangeAddress = errors.New("config: invalid change address")

	// ErrInvalidPendingTTL indicates the pending-spend TTL is not positive.
	ErrInvalidPendingTTL = errors.New("config: pending TTL must be positive")

	// ErrInvalidSweepInterval indicates the sweep interval is not positive
	// or exceeds the TTL.
	ErrInvalidSweepInterval = errors.New("config: sweep interval must be positive and at most the TTL")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")
)
