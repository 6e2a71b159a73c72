package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ergoplatform/ergo-tg/ergo"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid. A
// malformed change address is a configuration fault and fails here, at
// startup, not per request.
func Validate(cfg *Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if err := validateURL(cfg.Explorer.URL); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExplorerURL, err)
	}

	if cfg.Wallet.ChangeAddress != "" {
		if _, err := ergo.ParseAddress(cfg.Wallet.ChangeAddress); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidChangeAddress, err)
		}
	}

	if cfg.Pending.TTL <= 0 {
		return ErrInvalidPendingTTL
	}
	if cfg.Pending.SweepInterval <= 0 || cfg.Pending.SweepInterval > cfg.Pending.TTL {
		return ErrInvalidSweepInterval
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return ErrInvalidLogLevel
	}

	return nil
}

// validateURL checks that raw is an absolute http(s) URL.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
