// Package config loads process configuration from file and environment.
// Environment variables override file values; defaults cover everything a
// local deployment needs except the explorer URL for mainnet.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ergoplatform/ergo-tg/ergo"
)

// Config holds all application configuration.
type Config struct {
	DataDir  string         `mapstructure:"data_dir"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Pending  PendingConfig  `mapstructure:"pending"`
	Log      LogConfig      `mapstructure:"log"`
}

// ExplorerConfig points at the chain explorer REST API.
type ExplorerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WalletConfig carries wallet-wide settings. ChangeAddress, when set,
// overrides the per-user change address; it must parse as a valid P2PK
// address or loading fails outright.
type WalletConfig struct {
	DefaultFee    uint64 `mapstructure:"default_fee"`
	ChangeAddress string `mapstructure:"change_address"`
}

// PendingConfig controls the pending-spend pool's expiry policy.
type PendingConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from the file at path (optional) and from
// environment variables with prefix ERGOTG_. Nested keys use underscores:
// ERGOTG_EXPLORER_URL, ERGOTG_PENDING_TTL, etc. The loaded configuration
// is validated before being returned.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", "./data")
	v.SetDefault("explorer.url", "https://api.ergoplatform.com")
	v.SetDefault("explorer.timeout", "30s")
	v.SetDefault("wallet.default_fee", 1000000) // 0.001 ERG
	v.SetDefault("wallet.change_address", "")
	v.SetDefault("pending.ttl", "2h")
	v.SetDefault("pending.sweep_interval", "1m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ERGOTG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A config file is optional; env vars and defaults can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ChangeAddressOverride returns the parsed change address override, or nil
// when none is configured. Validate has already checked it parses.
func (c *Config) ChangeAddressOverride() *ergo.Address {
	if c.Wallet.ChangeAddress == "" {
		return nil
	}
	addr := ergo.Address(c.Wallet.ChangeAddress)
	return &addr
}
