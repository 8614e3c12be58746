package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Errors
var (
	ErrNoPrivateKey   = errors.New("PRIVATE_KEY is required")
	ErrNoRPC          = errors.New("RPC is required unless --nonce is set with --dry-run")
	ErrNoChainID      = errors.New("CHAIN_ID must be a positive integer")
	ErrNoGasLimit     = errors.New("GAS_LIMIT must be a positive integer")
	ErrInvalidPrefix  = errors.New("HASH_PREFIX must be hexadecimal")
	ErrInvalidWorkers = errors.New("workers must be positive")
)

// Config holds the application configuration. Chain parameters and secrets
// come from the environment (or a .env file), tuning knobs from flags.
type Config struct {
	// Environment-sourced.
	PrivateKey string
	RPCURL     string
	ChainID    uint64
	HashPrefix string
	Calldata   string
	GasLimit   uint64

	// Flag-sourced.
	Nonce         int64 // -1 fetches from the node
	Workers       int
	BatchSize     int
	BaseFeeStart  uint64
	PriorityFee   uint64
	OffsetSpacing uint64
	MaxBatches    int
	DryRun        bool
	Verbose       bool
	LogFile       string
	LogInterval   int // Logging interval in seconds
}

// NewConfig creates a new configuration with default values. Fee defaults
// match the original search parameters: 0.018 gwei base fee start and
// 0.00125 gwei priority fee.
func NewConfig() *Config {
	return &Config{
		Nonce:        -1,
		Workers:      runtime.NumCPU(),
		BaseFeeStart: 18_000_000,
		PriorityFee:  1_250_000,
		LogInterval:  5,
	}
}

// LoadEnv fills the environment-sourced fields from an optional .env file
// and the process environment. The environment always wins over the file.
func (c *Config) LoadEnv() error {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing .env is fine; the environment alone may be complete.
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("read .env: %w", err)
		}
	}

	c.PrivateKey = v.GetString("PRIVATE_KEY")
	c.RPCURL = v.GetString("RPC")
	c.ChainID = v.GetUint64("CHAIN_ID")
	c.HashPrefix = v.GetString("HASH_PREFIX")
	c.Calldata = v.GetString("CALLDATA")
	c.GasLimit = v.GetUint64("GAS_LIMIT")
	if v.IsSet("NONCE") {
		c.Nonce = v.GetInt64("NONCE")
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.PrivateKey == "" {
		return ErrNoPrivateKey
	}
	if c.RPCURL == "" && !(c.DryRun && c.Nonce >= 0) {
		return ErrNoRPC
	}
	if c.ChainID == 0 {
		return ErrNoChainID
	}
	if c.GasLimit == 0 {
		return ErrNoGasLimit
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if _, err := hex.DecodeString(padNibbles(stripHexPrefix(c.NormalizedPrefix()))); err != nil {
		return ErrInvalidPrefix
	}
	return nil
}

// NormalizedPrefix returns the target prefix lowercased and carrying the
// "0x" marker, the form the matcher compares hash renderings against.
// An empty target stays empty and matches everything.
func (c *Config) NormalizedPrefix() string {
	p := strings.ToLower(strings.TrimSpace(c.HashPrefix))
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "0x") {
		p = "0x" + p
	}
	return p
}

// GetCalldata decodes the contract-creation payload.
func (c *Config) GetCalldata() ([]byte, error) {
	code := stripHexPrefix(strings.TrimSpace(c.Calldata))
	if code == "" {
		return nil, nil
	}
	bytes, err := hex.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("invalid CALLDATA: %w", err)
	}
	return bytes, nil
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

// padNibbles makes an odd-length hex fragment decodable for validation only;
// matching itself works on the raw string form.
func padNibbles(s string) string {
	if len(s)%2 != 0 {
		return s + "0"
	}
	return s
}
