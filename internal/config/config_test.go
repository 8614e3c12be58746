package config

import (
	"bytes"
	"errors"
	"testing"
)

func validConfig() *Config {
	cfg := NewConfig()
	cfg.PrivateKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	cfg.RPCURL = "http://localhost:8545"
	cfg.ChainID = 1
	cfg.HashPrefix = "00"
	cfg.GasLimit = 21000
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing private key",
			mutate:  func(c *Config) { c.PrivateKey = "" },
			wantErr: ErrNoPrivateKey,
		},
		{
			name:    "missing rpc",
			mutate:  func(c *Config) { c.RPCURL = "" },
			wantErr: ErrNoRPC,
		},
		{
			name: "rpc optional for offline dry run",
			mutate: func(c *Config) {
				c.RPCURL = ""
				c.DryRun = true
				c.Nonce = 5
			},
		},
		{
			name:    "missing chain id",
			mutate:  func(c *Config) { c.ChainID = 0 },
			wantErr: ErrNoChainID,
		},
		{
			name:    "missing gas limit",
			mutate:  func(c *Config) { c.GasLimit = 0 },
			wantErr: ErrNoGasLimit,
		},
		{
			name:    "non-hex prefix",
			mutate:  func(c *Config) { c.HashPrefix = "0xzz" },
			wantErr: ErrInvalidPrefix,
		},
		{
			name:   "odd-length prefix is fine",
			mutate: func(c *Config) { c.HashPrefix = "abc" },
		},
		{
			name:   "empty prefix is fine",
			mutate: func(c *Config) { c.HashPrefix = "" },
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: ErrInvalidWorkers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizedPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "bare hex gets marker", prefix: "00AB", want: "0x00ab"},
		{name: "marker kept", prefix: "0x00ab", want: "0x00ab"},
		{name: "uppercase marker lowered", prefix: "0X00AB", want: "0x00ab"},
		{name: "empty stays empty", prefix: "", want: ""},
		{name: "whitespace trimmed", prefix: "  00 ", want: "0x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.HashPrefix = tt.prefix
			if got := cfg.NormalizedPrefix(); got != tt.want {
				t.Errorf("NormalizedPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetCalldata(t *testing.T) {
	cfg := NewConfig()

	cfg.Calldata = "0x6080"
	data, err := cfg.GetCalldata()
	if err != nil {
		t.Fatalf("GetCalldata() error = %v", err)
	}
	if !bytes.Equal(data, []byte{0x60, 0x80}) {
		t.Errorf("GetCalldata() = %x, want 6080", data)
	}

	cfg.Calldata = ""
	data, err = cfg.GetCalldata()
	if err != nil || data != nil {
		t.Errorf("empty calldata: got %x, %v", data, err)
	}

	cfg.Calldata = "xyz"
	if _, err = cfg.GetCalldata(); err == nil {
		t.Error("invalid hex must error")
	}
}
