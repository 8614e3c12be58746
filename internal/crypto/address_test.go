package crypto

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestContractAddressKnownVectors(t *testing.T) {
	sender := common.HexToAddress("0x970e8128ab834e8eac17ab8e3812f010678cf791")

	tests := []struct {
		nonce uint64
		want  string
	}{
		{nonce: 0, want: "0x333c3310824b7c685133f2bedb2ca4b8b4df633d"},
		{nonce: 1, want: "0x8bda78331c916a08481428e4b07c96d3e916d165"},
		{nonce: 2, want: "0xc9ddedf451bc62ce88bf9292afb13df35b670699"},
	}

	for _, tt := range tests {
		got := ContractAddress(sender, tt.nonce)
		require.Equal(t, common.HexToAddress(tt.want), got, "nonce %d", tt.nonce)
	}
}

// Cross-check against go-ethereum's own derivation, including the RLP edge
// where the nonce moves from a single byte to a length-prefixed encoding.
func TestContractAddressMatchesReference(t *testing.T) {
	sender := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	for _, nonce := range []uint64{0, 1, 5, 127, 128, 255, 256, 1_000_000} {
		require.Equal(t,
			gethcrypto.CreateAddress(sender, nonce),
			ContractAddress(sender, nonce),
			"nonce %d", nonce)
	}
}

func TestKeccak256(t *testing.T) {
	// keccak256("") reference vector.
	got := Keccak256(nil)
	require.Equal(t,
		common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		common.BytesToHash(got))
}
