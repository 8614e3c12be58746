package crypto

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// ContractAddress predicts the address CREATE semantics assign to a contract
// deployed by sender at the given nonce: the low-order 20 bytes of
// keccak256(rlp([sender, nonce])). Pure function, display purposes only —
// the search never feeds back into it.
func ContractAddress(sender common.Address, nonce uint64) common.Address {
	enc, err := rlp.EncodeToBytes([]interface{}{sender, nonce})
	if err != nil {
		// An address and a uint64 always RLP-encode.
		panic(fmt.Errorf("rlp encode (sender, nonce): %w", err))
	}
	hash := Keccak256(enc)
	return common.BytesToAddress(hash[12:])
}

// Keccak256 calculates the keccak256 hash of the input bytes
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	return h.Sum(nil)
}
