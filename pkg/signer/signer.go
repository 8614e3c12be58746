package signer

import (
	"crypto/ecdsa"
	"fmt"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/vanitytx/txhash-miner/pkg/types"
)

// Signer deterministically encodes and signs one candidate transaction.
// EIP-1559 signing is deterministic, so the same template, candidate and key
// always yield the same bytes and hash.
type Signer interface {
	Sign(tpl *types.TxTemplate, fee types.FeeCandidate) (*types.SignedCandidate, error)
}

// FatalError marks a signer failure that will not go away with the next
// candidate (bad key, unsupported chain parameters). Workers terminate on it
// instead of skipping.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return "signer: " + e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }

// KeySigner signs candidates with a held secp256k1 private key.
type KeySigner struct {
	key    *ecdsa.PrivateKey
	signer ethtypes.Signer
}

// New creates a KeySigner scoped to the template's chain.
func New(key *ecdsa.PrivateKey, tpl *types.TxTemplate) *KeySigner {
	return &KeySigner{
		key:    key,
		signer: ethtypes.LatestSignerForChainID(tpl.ChainID),
	}
}

// Sign builds the typed EIP-1559 transaction for one fee candidate, signs it
// and returns the wire bytes and hash. The contract-creation destination is
// nil by construction.
func (s *KeySigner) Sign(tpl *types.TxTemplate, fee types.FeeCandidate) (*types.SignedCandidate, error) {
	tx, err := ethtypes.SignNewTx(s.key, s.signer, &ethtypes.DynamicFeeTx{
		ChainID:   tpl.ChainID,
		Nonce:     tpl.Nonce,
		GasTipCap: fee.GasTipCap,
		GasFeeCap: fee.GasFeeCap,
		Gas:       tpl.GasLimit,
		To:        nil,
		Data:      tpl.Data,
	})
	if err != nil {
		// Signature failures are key or chain configuration problems;
		// retrying with the next fee pair cannot help.
		return nil, &FatalError{Err: err}
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode signed tx: %w", err)
	}

	return &types.SignedCandidate{
		Raw:  raw,
		Hash: tx.Hash(),
		Fees: fee,
	}, nil
}
