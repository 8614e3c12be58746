package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TxTemplate is the immutable contract-creation transaction skeleton shared
// by all workers. Built once before the search starts and never mutated, so
// it needs no synchronization.
type TxTemplate struct {
	ChainID  *big.Int
	Nonce    uint64
	GasLimit uint64
	Data     []byte
}

// FeeCandidate is one (maxFeePerGas, maxPriorityFeePerGas) pair drawn from a
// worker's fee cursor. Created per iteration, not retained after signing.
type FeeCandidate struct {
	GasFeeCap *big.Int // maxFeePerGas = base fee cursor + priority fee
	GasTipCap *big.Int // maxPriorityFeePerGas, fixed per run
}

// SignedCandidate is one signed instance of the template: wire-encoded bytes
// plus the transaction hash. Immutable once produced.
type SignedCandidate struct {
	Raw  []byte
	Hash common.Hash
	Fees FeeCandidate
}

// SearchOutcome is the winning candidate together with the total fee cost
// (gas limit x maxFeePerGas, in wei). Published at most once per search.
type SearchOutcome struct {
	Raw      []byte
	Hash     common.Hash
	Fees     FeeCandidate
	TotalFee *big.Int
	Attempts int64
	Duration time.Duration
}

// WorkerConfig contains the read-only configuration shared by all workers.
type WorkerConfig struct {
	Template *TxTemplate

	// Prefix is the normalized target: lowercase, "0x"-prefixed hex.
	// Empty means every hash matches.
	Prefix string

	BatchSize   int
	PriorityFee *big.Int

	// MaxBatches bounds each worker's search (0 = unbounded). Used to turn
	// an unreachable prefix into a clean "not found" instead of a hang.
	MaxBatches int
}
