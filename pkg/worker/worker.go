package worker

import (
	"errors"
	"math/big"
	"strings"
	"sync/atomic"

	"github.com/vanitytx/txhash-miner/pkg/signer"
	"github.com/vanitytx/txhash-miner/pkg/types"
)

// Worker owns one disjoint slice of the base-fee search space. It generates
// fixed-size batches of fee candidates from a private cursor, signs them, and
// tests each hash against the target prefix.
type Worker struct {
	config   *types.WorkerConfig
	signer   signer.Signer
	cursor   *big.Int
	attempts *int64

	// Reused across batches to avoid re-allocating candidate slices.
	batch []types.FeeCandidate
}

// NewWorker creates a worker whose fee cursor starts at start. Callers are
// responsible for handing each worker a disjoint starting offset.
func NewWorker(config *types.WorkerConfig, s signer.Signer, start *big.Int, attempts *int64) *Worker {
	return &Worker{
		config:   config,
		signer:   s,
		cursor:   new(big.Int).Set(start),
		attempts: attempts,
		batch:    make([]types.FeeCandidate, 0, config.BatchSize),
	}
}

// Cursor returns the next base fee the worker would test.
func (w *Worker) Cursor() *big.Int {
	return new(big.Int).Set(w.cursor)
}

// nextBatch fills the candidate batch with strictly increasing base-fee
// values (cursor, cursor+1, ...) and advances the cursor past the batch.
// Batching only amortizes cancellation checks; it never reorders or skips
// values.
func (w *Worker) nextBatch() []types.FeeCandidate {
	w.batch = w.batch[:0]
	for i := 0; i < w.config.BatchSize; i++ {
		w.batch = append(w.batch, types.FeeCandidate{
			GasFeeCap: new(big.Int).Add(w.cursor, w.config.PriorityFee),
			GasTipCap: w.config.PriorityFee,
		})
		w.cursor = w.cursor.Add(w.cursor, big.NewInt(1))
	}
	return w.batch
}

// ProcessBatch generates and signs one batch. On a prefix match it attempts
// to claim the win through the token: the claimer gets the candidate back,
// losers discard silently. A nil, nil return means no claim this batch.
// Per-candidate signing failures are skipped; fatal signer failures are
// returned and terminate the worker.
func (w *Worker) ProcessBatch(token *types.CancelToken) (*types.SignedCandidate, error) {
	for _, fee := range w.nextBatch() {
		if token.Cancelled() {
			return nil, nil
		}

		candidate, err := w.signer.Sign(w.config.Template, fee)
		if err != nil {
			var fatal *signer.FatalError
			if errors.As(err, &fatal) {
				return nil, err
			}
			continue
		}

		atomic.AddInt64(w.attempts, 1)

		if w.matches(candidate.Hash.Hex()) {
			if token.TryClaim() {
				return candidate, nil
			}
			// Another worker won the claim race in the same instant.
			return nil, nil
		}
	}
	return nil, nil
}

// matches tests the lowercase 0x-hex rendering of a hash against the target
// prefix. The empty prefix matches everything.
func (w *Worker) matches(hashHex string) bool {
	return strings.HasPrefix(hashHex, w.config.Prefix)
}
