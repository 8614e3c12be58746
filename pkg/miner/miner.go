package miner

import (
	"context"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vanitytx/txhash-miner/internal/config"
	"github.com/vanitytx/txhash-miner/internal/logger"
	"github.com/vanitytx/txhash-miner/pkg/signer"
	"github.com/vanitytx/txhash-miner/pkg/types"
	"github.com/vanitytx/txhash-miner/pkg/worker"
)

const (
	// DefaultBatchSize amortizes the cancellation check without letting a
	// worker over-run a win by more than one batch.
	DefaultBatchSize = 1000

	// DefaultWorkerCap bounds the pool; the search is CPU-bound so more
	// workers than cores buys nothing.
	DefaultWorkerCap = 8

	// OffsetSpacing separates the workers' base-fee starting offsets.
	// Chosen large enough that no worker plausibly exhausts its window
	// before a match is found. If one does, it drifts into the next
	// worker's range and re-tests fee values; accepted trade-off, the
	// search stays correct, just redundant.
	OffsetSpacing = 100_000_000
)

// Miner coordinates the parallel search for a transaction hash with the
// target prefix. It partitions the fee space, runs the worker pool, and
// delivers exactly one SearchOutcome from whichever worker claims the win.
type Miner struct {
	config       *config.Config
	logger       *logger.Logger
	signer       signer.Signer
	workerConfig *types.WorkerConfig

	token    types.CancelToken
	attempts int64
	results  chan *types.SearchOutcome
	wg       sync.WaitGroup

	errOnce   sync.Once
	workerErr error
}

// NewMiner creates a miner for the given immutable template. The template is
// shared by reference across workers and must not be mutated afterwards.
func NewMiner(cfg *config.Config, log *logger.Logger, s signer.Signer, tpl *types.TxTemplate) *Miner {
	if cfg.Workers <= 0 {
		cfg.Workers = min(runtime.NumCPU(), DefaultWorkerCap)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.OffsetSpacing == 0 {
		cfg.OffsetSpacing = OffsetSpacing
	}

	workerConfig := &types.WorkerConfig{
		Template:    tpl,
		Prefix:      cfg.NormalizedPrefix(),
		BatchSize:   cfg.BatchSize,
		PriorityFee: new(big.Int).SetUint64(cfg.PriorityFee),
		MaxBatches:  cfg.MaxBatches,
	}

	return &Miner{
		config:       cfg,
		logger:       log,
		signer:       s,
		workerConfig: workerConfig,
		results:      make(chan *types.SearchOutcome, 1),
	}
}

// StartOffset returns worker i's base-fee starting offset. Offsets are
// i*spacing apart, so distinct workers never sign the same fee pair while
// each stays inside its window.
func StartOffset(i int, spacing uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(spacing), big.NewInt(int64(i)))
}

// startFee is worker i's first base-fee cursor value.
func (m *Miner) startFee(i int) *big.Int {
	start := new(big.Int).SetUint64(m.config.BaseFeeStart)
	return start.Add(start, StartOffset(i, m.config.OffsetSpacing))
}

// Mine runs the search until a worker claims a match, the context is done,
// Stop is called, or every worker exhausts its batch budget. A nil outcome
// with a nil error means the search ended without a match, which is distinct
// from a worker failure.
func (m *Miner) Mine(ctx context.Context) (*types.SearchOutcome, error) {
	start := time.Now()

	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(ctx, i)
	}

	var logTicker *time.Ticker
	var logDone chan struct{}
	if m.config.Verbose {
		interval := time.Duration(m.config.LogInterval) * time.Second
		logTicker = time.NewTicker(interval)
		logDone = make(chan struct{})
		go m.periodicLogger(logTicker, logDone, start)

		m.logger.Printf("Search started with %d workers, logging every %d seconds...",
			m.config.Workers, m.config.LogInterval)
	}

	m.wg.Wait()

	if logTicker != nil {
		logTicker.Stop()
		close(logDone)
	}

	// The claimer, if any, has already buffered its outcome.
	select {
	case outcome := <-m.results:
		outcome.Attempts = atomic.LoadInt64(&m.attempts)
		outcome.Duration = time.Since(start)
		return outcome, nil
	default:
		return nil, m.workerErr
	}
}

// worker runs one member of the pool over its private fee range.
func (m *Miner) worker(ctx context.Context, workerID int) {
	defer m.wg.Done()

	w := worker.NewWorker(m.workerConfig, m.signer, m.startFee(workerID), &m.attempts)

	batches := 0
	for !m.token.Cancelled() {
		if ctx.Err() != nil {
			// Externally imposed deadline composes with the token.
			m.token.Cancel()
			return
		}

		candidate, err := w.ProcessBatch(&m.token)
		if err != nil {
			// Fatal to this worker only; the others keep searching.
			m.errOnce.Do(func() { m.workerErr = err })
			m.logger.Printf("worker %d stopped: %v", workerID, err)
			return
		}
		if candidate != nil {
			m.publish(candidate)
			return
		}

		batches++
		if m.workerConfig.MaxBatches > 0 && batches >= m.workerConfig.MaxBatches {
			m.logger.Debugf("worker %d exhausted its batch budget", workerID)
			return
		}
	}
}

// publish hands the claimed candidate to the orchestrator. Only the claim
// winner ever calls this, so the buffered send cannot block.
func (m *Miner) publish(candidate *types.SignedCandidate) {
	gas := new(big.Int).SetUint64(m.workerConfig.Template.GasLimit)
	m.results <- &types.SearchOutcome{
		Raw:      candidate.Raw,
		Hash:     candidate.Hash,
		Fees:     candidate.Fees,
		TotalFee: gas.Mul(gas, candidate.Fees.GasFeeCap),
	}
}

// Stop cancels the search without publishing a result.
func (m *Miner) Stop() {
	m.token.Cancel()
}

// periodicLogger logs search progress at regular intervals
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan struct{}, start time.Time) {
	for {
		select {
		case <-ticker.C:
			attempts := atomic.LoadInt64(&m.attempts)
			elapsed := time.Since(start)

			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}

			m.logger.Printf("Progress: %d candidates signed, %.2f hashes/sec, no match yet",
				attempts, rate)
		case <-done:
			return
		}
	}
}
