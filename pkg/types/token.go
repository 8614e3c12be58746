package types

import "sync/atomic"

// CancelToken is the single piece of mutable state shared across workers.
// It doubles as the win claim: the first caller of TryClaim both stops the
// search and acquires the right to publish the outcome. An external stop
// (signal, deadline) uses Cancel, which claims nothing.
type CancelToken struct {
	cancelled atomic.Bool
}

// Cancelled reports whether the search should stop. Workers poll this once
// per candidate; it is a single atomic load.
func (t *CancelToken) Cancelled() bool {
	return t.cancelled.Load()
}

// Cancel stops the search without claiming a result. Idempotent.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// TryClaim atomically transitions the token from running to cancelled and
// reports whether the caller performed the transition. Exactly one claim
// succeeds per search; losers must discard their match.
func (t *CancelToken) TryClaim() bool {
	return t.cancelled.CompareAndSwap(false, true)
}
