package types

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestCancelTokenLifecycle(t *testing.T) {
	var token CancelToken
	if token.Cancelled() {
		t.Error("new token must not be cancelled")
	}
	if !token.TryClaim() {
		t.Error("first claim must succeed")
	}
	if !token.Cancelled() {
		t.Error("claim must cancel the token")
	}
	if token.TryClaim() {
		t.Error("second claim must fail")
	}
}

func TestCancelTokenCancelPreventsClaim(t *testing.T) {
	var token CancelToken
	token.Cancel()
	token.Cancel() // idempotent
	if token.TryClaim() {
		t.Error("claim after external cancel must fail")
	}
}

// TestCancelTokenSingleWinner simulates many workers finding a match in the
// same instant: exactly one claim may succeed.
func TestCancelTokenSingleWinner(t *testing.T) {
	const claimers = 64

	var token CancelToken
	var wins int64
	var start, wg sync.WaitGroup

	start.Add(1)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			if token.TryClaim() {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	start.Done()
	wg.Wait()

	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
}
