package testutil

import (
	"testing"
	"time"
)

// WaitFor polls cond every millisecond and fails t if it is still false
// after timeout. It is meant for state published by background goroutines.
func WaitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %v waiting for %s", timeout, what)
		}
		time.Sleep(time.Millisecond)
	}
}
