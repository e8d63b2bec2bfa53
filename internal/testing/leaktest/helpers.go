// Package leaktest checks that background workers give back their goroutines.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleDelay  = 10 * time.Millisecond
	pollInterval = 10 * time.Millisecond
	// DefaultWait is how long Check polls before reporting a leak
	DefaultWait = 500 * time.Millisecond
)

// GoroutineChecker records a goroutine baseline and later compares against it
type GoroutineChecker struct {
	t      testing.TB
	before int
	wait   time.Duration
}

// NewGoroutineChecker records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	time.Sleep(settleDelay)
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine(), wait: DefaultWait}
}

// WithWait changes how long Check polls
func (g *GoroutineChecker) WithWait(d time.Duration) *GoroutineChecker {
	g.wait = d
	return g
}

// Leaked returns how many goroutines are above the baseline right now
func (g *GoroutineChecker) Leaked() int {
	return runtime.NumGoroutine() - g.before
}

// Check polls until at most tolerance extra goroutines remain and fails the
// test when the wait runs out first.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()
	deadline := time.Now().Add(g.wait)
	for {
		runtime.Gosched()
		leaked := g.Leaked()
		if leaked <= tolerance {
			return
		}
		if time.Now().After(deadline) {
			g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d tolerance=%d",
				g.before, g.before+leaked, leaked, tolerance)
			return
		}
		time.Sleep(pollInterval)
	}
}

// CheckNoGoroutineLeak runs fn and fails when it leaves goroutines behind
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
