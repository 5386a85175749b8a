package creature

import (
	"sync"
	"time"
)

// ActionTimer fires a callback after the action duration unless stopped.
// It is the cancellable handle behind every attack/defense completion.
// Safe for concurrent use.
type ActionTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// StartActionTimer creates and starts a timer that calls onFire after
// duration. onFire runs in its own goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: onFire will be called unless Stop is called first.
func StartActionTimer(duration time.Duration, onFire func()) *ActionTimer {
	at := &ActionTimer{}
	at.timer = time.AfterFunc(duration, func() {
		at.mu.Lock()
		stopped := at.stopped
		at.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	return at
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be invoked after Stop returns, except for an
// invocation already past its stopped check; the creature's handle-identity
// check under the fight guard neutralizes that window.
func (at *ActionTimer) Stop() {
	at.mu.Lock()
	defer at.mu.Unlock()
	at.stopped = true
	at.timer.Stop()
}
