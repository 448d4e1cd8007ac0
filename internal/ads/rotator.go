// Package ads holds the behavior behind the ad-snippet panel: timed rotation
// through the snippets and copying a snippet's markup to the clipboard.
package ads

import (
	"sync"
	"time"
)

// RotationInterval is the default delay between two highlighted snippets.
const RotationInterval = 3 * time.Second

// tickFunc returns a tick channel and its stop function.
type tickFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Rotator advances a highlighted index over n snippets while running.
// Stopping keeps the index, so a restart continues from the same snippet.
type Rotator struct {
	n        int
	interval time.Duration
	tick     tickFunc

	mu        sync.Mutex
	index     int
	stop      chan struct{}
	wg        sync.WaitGroup
	onAdvance func(int)
}

// NewRotator returns an idle rotator over n snippets. A zero interval means
// RotationInterval.
func NewRotator(n int, interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = RotationInterval
	}
	return &Rotator{n: n, interval: interval, tick: realTicker}
}

// OnAdvance registers the callback fired with the new index on every step.
// It runs on the rotator goroutine.
func (r *Rotator) OnAdvance(fn func(int)) {
	r.mu.Lock()
	r.onAdvance = fn
	r.mu.Unlock()
}

// Index returns the highlighted snippet.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Running reports whether rotation is active.
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

// Toggle flips between idle and rotating and returns the new running flag.
func (r *Rotator) Toggle() bool {
	if r.Running() {
		r.Stop()
		return false
	}
	r.Start()
	return r.Running()
}

// Start begins rotating. It is a no-op when already running or when there is
// nothing to rotate.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil || r.n <= 0 {
		return
	}
	stop := make(chan struct{})
	r.stop = stop
	ticks, stopTicker := r.tick(r.interval)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer stopTicker()
		for {
			select {
			case <-stop:
				return
			case <-ticks:
			}
			r.mu.Lock()
			select {
			case <-stop:
				r.mu.Unlock()
				return
			default:
			}
			r.index = (r.index + 1) % r.n
			idx, fn := r.index, r.onAdvance
			r.mu.Unlock()
			if fn != nil {
				fn(idx)
			}
		}
	}()
}

// Stop halts rotation immediately. No advance happens after Stop returns.
func (r *Rotator) Stop() {
	r.mu.Lock()
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
	r.mu.Unlock()
}

// Close stops rotation and waits for the rotator goroutine to exit.
func (r *Rotator) Close() {
	r.Stop()
	r.wg.Wait()
}
