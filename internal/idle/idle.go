// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package idle provides a helper for stopping servers after a period of
// inactivity.
package idle

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

// Tracker is an idle tracker.
type Tracker struct {
	lastActivity atomic.Int64
	timeout      time.Duration
	cancel       context.CancelFunc
	expired      atomic.Bool
}

// NewTracker returns a new idle tracker that calls cancel once no requests
// were seen for timeout. It returns nil if timeout isn't positive.
func NewTracker(timeout time.Duration, cancel context.CancelFunc) *Tracker {
	if timeout <= 0 {
		return nil
	}
	t := &Tracker{
		timeout: timeout,
		cancel:  cancel,
	}
	t.touch()
	return t
}

func (t *Tracker) touch() { t.lastActivity.Store(time.Now().UnixNano()) }

// Handler is a middleware that updates the last activity time. On a nil
// Tracker it returns next unchanged.
func (t *Tracker) Handler(next http.Handler) http.Handler {
	if t == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.touch()
		next.ServeHTTP(w, r)
	})
}

// Expired reports whether the tracker canceled the context because of
// inactivity.
func (t *Tracker) Expired() bool { return t != nil && t.expired.Load() }

// Run runs the activity monitor in the background until ctx is done. It does
// nothing on a nil Tracker.
func (t *Tracker) Run(ctx context.Context) {
	if t == nil {
		return
	}
	go t.runActivityMonitor(ctx, tickFor(t.timeout))
}

func tickFor(timeout time.Duration) time.Duration {
	return min(max(timeout/4, 10*time.Millisecond), 30*time.Second)
}

func (t *Tracker) runActivityMonitor(ctx context.Context, tickDuration time.Duration) {
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if time.Since(time.Unix(0, t.lastActivity.Load())) > t.timeout {
				t.expired.Store(true)
				t.cancel()
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
