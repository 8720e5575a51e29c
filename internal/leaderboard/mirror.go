package leaderboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Mirror forwards the latest score to a Poster in the background. Publish never
// blocks; scores published faster than the board accepts them collapse into the
// newest one.
type Mirror struct {
	poster  Poster
	limiter *rate.Limiter
	timeout time.Duration

	mu     sync.Mutex
	latest *Entry
	wake   chan struct{}
}

// NewMirror posts at most once per minInterval. A non-positive interval means
// no throttling.
func NewMirror(p Poster, minInterval, timeout time.Duration) *Mirror {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mirror{
		poster:  p,
		limiter: rate.NewLimiter(limit, 1),
		timeout: timeout,
		wake:    make(chan struct{}, 1),
	}
}

// Publish queues e, replacing any score not yet sent. Entries without a name
// are ignored.
func (m *Mirror) Publish(e Entry) {
	if e.Name == "" {
		return
	}
	m.mu.Lock()
	m.latest = &e
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Mirror) take() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == nil {
		return Entry{}, false
	}
	e := *m.latest
	m.latest = nil
	return e, true
}

// Run sends queued scores until ctx is done. Failures are logged and dropped.
func (m *Mirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.wake:
		}

		if err := m.limiter.Wait(ctx); err != nil {
			return
		}
		e, ok := m.take()
		if !ok {
			continue
		}

		postCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := m.poster.Post(postCtx, e)
		cancel()
		if err != nil {
			slog.Warn("leaderboard update failed", "name", e.Name, "error", err)
			continue
		}
		slog.Debug("leaderboard updated", "name", e.Name, "currency", e.Currency)
	}
}
