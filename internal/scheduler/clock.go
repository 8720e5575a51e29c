package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Clock produces repeating timers. RealClock is used at runtime, FakeClock in
// tests and in the offline simulator.
type Clock interface {
	Now() time.Time
	Every(d time.Duration, fn func()) Stopper
}

// Stopper cancels a repeating timer. Stop is idempotent.
type Stopper interface {
	Stop()
}

// RealClock runs each timer on its own goroutine driven by a time.Ticker.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Every(d time.Duration, fn func()) Stopper {
	t := &realTimer{stop: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

type realTimer struct {
	once sync.Once
	stop chan struct{}
}

func (t *realTimer) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// FakeClock is deterministic and test-friendly. Timers only fire inside Advance,
// on the caller's goroutine, in due-time order.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	seq     int
	period  time.Duration
	next    time.Time
	fn      func()
	stopped bool
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Every(d time.Duration, fn func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, seq: c.seq, period: d, next: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Pending reports how many timers are still registered.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves time forward by d, firing every timer that falls due on the way.
// Callbacks run without the clock lock held, so they may arm or stop timers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		due := c.nextDueLocked(target)
		if due == nil {
			break
		}
		c.now = due.next
		due.next = due.next.Add(due.period)
		fn := due.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// NextDue returns when the earliest timer fires, or false if none is registered.
func (c *FakeClock) NextDue() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return time.Time{}, false
	}
	c.sortLocked()
	return c.timers[0].next, true
}

func (c *FakeClock) nextDueLocked(target time.Time) *fakeTimer {
	if len(c.timers) == 0 {
		return nil
	}
	c.sortLocked()
	if first := c.timers[0]; !first.next.After(target) {
		return first
	}
	return nil
}

func (c *FakeClock) sortLocked() {
	sort.SliceStable(c.timers, func(i, j int) bool {
		a, b := c.timers[i], c.timers[j]
		if !a.next.Equal(b.next) {
			return a.next.Before(b.next)
		}
		return a.seq < b.seq
	})
}

func (t *fakeTimer) Stop() {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			break
		}
	}
}
