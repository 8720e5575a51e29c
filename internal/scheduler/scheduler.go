// Package scheduler keeps one recurring income timer per automated producer type.
//
// Timer callbacks never touch game state directly: each firing is posted to the
// caller's event loop, and on the loop it is checked against the currently armed
// handle before the income callback runs. A tick that was already queued when its
// timer got retired is therefore dropped.
package scheduler

import (
	"log/slog"
	"sort"
	"time"

	"github.com/suderio/farmstead/internal/catalog"
)

// Post enqueues fn on the single logical thread that owns the game state.
type Post func(fn func())

// Inline runs fn immediately. Used with FakeClock when the caller is the loop.
func Inline(fn func()) { fn() }

type timer struct {
	interval time.Duration
	stopper  Stopper
}

// Scheduler maps producer types to their live timers. Arm, Retire and the posted
// callbacks must all run on the same loop.
type Scheduler struct {
	clock  Clock
	post   Post
	income func(catalog.ProducerType)
	timers map[catalog.ProducerType]*timer
}

// New creates a scheduler that calls income(t) on the loop for every tick of t.
func New(clock Clock, post Post, income func(catalog.ProducerType)) *Scheduler {
	if post == nil {
		post = Inline
	}
	return &Scheduler{
		clock:  clock,
		post:   post,
		income: income,
		timers: make(map[catalog.ProducerType]*timer),
	}
}

// Arm replaces any timer for t with a new one firing every interval.
func (s *Scheduler) Arm(t catalog.ProducerType, interval time.Duration) {
	s.Retire(t)
	if interval <= 0 {
		slog.Warn("refusing to arm automation with non-positive interval", "type", t, "interval", interval)
		return
	}

	h := &timer{interval: interval}
	h.stopper = s.clock.Every(interval, func() {
		s.post(func() { s.fire(t, h) })
	})
	s.timers[t] = h
	slog.Debug("automation armed", "type", t, "interval", interval)
}

// Retire cancels the timer for t. Retiring an unarmed type is a no-op.
func (s *Scheduler) Retire(t catalog.ProducerType) {
	h, ok := s.timers[t]
	if !ok {
		return
	}
	h.stopper.Stop()
	delete(s.timers, t)
	slog.Debug("automation retired", "type", t)
}

func (s *Scheduler) fire(t catalog.ProducerType, h *timer) {
	if s.timers[t] != h {
		return
	}
	s.income(t)
}

// Armed reports whether t currently has a timer.
func (s *Scheduler) Armed(t catalog.ProducerType) bool {
	_, ok := s.timers[t]
	return ok
}

// Interval returns the period of t's timer.
func (s *Scheduler) Interval(t catalog.ProducerType) (time.Duration, bool) {
	h, ok := s.timers[t]
	if !ok {
		return 0, false
	}
	return h.interval, true
}

// Types lists the armed producer types in a stable order.
func (s *Scheduler) Types() []catalog.ProducerType {
	types := make([]catalog.ProducerType, 0, len(s.timers))
	for t := range s.timers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Stop retires every timer.
func (s *Scheduler) Stop() {
	for t := range s.timers {
		s.Retire(t)
	}
}
