package session

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a session whose loop has stopped.
var ErrClosed = errors.New("session closed")

// runner serializes access to the game state.
type runner interface {
	Post(fn func())
	Do(ctx context.Context, fn func() error) error
}

// Loop is the single logical thread that owns the game state. Closures run one
// at a time, each to completion, in the order they were queued.
type Loop struct {
	queue    chan func()
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewLoop(size int) *Loop {
	return &Loop{
		queue: make(chan func(), size),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Run drains the queue until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post queues fn. It only blocks while the queue is full, and drops fn once the
// loop has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.stop:
	case <-l.done:
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	select {
	case l.queue <- func() { res <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}

	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case err := <-res:
			return err
		default:
			return ErrClosed
		}
	}
}

// Stop ends Run after the closure in progress. Queued closures are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// inline runs everything on the caller's goroutine. Used with a FakeClock.
type inline struct{}

func (inline) Post(fn func()) { fn() }

func (inline) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}
