package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/suderio/farmstead/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

type incomeLog struct {
	ticks []catalog.ProducerType
}

func (l *incomeLog) income(t catalog.ProducerType) {
	l.ticks = append(l.ticks, t)
}

func (l *incomeLog) count(t catalog.ProducerType) int {
	n := 0
	for _, got := range l.ticks {
		if got == t {
			n++
		}
	}
	return n
}

func TestArmFiresEveryInterval(t *testing.T) {
	clock := NewFakeClock(epoch)
	log := &incomeLog{}
	s := New(clock, Inline, log.income)

	s.Arm("chicken", 15*time.Second)
	assert.True(t, s.Armed("chicken"))

	clock.Advance(14 * time.Second)
	assert.Empty(t, log.ticks)

	clock.Advance(time.Second)
	assert.Equal(t, 1, log.count("chicken"))

	clock.Advance(time.Minute)
	assert.Equal(t, 5, log.count("chicken"))
}

func TestRearmReplacesTimer(t *testing.T) {
	clock := NewFakeClock(epoch)
	log := &incomeLog{}
	s := New(clock, Inline, log.income)

	s.Arm("chicken", 15*time.Second)
	s.Arm("chicken", 5*time.Second)

	assert.Equal(t, 1, clock.Pending(), "re-arming must not leave the old timer behind")
	interval, ok := s.Interval("chicken")
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, interval)

	clock.Advance(15 * time.Second)
	assert.Equal(t, 3, log.count("chicken"))
}

func TestRetireIsIdempotent(t *testing.T) {
	clock := NewFakeClock(epoch)
	log := &incomeLog{}
	s := New(clock, Inline, log.income)

	s.Retire("cow")
	s.Arm("cow", time.Second)
	s.Retire("cow")
	s.Retire("cow")

	assert.False(t, s.Armed("cow"))
	assert.Zero(t, clock.Pending())
	clock.Advance(10 * time.Second)
	assert.Empty(t, log.ticks)
}

func TestQueuedTickFromRetiredTimerDoesNotPay(t *testing.T) {
	clock := NewFakeClock(epoch)
	log := &incomeLog{}

	var queue []func()
	post := func(fn func()) { queue = append(queue, fn) }
	s := New(clock, post, log.income)

	s.Arm("chicken", 15*time.Second)
	clock.Advance(15 * time.Second)
	require.Len(t, queue, 1, "tick should be queued, not run")

	// Upgrade happens on the loop before the queued tick is drained.
	s.Arm("chicken", 10*time.Second)
	for _, fn := range queue {
		fn()
	}
	assert.Empty(t, log.ticks)

	queue = nil
	clock.Advance(10 * time.Second)
	require.Len(t, queue, 1)
	queue[0]()
	assert.Equal(t, 1, log.count("chicken"))
}

func TestTypesAreIndependent(t *testing.T) {
	clock := NewFakeClock(epoch)
	log := &incomeLog{}
	s := New(clock, Inline, log.income)

	s.Arm("chicken", 15*time.Second)
	s.Arm("cow", 10*time.Second)
	assert.Equal(t, []catalog.ProducerType{"chicken", "cow"}, s.Types())

	clock.Advance(30 * time.Second)
	assert.Equal(t, 2, log.count("chicken"))
	assert.Equal(t, 3, log.count("cow"))

	s.Stop()
	assert.Empty(t, s.Types())
	assert.Zero(t, clock.Pending())
}

func TestNonPositiveIntervalIsRejected(t *testing.T) {
	clock := NewFakeClock(epoch)
	s := New(clock, Inline, func(catalog.ProducerType) {})

	s.Arm("sheep", 0)
	assert.False(t, s.Armed("sheep"))
	assert.Zero(t, clock.Pending())
}

func TestFakeClockOrdersTies(t *testing.T) {
	clock := NewFakeClock(epoch)
	var order []string
	clock.Every(time.Second, func() { order = append(order, "a") })
	clock.Every(time.Second, func() { order = append(order, "b") })

	clock.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b", "a", "b"}, order)
	assert.Equal(t, epoch.Add(2*time.Second), clock.Now())

	next, ok := clock.NextDue()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(3*time.Second), next)
}

func TestRealClockStops(t *testing.T) {
	var ticks atomic.Int32
	stopper := RealClock{}.Every(5*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)
	stopper.Stop()
	stopper.Stop()

	time.Sleep(20 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, ticks.Load())
}
