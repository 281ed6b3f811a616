package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_FiresAtTarget(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	s := NewScheduler(clock)

	var fired atomic.Int32
	s.Schedule("check", clock.Now().Add(time.Hour), func() { fired.Add(1) })

	clock.Advance(30 * time.Minute)
	assert.Equal(t, int32(0), fired.Load())

	clock.Advance(31 * time.Minute)
	assert.Equal(t, int32(1), fired.Load())

	// Single shot: advancing further must not re-fire.
	clock.Advance(2 * time.Hour)
	assert.Equal(t, int32(1), fired.Load())
}

func TestScheduler_RescheduleReplacesPendingTimer(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	s := NewScheduler(clock)

	var first, second atomic.Int32
	s.Schedule("check", clock.Now().Add(time.Hour), func() { first.Add(1) })
	s.Schedule("check", clock.Now().Add(2*time.Hour), func() { second.Add(1) })

	clock.Advance(3 * time.Hour)

	assert.Equal(t, int32(0), first.Load(), "replaced timer must not fire")
	assert.Equal(t, int32(1), second.Load())
}

func TestScheduler_PastTargetFiresImmediately(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	s := NewScheduler(clock)

	var fired atomic.Int32
	s.Schedule("check", clock.Now().Add(-time.Hour), func() { fired.Add(1) })

	clock.Advance(0)
	assert.Equal(t, int32(1), fired.Load())
}

func TestScheduler_Cancel(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	s := NewScheduler(clock)

	var fired atomic.Int32
	s.Schedule("check", clock.Now().Add(time.Hour), func() { fired.Add(1) })
	s.Cancel("check")

	clock.Advance(2 * time.Hour)
	assert.Equal(t, int32(0), fired.Load())
}

func TestScheduler_IndependentKeys(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	s := NewScheduler(clock)

	var a, b atomic.Int32
	s.Schedule("a", clock.Now().Add(time.Hour), func() { a.Add(1) })
	s.Schedule("b", clock.Now().Add(time.Hour), func() { b.Add(1) })

	clock.Advance(time.Hour)
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestScheduler_StopAll(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	s := NewScheduler(clock)

	var fired atomic.Int32
	s.Schedule("a", clock.Now().Add(time.Hour), func() { fired.Add(1) })
	s.StopAll()

	// Scheduling after teardown is a no-op.
	s.Schedule("b", clock.Now().Add(time.Minute), func() { fired.Add(1) })

	clock.Advance(2 * time.Hour)
	assert.Equal(t, int32(0), fired.Load())
}

func TestFakeClock_AdvanceFiresInOrder(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))

	var order []int
	clock.AfterFunc(2*time.Hour, func() { order = append(order, 2) })
	clock.AfterFunc(time.Hour, func() { order = append(order, 1) })

	clock.Advance(3 * time.Hour)
	assert.Equal(t, []int{1, 2}, order)
}
