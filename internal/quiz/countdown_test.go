package quiz

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownFiresExactlyOnce(t *testing.T) {
	c := NewCountdownWithInterval(time.Millisecond)

	var fired int32
	c.Arm(3, nil, func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Fatalf("expected exactly one expiry, got %d", n)
	}
}

func TestCountdownStopCancelsExpiry(t *testing.T) {
	c := NewCountdownWithInterval(5 * time.Millisecond)

	var fired int32
	c.Arm(3, nil, func() { atomic.AddInt32(&fired, 1) })
	c.Stop()

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Fatalf("stopped countdown still expired %d times", n)
	}
}

func TestCountdownRearmReplacesPending(t *testing.T) {
	c := NewCountdownWithInterval(time.Millisecond)

	var first, second int32
	c.Arm(1000, nil, func() { atomic.AddInt32(&first, 1) })
	c.Arm(3, nil, func() { atomic.AddInt32(&second, 1) })

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&first); n != 0 {
		t.Fatalf("replaced countdown fired %d times", n)
	}
	if n := atomic.LoadInt32(&second); n != 1 {
		t.Fatalf("expected replacement to fire once, got %d", n)
	}
}

func TestCountdownTicksDown(t *testing.T) {
	c := NewCountdownWithInterval(time.Millisecond)

	ticks := make(chan int, 16)
	done := make(chan struct{})
	c.Arm(4, func(remaining int) { ticks <- remaining }, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("countdown never expired")
	}

	close(ticks)
	var seen []int
	for r := range ticks {
		seen = append(seen, r)
	}
	want := []int{3, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("ticks = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", seen, want)
		}
	}
}
