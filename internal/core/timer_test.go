package core

import (
	"testing"
	"time"
)

func TestFixedStepPacing(t *testing.T) {
	fs := NewFixedStep(10)
	if fs.Interval() != 100*time.Millisecond {
		t.Fatalf("interval = %v, expected 100ms", fs.Interval())
	}
	start := time.Unix(1000, 0)
	if !fs.ShouldStep(start) {
		t.Fatal("first call should tick")
	}
	if fs.ShouldStep(start.Add(50 * time.Millisecond)) {
		t.Fatal("should not tick before the interval elapses")
	}
	if !fs.ShouldStep(start.Add(100 * time.Millisecond)) {
		t.Fatal("should tick once the interval elapses")
	}
	if fs.ShouldStep(start.Add(120 * time.Millisecond)) {
		t.Fatal("should not tick twice in one interval")
	}
}

func TestFixedStepDropsBacklog(t *testing.T) {
	fs := NewFixedStep(10)
	start := time.Unix(1000, 0)
	fs.ShouldStep(start)

	later := start.Add(5 * time.Second)
	ticks := 0
	for i := 0; i < 10; i++ {
		if fs.ShouldStep(later) {
			ticks++
		}
	}
	if ticks > 2 {
		t.Fatalf("a long stall produced %d ticks, expected at most 2", ticks)
	}
}

func TestFixedStepDefaultsAndReset(t *testing.T) {
	fs := NewFixedStep(0)
	if fs.Interval() != time.Second/60 {
		t.Fatalf("non-positive TPS should default to 60, got interval %v", fs.Interval())
	}
	fs.Reset()
	now := time.Unix(5, 0)
	if fs.ShouldStep(now) {
		t.Fatal("after Reset the first interval has to elapse again")
	}
	if !fs.ShouldStep(now.Add(fs.Interval())) {
		t.Fatal("expected a tick one interval after Reset")
	}
}
