package timer

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualClock(t *testing.T) {
	clock := NewManualClock(epoch)
	if !clock.Now().Equal(epoch) {
		t.Errorf("Expected %v, got %v", epoch, clock.Now())
	}
	clock.Advance(1500 * time.Millisecond)
	if want := epoch.Add(1500 * time.Millisecond); !clock.Now().Equal(want) {
		t.Errorf("Expected %v after Advance, got %v", want, clock.Now())
	}
	clock.Set(epoch)
	if !clock.Now().Equal(epoch) {
		t.Errorf("Expected %v after Set, got %v", epoch, clock.Now())
	}
}

func TestAfterRunsOnceWhenDue(t *testing.T) {
	clock := NewManualClock(epoch)
	q := NewQueue(clock)
	runs := 0
	id := q.After(100*time.Millisecond, func() { runs++ })

	clock.Advance(99 * time.Millisecond)
	if n := q.Poll(); n != 0 || runs != 0 {
		t.Fatalf("Expected no run before due, got poll=%d runs=%d", n, runs)
	}
	clock.Advance(time.Millisecond)
	if n := q.Poll(); n != 1 || runs != 1 {
		t.Fatalf("Expected exactly one run at due time, got poll=%d runs=%d", n, runs)
	}
	clock.Advance(time.Second)
	q.Poll()
	if runs != 1 {
		t.Errorf("One-shot task ran %d times", runs)
	}
	if q.Active(id) {
		t.Error("Expected one-shot task to be removed after running")
	}
}

func TestEveryCatchesUpInOrder(t *testing.T) {
	clock := NewManualClock(epoch)
	q := NewQueue(clock)
	var order []string
	q.Every(time.Second, func() { order = append(order, "a") })
	q.After(1500*time.Millisecond, func() { order = append(order, "b") })

	clock.Advance(3 * time.Second)
	if n := q.Poll(); n != 4 {
		t.Fatalf("Expected 4 callbacks, got %d", n)
	}
	want := []string{"a", "b", "a", "a"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, order)
		}
	}
}

func TestCancelFromCallback(t *testing.T) {
	clock := NewManualClock(epoch)
	q := NewQueue(clock)
	var second ID
	secondRan := false
	q.After(time.Second, func() { q.Cancel(second) })
	second = q.After(time.Second, func() { secondRan = true })

	clock.Advance(time.Second)
	q.Poll()
	if secondRan {
		t.Error("Task canceled by an earlier callback in the same poll must not run")
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
	if q.Cancel(second) {
		t.Error("Cancel of a removed task must report false")
	}
}

func TestPeriodicSelfCancel(t *testing.T) {
	clock := NewManualClock(epoch)
	q := NewQueue(clock)
	ticks := 0
	var id ID
	id = q.Every(time.Second, func() {
		ticks++
		if ticks == 2 {
			q.Cancel(id)
		}
	})
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		q.Poll()
	}
	if ticks != 2 {
		t.Errorf("Expected 2 ticks before self-cancel, got %d", ticks)
	}
}

func TestEveryNonPositivePeriodIsOneShot(t *testing.T) {
	q := NewQueue(NewManualClock(epoch))
	runs := 0
	q.Every(0, func() { runs++ })
	q.Poll()
	q.Poll()
	if runs != 1 {
		t.Errorf("Expected 1 run, got %d", runs)
	}
}
