package trigger

import (
	"testing"
	"time"

	"explore-engine/internal/geom"
	"explore-engine/internal/proximity"
	"explore-engine/internal/timer"
)

type countdownSink struct {
	messages  map[int][]string
	cancels   map[int]func()
	dismissed []int
}

func newCountdownSink() *countdownSink {
	return &countdownSink{messages: make(map[int][]string), cancels: make(map[int]func())}
}

func (s *countdownSink) Info(string)    {}
func (s *countdownSink) Success(string) {}
func (s *countdownSink) Error(string)   {}

func (s *countdownSink) Countdown(id int, msg string, cancel func()) {
	s.messages[id] = append(s.messages[id], msg)
	s.cancels[id] = cancel
}

func (s *countdownSink) Dismiss(id int) { s.dismissed = append(s.dismissed, id) }

type harness struct {
	clock   *timer.ManualClock
	queue   *timer.Queue
	sink    *countdownSink
	sched   *Scheduler
	targets []string
}

func newHarness(t *testing.T, hotspots ...proximity.Hotspot) *harness {
	t.Helper()
	idx, err := proximity.NewIndex(proximity.Dataset{Hotspots: hotspots})
	if err != nil {
		t.Fatal(err)
	}
	h := &harness{clock: timer.NewManualClock(time.Unix(100, 0)), sink: newCountdownSink()}
	h.queue = timer.NewQueue(h.clock)
	nav := NavigatorFunc(func(target string) { h.targets = append(h.targets, target) })
	h.sched = New(DefaultConfig(), idx, h.queue, h.sink, nil, nav, nil)
	return h
}

// second advances one tick interval, polls, then runs a frame at p.
func (h *harness) second(p geom.Vec2) {
	h.clock.Advance(time.Second)
	h.queue.Poll()
	h.sched.Update(p)
}

var (
	home  = proximity.Hotspot{ID: 1, Position: geom.Vec2{X: 0, Y: 0}, Target: "/home"}
	blog  = proximity.Hotspot{ID: 2, Position: geom.Vec2{X: 10, Y: 0}, Target: "/blog"}
	about = proximity.Hotspot{ID: 3, Position: geom.Vec2{X: 0.2, Y: 0}, Target: "/about"}
	away  = geom.Vec2{X: 5, Y: 5}
)

func TestFiresOnFifthTick(t *testing.T) {
	h := newHarness(t, home)
	on := geom.Vec2{X: 0.1, Y: 0}
	h.sched.Update(on)

	if tm, ok := h.sched.Timer(1); !ok || tm.Remaining != 5 {
		t.Fatalf("Expected armed countdown at 5, got %+v %v", tm, ok)
	}
	for i := 1; i <= 4; i++ {
		h.second(on)
		if len(h.targets) != 0 {
			t.Fatalf("Fired early at tick %d", i)
		}
		if tm, _ := h.sched.Timer(1); tm.Remaining != 5-i {
			t.Errorf("Expected remaining %d, got %d", 5-i, tm.Remaining)
		}
	}
	h.second(on)
	if len(h.targets) != 1 || h.targets[0] != "/home" {
		t.Fatalf("Expected one navigation to /home, got %v", h.targets)
	}
	if !h.sched.Navigated() || len(h.sched.Live()) != 0 || h.queue.Len() != 0 {
		t.Error("Expected latch set and no live timers")
	}

	want := []string{
		"Redirecting in 5 seconds...",
		"Redirecting in 4 seconds...",
		"Redirecting in 3 seconds...",
		"Redirecting in 2 seconds...",
		"Redirecting in 1 seconds...",
	}
	got := h.sink.messages[1]
	if len(got) != len(want) {
		t.Fatalf("Expected %d countdown updates, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Update %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if len(h.sink.dismissed) != 1 || h.sink.dismissed[0] != 1 {
		t.Errorf("Expected the countdown dismissed once, got %v", h.sink.dismissed)
	}
}

func TestBoundaryIsInclusive(t *testing.T) {
	h := newHarness(t, home)
	h.sched.Update(geom.Vec2{X: 0.5, Y: 0})
	if _, ok := h.sched.Timer(1); !ok {
		t.Error("Expected arming at exactly the radius")
	}
	h.sched.Update(geom.Vec2{X: 0.5001, Y: 0})
	if _, ok := h.sched.Timer(1); ok {
		t.Error("Expected cancel just outside the radius")
	}
}

func TestLeavingCancelsAndReentryRestarts(t *testing.T) {
	h := newHarness(t, home)
	on := geom.Vec2{}
	h.sched.Update(on)
	h.second(on)
	h.second(on)

	h.clock.Advance(500 * time.Millisecond)
	h.queue.Poll()
	h.sched.Update(away)
	if _, ok := h.sched.Timer(1); ok || h.queue.Len() != 0 {
		t.Fatal("Expected countdown and task removed on leave")
	}

	h.sched.Update(on)
	if tm, ok := h.sched.Timer(1); !ok || tm.Remaining != 5 {
		t.Fatalf("Expected a fresh countdown at 5, got %+v", tm)
	}
	for i := 0; i < 5; i++ {
		h.second(on)
	}
	if len(h.targets) != 1 {
		t.Errorf("Expected one navigation five ticks after re-entry, got %v", h.targets)
	}
}

func TestTickRemeasuresLatestPosition(t *testing.T) {
	h := newHarness(t, home)
	h.sched.Update(geom.Vec2{})
	// The player walks off between frames; the next tick sees the new position.
	h.sched.player = away
	h.clock.Advance(time.Second)
	h.queue.Poll()
	if _, ok := h.sched.Timer(1); ok {
		t.Error("Expected the tick to cancel once the player is out of range")
	}
}

func TestGlobalLatch(t *testing.T) {
	h := newHarness(t, home, blog)
	on := geom.Vec2{}
	h.sched.Update(on)
	for i := 0; i < 5; i++ {
		h.second(on)
	}
	if len(h.targets) != 1 {
		t.Fatalf("Expected first navigation, got %v", h.targets)
	}

	onBlog := geom.Vec2{X: 10, Y: 0}
	h.sched.Update(onBlog)
	for i := 0; i < 10; i++ {
		h.second(onBlog)
	}
	if len(h.targets) != 1 {
		t.Errorf("Expected the latch to block a second navigation, got %v", h.targets)
	}
	if len(h.sched.Live()) != 0 {
		t.Errorf("Expected nothing armed after the latch, got %+v", h.sched.Live())
	}
}

func TestOverlappingHotspotsNavigateOnce(t *testing.T) {
	h := newHarness(t, home, about)
	on := geom.Vec2{X: 0.1, Y: 0}
	h.sched.Update(on)
	if len(h.sched.Live()) != 2 {
		t.Fatalf("Expected both hotspots armed, got %+v", h.sched.Live())
	}
	for i := 0; i < 5; i++ {
		h.second(on)
	}
	if len(h.targets) != 1 || h.targets[0] != "/home" {
		t.Errorf("Expected a single navigation to the first hotspot, got %v", h.targets)
	}
	if h.queue.Len() != 0 {
		t.Errorf("Expected every task canceled, %d pending", h.queue.Len())
	}
}

func TestUserCancel(t *testing.T) {
	h := newHarness(t, home)
	on := geom.Vec2{}
	h.sched.Update(on)
	h.second(on)

	h.sink.cancels[1]()
	if _, ok := h.sched.Timer(1); ok || h.queue.Len() != 0 {
		t.Fatal("Expected the cancel action to remove the countdown")
	}
	if h.sched.Cancel(1) {
		t.Error("Expected a second cancel to report nothing live")
	}

	for i := 0; i < 6; i++ {
		h.second(on)
	}
	if len(h.targets) != 0 || len(h.sched.Live()) != 0 {
		t.Error("Expected the hotspot to stay suppressed while the player remains")
	}

	h.sched.Update(away)
	h.sched.Update(on)
	if tm, ok := h.sched.Timer(1); !ok || tm.Remaining != 5 {
		t.Errorf("Expected re-entry after leaving to re-arm, got %+v %v", tm, ok)
	}
}
