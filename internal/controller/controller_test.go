package controller

import (
	"context"
	"testing"
	"time"

	"github.com/hack-pad/hackpadfs/mem"

	"explore-engine/internal/geom"
	"explore-engine/internal/input"
	"explore-engine/internal/kv"
	"explore-engine/internal/notify"
	"explore-engine/internal/proximity"
	"explore-engine/internal/timer"
)

type body struct {
	pos, vel geom.Vec3
}

func (b *body) LinearVelocity() geom.Vec3             { return b.vel }
func (b *body) SetLinearVelocity(v geom.Vec3, _ bool) { b.vel = v }
func (b *body) Position() geom.Vec3                   { return b.pos }
func (b *body) SetPosition(p geom.Vec3, _ bool)       { b.pos = p }

type openSky struct{}

func (openSky) Raycast(geom.Ray, float32) (float32, bool) { return 0, false }

type fixture struct {
	clock   *timer.ManualClock
	store   *kv.FileStore
	board   *notify.Board
	ctx     *Context
	targets []string
}

func newFixture(t *testing.T, ds proximity.Dataset) *fixture {
	t.Helper()
	fsys, err := mem.NewFS()
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		clock: timer.NewManualClock(time.Unix(0, 0)),
		store: kv.NewFileStore(fsys, "progress"),
	}
	f.board = notify.NewBoard(f.clock, time.Minute)
	f.ctx, err = New(context.Background(), DefaultConfig(), Deps{
		Clock:     f.clock,
		Dataset:   ds,
		Store:     f.store,
		Sink:      f.board,
		Navigator: navigatorFunc(func(target string) { f.targets = append(f.targets, target) }),
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

type navigatorFunc func(string)

func (n navigatorFunc) Navigate(target string) { n(target) }

func (f *fixture) messages() []string {
	var out []string
	for _, t := range f.board.Toasts() {
		out = append(out, t.Message)
	}
	return out
}

func TestFrameSkippedUntilReady(t *testing.T) {
	f := newFixture(t, proximity.Dataset{})
	f.ctx.Input().PulseJump()

	if res := f.ctx.Frame(FrameInput{Geometry: openSky{}}); res.Ready {
		t.Error("Expected a frame without a body to be skipped")
	}
	if res := f.ctx.Frame(FrameInput{Body: &body{}}); res.Ready {
		t.Error("Expected a frame without geometry to be skipped")
	}

	// Timers still run on skipped frames, but the pulse waits for a ready frame.
	f.clock.Advance(100 * time.Millisecond)
	f.ctx.Frame(FrameInput{})
	if !f.ctx.Input().State().Jump {
		t.Error("Expected the jump pulse kept until a ready frame sees it")
	}
	if f.ctx.Frames() != 0 {
		t.Errorf("Expected no ready frames, got %d", f.ctx.Frames())
	}
}

func TestSlowFrameStillSeesJumpTap(t *testing.T) {
	f := newFixture(t, proximity.Dataset{})
	b := &body{}
	f.ctx.Frame(FrameInput{Body: b, Geometry: openSky{}})

	f.ctx.Input().PulseJump()
	f.clock.Advance(120 * time.Millisecond)
	res := f.ctx.Frame(FrameInput{Body: b, Geometry: openSky{}})
	if res.Motion.Animation.String() != "jump" || !res.Motion.JumpHeld {
		t.Errorf("Expected the tap to start a jump, got %v held=%v", res.Motion.Animation, res.Motion.JumpHeld)
	}
	if b.vel.Y <= 0 {
		t.Errorf("Expected upward velocity, got %+v", b.vel)
	}
	if f.ctx.Input().State().Jump {
		t.Error("Expected the pulse released after the frame saw it")
	}
}

func TestDiscoveryBoundaryAndPersistence(t *testing.T) {
	ds := proximity.Dataset{Collectibles: []proximity.Collectible{
		{ID: 7, Position: geom.V3(0.5, 0, 0)},
		{ID: 8, Position: geom.V3(0, 0, 0.5001)},
	}}
	f := newFixture(t, ds)
	b := &body{}

	res := f.ctx.Frame(FrameInput{Body: b, Geometry: openSky{}})
	if len(res.Discovered) != 1 || res.Discovered[0] != 7 {
		t.Fatalf("Expected only the collectible at exactly 0.5 to be found, got %v", res.Discovered)
	}
	if msgs := f.messages(); len(msgs) != 1 || msgs[0] != "Shh 🤫" {
		t.Errorf("Expected one discovery toast, got %v", msgs)
	}

	raw, ok, err := f.store.Load(context.Background(), "stoneVisibility")
	if err != nil || !ok {
		t.Fatalf("Expected persisted progress, got %v %v", ok, err)
	}
	if string(raw) != `{"version":1,"discovered":[7]}` {
		t.Errorf("Unexpected persisted document %s", raw)
	}

	res = f.ctx.Frame(FrameInput{Body: b, Geometry: openSky{}})
	if len(res.Discovered) != 0 || len(f.messages()) != 1 {
		t.Error("Expected repeat approaches to be no-ops")
	}
}

func TestProgressSurvivesRestart(t *testing.T) {
	ds := proximity.Dataset{Collectibles: []proximity.Collectible{{ID: 1}, {ID: 2, Position: geom.V3(9, 0, 9)}}}
	f := newFixture(t, ds)
	f.ctx.Frame(FrameInput{Body: &body{}, Geometry: openSky{}})

	again, err := New(context.Background(), DefaultConfig(), Deps{Dataset: ds, Store: f.store})
	if err != nil {
		t.Fatal(err)
	}
	if !again.Visibility().Discovered(0) || again.Visibility().Discovered(1) {
		t.Errorf("Expected id 1 restored, got %v", again.Visibility().DiscoveredIDs())
	}

	if err := again.ResetProgress(context.Background()); err != nil {
		t.Fatal(err)
	}
	if again.Visibility().Count() != 0 {
		t.Error("Expected reset to clear progress")
	}
}

func TestHotspotNavigatesThroughFrames(t *testing.T) {
	ds := proximity.Dataset{Hotspots: []proximity.Hotspot{{ID: 4, Position: geom.Vec2{X: 0, Y: 0}, Target: "/projects"}}}
	f := newFixture(t, ds)
	b := &body{}
	in := FrameInput{Body: b, Geometry: openSky{}}

	f.ctx.Frame(in)
	if msgs := f.messages(); len(msgs) != 1 || msgs[0] != "Redirecting in 5 seconds..." {
		t.Fatalf("Expected the countdown toast, got %v", msgs)
	}

	for i := 0; i < 4*50; i++ {
		f.clock.Advance(20 * time.Millisecond)
		f.ctx.Frame(in)
	}
	if len(f.targets) != 0 {
		t.Fatal("Fired before five seconds")
	}
	if msgs := f.messages(); len(msgs) != 1 || msgs[0] != "Redirecting in 1 seconds..." {
		t.Errorf("Expected the countdown updated in place, got %v", msgs)
	}

	f.clock.Advance(time.Second)
	f.ctx.Frame(in)
	if len(f.targets) != 1 || f.targets[0] != "/projects" {
		t.Errorf("Expected navigation to /projects, got %v", f.targets)
	}
	if len(f.messages()) != 0 {
		t.Errorf("Expected the countdown dismissed, got %v", f.messages())
	}
}

func TestCancelFromToast(t *testing.T) {
	ds := proximity.Dataset{Hotspots: []proximity.Hotspot{{ID: 4, Target: "/projects"}}}
	f := newFixture(t, ds)
	in := FrameInput{Body: &body{}, Geometry: openSky{}}
	f.ctx.Frame(in)

	toasts := f.board.Toasts()
	if len(toasts) != 1 || !f.board.Activate(toasts[0].Key) {
		t.Fatalf("Expected a cancelable countdown toast, got %+v", toasts)
	}
	for i := 0; i < 10; i++ {
		f.clock.Advance(time.Second)
		f.ctx.Frame(in)
	}
	if len(f.targets) != 0 || len(f.ctx.Triggers().Live()) != 0 {
		t.Error("Expected cancel to stop the countdown")
	}
}

func TestFallRecoveryBeforeProximity(t *testing.T) {
	ds := proximity.Dataset{Collectibles: []proximity.Collectible{{ID: 3, Position: geom.V3(0, 0.2, 0)}}}
	f := newFixture(t, ds)
	b := &body{pos: geom.V3(40, -12, 40), vel: geom.V3(0, -5, 0)}

	res := f.ctx.Frame(FrameInput{Body: b, Geometry: openSky{}})
	if !res.Respawned {
		t.Fatal("Expected respawn")
	}
	if len(res.Discovered) != 1 {
		t.Errorf("Expected proximity to see the respawned position, got %v", res.Discovered)
	}
	if res.Camera.Desired != geom.V3(0, 0.5, -1.5) {
		t.Errorf("Expected the camera to follow the respawned body, got %+v", res.Camera.Desired)
	}
	msgs := f.messages()
	if len(msgs) != 2 || msgs[0] != "You fell off the map! Respawning..." {
		t.Errorf("Unexpected notifications %v", msgs)
	}
}

func TestInputDrivesMotion(t *testing.T) {
	f := newFixture(t, proximity.Dataset{})
	b := &body{}
	f.ctx.Input().Press(input.RegionForward)
	f.ctx.Input().Press(input.RegionSprint)
	res := f.ctx.Frame(FrameInput{Body: b, Geometry: openSky{}})
	if res.Motion.Animation.String() != "run" || b.vel.Z != 1.8 {
		t.Errorf("Expected running forward, got %v %+v", res.Motion.Animation, b.vel)
	}

	f.ctx.Input().Release(input.RegionForward)
	f.ctx.Input().Press(input.RegionTurnLeft)
	res = f.ctx.Frame(FrameInput{Body: b, Geometry: openSky{}})
	if res.ContainerYaw <= 0 || res.ContainerYaw >= res.Motion.RotationTarget {
		t.Errorf("Expected container yaw easing toward %v, got %v", res.Motion.RotationTarget, res.ContainerYaw)
	}
}

func TestDuplicateDatasetRejected(t *testing.T) {
	ds := proximity.Dataset{Collectibles: []proximity.Collectible{{ID: 1}, {ID: 1}}}
	if _, err := New(context.Background(), DefaultConfig(), Deps{Dataset: ds}); err == nil {
		t.Error("Expected duplicate ids to be rejected")
	}
}
