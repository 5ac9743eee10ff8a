package camera

import (
	"testing"

	"github.com/chewxy/math32"

	"explore-engine/internal/geom"
)

type wall struct {
	hit float32
	ok  bool
	n   int
}

func (w *wall) Raycast(_ geom.Ray, maxDist float32) (float32, bool) {
	w.n++
	if !w.ok || w.hit > maxDist {
		return 0, false
	}
	return w.hit, true
}

func near(a, b geom.Vec3) bool {
	return a.Distance(b) < 1e-5
}

func TestFirstFrameSeedsAccumulators(t *testing.T) {
	r := NewRig(DefaultConfig())
	f := r.Update(geom.V3(1, 0, 1), nil)
	if f.Position != geom.V3(1, 0.5, -0.5) {
		t.Errorf("Expected camera at desired, got %+v", f.Position)
	}
	if f.LookAt != geom.V3(1, 0, 2) {
		t.Errorf("Expected look-at on anchor, got %+v", f.LookAt)
	}
}

func TestUnoccludedCameraEases(t *testing.T) {
	r := NewRig(DefaultConfig())
	r.Update(geom.Vec3{}, &wall{})
	f := r.Update(geom.V3(1, 0, 0), &wall{})
	if f.Occluded {
		t.Fatal("Expected no occlusion")
	}
	want := geom.V3(0.1, 0.5, -1.5)
	if !near(f.Position, want) {
		t.Errorf("Expected %+v, got %+v", want, f.Position)
	}
	if !near(f.LookAt, geom.V3(0.1, 0, 1)) {
		t.Errorf("Expected look-at eased, got %+v", f.LookAt)
	}
}

func TestOccludedCameraSnapsExactly(t *testing.T) {
	r := NewRig(DefaultConfig())
	w := &wall{}
	r.Update(geom.Vec3{}, w)

	hit, margin := float32(0.8), DefaultConfig().ClipMargin
	w.hit, w.ok = hit, true
	f := r.Update(geom.Vec3{}, w)
	if !f.Occluded {
		t.Fatal("Expected occlusion")
	}
	span := f.Desired.Sub(f.Anchor)
	dir := span.Scale(1 / span.Len())
	want := f.Anchor.Add(dir.Scale(hit - margin))
	if f.Position != want {
		t.Errorf("Expected snap to %+v, got %+v", want, f.Position)
	}
}

func TestHitBeyondDesiredIsIgnored(t *testing.T) {
	r := NewRig(DefaultConfig())
	w := &wall{hit: 5, ok: true}
	f := r.Update(geom.Vec3{}, w)
	if f.Occluded {
		t.Error("Expected a far hit to be ignored")
	}
	if w.n != 1 {
		t.Errorf("Expected one cast, got %d", w.n)
	}
}

func TestClipDistanceNeverNegative(t *testing.T) {
	r := NewRig(DefaultConfig())
	f := r.Update(geom.Vec3{}, &wall{hit: 0.05, ok: true})
	if !f.Occluded || f.Position != f.Anchor {
		t.Errorf("Expected camera clamped onto the anchor, got %+v", f)
	}
}

func TestContainerYawIsPlainLerp(t *testing.T) {
	r := NewRig(DefaultConfig())
	r.SmoothYaw(3)
	if got := r.ContainerYaw(); math32.Abs(got-0.3) > 1e-6 {
		t.Errorf("Expected 0.3, got %v", got)
	}

	// A target past π does not wrap the short way.
	r.Reset()
	r.yaw = 3
	r.SmoothYaw(-3)
	if got := r.ContainerYaw(); math32.Abs(got-2.4) > 1e-5 {
		t.Errorf("Expected 2.4, got %v", got)
	}
}

func TestRigFollowsContainerYaw(t *testing.T) {
	r := NewRig(DefaultConfig())
	r.yaw = math32.Pi / 2
	desired, anchor := r.Targets(geom.Vec3{})
	if !near(desired, geom.V3(-1.5, 0.5, 0)) {
		t.Errorf("Unexpected desired %+v", desired)
	}
	if !near(anchor, geom.V3(1, 0, 0)) {
		t.Errorf("Unexpected anchor %+v", anchor)
	}
}
