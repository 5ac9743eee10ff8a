// Package physics is a small AABB rigid-body world: gravity, integration, pairwise
// penetration resolution, ground friction and sleeping. It also answers camera raycasts
// against its static bodies.
package physics

import (
	"github.com/chewxy/math32"

	"explore-engine/internal/geom"
)

const (
	// sleepSpeed is the speed under which a grounded body counts as idle.
	sleepSpeed = 1e-3
	// sleepAfter is how long a body must stay idle before it sleeps, in seconds.
	sleepAfter = 0.5
)

// World holds a set of bodies and steps them.
type World struct {
	Gravity geom.Vec3
	// Friction is the per-second decay rate of horizontal velocity for grounded bodies.
	Friction float32
	bodies   []*Body
}

// NewWorld returns a world with Y-up gravity of 9.8 and a ground friction of 8.
func NewWorld() *World {
	return &World{
		Gravity:  geom.V3(0, -9.8, 0),
		Friction: 8,
	}
}

// AddBody appends b. Order is preserved for syncing with scene objects.
func (w *World) AddBody(b *Body) {
	w.bodies = append(w.bodies, b)
}

// Bodies returns the bodies in insertion order.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// penetration returns the overlap depth and axis (0=X, 1=Y, 2=Z) of minimum penetration,
// or axis -1 when the boxes do not overlap.
func penetration(a, b geom.AABB) (depth float32, axis int) {
	ox := min(a.Max.X, b.Max.X) - max(a.Min.X, b.Min.X)
	oy := min(a.Max.Y, b.Max.Y) - max(a.Min.Y, b.Min.Y)
	oz := min(a.Max.Z, b.Max.Z) - max(a.Min.Z, b.Min.Z)
	if ox <= 0 || oy <= 0 || oz <= 0 {
		return 0, -1
	}
	depth, axis = ox, 0
	if oy < depth {
		depth, axis = oy, 1
	}
	if oz < depth {
		depth, axis = oz, 2
	}
	return depth, axis
}

func component(v geom.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func withComponent(v geom.Vec3, axis int, x float32) geom.Vec3 {
	switch axis {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
	return v
}

func unit(axis int, s float32) geom.Vec3 {
	return withComponent(geom.Vec3{}, axis, s)
}

// Step advances the simulation by dt seconds.
// There is no global floor: dynamic bodies fall until they land on another body.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		if b.static || b.sleeping {
			continue
		}
		b.vel = b.vel.Add(w.Gravity.Scale(dt))
		b.pos = b.pos.Add(b.vel.Scale(dt))
		b.grounded = false
	}

	for i := 0; i < len(w.bodies); i++ {
		bi := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			bj := w.bodies[j]
			if bi.static && bj.static {
				continue
			}
			w.resolve(bi, bj)
		}
	}

	for _, b := range w.bodies {
		if b.static || b.sleeping {
			continue
		}
		if b.grounded && w.Friction > 0 {
			decay := math32.Max(0, 1-w.Friction*dt)
			b.vel.X *= decay
			b.vel.Z *= decay
		}
		if b.grounded && b.vel.Len() < sleepSpeed {
			b.idle += dt
			if b.idle >= sleepAfter {
				b.sleeping = true
				b.vel = geom.Vec3{}
			}
		} else {
			b.idle = 0
		}
	}
}

// resolve pushes an overlapping pair apart along the axis of least penetration, splitting
// the correction by mass, and zeroes the velocity component along that axis.
func (w *World) resolve(a, b *Body) {
	ab, bb := a.Bounds(), b.Bounds()
	if !ab.Overlaps(bb) {
		return
	}
	depth, axis := penetration(ab, bb)
	if axis < 0 {
		return
	}
	// sign points from a toward b.
	sign := float32(1)
	if component(bb.Center(), axis) < component(ab.Center(), axis) {
		sign = -1
	}

	var moveA, moveB float32
	switch {
	case a.static:
		moveB = depth
	case b.static:
		moveA = depth
	default:
		total := a.mass + b.mass
		moveA = depth * (b.mass / total)
		moveB = depth * (a.mass / total)
	}
	if !a.static {
		a.pos = a.pos.Add(unit(axis, -sign*moveA))
		a.vel = withComponent(a.vel, axis, 0)
		if axis == 1 && sign < 0 {
			a.grounded = true
		}
		if b.sleeping {
			b.Wake()
		}
	}
	if !b.static {
		b.pos = b.pos.Add(unit(axis, sign*moveB))
		b.vel = withComponent(b.vel, axis, 0)
		if axis == 1 && sign > 0 {
			b.grounded = true
		}
		if a.sleeping {
			a.Wake()
		}
	}
}

// Raycast returns the nearest static-body hit along r within maxDist. Dynamic bodies are
// ignored so the player never occludes its own camera.
func (w *World) Raycast(r geom.Ray, maxDist float32) (float32, bool) {
	best, hit := maxDist, false
	for _, b := range w.bodies {
		if !b.static {
			continue
		}
		d, ok := b.Bounds().Raycast(r)
		if ok && d <= best {
			best, hit = d, true
		}
	}
	return best, hit
}
