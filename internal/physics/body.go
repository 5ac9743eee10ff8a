package physics

import "explore-engine/internal/geom"

// Body is an axis-aligned box rigid body. Static bodies never move and are not affected by
// gravity. A dynamic body implements the velocity/position contract the character
// controller drives.
type Body struct {
	pos    geom.Vec3
	vel    geom.Vec3
	half   geom.Vec3
	mass   float32
	static bool

	sleeping bool
	idle     float32
	grounded bool
}

// NewBody returns a body centered at position with the given full size. Zero size
// components default to 1. mass <= 0 is treated as 1.
func NewBody(position, size geom.Vec3, mass float32, static bool) *Body {
	if mass <= 0 {
		mass = 1
	}
	if size.X == 0 {
		size.X = 1
	}
	if size.Y == 0 {
		size.Y = 1
	}
	if size.Z == 0 {
		size.Z = 1
	}
	return &Body{pos: position, half: size.Scale(0.5), mass: mass, static: static}
}

// NewCapsule approximates an upright capsule collider (cylinder half height plus hemisphere
// radius) with its bounding box.
func NewCapsule(position geom.Vec3, halfHeight, radius float32) *Body {
	size := geom.V3(2*radius, 2*(halfHeight+radius), 2*radius)
	return NewBody(position, size, 1, false)
}

func (b *Body) Position() geom.Vec3       { return b.pos }
func (b *Body) LinearVelocity() geom.Vec3 { return b.vel }
func (b *Body) HalfExtents() geom.Vec3    { return b.half }
func (b *Body) Static() bool              { return b.static }
func (b *Body) Sleeping() bool            { return b.sleeping }

// Grounded reports whether the last step left the body resting on top of another body.
func (b *Body) Grounded() bool { return b.grounded }

// SetPosition teleports the body.
func (b *Body) SetPosition(p geom.Vec3, wake bool) {
	b.pos = p
	if wake {
		b.Wake()
	}
}

// SetLinearVelocity replaces the body's velocity. Static bodies ignore it.
func (b *Body) SetLinearVelocity(v geom.Vec3, wake bool) {
	if b.static {
		return
	}
	b.vel = v
	if wake {
		b.Wake()
	}
}

// Wake returns a sleeping body to simulation.
func (b *Body) Wake() {
	b.sleeping = false
	b.idle = 0
}

// Bounds returns the body's world-space box.
func (b *Body) Bounds() geom.AABB {
	return geom.BoxAt(b.pos, b.half)
}
