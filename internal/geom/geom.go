// Package geom provides the small float32 vector, ray and box types shared by the controller,
// the camera rig and the physics world. Y is up; the ground plane is X/Z.
package geom

import "github.com/chewxy/math32"

// Vec3 is a world-space point or direction.
type Vec3 struct {
	X, Y, Z float32
}

// Vec2 is a ground-plane point: X maps to world X, Y maps to world Z.
type Vec2 struct {
	X, Y float32
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v*s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LenSq returns the squared length.
func (v Vec3) LenSq() float32 {
	return v.Dot(v)
}

// Len returns the length.
func (v Vec3) Len() float32 {
	return math32.Sqrt(v.LenSq())
}

// Distance is the Euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float32 {
	return v.Sub(o).Len()
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	inv := 1 / l
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Lerp moves v toward o by factor t (0 keeps v, 1 returns o).
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// RotateY rotates v about the Y axis by yaw radians. A yaw of 0 leaves +Z as forward;
// positive yaw turns +Z toward +X, the same convention as the movement heading.
func (v Vec3) RotateY(yaw float32) Vec3 {
	s, c := math32.Sincos(yaw)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// XZ projects v onto the ground plane.
func (v Vec3) XZ() Vec2 {
	return Vec2{X: v.X, Y: v.Z}
}

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Len returns the length.
func (v Vec2) Len() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns the distance between v and o.
func (v Vec2) Distance(o Vec2) float32 {
	return v.Sub(o).Len()
}

// Ray is a half-line from Origin along Direction. Direction is expected to be unit length,
// so hit distances are in world units.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at distance d along the ray.
func (r Ray) At(d float32) Vec3 {
	return r.Origin.Add(r.Direction.Scale(d))
}

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min, Max Vec3
}

// BoxAt builds the AABB centered on center with the given half extents.
func BoxAt(center, half Vec3) AABB {
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the full extents of the box.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Overlaps reports whether the two boxes share volume (touching faces do not count).
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// Raycast intersects r with the box using the slab method. It returns the distance to the
// first surface crossed. A ray starting inside the box reports the exit face, the same as a
// double-sided mesh would.
func (b AABB) Raycast(r Ray) (float32, bool) {
	tNear := math32.Inf(-1)
	tFar := math32.Inf(1)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float32{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, false
		}
	}
	if tFar < 0 {
		return 0, false
	}
	if tNear >= 0 {
		return tNear, true
	}
	return tFar, true
}
