// Package camera implements the third-person rig: a camera and a look-at anchor mounted on
// a yaw container that follows the player body.
package camera

import (
	"github.com/chewxy/math32"

	"explore-engine/internal/anglemath"
	"explore-engine/internal/geom"
)

// Geometry is the scene the camera must not clip through.
type Geometry interface {
	// Raycast returns the distance to the first surface hit along r within maxDist.
	Raycast(r geom.Ray, maxDist float32) (float32, bool)
}

// Config tunes the follow camera. Damping is the per-frame lerp factor for position and
// look-at; ClipMargin is how far in front of an occluder the camera is kept.
type Config struct {
	Damping      float32   `yaml:"damping" env:"DAMPING"`
	YawDamping   float32   `yaml:"yaw_damping" env:"YAW_DAMPING"`
	ClipMargin   float32   `yaml:"clip_margin" env:"CLIP_MARGIN"`
	AnchorOffset geom.Vec3 `yaml:"anchor_offset"`
	CameraOffset geom.Vec3 `yaml:"camera_offset"`
}

// DefaultConfig places the camera behind and above the player, looking one unit ahead.
func DefaultConfig() Config {
	return Config{
		Damping:      0.1,
		YawDamping:   0.1,
		ClipMargin:   0.1,
		AnchorOffset: geom.V3(0, 0, 1),
		CameraOffset: geom.V3(0, 0.5, -1.5),
	}
}

// Frame is the rig's world-space state after an update. Position and LookAt are the
// smoothed accumulators; Desired and Anchor are this frame's targets.
type Frame struct {
	Desired  geom.Vec3
	Anchor   geom.Vec3
	Position geom.Vec3
	LookAt   geom.Vec3
	Occluded bool
}

// Rig follows the player. The first Update snaps to the targets; later ones ease toward them.
type Rig struct {
	cfg     Config
	yaw     float32
	frame   Frame
	mounted bool
}

// NewRig returns an unmounted rig.
func NewRig(cfg Config) *Rig {
	return &Rig{cfg: cfg}
}

// Frame returns the last computed frame.
func (r *Rig) Frame() Frame {
	return r.frame
}

// ContainerYaw returns the smoothed yaw of the rig container.
func (r *Rig) ContainerYaw() float32 {
	return r.yaw
}

// Targets returns the desired camera position and the look-at anchor for a body at origin,
// using the current container yaw.
func (r *Rig) Targets(origin geom.Vec3) (desired, anchor geom.Vec3) {
	desired = origin.Add(r.cfg.CameraOffset.RotateY(r.yaw))
	anchor = origin.Add(r.cfg.AnchorOffset.RotateY(r.yaw))
	return desired, anchor
}

// Update moves the camera for a body at origin. When geometry sits between the anchor and
// the desired position the camera snaps in front of it; otherwise it eases toward desired.
// The first update seeds both accumulators at their targets. geo may be nil.
func (r *Rig) Update(origin geom.Vec3, geo Geometry) Frame {
	desired, anchor := r.Targets(origin)
	if !r.mounted {
		r.frame.Position = desired
		r.frame.LookAt = anchor
		r.mounted = true
	}

	position, occluded := r.resolve(desired, anchor, geo)
	if !occluded {
		position = r.frame.Position.Lerp(desired, r.cfg.Damping)
	}

	r.frame = Frame{
		Desired:  desired,
		Anchor:   anchor,
		Position: position,
		LookAt:   r.frame.LookAt.Lerp(anchor, r.cfg.Damping),
		Occluded: occluded,
	}
	return r.frame
}

// resolve casts from anchor toward desired and returns the clipped camera position when a
// surface is hit first.
func (r *Rig) resolve(desired, anchor geom.Vec3, geo Geometry) (geom.Vec3, bool) {
	if geo == nil {
		return geom.Vec3{}, false
	}
	span := desired.Sub(anchor)
	dist := span.Len()
	if dist == 0 {
		return geom.Vec3{}, false
	}
	dir := span.Scale(1 / dist)
	hit, ok := geo.Raycast(geom.Ray{Origin: anchor, Direction: dir}, dist)
	if !ok || hit >= dist {
		return geom.Vec3{}, false
	}
	return anchor.Add(dir.Scale(math32.Max(hit-r.cfg.ClipMargin, 0))), true
}

// SmoothYaw eases the container yaw toward target without wrapping and returns the result.
func (r *Rig) SmoothYaw(target float32) float32 {
	r.yaw = anglemath.Lerp(r.yaw, target, r.cfg.YawDamping)
	return r.yaw
}

// Reset forgets the accumulators and the yaw. The next Update seeds them again.
func (r *Rig) Reset() {
	r.yaw = 0
	r.frame = Frame{}
	r.mounted = false
}
