// Package motion turns the sampled control state into rigid-body velocity, animation and
// yaw targets once per frame.
package motion

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"

	"explore-engine/internal/anglemath"
	"explore-engine/internal/geom"
	"explore-engine/internal/input"
	"explore-engine/internal/notify"
	"explore-engine/internal/timer"
)

// Body is the part of a physics rigid body the controller drives.
type Body interface {
	LinearVelocity() geom.Vec3
	SetLinearVelocity(v geom.Vec3, wake bool)
	Position() geom.Vec3
	SetPosition(p geom.Vec3, wake bool)
}

// Animation is the character clip selected for the frame.
type Animation uint8

const (
	Idle Animation = iota
	Walk
	Run
	Jump
)

func (a Animation) String() string {
	switch a {
	case Walk:
		return "walk"
	case Run:
		return "run"
	case Jump:
		return "jump"
	default:
		return "idle"
	}
}

// Orientation selects the speed profile.
type Orientation uint8

const (
	Landscape Orientation = iota
	Portrait
)

func (o Orientation) String() string {
	if o == Portrait {
		return "portrait"
	}
	return "landscape"
}

// OrientationFor picks portrait when the viewport is taller than it is wide.
func OrientationFor(width, height int) Orientation {
	if height > width {
		return Portrait
	}
	return Landscape
}

// Profile holds the per-orientation speeds. TurnDegrees is applied per frame.
type Profile struct {
	WalkSpeed   float32 `yaml:"walk_speed" env:"WALK_SPEED"`
	RunSpeed    float32 `yaml:"run_speed" env:"RUN_SPEED"`
	TurnDegrees float32 `yaml:"turn_degrees" env:"TURN_DEGREES"`
}

// Config holds the speed profiles, the jump timing and the respawn floor.
type Config struct {
	Landscape    Profile       `yaml:"landscape" envPrefix:"LANDSCAPE_"`
	Portrait     Profile       `yaml:"portrait" envPrefix:"PORTRAIT_"`
	JumpVelocity float32       `yaml:"jump_velocity" env:"JUMP_VELOCITY"`
	JumpBoost    float32       `yaml:"jump_boost" env:"JUMP_BOOST"`
	JumpDuration time.Duration `yaml:"jump_duration" env:"JUMP_DURATION"`
	JumpLockout  time.Duration `yaml:"jump_lockout" env:"JUMP_LOCKOUT"`
	FloorY       float32       `yaml:"floor_y" env:"FLOOR_Y"`
	YawDamping   float32       `yaml:"yaw_damping" env:"YAW_DAMPING"`
}

// DefaultConfig returns the tuned values of the exploration scene.
func DefaultConfig() Config {
	return Config{
		Landscape:    Profile{WalkSpeed: 0.5, RunSpeed: 1.8, TurnDegrees: 3},
		Portrait:     Profile{WalkSpeed: 0.8, RunSpeed: 2.6, TurnDegrees: 5},
		JumpVelocity: 1,
		JumpBoost:    0.1,
		JumpDuration: time.Second,
		JumpLockout:  500 * time.Millisecond,
		FloorY:       -9,
		YawDamping:   0.1,
	}
}

// State is the controller's per-frame output.
type State struct {
	Position           geom.Vec3
	LinearVelocity     geom.Vec3
	Yaw                float32
	RotationTarget     float32
	CharacterYawTarget float32
	Animation          Animation
	JumpHeld           bool
	JumpLocked         bool
}

// Controller is the character state machine. It is not safe for concurrent use; Update and
// the jump tasks it schedules both run on the frame goroutine.
type Controller struct {
	cfg         Config
	orientation Orientation
	timers      *timer.Queue
	sink        notify.Sink
	msgs        *notify.Messages
	log         *slog.Logger

	state     State
	windowID  timer.ID
	lockoutID timer.ID
}

// NewController returns an idle controller in landscape orientation.
func NewController(cfg Config, timers *timer.Queue, sink notify.Sink, msgs *notify.Messages, log *slog.Logger) *Controller {
	if sink == nil {
		sink = notify.Discard{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		cfg:    cfg,
		timers: timers,
		sink:   sink,
		msgs:   msgs,
		log:    log.With("component", "motion"),
	}
}

// State returns the result of the last Update.
func (c *Controller) State() State {
	s := c.state
	s.JumpHeld = c.windowID != 0
	s.JumpLocked = c.lockoutID != 0
	return s
}

// Orientation returns the active speed profile selector.
func (c *Controller) Orientation() Orientation {
	return c.orientation
}

// SetOrientation switches the speed profile from the next Update on.
func (c *Controller) SetOrientation(o Orientation) {
	if o != c.orientation {
		c.log.Debug("orientation changed", "orientation", o.String())
	}
	c.orientation = o
}

func (c *Controller) profile() Profile {
	if c.orientation == Portrait {
		return c.cfg.Portrait
	}
	return c.cfg.Landscape
}

// Update runs one frame against body. It reports whether the body fell below the floor and
// was respawned at the origin. A nil body is a no-op.
func (c *Controller) Update(ctrl input.ControlState, body Body) (respawned bool) {
	if body == nil {
		return false
	}

	pos := body.Position()
	vel := body.LinearVelocity()
	if pos.Y < c.cfg.FloorY {
		pos, vel = geom.Vec3{}, geom.Vec3{}
		body.SetPosition(pos, true)
		body.SetLinearVelocity(vel, true)
		c.clearJump()
		c.sink.Info(c.msgs.FellOff())
		c.log.Info("player respawned", "floor", c.cfg.FloorY)
		respawned = true
	}

	p := c.profile()
	turn, advance := intent(ctrl.Left, ctrl.Right), intent(ctrl.Forward, ctrl.Backward)

	c.state.RotationTarget += p.TurnDegrees * math32.Pi / 180 * turn

	anim := Idle
	if turn != 0 || advance != 0 {
		c.state.CharacterYawTarget = math32.Atan2(turn, advance)
		speed, moving := p.WalkSpeed, Walk
		if ctrl.Run {
			speed, moving = p.RunSpeed, Run
		}
		dir := c.heading()
		vel.X = dir.X * speed
		vel.Z = dir.Y * speed
		anim = moving
	}

	c.state.Yaw = anglemath.LerpShortest(c.state.Yaw, c.state.CharacterYawTarget, c.cfg.YawDamping)

	if ctrl.Jump && c.windowID == 0 && c.lockoutID == 0 {
		c.startJump()
	}
	if c.windowID != 0 {
		vel.Y = c.cfg.JumpVelocity
		if ctrl.Forward {
			dir := c.heading()
			vel.X += dir.X * c.cfg.JumpBoost
			vel.Z += dir.Y * c.cfg.JumpBoost
		}
		anim = Jump
	}

	body.SetLinearVelocity(vel, true)

	c.state.Position = pos
	c.state.LinearVelocity = vel
	c.state.Animation = anim
	return respawned
}

// heading is the planar unit direction of travel as (x, z).
func (c *Controller) heading() geom.Vec2 {
	a := c.state.RotationTarget + c.state.CharacterYawTarget
	return geom.Vec2{X: math32.Sin(a), Y: math32.Cos(a)}
}

func intent(pos, neg bool) float32 {
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	default:
		return 0
	}
}

func (c *Controller) startJump() {
	c.windowID = c.timers.After(c.cfg.JumpDuration, func() {
		c.windowID = 0
		c.lockoutID = c.timers.After(c.cfg.JumpLockout, func() {
			c.lockoutID = 0
		})
	})
}

func (c *Controller) clearJump() {
	if c.windowID != 0 {
		c.timers.Cancel(c.windowID)
		c.windowID = 0
	}
	if c.lockoutID != 0 {
		c.timers.Cancel(c.lockoutID)
		c.lockoutID = 0
	}
}
