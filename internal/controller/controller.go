// Package controller owns every piece of per-session state of the exploration scene and
// exposes a single per-frame entry point. There are no package-level globals; a host
// creates one Context and drives it from its render loop.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"explore-engine/internal/camera"
	"explore-engine/internal/geom"
	"explore-engine/internal/input"
	"explore-engine/internal/kv"
	"explore-engine/internal/motion"
	"explore-engine/internal/notify"
	"explore-engine/internal/proximity"
	"explore-engine/internal/timer"
	"explore-engine/internal/trigger"
	"explore-engine/internal/visibility"
)

// Config gathers the tuning of every component the context owns.
type Config struct {
	Motion          motion.Config
	Camera          camera.Config
	Trigger         trigger.Config
	DiscoveryRadius float32
	JumpPulse       time.Duration
	StoreKey        string
}

// DefaultConfig returns each component's defaults.
func DefaultConfig() Config {
	return Config{
		Motion:          motion.DefaultConfig(),
		Camera:          camera.DefaultConfig(),
		Trigger:         trigger.DefaultConfig(),
		DiscoveryRadius: proximity.DefaultRadius,
		JumpPulse:       input.DefaultJumpPulse,
		StoreKey:        visibility.DefaultKey,
	}
}

// Deps are the collaborators supplied by the host. Only Dataset is required; the rest
// fall back to the system clock, no persistence, discarded notifications, a no-op navigator
// and slog.Default().
type Deps struct {
	Clock     timer.Clock
	Dataset   proximity.Dataset
	Store     kv.Store
	Sink      notify.Sink
	Navigator trigger.Navigator
	Logger    *slog.Logger
	Messages  *notify.Messages
}

// FrameInput carries the host objects for one frame. A nil field means the host is not
// ready yet.
type FrameInput struct {
	Body     motion.Body
	Geometry camera.Geometry
}

// FrameResult is what one Frame produced. Ready is false when the frame was skipped.
type FrameResult struct {
	Ready        bool
	Respawned    bool
	Motion       motion.State
	Camera       camera.Frame
	ContainerYaw float32
	// Discovered lists the collectible ids found during this frame.
	Discovered []int
}

// Context owns the session: input, motion, camera, proximity, triggers and progress.
// It is not safe for concurrent use; the host calls it from its frame loop.
type Context struct {
	cfg        Config
	log        *slog.Logger
	sink       notify.Sink
	msgs       *notify.Messages
	timers     *timer.Queue
	index      *proximity.Index
	input      *input.Sampler
	motion     *motion.Controller
	rig        *camera.Rig
	triggers   *trigger.Scheduler
	visibility *visibility.Store
	frames     uint64
}

// New builds a Context and hydrates the discovered set from deps.Store. A store that
// cannot be read is logged and the session starts with nothing discovered.
func New(ctx context.Context, cfg Config, deps Deps) (*Context, error) {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	sink := deps.Sink
	if sink == nil {
		sink = notify.Discard{}
	}
	msgs := deps.Messages
	if msgs == nil {
		msgs = notify.NewMessages("en")
	}

	index, err := proximity.NewIndex(deps.Dataset)
	if err != nil {
		return nil, fmt.Errorf("index dataset: %w", err)
	}

	timers := timer.NewQueue(deps.Clock)
	c := &Context{
		cfg:        cfg,
		log:        log.With("component", "controller"),
		sink:       sink,
		msgs:       msgs,
		timers:     timers,
		index:      index,
		input:      input.NewSampler(timers, cfg.JumpPulse),
		motion:     motion.NewController(cfg.Motion, timers, sink, msgs, log),
		rig:        camera.NewRig(cfg.Camera),
		triggers:   trigger.New(cfg.Trigger, index, timers, sink, msgs, deps.Navigator, log),
		visibility: visibility.New(deps.Store, cfg.StoreKey, index.CollectibleIDs(), log),
	}
	if err := c.visibility.Load(ctx); err != nil {
		c.log.Error("progress unavailable, starting fresh", "error", err)
	}
	c.log.Info("controller ready",
		"collectibles", index.CollectibleCount(),
		"hotspots", index.HotspotCount(),
		"discovered", c.visibility.Count(),
	)
	return c, nil
}

// Frame advances the session by one rendered frame. Due timer tasks always run; the rest
// of the frame is skipped until the host supplies both the body and the scene geometry.
func (c *Context) Frame(in FrameInput) FrameResult {
	c.timers.Poll()
	if in.Body == nil || in.Geometry == nil {
		return FrameResult{}
	}
	c.frames++

	res := FrameResult{Ready: true}
	res.Respawned = c.motion.Update(c.input.Sample(), in.Body)
	ms := c.motion.State()

	res.Discovered = c.discover(ms.Position)
	c.triggers.Update(ms.Position.XZ())

	res.Camera = c.rig.Update(ms.Position, in.Geometry)
	res.ContainerYaw = c.rig.SmoothYaw(ms.RotationTarget)
	res.Motion = ms
	return res
}

func (c *Context) discover(p geom.Vec3) []int {
	var found []int
	for _, cand := range c.index.CollectiblesWithin(p, c.cfg.DiscoveryRadius) {
		changed, err := c.visibility.Discover(context.Background(), cand.Index)
		if err != nil {
			c.log.Error("persist discovery", "error", err)
		}
		if !changed {
			continue
		}
		id := c.index.Collectible(cand.Index).ID
		found = append(found, id)
		c.sink.Success(c.msgs.Discovered())
		c.log.Info("collectible discovered", "id", id, "distance", cand.Distance)
	}
	return found
}

// Input returns the sampler that keyboard and pointer handlers write to.
func (c *Context) Input() *input.Sampler {
	return c.input
}

// Index returns the static dataset index.
func (c *Context) Index() *proximity.Index {
	return c.index
}

// Visibility returns the discovered-set store.
func (c *Context) Visibility() *visibility.Store {
	return c.visibility
}

// Triggers returns the hotspot scheduler.
func (c *Context) Triggers() *trigger.Scheduler {
	return c.triggers
}

// CancelHotspot is the user-facing cancel for a running countdown.
func (c *Context) CancelHotspot(id int) bool {
	return c.triggers.Cancel(id)
}

// SetOrientation switches the motion speed profile.
func (c *Context) SetOrientation(o motion.Orientation) {
	c.motion.SetOrientation(o)
}

// Frames returns how many ready frames have run.
func (c *Context) Frames() uint64 {
	return c.frames
}

// ResetProgress forgets every discovery and persists the empty set.
func (c *Context) ResetProgress(ctx context.Context) error {
	return c.visibility.Reset(ctx)
}
