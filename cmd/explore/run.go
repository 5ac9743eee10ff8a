package main

import (
	"context"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"explore-engine/internal/controller"
	"explore-engine/internal/geom"
	"explore-engine/internal/graphics"
	"explore-engine/internal/hud"
	"explore-engine/internal/input"
	"explore-engine/internal/mapgen"
	"explore-engine/internal/motion"
	"explore-engine/internal/notify"
	"explore-engine/internal/physics"
	"explore-engine/internal/scene"
	"explore-engine/internal/terminal"
	"explore-engine/internal/trigger"
)

// Player collider: cylinder half height and radius.
const (
	playerHalfHeight = 0.08
	playerRadius     = 0.16
	// maxStep caps the physics step after a stall (window drag, breakpoint).
	maxStep = float32(1.0 / 20)
)

// keyBindings maps keyboard keys to control regions. Several keys may drive one region.
var keyBindings = []struct {
	key    int32
	region input.Region
}{
	{rl.KeyW, input.RegionForward},
	{rl.KeyUp, input.RegionForward},
	{rl.KeyS, input.RegionBackward},
	{rl.KeyDown, input.RegionBackward},
	{rl.KeyA, input.RegionTurnLeft},
	{rl.KeyLeft, input.RegionTurnLeft},
	{rl.KeyD, input.RegionTurnRight},
	{rl.KeyRight, input.RegionTurnRight},
	{rl.KeyLeftShift, input.RegionSprint},
	{rl.KeyRightShift, input.RegionSprint},
	{rl.KeySpace, input.RegionJump},
}

// keyboard tracks which regions the keyboard holds so it only writes on change and never
// overrides a held touch pad button.
type keyboard struct {
	held map[input.Region]bool
}

func (k *keyboard) poll(s *input.Sampler) {
	now := make(map[input.Region]bool, len(keyBindings))
	for _, b := range keyBindings {
		if rl.IsKeyDown(b.key) {
			now[b.region] = true
		}
	}
	for _, r := range input.Regions() {
		if now[r] != k.held[r] {
			s.Set(r, now[r])
		}
	}
	k.held = now
}

// release lets go of every region the keyboard holds, so typing in the terminal does
// not leave the player walking.
func (k *keyboard) release(s *input.Sampler) {
	for r, held := range k.held {
		if held {
			s.Set(r, false)
		}
	}
	k.held = nil
}

func run(ctx context.Context, opts options) error {
	s, err := openSession(opts, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()
	cfg := s.cfg

	board := notify.NewBoard(nil, notify.DefaultToastTTL)
	sink := notify.Multi{board, notify.NewLogSink(s.log.Logger)}
	nav := trigger.NavigatorFunc(func(target string) {
		board.Info(s.msgs.Navigating(target))
	})

	core, err := s.controller(ctx, sink, nav)
	if err != nil {
		return err
	}

	terrain := mapgen.Generate(cfg.Terrain)
	s.log.Info("terrain generated", "tiles", len(terrain.Tiles), "seed", terrain.Options.Seed)
	world := physics.NewWorld()
	terrain.AddTo(world)
	ground, _ := terrain.HeightAt(0, 0)
	player := physics.NewCapsule(geom.V3(0, ground+playerHalfHeight+playerRadius, 0), playerHalfHeight, playerRadius)
	world.AddBody(player)

	scn := scene.New(terrain)
	scn.SetGridVisible(cfg.Window.GridVisible)
	overlay := hud.New(board, core.Input())
	overlay.ShowFPS = cfg.Window.ShowFPS
	overlay.TouchPad = cfg.Window.TouchPad
	console := terminal.New(s.log.Lines, consoleCommands(ctx, core, scn, overlay, s.log.Logger), s.log.Logger)

	var (
		keys keyboard
		last controller.FrameResult
	)
	orientation := motion.Landscape
	started := time.Now()

	update := func(dt float32) {
		console.Update()
		overlay.Update()
		if console.IsOpen() {
			keys.release(core.Input())
		} else {
			keys.poll(core.Input())
		}

		if o := motion.OrientationFor(rl.GetScreenWidth(), rl.GetScreenHeight()); o != orientation {
			orientation = o
			core.SetOrientation(o)
		}

		last = core.Frame(controller.FrameInput{Body: player, Geometry: world})
		world.Step(min(dt, maxStep))

		vis := core.Visibility()
		overlay.Status = fmt.Sprintf("found %d/%d  %s", vis.Count(), vis.Len(), last.Motion.Animation)
	}

	draw := func() {
		scn.Draw(view(core, player, last))
		overlay.Draw()
		console.Draw()
	}

	graphics.Run(graphics.Options{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		TargetFPS: cfg.Window.TargetFPS,
		Resizable: true,
	}, update, draw)

	s.log.Info("session ended",
		"frames", core.Frames(),
		"duration", time.Since(started).Round(time.Second),
		"discovered", core.Visibility().Count(),
	)
	return nil
}

// view collects what the scene draws this frame.
func view(core *controller.Context, player *physics.Body, res controller.FrameResult) scene.View {
	idx := core.Index()
	vis := core.Visibility()
	v := scene.View{
		Camera:     res.Camera,
		Player:     player.Position(),
		PlayerSize: player.HalfExtents().Scale(2),
		Yaw:        res.ContainerYaw + res.Motion.Yaw,
		Animation:  res.Motion.Animation,
	}
	for i := 0; i < idx.CollectibleCount(); i++ {
		v.Collectibles = append(v.Collectibles, scene.Collectible{
			Position:   idx.Collectible(i).Position,
			Discovered: vis.Discovered(i),
		})
	}
	for i := 0; i < idx.HotspotCount(); i++ {
		h := idx.Hotspot(i)
		marker := scene.Hotspot{Position: h.Position}
		if t, ok := core.Triggers().Timer(h.ID); ok {
			marker.Remaining = t.Remaining
		}
		v.Hotspots = append(v.Hotspots, marker)
	}
	return v
}
