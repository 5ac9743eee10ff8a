// Package scene draws the exploration world with raylib: terrain tiles, collectibles,
// hotspots and the player, seen through the rig camera.
package scene

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"explore-engine/internal/camera"
	"explore-engine/internal/geom"
	"explore-engine/internal/mapgen"
	"explore-engine/internal/motion"
)

const (
	gridExtent     = 50
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	collectibleR   = 0.12
	hotspotR       = 0.5
)

// Collectible is a collectible as drawn this frame.
type Collectible struct {
	Position   geom.Vec3
	Discovered bool
}

// Hotspot is a hotspot as drawn this frame. Remaining is 0 unless a countdown is live.
type Hotspot struct {
	Position  geom.Vec2
	Remaining int
}

// View is everything the scene needs for one frame.
type View struct {
	Camera       camera.Frame
	Player       geom.Vec3
	PlayerSize   geom.Vec3
	Yaw          float32
	Animation    motion.Animation
	Collectibles []Collectible
	Hotspots     []Hotspot
}

// Scene holds the raylib camera and the static terrain.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool
	tiles       []mapgen.Tile
	tileColors  []rl.Color
}

// New returns a scene over terrain with a 60° perspective camera.
func New(terrain mapgen.Terrain) *Scene {
	s := &Scene{tiles: terrain.Tiles}
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 60
	s.Camera.Projection = rl.CameraPerspective

	scale := terrain.Options.HeightScale
	for _, t := range terrain.Tiles {
		shade := float32(0)
		if scale > 0 {
			shade = math32.Min(t.Top()/scale, 1)
		}
		s.tileColors = append(s.tileColors, rl.NewColor(
			uint8(70+shade*90),
			uint8(140-shade*40),
			uint8(60+shade*50),
			255,
		))
	}
	return s
}

func vec(v geom.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

// SetGridVisible sets whether the reference grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Draw renders v. Call between BeginDrawing and the 2D overlay.
func (s *Scene) Draw(v View) {
	s.Camera.Position = vec(v.Camera.Position)
	s.Camera.Target = vec(v.Camera.LookAt)

	rl.BeginMode3D(s.Camera)
	for i, t := range s.tiles {
		rl.DrawCubeV(vec(t.Center), vec(t.Size), s.tileColors[i])
	}
	if s.GridVisible {
		drawGrid()
	}
	for _, h := range v.Hotspots {
		c := rl.NewColor(250, 200, 60, 160)
		if h.Remaining > 0 {
			c = rl.NewColor(240, 90, 60, 200)
		}
		rl.DrawCylinder(rl.NewVector3(h.Position.X, 0.01, h.Position.Y), hotspotR, hotspotR, 0.02, 24, c)
	}
	for _, c := range v.Collectibles {
		if c.Discovered {
			continue
		}
		rl.DrawSphere(vec(c.Position), collectibleR, rl.NewColor(120, 120, 135, 255))
	}
	drawPlayer(v)
	rl.EndMode3D()
}

func animationColor(a motion.Animation) rl.Color {
	switch a {
	case motion.Walk:
		return rl.NewColor(70, 130, 220, 255)
	case motion.Run:
		return rl.NewColor(40, 80, 200, 255)
	case motion.Jump:
		return rl.NewColor(200, 80, 200, 255)
	default:
		return rl.NewColor(90, 90, 110, 255)
	}
}

// drawPlayer draws the body box and a short nose toward the facing direction.
func drawPlayer(v View) {
	rl.DrawCubeV(vec(v.Player), vec(v.PlayerSize), animationColor(v.Animation))
	nose := geom.V3(0, 0, v.PlayerSize.Z).RotateY(v.Yaw)
	rl.DrawLine3D(vec(v.Player), vec(v.Player.Add(nose)), rl.White)
}

// drawGrid draws major lines on the XZ plane just above Y=0.
func drawGrid() {
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMajorStep / 2 {
		c := minor
		if i%gridMajorStep == 0 {
			c = major
		}
		start.X, start.Y, start.Z = float32(i), 0.005, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0.005, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Z = -gridExtent, float32(i)
		end.X, end.Z = gridExtent, float32(i)
		rl.DrawLine3D(start, end, c)
	}
}
