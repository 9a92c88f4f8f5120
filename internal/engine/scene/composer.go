package scene

import (
	"github.com/Faultbox/heightview/internal/engine/camera"
	"github.com/Faultbox/heightview/pkg/math"
)

// BuildingVertices is the size of every building mesh: a box as 12 triangles.
const BuildingVertices = 36

// Pass identifies which buffer set and program a draw call uses.
type Pass int

const (
	PassTerrain Pass = iota
	PassBuilding
	PassWater
)

func (p Pass) String() string {
	switch p {
	case PassTerrain:
		return "terrain"
	case PassBuilding:
		return "building"
	case PassWater:
		return "water"
	default:
		return "unknown"
	}
}

// DrawCall is one drawArrays(TRIANGLES, First, Count) with its uniforms.
type DrawCall struct {
	Pass  Pass
	Model math.Mat4
	Color [3]float32
	Light math.Vec3 // normalized; zero for the water pass
	First int32
	Count int32
}

// Frame is everything the renderer needs to draw one frame.
type Frame struct {
	ClearColor [4]float32
	Projection math.Mat4
	View       math.Mat4
	Draws      []DrawCall
}

// Counts describes the loaded geometry.
type Counts struct {
	TerrainVertices int
	Buildings       int
}

// WaterVertices is the vertex count of the water quad.
const WaterVertices = 6

// WaterQuad returns the water geometry: a 2x2 square in the XY plane as two
// triangles, stride 4. The water transform lays it flat.
func WaterQuad() []float32 {
	corners := [WaterVertices][2]float32{
		{-1, -1}, {-1, 1}, {1, 1},
		{1, 1}, {1, -1}, {-1, -1},
	}
	out := make([]float32, 0, WaterVertices*4)
	for _, c := range corners {
		out = append(out, c[0], c[1], 0, 1)
	}
	return out
}

// Composer builds frames for one profile. Matrices and lights that never
// change are computed once.
type Composer struct {
	profile       Profile
	terrainModel  math.Mat4
	buildingModel math.Mat4
	waterModel    math.Mat4
	terrainLight  math.Vec3
	buildingLight math.Vec3

	// colors caches the building tint sequence; it only grows.
	colors [][3]float32
}

// NewComposer prepares a composer for the given profile.
func NewComposer(p Profile) *Composer {
	return &Composer{
		profile:       p,
		terrainModel:  p.Terrain.Matrix(),
		buildingModel: p.Buildings.Matrix(),
		waterModel:    p.Water.Transform.Matrix(),
		terrainLight:  p.TerrainLight.Normalize(),
		buildingLight: p.BuildingLight.Normalize(),
	}
}

// Profile returns the profile the composer was built with.
func (c *Composer) Profile() Profile {
	return c.profile
}

// Projection returns the projection matrix for a framebuffer of the given size.
// A zero height is treated as square.
func (c *Composer) Projection(width, height int) math.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return math.Perspective(c.profile.FieldOfView, aspect, c.profile.Near, c.profile.Far)
}

// Compose builds the draw list for one frame: terrain, then each building in
// index order, then water.
func (c *Composer) Compose(cam *camera.Camera, width, height int, counts Counts) Frame {
	p := c.profile
	frame := Frame{
		ClearColor: p.ClearColor,
		Projection: c.Projection(width, height),
		View:       cam.ViewMatrix(),
		Draws:      make([]DrawCall, 0, counts.Buildings+2),
	}

	if p.DrawTerrain {
		frame.Draws = append(frame.Draws, DrawCall{
			Pass:  PassTerrain,
			Model: c.terrainModel,
			Color: p.TerrainColor,
			Light: c.terrainLight,
			First: 0,
			Count: int32(counts.TerrainVertices),
		})
	}

	for i, color := range c.buildingColors(counts.Buildings) {
		frame.Draws = append(frame.Draws, DrawCall{
			Pass:  PassBuilding,
			Model: c.buildingModel,
			Color: color,
			Light: c.buildingLight,
			First: int32(i * BuildingVertices),
			Count: BuildingVertices,
		})
	}

	if p.Water.Enabled {
		frame.Draws = append(frame.Draws, DrawCall{
			Pass:  PassWater,
			Model: c.waterModel,
			Color: p.Water.Color,
			Count: WaterVertices,
		})
	}

	return frame
}

func (c *Composer) buildingColors(n int) [][3]float32 {
	if n > len(c.colors) {
		c.colors = BuildingColors(c.profile.BuildingColors, n)
	}
	return c.colors[:n]
}
