// Package scene turns camera state and loaded mesh counts into the ordered
// list of draw calls for one frame. It does not touch the GPU.
package scene

import (
	"fmt"
	gomath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heightview/pkg/math"
)

// Profile names.
const (
	World     = "world"
	Buildings = "buildings"
)

// quarterTurn is the X rotation that lays the height map flat. The assets were
// tuned against this rounded value, not against pi/2.
const quarterTurn float32 = 3.14 / 2

// Transform is a translate -> rotate about X -> scale model transform.
type Transform struct {
	Translate math.Vec3
	RotateX   float32
	Scale     math.Vec3
}

// Matrix returns the model matrix.
func (t Transform) Matrix() math.Mat4 {
	return math.Identity().
		Translated(t.Translate).
		RotatedX(t.RotateX).
		Scaled(t.Scale)
}

// Water describes the flat water quad drawn after the buildings.
type Water struct {
	Enabled   bool
	Transform Transform
	Color     [3]float32
}

// Palette drives the per-building tint sequence.
type Palette struct {
	// Tint is rotated, normalized and scaled by Strength before being added to Base.
	Tint     mgl32.Vec4
	Base     mgl32.Vec4
	Strength float32
	// Step is the rotation about Y, in radians, accumulated before each building.
	Step float32
}

// Profile is the full set of constants for one 3D view.
type Profile struct {
	Name       string
	ClearColor [4]float32

	FieldOfView float32 // radians
	Near, Far   float32

	DrawTerrain    bool
	Terrain        Transform
	TerrainColor   [3]float32
	TerrainLight   math.Vec3
	Buildings      Transform
	BuildingLight  math.Vec3
	BuildingColors Palette

	Water Water
}

func defaultPalette() Palette {
	return Palette{
		Tint:     mgl32.Vec4{0.8, 0.3, 0.8, 1},
		Base:     mgl32.Vec4{0.9, 0.6, 0.55, 1},
		Strength: 0.2,
		Step:     0.1,
	}
}

// WorldProfile is the terrain-and-buildings view.
func WorldProfile() Profile {
	return Profile{
		Name:        World,
		ClearColor:  [4]float32{0.1, 0.1, 0.1, 1},
		FieldOfView: 45 * gomath.Pi / 180,
		Near:        0.1,
		Far:         100,

		DrawTerrain: true,
		Terrain: Transform{
			Translate: math.Vec3{X: -3 - 20, Y: -1 + 1, Z: -16 - 50},
			RotateX:   quarterTurn,
			Scale:     math.Vec3{X: 0.1, Y: 0.1, Z: -3},
		},
		TerrainColor: [3]float32{0.8, 0.7, 0.6},
		TerrainLight: math.Vec3{X: 0, Y: -0.5, Z: 0.7},

		Buildings: Transform{
			Translate: math.Vec3{X: -3 - 20, Y: -1 + 1 + 10, Z: -16 - 50},
			RotateX:   quarterTurn,
			Scale:     math.Vec3{X: 0.1, Y: 0.1, Z: 3},
		},
		BuildingLight:  math.Vec3{X: 0, Y: 0.3, Z: -1},
		BuildingColors: defaultPalette(),
	}
}

// BuildingsProfile is the spinning buildings-only view. Its terrain pass is
// configured but switched off, and so is its water quad.
func BuildingsProfile() Profile {
	p := WorldProfile()
	p.Name = Buildings
	p.ClearColor = [4]float32{1, 1, 1, 1}
	p.DrawTerrain = false
	p.Terrain.Translate = math.Vec3{X: -3 - 20, Y: -1 + 1, Z: -16 - 2000}
	p.Buildings = Transform{
		Translate: math.Vec3{X: -3 - 10, Y: -1 + 1 + 10, Z: -16 - 35},
		RotateX:   quarterTurn,
		Scale:     math.Vec3{X: 0.05, Y: 0.05, Z: 5},
	}
	p.Water = Water{
		Enabled: false,
		Transform: Transform{
			Translate: math.Vec3{X: 2, Y: 4.4, Z: -40},
			RotateX:   quarterTurn,
			Scale:     math.Vec3{X: 25, Y: 25, Z: 25},
		},
		Color: [3]float32{0, 0, 1},
	}
	return p
}

var profiles = map[string]func() Profile{
	World:     WorldProfile,
	Buildings: BuildingsProfile,
}

// ProfileByName returns the named preset.
func ProfileByName(name string) (Profile, error) {
	fn, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown scene profile %q (have %v)", name, ProfileNames())
	}
	return fn(), nil
}

// ProfileNames lists the known presets in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
