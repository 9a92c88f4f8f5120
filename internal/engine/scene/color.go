package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

var yAxis = mgl32.Vec3{0, 1, 0}

// ColorSequence yields building tints in draw order. The rotation is
// accumulated one step at a time, so the i-th color carries the rounding of i+1
// successive matrix products rather than a single rotation by (i+1)*step.
type ColorSequence struct {
	palette  Palette
	rotation mgl32.Mat4
}

// NewColorSequence starts a sequence at the identity rotation.
func NewColorSequence(p Palette) *ColorSequence {
	return &ColorSequence{palette: p, rotation: mgl32.Ident4()}
}

// Next advances the rotation by one step and returns the tint for the next building.
func (s *ColorSequence) Next() [3]float32 {
	s.rotation = s.rotation.Mul4(mgl32.HomogRotate3D(s.palette.Step, yAxis))

	c := s.rotation.Mul4x1(s.palette.Tint).Normalize().Mul(s.palette.Strength)
	c = s.palette.Base.Add(c)
	return [3]float32{c[0], c[1], c[2]}
}

// BuildingColors returns the first n tints of the palette's sequence.
func BuildingColors(p Palette, n int) [][3]float32 {
	seq := NewColorSequence(p)
	colors := make([][3]float32, n)
	for i := range colors {
		colors[i] = seq.Next()
	}
	return colors
}
