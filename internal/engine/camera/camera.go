// Package camera provides the orbit/pan camera used by the 3D views.
package camera

import (
	gomath "math"

	"github.com/Faultbox/heightview/pkg/math"
)

// Input scaling applied to raw pointer and wheel deltas.
const (
	RotateSensitivity float32 = 1.0 / 500.0
	PanSensitivity    float32 = 1.0 / 50.0
	ZoomSensitivity   float32 = 1.0 / 200.0
)

var up = math.Vec3{X: 0, Y: 1, Z: 0}

// Rig holds the fixed geometry of a view's camera.
type Rig struct {
	// Target is the look-at point before panning.
	Target math.Vec3
	// Eye is the camera position before panning and rotation.
	Eye math.Vec3
	// AutoSpin is added to the spin accumulator on every Tick. Zero disables it.
	AutoSpin float32
}

// WorldRig is the rig of the "world" view.
func WorldRig() Rig {
	return Rig{
		Target: math.Vec3{X: 0, Y: 10, Z: -15},
		Eye:    math.Vec3{X: 0, Y: 10, Z: 10},
	}
}

// BuildingsRig is the rig of the "buildings" view, which slowly turns on its own.
func BuildingsRig() Rig {
	return Rig{
		Target:   math.Vec3{X: 0, Y: 10, Z: -35},
		Eye:      math.Vec3{X: 0, Y: 30, Z: -10},
		AutoSpin: 0.01,
	}
}

// State is the accumulated user input and spin of one camera.
type State struct {
	Yaw   float32 // radians, about Y
	Pitch float32 // radians, about X
	PanX  float32
	PanY  float32
	PanZ  float32
	Spin  float32 // radians, added to Yaw
}

// Pan returns the pan offset as a vector.
func (s State) Pan() math.Vec3 {
	return math.Vec3{X: s.PanX, Y: s.PanY, Z: s.PanZ}
}

// Camera combines a rig with its mutable state. Each view owns one.
type Camera struct {
	Rig   Rig
	State State
}

// New creates a camera at rest for the given rig.
func New(rig Rig) *Camera {
	return &Camera{Rig: rig}
}

// LookAt returns the point the camera looks at. It depends only on the pan offset.
func (c *Camera) LookAt() math.Vec3 {
	return c.Rig.Target.Add(c.State.Pan())
}

// Position returns the camera position. The panned eye is rotated about X by
// pitch and then about Y by yaw plus spin, both around the look-at point.
func (c *Camera) Position() math.Vec3 {
	target := c.LookAt()
	eye := c.Rig.Eye.Add(c.State.Pan())
	eye = eye.RotateXAround(target, c.State.Pitch)
	return eye.RotateYAround(target, c.State.Yaw+c.State.Spin)
}

// ViewMatrix returns the view matrix for the current state. It has no side effects.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.LookAt(), up)
}

// Tick advances the spin accumulator by one frame. Spin is kept within one
// turn so long sessions do not lose float precision.
func (c *Camera) Tick() {
	c.State.Spin = float32(gomath.Mod(float64(c.State.Spin+c.Rig.AutoSpin), 2*gomath.Pi))
}

// Rotate applies a pointer drag in pixels to yaw and pitch.
func (c *Camera) Rotate(dx, dy float32) {
	c.State.Yaw += -dx * RotateSensitivity
	c.State.Pitch += -dy * RotateSensitivity
}

// Pan applies a pointer drag in pixels to the pan offset. Screen Y is inverted
// and the delta is turned into camera space before it is accumulated.
func (c *Camera) Pan(dx, dy float32) {
	c.move(math.Vec3{X: -dx * PanSensitivity, Y: dy * PanSensitivity})
}

// Zoom applies a wheel delta, moving along the camera's Z axis.
func (c *Camera) Zoom(delta float32) {
	c.move(math.Vec3{Z: delta * ZoomSensitivity})
}

// move rotates v by the current pitch and yaw (spin excluded) around the
// origin and adds it to the pan offset.
func (c *Camera) move(v math.Vec3) {
	var origin math.Vec3
	v = v.RotateXAround(origin, c.State.Pitch)
	v = v.RotateYAround(origin, c.State.Yaw)
	c.State.PanX += v.X
	c.State.PanY += v.Y
	c.State.PanZ += v.Z
}

// Buttons is a bitmask of held pointer buttons.
type Buttons uint32

// ButtonPrimary is the left mouse button.
const ButtonPrimary Buttons = 1

// PointerEvent is a pointer movement with the modifier state at the time it happened.
type PointerEvent struct {
	DX, DY  float32
	Buttons Buttons
	Shift   bool
}

// HandlePointer routes a pointer movement: primary drag rotates, primary drag
// with shift pans, anything else is ignored.
func (c *Camera) HandlePointer(e PointerEvent) {
	if e.Buttons&ButtonPrimary == 0 {
		return
	}
	if e.Shift {
		c.Pan(e.DX, e.DY)
		return
	}
	c.Rotate(e.DX, e.DY)
}

// Reset returns the camera to its rest state.
func (c *Camera) Reset() {
	c.State = State{}
}
