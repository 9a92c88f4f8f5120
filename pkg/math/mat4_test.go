package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(Vec3{5, 10, 15})

	// Translation lives in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(Vec3{2, 3, 4})

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(Vec3{10, 20, 30})
	got := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	got := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if !near3(got, Vec3{0, 0, -1}, 0.001) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", got)
	}
}

func TestRotateX90(t *testing.T) {
	m := RotateX(float32(math.Pi / 2))
	got := m.TransformPoint(Vec3{0, 1, 0})

	if !near3(got, Vec3{0, 0, 1}, 0.001) {
		t.Errorf("RotateX 90: got %v, want (0, 0, 1)", got)
	}
}

func TestChainedTransformOrder(t *testing.T) {
	// translate -> rotate -> scale: the scale acts on the vertex first.
	m := Identity().
		Translated(Vec3{10, 0, 0}).
		RotatedX(float32(math.Pi / 2)).
		Scaled(Vec3{2, 2, 2})

	got := m.TransformPoint(Vec3{0, 1, 0})
	want := Vec3{10, 0, 2}
	if !near3(got, want, 0.001) {
		t.Errorf("chained transform: got %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4)
	m := Perspective(fov, 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}

	wide := Perspective(fov, 2.0, 0.1, 100.0)
	if abs(wide[0]*2-m[0]) > 1e-6 {
		t.Errorf("aspect 2 should halve x scale: got %f, square %f", wide[0], m[0])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}

	// The eye maps to the origin of view space and the target lies on -Z.
	if got := m.TransformPoint(eye); !near3(got, Vec3{}, 1e-5) {
		t.Errorf("eye in view space: got %v, want origin", got)
	}
	if got := m.TransformPoint(Vec3{}); !near3(got, Vec3{0, 0, -5}, 1e-5) {
		t.Errorf("center in view space: got %v, want (0, 0, -5)", got)
	}
}

func TestPtrAliasesStorage(t *testing.T) {
	m := Translate(Vec3{7, 8, 9})
	p := m.Ptr()
	if *p != 1 {
		t.Errorf("first element = %v, want 1", *p)
	}
	*p = 2
	if m[0] != 2 {
		t.Error("Ptr does not point into the matrix")
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func near3(a, b Vec3, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps
}
