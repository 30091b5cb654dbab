package spatial

import (
	"math"
	"testing"
)

const tol = 1e-9

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func matsClose(t *testing.T, got, want Mat4, tolerance float64) {
	t.Helper()
	for i := 0; i < 16; i++ {
		if absf(got[i]-want[i]) > tolerance {
			t.Fatalf("matrix element %d: got %g, want %g", i, got[i], want[i])
		}
	}
}

func TestIdentityPlacement(t *testing.T) {
	p := IdentityPlacement()
	if p.Angle != 0 {
		t.Errorf("identity angle: got %g, want 0", p.Angle)
	}
	if (p.Axis != Vec3{Y: 1}) {
		t.Errorf("identity axis: got %v, want (0,1,0)", p.Axis)
	}
	matsClose(t, p.Mat4(), Identity(), 0)
}

func TestPlacementMat4RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		p    Placement
	}{
		{"identity", IdentityPlacement()},
		{"translation only", Placement{Base: Vec3{1, -2, 3}, Axis: Vec3{Y: 1}}},
		{"quarter turn z", Placement{Base: Vec3{10, 20, 30}, Axis: Vec3{Z: 1}, Angle: math.Pi / 2}},
		{"arbitrary axis", Placement{Base: Vec3{0.5, 0, -4}, Axis: Vec3{1, 1, 1}.Normalize(), Angle: 1.2}},
		{"small angle", Placement{Axis: Vec3{X: 1}, Angle: 1e-3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromMat4(tc.p.Mat4())
			matsClose(t, got.Mat4(), tc.p.Mat4(), tol)
			if absf(got.Base.X-tc.p.Base.X) > tol ||
				absf(got.Base.Y-tc.p.Base.Y) > tol ||
				absf(got.Base.Z-tc.p.Base.Z) > tol {
				t.Errorf("base: got %v, want %v", got.Base, tc.p.Base)
			}
		})
	}
}

func TestFromMat4ZeroRotation(t *testing.T) {
	p := FromMat4(Translate(4, 5, 6))
	if p.Angle != 0 {
		t.Errorf("angle: got %g, want 0", p.Angle)
	}
	if (p.Axis != Vec3{Y: 1}) {
		t.Errorf("axis: got %v, want (0,1,0)", p.Axis)
	}
	if (p.Base != Vec3{4, 5, 6}) {
		t.Errorf("base: got %v, want (4,5,6)", p.Base)
	}
}

func TestFromMat4HalfTurn(t *testing.T) {
	axes := []Vec3{
		{X: 1},
		{Y: 1},
		{Z: 1},
		Vec3{1, 1, 0}.Normalize(),
		Vec3{0, 1, 1}.Normalize(),
	}
	for _, axis := range axes {
		in := Placement{Axis: axis, Angle: math.Pi}
		got := FromMat4(in.Mat4())
		if absf(got.Angle-math.Pi) > 1e-6 {
			t.Errorf("axis %v: angle got %g, want pi", axis, got.Angle)
		}
		// The axis sign is ambiguous for a half turn; the matrices must agree.
		matsClose(t, got.Mat4(), in.Mat4(), 1e-6)
	}
}

func TestFromMat4UnitAxis(t *testing.T) {
	in := Placement{Axis: Vec3{3, -2, 5}.Normalize(), Angle: 2.1}
	got := FromMat4(in.Mat4())
	if l := got.Axis.Length(); absf(l-1) > tol {
		t.Errorf("axis length: got %g, want 1", l)
	}
}

func TestComposeMatchesMatrixProduct(t *testing.T) {
	a := Placement{Base: Vec3{1, 0, 0}, Axis: Vec3{Z: 1}, Angle: math.Pi / 3}
	b := Placement{Base: Vec3{0, 2, 0}, Axis: Vec3{X: 1}, Angle: -math.Pi / 5}
	matsClose(t, a.Compose(b).Mat4(), a.Mat4().Mul(b.Mat4()), tol)
}

func TestInverse(t *testing.T) {
	p := Placement{Base: Vec3{3, -1, 7}, Axis: Vec3{1, 2, 2}.Normalize(), Angle: 0.9}
	matsClose(t, p.Compose(p.Inverse()).Mat4(), Identity(), tol)
	matsClose(t, p.Inverse().Compose(p).Mat4(), Identity(), tol)
}

func TestInverseMovesPointBack(t *testing.T) {
	p := Placement{Base: Vec3{1, 2, 3}, Axis: Vec3{Z: 1}, Angle: math.Pi / 2}
	pt := Vec3{5, 0, 0}
	moved := p.Mat4().TransformPoint(pt)
	back := p.Inverse().Mat4().TransformPoint(moved)
	if back.Distance(pt) > tol {
		t.Errorf("round trip point: got %v, want %v", back, pt)
	}
}
