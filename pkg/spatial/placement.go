package spatial

import "math"

// axisEpsilon bounds the off-diagonal symmetry test that detects the
// singular rotation angles (0 and 180 degrees) during axis-angle extraction.
const axisEpsilon = 1e-5

// Placement is a rigid transform: a translation plus an axis-angle rotation.
// Axis is unit-length except for the zero rotation, where it is fixed to
// (0, 1, 0) and Angle is 0.
type Placement struct {
	Base  Vec3
	Axis  Vec3
	Angle float64
}

// IdentityPlacement returns the zero rotation at the origin.
func IdentityPlacement() Placement {
	return Placement{Axis: Vec3{Y: 1}}
}

// Mat4 returns the 4x4 homogeneous transform of the placement.
func (p Placement) Mat4() Mat4 {
	m := RotateAxis(p.Axis, p.Angle)
	m[12] = p.Base.X
	m[13] = p.Base.Y
	m[14] = p.Base.Z
	return m
}

// Compose returns the placement equivalent to applying other first, then p.
func (p Placement) Compose(other Placement) Placement {
	return FromMat4(p.Mat4().Mul(other.Mat4()))
}

// Inverse returns the placement that undoes p.
func (p Placement) Inverse() Placement {
	return Placement{
		Base:  RotateAxis(p.Axis, -p.Angle).TransformPoint(p.Base.Scale(-1)),
		Axis:  p.Axis,
		Angle: -p.Angle,
	}
}

// FromMat4 extracts a placement from a homogeneous transform whose upper-left
// 3x3 block is a pure rotation. The 0 and 180 degree rotations make the
// general extraction formula degenerate and are handled as separate branches.
func FromMat4(m Mat4) Placement {
	r00, r01, r02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	r10, r11, r12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	r20, r21, r22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)
	base := Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}

	if math.Abs(r01-r10) < axisEpsilon &&
		math.Abs(r02-r20) < axisEpsilon &&
		math.Abs(r12-r21) < axisEpsilon {
		// Symmetric rotation block: angle is 0 or 180 degrees.
		if math.Abs(r01+r10) < 2*axisEpsilon &&
			math.Abs(r02+r20) < 2*axisEpsilon &&
			math.Abs(r12+r21) < 2*axisEpsilon &&
			math.Abs(r00+r11+r22-3) < axisEpsilon {
			return Placement{Base: base, Axis: Vec3{Y: 1}}
		}
		return Placement{Base: base, Axis: halfTurnAxis(r00, r01, r02, r11, r12, r22), Angle: math.Pi}
	}

	s := math.Sqrt((r21-r12)*(r21-r12) + (r02-r20)*(r02-r20) + (r10-r01)*(r10-r01))
	if math.Abs(s) < axisEpsilon {
		s = 1
	}
	return Placement{
		Base:  base,
		Axis:  Vec3{(r21 - r12) / s, (r02 - r20) / s, (r10 - r01) / s},
		Angle: math.Acos(clamp((r00+r11+r22-1)/2, -1, 1)),
	}
}

// halfTurnAxis recovers the rotation axis of a 180 degree rotation from the
// symmetric rotation block. The largest diagonal term picks the component the
// remaining two are derived from, avoiding division by a vanishing entry.
func halfTurnAxis(r00, r01, r02, r11, r12, r22 float64) Vec3 {
	xx := (r00 + 1) / 2
	yy := (r11 + 1) / 2
	zz := (r22 + 1) / 2
	xy := r01 / 2
	xz := r02 / 2
	yz := r12 / 2

	const diag = 0.7071067811865476 // 1/sqrt(2)
	switch {
	case xx > yy && xx > zz:
		if xx < axisEpsilon {
			return Vec3{0, diag, diag}
		}
		x := math.Sqrt(xx)
		return Vec3{x, xy / x, xz / x}
	case yy > zz:
		if yy < axisEpsilon {
			return Vec3{diag, 0, diag}
		}
		y := math.Sqrt(yy)
		return Vec3{xy / y, y, yz / y}
	default:
		if zz < axisEpsilon {
			return Vec3{diag, diag, 0}
		}
		z := math.Sqrt(zz)
		return Vec3{xz / z, yz / z, z}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
