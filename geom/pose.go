package geom

import "github.com/chewxy/math32"

// Quat is a rotation quaternion. Only unit quaternions represent rotations;
// constructors in this package return unit quaternions.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the rotation that leaves vectors unchanged.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle returns the rotation of angle radians about axis. A
// zero axis yields the identity.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	l := axis.Length()
	if l == 0 {
		return QuatIdentity()
	}
	s, c := math32.Sincos(angle / 2)
	a := axis.Scale(s / l)
	return Quat{X: a.X, Y: a.Y, Z: a.Z, W: c}
}

// Mul returns the rotation q applied after r.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Normalize returns q scaled to unit length, or the identity for a zero
// quaternion.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Pose is a rigid transform: a rotation followed by a translation.
type Pose struct {
	Translation Vec3
	Rotation    Quat
}

// Identity returns the pose that leaves points unchanged.
func Identity() Pose {
	return Pose{Rotation: QuatIdentity()}
}

// Translation returns an unrotated pose at (x, y, z).
func Translation(x, y, z float32) Pose {
	return Pose{Translation: V3(x, y, z), Rotation: QuatIdentity()}
}

// Transform maps a point from local space into the pose's parent space.
func (p Pose) Transform(v Vec3) Vec3 {
	return p.rotation().Rotate(v).Add(p.Translation)
}

// rotation treats the zero Quat as the identity so a zero Pose is usable.
func (p Pose) rotation() Quat {
	if p.Rotation == (Quat{}) {
		return QuatIdentity()
	}
	return p.Rotation
}

// Axes returns the absolute values of the rotated basis vectors, the
// matrix used to bound a rotated box.
func (p Pose) Axes() (x, y, z Vec3) {
	r := p.rotation()
	return r.Rotate(V3(1, 0, 0)).Abs(), r.Rotate(V3(0, 1, 0)).Abs(), r.Rotate(V3(0, 0, 1)).Abs()
}
