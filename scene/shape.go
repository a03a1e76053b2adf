package scene

import "github.com/edwinsyarief/kukan/geom"

// Shape is the collision geometry of a SceneObject.
type Shape interface {
	// AABB returns the world-space bounds of the shape placed at pose.
	AABB(pose geom.Pose) geom.AABB
	// Kind names the shape for snapshots.
	Kind() string
}

const (
	KindCuboid  = "cuboid"
	KindBall    = "ball"
	KindCapsule = "capsule"
)

// Cuboid is a box centered on the origin.
type Cuboid struct {
	HalfExtents geom.Vec3
}

func (c Cuboid) Kind() string { return KindCuboid }

func (c Cuboid) AABB(pose geom.Pose) geom.AABB {
	ax, ay, az := pose.Axes()
	h := c.HalfExtents.Abs()
	ext := ax.Scale(h.X).Add(ay.Scale(h.Y)).Add(az.Scale(h.Z))
	return geom.Box(pose.Translation, ext)
}

// Ball is a sphere centered on the origin.
type Ball struct {
	Radius float32
}

func (b Ball) Kind() string { return KindBall }

func (b Ball) AABB(pose geom.Pose) geom.AABB {
	return geom.Box(pose.Translation, geom.Splat(b.Radius))
}

// Capsule is a segment along the local Y axis, from -HalfHeight to
// +HalfHeight, swept by a sphere of Radius.
type Capsule struct {
	HalfHeight float32
	Radius     float32
}

func (c Capsule) Kind() string { return KindCapsule }

func (c Capsule) AABB(pose geom.Pose) geom.AABB {
	r := geom.Splat(c.Radius)
	top := geom.Box(pose.Transform(geom.V3(0, c.HalfHeight, 0)), r)
	bottom := geom.Box(pose.Transform(geom.V3(0, -c.HalfHeight, 0)), r)
	return top.Union(bottom)
}
