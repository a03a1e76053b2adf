package geom

// AABB is an axis-aligned bounding box. A box is valid when Min <= Max on
// every axis.
type AABB struct {
	Min, Max Vec3
}

// Box returns the AABB centered at center with the given half extents.
func Box(center, halfExtents Vec3) AABB {
	h := halfExtents.Abs()
	return AABB{Min: center.Sub(h), Max: center.Add(h)}
}

// IsValid reports whether Min <= Max on every axis.
func (b AABB) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Intersects reports whether b and o overlap. Touching boxes intersect.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y &&
		b.Min.Z <= o.Max.Z && o.Min.Z <= b.Max.Z
}

// Contains reports whether o lies entirely inside b.
func (b AABB) Contains(o AABB) bool {
	return b.Min.X <= o.Min.X && o.Max.X <= b.Max.X &&
		b.Min.Y <= o.Min.Y && o.Max.Y <= b.Max.Y &&
		b.Min.Z <= o.Min.Z && o.Max.Z <= b.Max.Z
}

// Union returns the smallest box enclosing b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Expand grows the box by margin on every side.
func (b AABB) Expand(margin float32) AABB {
	m := Splat(margin)
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b AABB) HalfExtents() Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}
