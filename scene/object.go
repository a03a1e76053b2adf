package scene

import (
	"github.com/edwinsyarief/kukan/geom"
	"github.com/google/uuid"
)

// Flags are per-object markers read by downstream consumers.
type Flags uint8

const (
	// FlagHidden marks an object that renderers should not draw.
	FlagHidden Flags = 1 << iota
	// FlagStatic marks an object that is not expected to move.
	FlagStatic
)

// Has reports whether every flag in f is set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// SceneObject is a shape placed in the scene.
type SceneObject struct {
	shape  Shape
	parent Handle
	pose   geom.Pose
	flags  Flags
	// UserData is an opaque 128-bit tag owned by the application.
	UserData uuid.UUID
}

// Buildable is anything that can produce a SceneObject for insertion.
type Buildable interface {
	Build() SceneObject
}

// Build returns a copy of o, so a SceneObject can be inserted directly.
func (o SceneObject) Build() SceneObject {
	return o
}

func (o *SceneObject) Shape() Shape {
	return o.shape
}

func (o *SceneObject) Pose() geom.Pose {
	return o.pose
}

func (o *SceneObject) SetPose(p geom.Pose) {
	o.pose = p
}

func (o *SceneObject) Flags() Flags {
	return o.flags
}

func (o *SceneObject) SetFlags(f Flags) {
	o.flags = f
}

// Parent returns the parent handle, if any. The handle may be stale if the
// parent has since been removed; resolve it through the ObjectSet.
func (o *SceneObject) Parent() (Handle, bool) {
	if o.parent.isNone() {
		return NoHandle(), false
	}
	return o.parent, true
}

// AABB returns the world-space bounds of the object.
func (o *SceneObject) AABB() geom.AABB {
	return o.shape.AABB(o.pose)
}

// resetInternalReferences drops links to other objects, which are
// meaningless once the object is moved into a set.
func (o *SceneObject) resetInternalReferences() {
	o.parent = NoHandle()
}

// ObjectBuilder assembles a SceneObject.
type ObjectBuilder struct {
	Shape    Shape
	Pose     geom.Pose
	Flags    Flags
	UserData uuid.UUID
}

// NewObjectBuilder returns a builder for an object of the given shape at the
// origin.
func NewObjectBuilder(shape Shape) *ObjectBuilder {
	return &ObjectBuilder{Shape: shape, Pose: geom.Identity()}
}

// Cube returns a builder for a cuboid with the given half extents.
func Cube(hx, hy, hz float32) *ObjectBuilder {
	return NewObjectBuilder(Cuboid{HalfExtents: geom.V3(hx, hy, hz)})
}

// Sphere returns a builder for a ball of radius r.
func Sphere(r float32) *ObjectBuilder {
	return NewObjectBuilder(Ball{Radius: r})
}

func (b *ObjectBuilder) WithPose(p geom.Pose) *ObjectBuilder {
	b.Pose = p
	return b
}

func (b *ObjectBuilder) WithFlags(f Flags) *ObjectBuilder {
	b.Flags = f
	return b
}

func (b *ObjectBuilder) WithUserData(id uuid.UUID) *ObjectBuilder {
	b.UserData = id
	return b
}

// Build returns the configured object. It panics if no shape was set.
func (b *ObjectBuilder) Build() SceneObject {
	if b.Shape == nil {
		panic("scene: object builder has no shape")
	}
	return SceneObject{
		shape:    b.Shape,
		parent:   NoHandle(),
		pose:     b.Pose,
		flags:    b.Flags,
		UserData: b.UserData,
	}
}
