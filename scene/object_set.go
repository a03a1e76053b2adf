// Package scene keeps the objects of a scene in a generational arena and
// records which handles changed, so renderers and broad phases can
// re-synchronize without rescanning the whole set.
package scene

import (
	"iter"

	"github.com/edwinsyarief/kukan"
)

// ObjectSet owns the scene objects.
//
// RemovedObjects and ChangedObjects are append-only logs of handles touched
// since the consumer last drained them. The set never clears or deduplicates
// them; a handle appears once per touch. The logs carry no payload: consumers
// re-read current state through Get.
type ObjectSet struct {
	objects        *kukan.Space[SceneObject]
	RemovedObjects []Handle
	ChangedObjects []Handle
}

// NewObjectSet creates an empty ObjectSet.
func NewObjectSet() *ObjectSet {
	return &ObjectSet{objects: kukan.New[SceneObject]()}
}

// Len returns the number of live objects.
func (s *ObjectSet) Len() int {
	return s.objects.Len()
}

// Insert builds the object, clears any parent link it carried, stores it
// and logs the new handle in ChangedObjects.
//
// Parameters:
//   - b: An ObjectBuilder, a SceneObject, or any other Buildable.
//
// Returns:
//   - The handle of the new object.
func (s *ObjectSet) Insert(b Buildable) Handle {
	obj := b.Build()
	if obj.shape == nil {
		panic("scene: object has no shape")
	}
	obj.resetInternalReferences()
	h := Handle{Index: s.objects.Insert(obj)}
	s.ChangedObjects = append(s.ChangedObjects, h)
	return h
}

// Get returns the object h refers to, or false if h is stale or unknown.
// The pointer is valid until the next Insert.
func (s *ObjectSet) Get(h Handle) (*SceneObject, bool) {
	return s.objects.Get(h.Index)
}

// GetMut is Get for call sites that mutate the object. Mutations made
// through the pointer are not logged; use Modify to record them.
func (s *ObjectSet) GetMut(h Handle) (*SceneObject, bool) {
	return s.objects.Get(h.Index)
}

// Contains reports whether h refers to a live object.
func (s *ObjectSet) Contains(h Handle) bool {
	return s.objects.Contains(h.Index)
}

// At returns the object h refers to and panics if h is not live.
func (s *ObjectSet) At(h Handle) *SceneObject {
	return s.objects.At(h.Index)
}

// Modify calls fn on the object h refers to and logs h in ChangedObjects.
//
// Returns:
//   - false if h is not live; fn is not called in that case.
func (s *ObjectSet) Modify(h Handle, fn func(*SceneObject)) bool {
	obj, ok := s.objects.Get(h.Index)
	if !ok {
		return false
	}
	fn(obj)
	s.ChangedObjects = append(s.ChangedObjects, h)
	return true
}

// SetParent links child under parent; NoHandle unlinks it. The child is
// logged in ChangedObjects.
//
// Returns:
//   - false if child is not live, parent is neither NoHandle nor live, or
//     parent equals child.
func (s *ObjectSet) SetParent(child, parent Handle) bool {
	if child == parent {
		return false
	}
	if !parent.isNone() && (!s.Contains(parent) || s.descendsFrom(parent, child)) {
		return false
	}
	return s.Modify(child, func(o *SceneObject) {
		if parent.isNone() {
			o.parent = NoHandle()
			return
		}
		o.parent = parent
	})
}

// descendsFrom reports whether ancestor is reachable from h through live
// parent links.
func (s *ObjectSet) descendsFrom(h, ancestor Handle) bool {
	for steps := s.Len(); steps >= 0; steps-- {
		if h == ancestor {
			return true
		}
		obj, ok := s.Get(h)
		if !ok {
			return false
		}
		if h, ok = obj.Parent(); !ok {
			return false
		}
	}
	return false
}

// Remove takes the object h refers to out of the set and logs h in
// RemovedObjects. Children keep their now-stale parent handle.
//
// Returns:
//   - The removed object.
//   - false if h is not live.
func (s *ObjectSet) Remove(h Handle) (SceneObject, bool) {
	obj, ok := s.objects.Remove(h.Index)
	if !ok {
		return SceneObject{}, false
	}
	s.RemovedObjects = append(s.RemovedObjects, h)
	return obj, true
}

// Iter returns an iterator over the live objects.
func (s *ObjectSet) Iter() *Iter {
	return &Iter{it: s.objects.Iter()}
}

// All returns a range-over-func sequence of handles and objects.
func (s *ObjectSet) All() iter.Seq2[Handle, *SceneObject] {
	return func(yield func(Handle, *SceneObject) bool) {
		for idx, obj := range s.objects.All() {
			if !yield(Handle{Index: idx}, obj) {
				return
			}
		}
	}
}

// Iter walks the live objects of an ObjectSet.
type Iter struct {
	it *kukan.Iter[SceneObject]
}

// Next advances to the next object.
func (it *Iter) Next() bool {
	return it.it.Next()
}

// Handle returns the handle of the current object.
func (it *Iter) Handle() Handle {
	return Handle{Index: it.it.Index()}
}

// Object returns the current object.
func (it *Iter) Object() *SceneObject {
	return it.it.Value()
}

// Len returns the number of objects not yet yielded.
func (it *Iter) Len() int {
	return it.it.Len()
}
