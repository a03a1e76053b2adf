package scene

import (
	"errors"
	"fmt"
	"io"

	"github.com/edwinsyarief/kukan/geom"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// ErrSnapshot is wrapped by errors from reading or restoring a snapshot.
var ErrSnapshot = errors.New("scene: malformed snapshot")

// ShapeRecord is the serialized form of a Shape.
type ShapeRecord struct {
	Kind        string     `json:"kind"`
	HalfExtents [3]float32 `json:"half_extents,omitzero"`
	Radius      float32    `json:"radius,omitzero"`
	HalfHeight  float32    `json:"half_height,omitzero"`
}

// Record is the serialized form of one object, as written by WriteSnapshot.
type Record struct {
	Handle      Handle      `json:"handle"`
	Parent      Handle      `json:"parent"`
	Shape       ShapeRecord `json:"shape"`
	Translation [3]float32  `json:"translation"`
	Rotation    [4]float32  `json:"rotation"`
	Flags       Flags       `json:"flags"`
	UserData    uuid.UUID   `json:"user_data"`
}

func shapeRecord(s Shape) (ShapeRecord, error) {
	switch s := s.(type) {
	case Cuboid:
		h := s.HalfExtents
		return ShapeRecord{Kind: KindCuboid, HalfExtents: [3]float32{h.X, h.Y, h.Z}}, nil
	case Ball:
		return ShapeRecord{Kind: KindBall, Radius: s.Radius}, nil
	case Capsule:
		return ShapeRecord{Kind: KindCapsule, Radius: s.Radius, HalfHeight: s.HalfHeight}, nil
	default:
		return ShapeRecord{}, fmt.Errorf("scene: shape %q cannot be serialized", s.Kind())
	}
}

// Shape rebuilds the Shape the record describes.
func (r ShapeRecord) Shape() (Shape, error) {
	switch r.Kind {
	case KindCuboid:
		h := r.HalfExtents
		return Cuboid{HalfExtents: geom.V3(h[0], h[1], h[2])}, nil
	case KindBall:
		return Ball{Radius: r.Radius}, nil
	case KindCapsule:
		return Capsule{HalfHeight: r.HalfHeight, Radius: r.Radius}, nil
	default:
		return nil, fmt.Errorf("%w: unknown shape kind %q", ErrSnapshot, r.Kind)
	}
}

func (o *SceneObject) record(h Handle) (Record, error) {
	sr, err := shapeRecord(o.shape)
	if err != nil {
		return Record{}, err
	}
	parent, _ := o.Parent()
	t, q := o.pose.Translation, o.pose.Rotation
	return Record{
		Handle:      h,
		Parent:      parent,
		Shape:       sr,
		Translation: [3]float32{t.X, t.Y, t.Z},
		Rotation:    [4]float32{q.X, q.Y, q.Z, q.W},
		Flags:       o.flags,
		UserData:    o.UserData,
	}, nil
}

// Object rebuilds the SceneObject the record describes, without its parent
// link.
func (r Record) Object() (SceneObject, error) {
	shape, err := r.Shape.Shape()
	if err != nil {
		return SceneObject{}, err
	}
	b := NewObjectBuilder(shape).
		WithPose(geom.Pose{
			Translation: geom.V3(r.Translation[0], r.Translation[1], r.Translation[2]),
			Rotation:    geom.Quat{X: r.Rotation[0], Y: r.Rotation[1], Z: r.Rotation[2], W: r.Rotation[3]},
		}).
		WithFlags(r.Flags).
		WithUserData(r.UserData)
	return b.Build(), nil
}

// WriteSnapshot writes one JSON record per live object to w, in handle
// order.
func (s *ObjectSet) WriteSnapshot(w io.Writer) error {
	enc := jsontext.NewEncoder(w)
	for h, obj := range s.All() {
		rec, err := obj.record(h)
		if err != nil {
			return err
		}
		if err := json.MarshalEncode(enc, rec); err != nil {
			return fmt.Errorf("scene: write snapshot: %w", err)
		}
	}
	return nil
}

// ReadSnapshot decodes the records written by WriteSnapshot.
func ReadSnapshot(r io.Reader) ([]Record, error) {
	dec := jsontext.NewDecoder(r)
	var records []Record
	for dec.PeekKind() != 0 {
		var rec Record
		if err := json.UnmarshalDecode(dec, &rec); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
		}
		records = append(records, rec)
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected trailing data")
		}
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	return records, nil
}

// Restore inserts the objects described by records and relinks parents
// among them. Handles are not preserved; the returned map translates each
// record's handle to the handle of the restored object. Parents outside
// the record set are dropped.
//
// Nothing is inserted if any record is malformed.
func (s *ObjectSet) Restore(records []Record) (map[Handle]Handle, error) {
	objs := make([]SceneObject, len(records))
	for i, rec := range records {
		obj, err := rec.Object()
		if err != nil {
			return nil, fmt.Errorf("record %v: %w", rec.Handle, err)
		}
		objs[i] = obj
	}
	mapping := make(map[Handle]Handle, len(records))
	for i, rec := range records {
		mapping[rec.Handle] = s.Insert(objs[i])
	}
	for _, rec := range records {
		if rec.Parent.isNone() {
			continue
		}
		if parent, ok := mapping[rec.Parent]; ok {
			s.SetParent(mapping[rec.Handle], parent)
		}
	}
	return mapping, nil
}
