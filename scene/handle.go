package scene

import "github.com/edwinsyarief/kukan"

// Handle refers to a SceneObject stored in an ObjectSet. It wraps the
// arena's Index so handles for scene objects cannot be confused with
// handles into other spaces.
type Handle struct {
	kukan.Index
}

// NoHandle returns the sentinel handle meaning "no object".
func NoHandle() Handle {
	return Handle{Index: kukan.InvalidIndex()}
}

// Sentinel returns NoHandle.
func (Handle) Sentinel() Handle {
	return NoHandle()
}

// isNone reports whether h is the sentinel or the zero Handle; neither is
// ever issued by an ObjectSet.
func (h Handle) isNone() bool {
	return h.IsInvalid() || h == Handle{}
}
