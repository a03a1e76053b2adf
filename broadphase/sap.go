// Package broadphase implements a sweep-and-prune broad phase keyed by
// generational handles.
//
// Proxies live in a dense slice indexed by the key's DenseIndex, so a
// kukan.Index (or any handle built on it) addresses its proxy directly with
// no second lookup table. Empty proxy slots hold the key type's sentinel.
package broadphase

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/edwinsyarief/kukan"
	"github.com/edwinsyarief/kukan/geom"
	"github.com/google/btree"
)

// degree of the sweep-axis btree.
const degree = 32

type proxy[K any] struct {
	key K
	box geom.AABB
}

// endpoint is a proxy's lower bound on the sweep axis (X).
type endpoint struct {
	min   float32
	dense int
}

func lessEndpoint(a, b endpoint) bool {
	if a.min != b.min {
		return a.min < b.min
	}
	return a.dense < b.dense
}

// SweepAndPrune stores one bounding box per key and answers overlap queries
// by sweeping the boxes sorted along the X axis.
//
// A slot that is reused by a key with the same dense index but a different
// value (a newer generation) replaces the old proxy; the stale key is no
// longer found.
type SweepAndPrune[K kukan.IndexedData[K]] struct {
	proxies  []proxy[K]
	live     *roaring.Bitmap
	axis     *btree.BTreeG[endpoint]
	sentinel K
}

// New creates an empty SweepAndPrune.
func New[K kukan.IndexedData[K]]() *SweepAndPrune[K] {
	var zero K
	return &SweepAndPrune[K]{
		live:     roaring.New(),
		axis:     btree.NewG(degree, lessEndpoint),
		sentinel: zero.Sentinel(),
	}
}

// Len returns the number of stored proxies.
func (sp *SweepAndPrune[K]) Len() int {
	return int(sp.live.GetCardinality())
}

// Insert stores box under key, replacing any proxy at the same dense index.
//
// Parameters:
//   - key: The proxy key. It must not be the sentinel.
//   - box: The bounding box. It must be valid.
func (sp *SweepAndPrune[K]) Insert(key K, box geom.AABB) {
	if key == sp.sentinel {
		panic("broadphase: cannot insert the sentinel key")
	}
	if !box.IsValid() {
		panic("broadphase: invalid bounding box")
	}
	d := key.DenseIndex()
	if d < 0 || uint64(d) >= math.MaxUint32 {
		panic("broadphase: dense index out of range")
	}
	for len(sp.proxies) <= d {
		sp.proxies = append(sp.proxies, proxy[K]{key: sp.sentinel})
	}
	if sp.live.Contains(uint32(d)) {
		sp.axis.Delete(endpoint{min: sp.proxies[d].box.Min.X, dense: d})
	}
	sp.proxies[d] = proxy[K]{key: key, box: box}
	sp.axis.ReplaceOrInsert(endpoint{min: box.Min.X, dense: d})
	sp.live.Add(uint32(d))
}

// find returns the live proxy stored under exactly key.
func (sp *SweepAndPrune[K]) find(key K) (*proxy[K], int) {
	if key == sp.sentinel {
		return nil, -1
	}
	d := key.DenseIndex()
	if d < 0 || d >= len(sp.proxies) {
		return nil, -1
	}
	p := &sp.proxies[d]
	if p.key != key {
		return nil, -1
	}
	return p, d
}

// Remove deletes the proxy stored under key.
//
// Returns:
//   - false if key is unknown or stale.
func (sp *SweepAndPrune[K]) Remove(key K) bool {
	p, d := sp.find(key)
	if p == nil {
		return false
	}
	sp.axis.Delete(endpoint{min: p.box.Min.X, dense: d})
	*p = proxy[K]{key: sp.sentinel}
	sp.live.Remove(uint32(d))
	return true
}

// Get returns the box stored under key.
func (sp *SweepAndPrune[K]) Get(key K) (geom.AABB, bool) {
	p, _ := sp.find(key)
	if p == nil {
		return geom.AABB{}, false
	}
	return p.box, true
}

// Contains reports whether a proxy is stored under key.
func (sp *SweepAndPrune[K]) Contains(key K) bool {
	p, _ := sp.find(key)
	return p != nil
}

// Query calls fn for every key whose box intersects box, in ascending order
// of the boxes' lower X bound. Iteration stops when fn returns false.
func (sp *SweepAndPrune[K]) Query(box geom.AABB, fn func(K) bool) {
	pivot := endpoint{min: box.Max.X, dense: math.MaxInt}
	sp.axis.AscendLessThan(pivot, func(e endpoint) bool {
		p := &sp.proxies[e.dense]
		if !p.box.Intersects(box) {
			return true
		}
		return fn(p.key)
	})
}

// Pairs calls fn once for every pair of keys whose boxes intersect. The
// first key of a pair is the one with the lower X bound. Iteration stops
// when fn returns false.
func (sp *SweepAndPrune[K]) Pairs(fn func(a, b K) bool) {
	active := make([]int, 0, 16)
	sp.axis.Ascend(func(e endpoint) bool {
		cur := &sp.proxies[e.dense]
		n := 0
		for _, d := range active {
			if sp.proxies[d].box.Max.X >= e.min {
				active[n] = d
				n++
			}
		}
		active = active[:n]
		for _, d := range active {
			other := &sp.proxies[d]
			if other.box.Intersects(cur.box) && !fn(other.key, cur.key) {
				return false
			}
		}
		active = append(active, e.dense)
		return true
	})
}

// Keys returns the stored keys in ascending dense-index order.
func (sp *SweepAndPrune[K]) Keys() []K {
	keys := make([]K, 0, sp.Len())
	it := sp.live.Iterator()
	for it.HasNext() {
		keys = append(keys, sp.proxies[it.Next()].key)
	}
	return keys
}

// Clear removes every proxy.
func (sp *SweepAndPrune[K]) Clear() {
	sp.proxies = sp.proxies[:0]
	sp.live.Clear()
	sp.axis.Clear(false)
}
