package scene

import (
	"log/slog"

	"github.com/edwinsyarief/kukan/broadphase"
)

// SyncStats counts what a Synchronizer applied in one pass.
type SyncStats struct {
	Inserted int // handles that gained a proxy
	Updated  int // handles whose proxy was refreshed
	Removed  int // proxies dropped
	Skipped  int // logged handles that no longer resolve
}

// Synchronizer mirrors an ObjectSet into a broad-phase index by draining the
// set's change logs.
type Synchronizer struct {
	Tree   *broadphase.SweepAndPrune[Handle]
	logger *slog.Logger
}

// NewSynchronizer creates a Synchronizer with an empty index. A nil logger
// discards output.
func NewSynchronizer(logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{
		Tree:   broadphase.New[Handle](),
		logger: logger,
	}
}

// Sync applies and then empties set.RemovedObjects and set.ChangedObjects.
// Removals are applied first, so an object inserted and removed within the
// same pass never reaches the index.
func (sy *Synchronizer) Sync(set *ObjectSet) SyncStats {
	var stats SyncStats
	for _, h := range set.RemovedObjects {
		if sy.Tree.Remove(h) {
			stats.Removed++
		}
	}
	for _, h := range set.ChangedObjects {
		obj, ok := set.Get(h)
		if !ok {
			stats.Skipped++
			sy.logger.Debug("skipping stale handle", "handle", h.String())
			continue
		}
		if sy.Tree.Contains(h) {
			stats.Updated++
		} else {
			stats.Inserted++
		}
		sy.Tree.Insert(h, obj.AABB())
	}
	set.RemovedObjects = set.RemovedObjects[:0]
	set.ChangedObjects = set.ChangedObjects[:0]
	sy.logger.Debug("sync complete",
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"removed", stats.Removed,
		"skipped", stats.Skipped,
		"proxies", sy.Tree.Len(),
	)
	return stats
}

// Overlaps calls fn for every pair of synchronized objects whose bounds
// intersect. Iteration stops when fn returns false.
func (sy *Synchronizer) Overlaps(fn func(a, b Handle) bool) {
	sy.Tree.Pairs(fn)
}
